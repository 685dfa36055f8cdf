// Package pkg provides the core libraries for panelgrid figure layouts.
//
// # Overview
//
// Panelgrid interprets compact layout codes into resolved panel grids for
// multi-panel scientific figures. A code such as "aab/aac/ddd" describes a
// 3x3 grid where panel a spans a 2x2 block, b and c stack on the right and d
// runs along the bottom. The pkg directory is organized into these areas:
//
//  1. [core] - Domain logic (tokenizer, parser, grid resolution, diagnostics)
//  2. [layout] - The public entry point: parse, validate and serialize outcomes
//  3. [pipeline] - Orchestration (interpret → render) with caching
//  4. [render] - Wireframe and structure previews of a resolved grid
//  5. [cache], [config], [templates], [observability] - Supporting services
//
// # Architecture
//
// The typical data flow through panelgrid:
//
//	Layout code
//	     ↓
//	[core/layoutcode] package (tokenize + parse into a syntax tree)
//	     ↓
//	[core/grid] package (resolve rows, compositions, subpanels, insets)
//	     ↓
//	[layout] package (validate, collect diagnostics, build the Outcome)
//	     ↓
//	JSON/YAML outcome, wireframe SVG, DOT, structure SVG
//
// # Quick Start
//
//	out := layout.Parse("[top:ab]/cc")
//	if !out.Valid {
//	    for _, d := range out.Diagnostics {
//	        fmt.Println(d)
//	    }
//	}
//	p, _ := out.Grid.Find("c")
//	fmt.Println(p.Bounds) // {0 0.5 1 0.5}
//
// # Main Packages
//
// [core/layoutcode] - Tokenizer and recursive-descent parser for the layout
// code grammar: rows, compositions with "+" and "|", subpanel specs
// ("a[2x2]", "a[i,ii]"), insets ("{x,y,w,h}", "<ab/cd>") and named regions
// ("[name:...]").
//
// [core/grid] - Resolution of the syntax tree into a [grid.PanelGrid] with
// fractional bounds for every panel, subpanel, inset and region.
//
// [core/diag] - Structured diagnostics with codes, offsets and severities.
//
// [errors] - Error codes and categories shared by every layer.
//
// [pipeline] - Interpretation and rendering with outcome and artifact
// caching, used by both the CLI and the HTTP service.
//
// [cache] - File, Redis, MongoDB and null cache backends with content keys.
//
// [templates] - Built-in figure templates and loaders for TOML, YAML and
// HCL template files.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/core/grid/...          # Specific package
//	go test -run Example ./pkg/layout    # Examples only
//
// [core]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/core
// [core/layoutcode]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/core/layoutcode
// [core/grid]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/core/grid
// [core/diag]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/core/diag
// [grid.PanelGrid]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/core/grid#PanelGrid
// [layout]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/pipeline
// [render]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/render
// [cache]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/cache
// [config]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/config
// [templates]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/templates
// [observability]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/observability
// [errors]: https://pkg.go.dev/github.com/matzehuels/panelgrid/pkg/errors
package pkg
