package tree

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/panelgrid/pkg/core/grid"
)

// Options configures the diagram.
type Options struct {
	// Detailed adds grid positions and bounds to node labels.
	Detailed bool
}

// RootID is the DOT node id of the figure.
const RootID = "figure"

// ToDOT converts g to Graphviz DOT. A nil grid yields a diagram holding only
// the figure node.
func ToDOT(g *grid.PanelGrid, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	label := "figure"
	if g != nil {
		label = fmt.Sprintf("figure\n%dx%d", g.NRows, g.NCols)
	}
	fmt.Fprintf(&buf, "  %q [label=%q, shape=folder, fillcolor=lightblue];\n", RootID, label)

	if g != nil {
		w := &writer{buf: &buf, opts: opts}
		w.grid(g, RootID, "")
	}

	buf.WriteString("}\n")
	return buf.String()
}

type writer struct {
	buf  *bytes.Buffer
	opts Options
}

// grid writes g's regions and panels under parent. scope namespaces node ids
// of nested inset grids.
func (w *writer) grid(g *grid.PanelGrid, parent, scope string) {
	owner := make(map[string]string)
	for _, name := range g.RegionNames() {
		reg := g.Regions[name]
		id := nodeID(scope, "region:"+name)
		fmt.Fprintf(w.buf, "  %q [label=%q, shape=tab, fillcolor=lightyellow];\n", id, "["+name+"]")
		for _, l := range reg.Labels {
			// Regions are visited in name order; keep the smallest region
			// that contains the label.
			if prev, ok := owner[l]; !ok || area(g.Regions[prev]) > area(reg) {
				owner[l] = name
			}
		}
	}
	for _, name := range g.RegionNames() {
		fmt.Fprintf(w.buf, "  %q -> %q;\n", parentOfRegion(g, name, parent, scope), nodeID(scope, "region:"+name))
	}

	for _, label := range g.Labels() {
		p := g.Panels[label]
		from := parent
		if name, ok := owner[label]; ok {
			from = nodeID(scope, "region:"+name)
		}
		w.panel(p, from, scope)
	}
}

// parentOfRegion returns the node id of the smallest region strictly
// containing name, or parent.
func parentOfRegion(g *grid.PanelGrid, name, parent, scope string) string {
	reg := g.Regions[name]
	best := ""
	for _, other := range g.RegionNames() {
		if other == name {
			continue
		}
		o := g.Regions[other]
		if area(o) <= area(reg) || !contains(o, reg) {
			continue
		}
		if best == "" || area(o) < area(g.Regions[best]) {
			best = other
		}
	}
	if best == "" {
		return parent
	}
	return nodeID(scope, "region:"+best)
}

func (w *writer) panel(p *grid.Panel, parent, scope string) {
	id := nodeID(scope, p.ID)
	fmt.Fprintf(w.buf, "  %q [%s];\n", id, strings.Join(w.panelAttrs(p), ", "))
	fmt.Fprintf(w.buf, "  %q -> %q;\n", parent, id)

	for _, c := range p.Children {
		w.panel(c, id, scope)
	}

	for i, in := range p.Insets {
		name := in.Name
		if name == "" {
			name = strconv.Itoa(i + 1)
		}
		inID := id + "#" + name
		switch in.Kind {
		case grid.InsetAbsolute:
			label := "inset " + name
			if w.opts.Detailed {
				label += "\n" + fmtRect(in.Bounds)
			}
			fmt.Fprintf(w.buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", inID, label)
			fmt.Fprintf(w.buf, "  %q -> %q [style=dashed];\n", id, inID)
		case grid.InsetNested:
			fmt.Fprintf(w.buf, "  %q [label=%q, style=\"rounded,filled,dashed\", fillcolor=lightgrey];\n", inID, "<"+name+">")
			fmt.Fprintf(w.buf, "  %q -> %q [style=dashed];\n", id, inID)
			if in.Grid != nil {
				w.grid(in.Grid, inID, in.Scope)
			}
		}
	}
}

func (w *writer) panelAttrs(p *grid.Panel) []string {
	label := p.ID
	if w.opts.Detailed {
		label += fmt.Sprintf("\nr%d c%d %dx%d\n%s", p.Row, p.Col, p.RowSpan, p.ColSpan, fmtRect(p.Bounds))
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if p.Subgrid != nil {
		attrs = append(attrs, "fillcolor=honeydew")
	}
	return attrs
}

func nodeID(scope, id string) string {
	if scope == "" {
		return id
	}
	return scope + "." + id
}

func area(r *grid.Region) int { return r.RowSpan * r.ColSpan }

func contains(outer, inner *grid.Region) bool {
	return inner.Row >= outer.Row && inner.Col >= outer.Col &&
		inner.Row+inner.RowSpan <= outer.Row+outer.RowSpan &&
		inner.Col+inner.ColSpan <= outer.Col+outer.ColSpan
}

func fmtRect(r grid.Rect) string {
	f := func(v float64) string { return strconv.FormatFloat(v, 'g', 3, 64) }
	return fmt.Sprintf("(%s, %s) %s×%s", f(r.X), f(r.Y), f(r.W), f(r.H))
}

// RenderSVG lays out a DOT graph with Graphviz and returns SVG bytes.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with a
// viewBox anchored at the origin so the diagram scales in a browser.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
