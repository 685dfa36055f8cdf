// Package render holds the renderers for resolved panel grids.
//
// Two renderers ship with panelgrid:
//
//   - [wireframe]: an SVG drawing of the figure with every panel, subpanel,
//     inset, region and gap outlined at its resolved bounds
//   - [tree]: a Graphviz diagram of the panel hierarchy (figure, regions,
//     panels, subpanels, insets)
//
// Both take a [grid.PanelGrid] and return bytes; neither mutates the grid.
//
//	svg := wireframe.RenderSVG(g, wireframe.WithSize(800, 600))
//	dot := tree.ToDOT(g)
//	svg, err := tree.RenderSVG(ctx, dot)
package render
