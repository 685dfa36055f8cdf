// Package wireframe draws a resolved panel grid as an SVG wireframe.
//
// Every panel is drawn as an outlined box at its resolved bounds with its
// qualified ID as a label. Subpanels are drawn inside their parent, absolute
// insets as dashed boxes, nested inset grids recursively inside their panel,
// named regions as dotted outlines, and gap cells as hatched boxes.
package wireframe

import (
	"bytes"
	"fmt"
	"html"

	"github.com/matzehuels/panelgrid/pkg/core/grid"
)

// Default drawing size in pixels.
const (
	DefaultWidth  = 800.0
	DefaultHeight = 600.0
)

// Theme is a palette.
type Theme struct {
	Name       string
	Background string
	Panel      string
	Stroke     string
	Subpanel   string
	Inset      string
	Region     string
	Gap        string
	Text       string
}

// Built-in themes.
var (
	Light = Theme{
		Name:       "light",
		Background: "#ffffff",
		Panel:      "#f4f6f8",
		Stroke:     "#333333",
		Subpanel:   "#e3e8ee",
		Inset:      "#fff7e0",
		Region:     "#1f77b4",
		Gap:        "#cccccc",
		Text:       "#222222",
	}
	Dark = Theme{
		Name:       "dark",
		Background: "#1e1e1e",
		Panel:      "#2b2f36",
		Stroke:     "#c8c8c8",
		Subpanel:   "#3a404a",
		Inset:      "#4a4130",
		Region:     "#6cb6ff",
		Gap:        "#555555",
		Text:       "#eeeeee",
	}
)

// Themes lists the built-in themes by name.
var Themes = map[string]Theme{
	Light.Name: Light,
	Dark.Name:  Dark,
}

// SVGOption configures RenderSVG.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	width, height float64
	theme         Theme
	labels        bool
}

func WithSize(w, h float64) SVGOption {
	return func(r *svgRenderer) {
		if w > 0 {
			r.width = w
		}
		if h > 0 {
			r.height = h
		}
	}
}
func WithTheme(t Theme) SVGOption { return func(r *svgRenderer) { r.theme = t } }
func WithLabels(show bool) SVGOption {
	return func(r *svgRenderer) { r.labels = show }
}

// px is a rectangle in pixels.
type px struct{ x, y, w, h float64 }

func (p px) sub(r grid.Rect) px {
	return px{x: p.x + r.X*p.w, y: p.y + r.Y*p.h, w: r.W * p.w, h: r.H * p.h}
}

// RenderSVG draws g. A nil grid yields an empty canvas.
func RenderSVG(g *grid.PanelGrid, opts ...SVGOption) []byte {
	r := svgRenderer{width: DefaultWidth, height: DefaultHeight, theme: Light, labels: true}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		r.width, r.height, r.width, r.height)
	r.renderDefs(&buf)
	fmt.Fprintf(&buf, `  <rect class="background" x="0" y="0" width="%.1f" height="%.1f" fill="%s"/>`+"\n",
		r.width, r.height, r.theme.Background)

	if g != nil {
		r.renderGrid(&buf, g, px{0, 0, r.width, r.height}, "")
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) renderDefs(buf *bytes.Buffer) {
	buf.WriteString("  <defs>\n")
	fmt.Fprintf(buf, `    <pattern id="gap-hatch" width="8" height="8" patternUnits="userSpaceOnUse" patternTransform="rotate(45)">`+
		`<line x1="0" y1="0" x2="0" y2="8" stroke="%s" stroke-width="2"/></pattern>`+"\n", r.theme.Gap)
	buf.WriteString("  </defs>\n")
}

// renderGrid draws one grid into frame. scope prefixes element ids of
// nested inset grids.
func (r *svgRenderer) renderGrid(buf *bytes.Buffer, g *grid.PanelGrid, frame px, scope string) {
	for _, pos := range g.Gaps {
		cell := frame.sub(grid.Rect{
			X: float64(pos.Col) / float64(g.NCols),
			Y: float64(pos.Row) / float64(g.NRows),
			W: 1 / float64(g.NCols),
			H: 1 / float64(g.NRows),
		})
		fmt.Fprintf(buf, `  <rect class="gap" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="url(#gap-hatch)"/>`+"\n",
			cell.x, cell.y, cell.w, cell.h)
	}

	for _, label := range g.Labels() {
		r.renderPanel(buf, g.Panels[label], frame, scope, 0)
	}

	for _, name := range g.RegionNames() {
		reg := g.Regions[name]
		box := frame.sub(reg.Bounds)
		fmt.Fprintf(buf, `  <rect class="region" id="region-%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="none" stroke="%s" stroke-width="2" stroke-dasharray="2,4"/>`+"\n",
			attr(scopedID(scope, name)), box.x, box.y, box.w, box.h, r.theme.Region)
		if r.labels {
			fmt.Fprintf(buf, `  <text class="region-label" x="%.2f" y="%.2f" font-family="sans-serif" font-size="11" fill="%s">[%s]</text>`+"\n",
				box.x+4, box.y+box.h-4, r.theme.Region, html.EscapeString(name))
		}
	}
}

func (r *svgRenderer) renderPanel(buf *bytes.Buffer, p *grid.Panel, parent px, scope string, depth int) {
	box := parent.sub(p.Bounds)
	fill := r.theme.Panel
	if depth > 0 {
		fill = r.theme.Subpanel
	}
	id := scopedID(scope, p.ID)
	fmt.Fprintf(buf, `  <rect class="panel" id="panel-%s" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		attr(id), box.x, box.y, box.w, box.h, fill, r.theme.Stroke, strokeWidth(depth))

	for _, c := range p.Children {
		r.renderPanel(buf, c, box, scope, depth+1)
	}

	for _, in := range p.Insets {
		ib := box.sub(in.Bounds)
		switch in.Kind {
		case grid.InsetAbsolute:
			fmt.Fprintf(buf, `  <rect class="inset" x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s" stroke-dasharray="6,3"/>`+"\n",
				ib.x, ib.y, ib.w, ib.h, r.theme.Inset, r.theme.Stroke)
			if r.labels && in.Name != "" {
				r.renderLabel(buf, ib, in.Name, "inset-label")
			}
		case grid.InsetNested:
			if in.Grid != nil {
				r.renderGrid(buf, in.Grid, ib, in.Scope)
			}
		}
	}

	if r.labels && len(p.Children) == 0 {
		r.renderLabel(buf, box, p.ID, "panel-label")
	}
}

func (r *svgRenderer) renderLabel(buf *bytes.Buffer, box px, text, class string) {
	size := min(box.w, box.h) / 4
	size = max(8, min(size, 32))
	fmt.Fprintf(buf, `  <text class="%s" x="%.2f" y="%.2f" font-family="sans-serif" font-size="%.1f" font-weight="bold" fill="%s">%s</text>`+"\n",
		class, box.x+size/2, box.y+size*1.2, size, r.theme.Text, html.EscapeString(text))
}

func strokeWidth(depth int) float64 {
	return max(0.5, 2-0.5*float64(depth))
}

func scopedID(scope, id string) string {
	if scope == "" {
		return id
	}
	return scope + "." + id
}

func attr(s string) string {
	return html.EscapeString(s)
}
