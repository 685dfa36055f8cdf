package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/panelgrid/pkg/core/diag"
	"github.com/matzehuels/panelgrid/pkg/core/grid"
	"github.com/matzehuels/panelgrid/pkg/pipeline"
	"github.com/matzehuels/panelgrid/pkg/templates"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleCached   = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Stats Display
// =============================================================================

// printStats prints outcome statistics on a single line.
func printStats(stats pipeline.Stats, cached bool) {
	parts := []string{fmt.Sprintf("%d panels", stats.Panels)}
	if stats.Errors > 0 {
		parts = append(parts, fmt.Sprintf("%d errors", stats.Errors))
	}
	if stats.Warnings > 0 {
		parts = append(parts, fmt.Sprintf("%d warnings", stats.Warnings))
	}

	status := iconFresh
	statusStyle := styleComputed
	if cached {
		status = iconCached
		statusStyle = styleCached
	}
	parts = append(parts, statusStyle.Render(status))

	line := "  "
	for i, part := range parts {
		if i > 0 {
			line += StyleDim.Render(" · ")
		}
		line += StyleDim.Render(part)
	}
	fmt.Println(line)
}

// =============================================================================
// Diagnostics
// =============================================================================

// writeDiagnostics writes one line per diagnostic, with a caret under the
// offending byte of code when the offset is known.
func writeDiagnostics(w io.Writer, code string, ds []diag.Diagnostic) {
	for _, d := range ds {
		icon, style := styleIconError.Render(iconError), styleIconError
		if !d.IsError() {
			icon, style = styleIconWarning.Render(iconWarning), styleIconWarning
		}
		where := ""
		if d.Offset >= 0 {
			where = StyleDim.Render(fmt.Sprintf(" @%d", d.Offset))
		}
		fmt.Fprintf(w, "%s %s%s %s\n", icon, style.Render(string(d.Code)), where, d.Message)
		if d.Offset >= 0 && d.Offset <= len(code) && !strings.Contains(code, "\n") {
			fmt.Fprintf(w, "    %s\n", StyleValue.Render(code))
			fmt.Fprintf(w, "    %s%s\n", strings.Repeat(" ", d.Offset), style.Render("^"))
		}
	}
}

// =============================================================================
// Tables
// =============================================================================

// templateTable renders templates as a bordered table.
func templateTable(list []templates.Template) string {
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	rows := make([][]string, 0, len(list))
	for _, t := range list {
		rows = append(rows, []string{t.Name, t.Code, strconv.Itoa(t.Panels), t.Category, t.Size})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Name", "Code", "Panels", "Category", "Size").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == -1:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorCyan)
			case col == 1:
				return lipgloss.NewStyle().Foreground(colorWhite)
			}
			return lipgloss.NewStyle().Foreground(colorGray)
		}).
		String()
}

// writeKeyValue writes a labeled value.
func writeKeyValue(w io.Writer, key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Fprintln(w, keyStyle.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// ASCII Grid
// =============================================================================

// asciiGrid draws the top-level panels of g as boxes, each grid cell cellW
// characters wide and cellH lines tall. Panels with subpanels show their
// subgrid shape; panels with insets are marked with "*". Gap cells show ".".
func asciiGrid(g *grid.PanelGrid, cellW, cellH int) string {
	if g == nil || g.NRows == 0 || g.NCols == 0 {
		return StyleDim.Render("(no grid)")
	}
	h, w := g.NRows*cellH+1, g.NCols*cellW+1
	canvas := make([][]rune, h)
	for i := range canvas {
		canvas[i] = []rune(strings.Repeat(" ", w))
	}

	set := func(r, c int, ch rune) {
		cur := canvas[r][c]
		if cur == '+' || (cur == '-' && ch == '|') || (cur == '|' && ch == '-') {
			ch = '+'
		}
		canvas[r][c] = ch
	}

	for _, label := range g.Labels() {
		p := g.Panels[label]
		r0, c0 := p.Row*cellH, p.Col*cellW
		r1, c1 := (p.Row+p.RowSpan)*cellH, (p.Col+p.ColSpan)*cellW
		for c := c0; c <= c1; c++ {
			set(r0, c, '-')
			set(r1, c, '-')
		}
		for r := r0; r <= r1; r++ {
			set(r, c0, '|')
			set(r, c1, '|')
		}
		for _, rc := range [][2]int{{r0, c0}, {r0, c1}, {r1, c0}, {r1, c1}} {
			canvas[rc[0]][rc[1]] = '+'
		}

		text := []rune(panelCaption(p))
		if limit := max(c1-c0-1, 0); len(text) > limit {
			text = text[:limit]
		}
		row := (r0 + r1) / 2
		start := (c0+c1)/2 - len(text)/2
		for i, ch := range text {
			canvas[row][start+i] = ch
		}
	}

	for _, pos := range g.Gaps {
		canvas[pos.Row*cellH+cellH/2][pos.Col*cellW+cellW/2] = '.'
	}

	lines := make([]string, h)
	for i, line := range canvas {
		lines[i] = strings.TrimRight(string(line), " ")
	}
	return strings.Join(lines, "\n")
}

func panelCaption(p *grid.Panel) string {
	s := p.Label
	if p.Subgrid != nil {
		s += fmt.Sprintf("[%dx%d]", p.Subgrid.Rows, p.Subgrid.Cols)
	}
	if len(p.Insets) > 0 {
		s += "*"
	}
	return s
}
