package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/matzehuels/panelgrid/pkg/layout"
	"github.com/matzehuels/panelgrid/pkg/templates"
)

// previewMaxDiagnostics bounds the diagnostics listed under the grid.
const previewMaxDiagnostics = 6

var previewInputStyle = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorDim).
	Padding(0, 1)

var previewCursorStyle = lipgloss.NewStyle().Foreground(colorCyan).Bold(true)

// previewCommand creates the interactive preview command.
func (c *CLI) previewCommand() *cobra.Command {
	var template string

	cmd := &cobra.Command{
		Use:   "preview [code]",
		Short: "Edit a layout code with a live grid preview",
		Long: `Open an interactive editor that re-interprets the layout code on every
keystroke and draws the resulting grid. Invalid input keeps the partial grid.

Keys:
  enter     new row
  ctrl+n/p  next/previous template
  ctrl+u    clear
  esc       quit and print the code`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			parser, err := layout.NewParser(c.cfg.Limits)
			if err != nil {
				return err
			}
			reg, err := c.newRegistry()
			if err != nil {
				return err
			}

			code := ""
			switch {
			case len(args) > 0:
				code = args[0]
			case template != "":
				t, err := reg.Get(template)
				if err != nil {
					return err
				}
				code = t.Code
			}

			m := newPreviewModel(parser, reg.List(templates.Filter{}), code)
			final, err := tea.NewProgram(m, tea.WithContext(cmd.Context()), tea.WithOutput(cmd.ErrOrStderr())).Run()
			if err != nil {
				return fmt.Errorf("preview: %w", err)
			}
			if pm, ok := final.(previewModel); ok && pm.code != "" {
				fmt.Fprintln(cmd.OutOrStdout(), pm.code)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&template, "template", "T", "", "start from a named template")
	_ = cmd.RegisterFlagCompletionFunc("template", c.completeTemplateNames)

	return cmd
}

// previewModel is the bubbletea model for the live layout editor.
type previewModel struct {
	parser    *layout.Parser
	templates []templates.Template
	tmplIdx   int // index of the last template loaded, -1 when none
	tmplName  string

	code    string
	outcome layout.Outcome
	width   int
}

func newPreviewModel(p *layout.Parser, tmpls []templates.Template, code string) previewModel {
	m := previewModel{parser: p, templates: tmpls, tmplIdx: -1, width: 80}
	m.setCode(code)
	return m
}

func (m *previewModel) setCode(code string) {
	m.code = code
	if code == "" {
		m.outcome = layout.Outcome{}
		return
	}
	m.outcome = m.parser.Parse(code, layout.ParseOptions{Tolerant: true})
}

func (m *previewModel) loadTemplate(step int) {
	if len(m.templates) == 0 {
		return
	}
	n := len(m.templates)
	switch {
	case m.tmplIdx < 0 && step > 0:
		m.tmplIdx = 0
	case m.tmplIdx < 0:
		m.tmplIdx = n - 1
	default:
		m.tmplIdx = ((m.tmplIdx+step)%n + n) % n
	}
	t := m.templates[m.tmplIdx]
	m.tmplName = t.Name
	m.setCode(t.Code)
}

func (m previewModel) Init() tea.Cmd {
	return nil
}

func (m previewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEsc, tea.KeyCtrlC:
			return m, tea.Quit
		case tea.KeyEnter:
			m.tmplName = ""
			m.setCode(m.code + "\n")
		case tea.KeyBackspace:
			if r := []rune(m.code); len(r) > 0 {
				m.tmplName = ""
				m.setCode(string(r[:len(r)-1]))
			}
		case tea.KeyCtrlU:
			m.tmplName = ""
			m.setCode("")
		case tea.KeyCtrlN:
			m.loadTemplate(1)
		case tea.KeyCtrlP:
			m.loadTemplate(-1)
		case tea.KeyRunes, tea.KeySpace:
			m.tmplName = ""
			m.setCode(m.code + string(msg.Runes))
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	}
	return m, nil
}

func (m previewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Layout Preview"))
	if m.tmplName != "" {
		b.WriteString(StyleDim.Render("  template " + m.tmplName))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("type a layout code  ⏎ new row  ctrl+n/p templates  esc quit"))
	b.WriteString("\n")

	input := strings.ReplaceAll(m.code, "\n", StyleDim.Render("⏎"))
	b.WriteString(previewInputStyle.Render(input + previewCursorStyle.Render("█")))
	b.WriteString("\n")

	if m.code == "" {
		return b.String()
	}

	b.WriteString(m.status())
	b.WriteString("\n\n")

	if g := m.outcome.Grid; g != nil {
		cellW := max(4, min(10, (m.width-2)/max(g.NCols, 1)))
		b.WriteString(asciiGrid(g, cellW, 2))
		b.WriteString("\n")
	}

	var diags strings.Builder
	ds := m.outcome.Diagnostics
	writeDiagnostics(&diags, m.code, ds[:min(len(ds), previewMaxDiagnostics)])
	b.WriteString(diags.String())
	if len(ds) > previewMaxDiagnostics {
		b.WriteString(StyleDim.Render(fmt.Sprintf("  … %d more", len(ds)-previewMaxDiagnostics)))
		b.WriteString("\n")
	}
	return b.String()
}

func (m previewModel) status() string {
	g := m.outcome.Grid
	shape := ""
	if g != nil {
		shape = fmt.Sprintf(" · %dx%d · %d panels", g.NRows, g.NCols, len(g.Panels))
		if len(g.Regions) > 0 {
			shape += fmt.Sprintf(" · %d regions", len(g.Regions))
		}
	}
	if m.outcome.Valid {
		return styleIconSuccess.Render(iconSuccess) + " " + StyleSuccess.Render("valid") + StyleDim.Render(shape)
	}
	return styleIconError.Render(iconError) + " " + styleIconError.Render("invalid") + StyleDim.Render(shape)
}
