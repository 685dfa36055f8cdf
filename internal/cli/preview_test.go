package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/panelgrid/pkg/layout"
	"github.com/matzehuels/panelgrid/pkg/templates"
)

func typeKeys(m previewModel, s string) previewModel {
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	return next.(previewModel)
}

func press(m previewModel, k tea.KeyType) (previewModel, tea.Cmd) {
	next, cmd := m.Update(tea.KeyMsg{Type: k})
	return next.(previewModel), cmd
}

func newTestPreview(code string) previewModel {
	reg := templates.NewRegistry()
	return newPreviewModel(layout.MustNewParser(layout.DefaultLimits()), reg.List(templates.Filter{}), code)
}

func TestPreviewTyping(t *testing.T) {
	m := newTestPreview("")
	if !strings.Contains(m.View(), "Layout Preview") {
		t.Error("empty view should still show the title")
	}

	m = typeKeys(m, "ab")
	m, _ = press(m, tea.KeyEnter)
	m = typeKeys(m, "cd")
	if m.code != "ab\ncd" {
		t.Fatalf("code = %q", m.code)
	}
	if !m.outcome.Valid || len(m.outcome.Grid.Panels) != 4 {
		t.Fatalf("outcome = %+v", m.outcome)
	}
	if v := m.View(); !strings.Contains(v, "valid") || !strings.Contains(v, "+---------+---------+") {
		t.Errorf("view:\n%s", v)
	}

	m, _ = press(m, tea.KeyBackspace)
	if m.code != "ab\nc" || m.outcome.Valid {
		t.Errorf("after backspace code = %q valid = %v", m.code, m.outcome.Valid)
	}
	if !strings.Contains(m.View(), "ROW_LENGTH_MISMATCH") {
		t.Error("view should list diagnostics")
	}

	m, _ = press(m, tea.KeyCtrlU)
	if m.code != "" {
		t.Errorf("ctrl+u left %q", m.code)
	}
}

func TestPreviewTolerant(t *testing.T) {
	m := newTestPreview("a{0.9,0.9,0.2,0.2}b/cd")
	if m.outcome.Valid {
		t.Fatal("inset out of bounds should be invalid")
	}
	if m.outcome.Grid == nil {
		t.Fatal("preview keeps the partial grid")
	}
}

func TestPreviewTemplates(t *testing.T) {
	m := newTestPreview("")
	m, _ = press(m, tea.KeyCtrlN)
	first := m.templates[0]
	if m.code != first.Code || m.tmplName != first.Name {
		t.Errorf("ctrl+n loaded %q (%s), want %q", m.code, m.tmplName, first.Code)
	}
	if !strings.Contains(m.View(), first.Name) {
		t.Error("view should name the template")
	}

	m, _ = press(m, tea.KeyCtrlP)
	last := m.templates[len(m.templates)-1]
	if m.code != last.Code {
		t.Errorf("ctrl+p should wrap to the last template, got %q", m.code)
	}

	m = typeKeys(m, "x")
	if m.tmplName != "" {
		t.Error("editing should clear the template name")
	}
}

func TestPreviewQuit(t *testing.T) {
	m := newTestPreview("ab")
	_, cmd := press(m, tea.KeyEsc)
	if cmd == nil {
		t.Fatal("esc should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("esc should quit")
	}
}
