// Package templates provides named layout codes for common multi-panel
// figure arrangements.
//
// A [Registry] holds templates keyed by name. [NewRegistry] starts with the
// built-in set; user templates are added from TOML, YAML or HCL files with
// [Registry.LoadFile]. Every template's code is interpreted when it is added
// so a registry never holds a layout that fails to parse.
//
//	reg := templates.NewRegistry()
//	for _, t := range reg.List(templates.Filter{Panels: 4}) {
//	    fmt.Println(t.Name, t.Code)
//	}
package templates

import (
	"cmp"
	"maps"
	"slices"
	"sync"

	"github.com/matzehuels/panelgrid/pkg/errors"
	"github.com/matzehuels/panelgrid/pkg/layout"
)

// Template categories.
const (
	CategoryBasic       = "basic"
	CategoryGrid        = "grid"
	CategoryComplex     = "complex"
	CategorySpecialized = "specialized"
)

// Recommended figure widths.
const (
	SizeSingle = "single"
	SizeDouble = "double"
)

// Template is a named layout code.
type Template struct {
	Name        string `json:"name" yaml:"name" toml:"name"`
	Code        string `json:"code" yaml:"code" toml:"code"`
	Description string `json:"description" yaml:"description" toml:"description"`
	Panels      int    `json:"panels" yaml:"panels" toml:"panels"`
	Size        string `json:"recommended_size" yaml:"recommended_size" toml:"recommended_size"`
	Category    string `json:"category" yaml:"category" toml:"category"`
	Use         string `json:"recommended_use,omitempty" yaml:"recommended_use,omitempty" toml:"recommended_use"`
}

// Filter selects templates. Zero fields match everything.
type Filter struct {
	Panels   int
	Category string
}

func (f Filter) match(t Template) bool {
	if f.Panels > 0 && t.Panels != f.Panels {
		return false
	}
	if f.Category != "" && t.Category != f.Category {
		return false
	}
	return true
}

// Registry is a concurrency-safe set of templates.
type Registry struct {
	parser *layout.Parser

	mu        sync.RWMutex
	templates map[string]Template
}

// NewRegistry returns a registry holding the built-in templates.
func NewRegistry() *Registry {
	r := NewEmptyRegistry(nil)
	for _, t := range builtins {
		if err := r.Add(t); err != nil {
			panic("templates: bad built-in " + t.Name + ": " + err.Error())
		}
	}
	return r
}

// NewEmptyRegistry returns a registry without templates. Added codes are
// checked with parser, or with the default parser when nil.
func NewEmptyRegistry(parser *layout.Parser) *Registry {
	if parser == nil {
		parser = layout.MustNewParser(layout.DefaultLimits())
	}
	return &Registry{parser: parser, templates: make(map[string]Template)}
}

// Add validates t and stores it, replacing any template of the same name.
// An empty category defaults to basic, an empty size to double, and a zero
// panel count to the number of panels the code resolves to.
func (r *Registry) Add(t Template) error {
	if err := errors.ValidateTemplateName(t.Name); err != nil {
		return err
	}
	out := r.parser.Parse(t.Code, layout.ParseOptions{})
	if !out.Valid {
		d := out.Diagnostics[0]
		return errors.New(errors.ErrCodeInvalidInput, "template %q: %s", t.Name, d.String())
	}

	n := len(out.Grid.Panels)
	if t.Panels == 0 {
		t.Panels = n
	} else if t.Panels != n {
		return errors.New(errors.ErrCodeInvalidInput, "template %q declares %d panels but its code has %d", t.Name, t.Panels, n)
	}
	if t.Category == "" {
		t.Category = CategoryBasic
	}
	if t.Size == "" {
		t.Size = SizeDouble
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.templates[t.Name] = t
	return nil
}

// Get returns the named template or a NOT_FOUND error.
func (r *Registry) Get(name string) (Template, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.templates[name]
	if !ok {
		return Template{}, errors.New(errors.ErrCodeNotFound, "unknown template %q", name)
	}
	return t, nil
}

// List returns the templates matching f, sorted by panel count then name.
func (r *Registry) List(f Filter) []Template {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Template, 0, len(r.templates))
	for _, t := range r.templates {
		if f.match(t) {
			out = append(out, t)
		}
	}
	slices.SortFunc(out, func(a, b Template) int {
		if c := cmp.Compare(a.Panels, b.Panels); c != 0 {
			return c
		}
		return cmp.Compare(a.Name, b.Name)
	})
	return out
}

// Categories returns the distinct categories in sorted order.
func (r *Registry) Categories() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := make(map[string]struct{})
	for _, t := range r.templates {
		set[t.Category] = struct{}{}
	}
	return slices.Sorted(maps.Keys(set))
}

// Len returns the number of templates.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.templates)
}

// Parse interprets the named template's code.
func (r *Registry) Parse(name string) (Template, layout.Outcome, error) {
	t, err := r.Get(name)
	if err != nil {
		return Template{}, layout.Outcome{}, err
	}
	return t, r.parser.Parse(t.Code, layout.ParseOptions{}), nil
}
