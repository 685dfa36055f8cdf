// Package diag collects structured diagnostics produced while parsing and
// resolving layout codes.
//
// A [Diagnostic] is the serializable form of a [errors.Error]: it keeps the
// machine-readable code, the message, the byte offset into the layout code and
// a severity. A [List] accumulates diagnostics across pipeline stages so a
// single parse call can report every structural and range problem it finds.
package diag

import (
	"cmp"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/matzehuels/panelgrid/pkg/errors"
)

// Severity classifies how a diagnostic affects the outcome.
type Severity string

const (
	// SeverityError marks the layout as invalid.
	SeverityError Severity = "error"
	// SeverityWarning is reported but leaves the layout valid.
	SeverityWarning Severity = "warning"
)

// Diagnostic describes a single problem found in a layout code.
type Diagnostic struct {
	Code     errors.Code `json:"code" yaml:"code" bson:"code"`
	Message  string      `json:"message" yaml:"message" bson:"message"`
	Offset   int         `json:"offset" yaml:"offset" bson:"offset"`
	Severity Severity    `json:"severity" yaml:"severity" bson:"severity"`
	Line     int         `json:"line,omitempty" yaml:"line,omitempty" bson:"line,omitempty"`
	Label    string      `json:"label,omitempty" yaml:"label,omitempty" bson:"label,omitempty"`
	Scope    string      `json:"scope,omitempty" yaml:"scope,omitempty" bson:"scope,omitempty"`
}

// IsError reports whether the diagnostic invalidates the layout.
func (d Diagnostic) IsError() bool { return d.Severity == SeverityError }

// String formats the diagnostic for terminal output.
func (d Diagnostic) String() string {
	var b strings.Builder
	b.WriteString(string(d.Severity))
	b.WriteString(" ")
	b.WriteString(string(d.Code))
	if d.Offset >= 0 {
		b.WriteString(" @")
		b.WriteString(strconv.Itoa(d.Offset))
	}
	b.WriteString(": ")
	b.WriteString(d.Message)
	return b.String()
}

// FromError converts err into an error-severity diagnostic.
// Errors that are not an *errors.Error become INTERNAL_ERROR diagnostics.
func FromError(err error) Diagnostic {
	return fromError(err, SeverityError)
}

// WarningFromError converts err into a warning diagnostic.
func WarningFromError(err error) Diagnostic {
	return fromError(err, SeverityWarning)
}

func fromError(err error, sev Severity) Diagnostic {
	var e *errors.Error
	if !errors.As(err, &e) {
		return Diagnostic{
			Code:     errors.ErrCodeInternal,
			Message:  err.Error(),
			Offset:   errors.NoOffset,
			Severity: sev,
		}
	}
	return Diagnostic{
		Code:     e.Code,
		Message:  e.Message,
		Offset:   e.Offset,
		Severity: sev,
		Line:     e.Line,
		Label:    e.Label,
		Scope:    e.Scope,
	}
}

// List accumulates diagnostics. The zero value is ready to use.
type List struct {
	items []Diagnostic
}

// Error records err as an error-severity diagnostic.
func (l *List) Error(err error) {
	l.items = append(l.items, FromError(err))
}

// Warn records err as a warning.
func (l *List) Warn(err error) {
	l.items = append(l.items, WarningFromError(err))
}

// Add appends already-built diagnostics.
func (l *List) Add(ds ...Diagnostic) {
	l.items = append(l.items, ds...)
}

// HasErrors reports whether any error-severity diagnostic was recorded.
func (l *List) HasErrors() bool {
	return HasErrors(l.items)
}

// Len returns the number of recorded diagnostics.
func (l *List) Len() int { return len(l.items) }

// Items returns the diagnostics sorted by offset, then code. Diagnostics
// without an offset sort last. The returned slice is a copy.
func (l *List) Items() []Diagnostic {
	out := slices.Clone(l.items)
	slices.SortStableFunc(out, func(a, b Diagnostic) int {
		ao, bo := a.Offset, b.Offset
		if ao < 0 {
			ao = math.MaxInt
		}
		if bo < 0 {
			bo = math.MaxInt
		}
		if c := cmp.Compare(ao, bo); c != 0 {
			return c
		}
		return cmp.Compare(a.Code, b.Code)
	})
	if out == nil {
		out = []Diagnostic{}
	}
	return out
}

// HasErrors reports whether ds contains an error-severity diagnostic.
func HasErrors(ds []Diagnostic) bool {
	return slices.ContainsFunc(ds, Diagnostic.IsError)
}

// Count returns the number of errors and warnings in ds.
func Count(ds []Diagnostic) (errs, warnings int) {
	for _, d := range ds {
		if d.IsError() {
			errs++
		} else {
			warnings++
		}
	}
	return errs, warnings
}
