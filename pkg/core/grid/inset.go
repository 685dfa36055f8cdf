package grid

import (
	"strconv"

	"github.com/matzehuels/panelgrid/pkg/core/layoutcode"
	"github.com/matzehuels/panelgrid/pkg/errors"
)

// epsilon absorbs float rounding in x+w and y+h.
const epsilon = 1e-9

// resolveInsets attaches insets to p in declaration order. Absolute insets
// outside the panel are reported and omitted. Nested insets resolve in a
// fresh namespace named after the panel and the inset.
func (r *resolver) resolveInsets(p *Panel, specs []layoutcode.InsetSpec, scope string) {
	for i, in := range specs {
		switch in.Kind {
		case layoutcode.InsetAbsolute:
			if err := checkInset(in); err != nil {
				r.diags.Error(err.At(in.Offset).WithLabel(p.ID).WithScope(scope))
				continue
			}
			p.Insets = append(p.Insets, &Inset{
				Kind:   InsetAbsolute,
				Name:   in.Name,
				Bounds: Rect{X: in.X, Y: in.Y, W: in.W, H: in.H},
				Offset: in.Offset,
			})

		case layoutcode.InsetNested:
			inner := InsetScope(Qualify(scope, p.ID), in.Name, i)
			g := r.build(r.resolveNode(in.Layout, inner), inner)
			p.Insets = append(p.Insets, &Inset{
				Kind:   InsetNested,
				Name:   in.Name,
				Bounds: Unit,
				Grid:   g,
				Source: in.Source,
				Scope:  inner,
				Offset: in.Offset,
			})
		}
	}
}

// InsetScope names the namespace of the i-th (0-based) inset of the panel at
// path: "a#zoom" for named insets, "a#2" otherwise.
func InsetScope(path, name string, i int) string {
	if name == "" {
		name = strconv.Itoa(i + 1)
	}
	return path + "#" + name
}

func checkInset(in layoutcode.InsetSpec) *errors.Error {
	switch {
	case in.X < 0 || in.Y < 0:
		return errors.New(errors.ErrCodeInsetOutOfBounds,
			"inset origin (%g, %g) must not be negative", in.X, in.Y)
	case in.W <= 0 || in.H <= 0:
		return errors.New(errors.ErrCodeInsetOutOfBounds,
			"inset size %gx%g must be positive", in.W, in.H)
	case in.X+in.W > 1+epsilon:
		return errors.New(errors.ErrCodeInsetOutOfBounds,
			"inset extends past the right edge: x+w = %g > 1", in.X+in.W)
	case in.Y+in.H > 1+epsilon:
		return errors.New(errors.ErrCodeInsetOutOfBounds,
			"inset extends past the bottom edge: y+h = %g > 1", in.Y+in.H)
	}
	return nil
}
