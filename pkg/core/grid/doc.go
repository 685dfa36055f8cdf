// Package grid resolves a parsed layout code into a [PanelGrid]: panel
// rectangles, subpanel grids and insets in fractional coordinates.
//
// Resolution runs in four stages. Each grid block maps its labels to bounding
// rectangles and rejects labels that do not fill theirs. Compositions and
// named regions join blocks into one coordinate frame. Subpanel specs
// subdivide panels into uniform children, and insets attach either an
// absolute fraction rectangle or a nested layout with its own namespace.
//
// Problems never abort resolution. They are recorded in a [diag.List] and the
// offending structure is left out, so callers always get a grid they can
// preview.
package grid
