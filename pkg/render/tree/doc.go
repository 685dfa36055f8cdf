// Package tree renders the hierarchy of a resolved panel grid as a Graphviz
// diagram.
//
// The diagram has a root node for the figure. Top-level panels hang off the
// figure, or off their innermost named region when they belong to one.
// Subpanels hang off their parent panel and insets off the panel that holds
// them; a nested inset's grid is expanded below the inset node.
//
// [ToDOT] produces the DOT source; [RenderSVG] lays it out with the embedded
// Graphviz (go-graphviz, no external binary required).
package tree
