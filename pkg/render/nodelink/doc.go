// Package nodelink renders a document tree as a node-link diagram.
//
// It is a debugging aid for the reconciler and compositor: every element
// becomes a box labelled with its tag, class, and reuse identifiers, and
// edges point from parents to children. Canvas-backed pages are drawn
// dashed and placeholder pages greyed out, so it is easy to see which
// subtrees survived a patch.
//
//	dot := nodelink.ToDOT(root, nodelink.Options{Depth: 2})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// SVG rendering runs Graphviz in-process via [github.com/goccy/go-graphviz].
package nodelink
