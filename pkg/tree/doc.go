// Package tree implements the abstract document tree that the preview
// pipeline reconciles fragments into and decorates.
//
// A [Node] is either an element (Tag set) or a text node (Tag empty). Element
// attributes are kept in insertion order so that serializing the same tree
// twice always yields the same bytes.
//
// # Reuse identifiers
//
// Every node may carry two string attributes consumed by a reconciler:
//
//   - [AttrTID]: the stable identity of the node across render generations
//   - [AttrReuseFrom]: a hint naming the previous node whose subtree may be kept
//
// Canvas-backed page slots always use [CanvasReuseID] for both, so they are
// treated as the same logical node regardless of what the engine emitted.
//
// # Markup
//
// [Parse] turns engine markup into a tree using golang.org/x/net/html, which
// understands SVG embedded as foreign content. [Node.Markup] writes it back.
package tree
