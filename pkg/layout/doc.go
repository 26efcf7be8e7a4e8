// Package layout positions, scales, and decorates the pages of a reconciled
// document tree.
//
// [Compositor.Decorate] runs as the reconciler's decoration hook. It stacks
// the selected pages vertically and centered, draws a boundary rectangle
// behind every page and one background rectangle behind the whole document,
// then adds either page-number labels (content preview) or the cursor
// marker. Decorations from the previous pass are removed first, so
// decorating the same tree twice yields identical output.
//
// # Precision
//
// Rectangles are emitted with integral sizes. Geometry is multiplied by 100
// and the element carries a scale(0.01) transform, which keeps two decimal
// places of precision in document units.
//
// # Canvas pages
//
// In document mode, pages the reconciler left as empty placeholders are
// handed to a [canvas.Controller] when one is configured. Such pages are
// tagged with [tree.CanvasReuseID] so later passes see the same slot.
package layout
