// Package preview drives render passes for one previewed document.
//
// A [Document] owns the render state, the host tree, and its collaborators.
// Each call to [Document.Render] runs one pass:
//
//  1. compute the viewport window from the cached container snapshot
//  2. fetch the fragment covering it from the [fragment.Source]
//  3. reconcile the fragment into the host tree, laying it out as the
//     decoration hook
//  4. rescale and center the result
//
// Passes are serialized. Canvas updates dispatched by a pass run in the
// background; their completions take the same lock as a pass and are
// discarded once a newer update has been issued.
package preview
