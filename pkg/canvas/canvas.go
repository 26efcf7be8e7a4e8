// Package canvas manages canvas-backed pages: placeholder pages the engine
// left empty that are replaced by a live rendering surface.
//
// The [Controller] owns the lifecycle. Create is synchronous and embeds a
// container for every page into the tree. Update is dispatched
// asynchronously and is never awaited by the render pass; its completion is
// applied only if no newer update superseded it.
//
// # Threading
//
// An [Extension]'s UpdateCanvas runs on its own goroutine and must only read
// the Page geometry fields, never the tree. Tree mutations belong in the
// returned commit function, which the controller runs while holding the
// document lock and only for the current generation.
package canvas

import (
	"context"

	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/tree"
)

// Class names of the embedded canvas nodes.
const (
	ClassEmbed  = "typst-canvas-embed"
	ClassTarget = "typst-canvas-target"
)

// TagCanvas tags canvas-backed page records.
const TagCanvas = "canvas"

// Page is a canvas-backed page rebuilt on every render pass.
type Page struct {
	Tag    string
	Index  int
	Width  float64
	Height float64
	// Container is embedded into the tree by Inserter.
	Container *tree.Node
	// Element is the render target inside Container.
	Element *tree.Node
	// Inserter embeds the container at the page's position in the tree.
	Inserter func(container *tree.Node)
}

// Size returns the page geometry.
func (p *Page) Size() geom.Size { return geom.Size{Width: p.Width, Height: p.Height} }

// Binding is a container and render target retained from a previous
// generation.
type Binding struct {
	Container *tree.Node
	Element   *tree.Node
}

// Extension is the canvas rendering capability.
type Extension interface {
	// CreateCanvas prepares render targets. It runs synchronously on the
	// render pass, before the containers are inserted.
	CreateCanvas(pages []*Page)
	// UpdateCanvas renders the pages. The returned commit, if non-nil, is
	// applied to the tree when the update is still current.
	UpdateCanvas(ctx context.Context, pages []*Page) (commit func(), err error)
}

// FindBinding locates the embedded container of a previous canvas page.
func FindBinding(page *tree.Node) (Binding, bool) {
	c := page.Find(func(n *tree.Node) bool { return n.HasClass(ClassEmbed) })
	if c == nil {
		return Binding{}, false
	}
	el := c.Find(func(n *tree.Node) bool { return n.HasClass(ClassTarget) })
	if el == nil {
		return Binding{}, false
	}
	return Binding{Container: c, Element: el}, true
}

// RecoverBindings scans the page elements of a previous generation for
// canvas-backed slots and returns their retained bindings by page index.
func RecoverBindings(prev []*tree.Node) map[int]Binding {
	out := make(map[int]Binding)
	for _, p := range prev {
		id, _ := p.Attr(tree.AttrTID)
		idx, ok := tree.ParseCanvasReuseID(id)
		if !ok {
			continue
		}
		if b, ok := FindBinding(p); ok {
			out[idx] = b
		}
	}
	return out
}
