// Package reconcile merges engine fragments into the live document tree.
//
// The [Reconciler] contract is owned by the host: the preview pipeline only
// supplies the decoration callback. [Keyed] is a small reference
// implementation driven purely by reuse identifiers; it is not a general
// tree differ.
package reconcile

import (
	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/tree"
)

// DecorateFunc is invoked exactly once on the reconciled root.
type DecorateFunc func(root *tree.Node) error

// Reconciler merges markup into container's existing tree.
type Reconciler interface {
	Reconcile(container *tree.Node, markup string, decorate DecorateFunc) error
}

// preserved lists root attributes owned by the scale controller. They
// survive a merge even when the engine emits its own values.
var preserved = map[string]bool{
	"width":  true,
	"height": true,
	"style":  true,
}

// Keyed reconciles by reuse identifier.
//
// The previous root element is kept and its attributes refreshed. Each
// incoming page that carries a reuse hint adopts the previous page whose
// identity matches the hint, or the canvas slot at the same position; an
// unmatched hint leaves the empty placeholder in place. Pages with content and all non-page children replace their
// predecessors.
type Keyed struct{}

// NewKeyed returns a Keyed reconciler.
func NewKeyed() *Keyed { return &Keyed{} }

// Reconcile implements Reconciler.
func (k *Keyed) Reconcile(container *tree.Node, markup string, decorate DecorateFunc) error {
	next, err := tree.Parse(markup)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidMarkup, err, "reconcile fragment")
	}

	root := container.FirstElement()
	if root == nil || root.Tag != next.Tag {
		if root != nil {
			container.RemoveChild(root)
		}
		container.AppendChild(next)
		return call(decorate, next)
	}

	mergeAttrs(root, next)

	byID := make(map[string]*tree.Node)
	for _, p := range tree.Pages(root) {
		if id, ok := p.Attr(tree.AttrTID); ok {
			byID[id] = p
		}
	}

	children := make([]*tree.Node, 0, len(next.Children))
	ord := 0
	for _, c := range next.Children {
		if c.IsElement() && c.HasClass(tree.ClassPage) {
			children = append(children, pick(c, ord, byID))
			ord++
			continue
		}
		children = append(children, c)
	}

	for _, c := range root.Children {
		c.Parent = nil
	}
	root.Children = nil
	for _, c := range children {
		root.AppendChild(c)
	}
	return call(decorate, root)
}

// pick returns the node to place for incoming page c at ordinal ord. A
// hint that misses falls back to the canvas slot at the same ordinal.
func pick(c *tree.Node, ord int, prev map[string]*tree.Node) *tree.Node {
	if c.FirstElement() != nil {
		return c
	}
	hint, ok := c.Attr(tree.AttrReuseFrom)
	if !ok {
		return c
	}
	old, ok := prev[hint]
	if !ok {
		hint = tree.CanvasReuseID(ord)
		if old, ok = prev[hint]; !ok {
			return c
		}
	}
	delete(prev, hint)
	for _, key := range []string{tree.AttrPageWidth, tree.AttrPageHeight, tree.AttrTransform} {
		if v, ok := c.Attr(key); ok {
			old.SetAttr(key, v)
		}
	}
	return old
}

func mergeAttrs(dst, src *tree.Node) {
	keep := dst.Attrs[:0]
	for _, a := range dst.Attrs {
		if _, ok := src.Attr(a.Key); ok || preserved[a.Key] {
			keep = append(keep, a)
		}
	}
	dst.Attrs = keep
	for _, a := range src.Attrs {
		if preserved[a.Key] {
			if _, ok := dst.Attr(a.Key); ok {
				continue
			}
		}
		dst.SetAttr(a.Key, a.Val)
	}
}

func call(decorate DecorateFunc, root *tree.Node) error {
	if decorate == nil {
		return nil
	}
	return decorate(root)
}

var _ Reconciler = (*Keyed)(nil)
