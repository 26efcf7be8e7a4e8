package tree

import (
	"slices"
	"strconv"
	"strings"
)

// Well-known attribute names shared with the layout engine and reconciler.
const (
	AttrTID        = "data-tid"
	AttrReuseFrom  = "data-reuse-from"
	AttrPageWidth  = "data-page-width"
	AttrPageHeight = "data-page-height"
	AttrDataWidth  = "data-width"
	AttrDataHeight = "data-height"
	AttrTransform  = "transform"
	AttrClass      = "class"
)

// ClassPage marks a direct child of the document root as a page.
const ClassPage = "typst-page"

// Attr is a single element attribute.
type Attr struct {
	Key string
	Val string
}

// Node is an element or text node in the document tree.
type Node struct {
	Tag      string
	Text     string
	Attrs    []Attr
	Children []*Node
	Parent   *Node
}

// NewElement creates a detached element with the given attributes, given as
// alternating key/value pairs.
func NewElement(tag string, kv ...string) *Node {
	n := &Node{Tag: tag}
	for i := 0; i+1 < len(kv); i += 2 {
		n.SetAttr(kv[i], kv[i+1])
	}
	return n
}

// NewText creates a detached text node.
func NewText(s string) *Node {
	return &Node{Text: s}
}

// IsElement reports whether n is an element node.
func (n *Node) IsElement() bool { return n.Tag != "" }

// Attr returns the value of key and whether it was present.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.Attrs {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// AttrOr returns the value of key or def when absent.
func (n *Node) AttrOr(key, def string) string {
	if v, ok := n.Attr(key); ok {
		return v
	}
	return def
}

// FloatAttr parses key as a float. It returns def when the attribute is
// missing or unparseable.
func (n *Node) FloatAttr(key string, def float64) float64 {
	v, ok := n.Attr(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		return def
	}
	return f
}

// SetAttr sets key to val, keeping the original position of an existing key.
// It reports whether the stored value changed.
func (n *Node) SetAttr(key, val string) bool {
	for i, a := range n.Attrs {
		if a.Key == key {
			if a.Val == val {
				return false
			}
			n.Attrs[i].Val = val
			return true
		}
	}
	n.Attrs = append(n.Attrs, Attr{Key: key, Val: val})
	return true
}

// RemoveAttr deletes key. It reports whether the attribute existed.
func (n *Node) RemoveAttr(key string) bool {
	for i, a := range n.Attrs {
		if a.Key == key {
			n.Attrs = slices.Delete(n.Attrs, i, i+1)
			return true
		}
	}
	return false
}

// HasClass reports whether the class attribute contains c.
func (n *Node) HasClass(c string) bool {
	v, ok := n.Attr(AttrClass)
	if !ok {
		return false
	}
	return slices.Contains(strings.Fields(v), c)
}

// AppendChild attaches c as the last child of n, detaching it first.
func (n *Node) AppendChild(c *Node) {
	c.Detach()
	c.Parent = n
	n.Children = append(n.Children, c)
}

// InsertBefore attaches c immediately before ref. A nil or foreign ref
// appends.
func (n *Node) InsertBefore(c, ref *Node) {
	if c == ref {
		return
	}
	c.Detach()
	i := n.indexOf(ref)
	if ref == nil || i < 0 {
		n.AppendChild(c)
		return
	}
	c.Parent = n
	n.Children = slices.Insert(n.Children, i, c)
}

// RemoveChild detaches c from n. It reports whether c was a child of n.
func (n *Node) RemoveChild(c *Node) bool {
	i := n.indexOf(c)
	if i < 0 {
		return false
	}
	n.Children = slices.Delete(n.Children, i, i+1)
	c.Parent = nil
	return true
}

// Detach removes n from its parent, if any.
func (n *Node) Detach() {
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

func (n *Node) indexOf(c *Node) int {
	if c == nil {
		return -1
	}
	return slices.Index(n.Children, c)
}

// FirstElement returns the first element child of n, or nil.
func (n *Node) FirstElement() *Node {
	for _, c := range n.Children {
		if c.IsElement() {
			return c
		}
	}
	return nil
}

// ElementChildren returns the element children of n.
func (n *Node) ElementChildren() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement() {
			out = append(out, c)
		}
	}
	return out
}

// ChildrenWithClass returns the direct element children carrying class c, in
// document order.
func (n *Node) ChildrenWithClass(c string) []*Node {
	var out []*Node
	for _, ch := range n.Children {
		if ch.IsElement() && ch.HasClass(c) {
			out = append(out, ch)
		}
	}
	return out
}

// Find returns the first descendant of n (depth first, excluding n) for which
// match returns true.
func (n *Node) Find(match func(*Node) bool) *Node {
	for _, c := range n.Children {
		if match(c) {
			return c
		}
		if d := c.Find(match); d != nil {
			return d
		}
	}
	return nil
}

// TextContent concatenates all text below n.
func (n *Node) TextContent() string {
	if !n.IsElement() {
		return n.Text
	}
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(c.TextContent())
	}
	return b.String()
}

// Clone returns a deep copy of n without a parent.
func (n *Node) Clone() *Node {
	c := &Node{Tag: n.Tag, Text: n.Text, Attrs: slices.Clone(n.Attrs)}
	for _, ch := range n.Children {
		cc := ch.Clone()
		cc.Parent = c
		c.Children = append(c.Children, cc)
	}
	return c
}

// Pages returns the page-class children of root.
func Pages(root *Node) []*Node {
	if root == nil {
		return nil
	}
	return root.ChildrenWithClass(ClassPage)
}

// CanvasReuseID is the deterministic reuse identifier of the canvas-backed
// slot for page index i.
func CanvasReuseID(i int) string {
	return "canvas:" + strconv.Itoa(i)
}

// ParseCanvasReuseID extracts the page index from a CanvasReuseID value.
func ParseCanvasReuseID(id string) (int, bool) {
	s, ok := strings.CutPrefix(id, "canvas:")
	if !ok {
		return 0, false
	}
	i, err := strconv.Atoi(s)
	if err != nil || i < 0 {
		return 0, false
	}
	return i, true
}
