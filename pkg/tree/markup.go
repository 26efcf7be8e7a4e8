package tree

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"

	xhtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse converts engine markup into a tree and returns its first root
// element. Whitespace-only text between elements is dropped.
func Parse(markup string) (*Node, error) {
	body := &xhtml.Node{Type: xhtml.ElementNode, Data: "body", DataAtom: atom.Body}
	nodes, err := xhtml.ParseFragment(strings.NewReader(markup), body)
	if err != nil {
		return nil, fmt.Errorf("parse markup: %w", err)
	}
	for _, n := range nodes {
		if n.Type == xhtml.ElementNode {
			return convert(n), nil
		}
	}
	return nil, fmt.Errorf("parse markup: no root element")
}

func convert(h *xhtml.Node) *Node {
	n := &Node{Tag: h.Data}
	for _, a := range h.Attr {
		key := a.Key
		if a.Namespace != "" {
			key = a.Namespace + ":" + a.Key
		}
		n.SetAttr(key, a.Val)
	}
	for c := h.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case xhtml.ElementNode:
			n.AppendChild(convert(c))
		case xhtml.TextNode:
			if strings.TrimSpace(c.Data) == "" {
				continue
			}
			n.AppendChild(NewText(c.Data))
		}
	}
	return n
}

// Markup serializes n as XML text.
func (n *Node) Markup() string {
	var buf bytes.Buffer
	_ = n.Write(&buf)
	return buf.String()
}

// Write serializes n as XML text to w.
func (n *Node) Write(w io.Writer) error {
	var buf bytes.Buffer
	n.write(&buf)
	_, err := w.Write(buf.Bytes())
	return err
}

func (n *Node) write(buf *bytes.Buffer) {
	if !n.IsElement() {
		buf.WriteString(html.EscapeString(n.Text))
		return
	}
	buf.WriteByte('<')
	buf.WriteString(n.Tag)
	for _, a := range n.Attrs {
		fmt.Fprintf(buf, ` %s="%s"`, a.Key, html.EscapeString(a.Val))
	}
	if len(n.Children) == 0 {
		buf.WriteString("/>")
		return
	}
	buf.WriteByte('>')
	for _, c := range n.Children {
		c.write(buf)
	}
	buf.WriteString("</")
	buf.WriteString(n.Tag)
	buf.WriteByte('>')
}
