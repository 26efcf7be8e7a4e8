package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pageview/pkg/tree"
)

// Options configures diagram generation.
type Options struct {
	// Detailed adds page geometry and transforms to labels.
	Detailed bool
	// Depth limits how far below the root elements are drawn. Zero means
	// no limit.
	Depth int
}

// ToDOT converts the element tree under root to Graphviz DOT. Text nodes
// are omitted.
func ToDOT(root *tree.Node, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.2;\n")
	buf.WriteString("\n")

	if root != nil && root.IsElement() {
		w := &dotWriter{buf: &buf, opts: opts}
		w.walk(root, "", 0)
	}

	buf.WriteString("}\n")
	return buf.String()
}

type dotWriter struct {
	buf  *bytes.Buffer
	opts Options
	next int
}

func (w *dotWriter) walk(n *tree.Node, parent string, depth int) {
	id := "n" + strconv.Itoa(w.next)
	w.next++
	fmt.Fprintf(w.buf, "  %s [%s];\n", id, strings.Join(fmtAttrs(n, fmtLabel(n, w.opts.Detailed)), ", "))
	if parent != "" {
		fmt.Fprintf(w.buf, "  %s -> %s;\n", parent, id)
	}
	if w.opts.Depth > 0 && depth >= w.opts.Depth {
		return
	}
	for _, c := range n.ElementChildren() {
		w.walk(c, id, depth+1)
	}
}

func fmtLabel(n *tree.Node, detailed bool) string {
	parts := []string{n.Tag}
	if class, ok := n.Attr(tree.AttrClass); ok {
		parts[0] += "." + strings.ReplaceAll(class, " ", ".")
	}
	if id, ok := n.Attr(tree.AttrTID); ok {
		parts = append(parts, "tid: "+id)
	}
	if hint, ok := n.Attr(tree.AttrReuseFrom); ok {
		parts = append(parts, "reuse: "+hint)
	}
	if detailed {
		for _, key := range []string{tree.AttrPageWidth, tree.AttrPageHeight, tree.AttrTransform} {
			if v, ok := n.Attr(key); ok {
				parts = append(parts, key+": "+v)
			}
		}
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(n *tree.Node, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if !n.HasClass(tree.ClassPage) {
		return attrs
	}
	id, _ := n.Attr(tree.AttrTID)
	_, hinted := n.Attr(tree.AttrReuseFrom)
	_, onCanvas := tree.ParseCanvasReuseID(id)
	switch {
	case onCanvas:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightblue")
	case hinted && n.FirstElement() == nil:
		attrs = append(attrs, "fillcolor=lightgrey", "fontcolor=gray30")
	}
	return attrs
}

// RenderSVG renders DOT source to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz root element with one whose
// viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
