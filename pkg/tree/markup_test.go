package tree

import (
	"strings"
	"testing"
)

func TestParseSVG(t *testing.T) {
	markup := `<svg class="typst-doc" viewBox="0 0 10 20" data-width="10" data-height="20">
  <g class="typst-page" data-tid="p0" data-page-width="10" data-page-height="20" transform="translate(0, 0)">
    <text>Hello &amp; bye</text>
  </g>
</svg>`
	root, err := Parse(markup)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if root.Tag != "svg" {
		t.Fatalf("root tag = %q", root.Tag)
	}
	if v, _ := root.Attr("viewBox"); v != "0 0 10 20" {
		t.Errorf("viewBox = %q", v)
	}
	pages := Pages(root)
	if len(pages) != 1 {
		t.Fatalf("pages = %d", len(pages))
	}
	if got := pages[0].FloatAttr(AttrPageHeight, 0); got != 20 {
		t.Errorf("page height = %v", got)
	}
	if got := strings.TrimSpace(root.TextContent()); got != "Hello & bye" {
		t.Errorf("TextContent = %q", got)
	}
	if !strings.Contains(root.Markup(), "Hello &amp; bye") {
		t.Errorf("Markup should escape text: %s", root.Markup())
	}
}

func TestParseNoElement(t *testing.T) {
	if _, err := Parse("just text"); err == nil {
		t.Error("Parse should fail without a root element")
	}
}
