package fragment

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/matzehuels/pageview/pkg/cache"
	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/tree"
)

// Page is one pre-typeset page of a static document.
type Page struct {
	Width   float64 `json:"width"`
	Height  float64 `json:"height"`
	Content string  `json:"content"`
}

// Document is the JSON form read by LoadStatic.
type Document struct {
	Pages []Page `json:"pages"`
}

// Static is an in-memory engine over a pre-typeset document. It is safe for
// concurrent use; Replace swaps the document atomically.
type Static struct {
	mu       sync.RWMutex
	doc      Document
	revision string
}

// NewStatic creates a source serving doc.
func NewStatic(doc Document) (*Static, error) {
	s := &Static{}
	if err := s.Replace(doc); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadStatic reads a JSON document from path.
func LoadStatic(path string) (*Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode document %s", path)
	}
	return NewStatic(doc)
}

// Replace swaps the served document and recomputes its revision.
func (s *Static) Replace(doc Document) error {
	for i, p := range doc.Pages {
		if err := errors.ValidateDimension(fmt.Sprintf("page %d width", i), p.Width); err != nil {
			return err
		}
		if err := errors.ValidateDimension(fmt.Sprintf("page %d height", i), p.Height); err != nil {
			return err
		}
	}
	data, _ := json.Marshal(doc)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.doc = doc
	s.revision = cache.Hash(data)
	return nil
}

// Revision implements Revisioned.
func (s *Static) Revision() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.revision
}

// PagesInfo implements Source.
func (s *Static) PagesInfo(ctx context.Context) ([]geom.Size, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]geom.Size, len(s.doc.Pages))
	for i, p := range s.doc.Pages {
		out[i] = geom.Size{Width: p.Width, Height: p.Height}
	}
	return out, nil
}

// Fragment implements Source. Pages are stacked without gaps in engine
// coordinates; a page is refreshed when its rectangle intersects w.
func (s *Static) Fragment(ctx context.Context, w geom.Window) (string, error) {
	if !w.Valid() {
		return "", errors.New(errors.ErrCodeInvalidInput, "invalid window %s", w)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	width, height := 0.0, 0.0
	for _, p := range s.doc.Pages {
		width = max(width, p.Width)
		height += p.Height
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" class="typst-doc" viewBox="0 0 %s %s" width="%s" height="%s" data-width="%s" data-height="%s">`,
		geom.FormatUnit(width), geom.FormatUnit(height),
		geom.FormatUnit(width), geom.FormatUnit(height),
		geom.FormatUnit(width), geom.FormatUnit(height))

	top := 0.0
	for i, p := range s.doc.Pages {
		tid := pageID(i, p)
		visible := w.OverlapsY(top, top+p.Height) && 0 < w.Hi.X && p.Width > w.Lo.X
		fmt.Fprintf(&b, `<g class="%s" %s="%s" %s="%s" %s="%s" transform="translate(0, %s)"`,
			tree.ClassPage,
			tree.AttrTID, tid,
			tree.AttrPageWidth, geom.FormatUnit(p.Width),
			tree.AttrPageHeight, geom.FormatUnit(p.Height),
			geom.FormatUnit(top))
		if visible {
			fmt.Fprintf(&b, ">%s</g>", p.Content)
		} else {
			fmt.Fprintf(&b, ` %s="%s"></g>`, tree.AttrReuseFrom, tid)
		}
		top += p.Height
	}
	b.WriteString("</svg>")
	return b.String(), nil
}

// pageID derives a stable identity from the page index and content, so an
// edited page gets a new id while untouched pages keep theirs.
func pageID(i int, p Page) string {
	return "p" + strconv.Itoa(i) + "-" + cache.Hash([]byte(p.Content))[:12]
}

var (
	_ Source     = (*Static)(nil)
	_ Revisioned = (*Static)(nil)
)
