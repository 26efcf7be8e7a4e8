package layout

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pageview/pkg/canvas"
	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/tree"
	"github.com/matzehuels/pageview/pkg/view"
)

// Class names of the decoration nodes owned by the compositor.
const (
	ClassPageOuter  = "typst-page-outer"
	ClassBackground = "typst-preview-bg"
	ClassPageNumber = "typst-preview-page-number"
	ClassCursor     = "typst-svg-cursor"
)

const (
	labelFontSize  = 12.0
	previewMargin  = 6.0
	documentMargin = 5.0
	cursorRadius   = 3.0
	cursorColor    = "#66ccff"
	precision      = 100.0
)

var decorations = []string{ClassPageOuter, ClassBackground, ClassPageNumber, ClassCursor}

// Options configures a Compositor.
type Options struct {
	// ContentPreview selects page-number labels instead of the cursor marker.
	ContentPreview bool
	// PageColor fills each page boundary rectangle. Empty means no fill.
	PageColor string
	// BackgroundColor fills the document background. Empty means no fill.
	BackgroundColor string
	// IsDummy reports whether the reconciler left page without refreshed
	// content. Defaults to [IsPlaceholder].
	IsDummy func(page *tree.Node) bool
	// Canvas receives placeholder pages in document mode. Optional.
	Canvas *canvas.Controller
	// Logger defaults to log.Default().
	Logger *log.Logger
}

// Result is the geometry produced by one layout pass.
type Result struct {
	// Width and Height are the logical document size including margins.
	Width  float64
	Height float64
	// Scale is the display scale used for margins and labels.
	Scale float64
	// Pages holds the geometry of the laid out pages in order.
	Pages []geom.Size
	// Canvas lists the pages handed to the canvas controller.
	Canvas []*canvas.Page
}

// Compositor lays out a reconciled tree.
type Compositor struct {
	opts   Options
	logger *log.Logger
}

// New creates a Compositor.
func New(opts Options) *Compositor {
	if opts.IsDummy == nil {
		opts.IsDummy = IsPlaceholder
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Compositor{opts: opts, logger: logger}
}

// CanvasEnabled reports whether placeholder pages can become canvas pages.
func (c *Compositor) CanvasEnabled() bool { return c.opts.Canvas != nil }

// IsPlaceholder reports whether page carries a reuse hint and holds nothing
// but an embedded canvas, if anything.
func IsPlaceholder(page *tree.Node) bool {
	if _, ok := page.Attr(tree.AttrReuseFrom); !ok {
		return false
	}
	for _, c := range page.ElementChildren() {
		if !c.HasClass(canvas.ClassEmbed) {
			return false
		}
	}
	return true
}

// BaseScale is the ratio of container width to the widest page. Both
// arguments are expected to be positive.
func BaseScale(containerWidth, maxWidth float64) float64 {
	return containerWidth / maxWidth
}

// DisplayScale converts the zoom ratio and base scale into the scale of
// decorations in document units. Degenerate inputs yield 1.
func DisplayScale(ratio, base float64) float64 {
	s := 1 / (ratio * base)
	if math.IsNaN(s) || math.IsInf(s, 0) || s <= 0 {
		return 1
	}
	return s
}

// Decorate lays out root in place. prev holds the page elements of the
// previous generation, captured before reconciliation, and is only used to
// recover canvas bindings.
//
// The mode is validated before the tree is touched. In slide mode an active
// page index outside the page list is an error; callers clamp first.
func (c *Compositor) Decorate(ctx context.Context, root *tree.Node, prev []*tree.Node, s *view.State) (Result, error) {
	if err := s.Mode.Validate(); err != nil {
		return Result{}, err
	}

	all := tree.Pages(root)
	selected := all
	base := 0
	if s.Mode == view.ModeSlide {
		if s.PageIndex < 0 || s.PageIndex >= len(all) {
			return Result{}, errors.New(errors.ErrCodePageOutOfRange,
				"slide %d out of range [0,%d)", s.PageIndex, len(all))
		}
		base = s.PageIndex
		selected = all[base : base+1]
	}

	removeDecorations(root)
	for i, p := range all {
		if s.Mode == view.ModeSlide && i != base {
			p.SetAttr("display", "none")
		} else {
			p.RemoveAttr("display")
		}
	}
	if len(selected) == 0 {
		return Result{Scale: 1}, nil
	}

	sizes := make([]geom.Size, len(selected))
	maxWidth := 1.0
	for i, p := range selected {
		sizes[i] = pageSize(p)
		maxWidth = math.Max(maxWidth, sizes[i].Width)
	}

	scale := DisplayScale(s.ScaleRatio, BaseScale(s.DOM.Width, maxWidth))
	fontSize := labelFontSize * scale
	margin := documentMargin * scale
	if c.opts.ContentPreview {
		margin = previewMargin * scale
	}
	totalWidth := maxWidth

	first := all[0]
	withCanvas := s.Mode == view.ModeDocument && c.opts.Canvas != nil
	var candidates []*canvas.Page

	acc := 0.0
	for i, p := range selected {
		idx := base + i
		sz := sizes[i]
		if i > 0 {
			acc += margin
		}
		x, y := (totalWidth-sz.Width)/2, acc
		p.SetAttr(tree.AttrTransform, translate(x, y))

		if withCanvas && c.opts.IsDummy(p) {
			id := tree.CanvasReuseID(idx)
			p.SetAttr(tree.AttrTID, id)
			p.SetAttr(tree.AttrReuseFrom, id)
			candidates = append(candidates, &canvas.Page{
				Tag:      canvas.TagCanvas,
				Index:    idx,
				Width:    sz.Width,
				Height:   sz.Height,
				Inserter: inserter(p),
			})
		}

		outer := rect(ClassPageOuter, x, y, sz.Width, sz.Height, c.opts.PageColor)
		root.InsertBefore(outer, first)
		acc += sz.Height

		if c.opts.ContentPreview {
			root.AppendChild(pageLabel(idx, x+sz.Width/2, y+sz.Height+margin+fontSize/2, fontSize))
			acc += fontSize
		} else if s.Cursor != nil && s.Cursor.Page == idx {
			root.AppendChild(cursor(x+s.Cursor.X, y+s.Cursor.Y, cursorRadius*scale))
		}
	}

	totalHeight := acc
	if c.opts.ContentPreview {
		totalHeight += fontSize
	}

	bg := rect(ClassBackground, 0, 0, totalWidth, totalHeight, c.opts.BackgroundColor)
	root.InsertBefore(bg, root.ChildrenWithClass(ClassPageOuter)[0])

	root.SetAttr(tree.AttrDataWidth, geom.FormatUnit(totalWidth))
	root.SetAttr(tree.AttrDataHeight, geom.FormatUnit(totalHeight))

	res := Result{
		Width:  totalWidth,
		Height: totalHeight,
		Scale:  scale,
		Pages:  sizes,
		Canvas: candidates,
	}

	if len(candidates) > 0 {
		bindings := canvas.RecoverBindings(prev)
		for _, cp := range candidates {
			if b, ok := bindings[cp.Index]; ok {
				cp.Container, cp.Element = b.Container, b.Element
			}
		}
		c.logger.Debug("canvas pages", "count", len(candidates), "retained", len(bindings))
		c.opts.Canvas.Create(candidates)
		c.opts.Canvas.Update(ctx, candidates)
	}
	return res, nil
}

func removeDecorations(root *tree.Node) {
	for _, class := range decorations {
		for _, n := range root.ChildrenWithClass(class) {
			root.RemoveChild(n)
		}
	}
}

// pageSize reads page metrics, treating missing or unusable values as 0.
func pageSize(p *tree.Node) geom.Size {
	return geom.Size{
		Width:  nonNegative(p.FloatAttr(tree.AttrPageWidth, 0)),
		Height: nonNegative(p.FloatAttr(tree.AttrPageHeight, 0)),
	}
}

func nonNegative(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		return 0
	}
	return v
}

func inserter(page *tree.Node) func(*tree.Node) {
	return func(container *tree.Node) {
		page.AppendChild(container)
	}
}

func translate(x, y float64) string {
	return fmt.Sprintf("translate(%s, %s)", geom.FormatUnit(x), geom.FormatUnit(y))
}

func scaled(v float64) string {
	return strconv.FormatFloat(math.Round(v*precision), 'f', 0, 64)
}

func rect(class string, x, y, w, h float64, fill string) *tree.Node {
	if fill == "" {
		fill = "none"
	}
	return tree.NewElement("rect",
		tree.AttrClass, class,
		"x", scaled(x),
		"y", scaled(y),
		"width", scaled(w),
		"height", scaled(h),
		"fill", fill,
		tree.AttrTransform, "scale(0.01)",
	)
}

func pageLabel(idx int, x, y, fontSize float64) *tree.Node {
	n := tree.NewElement("text",
		tree.AttrClass, ClassPageNumber,
		"x", geom.FormatUnit(x),
		"y", geom.FormatUnit(y),
		"font-size", geom.FormatUnit(fontSize),
		"text-anchor", "middle",
		"dominant-baseline", "middle",
	)
	n.AppendChild(tree.NewText(strconv.Itoa(idx + 1)))
	return n
}

func cursor(x, y, r float64) *tree.Node {
	return tree.NewElement("circle",
		tree.AttrClass, ClassCursor,
		"cx", scaled(x),
		"cy", scaled(y),
		"r", scaled(r),
		"fill", cursorColor,
		tree.AttrTransform, "scale(0.01)",
	)
}
