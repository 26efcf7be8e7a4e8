// Package scale applies the final zoom and centering to a laid out document.
//
// Rescale only reads the cached container snapshot, never live geometry,
// and only writes attributes whose value actually changes: pixel sizes are
// memoized in the render state, and the centering transform is compared
// against the current style.
package scale

import (
	"fmt"
	"math"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/tree"
	"github.com/matzehuels/pageview/pkg/view"
)

// AttrStyle carries the centering transform on the root and the zoom height
// override on the host.
const AttrStyle = "style"

// Result reports what a rescale did.
type Result struct {
	// Scale is the applied pixels per document unit; 0 when skipped.
	Scale float64
	// Width and Height are the pixel size of the document root.
	Width, Height int
	// Resized is set when the pixel size attributes were rewritten.
	Resized bool
	// Moved is set when the centering transform was rewritten.
	Moved bool
}

// Rescale sizes and centers the document root inside host. A computed scale
// of zero is logged and skipped.
func Rescale(host *tree.Node, s *view.State, logger *log.Logger) Result {
	if logger == nil {
		logger = log.Default()
	}
	root := host.FirstElement()
	if root == nil {
		return Result{}
	}

	svgW := logical(root, tree.AttrDataWidth)
	svgH := logical(root, tree.AttrDataHeight)
	cw, ch := s.DOM.Width, s.DOM.Height

	realScale := cw / svgW
	if s.Mode == view.ModeSlide {
		realScale = math.Min(realScale, ch/svgH)
	}
	scale := realScale * s.ScaleRatio
	if scale == 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		logger.Warn("skipping rescale", "scale", scale, "container_width", cw, "width", svgW)
		return Result{}
	}

	res := Result{
		Scale:  scale,
		Width:  int(math.Ceil(svgW * scale)),
		Height: int(math.Ceil(svgH * scale)),
	}

	w, h := fmt.Sprint(res.Width), fmt.Sprint(res.Height)
	memo := s.AppliedWidth == res.Width && s.AppliedHeight == res.Height
	if !memo || root.AttrOr("width", "") != w || root.AttrOr("height", "") != h {
		root.SetAttr("width", w)
		root.SetAttr("height", h)
		s.AppliedWidth, s.AppliedHeight = res.Width, res.Height
		res.Resized = true
	}

	x := math.Max(0, (cw-float64(res.Width))/2)
	y := 0.0
	if s.Mode == view.ModeSlide {
		y = math.Max(0, (ch-float64(res.Height))/2)
	}
	style := fmt.Sprintf("transform: translate(%spx, %spx)", geom.FormatUnit(x), geom.FormatUnit(y))
	if root.AttrOr(AttrStyle, "") != style {
		root.SetAttr(AttrStyle, style)
		res.Moved = true
	}

	host.RemoveAttr(AttrStyle)
	s.AppliedScale = scale
	return res
}

// logical reads a logical size attribute, defaulting to 1.
func logical(root *tree.Node, key string) float64 {
	v := root.FloatAttr(key, 1)
	if math.IsNaN(v) || v <= 0 {
		return 1
	}
	return v
}
