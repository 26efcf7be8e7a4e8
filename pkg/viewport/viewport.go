// Package viewport derives the document-unit window that a render pass
// requests from the layout engine.
//
// In document mode the window is estimated from the page geometry of the
// previous frame and the cached container snapshot, so computing it never
// requires a fresh layout of the host. In slide mode the window is exactly
// the active page, slightly inset.
package viewport

import (
	"math"

	pverrors "github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/geom"
	"github.com/matzehuels/pageview/pkg/view"
)

const (
	// edgePad widens the document-mode window on every side to avoid
	// clipping elements that touch its boundary.
	edgePad = 1.0
	// slideInset shrinks the slide window so neighbouring pages that share
	// an edge are not pulled in.
	slideInset = 0.1
)

// ErrNoPage reports that slide mode was asked for a window over an empty
// document. Callers substitute the placeholder fragment.
var ErrNoPage = pverrors.New(pverrors.ErrCodeNoPage, "no page")

// Compute returns the window for the current state. pages is the
// authoritative page list from the engine and is only consulted in slide
// mode; document mode uses the cached geometry in s.Pages.
//
// In slide mode the active page index is clamped to the last page.
func Compute(s *view.State, pages []geom.Size) (geom.Window, error) {
	if err := s.Mode.Validate(); err != nil {
		return geom.Window{}, err
	}
	if !s.PartialRendering {
		return geom.FullPlane, nil
	}

	switch s.Mode {
	case view.ModeSlide:
		return slideWindow(s, pages)
	default:
		return documentWindow(s), nil
	}
}

// documentWindow estimates the visible band from the cached snapshot and
// widens it to whole pages of the previous frame.
func documentWindow(s *view.State) geom.Window {
	left, top, width, height := visibleRect(s)
	bandTop, bandBottom := top-edgePad, top+height+edgePad

	minTop, maxBottom := math.Inf(1), math.Inf(-1)
	acc := 0.0
	for _, p := range s.Pages {
		pageTop, pageBottom := acc, acc+p.Height
		acc = pageBottom
		if pageTop < bandBottom && pageBottom > bandTop {
			minTop = math.Min(minTop, pageTop)
			maxBottom = math.Max(maxBottom, pageBottom)
		}
	}
	if math.IsInf(minTop, 1) {
		minTop, maxBottom = 0, math.Inf(1)
	}

	return geom.Window{
		Lo: geom.Point{X: left - edgePad, Y: minTop},
		Hi: geom.Point{X: left + width + edgePad, Y: maxBottom},
	}
}

// visibleRect converts the cached pixel snapshot into document units using
// the scale applied by the last rescale.
func visibleRect(s *view.State) (left, top, width, height float64) {
	scale := s.AppliedScale
	if scale <= 0 || math.IsNaN(scale) || math.IsInf(scale, 0) {
		scale = 1
	}
	vw, vh := s.DOM.Viewport()
	return -s.DOM.BoundingRect.Left / scale,
		-s.DOM.BoundingRect.Top / scale,
		vw / scale,
		vh / scale
}

func slideWindow(s *view.State, pages []geom.Size) (geom.Window, error) {
	if len(pages) == 0 {
		return geom.Window{}, ErrNoPage
	}
	idx := s.ClampPage(len(pages))
	if idx < 0 {
		return geom.Window{}, pverrors.New(pverrors.ErrCodePageOutOfRange, "negative slide index %d", idx)
	}

	top := 0.0
	for _, p := range pages[:idx] {
		top += p.Height
	}
	page := pages[idx]
	w := geom.Window{
		Lo: geom.Point{X: 0, Y: top},
		Hi: geom.Point{X: page.Width, Y: top + page.Height},
	}
	return w.Inset(slideInset), nil
}
