// Package view holds the mutable render state of one preview document.
//
// Everything that changes between render passes lives in a single [State]
// record owned by the document controller. The layout, viewport, and scale
// packages receive it by pointer and never keep their own copies.
package view

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pageview/pkg/errors"
	"github.com/matzehuels/pageview/pkg/geom"
)

// Mode selects how pages are presented.
type Mode int

const (
	// ModeDocument stacks all pages vertically.
	ModeDocument Mode = iota
	// ModeSlide shows exactly one page filling the viewport.
	ModeSlide
)

// String returns the configuration name of the mode.
func (m Mode) String() string {
	switch m {
	case ModeDocument:
		return "doc"
	case ModeSlide:
		return "slide"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// Validate returns an INVALID_MODE error for unknown modes.
func (m Mode) Validate() error {
	if m != ModeDocument && m != ModeSlide {
		return errors.New(errors.ErrCodeInvalidMode, "unknown render mode %d", int(m))
	}
	return nil
}

// ParseMode converts "doc"/"document" or "slide" into a Mode.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "doc", "document":
		return ModeDocument, nil
	case "slide":
		return ModeSlide, nil
	}
	return 0, errors.New(errors.ErrCodeInvalidMode, "unknown render mode %q (must be doc or slide)", s)
}

// Rect is a bounding rectangle in pixels relative to the host viewport.
type Rect struct {
	Left, Top, Width, Height float64
}

// DOMState is a snapshot of the host container captured before a pass
// starts, so layout never forces a reflow mid-pass.
type DOMState struct {
	// Width and Height are the container's client size in pixels.
	Width, Height float64
	// BoundingRect is the container rectangle relative to the visible
	// viewport. A scrolled-down container has a negative Top.
	BoundingRect Rect
	// ViewportWidth and ViewportHeight are the visible area in pixels. When
	// zero the container size is used.
	ViewportWidth, ViewportHeight float64
	// DevicePixelRatio of the host display; zero means 1.
	DevicePixelRatio float64
}

// Viewport returns the visible size, falling back to the container size.
func (d DOMState) Viewport() (w, h float64) {
	w, h = d.ViewportWidth, d.ViewportHeight
	if w <= 0 {
		w = d.Width
	}
	if h <= 0 {
		h = d.Height
	}
	return w, h
}

// Cursor is a marker position in page-local document units.
type Cursor struct {
	Page int
	X, Y float64
}

// State is the explicit mutable render state of one document.
type State struct {
	Mode Mode
	// PageIndex is the active slide in ModeSlide.
	PageIndex int
	// ScaleRatio is the user zoom factor; 1 means fit-to-width.
	ScaleRatio float64
	// PartialRendering enables windowed fragment requests.
	PartialRendering bool
	// DOM is the cached host container geometry.
	DOM DOMState
	// Pages is the page geometry observed by the previous layout pass.
	Pages []geom.Size
	// AppliedScale is the pixel-per-unit scale applied by the last rescale.
	AppliedScale float64
	// AppliedWidth and AppliedHeight memoize the root pixel size written by
	// the last rescale.
	AppliedWidth, AppliedHeight int
	// Cursor is the optional cursor marker.
	Cursor *Cursor
	// Canvas is the in-flight canvas update slot.
	Canvas TokenSlot
}

// NewState returns a State with a zoom ratio of 1.
func NewState(mode Mode) *State {
	return &State{Mode: mode, ScaleRatio: 1}
}

// ClampPage clamps the active slide index into [0, count-1] and returns it.
// A negative index is a caller error and is left as is.
func (s *State) ClampPage(count int) int {
	if count > 0 && s.PageIndex >= count {
		s.PageIndex = count - 1
	}
	return s.PageIndex
}
