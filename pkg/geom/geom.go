package geom

import (
	"fmt"
	"math"
	"strconv"
)

// Point is a position in document units.
type Point struct {
	X, Y float64
}

// Size is the extent of a page in document units.
type Size struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Window is a document-unit rectangle describing the region that must be
// rendered for the current scroll state. Lo.X <= Hi.X and Lo.Y <= Hi.Y.
type Window struct {
	Lo Point
	Hi Point
}

// FullPlane is the sentinel window meaning "render everything".
var FullPlane = Window{
	Lo: Point{0, 0},
	Hi: Point{math.Inf(1), math.Inf(1)},
}

// IsFullPlane reports whether w is the render-everything sentinel.
func (w Window) IsFullPlane() bool {
	return w.Lo == FullPlane.Lo && math.IsInf(w.Hi.X, 1) && math.IsInf(w.Hi.Y, 1)
}

// Valid reports whether the window satisfies Lo <= Hi on both axes.
func (w Window) Valid() bool {
	return w.Lo.X <= w.Hi.X && w.Lo.Y <= w.Hi.Y
}

// Inset shrinks the window by d on all four edges.
func (w Window) Inset(d float64) Window {
	return Window{
		Lo: Point{w.Lo.X + d, w.Lo.Y + d},
		Hi: Point{w.Hi.X - d, w.Hi.Y - d},
	}
}

// OverlapsY reports whether the vertical span [top, bottom] intersects the window.
func (w Window) OverlapsY(top, bottom float64) bool {
	return top < w.Hi.Y && bottom > w.Lo.Y
}

// String formats the window for logs and cache keys.
func (w Window) String() string {
	return fmt.Sprintf("[%s,%s]-[%s,%s]",
		FormatUnit(w.Lo.X), FormatUnit(w.Lo.Y), FormatUnit(w.Hi.X), FormatUnit(w.Hi.Y))
}

// FormatUnit renders a document-unit value with the shortest exact
// representation, so repeated layouts produce byte-identical attributes.
func FormatUnit(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}
	return strconv.FormatFloat(roundUnit(v), 'f', -1, 64)
}

// roundUnit trims float noise below 1e-6 units.
func roundUnit(v float64) float64 {
	r := math.Round(v*1e6) / 1e6
	if r == 0 {
		return 0
	}
	return r
}
