package geom

import (
	"math"
	"testing"
)

func TestFullPlane(t *testing.T) {
	if !FullPlane.IsFullPlane() {
		t.Fatal("FullPlane should report IsFullPlane")
	}
	if !FullPlane.Valid() {
		t.Error("FullPlane should be valid")
	}
	w := Window{Hi: Point{100, math.Inf(1)}}
	if w.IsFullPlane() {
		t.Error("finite width window is not the full plane")
	}
}

func TestInset(t *testing.T) {
	w := Window{Lo: Point{0, 100}, Hi: Point{50, 200}}.Inset(0.1)
	if w.Lo.X != 0.1 || w.Lo.Y != 100.1 {
		t.Errorf("Lo = %+v", w.Lo)
	}
	if w.Hi.X != 49.9 || w.Hi.Y != 199.9 {
		t.Errorf("Hi = %+v", w.Hi)
	}
}

func TestOverlapsY(t *testing.T) {
	w := Window{Lo: Point{0, 100}, Hi: Point{10, 200}}
	tests := []struct {
		top, bottom float64
		want        bool
	}{
		{0, 50, false},
		{0, 100, false},
		{0, 101, true},
		{150, 160, true},
		{199, 300, true},
		{200, 300, false},
	}
	for _, tt := range tests {
		if got := w.OverlapsY(tt.top, tt.bottom); got != tt.want {
			t.Errorf("OverlapsY(%v, %v) = %v, want %v", tt.top, tt.bottom, got, tt.want)
		}
	}
}

func TestFormatUnit(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{2310, "2310"},
		{12.5, "12.5"},
		{0.1 + 0.2, "0.3"},
		{math.Inf(1), "inf"},
		{-0.0000001, "0"},
	}
	for _, tt := range tests {
		if got := FormatUnit(tt.in); got != tt.want {
			t.Errorf("FormatUnit(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatUnitLargeValues(t *testing.T) {
	if got := FormatUnit(231000000); got != "231000000" {
		t.Errorf("FormatUnit should not switch to exponent form, got %q", got)
	}
}
