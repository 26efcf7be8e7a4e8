package view

import (
	"testing"

	"github.com/matzehuels/pageview/pkg/errors"
)

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeDocument, false},
		{"doc", ModeDocument, false},
		{"Document", ModeDocument, false},
		{"slide", ModeSlide, false},
		{"book", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseMode(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseMode(%q) error = %v", tt.in, err)
			continue
		}
		if err == nil && got != tt.want {
			t.Errorf("ParseMode(%q) = %v, want %v", tt.in, got, tt.want)
		}
		if err != nil && !errors.Is(err, errors.ErrCodeInvalidMode) {
			t.Errorf("ParseMode(%q) error code = %s", tt.in, errors.GetCode(err))
		}
	}
}

func TestModeValidate(t *testing.T) {
	if err := ModeSlide.Validate(); err != nil {
		t.Errorf("slide should be valid: %v", err)
	}
	if err := Mode(9).Validate(); !errors.Is(err, errors.ErrCodeInvalidMode) {
		t.Errorf("Mode(9).Validate() = %v", err)
	}
}

func TestClampPage(t *testing.T) {
	s := NewState(ModeSlide)
	s.PageIndex = 7
	if got := s.ClampPage(5); got != 4 {
		t.Errorf("ClampPage(5) = %d, want 4", got)
	}
	s.PageIndex = 2
	if got := s.ClampPage(5); got != 2 {
		t.Errorf("in-range index changed to %d", got)
	}
}

func TestViewportFallback(t *testing.T) {
	d := DOMState{Width: 400, Height: 300}
	if w, h := d.Viewport(); w != 400 || h != 300 {
		t.Errorf("Viewport = %v x %v", w, h)
	}
	d.ViewportHeight = 100
	if _, h := d.Viewport(); h != 100 {
		t.Errorf("explicit viewport height ignored: %v", h)
	}
}

func TestTokenSlot(t *testing.T) {
	var s TokenSlot
	if !s.Empty() {
		t.Fatal("zero slot should be empty")
	}

	first, prev := s.Issue()
	if prev != 0 {
		t.Errorf("first Issue superseded %d", prev)
	}
	second, prev := s.Issue()
	if prev != first {
		t.Errorf("second Issue superseded %d, want %d", prev, first)
	}
	if second <= first {
		t.Errorf("generations must increase: %d then %d", first, second)
	}

	if s.ClearIf(first) {
		t.Error("stale generation must not clear the slot")
	}
	if s.Current() != second {
		t.Errorf("Current = %d, want %d", s.Current(), second)
	}
	if !s.ClearIf(second) {
		t.Error("current generation should clear the slot")
	}
	if !s.Empty() {
		t.Error("slot should be empty after clear")
	}
	if s.ClearIf(0) {
		t.Error("zero generation never matches")
	}
}
