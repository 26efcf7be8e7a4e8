package errors

import (
	"math"
	"testing"
)

func TestValidateScaleRatio(t *testing.T) {
	tests := []struct {
		name    string
		input   float64
		wantErr bool
	}{
		{"identity", 1, false},
		{"min", MinScaleRatio, false},
		{"max", MaxScaleRatio, false},
		{"zero", 0, true},
		{"negative", -1, true},
		{"too large", 11, true},
		{"nan", math.NaN(), true},
		{"inf", math.Inf(1), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateScaleRatio(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateScaleRatio(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}

func TestValidatePageIndex(t *testing.T) {
	if err := ValidatePageIndex(0, 1); err != nil {
		t.Errorf("index 0 of 1: %v", err)
	}
	if err := ValidatePageIndex(5, 5); !Is(err, ErrCodePageOutOfRange) {
		t.Errorf("index 5 of 5: %v", err)
	}
	if err := ValidatePageIndex(-1, 5); !Is(err, ErrCodePageOutOfRange) {
		t.Errorf("index -1: %v", err)
	}
}

func TestValidateDimension(t *testing.T) {
	if err := ValidateDimension("width", 0); err != nil {
		t.Errorf("zero width should be accepted: %v", err)
	}
	if err := ValidateDimension("width", -2); err == nil {
		t.Error("negative width should be rejected")
	}
	if err := ValidateDimension("width", math.Inf(1)); err == nil {
		t.Error("infinite width should be rejected")
	}
}

func TestValidateColor(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"empty", "", false},
		{"short hex", "#fff", false},
		{"long hex", "#ffffffaa", false},
		{"rgb", "rgb(10, 20, 30)", false},
		{"rgba percent", "rgba(10%, 20%, 30%, 0.5)", false},
		{"keyword", "white", false},

		{"quote", `white" onload="x`, true},
		{"semicolon", "red;", true},
		{"control", "red\n", true},
		{"bad hex", "#zz", true},
		{"too long", "#" + string(make([]byte, 80)), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateColor(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateColor(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
		})
	}
}
