package errors

import (
	"math"
	"regexp"
	"strings"
	"unicode"
)

// Zoom limits accepted for the user scale ratio.
const (
	MinScaleRatio = 0.1
	MaxScaleRatio = 10.0
)

// ValidateScaleRatio checks that a zoom ratio is finite and within
// [MinScaleRatio, MaxScaleRatio].
func ValidateScaleRatio(r float64) error {
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return New(ErrCodeInvalidInput, "scale ratio must be finite")
	}
	if r < MinScaleRatio || r > MaxScaleRatio {
		return New(ErrCodeInvalidInput, "scale ratio %g out of range [%g, %g]", r, MinScaleRatio, MaxScaleRatio)
	}
	return nil
}

// ValidatePageIndex checks that i addresses one of count pages.
func ValidatePageIndex(i, count int) error {
	if i < 0 {
		return New(ErrCodePageOutOfRange, "page index %d is negative", i)
	}
	if i >= count {
		return New(ErrCodePageOutOfRange, "page index %d out of range (document has %d pages)", i, count)
	}
	return nil
}

// ValidateDimension checks that a container or page dimension is a finite,
// non-negative number.
func ValidateDimension(name string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return New(ErrCodeInvalidInput, "%s must be finite", name)
	}
	if v < 0 {
		return New(ErrCodeInvalidInput, "%s must not be negative (got %g)", name, v)
	}
	return nil
}

// colorRegex matches hex colors, rgb()/rgba() and plain color keywords.
var colorRegex = regexp.MustCompile(`^(#[0-9a-fA-F]{3,8}|rgba?\([0-9.,%\s]+\)|[a-zA-Z]+)$`)

// ValidateColor validates a fill color before it is written into an
// attribute. An empty color means "unset" and is accepted.
//
// The rules are conservative: hex (#rgb .. #rrggbbaa), rgb()/rgba(), or a
// keyword. Quotes, semicolons and control characters are rejected so the
// value can never break out of the attribute.
func ValidateColor(c string) error {
	if c == "" {
		return nil
	}
	if len(c) > 64 {
		return New(ErrCodeInvalidColor, "color too long (max 64 characters)")
	}
	for _, r := range c {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidColor, "color contains control characters")
		}
	}
	if strings.ContainsAny(c, `"';<>`) {
		return New(ErrCodeInvalidColor, "color contains invalid characters: %q", c)
	}
	if !colorRegex.MatchString(c) {
		return New(ErrCodeInvalidColor, "invalid color: %q", c)
	}
	return nil
}
