package fxp

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidFormat is returned for word formats with negative bit counts or
// a total width exceeding the representable limit.
var ErrInvalidFormat = errors.New("fxp: invalid word format")

// maxWidth bounds the total word width so that every scaled integer,
// including the range limits, is exactly representable in float64; the
// quantizer's range checks and wrap arithmetic rely on that.
const maxWidth = 53

// WordFormat describes the bit layout of a signed fixed-point number:
// WI integer bits, WF fractional bits and one implicit sign bit.
//
// The total width is always derived via [WordFormat.Width], never stored.
type WordFormat struct {
	WI int // integer bits
	WF int // fractional bits
}

// Width returns the total word length WI + WF + 1 (sign bit included).
func (f WordFormat) Width() int {
	return f.WI + f.WF + 1
}

// Validate reports whether the format describes a usable word layout.
func (f WordFormat) Validate() error {
	if f.WI < 0 || f.WF < 0 {
		return fmt.Errorf("%w: WI=%d WF=%d must be non-negative", ErrInvalidFormat, f.WI, f.WF)
	}

	if f.Width() > maxWidth {
		return fmt.Errorf("%w: width %d exceeds %d bits", ErrInvalidFormat, f.Width(), maxWidth)
	}

	return nil
}

// LSB returns the quantization step 2^-WF.
func (f WordFormat) LSB() float64 {
	return math.Exp2(-float64(f.WF))
}

// MaxFloat returns the largest representable value, 2^WI - 2^-WF.
func (f WordFormat) MaxFloat() float64 {
	return math.Exp2(float64(f.WI)) - f.LSB()
}

// MinFloat returns the smallest representable value, -2^WI.
func (f WordFormat) MinFloat() float64 {
	return -math.Exp2(float64(f.WI))
}

// MaxInt returns the largest representable scaled integer, 2^(W-1) - 1.
func (f WordFormat) MaxInt() int64 {
	return int64(1)<<(f.Width()-1) - 1
}

// MinInt returns the smallest representable scaled integer, -2^(W-1).
func (f WordFormat) MinInt() int64 {
	return -(int64(1) << (f.Width() - 1))
}

// String formats the layout as "WI.WF", the conventional Q-format notation.
func (f WordFormat) String() string {
	return fmt.Sprintf("%d.%d", f.WI, f.WF)
}

// ParseWordFormat parses "WI.WF" notation, e.g. "0.15" or "4.28".
func ParseWordFormat(s string) (WordFormat, error) {
	var f WordFormat

	n, err := fmt.Sscanf(s, "%d.%d", &f.WI, &f.WF)
	if err != nil || n != 2 {
		return WordFormat{}, fmt.Errorf("%w: cannot parse %q as WI.WF", ErrInvalidFormat, s)
	}

	if err := f.Validate(); err != nil {
		return WordFormat{}, err
	}

	return f, nil
}
