// Package coeff quantizes filter tap sequences for fixed-point simulation.
//
// Coefficients are always treated as signed fixed-point values with decimal
// (fixed binary-point) semantics, independent of any display format a caller
// may use elsewhere.
package coeff

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-fixpoint/fxp"
)

// ErrEmptyCoefficients is returned when a tap sequence is nil or empty.
var ErrEmptyCoefficients = errors.New("coeff: empty coefficient sequence")

// Quantize maps each tap onto the fixed-point grid of cfg and returns the
// quantized values. The input slice is not modified.
func Quantize(taps []float64, cfg fxp.Config) ([]float64, error) {
	if len(taps) == 0 {
		return nil, ErrEmptyCoefficients
	}

	q, err := fxp.NewQuantizer(cfg)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(taps))
	q.QuantizeTo(out, taps)

	return out, nil
}

// QuantizeInt quantizes each tap and returns the scaled-integer
// representation (tap * 2^WF truncated to integer), for engines that operate
// purely on integers.
func QuantizeInt(taps []float64, cfg fxp.Config) ([]int64, error) {
	if len(taps) == 0 {
		return nil, ErrEmptyCoefficients
	}

	q, err := fxp.NewQuantizer(cfg)
	if err != nil {
		return nil, err
	}

	out := make([]int64, len(taps))
	for i, t := range taps {
		out[i] = q.QuantizeInt(t)
	}

	return out, nil
}

// Set holds the two tap sequences of an IIR filter: B feed-forward and A
// feedback, index 0 most recent. A[0] is the unity tap of the Direct Form 1
// convention and does not enter the feedback sum.
type Set struct {
	B []float64
	A []float64
}

// Validate checks that both tap sequences are present.
func (s Set) Validate() error {
	if len(s.B) == 0 {
		return fmt.Errorf("%w: b taps", ErrEmptyCoefficients)
	}

	if len(s.A) == 0 {
		return fmt.Errorf("%w: a taps", ErrEmptyCoefficients)
	}

	return nil
}

// MaxAbs returns the largest absolute tap value, or an error for an empty
// sequence.
func MaxAbs(taps []float64) (float64, error) {
	if len(taps) == 0 {
		return 0, ErrEmptyCoefficients
	}

	abs := make([]float64, len(taps))
	for i, t := range taps {
		abs[i] = math.Abs(t)
	}

	return floats.Max(abs), nil
}
