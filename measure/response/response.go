// Package response measures the impulse and magnitude response of a
// configured fixed-point filter, for comparison against the floating-point
// design it approximates.
package response

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-fixpoint/fxp/df1"
)

// Errors returned by response measurements.
var (
	ErrInvalidLength  = errors.New("response: length must be > 0")
	ErrInvalidFFTSize = errors.New("response: fft size must be a power of two covering the response")
	ErrEmptyResponse  = errors.New("response: empty impulse response")
)

// dbFloor replaces -Inf for zero-magnitude bins.
const dbFloor = -300.0

// ImpulseResponse drives the engine with a unit impulse and returns n output
// samples. The engine's delay lines are reset before and after, so a
// measurement never disturbs an ongoing simulation.
func ImpulseResponse(e *df1.Engine, n int) ([]float64, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidLength, n)
	}

	e.Reset()
	defer e.Reset()

	impulse := make([]float64, n)
	impulse[0] = 1

	return e.Run(impulse)
}

// Magnitude returns |H[k]| for the first fftSize/2+1 bins of the zero-padded
// impulse response. A non-positive fftSize selects the next power of two
// covering the response.
func Magnitude(ir []float64, fftSize int) ([]float64, error) {
	if len(ir) == 0 {
		return nil, ErrEmptyResponse
	}

	if fftSize <= 0 {
		fftSize = nextPowerOf2(len(ir))
	}

	if fftSize < len(ir) || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d for %d samples", ErrInvalidFFTSize, fftSize, len(ir))
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("response: failed to create FFT plan: %w", err)
	}

	padded := make([]complex128, fftSize)
	for i, v := range ir {
		padded[i] = complex(v, 0)
	}

	freq := make([]complex128, fftSize)
	if err := plan.Forward(freq, padded); err != nil {
		return nil, fmt.Errorf("response: forward FFT failed: %w", err)
	}

	bins := fftSize/2 + 1
	re := make([]float64, bins)
	im := make([]float64, bins)

	for i := range bins {
		re[i] = real(freq[i])
		im[i] = imag(freq[i])
	}

	mag := make([]float64, bins)
	vecmath.Magnitude(mag, re, im)

	return mag, nil
}

// MagnitudeDB returns the magnitude response in dB (20*log10). Zero bins are
// floored at -300 dB instead of -Inf.
func MagnitudeDB(ir []float64, fftSize int) ([]float64, error) {
	mag, err := Magnitude(ir, fftSize)
	if err != nil {
		return nil, err
	}

	for i, m := range mag {
		if m == 0 {
			mag[i] = dbFloor
			continue
		}

		mag[i] = max(20*math.Log10(m), dbFloor)
	}

	return mag, nil
}

func nextPowerOf2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}

	return size
}
