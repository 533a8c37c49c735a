// Package signal generates deterministic test stimuli for fixed-point
// filter simulations.
package signal

import (
	"fmt"
	"math"
	"math/rand/v2"
)

// Generator creates deterministic stimuli from a shared configuration.
type Generator struct {
	seed uint64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets the deterministic random seed for noise generation.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured stimulus generator.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{seed: 1}

	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}

	return g
}

// Impulse generates a unit-style impulse: amplitude at index 0, zero after.
func (g *Generator) Impulse(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("impulse samples must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	out[0] = amplitude

	return out, nil
}

// Step generates a step of the given amplitude.
func (g *Generator) Step(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("step samples must be > 0: %d", samples)
	}

	out := make([]float64, samples)
	for i := range out {
		out[i] = amplitude
	}

	return out, nil
}

// Sine generates a sine wave at freqHz for the given sample rate.
func (g *Generator) Sine(freqHz, amplitude float64, samples int, sampleRate float64) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}

	if sampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", sampleRate)
	}

	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / sampleRate

	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out, nil
}

// WhiteNoise generates uniform white noise in [-amplitude, amplitude]. The
// sequence is a pure function of the generator seed, so repeated simulation
// runs see identical stimuli.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}

	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}

	rng := rand.New(rand.NewPCG(g.seed, 0))
	out := make([]float64, samples)

	for i := range out {
		out[i] = amplitude * (2*rng.Float64() - 1)
	}

	return out, nil
}

// Normalize rescales data so its largest magnitude equals targetPeak and
// returns the result as a new slice. All-zero data stays zero.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	var peak float64
	for _, v := range data {
		peak = math.Max(peak, math.Abs(v))
	}

	out := make([]float64, len(data))
	if peak == 0 || targetPeak == 0 {
		return out, nil
	}

	for i, v := range data {
		out[i] = v * (targetPeak / peak)
	}

	return out, nil
}
