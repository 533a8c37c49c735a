package fxp

import (
	"fmt"
	"math"
)

// Config bundles the quantization settings of one signal role (input,
// coefficient, accumulator or output). Each role owns an independent Config.
type Config struct {
	Format   WordFormat
	Round    RoundMode
	Overflow OverflowMode
}

// DefaultConfig returns the conventional Q0.15 setup: round to nearest,
// two's-complement wraparound.
func DefaultConfig() Config {
	return Config{
		Format:   WordFormat{WI: 0, WF: 15},
		Round:    RoundNearest,
		Overflow: OverflowWrap,
	}
}

// Validate checks the word format and both mode selectors.
func (c Config) Validate() error {
	if err := c.Format.Validate(); err != nil {
		return err
	}

	if !c.Round.Valid() {
		return fmt.Errorf("fxp: invalid rounding mode: %d", int(c.Round))
	}

	if !c.Overflow.Valid() {
		return fmt.Errorf("fxp: invalid overflow mode: %d", int(c.Overflow))
	}

	return nil
}

// Quantizer maps real values onto the fixed-point grid of its Config.
// Quantization is idempotent: re-quantizing an already representable value
// under the same Config is a no-op.
type Quantizer struct {
	cfg Config

	// derived from cfg.Format
	scale    float64 // 2^WF
	invScale float64 // 2^-WF
	lo, hi   float64 // signed scaled-integer limits
	period   float64 // 2^W

	overflows uint64
}

// NewQuantizer validates cfg and returns a ready Quantizer.
func NewQuantizer(cfg Config) (*Quantizer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	q := &Quantizer{cfg: cfg}
	q.updateDerived()

	return q, nil
}

func (q *Quantizer) updateDerived() {
	f := q.cfg.Format
	q.scale = math.Exp2(float64(f.WF))
	q.invScale = math.Exp2(-float64(f.WF))
	q.hi = float64(f.MaxInt())
	q.lo = float64(f.MinInt())
	q.period = math.Exp2(float64(f.Width()))
}

// Quantize returns the fixed-point value nearest to x under the configured
// rounding and overflow rules.
func (q *Quantizer) Quantize(x float64) float64 {
	return q.scaledInt(x) * q.invScale
}

// QuantizeInt returns the raw scaled integer x * 2^WF after rounding and
// overflow handling, for consumers operating purely on integers.
func (q *Quantizer) QuantizeInt(x float64) int64 {
	return int64(q.scaledInt(x))
}

// QuantizeInPlace quantizes each sample in buf in-place.
func (q *Quantizer) QuantizeInPlace(buf []float64) {
	for i, v := range buf {
		buf[i] = q.Quantize(v)
	}
}

// QuantizeTo quantizes src into dst. Both slices must have the same length.
func (q *Quantizer) QuantizeTo(dst, src []float64) {
	_ = dst[len(src)-1] // bounds check hint
	for i, v := range src {
		dst[i] = q.Quantize(v)
	}
}

// scaledInt performs the scale/round/overflow steps and returns the
// integer-valued scaled result as a float64.
func (q *Quantizer) scaledInt(x float64) float64 {
	if math.IsNaN(x) {
		q.overflows++
		return 0
	}

	s := x * q.scale

	switch q.cfg.Round {
	case RoundNearest:
		s = math.Round(s)
	case RoundFix:
		s = math.Trunc(s)
	case RoundFloor:
		s = math.Floor(s)
	}

	if s >= q.lo && s <= q.hi {
		return s
	}

	q.overflows++

	// Infinities have no finite residue to wrap; clamp them under either
	// policy.
	if q.cfg.Overflow == OverflowSaturate || math.IsInf(s, 0) {
		if s > q.hi {
			return q.hi
		}

		return q.lo
	}

	// Two's-complement wraparound: reduce modulo 2^W, remap into the signed
	// range.
	m := math.Mod(s-q.lo, q.period)
	if m < 0 {
		m += q.period
	}

	return m + q.lo
}

// Overflows returns the number of values that exceeded the representable
// range since construction or the last ResetCounters call.
func (q *Quantizer) Overflows() uint64 {
	return q.overflows
}

// ResetCounters clears the overflow counter.
func (q *Quantizer) ResetCounters() {
	q.overflows = 0
}

// Config returns the quantizer configuration.
func (q *Quantizer) Config() Config {
	return q.cfg
}

// Format returns the word format of the quantizer.
func (q *Quantizer) Format() WordFormat {
	return q.cfg.Format
}

// Quantize is a one-shot convenience for a single value; it validates cfg on
// every call. Hot paths should construct a [Quantizer] once instead.
func Quantize(x float64, cfg Config) (float64, error) {
	q, err := NewQuantizer(cfg)
	if err != nil {
		return 0, err
	}

	return q.Quantize(x), nil
}
