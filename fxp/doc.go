// Package fxp models finite-word-length fixed-point arithmetic.
//
// A [WordFormat] describes the bit layout of a signed fixed-point number
// (integer bits, fractional bits, one sign bit). A [Quantizer] maps real
// values onto the grid of representable values under a configurable rounding
// rule and overflow policy, reproducing the behavior of fixed-point hardware
// bit for bit: wrapping follows two's-complement semantics, saturation clamps
// to the exact range boundaries.
//
// Overflow is not an error. It is a first-class outcome selected by the
// [OverflowMode]; the quantizer counts overflow events so callers can report
// them after a run.
package fxp
