package fxp

import "fmt"

// RoundMode selects the rounding rule applied when mapping a scaled value to
// the integer grid.
type RoundMode int

const (
	// RoundNearest rounds to the nearest integer, ties away from zero.
	RoundNearest RoundMode = iota
	// RoundFix truncates toward zero.
	RoundFix
	// RoundFloor rounds toward negative infinity.
	RoundFloor
)

// Valid reports whether the mode is one of the defined rounding rules.
func (m RoundMode) Valid() bool {
	return m >= RoundNearest && m <= RoundFloor
}

// String returns the boundary-schema tag for the mode.
func (m RoundMode) String() string {
	switch m {
	case RoundNearest:
		return "round"
	case RoundFix:
		return "fix"
	case RoundFloor:
		return "floor"
	default:
		return fmt.Sprintf("RoundMode(%d)", int(m))
	}
}

// ParseRoundMode maps the schema tags "round", "fix" and "floor" onto
// [RoundMode] values. Unknown tags are rejected.
func ParseRoundMode(s string) (RoundMode, error) {
	switch s {
	case "round":
		return RoundNearest, nil
	case "fix":
		return RoundFix, nil
	case "floor":
		return RoundFloor, nil
	default:
		return 0, fmt.Errorf("fxp: unknown rounding mode %q", s)
	}
}

// OverflowMode selects the policy for values exceeding the representable
// range.
type OverflowMode int

const (
	// OverflowWrap reduces modulo 2^W with two's-complement semantics.
	OverflowWrap OverflowMode = iota
	// OverflowSaturate clamps to the nearest range boundary.
	OverflowSaturate
)

// Valid reports whether the mode is one of the defined overflow policies.
func (m OverflowMode) Valid() bool {
	return m == OverflowWrap || m == OverflowSaturate
}

// String returns the boundary-schema tag for the mode.
func (m OverflowMode) String() string {
	switch m {
	case OverflowWrap:
		return "wrap"
	case OverflowSaturate:
		return "sat"
	default:
		return fmt.Sprintf("OverflowMode(%d)", int(m))
	}
}

// ParseOverflowMode maps the schema tags "wrap" and "sat" onto
// [OverflowMode] values. Unknown tags are rejected.
func ParseOverflowMode(s string) (OverflowMode, error) {
	switch s {
	case "wrap":
		return OverflowWrap, nil
	case "sat":
		return OverflowSaturate, nil
	default:
		return 0, fmt.Errorf("fxp: unknown overflow mode %q", s)
	}
}
