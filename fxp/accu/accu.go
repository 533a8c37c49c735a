// Package accu sizes the accumulator word format of a fixed-point filter.
//
// The accumulator holds the full sum of products before the final rounding;
// its integer part must carry extra "bit growth" beyond the combined operand
// widths to avoid overflow. Growth is computed from the feed-forward taps and
// the input format only, matching the sizing rule of the original fixpoint
// tool; aggressive feedback paths may need a manual format instead.
package accu

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-fixpoint/fxp"
)

// ErrSizingDomain is returned when the bit-growth computation is undefined:
// empty taps or zero coefficient area. The previous good format is retained.
var ErrSizingDomain = errors.New("accu: bit growth undefined")

// Policy selects how the accumulator format is determined.
type Policy int

const (
	// PolicyManual uses a caller-supplied format unchanged.
	PolicyManual Policy = iota
	// PolicyFull grows by ceil(log2(N)) for N taps; a conservative bound
	// valid for arbitrary coefficient values.
	PolicyFull
	// PolicyAuto grows by ceil(log2(sum(|tap|))); a tighter bound valid only
	// for the given coefficient set.
	PolicyAuto
)

// Valid reports whether the policy is one of the defined variants.
func (p Policy) Valid() bool {
	return p >= PolicyManual && p <= PolicyAuto
}

// String returns the boundary-schema tag for the policy.
func (p Policy) String() string {
	switch p {
	case PolicyManual:
		return "man"
	case PolicyFull:
		return "full"
	case PolicyAuto:
		return "auto"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// ParsePolicy maps the schema tags "man", "full" and "auto" onto [Policy]
// values. Unknown tags are rejected.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "man":
		return PolicyManual, nil
	case "full":
		return PolicyFull, nil
	case "auto":
		return PolicyAuto, nil
	default:
		return 0, fmt.Errorf("accu: unknown sizing policy %q", s)
	}
}

// Sizer derives accumulator word formats under a sizing policy. It keeps the
// last successfully derived format so that a sizing error never replaces a
// valid width with a nonsensical one.
type Sizer struct {
	policy   Policy
	manual   fxp.WordFormat
	last     fxp.WordFormat
	haveLast bool
}

// NewSizer returns a Sizer with the given policy.
func NewSizer(policy Policy) (*Sizer, error) {
	if !policy.Valid() {
		return nil, fmt.Errorf("accu: invalid sizing policy: %d", int(policy))
	}

	return &Sizer{policy: policy}, nil
}

// SetPolicy changes the sizing policy.
func (s *Sizer) SetPolicy(policy Policy) error {
	if !policy.Valid() {
		return fmt.Errorf("accu: invalid sizing policy: %d", int(policy))
	}

	s.policy = policy

	return nil
}

// SetManual stores the format used under [PolicyManual].
func (s *Sizer) SetManual(f fxp.WordFormat) error {
	if err := f.Validate(); err != nil {
		return err
	}

	s.manual = f

	return nil
}

// Policy returns the current sizing policy.
func (s *Sizer) Policy() Policy {
	return s.policy
}

// Last returns the most recently derived format and whether one exists.
func (s *Sizer) Last() (fxp.WordFormat, bool) {
	return s.last, s.haveLast
}

// Size computes the accumulator format for the given input format,
// coefficient format and feed-forward taps.
//
// On a sizing error the last-known-good format is returned together with the
// error, so callers can keep running with the previous width while surfacing
// the warning.
func (s *Sizer) Size(input, coeff fxp.WordFormat, taps []float64) (fxp.WordFormat, error) {
	switch s.policy {
	case PolicyManual:
		if err := s.manual.Validate(); err != nil {
			return s.last, err
		}

		s.remember(s.manual)

		return s.manual, nil

	case PolicyFull, PolicyAuto:
		if err := input.Validate(); err != nil {
			return s.last, err
		}

		if err := coeff.Validate(); err != nil {
			return s.last, err
		}

		growth, err := s.growth(taps)
		if err != nil {
			return s.last, err
		}

		derived := fxp.WordFormat{
			WI: input.WI + coeff.WI + growth,
			WF: input.WF + coeff.WF,
		}
		// A tight Auto bound on attenuating taps can push WI below zero;
		// clamp at the sanitization boundary.
		if derived.WI < 0 {
			derived.WI = 0
		}

		if err := derived.Validate(); err != nil {
			return s.last, fmt.Errorf("%w: derived format %v: %v", ErrSizingDomain, derived, err)
		}

		s.remember(derived)

		return derived, nil

	default:
		return s.last, fmt.Errorf("accu: invalid sizing policy: %d", int(s.policy))
	}
}

func (s *Sizer) growth(taps []float64) (int, error) {
	if len(taps) == 0 {
		return 0, fmt.Errorf("%w: empty tap sequence", ErrSizingDomain)
	}

	if s.policy == PolicyFull {
		return int(math.Ceil(math.Log2(float64(len(taps))))), nil
	}

	area := floats.Norm(taps, 1)
	if area == 0 {
		return 0, fmt.Errorf("%w: zero coefficient area", ErrSizingDomain)
	}

	return int(math.Ceil(math.Log2(area))), nil
}

func (s *Sizer) remember(f fxp.WordFormat) {
	s.last = f
	s.haveLast = true
}
