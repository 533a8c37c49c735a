package accu

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-fixpoint/fxp"
)

func TestSizeFullPolicy(t *testing.T) {
	s, err := NewSizer(PolicyFull)
	require.NoError(t, err)

	// 8 taps -> growth ceil(log2(8)) = 3.
	taps := make([]float64, 8)
	got, err := s.Size(fxp.WordFormat{WI: 0, WF: 15}, fxp.WordFormat{WI: 1, WF: 14}, taps)
	require.NoError(t, err)
	require.Equal(t, fxp.WordFormat{WI: 4, WF: 29}, got)
	require.Equal(t, 34, got.Width())
}

func TestSizeFullSingleTap(t *testing.T) {
	s, err := NewSizer(PolicyFull)
	require.NoError(t, err)

	got, err := s.Size(fxp.WordFormat{WI: 0, WF: 15}, fxp.WordFormat{WI: 0, WF: 15}, []float64{1})
	require.NoError(t, err)
	require.Equal(t, fxp.WordFormat{WI: 0, WF: 30}, got)
}

func TestSizeAutoPolicy(t *testing.T) {
	s, err := NewSizer(PolicyAuto)
	require.NoError(t, err)

	// sum(|tap|) = 5.0 -> growth ceil(log2(5)) = 3.
	taps := []float64{2.5, -1.25, 0.75, 0.5}
	got, err := s.Size(fxp.WordFormat{WI: 1, WF: 14}, fxp.WordFormat{WI: 2, WF: 13}, taps)
	require.NoError(t, err)
	require.Equal(t, fxp.WordFormat{WI: 6, WF: 27}, got)
}

func TestSizeAutoAttenuatingTaps(t *testing.T) {
	s, err := NewSizer(PolicyAuto)
	require.NoError(t, err)

	// sum(|tap|) = 0.25 -> growth -2; derived WI clamps at 0.
	got, err := s.Size(fxp.WordFormat{WI: 0, WF: 15}, fxp.WordFormat{WI: 0, WF: 15}, []float64{0.125, 0.125})
	require.NoError(t, err)
	require.Equal(t, fxp.WordFormat{WI: 0, WF: 30}, got)
}

func TestSizeManualPolicy(t *testing.T) {
	s, err := NewSizer(PolicyManual)
	require.NoError(t, err)
	require.NoError(t, s.SetManual(fxp.WordFormat{WI: 6, WF: 40}))

	// Manual formats pass through untouched, taps are irrelevant.
	got, err := s.Size(fxp.WordFormat{WI: 0, WF: 15}, fxp.WordFormat{WI: 0, WF: 15}, nil)
	require.NoError(t, err)
	require.Equal(t, fxp.WordFormat{WI: 6, WF: 40}, got)
}

func TestSizeErrorRetainsLastGood(t *testing.T) {
	s, err := NewSizer(PolicyAuto)
	require.NoError(t, err)

	in := fxp.WordFormat{WI: 0, WF: 15}
	cf := fxp.WordFormat{WI: 1, WF: 14}

	good, err := s.Size(in, cf, []float64{2.5, 1.25, 0.75, 0.5})
	require.NoError(t, err)

	// Empty taps: domain error, previous format unchanged.
	got, err := s.Size(in, cf, nil)
	require.ErrorIs(t, err, ErrSizingDomain)
	require.Equal(t, good, got)

	// Zero coefficient area: same recovery.
	got, err = s.Size(in, cf, []float64{0, 0, 0})
	require.ErrorIs(t, err, ErrSizingDomain)
	require.Equal(t, good, got)

	last, ok := s.Last()
	require.True(t, ok)
	require.Equal(t, good, last)
}

func TestSizeErrorWithoutHistory(t *testing.T) {
	s, err := NewSizer(PolicyFull)
	require.NoError(t, err)

	got, err := s.Size(fxp.WordFormat{WI: 0, WF: 15}, fxp.WordFormat{WI: 0, WF: 15}, nil)
	require.ErrorIs(t, err, ErrSizingDomain)
	require.Equal(t, fxp.WordFormat{}, got)

	_, ok := s.Last()
	require.False(t, ok)
}

func TestSizeInvalidFormats(t *testing.T) {
	s, err := NewSizer(PolicyFull)
	require.NoError(t, err)

	_, err = s.Size(fxp.WordFormat{WI: -1, WF: 15}, fxp.WordFormat{WI: 0, WF: 15}, []float64{1})
	require.ErrorIs(t, err, fxp.ErrInvalidFormat)
}

func TestSizerPolicyChanges(t *testing.T) {
	s, err := NewSizer(PolicyFull)
	require.NoError(t, err)

	require.NoError(t, s.SetPolicy(PolicyAuto))
	require.Equal(t, PolicyAuto, s.Policy())

	require.Error(t, s.SetPolicy(Policy(42)))

	_, err = NewSizer(Policy(-1))
	require.Error(t, err)
}

func TestParsePolicy(t *testing.T) {
	tests := []struct {
		in      string
		want    Policy
		wantErr bool
	}{
		{"man", PolicyManual, false},
		{"full", PolicyFull, false},
		{"auto", PolicyAuto, false},
		{"manual", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		got, err := ParsePolicy(tt.in)
		if tt.wantErr {
			require.Error(t, err, tt.in)
			continue
		}

		require.NoError(t, err, tt.in)
		require.Equal(t, tt.want, got, tt.in)
	}
}

func TestPolicyStringRoundTrip(t *testing.T) {
	for _, p := range []Policy{PolicyManual, PolicyFull, PolicyAuto} {
		got, err := ParsePolicy(p.String())
		require.NoError(t, err)
		require.Equal(t, p, got)
	}
}
