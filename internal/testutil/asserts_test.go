package testutil

import (
	"math"
	"testing"
)

func TestRequireSliceEqual(t *testing.T) {
	RequireSliceEqual(t, []float64{0.5, -0.25}, []float64{0.5, -0.25})
}

func TestRequireSliceNearlyEqual(t *testing.T) {
	RequireSliceNearlyEqual(t, []float64{1.0000001}, []float64{1}, 1e-6)
}

func TestRequireFinite(t *testing.T) {
	RequireFinite(t, []float64{0, 1, -1e300})
}

func TestMaxAbsDiff(t *testing.T) {
	got, err := MaxAbsDiff([]float64{1, 2, 3}, []float64{1, 2.5, 2})
	if err != nil {
		t.Fatal(err)
	}

	if got != 1 {
		t.Errorf("MaxAbsDiff = %v, want 1", got)
	}

	if _, err := MaxAbsDiff([]float64{1}, []float64{1, 2}); err == nil {
		t.Error("expected error for length mismatch")
	}

	if got, err := MaxAbsDiff(nil, nil); err != nil || got != 0 {
		t.Errorf("MaxAbsDiff(nil, nil) = %v, %v, want 0, nil", got, err)
	}

	if _, err := MaxAbsDiff([]float64{math.NaN()}, []float64{0}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
