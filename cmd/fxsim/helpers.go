package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-fixpoint/fxp"
	"github.com/cwbudde/algo-fixpoint/fxp/accu"
)

// parseTaps parses a comma-separated coefficient list like "0.25,0.5,0.25".
func parseTaps(s string) ([]float64, error) {
	if strings.TrimSpace(s) == "" {
		return nil, fmt.Errorf("empty coefficient list")
	}

	parts := strings.Split(s, ",")
	taps := make([]float64, 0, len(parts))

	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, fmt.Errorf("bad coefficient %q: %w", p, err)
		}

		taps = append(taps, v)
	}

	return taps, nil
}

// parseAccSpec parses the accumulator selector: "auto", "full" or
// "man:WI.WF".
func parseAccSpec(s string) (accu.Policy, fxp.WordFormat, error) {
	if manual, ok := strings.CutPrefix(s, "man:"); ok {
		f, err := fxp.ParseWordFormat(manual)
		if err != nil {
			return 0, fxp.WordFormat{}, err
		}

		return accu.PolicyManual, f, nil
	}

	p, err := accu.ParsePolicy(s)
	if err != nil {
		return 0, fxp.WordFormat{}, err
	}

	if p == accu.PolicyManual {
		return 0, fxp.WordFormat{}, fmt.Errorf("manual sizing needs a format: man:WI.WF")
	}

	return p, fxp.WordFormat{}, nil
}

// pcmToFloat converts PCM samples at the given bit depth to [-1, 1).
func pcmToFloat(data []int, bitDepth int) []float64 {
	scale := math.Exp2(float64(bitDepth - 1))
	out := make([]float64, len(data))

	for i, v := range data {
		out[i] = float64(v) / scale
	}

	return out
}

// floatToPCM converts [-1, 1) samples back to PCM integers at the given bit
// depth, clamping at the representable range.
func floatToPCM(data []float64, bitDepth int) []int {
	scale := math.Exp2(float64(bitDepth - 1))
	hi := int(scale) - 1
	lo := -int(scale)
	out := make([]int, len(data))

	for i, v := range data {
		s := int(math.Round(v * scale))
		out[i] = max(lo, min(hi, s))
	}

	return out
}
