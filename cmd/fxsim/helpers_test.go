package main

import (
	"testing"

	"github.com/cwbudde/algo-fixpoint/fxp"
	"github.com/cwbudde/algo-fixpoint/fxp/accu"
)

func TestParseTaps(t *testing.T) {
	got, err := parseTaps("0.25, -0.5,1")
	if err != nil {
		t.Fatal(err)
	}

	want := []float64{0.25, -0.5, 1}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: got %v, want %v", i, got[i], want[i])
		}
	}

	for _, bad := range []string{"", "  ", "0.1,,0.2", "0.1,abc"} {
		if _, err := parseTaps(bad); err == nil {
			t.Errorf("parseTaps(%q): expected error", bad)
		}
	}
}

func TestParseAccSpec(t *testing.T) {
	p, _, err := parseAccSpec("auto")
	if err != nil || p != accu.PolicyAuto {
		t.Errorf("auto: got %v, %v", p, err)
	}

	p, _, err = parseAccSpec("full")
	if err != nil || p != accu.PolicyFull {
		t.Errorf("full: got %v, %v", p, err)
	}

	p, f, err := parseAccSpec("man:4.28")
	if err != nil || p != accu.PolicyManual {
		t.Fatalf("man:4.28: got %v, %v", p, err)
	}

	if f != (fxp.WordFormat{WI: 4, WF: 28}) {
		t.Errorf("man:4.28: format = %v", f)
	}

	for _, bad := range []string{"man", "man:x.y", "none", ""} {
		if _, _, err := parseAccSpec(bad); err == nil {
			t.Errorf("parseAccSpec(%q): expected error", bad)
		}
	}
}

func TestPCMRoundTrip(t *testing.T) {
	data := []int{0, 16384, -16384, 32767, -32768}

	f := pcmToFloat(data, 16)
	back := floatToPCM(f, 16)

	for i := range data {
		if back[i] != data[i] {
			t.Errorf("index %d: got %d, want %d", i, back[i], data[i])
		}
	}
}

func TestFloatToPCMClamps(t *testing.T) {
	got := floatToPCM([]float64{1.5, -1.5}, 16)

	if got[0] != 32767 {
		t.Errorf("over-range: got %d, want 32767", got[0])
	}

	if got[1] != -32768 {
		t.Errorf("under-range: got %d, want -32768", got[1])
	}
}

func TestBuildEngine(t *testing.T) {
	eng, accFormat, err := buildEngine("0.25,0.5,0.25", "1", "0.15", "0.15", "", "full", "round", "wrap")
	if err != nil {
		t.Fatal(err)
	}

	if !eng.Configured() {
		t.Error("engine not configured")
	}

	// 3 taps -> growth 2; WI = 0+0+2, WF = 15+15.
	if accFormat != (fxp.WordFormat{WI: 2, WF: 30}) {
		t.Errorf("accumulator format = %v, want 2.30", accFormat)
	}

	if _, _, err := buildEngine("", "1", "0.15", "0.15", "", "auto", "round", "wrap"); err == nil {
		t.Error("expected error for empty b taps")
	}

	if _, _, err := buildEngine("0.5", "1", "0.15", "0.15", "", "auto", "nearest", "wrap"); err == nil {
		t.Error("expected error for bad rounding mode")
	}
}
