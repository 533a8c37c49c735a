// Command fxsim simulates a fixed-point IIR filter (Direct Form 1) and
// reports how quantization changes its behavior.
//
// Usage:
//
//	fxsim [flags]                     # run a generated stimulus, print a table
//	fxsim [flags] in.wav out.wav      # filter a mono WAV file
//
// Examples:
//
//	fxsim -b 0.25,0.5,0.25 -a 1 -stim impulse -n 16
//	fxsim -b 0.5 -a 1,-0.5 -acc man:4.28 -stim step
//	fxsim -b 0.25,0.5,0.25 -a 1 -resp
//	fxsim -b 0.25,0.5,0.25 -a 1 -in 0.15 -ovfl sat in.wav out.wav
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"text/tabwriter"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-fixpoint/fxp"
	"github.com/cwbudde/algo-fixpoint/fxp/accu"
	"github.com/cwbudde/algo-fixpoint/fxp/coeff"
	"github.com/cwbudde/algo-fixpoint/fxp/df1"
	"github.com/cwbudde/algo-fixpoint/measure/response"
	"github.com/cwbudde/algo-fixpoint/signal"
)

const wavFrameLength = 8192

func main() {
	var (
		bList    = flag.String("b", "0.25,0.5,0.25", "feed-forward taps, comma separated")
		aList    = flag.String("a", "1", "feedback taps, comma separated (a[0] is the unity tap)")
		inFmt    = flag.String("in", "0.15", "input word format WI.WF")
		coeffFmt = flag.String("coeff", "0.15", "coefficient word format WI.WF")
		outFmt   = flag.String("out", "", "optional output word format WI.WF")
		accSpec  = flag.String("acc", "auto", "accumulator sizing: auto, full or man:WI.WF")
		quant    = flag.String("quant", "round", "rounding mode: round, fix or floor")
		ovfl     = flag.String("ovfl", "wrap", "overflow mode: wrap or sat")
		stim     = flag.String("stim", "impulse", "stimulus: impulse, step, sine or noise")
		n        = flag.Int("n", 32, "stimulus length in samples")
		amp      = flag.Float64("amp", 0.5, "stimulus amplitude")
		freq     = flag.Float64("freq", 1000, "sine frequency in Hz")
		rate     = flag.Float64("rate", 48000, "sine sample rate in Hz")
		seed     = flag.Uint64("seed", 1, "noise seed")
		resp     = flag.Bool("resp", false, "print the magnitude response in dB instead of samples")
	)

	flag.Parse()

	log.SetFlags(0)
	log.SetPrefix("fxsim: ")

	eng, accFormat, err := buildEngine(*bList, *aList, *inFmt, *coeffFmt, *outFmt, *accSpec, *quant, *ovfl)
	if err != nil {
		log.Fatal(err)
	}

	switch flag.NArg() {
	case 0:
		if *resp {
			err = printResponse(eng, accFormat, *n)
		} else {
			err = runStimulus(eng, accFormat, *stim, *n, *amp, *freq, *rate, *seed)
		}
	case 2:
		err = filterWAV(eng, flag.Arg(0), flag.Arg(1))
	default:
		err = fmt.Errorf("expected no positional arguments or: in.wav out.wav")
	}

	if err != nil {
		log.Fatal(err)
	}
}

// buildEngine parses all format and mode flags, sizes the accumulator and
// returns a configured engine.
func buildEngine(bList, aList, inFmt, coeffFmt, outFmt, accSpec, quant, ovfl string) (*df1.Engine, fxp.WordFormat, error) {
	b, err := parseTaps(bList)
	if err != nil {
		return nil, fxp.WordFormat{}, fmt.Errorf("-b: %w", err)
	}

	a, err := parseTaps(aList)
	if err != nil {
		return nil, fxp.WordFormat{}, fmt.Errorf("-a: %w", err)
	}

	inFormat, err := fxp.ParseWordFormat(inFmt)
	if err != nil {
		return nil, fxp.WordFormat{}, fmt.Errorf("-in: %w", err)
	}

	coeffFormat, err := fxp.ParseWordFormat(coeffFmt)
	if err != nil {
		return nil, fxp.WordFormat{}, fmt.Errorf("-coeff: %w", err)
	}

	round, err := fxp.ParseRoundMode(quant)
	if err != nil {
		return nil, fxp.WordFormat{}, err
	}

	overflow, err := fxp.ParseOverflowMode(ovfl)
	if err != nil {
		return nil, fxp.WordFormat{}, err
	}

	policy, manual, err := parseAccSpec(accSpec)
	if err != nil {
		return nil, fxp.WordFormat{}, fmt.Errorf("-acc: %w", err)
	}

	sizer, err := accu.NewSizer(policy)
	if err != nil {
		return nil, fxp.WordFormat{}, err
	}

	if policy == accu.PolicyManual {
		if err := sizer.SetManual(manual); err != nil {
			return nil, fxp.WordFormat{}, err
		}
	}

	accFormat, err := sizer.Size(inFormat, coeffFormat, b)
	if err != nil {
		return nil, fxp.WordFormat{}, fmt.Errorf("accumulator sizing: %w", err)
	}

	cfgs := df1.ConfigSet{
		Input:       fxp.Config{Format: inFormat, Round: round, Overflow: overflow},
		CoeffB:      fxp.Config{Format: coeffFormat, Round: round, Overflow: overflow},
		CoeffA:      fxp.Config{Format: coeffFormat, Round: round, Overflow: overflow},
		Accumulator: fxp.Config{Format: accFormat, Round: round, Overflow: overflow},
	}

	if outFmt != "" {
		outFormat, err := fxp.ParseWordFormat(outFmt)
		if err != nil {
			return nil, fxp.WordFormat{}, fmt.Errorf("-out: %w", err)
		}

		cfgs.Output = &fxp.Config{Format: outFormat, Round: round, Overflow: overflow}
	}

	eng := df1.New()
	if err := eng.Configure(coeff.Set{B: b, A: a}, cfgs); err != nil {
		return nil, fxp.WordFormat{}, err
	}

	return eng, accFormat, nil
}

func printHeader(w *tabwriter.Writer, eng *df1.Engine, accFormat fxp.WordFormat) {
	fmt.Fprintf(w, "accumulator\tQ%s (W=%d)\n", accFormat, accFormat.Width())
	fmt.Fprintf(w, "b quantized\t%v\n", eng.CoefficientsB())
	fmt.Fprintf(w, "a quantized\t%v\n", eng.CoefficientsA())
}

func runStimulus(eng *df1.Engine, accFormat fxp.WordFormat, stim string, n int, amp, freq, rate float64, seed uint64) error {
	gen := signal.NewGenerator(signal.WithSeed(seed))

	var (
		input []float64
		err   error
	)

	switch stim {
	case "impulse":
		input, err = gen.Impulse(amp, n)
	case "step":
		input, err = gen.Step(amp, n)
	case "sine":
		input, err = gen.Sine(freq, amp, n, rate)
	case "noise":
		input, err = gen.WhiteNoise(amp, n)
	default:
		err = fmt.Errorf("unknown stimulus %q", stim)
	}

	if err != nil {
		return err
	}

	output, err := eng.Run(input)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	printHeader(w, eng, accFormat)
	fmt.Fprintln(w, "n\tx[n]\ty[n]")

	for i := range input {
		fmt.Fprintf(w, "%d\t%.10g\t%.10g\n", i, input[i], output[i])
	}

	fmt.Fprintf(w, "overflows\t%d\n", eng.Overflows())

	return w.Flush()
}

func printResponse(eng *df1.Engine, accFormat fxp.WordFormat, n int) error {
	ir, err := response.ImpulseResponse(eng, n)
	if err != nil {
		return err
	}

	db, err := response.MagnitudeDB(ir, 0)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	printHeader(w, eng, accFormat)
	fmt.Fprintln(w, "bin\t|H| dB")

	for i, d := range db {
		fmt.Fprintf(w, "%d\t%.3f\n", i, d)
	}

	return w.Flush()
}

func filterWAV(eng *df1.Engine, inPath, outPath string) error {
	in, err := os.Open(inPath)
	if err != nil {
		return err
	}
	defer in.Close()

	dec := wav.NewDecoder(in)
	if !dec.IsValidFile() {
		return fmt.Errorf("%s: not a valid WAV file", inPath)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return fmt.Errorf("%s: %w", inPath, err)
	}

	if buf.Format.NumChannels != 1 {
		return fmt.Errorf("%s: only mono files are supported (%d channels)", inPath, buf.Format.NumChannels)
	}

	bitDepth := int(dec.BitDepth)
	samples := pcmToFloat(buf.Data, bitDepth)

	filtered, err := eng.RunFrames(context.Background(), samples, wavFrameLength, nil)
	if err != nil {
		return err
	}

	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()

	enc := wav.NewEncoder(out, buf.Format.SampleRate, bitDepth, 1, 1)

	outBuf := &audio.IntBuffer{
		Format:         buf.Format,
		Data:           floatToPCM(filtered, bitDepth),
		SourceBitDepth: bitDepth,
	}

	if err := enc.Write(outBuf); err != nil {
		return err
	}

	if err := enc.Close(); err != nil {
		return err
	}

	log.Printf("%s -> %s: %d samples, %d overflows", inPath, outPath, len(filtered), eng.Overflows())

	return nil
}
