// Package df1 simulates an IIR filter in Direct Form 1 with fixed-point
// arithmetic, bit for bit as it would run on hardware.
//
// Every signal role (input, both coefficient sets, accumulator and an
// optional narrower output) carries its own quantization config. Products
// and the running sum are kept at full precision; only the final accumulator
// value of each sample is rounded and overflow-handled, after which it feeds
// the output delay line. An output config narrows the emitted sample only,
// never the value entering the recurrence.
package df1

import (
	"context"
	"errors"
	"fmt"

	"github.com/cwbudde/algo-fixpoint/fxp"
	"github.com/cwbudde/algo-fixpoint/fxp/accu"
	"github.com/cwbudde/algo-fixpoint/fxp/coeff"
)

// Errors returned by the engine.
var (
	ErrNotConfigured = errors.New("df1: engine not configured")
	ErrEmptyInput    = errors.New("df1: empty input sequence")
)

// ConfigSet bundles the per-role quantization configs consumed by
// [Engine.Configure]. Output is optional; when set, each emitted sample is
// re-quantized to this (typically narrower) format. The recurrence always
// feeds back the accumulator-quantized value, never the narrowed one.
type ConfigSet struct {
	Input       fxp.Config
	CoeffB      fxp.Config
	CoeffA      fxp.Config
	Accumulator fxp.Config
	Output      *fxp.Config
}

// Engine is a stateful fixed-point DF1 simulator. It is created
// unconfigured, becomes ready after a successful Configure and stays
// reusable across runs; delay lines persist between runs until Reset.
//
// An Engine is not safe for concurrent use; the owning caller serializes
// access. Independent engines do not interact.
type Engine struct {
	configured bool

	b []float64 // quantized feed-forward taps
	a []float64 // quantized feedback taps, a[0] unused by convention

	in  *fxp.Quantizer
	acc *fxp.Quantizer
	out *fxp.Quantizer // nil unless an output config was given

	// circular delay lines, most recent sample at (pos-1)
	dx []float64
	dy []float64
	px int
	py int

	frameLen int
}

const defaultFrameLength = 1024

// Option configures an [Engine] at construction.
type Option func(*Engine)

// WithFrameLength sets the default frame length used by RunFrames when the
// caller passes a non-positive one (default 1024).
func WithFrameLength(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.frameLen = n
		}
	}
}

// New returns an unconfigured Engine.
func New(opts ...Option) *Engine {
	e := &Engine{frameLen: defaultFrameLength}

	for _, opt := range opts {
		if opt != nil {
			opt(e)
		}
	}

	return e
}

// Configure quantizes the tap sets, builds the per-role quantizers and
// allocates zeroed delay lines. On any error the engine keeps its previous
// configuration.
func (e *Engine) Configure(taps coeff.Set, cfgs ConfigSet) error {
	if err := taps.Validate(); err != nil {
		return err
	}

	b, err := coeff.Quantize(taps.B, cfgs.CoeffB)
	if err != nil {
		return fmt.Errorf("df1: b taps: %w", err)
	}

	a, err := coeff.Quantize(taps.A, cfgs.CoeffA)
	if err != nil {
		return fmt.Errorf("df1: a taps: %w", err)
	}

	in, err := fxp.NewQuantizer(cfgs.Input)
	if err != nil {
		return fmt.Errorf("df1: input config: %w", err)
	}

	acc, err := fxp.NewQuantizer(cfgs.Accumulator)
	if err != nil {
		return fmt.Errorf("df1: accumulator config: %w", err)
	}

	var out *fxp.Quantizer
	if cfgs.Output != nil {
		out, err = fxp.NewQuantizer(*cfgs.Output)
		if err != nil {
			return fmt.Errorf("df1: output config: %w", err)
		}
	}

	e.b = b
	e.a = a
	e.in = in
	e.acc = acc
	e.out = out
	e.dx = make([]float64, len(b)-1)
	e.dy = make([]float64, len(a)-1)
	e.px = 0
	e.py = 0
	e.configured = true

	return nil
}

// ConfigureSized derives the accumulator format from the input and
// feed-forward coefficient formats via sizer, then configures the engine
// with it. cfgs.Accumulator supplies the rounding and overflow modes; its
// format is replaced by the derived one.
//
// Sizing errors abort the configuration and are returned as-is, so callers
// can distinguish a recoverable sizing problem (retry with the retained
// format, or a manual policy) from an invalid config.
func (e *Engine) ConfigureSized(taps coeff.Set, cfgs ConfigSet, sizer *accu.Sizer) error {
	if err := taps.Validate(); err != nil {
		return err
	}

	format, err := sizer.Size(cfgs.Input.Format, cfgs.CoeffB.Format, taps.B)
	if err != nil {
		return err
	}

	cfgs.Accumulator.Format = format

	return e.Configure(taps, cfgs)
}

// Configured reports whether the engine is ready to process samples.
func (e *Engine) Configured() bool {
	return e.configured
}

// ProcessSample filters one input sample and returns the quantized output.
func (e *Engine) ProcessSample(x float64) (float64, error) {
	if !e.configured {
		return 0, ErrNotConfigured
	}

	return e.processSample(x), nil
}

// processSample runs the DF1 recurrence for one sample. The engine must be
// configured.
func (e *Engine) processSample(x float64) float64 {
	xq := e.in.Quantize(x)

	// Full-precision sum of products; quantized operands are dyadic
	// rationals, so the float64 accumulation is exact until the final
	// rounding below.
	acc := e.b[0] * xq
	for i := 1; i < len(e.b); i++ {
		acc += e.b[i] * e.readX(i)
	}

	for i := 1; i < len(e.a); i++ {
		acc -= e.a[i] * e.readY(i)
	}

	yq := e.acc.Quantize(acc)

	e.pushX(xq)
	e.pushY(yq)

	if e.out != nil {
		return e.out.Quantize(yq)
	}

	return yq
}

// readX returns the input delayed by d samples (d >= 1).
func (e *Engine) readX(d int) float64 {
	n := len(e.dx)
	return e.dx[(e.px-d+n)%n]
}

// readY returns the output delayed by d samples (d >= 1).
func (e *Engine) readY(d int) float64 {
	n := len(e.dy)
	return e.dy[(e.py-d+n)%n]
}

func (e *Engine) pushX(v float64) {
	if len(e.dx) == 0 {
		return
	}

	e.dx[e.px] = v
	e.px++

	if e.px >= len(e.dx) {
		e.px = 0
	}
}

func (e *Engine) pushY(v float64) {
	if len(e.dy) == 0 {
		return
	}

	e.dy[e.py] = v
	e.py++

	if e.py >= len(e.dy) {
		e.py = 0
	}
}

// Run filters the whole input sequence and returns the quantized output
// sequence. Delay-line state carries over from any previous run.
func (e *Engine) Run(input []float64) ([]float64, error) {
	if !e.configured {
		return nil, ErrNotConfigured
	}

	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	out := make([]float64, len(input))
	for i, x := range input {
		out[i] = e.processSample(x)
	}

	return out, nil
}

// RunFrames filters the input in bounded frames, checking ctx and invoking
// onFrame (if non-nil) between frames. Frame splitting never changes the
// numeric result versus Run.
//
// On cancellation the outputs of all fully processed frames are returned
// together with ctx.Err(); the delay lines reflect exactly those samples, so
// a later call resumes cleanly.
func (e *Engine) RunFrames(ctx context.Context, input []float64, frameLen int, onFrame func(processed, total int)) ([]float64, error) {
	if !e.configured {
		return nil, ErrNotConfigured
	}

	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	if frameLen <= 0 {
		frameLen = e.frameLen
	}

	out := make([]float64, 0, len(input))

	for start := 0; start < len(input); start += frameLen {
		if err := ctx.Err(); err != nil {
			return out, err
		}

		end := min(start+frameLen, len(input))
		for _, x := range input[start:end] {
			out = append(out, e.processSample(x))
		}

		if onFrame != nil {
			onFrame(end, len(input))
		}
	}

	return out, nil
}

// Reset clears both delay lines to zero. The configuration is kept.
func (e *Engine) Reset() {
	for i := range e.dx {
		e.dx[i] = 0
	}

	for i := range e.dy {
		e.dy[i] = 0
	}

	e.px = 0
	e.py = 0

	if e.configured {
		e.in.ResetCounters()
		e.acc.ResetCounters()

		if e.out != nil {
			e.out.ResetCounters()
		}
	}
}

// Overflows returns the total number of overflow events across the input,
// accumulator and output quantizers since Configure or the last Reset.
func (e *Engine) Overflows() uint64 {
	if !e.configured {
		return 0
	}

	n := e.in.Overflows() + e.acc.Overflows()
	if e.out != nil {
		n += e.out.Overflows()
	}

	return n
}

// CoefficientsB returns a copy of the quantized feed-forward taps.
func (e *Engine) CoefficientsB() []float64 {
	b := make([]float64, len(e.b))
	copy(b, e.b)

	return b
}

// CoefficientsA returns a copy of the quantized feedback taps.
func (e *Engine) CoefficientsA() []float64 {
	a := make([]float64, len(e.a))
	copy(a, e.a)

	return a
}
