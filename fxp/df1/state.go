package df1

import "fmt"

// State is a snapshot of the engine delay lines. Inputs holds past quantized
// inputs, Outputs past quantized outputs, most recent sample first.
type State struct {
	Inputs  []float64
	Outputs []float64
}

// State returns a copy of the current delay-line contents. The zero-length
// snapshot of an unconfigured engine restores as a no-op.
func (e *Engine) State() State {
	s := State{
		Inputs:  make([]float64, len(e.dx)),
		Outputs: make([]float64, len(e.dy)),
	}

	for i := range s.Inputs {
		s.Inputs[i] = e.readX(i + 1)
	}

	for i := range s.Outputs {
		s.Outputs[i] = e.readY(i + 1)
	}

	return s
}

// SetState restores a previously captured snapshot. The snapshot must match
// the configured delay-line lengths.
func (e *Engine) SetState(s State) error {
	if len(s.Inputs) != len(e.dx) || len(s.Outputs) != len(e.dy) {
		return fmt.Errorf("df1: state size %d/%d does not match delay lines %d/%d",
			len(s.Inputs), len(s.Outputs), len(e.dx), len(e.dy))
	}

	e.px = 0
	e.py = 0

	for i, v := range s.Inputs {
		e.dx[len(e.dx)-1-i] = v
	}

	for i, v := range s.Outputs {
		e.dy[len(e.dy)-1-i] = v
	}

	return nil
}
