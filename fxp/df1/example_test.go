package df1_test

import (
	"fmt"

	"github.com/cwbudde/algo-fixpoint/fxp"
	"github.com/cwbudde/algo-fixpoint/fxp/coeff"
	"github.com/cwbudde/algo-fixpoint/fxp/df1"
)

func ExampleEngine() {
	// y[n] = 0.5*x[n] + 0.5*y[n-1], simulated in fixed point.
	cfgs := df1.ConfigSet{
		Input:       fxp.Config{Format: fxp.WordFormat{WI: 1, WF: 14}, Overflow: fxp.OverflowSaturate},
		CoeffB:      fxp.Config{Format: fxp.WordFormat{WI: 1, WF: 14}, Overflow: fxp.OverflowSaturate},
		CoeffA:      fxp.Config{Format: fxp.WordFormat{WI: 1, WF: 14}, Overflow: fxp.OverflowSaturate},
		Accumulator: fxp.Config{Format: fxp.WordFormat{WI: 4, WF: 28}, Overflow: fxp.OverflowSaturate},
	}

	eng := df1.New()

	err := eng.Configure(coeff.Set{B: []float64{0.5}, A: []float64{1, -0.5}}, cfgs)
	if err != nil {
		panic(err)
	}

	out, err := eng.Run([]float64{1, 0, 0, 0})
	if err != nil {
		panic(err)
	}

	for _, y := range out {
		fmt.Printf("%.5f ", y)
	}

	fmt.Println()
	// Output: 0.50000 0.25000 0.12500 0.06250
}
