package indicators

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

// ParabolicSAR runs the SAR state machine over bars. The initial direction
// is long when the second close is at or above the first. Output starts at
// input index 1.
func ParabolicSAR(bars []market.Bar, step, maxStep float64) market.Series {
	if len(bars) < 2 {
		return market.Series{}
	}
	st := NewSARState(step, maxStep)
	out := make([]float64, len(bars))
	for i, b := range bars {
		v, ok := st.Update(b)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return tail(barTimes(bars), out, 1)
}
