// Package indicators computes classical technical indicators from bars or
// from a close-price line.
//
// Every function is a pure map from its input to a freshly allocated
// market.Series. Outputs are right-aligned: point j of the result belongs to
// input index j+offset, where offset is the indicator's warm-up. When the
// input is shorter than the warm-up the result is empty.
//
// Missing input values (NaN, ±Inf, invalid bars) never become zero. Rolling
// indicators average whatever finite values their window holds; recursive
// indicators emit NaN for the missing step and keep their running state.
package indicators

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

// Indicator is a streaming state that consumes one value per step.
// The batch functions in this package run one of these across the whole
// input; callers that need incremental updates hold the state themselves.
type Indicator interface {
	// Name returns a stable identifier like "EMA(20)".
	Name() string

	// Warmup returns how many updates are consumed before Ready can be true.
	Warmup() int

	// Reset clears all internal state.
	Reset()

	// Update consumes the next value and returns the current output.
	// ok is false while warming up or when x is missing.
	Update(x float64) (v float64, ok bool)

	// Ready reports whether Value is meaningful.
	Ready() bool

	// Value returns the last output, or NaN before warm-up completes.
	Value() float64
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

func nan() float64 { return math.NaN() }

func clampLen(n int) int {
	if n < 1 {
		return 1
	}
	return n
}

// tail pairs vals[offset:] with the matching times.
func tail(times []market.Timestamp, vals []float64, offset int) market.Series {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(vals) || offset >= len(times) {
		return market.Series{}
	}
	out := make(market.Series, 0, len(vals)-offset)
	for i := offset; i < len(vals); i++ {
		out = append(out, market.LinePoint{Time: times[i], Value: vals[i]})
	}
	return out
}

func barTimes(bars []market.Bar) []market.Timestamp {
	out := make([]market.Timestamp, len(bars))
	for i, b := range bars {
		out[i] = b.Time
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// highestLowest scans the valid bars in bars[i-length+1 : i+1].
func highestLowest(bars []market.Bar, i, length int) (hh, ll float64, ok bool) {
	hh, ll = math.Inf(-1), math.Inf(1)
	for j := i - length + 1; j <= i; j++ {
		if j < 0 || !bars[j].Valid() {
			continue
		}
		ok = true
		if bars[j].High > hh {
			hh = bars[j].High
		}
		if bars[j].Low < ll {
			ll = bars[j].Low
		}
	}
	return hh, ll, ok
}

// closeValues returns the close prices of bars with NaN for invalid bars.
func closeValues(bars []market.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		if b.Valid() {
			out[i] = b.Close
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

func run(st Indicator, xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		v, ok := st.Update(x)
		if !ok {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}
