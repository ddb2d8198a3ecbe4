package indicators

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/series"
)

// RSI is Wilder's Relative Strength Index. Average gain and loss are seeded
// over the first length changes; a zero average loss uses rs = 100.
// Output starts at input index length.
func RSI(values market.Series, length int) market.Series {
	length = clampLen(length)
	xs := values.Values()
	if len(xs) < length+1 {
		return market.Series{}
	}

	gain := NewWilderState(length)
	loss := NewWilderState(length)
	out := nanSlice(len(xs))
	for i := 1; i < len(xs); i++ {
		change := xs[i] - xs[i-1]
		g, l := math.NaN(), math.NaN()
		if finite(change) {
			g, l = math.Max(change, 0), math.Max(-change, 0)
		}
		avgGain, okG := gain.Update(g)
		avgLoss, okL := loss.Update(l)
		if !okG || !okL {
			continue
		}
		rs := 100.0
		if avgLoss != 0 {
			rs = avgGain / avgLoss
		}
		out[i] = 100 - 100/(1+rs)
	}
	return tail(values.Times(), out, length)
}

// StochasticResult holds the fast %K line and its SMA %D line.
type StochasticResult struct {
	K market.Series // from input index length-1
	D market.Series // from input index length-1 + smoothing-1
}

func stochK(bars []market.Bar, length int) []float64 {
	out := nanSlice(len(bars))
	for i := length - 1; i < len(bars); i++ {
		if !bars[i].Valid() {
			continue
		}
		hh, ll, _ := highestLowest(bars, i, length)
		if hh == ll {
			out[i] = 50
			continue
		}
		out[i] = (bars[i].Close - ll) / (hh - ll) * 100
	}
	return out
}

// Stochastic computes %K over length bars, 50 when the range is flat, and
// %D as the SMA of %K over smoothing points.
func Stochastic(bars []market.Bar, length, smoothing int) StochasticResult {
	length, smoothing = clampLen(length), clampLen(smoothing)
	if len(bars) < length {
		return StochasticResult{K: market.Series{}, D: market.Series{}}
	}
	times := barTimes(bars)
	k := stochK(bars, length)
	off := length - 1
	d := padFront(series.TrailingMean(k[off:], smoothing), off)
	return StochasticResult{
		K: tail(times, k, off),
		D: tail(times, d, off+smoothing-1),
	}
}

// KDJResult is the stochastic pair extended with J = 3K - 2D. All three
// lines start at input index length-1 + smoothing-1.
type KDJResult struct {
	K market.Series
	D market.Series
	J market.Series
}

// KDJ derives J from %K and %D evaluated at the same input index.
func KDJ(bars []market.Bar, length, smoothing int) KDJResult {
	length, smoothing = clampLen(length), clampLen(smoothing)
	off := length - 1 + smoothing - 1
	if len(bars) <= off {
		return KDJResult{K: market.Series{}, D: market.Series{}, J: market.Series{}}
	}
	times := barTimes(bars)
	k := stochK(bars, length)
	d := padFront(series.TrailingMean(k[length-1:], smoothing), length-1)
	j := nanSlice(len(bars))
	for i := off; i < len(bars); i++ {
		j[i] = 3*k[i] - 2*d[i]
	}
	return KDJResult{
		K: tail(times, k, off),
		D: tail(times, d, off),
		J: tail(times, j, off),
	}
}

// WilliamsR is -100*(highestHigh-close)/(highestHigh-lowestLow) over length
// bars, -50 when the range is flat. Output starts at input index length-1.
func WilliamsR(bars []market.Bar, length int) market.Series {
	length = clampLen(length)
	if len(bars) < length {
		return market.Series{}
	}
	out := nanSlice(len(bars))
	for i := length - 1; i < len(bars); i++ {
		if !bars[i].Valid() {
			continue
		}
		hh, ll, _ := highestLowest(bars, i, length)
		if hh == ll {
			out[i] = -50
			continue
		}
		out[i] = -100 * (hh - bars[i].Close) / (hh - ll)
	}
	return tail(barTimes(bars), out, length-1)
}

// CCI is the Commodity Channel Index over typical prices, 0 when the mean
// absolute deviation is zero. Output starts at input index length-1.
func CCI(bars []market.Bar, length int) market.Series {
	length = clampLen(length)
	if len(bars) < length {
		return market.Series{}
	}
	tp := nanSlice(len(bars))
	for i, b := range bars {
		if b.Valid() {
			tp[i] = b.TypicalPrice()
		}
	}

	out := nanSlice(len(bars))
	for i := length - 1; i < len(bars); i++ {
		if !finite(tp[i]) {
			continue
		}
		window := series.Finite(tp[i-length+1 : i+1])
		mean := series.Mean(window)
		dev := 0.0
		for _, v := range window {
			dev += math.Abs(v - mean)
		}
		dev /= float64(len(window))
		if dev > 0 {
			out[i] = (tp[i] - mean) / (0.015 * dev)
		} else {
			out[i] = 0
		}
	}
	return tail(barTimes(bars), out, length-1)
}
