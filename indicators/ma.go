package indicators

import (
	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/series"
)

// SMA is the simple moving average of the trailing length values.
// Output starts at input index length-1.
func SMA(values market.Series, length int) market.Series {
	length = clampLen(length)
	return tail(values.Times(), series.TrailingMean(values.Values(), length), length-1)
}

// EMA is the exponential moving average seeded by the SMA of the first
// length values. Output starts at input index length-1.
func EMA(values market.Series, length int) market.Series {
	length = clampLen(length)
	return tail(values.Times(), emaValues(values.Values(), length), length-1)
}

func emaValues(xs []float64, length int) []float64 {
	return run(NewEMAState(length), xs)
}

// DMA is the difference between a fast and a slow SMA, matched by position.
// Output starts at input index max(fast, slow)-1.
func DMA(values market.Series, fast, slow int) market.Series {
	fast, slow = clampLen(fast), clampLen(slow)
	xs := values.Values()
	f := series.TrailingMean(xs, fast)
	s := series.TrailingMean(xs, slow)
	out := make([]float64, len(xs))
	for i := range xs {
		out[i] = f[i] - s[i]
	}
	return tail(values.Times(), out, max(fast, slow)-1)
}

// TRIXResult holds the TRIX line and its EMA signal line.
type TRIXResult struct {
	TRIX   market.Series
	Signal market.Series
}

// TRIX is the one-step rate of change, in percent, of a triple-smoothed EMA.
// The TRIX line starts at input index 3(length-1)+1 and the signal, an EMA
// of the TRIX line, signal-1 points later.
func TRIX(values market.Series, length, signal int) TRIXResult {
	length, signal = clampLen(length), clampLen(signal)
	times := values.Times()
	xs := values.Values()

	off := 0
	for pass := 0; pass < 3; pass++ {
		if len(xs) < length {
			return TRIXResult{TRIX: market.Series{}, Signal: market.Series{}}
		}
		xs = emaValues(xs, length)[length-1:]
		off += length - 1
	}
	if len(xs) < 2 {
		return TRIXResult{TRIX: market.Series{}, Signal: market.Series{}}
	}

	trix := make([]float64, len(xs)-1)
	for i := 1; i < len(xs); i++ {
		prev, cur := xs[i-1], xs[i]
		switch {
		case !finite(prev) || !finite(cur):
			trix[i-1] = nan()
		case prev == 0:
			trix[i-1] = 0
		default:
			trix[i-1] = (cur/prev - 1) * 100
		}
	}
	off++

	return TRIXResult{
		TRIX:   tail(times[off:], trix, 0),
		Signal: tail(times[off:], emaValues(trix, signal), signal-1),
	}
}

// MACDResult holds the MACD line, its signal line and the histogram, all
// aligned to the same input indices.
type MACDResult struct {
	MACD   market.Series
	Signal market.Series
	Hist   []market.HistPoint
}

// MACD is EMA(fast) - EMA(slow) with an EMA(signal) signal line and their
// difference as histogram. All three start at input index
// max(fast, slow)-1 + signal-1.
func MACD(values market.Series, fast, slow, signal int) MACDResult {
	fast, slow, signal = clampLen(fast), clampLen(slow), clampLen(signal)
	times := values.Times()
	xs := values.Values()

	lineOff := max(fast, slow) - 1
	off := lineOff + signal - 1
	if off >= len(xs) {
		return MACDResult{MACD: market.Series{}, Signal: market.Series{}, Hist: []market.HistPoint{}}
	}

	ef := emaValues(xs, fast)
	es := emaValues(xs, slow)
	line := make([]float64, len(xs)-lineOff)
	for i := range line {
		line[i] = ef[i+lineOff] - es[i+lineOff]
	}
	sig := emaValues(line, signal)

	res := MACDResult{
		MACD:   tail(times, padFront(line, lineOff), off),
		Signal: tail(times, padFront(sig, lineOff), off),
		Hist:   make([]market.HistPoint, 0, len(xs)-off),
	}
	for i := signal - 1; i < len(line); i++ {
		d := line[i] - sig[i]
		res.Hist = append(res.Hist, market.HistPoint{Time: times[i+lineOff], Value: d, Up: d >= 0})
	}
	return res
}

func padFront(xs []float64, n int) []float64 {
	return append(nanSlice(n), xs...)
}
