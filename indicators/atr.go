package indicators

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

// trueRange calculates the True Range for a bar given the previous bar.
// It is NaN when either bar is invalid.
func trueRange(cur, prev market.Bar) float64 {
	if !cur.Valid() || !prev.Valid() {
		return math.NaN()
	}
	highLow := cur.High - cur.Low
	highClose := math.Abs(cur.High - prev.Close)
	lowClose := math.Abs(cur.Low - prev.Close)
	return math.Max(highLow, math.Max(highClose, lowClose))
}

// trueRanges returns one TR per bar; index 0 has no previous bar and is NaN.
func trueRanges(bars []market.Bar) []float64 {
	out := nanSlice(len(bars))
	for i := 1; i < len(bars); i++ {
		out[i] = trueRange(bars[i], bars[i-1])
	}
	return out
}

// TrueRange returns max(high-low, |high-prevClose|, |low-prevClose|) for
// every bar after the first.
func TrueRange(bars []market.Bar) market.Series {
	return tail(barTimes(bars), trueRanges(bars), 1)
}

// atrValues is Wilder's ATR over the TR column; the seed covers the TRs of
// bars 1..length, so the first value lands on index length.
func atrValues(bars []market.Bar, length int) []float64 {
	trs := trueRanges(bars)
	if len(trs) == 0 {
		return trs
	}
	out := nanSlice(len(trs))
	copy(out[1:], run(NewWilderState(length), trs[1:]))
	return out
}

// ATR is Wilder's Average True Range. Output starts at input index length.
func ATR(bars []market.Bar, length int) market.Series {
	length = clampLen(length)
	return tail(barTimes(bars), atrValues(bars, length), length)
}

// ATRPercent is ATR expressed as a percentage of the close. A non-positive
// close yields 0. Output starts at input index length.
func ATRPercent(bars []market.Bar, length int) market.Series {
	length = clampLen(length)
	atr := atrValues(bars, length)
	for i, b := range bars {
		if !finite(atr[i]) {
			continue
		}
		if b.Close > 0 {
			atr[i] = atr[i] / b.Close * 100
		} else {
			atr[i] = 0
		}
	}
	return tail(barTimes(bars), atr, length)
}
