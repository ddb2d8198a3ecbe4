package indicators

import (
	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/series"
)

// Bands is an upper/middle/lower channel.
type Bands struct {
	Upper  market.Series
	Middle market.Series
	Lower  market.Series
}

func emptyBands() Bands {
	return Bands{Upper: market.Series{}, Middle: market.Series{}, Lower: market.Series{}}
}

// Bollinger returns SMA(length) ± mult population standard deviations.
// Output starts at input index length-1.
func Bollinger(values market.Series, length int, mult float64) Bands {
	length = clampLen(length)
	xs := values.Values()
	if len(xs) < length {
		return emptyBands()
	}

	mid := series.TrailingMean(xs, length)
	upper := nanSlice(len(xs))
	lower := nanSlice(len(xs))
	for i := length - 1; i < len(xs); i++ {
		std := series.StdDev(xs[i-length+1 : i+1])
		upper[i] = mid[i] + mult*std
		lower[i] = mid[i] - mult*std
	}

	times := values.Times()
	off := length - 1
	return Bands{
		Upper:  tail(times, upper, off),
		Middle: tail(times, mid, off),
		Lower:  tail(times, lower, off),
	}
}

// Donchian tracks the highest high and lowest low of the trailing length
// bars, with their midpoint. Output starts at input index length-1.
func Donchian(bars []market.Bar, length int) Bands {
	length = clampLen(length)
	if len(bars) < length {
		return emptyBands()
	}

	n := len(bars)
	upper, mid, lower := nanSlice(n), nanSlice(n), nanSlice(n)
	for i := length - 1; i < n; i++ {
		hh, ll, ok := highestLowest(bars, i, length)
		if !ok {
			continue
		}
		upper[i], lower[i] = hh, ll
		mid[i] = (hh + ll) / 2
	}

	times := barTimes(bars)
	off := length - 1
	return Bands{
		Upper:  tail(times, upper, off),
		Middle: tail(times, mid, off),
		Lower:  tail(times, lower, off),
	}
}

// KeltnerResult keeps the EMA basis separate from the ATR bands because the
// two warm up at different offsets.
type KeltnerResult struct {
	Basis market.Series // EMA(maLength) of closes, from index maLength-1
	Upper market.Series // basis + mult*ATR(atrLength), from index max(maLength-1, atrLength)
	Lower market.Series
}

// Keltner builds an EMA basis of the closes with bands mult ATRs away.
func Keltner(bars []market.Bar, maLength, atrLength int, mult float64) KeltnerResult {
	maLength, atrLength = clampLen(maLength), clampLen(atrLength)
	times := barTimes(bars)
	basis := emaValues(closeValues(bars), maLength)
	atr := atrValues(bars, atrLength)

	n := len(bars)
	upper, lower := nanSlice(n), nanSlice(n)
	for i := 0; i < n; i++ {
		upper[i] = basis[i] + mult*atr[i]
		lower[i] = basis[i] - mult*atr[i]
	}

	off := max(maLength-1, atrLength)
	return KeltnerResult{
		Basis: tail(times, basis, maLength-1),
		Upper: tail(times, upper, off),
		Lower: tail(times, lower, off),
	}
}
