package indicators

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

// ADXResult holds Wilder's directional indicators and the ADX built on them.
type ADXResult struct {
	ADX     market.Series // from input index 2*length
	PlusDI  market.Series // from input index length+1
	MinusDI market.Series // from input index length+1
}

// ADX implements Wilder's Average Directional Index (trend strength).
//
// TR, +DM and -DM are Wilder-smoothed after a plain average over the first
// length samples (bars 1..length). The first smoothing step after the seed
// produces the first +DI/-DI and DX on bar length+1; ADX is the Wilder
// smoothing of DX, so its first value needs length more DX samples and lands
// on bar 2*length.
func ADX(bars []market.Bar, length int) ADXResult {
	length = clampLen(length)
	n := len(bars)
	plus, minus, adx := nanSlice(n), nanSlice(n), nanSlice(n)

	tr := NewWilderState(length)
	pdm := NewWilderState(length)
	mdm := NewWilderState(length)
	dx := NewWilderState(length)

	for i := 1; i < n; i++ {
		cur, prev := bars[i], bars[i-1]

		t := trueRange(cur, prev)
		p, m := math.NaN(), math.NaN()
		if finite(t) {
			up := cur.High - prev.High
			down := prev.Low - cur.Low
			p, m = 0, 0
			if up > down && up > 0 {
				p = up
			}
			if down > up && down > 0 {
				m = down
			}
		}

		trV, okT := tr.Update(t)
		pV, okP := pdm.Update(p)
		mV, okM := mdm.Update(m)
		if i <= length {
			// Seed step only; DI starts on the first smoothed value.
			continue
		}
		if !okT || !okP || !okM {
			dx.Update(math.NaN())
			continue
		}

		var diPlus, diMinus float64
		if trV > 0 {
			diPlus = pV / trV * 100
			diMinus = mV / trV * 100
		}
		plus[i], minus[i] = diPlus, diMinus

		var d float64
		if sum := diPlus + diMinus; sum > 0 {
			d = math.Abs(diPlus-diMinus) / sum * 100
		}
		if v, ok := dx.Update(d); ok {
			adx[i] = v
		}
	}

	times := barTimes(bars)
	return ADXResult{
		ADX:     tail(times, adx, 2*length),
		PlusDI:  tail(times, plus, length+1),
		MinusDI: tail(times, minus, length+1),
	}
}
