package indicators

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

func barVolume(b market.Bar) float64 {
	if !finite(b.Volume) {
		return 0
	}
	return b.Volume
}

// VWAP is the cumulative volume-weighted typical price from the first bar.
// Until some volume has traded it equals the typical price. Output starts
// at input index 0.
func VWAP(bars []market.Bar) market.Series {
	out := nanSlice(len(bars))
	var cumPV, cumV float64
	for i, b := range bars {
		if !b.Valid() {
			continue
		}
		tp := b.TypicalPrice()
		v := barVolume(b)
		cumPV += tp * v
		cumV += v
		if cumV > 0 {
			out[i] = cumPV / cumV
		} else {
			out[i] = tp
		}
	}
	return tail(barTimes(bars), out, 0)
}

// OBV is On-Balance Volume: volume is added on an up close and subtracted
// on a down close. Output starts at input index 1.
func OBV(bars []market.Bar) market.Series {
	if len(bars) < 2 {
		return market.Series{}
	}
	out := nanSlice(len(bars))
	obv := 0.0
	prevClose := math.NaN()
	if bars[0].Valid() {
		prevClose = bars[0].Close
	}
	for i := 1; i < len(bars); i++ {
		b := bars[i]
		if !b.Valid() {
			continue
		}
		if finite(prevClose) {
			switch {
			case b.Close > prevClose:
				obv += barVolume(b)
			case b.Close < prevClose:
				obv -= barVolume(b)
			}
		}
		prevClose = b.Close
		out[i] = obv
	}
	return tail(barTimes(bars), out, 1)
}

// VR is the volume ratio over the trailing length bars: up volume plus half
// the unchanged volume, over down volume plus half the unchanged volume,
// times 100. It is 100 when there is no down side. Output starts at input
// index length.
func VR(bars []market.Bar, length int) market.Series {
	length = clampLen(length)
	n := len(bars)
	if n < length+1 {
		return market.Series{}
	}
	up := make([]float64, n)
	down := make([]float64, n)
	same := make([]float64, n)
	for i := 1; i < n; i++ {
		prev, cur := bars[i-1], bars[i]
		if !prev.Valid() || !cur.Valid() {
			continue
		}
		v := barVolume(cur)
		switch {
		case cur.Close > prev.Close:
			up[i] = v
		case cur.Close < prev.Close:
			down[i] = v
		default:
			same[i] = v
		}
	}

	out := nanSlice(n)
	for i := length; i < n; i++ {
		var u, d, s float64
		for j := i - length + 1; j <= i; j++ {
			u += up[j]
			d += down[j]
			s += same[j]
		}
		upAdj, downAdj := u+s*0.5, d+s*0.5
		if downAdj > 0 {
			out[i] = upAdj / downAdj * 100
		} else {
			out[i] = 100
		}
	}
	return tail(barTimes(bars), out, length)
}

// Volume returns one column per bar, marked up when the bar closed at or
// above its open.
func Volume(bars []market.Bar) []market.HistPoint {
	out := make([]market.HistPoint, len(bars))
	for i, b := range bars {
		out[i] = market.HistPoint{Time: b.Time, Value: barVolume(b), Up: b.Up()}
	}
	return out
}
