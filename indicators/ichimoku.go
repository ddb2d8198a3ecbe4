package indicators

import "github.com/rustyeddy/chartcalc/market"

// IchimokuParams are the three donchian-midpoint periods and the
// displacement used to shift the spans.
type IchimokuParams struct {
	Conversion   int `json:"conversion" yaml:"conversion"`
	Base         int `json:"base" yaml:"base"`
	SpanB        int `json:"span_b" yaml:"span_b"`
	Displacement int `json:"displacement" yaml:"displacement"`
}

// DefaultIchimoku returns the classic 9/26/52/26 settings.
func DefaultIchimoku() IchimokuParams {
	return IchimokuParams{Conversion: 9, Base: 26, SpanB: 52, Displacement: 26}
}

// IchimokuResult holds the five Ichimoku lines.
//
// Tenkan, Kijun, SpanA and SpanB are right-aligned on the input. Chikou is
// the close shifted back by the displacement, so it covers a prefix of the
// input instead and must be aligned from the front.
type IchimokuResult struct {
	Tenkan market.Series
	Kijun  market.Series
	SpanA  market.Series
	SpanB  market.Series
	Chikou market.Series
}

func midpoints(bars []market.Bar, length int) []float64 {
	out := nanSlice(len(bars))
	for i := length - 1; i < len(bars); i++ {
		if hh, ll, ok := highestLowest(bars, i, length); ok {
			out[i] = (hh + ll) / 2
		}
	}
	return out
}

// Ichimoku computes the Ichimoku cloud. Shifted points that would land
// outside the input are omitted, not padded.
func Ichimoku(bars []market.Bar, p IchimokuParams) IchimokuResult {
	c, b, s := clampLen(p.Conversion), clampLen(p.Base), clampLen(p.SpanB)
	d := p.Displacement
	if d < 0 {
		d = 0
	}
	n := len(bars)
	times := barTimes(bars)

	tenkan := midpoints(bars, c)
	kijun := midpoints(bars, b)
	spanBRaw := midpoints(bars, s)

	spanA, spanB := nanSlice(n), nanSlice(n)
	for i := 0; i+d < n; i++ {
		spanA[i+d] = (tenkan[i] + kijun[i]) / 2
		spanB[i+d] = spanBRaw[i]
	}

	chikou := market.Series{}
	for i := d; i < n; i++ {
		v := market.NaN()
		if bars[i].Valid() {
			v = bars[i].Close
		}
		chikou = append(chikou, market.LinePoint{Time: times[i-d], Value: v})
	}

	return IchimokuResult{
		Tenkan: tail(times, tenkan, c-1),
		Kijun:  tail(times, kijun, b-1),
		SpanA:  tail(times, spanA, max(c, b)-1+d),
		SpanB:  tail(times, spanB, s-1+d),
		Chikou: chikou,
	}
}
