package synthetic

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

// RangeBars merges consecutive bars until the merged high-low span reaches
// size, then starts a new bar. A trailing partial bar is flushed at the end
// with the time of the last input bar. size <= 0 resolves through
// DefaultChain.
func RangeBars(bars []market.Bar, size float64, tf market.Timeframe) []market.Bar {
	if len(bars) == 0 {
		return []market.Bar{}
	}
	eff := Resolve(bars, DefaultChain(size, tf)...)
	if math.IsNaN(eff) {
		return market.CloneBars(bars)
	}

	var out []market.Bar
	var cur market.Bar
	open := false
	for _, b := range bars {
		if !b.Valid() {
			continue
		}
		if !open {
			cur = market.Bar{Open: b.Open, High: b.High, Low: b.Low, Close: b.Close, Volume: volumeOf(b)}
			open = true
		} else {
			cur.High = math.Max(cur.High, b.High)
			cur.Low = math.Min(cur.Low, b.Low)
			cur.Close = b.Close
			cur.Volume += volumeOf(b)
		}
		if cur.High-cur.Low >= eff {
			cur.Time = b.Time
			out = append(out, cur)
			open = false
		}
	}
	if open {
		cur.Time = bars[len(bars)-1].Time
		out = append(out, cur)
	}

	if len(out) == 0 {
		return market.CloneBars(bars)
	}
	return out
}

func volumeOf(b market.Bar) float64 {
	if math.IsNaN(b.Volume) || math.IsInf(b.Volume, 0) {
		return 0
	}
	return b.Volume
}
