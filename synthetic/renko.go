package synthetic

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

// RenkoBricks emits one brick of exactly boxSize for every boxSize the close
// moves away from the last brick. A reversal needs a move of twice the box
// before the first opposite brick forms.
//
// Many bricks can come from one input bar, so brick times are the first
// bar's time plus the brick index. They are strictly increasing but are
// sequence numbers, not wall-clock times.
func RenkoBricks(bars []market.Bar, boxSize float64, tf market.Timeframe) []market.Bar {
	if len(bars) == 0 {
		return []market.Bar{}
	}
	box := Resolve(bars, DefaultChain(boxSize, tf)...)
	if math.IsNaN(box) {
		return market.CloneBars(bars)
	}

	first := -1
	for i, b := range bars {
		if b.Valid() {
			first = i
			break
		}
	}
	if first < 0 {
		return market.CloneBars(bars)
	}

	base := bars[0].Time
	last := bars[first].Close
	dir := 0
	pending := 0.0
	var out []market.Bar

	for _, b := range bars[first:] {
		if !b.Valid() {
			continue
		}
		pending += volumeOf(b)
		for {
			diff := b.Close - last
			if math.Abs(diff) < box {
				break
			}
			d := 1
			if diff < 0 {
				d = -1
			}
			if dir != 0 && d != dir && math.Abs(diff) < 2*box {
				break
			}
			next := last + float64(d)*box
			out = append(out, market.Bar{
				Time:   base + market.Timestamp(len(out)),
				Open:   last,
				High:   math.Max(last, next),
				Low:    math.Min(last, next),
				Close:  next,
				Volume: pending,
			})
			last = next
			dir = d
			pending = 0
		}
	}

	if len(out) == 0 {
		return market.CloneBars(bars)
	}
	return out
}
