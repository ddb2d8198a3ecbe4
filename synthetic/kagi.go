package synthetic

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

type kagiDir int

const (
	kagiFlat kagiDir = iota
	kagiUp
	kagiDown
)

// kagi is the line-building state. last is the close of the last emitted
// line; extreme is the running high while up and the running low while down.
type kagi struct {
	reversal float64
	dir      kagiDir
	last     float64
	extreme  float64
	pending  float64
	out      []market.Bar
}

func (k *kagi) emit(b market.Bar) {
	k.out = append(k.out, market.Bar{
		Time:   b.Time,
		Open:   k.last,
		High:   math.Max(k.last, b.Close),
		Low:    math.Min(k.last, b.Close),
		Close:  b.Close,
		Volume: k.pending,
	})
	k.last = b.Close
	k.extreme = b.Close
	k.pending = 0
}

func (k *kagi) step(b market.Bar) {
	c := b.Close
	k.pending += volumeOf(b)

	switch k.dir {
	case kagiFlat:
		diff := c - k.last
		if math.Abs(diff) < k.reversal {
			return
		}
		if diff > 0 {
			k.dir = kagiUp
		} else {
			k.dir = kagiDown
		}
		k.emit(b)

	case kagiUp:
		k.extreme = math.Max(k.extreme, c)
		if k.extreme-c >= k.reversal {
			k.dir = kagiDown
			k.emit(b)
			return
		}
		if c-k.last >= k.reversal {
			k.emit(b)
		}

	case kagiDown:
		k.extreme = math.Min(k.extreme, c)
		if c-k.extreme >= k.reversal {
			k.dir = kagiUp
			k.emit(b)
			return
		}
		if k.last-c >= k.reversal {
			k.emit(b)
		}
	}
}

// KagiLines emits a line whenever the close extends the current direction by
// at least reversal from the last line, or retraces reversal from the
// running extreme, which flips the direction. The first move of reversal
// from the first close sets the initial direction.
func KagiLines(bars []market.Bar, reversal float64, tf market.Timeframe) []market.Bar {
	if len(bars) == 0 {
		return []market.Bar{}
	}
	rev := Resolve(bars, DefaultChain(reversal, tf)...)
	if math.IsNaN(rev) || !bars[0].Valid() {
		return market.CloneBars(bars)
	}

	k := &kagi{reversal: rev, last: bars[0].Close, extreme: bars[0].Close}
	for _, b := range bars {
		if b.Valid() {
			k.step(b)
		}
	}

	if len(k.out) == 0 {
		return market.CloneBars(bars)
	}
	return k.out
}
