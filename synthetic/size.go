// Package synthetic rebuilds a bar sequence into range bars, Renko bricks
// or Kagi lines.
//
// All builders share one threshold policy: an explicit size when given,
// otherwise a size derived from the data. When no size can be resolved, or
// the builder emits nothing, the input is returned unchanged (as a copy);
// callers should read that as "not enough movement", not as an error.
package synthetic

import (
	"fmt"
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

// SizeStrategy derives a brick/bar threshold from the input. It returns
// NaN or a non-positive value when it cannot decide.
type SizeStrategy interface {
	Name() string
	Size(bars []market.Bar) float64
}

// Explicit is a caller-supplied size.
type Explicit float64

func (e Explicit) Name() string                { return fmt.Sprintf("explicit(%g)", float64(e)) }
func (e Explicit) Size(_ []market.Bar) float64 { return float64(e) }

// ATRBased scales the recent mean true range by the timeframe multiplier.
type ATRBased struct {
	Length    int
	Timeframe market.Timeframe
}

func (a ATRBased) Name() string { return fmt.Sprintf("atr(%d,%s)", a.Length, a.Timeframe) }

func (a ATRBased) Size(bars []market.Bar) float64 {
	atr := EstimateATRRange(bars, a.Length)
	if !usable(atr) {
		return math.NaN()
	}
	return atr * a.Timeframe.RangeMultiplier()
}

// SpanBased divides the full high/low span of the input.
type SpanBased struct {
	Divisor float64
}

func (s SpanBased) Name() string { return fmt.Sprintf("span/%g", s.Divisor) }

func (s SpanBased) Size(bars []market.Bar) float64 {
	if !(s.Divisor > 0) {
		return math.NaN()
	}
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, b := range bars {
		if !b.Valid() {
			continue
		}
		hi = math.Max(hi, b.High)
		lo = math.Min(lo, b.Low)
	}
	span := hi - lo
	if !usable(span) {
		return math.NaN()
	}
	return span / s.Divisor
}

// Resolve evaluates the strategies in order and returns the first finite
// positive size, or NaN when none qualifies.
func Resolve(bars []market.Bar, chain ...SizeStrategy) float64 {
	for _, s := range chain {
		if v := s.Size(bars); usable(v) {
			return v
		}
	}
	return math.NaN()
}

// DefaultChain is the standard policy: the explicit size, then
// ATR(14) scaled by timeframe, then the whole-input span over 50.
func DefaultChain(size float64, tf market.Timeframe) []SizeStrategy {
	return []SizeStrategy{
		Explicit(size),
		ATRBased{Length: 14, Timeframe: tf},
		SpanBased{Divisor: 50},
	}
}

// EstimateATRRange is the mean of the last length positive true ranges.
// Fewer than two bars, or no positive range, yields NaN.
func EstimateATRRange(bars []market.Bar, length int) float64 {
	if len(bars) < 2 {
		return math.NaN()
	}
	if length < 1 {
		length = 1
	}
	var trs []float64
	for i := 1; i < len(bars); i++ {
		cur, prev := bars[i], bars[i-1]
		if !cur.Valid() || !prev.Valid() {
			continue
		}
		tr := math.Max(cur.High-cur.Low, math.Max(math.Abs(cur.High-prev.Close), math.Abs(cur.Low-prev.Close)))
		if usable(tr) {
			trs = append(trs, tr)
		}
	}
	if len(trs) == 0 {
		return math.NaN()
	}
	use := min(length, len(trs))
	sum := 0.0
	for _, tr := range trs[len(trs)-use:] {
		sum += tr
	}
	return sum / float64(use)
}

// EstimateDefaultRangeSize is the data-derived part of DefaultChain.
func EstimateDefaultRangeSize(bars []market.Bar, tf market.Timeframe) float64 {
	return Resolve(bars, DefaultChain(0, tf)[1:]...)
}

func usable(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v > 0
}
