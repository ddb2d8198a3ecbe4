// Package align maps indicator outputs back onto the index of the bars they
// were computed from. Mapping is positional: an output of length M is laid
// over the last M slots of a base of length N and the first N-M slots carry
// no data. Timestamps are never joined, since synthetic bars reuse them.
package align

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

// VolumeScale is the height of the tallest volume bar after
// MapVolumeToBase, as a fraction of the price pane.
const VolumeScale = 0.2

// Slot is one base-indexed histogram entry.
type Slot struct {
	Value float64 `json:"value"`
	Up    bool    `json:"up"`
	Valid bool    `json:"valid"`
}

// start returns the first base slot an output of length m lands on, and the
// number of leading output points that fall off the front when m > n.
func start(n, m int) (int, int) {
	if m >= n {
		return 0, m - n
	}
	return n - m, 0
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}

// MapToBase right-aligns pts onto a base of length n. Unfilled slots are
// NaN. When pts is longer than the base only its last n points are kept.
func MapToBase(n int, pts market.Series) []float64 {
	out := nanSlice(max(n, 0))
	if n <= 0 || len(pts) == 0 {
		return out
	}
	at, skip := start(n, len(pts))
	for i, p := range pts[skip:] {
		out[at+i] = p.Value
	}
	return out
}

// MapPrefixToBase left-aligns pts onto a base of length n. It is used for
// series shifted back in time, such as the Ichimoku lagging span, whose
// points cover the head of the base rather than its tail.
func MapPrefixToBase(n int, pts market.Series) []float64 {
	out := nanSlice(max(n, 0))
	for i, p := range pts {
		if i >= n {
			break
		}
		out[i] = p.Value
	}
	return out
}

// MapHistToBase right-aligns histogram points onto a base of length n.
func MapHistToBase(n int, pts []market.HistPoint) []Slot {
	return mapHist(n, pts, 1)
}

// MapVolumeToBase right-aligns volume bars and scales them so the largest
// one equals VolumeScale. A non-positive maximum is treated as 1.
func MapVolumeToBase(n int, pts []market.HistPoint) []Slot {
	maxVol := 0.0
	for _, p := range pts {
		if p.Value > maxVol {
			maxVol = p.Value
		}
	}
	if math.IsInf(maxVol, 0) || maxVol <= 0 {
		maxVol = 1
	}
	return mapHist(n, pts, VolumeScale/maxVol)
}

func mapHist(n int, pts []market.HistPoint, scale float64) []Slot {
	if n <= 0 {
		return []Slot{}
	}
	out := make([]Slot, n)
	for i := range out {
		out[i].Value = math.NaN()
	}
	if len(pts) == 0 {
		return out
	}
	at, skip := start(n, len(pts))
	for i, p := range pts[skip:] {
		out[at+i] = Slot{Value: p.Value * scale, Up: p.Up, Valid: true}
	}
	return out
}
