package market

import (
	"fmt"
	"strings"
)

// Timeframe is a nominal bar interval such as "5m" or "1h".
type Timeframe string

const (
	TF5m  Timeframe = "5m"
	TF15m Timeframe = "15m"
	TF1h  Timeframe = "1h"
	TF4h  Timeframe = "4h"
	TF1d  Timeframe = "1d"
)

type timeframeMeta struct {
	factor          int     // number of 5m base bars per bar
	rangeMultiplier float64 // applied to ATR when sizing synthetic bars
	seconds         int64
}

var timeframes = map[Timeframe]timeframeMeta{
	TF5m:  {factor: 1, rangeMultiplier: 0.8, seconds: 300},
	TF15m: {factor: 3, rangeMultiplier: 1.0, seconds: 900},
	TF1h:  {factor: 12, rangeMultiplier: 1.2, seconds: 3600},
	TF4h:  {factor: 48, rangeMultiplier: 1.4, seconds: 14400},
	TF1d:  {factor: 288, rangeMultiplier: 1.6, seconds: 86400},
}

// ParseTimeframe normalizes s and checks it against the known set.
func ParseTimeframe(s string) (Timeframe, error) {
	tf := Timeframe(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := timeframes[tf]; !ok {
		return "", fmt.Errorf("unknown timeframe %q", s)
	}
	return tf, nil
}

// Known reports whether tf is one of the supported timeframes.
func (tf Timeframe) Known() bool {
	_, ok := timeframes[tf]
	return ok
}

// RangeMultiplier returns the ATR multiplier used for default synthetic
// bar sizes. Unknown timeframes use 1.
func (tf Timeframe) RangeMultiplier() float64 {
	if m, ok := timeframes[tf]; ok {
		return m.rangeMultiplier
	}
	return 1
}

// Factor returns how many 5m base bars make up one tf bar. Unknown
// timeframes use 1.
func (tf Timeframe) Factor() int {
	if m, ok := timeframes[tf]; ok {
		return m.factor
	}
	return 1
}

// Seconds returns the nominal interval length, or 0 when unknown.
func (tf Timeframe) Seconds() int64 {
	return timeframes[tf].seconds
}

// Aggregate groups every factor consecutive bars into one: open of the
// first, highest high, lowest low, close and time of the last, summed
// volume. Invalid bars are skipped. factor <= 1 returns a copy.
func Aggregate(bars []Bar, factor int) []Bar {
	if factor <= 1 {
		return CloneBars(bars)
	}

	out := make([]Bar, 0, len(bars)/factor+1)
	bucket := -1
	var cur Bar
	for i, b := range bars {
		if !b.Valid() {
			continue
		}
		idx := i / factor
		if idx != bucket {
			if bucket != -1 {
				out = append(out, cur)
			}
			bucket = idx
			cur = b
			continue
		}
		if b.High > cur.High {
			cur.High = b.High
		}
		if b.Low < cur.Low {
			cur.Low = b.Low
		}
		cur.Close = b.Close
		cur.Volume += b.Volume
		cur.Time = b.Time
	}
	if bucket != -1 {
		out = append(out, cur)
	}
	return out
}
