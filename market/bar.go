package market

import "math"

// Timestamp is a bar or point time in Unix seconds.
//
// Synthetic bar builders (Renko, Kagi) may produce times that are sequence
// numbers rather than wall-clock seconds; callers must align those by
// position, never by time.
type Timestamp int64

// Bar represents OHLCV data for one interval.
type Bar struct {
	Time   Timestamp `json:"time" yaml:"time"`
	Open   float64   `json:"open" yaml:"open"`
	High   float64   `json:"high" yaml:"high"`
	Low    float64   `json:"low" yaml:"low"`
	Close  float64   `json:"close" yaml:"close"`
	Volume float64   `json:"volume" yaml:"volume"`
}

// Valid reports whether all four prices are finite numbers.
func (b Bar) Valid() bool {
	return finite(b.Open) && finite(b.High) && finite(b.Low) && finite(b.Close)
}

// TypicalPrice returns (high+low+close)/3.
func (b Bar) TypicalPrice() float64 {
	return (b.High + b.Low + b.Close) / 3
}

// Up reports whether the bar closed at or above its open.
func (b Bar) Up() bool {
	return b.Close >= b.Open
}

// CloneBars returns a copy of bars that shares no backing array with the input.
func CloneBars(bars []Bar) []Bar {
	out := make([]Bar, len(bars))
	copy(out, bars)
	return out
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
