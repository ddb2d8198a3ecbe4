package market

import "math"

// LinePoint is a single (time, value) observation. A NaN value means
// "missing" and is distinct from a legitimate zero.
type LinePoint struct {
	Time  Timestamp `json:"time" yaml:"time"`
	Value float64   `json:"value" yaml:"value"`
}

// Missing reports whether the point carries no usable value.
// NaN and ±Inf are both treated as missing.
func (p LinePoint) Missing() bool {
	return !finite(p.Value)
}

// Series is an ordered sequence of points; insertion order is the time axis.
type Series []LinePoint

// NaN returns the missing-value marker.
func NaN() float64 { return math.NaN() }

// IsMissing reports whether v is NaN or infinite.
func IsMissing(v float64) bool { return !finite(v) }

// Clone returns a copy of s.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	copy(out, s)
	return out
}

// Values returns the value column of s.
func (s Series) Values() []float64 {
	out := make([]float64, len(s))
	for i, p := range s {
		out[i] = p.Value
	}
	return out
}

// Times returns the time column of s.
func (s Series) Times() []Timestamp {
	out := make([]Timestamp, len(s))
	for i, p := range s {
		out[i] = p.Time
	}
	return out
}

// Closes builds the close-price line of bars. Invalid bars produce a
// missing point so that the line stays index-aligned with bars.
func Closes(bars []Bar) Series {
	out := make(Series, len(bars))
	for i, b := range bars {
		v := b.Close
		if !b.Valid() {
			v = math.NaN()
		}
		out[i] = LinePoint{Time: b.Time, Value: v}
	}
	return out
}

// FromValues pairs values with times. The shorter of the two bounds the result.
func FromValues(times []Timestamp, values []float64) Series {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	out := make(Series, n)
	for i := 0; i < n; i++ {
		out[i] = LinePoint{Time: times[i], Value: values[i]}
	}
	return out
}

// HistPoint is a histogram or volume column with its direction, used for
// MACD histograms and volume bars.
type HistPoint struct {
	Time  Timestamp `json:"time" yaml:"time"`
	Value float64   `json:"value" yaml:"value"`
	Up    bool      `json:"up" yaml:"up"`
}
