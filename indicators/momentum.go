package indicators

import (
	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/series"
)

// Momentum is value[i] - value[i-length]. Output starts at input index length.
func Momentum(values market.Series, length int) market.Series {
	length = clampLen(length)
	xs := values.Values()
	out := nanSlice(len(xs))
	for i := length; i < len(xs); i++ {
		out[i] = xs[i] - xs[i-length]
	}
	return tail(values.Times(), out, length)
}

// ROC is the percent rate of change over length points, 0 when the
// reference value is 0. Output starts at input index length.
func ROC(values market.Series, length int) market.Series {
	length = clampLen(length)
	xs := values.Values()
	out := nanSlice(len(xs))
	for i := length; i < len(xs); i++ {
		prev, cur := xs[i-length], xs[i]
		switch {
		case !finite(prev) || !finite(cur):
		case prev == 0:
			out[i] = 0
		default:
			out[i] = (cur/prev - 1) * 100
		}
	}
	return tail(values.Times(), out, length)
}

// BIAS is the percent distance of the value from its SMA(length), 0 when
// the SMA is 0. Output starts at input index length-1.
func BIAS(values market.Series, length int) market.Series {
	length = clampLen(length)
	xs := values.Values()
	ma := series.TrailingMean(xs, length)
	out := nanSlice(len(xs))
	for i := length - 1; i < len(xs); i++ {
		switch {
		case !finite(xs[i]) || !finite(ma[i]):
		case ma[i] == 0:
			out[i] = 0
		default:
			out[i] = (xs[i] - ma[i]) / ma[i] * 100
		}
	}
	return tail(values.Times(), out, length-1)
}
