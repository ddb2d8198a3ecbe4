// Package series provides the windowed statistics shared by indicators,
// preprocessing and decomposition.
//
// Every helper treats NaN and ±Inf as missing: missing values are skipped
// when accumulating sums and counts, never converted to zero.
package series

import (
	"math"
	"sort"
)

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Finite returns the finite values of xs in their original order.
func Finite(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if finite(x) {
			out = append(out, x)
		}
	}
	return out
}

// SortedFinite returns the finite values of xs sorted ascending.
func SortedFinite(xs []float64) []float64 {
	out := Finite(xs)
	sort.Float64s(out)
	return out
}

// Mean returns the arithmetic mean of the finite values, or NaN when there are none.
func Mean(xs []float64) float64 {
	sum, n := 0.0, 0
	for _, x := range xs {
		if finite(x) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// Variance returns the population variance of the finite values, or NaN
// when there are none.
func Variance(xs []float64) float64 {
	mean := Mean(xs)
	if math.IsNaN(mean) {
		return math.NaN()
	}
	sum, n := 0.0, 0
	for _, x := range xs {
		if finite(x) {
			d := x - mean
			sum += d * d
			n++
		}
	}
	return sum / float64(n)
}

// StdDev returns the population standard deviation.
func StdDev(xs []float64) float64 {
	return math.Sqrt(Variance(xs))
}

// Quantile interpolates linearly between the two order statistics that
// bracket q in an ascending slice. The last element is used when there is
// no upper neighbour. An empty slice yields NaN.
func Quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := float64(n-1) * q
	base := int(math.Floor(pos))
	if base < 0 {
		return sorted[0]
	}
	if base >= n-1 {
		return sorted[n-1]
	}
	rest := pos - float64(base)
	return sorted[base] + rest*(sorted[base+1]-sorted[base])
}

// MinMax returns the smallest and largest finite values; ok is false when
// there are none.
func MinMax(xs []float64) (lo, hi float64, ok bool) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		if !finite(x) {
			continue
		}
		ok = true
		if x < lo {
			lo = x
		}
		if x > hi {
			hi = x
		}
	}
	return lo, hi, ok
}
