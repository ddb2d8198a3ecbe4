// Package preprocess is a fixed five-stage cleaning pipeline for a
// (time, value) line: missing values, outliers, smoothing, differencing and
// scaling, always in that order. Stages only rewrite values; times are kept
// as they are, although drop_rows and differencing may remove points.
package preprocess

import (
	"math"

	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/series"
)

// Apply runs every enabled stage in order. The input is never modified; a
// disabled pipeline returns a copy.
func Apply(s market.Series, cfg Config) market.Series {
	out := s.Clone()
	if !cfg.Enabled {
		return out
	}
	if cfg.MissingValues.Enabled {
		out = ApplyMissingValues(out, cfg.MissingValues)
	}
	if cfg.Outliers.Enabled {
		out = ApplyOutliers(out, cfg.Outliers)
	}
	if cfg.Smoothing.Enabled {
		out = ApplySmoothing(out, cfg.Smoothing)
	}
	if cfg.Differencing.Enabled && cfg.Differencing.Order > 0 {
		out = ApplyDifferencing(out, cfg.Differencing)
	}
	if cfg.Scaling.Enabled {
		out = ApplyScaling(out, cfg.Scaling)
	}
	return out
}

// ApplyMissingValues fills or drops missing points.
//
// interpolate fills each interior gap linearly by position and leaves gaps
// at either end untouched; forward and backward fill leave leading
// (respectively trailing) gaps untouched.
func ApplyMissingValues(s market.Series, cfg MissingValuesConfig) market.Series {
	switch cfg.Strategy {
	case DropRows:
		out := make(market.Series, 0, len(s))
		for _, p := range s {
			if !p.Missing() {
				out = append(out, p)
			}
		}
		return out

	case ConstantFill:
		out := s.Clone()
		for i := range out {
			if out[i].Missing() {
				out[i].Value = cfg.ConstantValue
			}
		}
		return out

	case ForwardFill:
		out := s.Clone()
		last, seen := 0.0, false
		for i := range out {
			if !out[i].Missing() {
				last, seen = out[i].Value, true
			} else if seen {
				out[i].Value = last
			}
		}
		return out

	case BackwardFill:
		out := s.Clone()
		last, seen := 0.0, false
		for i := len(out) - 1; i >= 0; i-- {
			if !out[i].Missing() {
				last, seen = out[i].Value, true
			} else if seen {
				out[i].Value = last
			}
		}
		return out

	case Interpolate:
		out := s.Clone()
		prev := -1
		for i := range out {
			if out[i].Missing() {
				continue
			}
			if prev >= 0 && i-prev > 1 {
				v0, v1 := out[prev].Value, out[i].Value
				gap := float64(i - prev)
				for j := prev + 1; j < i; j++ {
					frac := float64(j-prev) / gap
					out[j].Value = v0 + frac*(v1-v0)
				}
			}
			prev = i
		}
		return out

	default:
		return s.Clone()
	}
}

// ApplyOutliers saturates every present value into bounds derived from the
// method; nothing is removed.
func ApplyOutliers(s market.Series, cfg OutlierConfig) market.Series {
	out := s.Clone()
	if cfg.Method == OutlierNone || cfg.Method == "" {
		return out
	}
	sorted := series.SortedFinite(s.Values())
	if len(sorted) == 0 {
		return out
	}

	var lower, upper float64
	switch cfg.Method {
	case ZScoreClip:
		z := cfg.ZThreshold
		if !(z > 0) {
			z = 3
		}
		mean := series.Mean(sorted)
		std := nonZero(series.StdDev(sorted))
		lower, upper = mean-z*std, mean+z*std

	case IQRClip:
		k := cfg.IQRMultiplier
		if !(k > 0) {
			k = 1.5
		}
		q1, q3 := series.Quantile(sorted, 0.25), series.Quantile(sorted, 0.75)
		iqr := q3 - q1
		lower, upper = q1-k*iqr, q3+k*iqr

	case Winsorize:
		lp, up := clampPct(cfg.WinsorLower), clampPct(cfg.WinsorUpper)
		if up < lp {
			lp, up = up, lp
		}
		lower, upper = series.Quantile(sorted, lp/100), series.Quantile(sorted, up/100)

	case ManualClip:
		lower, upper = sorted[0], sorted[len(sorted)-1]
		if cfg.ManualMin != nil {
			lower = *cfg.ManualMin
		}
		if cfg.ManualMax != nil {
			upper = *cfg.ManualMax
		}

	default:
		return out
	}

	for i := range out {
		if out[i].Missing() {
			continue
		}
		out[i].Value = math.Min(math.Max(out[i].Value, lower), upper)
	}
	return out
}

// ApplySmoothing replaces each point with the mean of the present values in
// its trailing (or centered) window. Near the edges the window is cut short;
// when it holds fewer than MinPeriods values the original point is kept.
func ApplySmoothing(s market.Series, cfg SmoothingConfig) market.Series {
	out := s.Clone()
	if cfg.Method != MovingAverage || cfg.Window <= 1 {
		return out
	}
	minPeriods := cfg.MinPeriods
	if minPeriods < 1 {
		minPeriods = 1
	}

	n := len(s)
	for i := 0; i < n; i++ {
		var start, end int
		if cfg.Center {
			half := cfg.Window / 2
			start, end = max(0, i-half), min(n, i+half+1)
		} else {
			start, end = max(0, i-cfg.Window+1), i+1
		}
		sum, count := 0.0, 0
		for j := start; j < end; j++ {
			if !s[j].Missing() {
				sum += s[j].Value
				count++
			}
		}
		if count >= minPeriods {
			out[i].Value = sum / float64(count)
		}
	}
	return out
}

// ApplyDifferencing subtracts the value SeasonalPeriod points earlier. Points
// without a present lag partner become missing, or are dropped when
// DropMissing is set. Order 0 is a no-op.
func ApplyDifferencing(s market.Series, cfg DifferencingConfig) market.Series {
	if cfg.Order <= 0 {
		return s.Clone()
	}
	lag := cfg.SeasonalPeriod
	if lag < 1 {
		lag = 1
	}

	out := make(market.Series, 0, len(s))
	for i, p := range s {
		if i < lag || p.Missing() || s[i-lag].Missing() {
			if !cfg.DropMissing {
				out = append(out, market.LinePoint{Time: p.Time, Value: math.NaN()})
			}
			continue
		}
		out = append(out, market.LinePoint{Time: p.Time, Value: p.Value - s[i-lag].Value})
	}
	return out
}

// ApplyScaling rescales the present values. Zero spread (std, range or IQR)
// is replaced with 1.
func ApplyScaling(s market.Series, cfg ScalingConfig) market.Series {
	out := s.Clone()
	sorted := series.SortedFinite(s.Values())
	if len(sorted) == 0 {
		return out
	}

	var f func(float64) float64
	switch cfg.Method {
	case Standard:
		mean := series.Mean(sorted)
		std := nonZero(series.StdDev(sorted))
		f = func(v float64) float64 { return (v - mean) / std }

	case MinMax:
		lo, hi := sorted[0], sorted[len(sorted)-1]
		from := nonZero(hi - lo)
		to := nonZero(cfg.RangeMax - cfg.RangeMin)
		f = func(v float64) float64 { return (v-lo)/from*to + cfg.RangeMin }

	case Robust:
		q1, q3 := series.Quantile(sorted, 0.25), series.Quantile(sorted, 0.75)
		iqr := nonZero(q3 - q1)
		f = func(v float64) float64 { return (v - q1) / iqr }

	default:
		return out
	}

	for i := range out {
		if !out[i].Missing() {
			out[i].Value = f(out[i].Value)
		}
	}
	return out
}

func nonZero(v float64) float64 {
	if v == 0 || math.IsNaN(v) {
		return 1
	}
	return v
}

func clampPct(p float64) float64 {
	return math.Min(math.Max(p, 0), 100)
}
