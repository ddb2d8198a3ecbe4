// Package decompose splits a line into trend, seasonal and residual parts
// using a centered moving-average trend and per-phase seasonal averages.
package decompose

import (
	"fmt"
	"math"

	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/series"
)

// Model is the way the components combine.
type Model string

const (
	Additive       Model = "additive"
	Multiplicative Model = "multiplicative"
)

// Config holds the decomposition knobs. Lengths below their minimum are
// clamped rather than rejected.
type Config struct {
	TrendLength     int   `json:"trend_length" yaml:"trend_length"`         // >= 3
	SeasonLength    int   `json:"season_length" yaml:"season_length"`       // >= 2
	SeasonSmoothing int   `json:"season_smoothing" yaml:"season_smoothing"` // >= 1, circular window over the pattern
	Model           Model `json:"model" yaml:"model"`

	NormalizeSeasonality bool `json:"normalize_seasonality" yaml:"normalize_seasonality"`
	StandardizeResiduals bool `json:"standardize_residuals" yaml:"standardize_residuals"`
	ResidualStdWindow    int  `json:"residual_std_window" yaml:"residual_std_window"` // >= 5

	// RequireFullStdWindow delays residual z-scores until the trailing
	// window has its full length. By default any window with two valid
	// residuals is used, so the first z-scores come from short windows.
	RequireFullStdWindow bool `json:"require_full_std_window" yaml:"require_full_std_window"`
}

// DefaultConfig returns the standard settings for an hourly series.
func DefaultConfig() Config {
	return Config{
		TrendLength:          50,
		SeasonLength:         168,
		SeasonSmoothing:      1,
		Model:                Additive,
		NormalizeSeasonality: true,
		StandardizeResiduals: true,
		ResidualStdWindow:    100,
	}
}

// Validate checks the enumerated options only.
func (c Config) Validate() error {
	switch c.Model {
	case "", Additive, Multiplicative:
		return nil
	default:
		return fmt.Errorf("decomposition.model: unknown %q", c.Model)
	}
}

// DefaultSeasonLength is one week of bars for the timeframe.
func DefaultSeasonLength(tf market.Timeframe) int {
	switch tf {
	case market.TF5m:
		return 2016
	case market.TF15m:
		return 672
	case market.TF1h:
		return 168
	case market.TF4h:
		return 42
	case market.TF1d:
		return 7
	default:
		return 168
	}
}

// Result holds one point per input point for each component; undefined
// points carry NaN. Pattern is the per-phase seasonal profile, and Model is
// the model actually used.
type Result struct {
	Trend    market.Series
	Seasonal market.Series
	Residual market.Series
	Pattern  []float64
	Model    Model
}

func finite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}

// Compute decomposes line. Fewer than three points leave every component
// undefined.
//
// For the multiplicative model the work happens on ln(value) and trend and
// seasonal are exponentiated back; the residual is exponentiated only when
// it is not standardized. If any value is non-positive or not finite the
// additive model is used instead.
func Compute(line market.Series, cfg Config) Result {
	n := len(line)
	res := Result{
		Trend:    make(market.Series, n),
		Seasonal: make(market.Series, n),
		Residual: make(market.Series, n),
		Model:    Additive,
	}
	if n == 0 {
		return res
	}
	cfg = clamp(cfg)

	y := line.Values()
	if cfg.Model == Multiplicative && allPositive(y) {
		res.Model = Multiplicative
		for i := range y {
			y[i] = math.Log(y[i])
		}
	}

	window := 2*(min(cfg.TrendLength, n)/2) + 1
	if window < 3 {
		for i, p := range line {
			nan := market.LinePoint{Time: p.Time, Value: math.NaN()}
			res.Trend[i], res.Seasonal[i], res.Residual[i] = nan, nan, nan
		}
		return res
	}
	trend := series.CenteredMean(y, window)

	detrended := make([]float64, n)
	for i := range y {
		detrended[i] = y[i] - trend[i]
	}

	seasonLen := max(2, min(cfg.SeasonLength, n))
	pattern := seasonalPattern(detrended, seasonLen, cfg.SeasonSmoothing, cfg.NormalizeSeasonality)

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i := range y {
		seasonal[i], residual[i] = math.NaN(), math.NaN()
		if finite(y[i]) && finite(trend[i]) {
			seasonal[i] = pattern[i%seasonLen]
			residual[i] = y[i] - trend[i] - seasonal[i]
		}
	}

	if cfg.StandardizeResiduals {
		residual = standardize(residual, cfg.ResidualStdWindow, cfg.RequireFullStdWindow)
	}

	if res.Model == Multiplicative {
		expAll(trend)
		expAll(seasonal)
		if !cfg.StandardizeResiduals {
			expAll(residual)
		}
	}

	for i, p := range line {
		res.Trend[i] = market.LinePoint{Time: p.Time, Value: orNaN(trend[i])}
		res.Seasonal[i] = market.LinePoint{Time: p.Time, Value: orNaN(seasonal[i])}
		res.Residual[i] = market.LinePoint{Time: p.Time, Value: orNaN(residual[i])}
	}
	res.Pattern = pattern
	return res
}

func clamp(c Config) Config {
	if c.TrendLength < 3 {
		c.TrendLength = 3
	}
	if c.SeasonLength < 2 {
		c.SeasonLength = 2
	}
	if c.SeasonSmoothing < 1 {
		c.SeasonSmoothing = 1
	}
	if c.ResidualStdWindow < 5 {
		c.ResidualStdWindow = 5
	}
	return c
}

func allPositive(xs []float64) bool {
	for _, x := range xs {
		if !finite(x) || x <= 0 {
			return false
		}
	}
	return true
}

// seasonalPattern averages the detrended values per phase, optionally
// smooths the profile with a wrap-around window and shifts it to zero mean.
func seasonalPattern(detrended []float64, length, smoothing int, normalize bool) []float64 {
	sums := make([]float64, length)
	counts := make([]int, length)
	for i, v := range detrended {
		if finite(v) {
			sums[i%length] += v
			counts[i%length]++
		}
	}
	pattern := make([]float64, length)
	for k := range pattern {
		if counts[k] > 0 {
			pattern[k] = sums[k] / float64(counts[k])
		}
	}

	if smoothing > 1 {
		half := smoothing / 2
		smoothed := make([]float64, length)
		for k := range smoothed {
			sum := 0.0
			for j := -half; j <= half; j++ {
				sum += pattern[((k+j)%length+length)%length]
			}
			smoothed[k] = sum / float64(2*half+1)
		}
		pattern = smoothed
	}

	if normalize {
		mean := series.Mean(pattern)
		for k := range pattern {
			pattern[k] -= mean
		}
	}
	return pattern
}

// standardize turns each residual into a z-score against the valid
// residuals in its trailing window. At least two valid values are needed;
// otherwise the raw residual is kept. A zero deviation divides by 1.
func standardize(r []float64, window int, requireFull bool) []float64 {
	out := make([]float64, len(r))
	copy(out, r)
	w := series.NewWindow(window)
	for i, v := range r {
		w.Push(v)
		if !finite(v) || w.Count() < 2 {
			continue
		}
		if requireFull && !w.Full() {
			continue
		}
		std := math.Sqrt(w.Variance())
		if std == 0 {
			std = 1
		}
		out[i] = (v - w.Mean()) / std
	}
	return out
}

func expAll(xs []float64) {
	for i, x := range xs {
		if finite(x) {
			xs[i] = math.Exp(x)
		}
	}
}

func orNaN(x float64) float64 {
	if !finite(x) {
		return math.NaN()
	}
	return x
}
