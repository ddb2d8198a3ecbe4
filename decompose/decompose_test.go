package decompose

import (
	"math"
	"testing"

	"github.com/rustyeddy/chartcalc/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func line(xs []float64) market.Series {
	out := make(market.Series, len(xs))
	for i, x := range xs {
		out[i] = market.LinePoint{Time: market.Timestamp(i), Value: x}
	}
	return out
}

// trendPlusSeason is a linear trend plus a zero-mean period-3 pattern, which
// a 3-point centered average separates exactly.
func trendPlusSeason(n int) ([]float64, []float64) {
	season := []float64{2, -1, -1}
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = 100 + 0.5*float64(i) + season[i%3]
	}
	return xs, season
}

func TestAdditiveSeparatesComponents(t *testing.T) {
	xs, season := trendPlusSeason(30)
	cfg := DefaultConfig()
	cfg.TrendLength = 3
	cfg.SeasonLength = 3
	cfg.StandardizeResiduals = false

	res := Compute(line(xs), cfg)
	require.Len(t, res.Trend, 30)
	require.Len(t, res.Seasonal, 30)
	require.Len(t, res.Residual, 30)
	assert.Equal(t, Additive, res.Model)

	assert.True(t, res.Trend[0].Missing())
	assert.True(t, res.Trend[29].Missing())
	assert.True(t, res.Seasonal[0].Missing())
	assert.InDelta(t, 102.5, res.Trend[5].Value, 1e-9)

	for k, s := range season {
		assert.InDelta(t, s, res.Pattern[k], 1e-9)
	}
	for i := 1; i < 29; i++ {
		assert.InDelta(t, season[i%3], res.Seasonal[i].Value, 1e-9)
		assert.InDelta(t, 0, res.Residual[i].Value, 1e-9)
	}
}

func TestNormalizedPatternHasZeroMean(t *testing.T) {
	n := 200
	xs := make([]float64, n)
	for i := range xs {
		x := float64(i)
		xs[i] = 50 + 0.1*x + 5*math.Sin(2*math.Pi*x/24) + 3 + math.Cos(x*1.7)
	}
	cfg := DefaultConfig()
	cfg.TrendLength = 25
	cfg.SeasonLength = 24
	cfg.SeasonSmoothing = 3

	res := Compute(line(xs), cfg)
	require.Len(t, res.Pattern, 24)
	sum := 0.0
	for _, v := range res.Pattern {
		sum += v
	}
	assert.InDelta(t, 0, sum/24, 1e-9)

	cfg.NormalizeSeasonality = false
	raw := Compute(line(xs), cfg)
	assert.Equal(t, len(res.Pattern), len(raw.Pattern))
}

func TestMultiplicative(t *testing.T) {
	f := []float64{1.1, 0.95, 1 / (1.1 * 0.95)}
	xs := make([]float64, 30)
	for i := range xs {
		xs[i] = 100 * math.Pow(1.01, float64(i)) * f[i%3]
	}
	cfg := DefaultConfig()
	cfg.TrendLength = 3
	cfg.SeasonLength = 3
	cfg.Model = Multiplicative
	cfg.StandardizeResiduals = false

	res := Compute(line(xs), cfg)
	assert.Equal(t, Multiplicative, res.Model)
	assert.InDelta(t, 100*math.Pow(1.01, 10), res.Trend[10].Value, 1e-6)
	assert.InDelta(t, f[10%3], res.Seasonal[10].Value, 1e-9)
	assert.InDelta(t, 1, res.Residual[10].Value, 1e-9)
}

func TestMultiplicativeFallsBackToAdditive(t *testing.T) {
	xs, _ := trendPlusSeason(30)
	xs[7] = 0
	cfg := DefaultConfig()
	cfg.TrendLength = 3
	cfg.SeasonLength = 3
	cfg.Model = Multiplicative

	res := Compute(line(xs), cfg)
	assert.Equal(t, Additive, res.Model)
	require.Len(t, res.Trend, 30)

	xs[7] = math.NaN()
	assert.Equal(t, Additive, Compute(line(xs), cfg).Model)
}

func TestStandardize(t *testing.T) {
	nan := math.NaN()
	got := standardize([]float64{nan, 1, 3, 5}, 5, false)
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, 1.0, got[1], "a single valid residual stays raw")
	assert.InDelta(t, 1.0, got[2], 1e-12)
	assert.InDelta(t, 2/math.Sqrt(8.0/3), got[3], 1e-9)

	full := standardize([]float64{nan, 1, 3, 5}, 5, true)
	assert.Equal(t, 1.0, full[1])
	assert.Equal(t, 3.0, full[2])
	assert.Equal(t, 5.0, full[3])

	flat := standardize([]float64{2, 2, 2}, 5, false)
	assert.Equal(t, []float64{2, 0, 0}, flat)
}

func TestClampsAndEdgeCases(t *testing.T) {
	empty := Compute(nil, DefaultConfig())
	assert.Empty(t, empty.Trend)

	cfg := Config{TrendLength: -1, SeasonLength: 0, ResidualStdWindow: 1}
	res := Compute(line([]float64{1, 2, 3, 4, 5, 6}), cfg)
	require.Len(t, res.Trend, 6)
	assert.InDelta(t, 2.0, res.Trend[1].Value, 1e-12)
	assert.Len(t, res.Pattern, 2)

	for _, xs := range [][]float64{{5}, {1, 2}} {
		short := Compute(line(xs), DefaultConfig())
		require.Len(t, short.Trend, len(xs))
		for i := range xs {
			assert.True(t, short.Trend[i].Missing())
			assert.True(t, short.Seasonal[i].Missing())
			assert.True(t, short.Residual[i].Missing())
			assert.Equal(t, market.Timestamp(i), short.Trend[i].Time)
		}
	}
}

func TestDefaultSeasonLength(t *testing.T) {
	assert.Equal(t, 2016, DefaultSeasonLength(market.TF5m))
	assert.Equal(t, 672, DefaultSeasonLength(market.TF15m))
	assert.Equal(t, 168, DefaultSeasonLength(market.TF1h))
	assert.Equal(t, 42, DefaultSeasonLength(market.TF4h))
	assert.Equal(t, 7, DefaultSeasonLength(market.TF1d))
	assert.Equal(t, 168, DefaultSeasonLength("3m"))
}

func TestValidate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.Error(t, Config{Model: "log"}.Validate())
}
