package preprocess

import (
	"math"
	"testing"

	"github.com/rustyeddy/chartcalc/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var nan = math.NaN()

func line(xs ...float64) market.Series {
	out := make(market.Series, len(xs))
	for i, x := range xs {
		out[i] = market.LinePoint{Time: market.Timestamp(10 * (i + 1)), Value: x}
	}
	return out
}

// assertValues compares values, treating NaN as equal to NaN.
func assertValues(t *testing.T, want []float64, got market.Series) {
	t.Helper()
	require.Len(t, got, len(want))
	for i, w := range want {
		if math.IsNaN(w) {
			assert.True(t, got[i].Missing(), "index %d: want missing, got %v", i, got[i].Value)
			continue
		}
		assert.InDelta(t, w, got[i].Value, 1e-12, "index %d", i)
	}
}

func ptr(v float64) *float64 { return &v }

func TestMissingValues(t *testing.T) {
	in := line(nan, 1, nan, nan, 4, nan)

	tests := []struct {
		strategy MissingStrategy
		want     []float64
	}{
		{MissingNone, []float64{nan, 1, nan, nan, 4, nan}},
		{ForwardFill, []float64{nan, 1, 1, 1, 4, 4}},
		{BackwardFill, []float64{1, 1, 4, 4, 4, nan}},
		{Interpolate, []float64{nan, 1, 2, 3, 4, nan}},
		{ConstantFill, []float64{-1, 1, -1, -1, 4, -1}},
	}
	for _, tt := range tests {
		t.Run(string(tt.strategy), func(t *testing.T) {
			got := ApplyMissingValues(in, MissingValuesConfig{Strategy: tt.strategy, ConstantValue: -1})
			assertValues(t, tt.want, got)
			assert.Equal(t, in.Times(), got.Times())
		})
	}

	dropped := ApplyMissingValues(in, MissingValuesConfig{Strategy: DropRows})
	assert.Equal(t, []float64{1, 4}, dropped.Values())
	assert.Equal(t, []market.Timestamp{20, 50}, dropped.Times())

	assert.True(t, in[2].Missing(), "input must not be modified")
}

func TestZeroIsNotFilled(t *testing.T) {
	got := ApplyMissingValues(line(0, nan), MissingValuesConfig{Strategy: ConstantFill, ConstantValue: 9})
	assert.Equal(t, []float64{0, 9}, got.Values())
}

func TestManualClip(t *testing.T) {
	in := line(-5, 50, 150, nan, 0, 100)
	got := ApplyOutliers(in, OutlierConfig{Method: ManualClip, ManualMin: ptr(0), ManualMax: ptr(100)})
	assertValues(t, []float64{0, 50, 100, nan, 0, 100}, got)
	for _, p := range got {
		if !p.Missing() {
			assert.GreaterOrEqual(t, p.Value, 0.0)
			assert.LessOrEqual(t, p.Value, 100.0)
		}
	}

	// Without bounds the data range is used, which changes nothing.
	same := ApplyOutliers(in, OutlierConfig{Method: ManualClip})
	assertValues(t, []float64{-5, 50, 150, nan, 0, 100}, same)
}

func TestIQRClip(t *testing.T) {
	got := ApplyOutliers(line(1, 2, 3, 4, 100), OutlierConfig{Method: IQRClip, IQRMultiplier: 1.5})
	assertValues(t, []float64{1, 2, 3, 4, 7}, got)
}

func TestWinsorize(t *testing.T) {
	xs := make([]float64, 101)
	for i := range xs {
		xs[i] = float64(i + 1)
	}
	got := ApplyOutliers(line(xs...), OutlierConfig{Method: Winsorize, WinsorLower: 1, WinsorUpper: 99})
	vals := got.Values()
	assert.Equal(t, 2.0, vals[0])
	assert.Equal(t, 100.0, vals[100])
	assert.Equal(t, 50.0, vals[49])
}

func TestZScoreClip(t *testing.T) {
	got := ApplyOutliers(line(1, 1, 1, 1, 1, 1, 1, 1, 1, 100), OutlierConfig{Method: ZScoreClip, ZThreshold: 1})
	vals := got.Values()
	assert.Equal(t, 1.0, vals[0])
	assert.Less(t, vals[9], 100.0)
	assert.Greater(t, vals[9], 1.0)

	// A flat series has std 0, which is treated as 1.
	flat := ApplyOutliers(line(5, 5, 5), OutlierConfig{Method: ZScoreClip})
	assert.Equal(t, []float64{5, 5, 5}, flat.Values())
}

func TestSmoothing(t *testing.T) {
	in := line(1, 2, 3, 4)

	trailing := ApplySmoothing(in, SmoothingConfig{Method: MovingAverage, Window: 3, MinPeriods: 1})
	assertValues(t, []float64{1, 1.5, 2, 3}, trailing)

	centered := ApplySmoothing(in, SmoothingConfig{Method: MovingAverage, Window: 3, Center: true})
	assertValues(t, []float64{1.5, 2, 3, 3.5}, centered)

	minPeriods := ApplySmoothing(line(4, 2, 3), SmoothingConfig{Method: MovingAverage, Window: 3, MinPeriods: 2})
	assertValues(t, []float64{4, 3, 3}, minPeriods)

	noop := ApplySmoothing(in, SmoothingConfig{Method: MovingAverage, Window: 1})
	assert.Equal(t, in, noop)
}

func TestDifferencingRoundTrip(t *testing.T) {
	orig := []float64{3, 5, 4, 8, 10}
	diff := ApplyDifferencing(line(orig...), DifferencingConfig{Order: 1})
	assertValues(t, []float64{nan, 2, -1, 4, 2}, diff)

	// Cumulative sum from the first known level rebuilds the series.
	level := orig[0]
	for i, p := range diff[1:] {
		level += p.Value
		assert.Equal(t, orig[i+1], level)
	}

	dropped := ApplyDifferencing(line(orig...), DifferencingConfig{Order: 1, DropMissing: true})
	assert.Equal(t, []float64{2, -1, 4, 2}, dropped.Values())
	assert.Equal(t, market.Timestamp(20), dropped[0].Time)

	seasonal := ApplyDifferencing(line(1, 2, 4, 6), DifferencingConfig{Order: 1, SeasonalPeriod: 2})
	assertValues(t, []float64{nan, nan, 3, 4}, seasonal)

	hole := ApplyDifferencing(line(1, nan, 4), DifferencingConfig{Order: 1})
	assertValues(t, []float64{nan, nan, nan}, hole)

	assert.Equal(t, []float64{3, 5}, ApplyDifferencing(line(3, 5), DifferencingConfig{Order: 0}).Values())
}

func TestScaling(t *testing.T) {
	assertValues(t, []float64{0, 0.5, 1}, ApplyScaling(line(2, 4, 6), ScalingConfig{Method: MinMax, RangeMin: 0, RangeMax: 1}))
	assertValues(t, []float64{-1, 0, 1}, ApplyScaling(line(2, 4, 6), ScalingConfig{Method: MinMax, RangeMin: -1, RangeMax: 1}))
	assertValues(t, []float64{0, 0}, ApplyScaling(line(5, 5), ScalingConfig{Method: MinMax, RangeMax: 1}))
	assertValues(t, []float64{-1, nan, 1}, ApplyScaling(line(1, nan, 3), ScalingConfig{Method: Standard}))
	assertValues(t, []float64{-0.5, 0, 0.5, 1, 1.5}, ApplyScaling(line(1, 2, 3, 4, 5), ScalingConfig{Method: Robust}))
}

func TestApplyOrderAndCopy(t *testing.T) {
	in := line(2, nan, 6, 10)

	cfg := DefaultConfig()
	out := Apply(in, cfg)
	assert.Len(t, out, 4, "disabled pipeline is a pass-through")
	out[0].Value = 42
	assert.Equal(t, 2.0, in[0].Value)

	cfg.Enabled = true
	cfg.MissingValues = MissingValuesConfig{Enabled: true, Strategy: Interpolate}
	cfg.Scaling = ScalingConfig{Enabled: true, Method: MinMax, RangeMin: 0, RangeMax: 1}
	// Scaling sees the interpolated 4, so the result is evenly spaced.
	assertValues(t, []float64{0, 0.25, 0.5, 1}, Apply(in, cfg))
}

func TestValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.MissingValues.Strategy = "guess"
	cfg.Scaling.Method = "log"
	cfg.Differencing.Order = 2
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing_values.strategy")
	assert.Contains(t, err.Error(), "scaling.method")
	assert.Contains(t, err.Error(), "differencing.order")
}
