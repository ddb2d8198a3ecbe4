package pipeline

import (
	"math"
	"testing"

	"github.com/rustyeddy/chartcalc/config"
	"github.com/rustyeddy/chartcalc/decompose"
	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/preprocess"
	"github.com/rustyeddy/chartcalc/synthetic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waveBars(n int) []market.Bar {
	bars := make([]market.Bar, n)
	for i := range bars {
		c := 100 + 5*math.Sin(float64(i)/7) + 0.05*float64(i)
		bars[i] = market.Bar{
			Time:   market.Timestamp(3600 * (i + 1)),
			Open:   c - 0.3,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: float64(100 + i%10),
		}
	}
	return bars
}

func byName(outs []Output) map[string]market.Series {
	m := make(map[string]market.Series, len(outs))
	for _, o := range outs {
		m[o.Name] = o.Series
	}
	return m
}

func TestIndicatorsAlignedToBase(t *testing.T) {
	bars := waveBars(150)
	outs := Indicators(bars, config.Default().Indicators)
	require.NotEmpty(t, outs)

	for _, o := range outs {
		t.Run(o.Name, func(t *testing.T) {
			require.Len(t, o.Series, len(bars))
			assert.Equal(t, bars[0].Time, o.Series[0].Time)
			assert.Equal(t, bars[149].Time, o.Series[149].Time)
		})
	}

	m := byName(outs)
	sma := m["sma_20"]
	assert.True(t, sma[18].Missing())
	assert.False(t, sma[19].Missing())

	chikou := m["ichimoku_chikou"]
	assert.Equal(t, bars[26].Close, chikou[0].Value, "lagging span covers the head")
	assert.True(t, chikou[149].Missing())

	vol := m["volume"]
	maxVol := 0.0
	for _, p := range vol {
		maxVol = math.Max(maxVol, p.Value)
	}
	assert.InDelta(t, 0.2, maxVol, 1e-12)

	for _, name := range []string{"ema_50", "ema_20", "ema_100", "macd_hist", "psar", "adx", "kdj_j"} {
		assert.Contains(t, m, name)
	}
}

func TestIndicatorsSelection(t *testing.T) {
	ic := config.Default().Indicators
	ic.Enabled = []string{"rsi", "macd"}
	outs := Indicators(waveBars(60), ic)

	names := []string{}
	for _, o := range outs {
		names = append(names, o.Name)
	}
	assert.Equal(t, []string{"rsi_14", "macd", "macd_signal", "macd_hist"}, names)
}

func TestIndicatorsEmptyInput(t *testing.T) {
	outs := Indicators(nil, config.Default().Indicators)
	for _, o := range outs {
		assert.Empty(t, o.Series, o.Name)
	}
}

func TestBars(t *testing.T) {
	bars := waveBars(100)

	same, mode, err := Bars(bars, config.SyntheticConfig{}, market.TF1h)
	require.NoError(t, err)
	assert.Equal(t, synthetic.ModeCandles, mode)
	assert.Equal(t, bars, same)

	renko, mode, err := Bars(bars, config.SyntheticConfig{Mode: "renko", RenkoBoxSize: 1}, market.TF1h)
	require.NoError(t, err)
	assert.Equal(t, synthetic.ModeRenko, mode)
	require.NotEmpty(t, renko)
	for _, b := range renko {
		assert.InDelta(t, 1.0, math.Abs(b.Close-b.Open), 1e-9)
	}

	_, _, err = Bars(bars, config.SyntheticConfig{Mode: "pnf"}, market.TF1h)
	assert.Error(t, err)
}

func TestPreprocess(t *testing.T) {
	bars := waveBars(5)
	bars[2].Close = math.NaN()

	cfg := preprocess.DefaultConfig()
	cfg.Enabled = true
	cfg.MissingValues = preprocess.MissingValuesConfig{Enabled: true, Strategy: preprocess.Interpolate}

	line := Preprocess(bars, cfg)
	require.Len(t, line, 5)
	assert.InDelta(t, (bars[1].Close+bars[3].Close)/2, line[2].Value, 1e-9)
}

func TestDecomposeDefaultsSeasonToTimeframe(t *testing.T) {
	bars := waveBars(200)
	cfg := decompose.DefaultConfig()
	cfg.SeasonLength = 0

	r := Decompose(market.Closes(bars), cfg, market.TF1d)
	assert.Len(t, r.Pattern, 7)

	outs := Components(r)
	require.Len(t, outs, 3)
	for _, o := range outs {
		assert.Len(t, o.Series, 200)
	}
}

func TestBarsHeikinAshiOverSynthetic(t *testing.T) {
	bars := waveBars(60)

	ha, mode, err := Bars(bars, config.SyntheticConfig{Mode: "heikin"}, market.TF1h)
	require.NoError(t, err)
	assert.Equal(t, synthetic.ModeHeikinAshi, mode)
	assert.Equal(t, synthetic.HeikinAshi(bars), ha)

	sc := config.SyntheticConfig{Mode: "renko", RenkoBoxSize: 1}
	renko, _, err := Bars(bars, sc, market.TF1h)
	require.NoError(t, err)
	sc.HeikinAshi = true
	smoothed, mode, err := Bars(bars, sc, market.TF1h)
	require.NoError(t, err)
	assert.Equal(t, synthetic.ModeRenko, mode)
	assert.Equal(t, synthetic.HeikinAshi(renko), smoothed)
}
