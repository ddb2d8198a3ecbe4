package synthetic

import (
	"math"
	"testing"

	"github.com/rustyeddy/chartcalc/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// point makes a bar with all four prices equal to c.
func point(t market.Timestamp, c, vol float64) market.Bar {
	return market.Bar{Time: t, Open: c, High: c, Low: c, Close: c, Volume: vol}
}

func closesToBars(closes ...float64) []market.Bar {
	bars := make([]market.Bar, len(closes))
	for i, c := range closes {
		bars[i] = point(market.Timestamp(100+i), c, 1)
	}
	return bars
}

func TestEstimateATRRange(t *testing.T) {
	assert.True(t, math.IsNaN(EstimateATRRange(closesToBars(1), 14)))
	assert.True(t, math.IsNaN(EstimateATRRange(closesToBars(5, 5, 5), 14)))

	bars := []market.Bar{
		{Time: 1, Open: 10, High: 11, Low: 9, Close: 10},
		{Time: 2, Open: 10, High: 11, Low: 9, Close: 10},
		{Time: 3, Open: 10, High: 14, Low: 10, Close: 13},
	}
	// TRs: 2 then 4.
	assert.Equal(t, 3.0, EstimateATRRange(bars, 14))
	assert.Equal(t, 4.0, EstimateATRRange(bars, 1))

	assert.InDelta(t, 3.6, ATRBased{Length: 14, Timeframe: market.TF1h}.Size(bars), 1e-12)
}

func TestSizeChainFallsBackToSpan(t *testing.T) {
	// No pair of consecutive valid bars, so there is no true range.
	bars := []market.Bar{
		point(1, 5, 0),
		{Time: 2, Open: math.NaN(), High: 9, Low: 1, Close: 5},
		point(3, 6, 0),
	}
	assert.InDelta(t, 0.02, EstimateDefaultRangeSize(bars, market.TF5m), 1e-12)
	assert.Equal(t, 2.5, Resolve(bars, DefaultChain(2.5, market.TF5m)...))
	assert.InDelta(t, 0.02, Resolve(bars, DefaultChain(-1, market.TF5m)...), 1e-12)
}

func TestFlatInputIsReturnedUnchanged(t *testing.T) {
	bars := closesToBars(7, 7, 7, 7)
	assert.True(t, math.IsNaN(EstimateDefaultRangeSize(bars, market.TF15m)))

	for name, fn := range map[string]func([]market.Bar, float64, market.Timeframe) []market.Bar{
		"range": RangeBars,
		"renko": RenkoBricks,
		"kagi":  KagiLines,
	} {
		t.Run(name, func(t *testing.T) {
			out := fn(bars, 0, market.TF15m)
			assert.Equal(t, bars, out)
			out[0].Close = 99
			assert.Equal(t, 7.0, bars[0].Close)
		})
	}

	assert.Empty(t, RenkoBricks(nil, 1, market.TF5m))
}

func TestRenkoMonotonicRise(t *testing.T) {
	closes := make([]float64, 11)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bricks := RenkoBricks(closesToBars(closes...), 1, market.TF5m)
	require.Len(t, bricks, 10)

	for i, b := range bricks {
		assert.Equal(t, 1.0, b.Close-b.Open)
		if i > 0 {
			assert.Greater(t, b.Time, bricks[i-1].Time)
		}
	}
	assert.Equal(t, market.Timestamp(100), bricks[0].Time)
}

func TestRenkoDecimalBox(t *testing.T) {
	var closes []float64
	for i := 0; i <= 55; i++ {
		closes = append(closes, 1.1+float64(i)*0.001)
	}
	for j := 1; j <= 40; j++ {
		closes = append(closes, 1.155-float64(j)*0.001)
	}

	// 0.01 is not exact in binary, so bricks match the box within rounding.
	bricks := RenkoBricks(closesToBars(closes...), 0.01, market.TF5m)
	require.Len(t, bricks, 8)
	for i, b := range bricks {
		assert.InDelta(t, 0.01, math.Abs(b.Close-b.Open), 1e-12, "brick %d", i)
		if i < 5 {
			assert.Greater(t, b.Close, b.Open, "brick %d", i)
		} else {
			assert.Less(t, b.Close, b.Open, "brick %d", i)
		}
	}
	assert.InDelta(t, 1.15, bricks[4].Close, 1e-9)
	assert.InDelta(t, 1.12, bricks[7].Close, 1e-9)
}

func TestRenkoManyBricksFromOneBar(t *testing.T) {
	bricks := RenkoBricks(closesToBars(100, 105, 110), 1, market.TF5m)
	require.Len(t, bricks, 10)
	for _, b := range bricks {
		assert.Equal(t, 1.0, math.Abs(b.Close-b.Open))
	}
	assert.Equal(t, 2.0, bricks[0].Volume, "first brick carries the volume of both bars")
	assert.Equal(t, 0.0, bricks[1].Volume)
}

func TestRenkoDoubleBoxReversal(t *testing.T) {
	bricks := RenkoBricks(closesToBars(100, 103, 101.5, 100.5), 1, market.TF5m)
	require.Len(t, bricks, 5)

	closes := make([]float64, len(bricks))
	for i, b := range bricks {
		closes[i] = b.Close
	}
	assert.Equal(t, []float64{101, 102, 103, 102, 101}, closes)
	// 101.5 was absorbed, so its volume lands on the first down brick.
	assert.Equal(t, 2.0, bricks[3].Volume)
}

func TestRangeBars(t *testing.T) {
	bars := []market.Bar{
		{Time: 1, Open: 100.5, High: 101, Low: 100, Close: 100.8, Volume: 1},
		{Time: 2, Open: 100.8, High: 101.5, Low: 100.5, Close: 101.2, Volume: 2},
		{Time: 3, Open: 101.2, High: 102.5, Low: 101, Close: 102.4, Volume: 3},
		{Time: 4, Open: 102.4, High: 103, Low: 102, Close: 102.9, Volume: 4},
	}
	out := RangeBars(bars, 2, market.TF5m)
	require.Len(t, out, 2)

	assert.Equal(t, market.Bar{Time: 3, Open: 100.5, High: 102.5, Low: 100, Close: 102.4, Volume: 6}, out[0])
	assert.Equal(t, market.Bar{Time: 4, Open: 102.4, High: 103, Low: 102, Close: 102.9, Volume: 4}, out[1])
}

func TestKagiLines(t *testing.T) {
	lines := KagiLines(closesToBars(10, 10.5, 12, 13, 12.5, 11.8, 11, 10.5), 1, market.TF5m)
	require.Len(t, lines, 4)

	type seg struct{ open, close, vol float64 }
	got := make([]seg, len(lines))
	for i, l := range lines {
		got[i] = seg{l.Open, l.Close, l.Volume}
	}
	assert.Equal(t, []seg{
		{10, 12, 3},
		{12, 13, 1},
		{13, 11.8, 2},
		{11.8, 10.5, 2},
	}, got)
	assert.Equal(t, market.Timestamp(102), lines[0].Time)
}

func TestBuild(t *testing.T) {
	bars := closesToBars(100, 101, 102, 103)

	out, err := Build(ModeCandles, bars, 0, market.TF5m)
	require.NoError(t, err)
	assert.Equal(t, bars, out)

	out, err = Build(ModeRenko, bars, 1, market.TF5m)
	require.NoError(t, err)
	assert.Len(t, out, 3)

	_, err = Build(Mode("pnf"), bars, 1, market.TF5m)
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"", ModeCandles, false},
		{"Renko", ModeRenko, false},
		{" kagi ", ModeKagi, false},
		{"range", ModeRange, false},
		{"Heikin-Ashi", ModeHeikinAshi, false},
		{"heikin", ModeHeikinAshi, false},
		{"pnf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, m)
		})
	}
}

func TestHeikinAshi(t *testing.T) {
	bars := []market.Bar{
		{Time: 1, Open: 10, High: 12, Low: 9, Close: 11, Volume: 5},
		{Time: 2, Open: 11, High: 13, Low: 10, Close: 12, Volume: 6},
		{Time: 3, Open: 12, High: 12.5, Low: 8, Close: 9, Volume: 7},
		{Time: 4, Open: 9, High: 9.5, Low: 8.5, Close: 9, Volume: 8},
	}
	want := []market.Bar{
		{Time: 1, Open: 10.5, High: 12, Low: 9, Close: 10.5, Volume: 5},
		{Time: 2, Open: 10.5, High: 13, Low: 10, Close: 11.5, Volume: 6},
		{Time: 3, Open: 11, High: 12.5, Low: 8, Close: 10.375, Volume: 7},
		{Time: 4, Open: 10.6875, High: 10.6875, Low: 8.5, Close: 9, Volume: 8},
	}
	assert.Equal(t, want, HeikinAshi(bars))
	assert.Equal(t, 10.0, bars[0].Open, "input must not be modified")

	out, err := Build(ModeHeikinAshi, bars, 0, market.TF1h)
	require.NoError(t, err)
	assert.Equal(t, want, out)

	assert.Empty(t, HeikinAshi(nil))
}

func TestHeikinAshiSkipsInvalidBars(t *testing.T) {
	gap := market.Bar{Time: 2, Open: math.NaN(), High: math.NaN(), Low: math.NaN(), Close: math.NaN()}
	bars := []market.Bar{
		gap,
		{Time: 3, Open: 10, High: 12, Low: 9, Close: 11},
		gap,
		{Time: 5, Open: 11, High: 13, Low: 10, Close: 12},
	}
	out := HeikinAshi(bars)
	require.Len(t, out, 4)
	assert.False(t, out[0].Valid())
	assert.Equal(t, 10.5, out[1].Open, "first valid bar seeds the state")
	assert.False(t, out[2].Valid())
	assert.Equal(t, 10.5, out[3].Open)
	assert.Equal(t, 11.5, out[3].Close)
}
