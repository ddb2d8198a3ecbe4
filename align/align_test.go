package align

import (
	"math"
	"testing"

	"github.com/rustyeddy/chartcalc/indicators"
	"github.com/rustyeddy/chartcalc/market"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pts(xs ...float64) market.Series {
	out := make(market.Series, len(xs))
	for i, x := range xs {
		out[i] = market.LinePoint{Time: market.Timestamp(i), Value: x}
	}
	return out
}

func assertNaNPrefix(t *testing.T, got []float64, k int) {
	t.Helper()
	for i := 0; i < k; i++ {
		assert.True(t, math.IsNaN(got[i]), "slot %d should be empty", i)
	}
}

func TestMapToBase(t *testing.T) {
	got := MapToBase(4, pts(100, 200))
	require.Len(t, got, 4)
	assertNaNPrefix(t, got, 2)
	assert.Equal(t, []float64{100, 200}, got[2:])

	same := MapToBase(3, pts(1, 2, 3))
	assert.Equal(t, []float64{1, 2, 3}, same)

	longer := MapToBase(2, pts(1, 2, 3))
	assert.Equal(t, []float64{2, 3}, longer)

	empty := MapToBase(3, nil)
	require.Len(t, empty, 3)
	assertNaNPrefix(t, empty, 3)

	assert.Empty(t, MapToBase(0, pts(1)))
}

func TestMapToBaseIndicatorOffsets(t *testing.T) {
	closes := make([]float64, 30)
	for i := range closes {
		closes[i] = float64(i + 1)
	}
	base := pts(closes...)

	sma := MapToBase(len(base), indicators.SMA(base, 5))
	require.Len(t, sma, 30)
	assertNaNPrefix(t, sma, 4)
	assert.InDelta(t, 3.0, sma[4], 1e-12)
	assert.InDelta(t, 28.0, sma[29], 1e-12)
}

func TestMapPrefixToBase(t *testing.T) {
	got := MapPrefixToBase(4, pts(7, 8))
	require.Len(t, got, 4)
	assert.Equal(t, []float64{7, 8}, got[:2])
	assert.True(t, math.IsNaN(got[2]))
	assert.True(t, math.IsNaN(got[3]))

	assert.Equal(t, []float64{1, 2}, MapPrefixToBase(2, pts(1, 2, 3)))
}

func TestMapHistToBase(t *testing.T) {
	hist := []market.HistPoint{{Time: 1, Value: -2, Up: false}, {Time: 2, Value: 3, Up: true}}
	got := MapHistToBase(3, hist)
	require.Len(t, got, 3)
	assert.False(t, got[0].Valid)
	assert.Equal(t, Slot{Value: -2, Up: false, Valid: true}, got[1])
	assert.Equal(t, Slot{Value: 3, Up: true, Valid: true}, got[2])

	assert.Empty(t, MapHistToBase(0, hist))
	for _, s := range MapHistToBase(2, nil) {
		assert.False(t, s.Valid)
	}
}

func TestMapVolumeToBase(t *testing.T) {
	vols := []market.HistPoint{{Value: 50, Up: true}, {Value: 100, Up: false}, {Value: 25, Up: true}}
	got := MapVolumeToBase(4, vols)
	require.Len(t, got, 4)
	assert.False(t, got[0].Valid)
	assert.InDelta(t, 0.1, got[1].Value, 1e-12)
	assert.InDelta(t, VolumeScale, got[2].Value, 1e-12)
	assert.InDelta(t, 0.05, got[3].Value, 1e-12)
	assert.True(t, got[3].Up)

	zero := MapVolumeToBase(2, []market.HistPoint{{Value: 0}, {Value: 0}})
	assert.Equal(t, 0.0, zero[0].Value)
	assert.True(t, zero[1].Valid)
}

// Renko bricks share sequence times, so only positional mapping is valid.
func TestRenkoAlignsPositionally(t *testing.T) {
	bricks := []market.Bar{
		{Time: 5, Open: 1, High: 2, Low: 1, Close: 2},
		{Time: 5, Open: 2, High: 3, Low: 2, Close: 3},
		{Time: 6, Open: 3, High: 4, Low: 3, Close: 4},
	}
	closes := market.Closes(bricks)
	mom := indicators.Momentum(closes, 1)
	got := MapToBase(len(bricks), mom)
	assert.True(t, math.IsNaN(got[0]))
	assert.Equal(t, []float64{1, 1}, got[1:])
}
