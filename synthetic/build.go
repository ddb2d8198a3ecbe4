package synthetic

import (
	"fmt"
	"strings"

	"github.com/rustyeddy/chartcalc/market"
)

// Mode selects how bars are presented.
type Mode string

const (
	ModeCandles Mode = "candles"
	ModeRange   Mode = "range"
	ModeRenko   Mode = "renko"
	ModeKagi    Mode = "kagi"

	ModeHeikinAshi Mode = "heikin-ashi"
)

// ParseMode accepts the mode names case-insensitively; empty means candles.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeCandles, nil
	case "heikin", "heikin_ashi", "ha":
		return ModeHeikinAshi, nil
	case ModeCandles, ModeRange, ModeRenko, ModeKagi, ModeHeikinAshi:
		return m, nil
	default:
		return "", fmt.Errorf("unknown bar mode %q", s)
	}
}

// Build dispatches to the builder for mode. Candles mode returns a copy and
// Heikin-Ashi mode smooths the input candles.
func Build(mode Mode, bars []market.Bar, size float64, tf market.Timeframe) ([]market.Bar, error) {
	switch mode {
	case ModeCandles, "":
		return market.CloneBars(bars), nil
	case ModeRange:
		return RangeBars(bars, size, tf), nil
	case ModeRenko:
		return RenkoBricks(bars, size, tf), nil
	case ModeKagi:
		return KagiLines(bars, size, tf), nil
	case ModeHeikinAshi:
		return HeikinAshi(bars), nil
	default:
		return nil, fmt.Errorf("unknown bar mode %q", mode)
	}
}
