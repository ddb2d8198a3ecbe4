// Package pipeline wires the computation packages together for the CLI:
// bar reconstruction, indicator evaluation aligned to the base index,
// preprocessing and decomposition of the close line.
package pipeline

import (
	"fmt"
	"math"

	"github.com/rustyeddy/chartcalc/align"
	"github.com/rustyeddy/chartcalc/config"
	"github.com/rustyeddy/chartcalc/decompose"
	"github.com/rustyeddy/chartcalc/indicators"
	"github.com/rustyeddy/chartcalc/market"
	"github.com/rustyeddy/chartcalc/preprocess"
	"github.com/rustyeddy/chartcalc/synthetic"
)

// Output is a named series with one point per base bar.
type Output struct {
	Name   string
	Series market.Series
}

// Bars rebuilds bars in the configured synthetic mode, then applies the
// Heikin-Ashi transform when it is switched on.
func Bars(bars []market.Bar, sc config.SyntheticConfig, tf market.Timeframe) ([]market.Bar, synthetic.Mode, error) {
	mode, err := synthetic.ParseMode(sc.Mode)
	if err != nil {
		return nil, "", err
	}
	out, err := synthetic.Build(mode, bars, sc.Size(mode), tf)
	if err != nil {
		return nil, mode, err
	}
	if sc.HeikinAshi && mode != synthetic.ModeHeikinAshi {
		out = synthetic.HeikinAshi(out)
	}
	return out, mode, nil
}

// collector aligns outputs onto the base times.
type collector struct {
	times []market.Timestamp
	out   []Output
}

func (c *collector) right(name string, s market.Series) {
	c.add(name, align.MapToBase(len(c.times), s))
}

func (c *collector) prefix(name string, s market.Series) {
	c.add(name, align.MapPrefixToBase(len(c.times), s))
}

func (c *collector) slots(name string, slots []align.Slot) {
	vals := make([]float64, len(slots))
	for i, s := range slots {
		vals[i] = math.NaN()
		if s.Valid {
			vals[i] = s.Value
		}
	}
	c.add(name, vals)
}

func (c *collector) add(name string, vals []float64) {
	c.out = append(c.out, Output{Name: name, Series: market.FromValues(c.times, vals)})
}

// Indicators evaluates every enabled indicator on bars and returns the
// outputs in a fixed order, each aligned to the bar index.
func Indicators(bars []market.Bar, ic config.IndicatorConfig) []Output {
	closes := market.Closes(bars)
	c := &collector{times: closes.Times()}
	n := len(bars)

	if ic.IsEnabled("ema") {
		for _, l := range ic.EMA {
			c.right(fmt.Sprintf("ema_%d", l), indicators.EMA(closes, l))
		}
	}
	if ic.IsEnabled("sma") {
		c.right(fmt.Sprintf("sma_%d", ic.SMA), indicators.SMA(closes, ic.SMA))
	}
	if ic.IsEnabled("bollinger") {
		bb := indicators.Bollinger(closes, ic.Bollinger.Length, ic.Bollinger.Mult)
		c.right("bb_upper", bb.Upper)
		c.right("bb_middle", bb.Middle)
		c.right("bb_lower", bb.Lower)
	}
	if ic.IsEnabled("donchian") {
		dc := indicators.Donchian(bars, ic.Donchian)
		c.right("donchian_upper", dc.Upper)
		c.right("donchian_middle", dc.Middle)
		c.right("donchian_lower", dc.Lower)
	}
	if ic.IsEnabled("keltner") {
		kc := indicators.Keltner(bars, ic.Keltner.MALength, ic.Keltner.ATRLength, ic.Keltner.Mult)
		c.right("keltner_basis", kc.Basis)
		c.right("keltner_upper", kc.Upper)
		c.right("keltner_lower", kc.Lower)
	}
	if ic.IsEnabled("rsi") {
		c.right(fmt.Sprintf("rsi_%d", ic.RSI), indicators.RSI(closes, ic.RSI))
	}
	if ic.IsEnabled("stochastic") {
		st := indicators.Stochastic(bars, ic.Stochastic.Length, ic.Stochastic.Smoothing)
		c.right("stoch_k", st.K)
		c.right("stoch_d", st.D)
	}
	if ic.IsEnabled("kdj") {
		kdj := indicators.KDJ(bars, ic.Stochastic.Length, ic.Stochastic.Smoothing)
		c.right("kdj_k", kdj.K)
		c.right("kdj_d", kdj.D)
		c.right("kdj_j", kdj.J)
	}
	if ic.IsEnabled("williams_r") {
		c.right(fmt.Sprintf("williams_r_%d", ic.WilliamsR), indicators.WilliamsR(bars, ic.WilliamsR))
	}
	if ic.IsEnabled("cci") {
		c.right(fmt.Sprintf("cci_%d", ic.CCI), indicators.CCI(bars, ic.CCI))
	}
	if ic.IsEnabled("momentum") {
		c.right(fmt.Sprintf("momentum_%d", ic.Momentum), indicators.Momentum(closes, ic.Momentum))
	}
	if ic.IsEnabled("roc") {
		c.right(fmt.Sprintf("roc_%d", ic.ROC), indicators.ROC(closes, ic.ROC))
	}
	if ic.IsEnabled("bias") {
		c.right(fmt.Sprintf("bias_%d", ic.BIAS), indicators.BIAS(closes, ic.BIAS))
	}
	if ic.IsEnabled("dma") {
		c.right("dma", indicators.DMA(closes, ic.DMA.Fast, ic.DMA.Slow))
	}
	if ic.IsEnabled("trix") {
		tr := indicators.TRIX(closes, ic.TRIX.Length, ic.TRIX.Signal)
		c.right("trix", tr.TRIX)
		c.right("trix_signal", tr.Signal)
	}
	if ic.IsEnabled("macd") {
		m := indicators.MACD(closes, ic.MACD.Fast, ic.MACD.Slow, ic.MACD.Signal)
		c.right("macd", m.MACD)
		c.right("macd_signal", m.Signal)
		c.slots("macd_hist", align.MapHistToBase(n, m.Hist))
	}
	if ic.IsEnabled("atr") {
		c.right(fmt.Sprintf("atr_%d", ic.ATR), indicators.ATR(bars, ic.ATR))
	}
	if ic.IsEnabled("atr_percent") {
		c.right(fmt.Sprintf("atr_pct_%d", ic.ATR), indicators.ATRPercent(bars, ic.ATR))
	}
	if ic.IsEnabled("adx") {
		adx := indicators.ADX(bars, ic.ADX)
		c.right("adx", adx.ADX)
		c.right("plus_di", adx.PlusDI)
		c.right("minus_di", adx.MinusDI)
	}
	if ic.IsEnabled("psar") {
		c.right("psar", indicators.ParabolicSAR(bars, ic.PSAR.Step, ic.PSAR.MaxStep))
	}
	if ic.IsEnabled("ichimoku") {
		ich := indicators.Ichimoku(bars, ic.Ichimoku)
		c.right("ichimoku_tenkan", ich.Tenkan)
		c.right("ichimoku_kijun", ich.Kijun)
		c.right("ichimoku_span_a", ich.SpanA)
		c.right("ichimoku_span_b", ich.SpanB)
		c.prefix("ichimoku_chikou", ich.Chikou)
	}
	if ic.IsEnabled("vwap") {
		c.right("vwap", indicators.VWAP(bars))
	}
	if ic.IsEnabled("obv") {
		c.right("obv", indicators.OBV(bars))
	}
	if ic.IsEnabled("vr") {
		c.right(fmt.Sprintf("vr_%d", ic.VR), indicators.VR(bars, ic.VR))
	}
	if ic.IsEnabled("volume") {
		c.slots("volume", align.MapVolumeToBase(n, indicators.Volume(bars)))
	}
	return c.out
}

// Preprocess runs the cleaning pipeline over the close line.
func Preprocess(bars []market.Bar, cfg preprocess.Config) market.Series {
	return preprocess.Apply(market.Closes(bars), cfg)
}

// Decompose splits the close line. A season length of 0 selects one week
// of bars for the timeframe.
func Decompose(line market.Series, cfg decompose.Config, tf market.Timeframe) decompose.Result {
	if cfg.SeasonLength == 0 {
		cfg.SeasonLength = decompose.DefaultSeasonLength(tf)
	}
	return decompose.Compute(line, cfg)
}

// Components returns the decomposition as named outputs.
func Components(r decompose.Result) []Output {
	return []Output{
		{Name: "trend", Series: r.Trend},
		{Name: "seasonal", Series: r.Seasonal},
		{Name: "residual", Series: r.Residual},
	}
}
