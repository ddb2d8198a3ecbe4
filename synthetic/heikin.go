package synthetic

import "github.com/rustyeddy/chartcalc/market"

// HeikinAshi smooths bars into Heikin-Ashi candles. The first valid bar
// seeds haOpen=(O+C)/2; after that haOpen is the midpoint of the previous
// Heikin-Ashi open and close. haClose is always (O+H+L+C)/4, and the high
// and low are widened to cover haOpen and haClose.
//
// Invalid bars are copied unchanged and do not move the state. Times and
// volumes are kept.
func HeikinAshi(bars []market.Bar) []market.Bar {
	out := make([]market.Bar, len(bars))
	seeded := false
	var prevOpen, prevClose float64
	for i, b := range bars {
		if !b.Valid() {
			out[i] = b
			continue
		}
		haClose := (b.Open + b.High + b.Low + b.Close) / 4
		haOpen := (b.Open + b.Close) / 2
		if seeded {
			haOpen = (prevOpen + prevClose) / 2
		}
		out[i] = market.Bar{
			Time:   b.Time,
			Open:   haOpen,
			High:   max(b.High, haOpen, haClose),
			Low:    min(b.Low, haOpen, haClose),
			Close:  haClose,
			Volume: b.Volume,
		}
		prevOpen, prevClose, seeded = haOpen, haClose, true
	}
	return out
}
