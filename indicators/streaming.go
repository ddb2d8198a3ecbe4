package indicators

import (
	"fmt"
	"math"

	"github.com/rustyeddy/chartcalc/market"
)

// seed accumulates the plain average that starts a recursive indicator.
// It consumes exactly length positions; missing values take a position but
// add nothing to the average.
type seed struct {
	length int
	n      int
	sum    float64
	count  int
}

func (s *seed) push(x float64) (mean float64, done bool) {
	s.n++
	if finite(x) {
		s.sum += x
		s.count++
	}
	if s.n < s.length || s.count == 0 {
		return 0, false
	}
	return s.sum / float64(s.count), true
}

// EMAState is a streaming exponential moving average with k = 2/(L+1),
// seeded by the simple average of the first L inputs.
type EMAState struct {
	Length int

	k     float64
	seed  seed
	value float64
	ready bool
}

// NewEMAState creates an EMA state; length < 1 is clamped to 1.
func NewEMAState(length int) *EMAState {
	length = clampLen(length)
	return &EMAState{
		Length: length,
		k:      2.0 / float64(length+1),
		seed:   seed{length: length},
	}
}

func (e *EMAState) Name() string { return fmt.Sprintf("EMA(%d)", e.Length) }
func (e *EMAState) Warmup() int  { return e.Length }
func (e *EMAState) Ready() bool  { return e.ready }

func (e *EMAState) Reset() {
	e.seed = seed{length: e.Length}
	e.value = 0
	e.ready = false
}

func (e *EMAState) Value() float64 {
	if !e.ready {
		return math.NaN()
	}
	return e.value
}

func (e *EMAState) Update(x float64) (float64, bool) {
	if !e.ready {
		mean, done := e.seed.push(x)
		if !done {
			return math.NaN(), false
		}
		e.value = mean
		e.ready = true
		return e.value, true
	}
	if !finite(x) {
		return math.NaN(), false
	}
	e.value = (x-e.value)*e.k + e.value
	return e.value, true
}

// WilderState applies Wilder smoothing ((prev*(L-1))+x)/L after a plain
// average seed of the first L inputs. RSI, ATR and ADX are built on it.
type WilderState struct {
	Length int

	seed  seed
	value float64
	ready bool
}

// NewWilderState creates a Wilder smoother; length < 1 is clamped to 1.
func NewWilderState(length int) *WilderState {
	length = clampLen(length)
	return &WilderState{Length: length, seed: seed{length: length}}
}

func (w *WilderState) Name() string { return fmt.Sprintf("Wilder(%d)", w.Length) }
func (w *WilderState) Warmup() int  { return w.Length }
func (w *WilderState) Ready() bool  { return w.ready }

func (w *WilderState) Reset() {
	w.seed = seed{length: w.Length}
	w.value = 0
	w.ready = false
}

func (w *WilderState) Value() float64 {
	if !w.ready {
		return math.NaN()
	}
	return w.value
}

func (w *WilderState) Update(x float64) (float64, bool) {
	if !w.ready {
		mean, done := w.seed.push(x)
		if !done {
			return math.NaN(), false
		}
		w.value = mean
		w.ready = true
		return w.value, true
	}
	if !finite(x) {
		return math.NaN(), false
	}
	w.value = (w.value*float64(w.Length-1) + x) / float64(w.Length)
	return w.value, true
}

// SARState is the Parabolic SAR state machine. It is threaded through bars
// in order; the first bar only primes it.
type SARState struct {
	Step    float64
	MaxStep float64

	n     int
	long  bool
	af    float64
	ep    float64
	sar   float64
	prev  market.Bar
	prev2 market.Bar
}

// NewSARState creates a SAR state. Non-positive step or maxStep fall back
// to 0.02 and 0.2; maxStep is never below step.
func NewSARState(step, maxStep float64) *SARState {
	if !(step > 0) {
		step = 0.02
	}
	if !(maxStep > 0) {
		maxStep = 0.2
	}
	if maxStep < step {
		maxStep = step
	}
	return &SARState{Step: step, MaxStep: maxStep}
}

func (s *SARState) Name() string { return fmt.Sprintf("SAR(%g,%g)", s.Step, s.MaxStep) }
func (s *SARState) Warmup() int  { return 2 }
func (s *SARState) Ready() bool  { return s.n >= 2 }

func (s *SARState) Reset() {
	*s = SARState{Step: s.Step, MaxStep: s.MaxStep}
}

// Long reports the current trend direction.
func (s *SARState) Long() bool { return s.long }

func (s *SARState) Value() float64 {
	if !s.Ready() {
		return math.NaN()
	}
	return s.sar
}

// Update consumes the next bar. Invalid bars are skipped without touching
// the state.
func (s *SARState) Update(b market.Bar) (float64, bool) {
	if !b.Valid() {
		return math.NaN(), false
	}
	switch s.n {
	case 0:
		s.prev = b
		s.n = 1
		return math.NaN(), false
	case 1:
		s.long = b.Close >= s.prev.Close
		s.af = s.Step
		if s.long {
			s.ep = b.High
			s.sar = s.prev.Low
		} else {
			s.ep = b.Low
			s.sar = s.prev.High
		}
	}

	s.sar += s.af * (s.ep - s.sar)

	// SAR may not penetrate the prior one or two bars.
	highLimit, lowLimit := s.prev.High, s.prev.Low
	if s.n > 1 {
		highLimit = math.Max(highLimit, s.prev2.High)
		lowLimit = math.Min(lowLimit, s.prev2.Low)
	}
	if s.long && s.sar > lowLimit {
		s.sar = lowLimit
	}
	if !s.long && s.sar < highLimit {
		s.sar = highLimit
	}

	if s.long {
		if b.Low < s.sar {
			s.long = false
			s.sar = s.ep
			s.ep = b.Low
			s.af = s.Step
		} else if b.High > s.ep {
			s.ep = b.High
			s.af = math.Min(s.af+s.Step, s.MaxStep)
		}
	} else {
		if b.High > s.sar {
			s.long = true
			s.sar = s.ep
			s.ep = b.High
			s.af = s.Step
		} else if b.Low < s.ep {
			s.ep = b.Low
			s.af = math.Min(s.af+s.Step, s.MaxStep)
		}
	}

	s.prev2, s.prev = s.prev, b
	s.n++
	return s.sar, true
}
