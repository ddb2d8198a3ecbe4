package series

import "math"

// Window is a fixed-size trailing window. Sum, Mean and Variance are
// recomputed from the buffered values oldest first, so a window always
// yields the same result as summing its values directly.
// Missing values occupy a slot but do not contribute to Sum or Count.
type Window struct {
	size  int
	buf   []float64 // circular buffer
	idx   int       // next write position
	seen  int       // total values pushed
	count int       // finite values currently in the window
}

// NewWindow creates a window holding the last size values; size < 1 is
// clamped to 1.
func NewWindow(size int) *Window {
	if size < 1 {
		size = 1
	}
	return &Window{size: size, buf: make([]float64, size)}
}

// Push appends x, evicting the oldest value once the window is full.
func (w *Window) Push(x float64) {
	if w.seen >= w.size && finite(w.buf[w.idx]) {
		w.count--
	}
	w.buf[w.idx] = x
	if finite(x) {
		w.count++
	}
	w.idx = (w.idx + 1) % w.size
	w.seen++
}

// Full reports whether size values have been pushed.
func (w *Window) Full() bool { return w.seen >= w.size }

// Size returns the window length.
func (w *Window) Size() int { return w.size }

// Count returns the number of finite values in the window.
func (w *Window) Count() int { return w.count }

// each calls f with the finite values in the window, oldest first.
func (w *Window) each(f func(float64)) {
	n, start := w.seen, 0
	if n >= w.size {
		n, start = w.size, w.idx
	}
	for i := 0; i < n; i++ {
		if x := w.buf[(start+i)%w.size]; finite(x) {
			f(x)
		}
	}
}

// Sum returns the sum of the finite values in the window.
func (w *Window) Sum() float64 {
	sum := 0.0
	w.each(func(x float64) { sum += x })
	return sum
}

// Mean returns Sum/Count, or NaN when the window holds no finite value.
func (w *Window) Mean() float64 {
	if w.count == 0 {
		return math.NaN()
	}
	return w.Sum() / float64(w.count)
}

// Variance returns the population variance of the finite values in the
// window.
func (w *Window) Variance() float64 {
	if w.count == 0 {
		return math.NaN()
	}
	mean := w.Mean()
	ss := 0.0
	w.each(func(x float64) {
		d := x - mean
		ss += d * d
	})
	return ss / float64(w.count)
}

// Values returns the window contents oldest first.
func (w *Window) Values() []float64 {
	n := w.seen
	if n > w.size {
		n = w.size
	}
	out := make([]float64, 0, n)
	start := 0
	if w.seen >= w.size {
		start = w.idx
	}
	for i := 0; i < n; i++ {
		out = append(out, w.buf[(start+i)%w.size])
	}
	return out
}

// TrailingSum returns, for every index i >= window-1, the sum of the finite
// values in xs[i-window+1 : i+1]. Indices before that are NaN, as are
// windows without a finite value. The result has len(xs).
func TrailingSum(xs []float64, window int) []float64 {
	return trailing(xs, window, func(w *Window) float64 {
		if w.Count() == 0 {
			return math.NaN()
		}
		return w.Sum()
	})
}

// TrailingMean is TrailingSum divided by the number of finite values in
// each window.
func TrailingMean(xs []float64, window int) []float64 {
	return trailing(xs, window, (*Window).Mean)
}

func trailing(xs []float64, window int, f func(*Window) float64) []float64 {
	w := NewWindow(window)
	out := make([]float64, len(xs))
	for i, x := range xs {
		w.Push(x)
		if !w.Full() {
			out[i] = math.NaN()
			continue
		}
		out[i] = f(w)
	}
	return out
}

// CenteredMean averages xs over a window of length window positioned at
// i-window/2. A point is defined only when the whole window lies inside xs
// and every value in it is finite; otherwise it is NaN.
func CenteredMean(xs []float64, window int) []float64 {
	n := len(xs)
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	if window < 1 {
		return out
	}
	half := window / 2
	for i := 0; i < n; i++ {
		start := i - half
		end := start + window
		if start < 0 || end > n {
			continue
		}
		sum, count := 0.0, 0
		for j := start; j < end; j++ {
			if finite(xs[j]) {
				sum += xs[j]
				count++
			}
		}
		if count == window {
			out[i] = sum / float64(count)
		}
	}
	return out
}
