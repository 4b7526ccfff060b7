package modulation

import "math"

// Modulator maps simulation time to a rate multiplier.
type Modulator interface {
	At(t float64) float64
}

// Func adapts a plain function to a Modulator.
type Func func(t float64) float64

func (f Func) At(t float64) float64 { return f(t) }

// Constant is a flat multiplier.
type Constant float64

func (c Constant) At(float64) float64 { return float64(c) }

// One leaves a rate untouched.
var One Modulator = Constant(1)

// OrOne returns m, or One when m is nil.
func OrOne(m Modulator) Modulator {
	if m == nil {
		return One
	}
	return m
}

// Product multiplies its factors pointwise. An empty product is 1.
type Product []Modulator

func Multiply(factors ...Modulator) Product {
	return Product(factors)
}

func (p Product) At(t float64) float64 {
	v := 1.0
	for _, m := range p {
		v *= m.At(t)
	}
	return v
}

// Clamp limits Inner to [Lo, Hi]. NaN passes through.
type Clamp struct {
	Inner  Modulator
	Lo, Hi float64
}

func (c Clamp) At(t float64) float64 {
	return math.Min(math.Max(c.Inner.At(t), c.Lo), c.Hi)
}

// Window is Inside on the closed interval [Start, End] and Outside
// everywhere else.
type Window struct {
	Start, End      float64
	Inside, Outside float64
}

// NewWindow returns a window that is inside on [start, end] and 1.0 elsewhere.
func NewWindow(start, end, inside float64) (Window, error) {
	if end < start {
		return Window{}, ErrInvalidWindow
	}
	return Window{Start: start, End: end, Inside: inside, Outside: 1}, nil
}

func (w Window) At(t float64) float64 {
	if w.Start <= t && t <= w.End {
		return w.Inside
	}
	return w.Outside
}

// Sigmoid falls smoothly from 1 (t well before Midpoint) to Depth (t well
// after). Sharpness is the width of the transition in days.
type Sigmoid struct {
	Midpoint  float64
	Depth     float64
	Sharpness float64
}

func (s Sigmoid) At(t float64) float64 {
	return s.Depth + (1-s.Depth)/(1+math.Exp((t-s.Midpoint)/s.Sharpness))
}
