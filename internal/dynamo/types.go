package dynamo

import (
	"fmt"
	"math"
)

type State []float64

// IsValid reports whether every component is finite.
func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Sum adds the components in [from, to).
func (s State) Sum(from, to int) float64 {
	sum := 0.0
	for i := from; i < to; i++ {
		sum += s[i]
	}
	return sum
}

// System is an ODE right-hand side. Implementations may return a slice they
// reuse on the next call; integrators copy it before deriving again.
type System interface {
	Derive(x State, t float64) State
	StateDim() int
}

type Integrator interface {
	Step(sys System, x State, t float64, dt float64) State
}

type Config struct {
	Dt       float64
	Duration float64
}

// MaxSteps bounds the number of recorded samples of one run.
const MaxSteps = 1 << 26

// Validate rejects degenerate step sizes and horizons, and grids too large
// to allocate.
func (c Config) Validate() error {
	if !(c.Dt > 0) || math.IsInf(c.Dt, 1) {
		return fmt.Errorf("%w: dt must be positive and finite, got %g", ErrParameterBounds, c.Dt)
	}
	if !(c.Duration > 0) || math.IsInf(c.Duration, 1) {
		return fmt.Errorf("%w: duration must be positive and finite, got %g", ErrParameterBounds, c.Duration)
	}
	if n := c.Duration / c.Dt; !(n < MaxSteps) {
		return fmt.Errorf("%w: %g/%g exceeds %d steps", ErrParameterBounds, c.Duration, c.Dt, MaxSteps)
	}
	return nil
}

// Steps is the number of recorded samples, floor(duration/dt) + 1.
func (c Config) Steps() int {
	return int(c.Duration/c.Dt) + 1
}

// TimeGrid returns Steps() evenly spaced sample times from 0 to Duration
// inclusive. A single-sample grid is just {0}.
func (c Config) TimeGrid() []float64 {
	n := c.Steps()
	t := make([]float64, n)
	if n == 1 {
		return t
	}
	step := c.Duration / float64(n-1)
	for i := range t {
		t[i] = float64(i) * step
	}
	t[n-1] = c.Duration
	return t
}
