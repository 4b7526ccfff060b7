package modulation

import (
	"fmt"
	"math"
	"sort"
)

// Breakpoint starts holding Value at time Start.
type Breakpoint struct {
	Start float64 `yaml:"start" json:"start"`
	Value float64 `yaml:"value" json:"value"`
}

// Schedule is a piecewise-constant modulator. Each breakpoint's value holds
// until the next breakpoint; times before the first breakpoint take the first
// value and times after the last hold the last value indefinitely.
type Schedule struct {
	points []Breakpoint
}

// NewSchedule validates that points is non-empty and strictly ascending in
// Start. Breakpoints are never reordered.
func NewSchedule(points ...Breakpoint) (*Schedule, error) {
	if len(points) == 0 {
		return nil, ErrEmptySchedule
	}
	for i := 1; i < len(points); i++ {
		if !(points[i].Start > points[i-1].Start) {
			return nil, fmt.Errorf("%w: breakpoint %d at t=%g follows t=%g",
				ErrUnorderedSchedule, i, points[i].Start, points[i-1].Start)
		}
	}
	cp := make([]Breakpoint, len(points))
	copy(cp, points)
	return &Schedule{points: cp}, nil
}

// MustSchedule is NewSchedule for fixed tables; it panics on invalid input.
func MustSchedule(points ...Breakpoint) *Schedule {
	s, err := NewSchedule(points...)
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Schedule) At(t float64) float64 {
	if math.IsNaN(t) {
		return s.points[0].Value
	}
	// first breakpoint strictly after t
	i := sort.Search(len(s.points), func(i int) bool { return s.points[i].Start > t })
	if i == 0 {
		return s.points[0].Value
	}
	return s.points[i-1].Value
}

// Breakpoints returns a copy of the schedule table.
func (s *Schedule) Breakpoints() []Breakpoint {
	cp := make([]Breakpoint, len(s.points))
	copy(cp, s.points)
	return cp
}
