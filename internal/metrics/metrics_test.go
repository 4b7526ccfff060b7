package metrics

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/adaptsim/internal/modulation"
	"github.com/san-kum/adaptsim/internal/seir"
)

func TestTimeToPeak(t *testing.T) {
	times := []float64{0, 1, 2, 3, 4}

	tests := []struct {
		name     string
		x        []float64
		wantT    float64
		wantPeak float64
	}{
		{"interior", []float64{0, 2, 5, 1, 0}, 2, 5},
		{"first on ties", []float64{1, 3, 0, 3, 3}, 1, 3},
		{"monotone", []float64{0, 1, 2, 3, 4}, 4, 4},
		{"at start", []float64{9, 1, 2, 3, 4}, 0, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotT, gotPeak := TimeToPeak(tt.x, times)
			if gotT != tt.wantT || gotPeak != tt.wantPeak {
				t.Errorf("expected (%v, %v), got (%v, %v)", tt.wantT, tt.wantPeak, gotT, gotPeak)
			}
		})
	}

	if tp, p := TimeToPeak(nil, nil); !math.IsNaN(tp) || !math.IsNaN(p) {
		t.Errorf("expected NaN for empty input, got (%v, %v)", tp, p)
	}

	nan := math.NaN()
	if tp, p := TimeToPeak([]float64{1, 7, nan, 9, nan}, times); tp != 2 || !math.IsNaN(p) {
		t.Errorf("expected first NaN at t=2, got (%v, %v)", tp, p)
	}
	if tp, p := TimeToPeak([]float64{1, math.Inf(1), 3, 0, 0}, times); tp != 1 || !math.IsInf(p, 1) {
		t.Errorf("expected +Inf peak at t=1, got (%v, %v)", tp, p)
	}
}

func TestAUC(t *testing.T) {
	tests := []struct {
		name string
		y, t []float64
		want float64
	}{
		{"constant", []float64{2, 2, 2}, []float64{0, 1, 3}, 6},
		{"linear", []float64{0, 1, 2, 3}, []float64{0, 1, 2, 3}, 4.5},
		{"uneven grid", []float64{1, 3, 3}, []float64{0, 2, 2.5}, 5.5},
		{"single sample", []float64{7}, []float64{0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := AUC(tt.y, tt.t); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}

	if got := AUC([]float64{1, 2}, []float64{0}); !math.IsNaN(got) {
		t.Errorf("expected NaN for misaligned input, got %v", got)
	}
}

func TestComputeEndToEnd(t *testing.T) {
	p := seir.DefaultParams()
	e, err := seir.NewEngine(p, modulation.Stimulus(true), nil, nil)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	out, err := e.Simulate(context.Background(), nil)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	r := Compute(out, p.M0)

	if r.TPeakR < 0 || r.TPeakR > p.TMax {
		t.Errorf("t_peak_R %v outside [0, %v]", r.TPeakR, p.TMax)
	}
	if r.TPeakM < 0 || r.TPeakM > p.TMax {
		t.Errorf("t_peak_M %v outside [0, %v]", r.TPeakM, p.TMax)
	}
	if r.DeltaMFinal != out.M[out.Len()-1]-p.M0 {
		t.Errorf("expected deltaM_final = M[-1] - M0 exactly, got %v", r.DeltaMFinal)
	}

	nonNegative := true
	for _, v := range out.I {
		if v < 0 {
			nonNegative = false
		}
	}
	if nonNegative && r.AUCI < 0 {
		t.Errorf("expected AUC_I >= 0 for non-negative I, got %v", r.AUCI)
	}
	if r.PeakM < out.M[0] {
		t.Errorf("peak_M %v below initial mass %v", r.PeakM, out.M[0])
	}

	m := r.Map()
	vals := r.Values()
	if len(m) != len(Keys) || len(vals) != len(Keys) {
		t.Fatalf("expected %d keys, got map %d values %d", len(Keys), len(m), len(vals))
	}
	for i, k := range Keys {
		if m[k] != vals[i] {
			t.Errorf("key %s: map %v vs values %v", k, m[k], vals[i])
		}
	}
}
