package sweep

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/san-kum/adaptsim/internal/dynamo"
	"github.com/san-kum/adaptsim/internal/scenario"
	"github.com/san-kum/adaptsim/internal/seir"
)

func shortParams() seir.Params {
	p := seir.DefaultParams()
	p.TMax = 30
	return p
}

func TestLinspace(t *testing.T) {
	tests := []struct {
		lo, hi float64
		n      int
		want   []float64
	}{
		{0, 1, 0, nil},
		{0.2, 0.9, 1, []float64{0.2}},
		{0, 1, 5, []float64{0, 0.25, 0.5, 0.75, 1}},
	}

	for _, tt := range tests {
		got := Linspace(tt.lo, tt.hi, tt.n)
		if len(got) != len(tt.want) {
			t.Fatalf("Linspace(%v, %v, %d): expected %d values, got %d", tt.lo, tt.hi, tt.n, len(tt.want), len(got))
		}
		for i := range got {
			if math.Abs(got[i]-tt.want[i]) > 1e-12 {
				t.Errorf("Linspace(%v, %v, %d)[%d]: expected %v, got %v", tt.lo, tt.hi, tt.n, i, tt.want[i], got[i])
			}
		}
	}
}

func TestDefaultSpec(t *testing.T) {
	s := DefaultSpec()
	if len(s.Values1) != 20 || len(s.Values2) != 18 {
		t.Errorf("expected 20x18 grid, got %dx%d", len(s.Values1), len(s.Values2))
	}
	if math.Abs(s.Values1[19]-0.9) > 1e-12 || math.Abs(s.Values2[17]-0.30) > 1e-12 {
		t.Errorf("expected axes to end at 0.9 and 0.30, got %v and %v", s.Values1[19], s.Values2[17])
	}
}

func TestRunMatchesBaseline(t *testing.T) {
	base := shortParams()
	spec := Spec{
		Param1:  "beta",
		Param2:  "phi",
		Values1: []float64{0.3, 0.6},
		Values2: []float64{0.05, 0.1, 0.2},
		Workers: 4,
	}

	g, err := Run(context.Background(), base, spec)
	if err != nil {
		t.Fatal(err)
	}

	rows, cols := g.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("expected 2x3 grid, got %dx%d", rows, cols)
	}

	for i, beta := range spec.Values1 {
		for j, phi := range spec.Values2 {
			p := base
			p.Beta, p.Phi = beta, phi
			out, err := scenario.Baseline(context.Background(), &p)
			if err != nil {
				t.Fatal(err)
			}
			want := out.M[out.Len()-1]
			if got := g.At(i, j); got != want {
				t.Errorf("cell (%d,%d): expected %v, got %v", i, j, want, got)
			}
		}
	}
}

func TestRunParallelMatchesSequential(t *testing.T) {
	base := shortParams()
	spec := Spec{
		Param1:  "gamma",
		Param2:  "alpha",
		Values1: Linspace(0.1, 0.5, 4),
		Values2: Linspace(0.1, 0.3, 5),
	}

	spec.Workers = 1
	seq, err := Run(context.Background(), base, spec)
	if err != nil {
		t.Fatal(err)
	}
	spec.Workers = 8
	par, err := Run(context.Background(), base, spec)
	if err != nil {
		t.Fatal(err)
	}

	a, b := seq.Cells(), par.Cells()
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("cell %d: expected %v, got %v", i, a[i], b[i])
		}
	}
}

func TestRunDoesNotMutateBase(t *testing.T) {
	base := shortParams()
	before := base
	spec := Spec{Param1: "beta", Param2: "phi", Values1: []float64{0.9}, Values2: []float64{0.3}}
	if _, err := Run(context.Background(), base, spec); err != nil {
		t.Fatal(err)
	}
	if base != before {
		t.Errorf("expected base params unchanged, got %+v", base)
	}
}

func TestRunRejects(t *testing.T) {
	base := shortParams()
	tests := []struct {
		name string
		spec Spec
		want error
	}{
		{"empty rows", Spec{Param1: "beta", Param2: "phi", Values2: []float64{0.1}}, ErrEmptyAxis},
		{"empty cols", Spec{Param1: "beta", Param2: "phi", Values1: []float64{0.1}}, ErrEmptyAxis},
		{"unknown param", Spec{Param1: "zeta", Param2: "phi", Values1: []float64{1}, Values2: []float64{0.1}}, seir.ErrUnknownParam},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(context.Background(), base, tt.spec)
			if !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	spec := Spec{Param1: "beta", Param2: "phi", Values1: []float64{0.5}, Values2: []float64{0.1}}
	_, err := Run(ctx, shortParams(), spec)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewGrid(t *testing.T) {
	g, err := NewGrid("beta", "phi", []float64{1, 2}, []float64{3, 4}, []float64{1, 2, 3, 4})
	if err != nil {
		t.Fatal(err)
	}
	if g.At(1, 0) != 3 {
		t.Errorf("expected row-major layout, got %v at (1,0)", g.At(1, 0))
	}
	lo, hi := g.Range()
	if lo != 1 || hi != 4 {
		t.Errorf("expected range [1,4], got [%v,%v]", lo, hi)
	}

	if _, err := NewGrid("beta", "phi", []float64{1}, []float64{2}, []float64{1, 2}); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}
