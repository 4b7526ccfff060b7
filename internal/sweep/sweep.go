// Package sweep evaluates the final muscle stock over a two-parameter grid.
package sweep

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/adaptsim/internal/dynamo"
	"github.com/san-kum/adaptsim/internal/scenario"
	"github.com/san-kum/adaptsim/internal/seir"
)

var ErrEmptyAxis = errors.New("sweep: axis has no values")

// Spec names the two swept parameters and their values. Rows follow
// Values1, columns follow Values2.
type Spec struct {
	Param1  string    `yaml:"param1" json:"param1"`
	Param2  string    `yaml:"param2" json:"param2"`
	Values1 []float64 `yaml:"values1" json:"values1"`
	Values2 []float64 `yaml:"values2" json:"values2"`

	// Workers bounds cell parallelism; <= 0 uses GOMAXPROCS.
	Workers int `yaml:"workers" json:"workers"`
}

// DefaultSpec sweeps stimulus sensitivity against relapse rate.
func DefaultSpec() Spec {
	return Spec{
		Param1:  "beta",
		Param2:  "phi",
		Values1: Linspace(0.2, 0.9, 20),
		Values2: Linspace(0.02, 0.30, 18),
	}
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	return floats.Span(make([]float64, n), lo, hi)
}

func (s Spec) Validate(base seir.Params) error {
	if len(s.Values1) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyAxis, s.Param1)
	}
	if len(s.Values2) == 0 {
		return fmt.Errorf("%w: %s", ErrEmptyAxis, s.Param2)
	}
	if _, err := base.Get(s.Param1); err != nil {
		return err
	}
	if _, err := base.Get(s.Param2); err != nil {
		return err
	}
	return nil
}

type Sweeper struct {
	Builder *scenario.Builder
	Logger  *slog.Logger
}

func New(b *scenario.Builder, logger *slog.Logger) *Sweeper {
	if b == nil {
		b = scenario.NewBuilder()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Sweeper{Builder: b, Logger: logger}
}

// Run evaluates every cell as an independent baseline run of base with the
// two overrides applied. Cells run in parallel on private parameter copies;
// the grid is identical to a sequential evaluation.
func (s *Sweeper) Run(ctx context.Context, base seir.Params, spec Spec) (*Grid, error) {
	if err := spec.Validate(base); err != nil {
		return nil, err
	}

	rows, cols := len(spec.Values1), len(spec.Values2)
	n := rows * cols
	data := make([]float64, n)
	errs := make([]error, n)

	start := time.Now()
	dynamo.ParallelFor(n, spec.Workers, 1, func(lo, hi int) {
		for idx := lo; idx < hi; idx++ {
			if ctx.Err() != nil {
				errs[idx] = ctx.Err()
				continue
			}
			i, j := idx/cols, idx%cols
			data[idx], errs[idx] = s.cell(ctx, base, spec, i, j)
		}
	})

	for idx, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("cell (%d,%d): %w", idx/cols, idx%cols, err)
		}
	}

	s.Logger.Info("sweep finished",
		"param1", spec.Param1, "param2", spec.Param2,
		"cells", n, "elapsed", time.Since(start))

	return &Grid{
		Param1:  spec.Param1,
		Param2:  spec.Param2,
		Values1: append([]float64(nil), spec.Values1...),
		Values2: append([]float64(nil), spec.Values2...),
		data:    mat.NewDense(rows, cols, data),
	}, nil
}

func (s *Sweeper) cell(ctx context.Context, base seir.Params, spec Spec, i, j int) (float64, error) {
	p, err := base.With(spec.Param1, spec.Values1[i])
	if err != nil {
		return 0, err
	}
	p, err = p.With(spec.Param2, spec.Values2[j])
	if err != nil {
		return 0, err
	}

	e, err := s.Builder.BaselineEngine(p)
	if err != nil {
		return 0, err
	}
	out, err := e.Simulate(ctx, s.Builder.Initial)
	if err != nil {
		return 0, err
	}

	final := out.M[out.Len()-1]
	s.Logger.Debug("sweep cell",
		spec.Param1, spec.Values1[i], spec.Param2, spec.Values2[j], "M_final", final)
	return final, nil
}

// Run sweeps with the default scenario builder.
func Run(ctx context.Context, base seir.Params, spec Spec) (*Grid, error) {
	return New(nil, nil).Run(ctx, base, spec)
}
