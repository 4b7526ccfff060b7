package sweep

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/san-kum/adaptsim/internal/dynamo"
)

// Grid holds final M per (Values1[i], Values2[j]).
type Grid struct {
	Param1, Param2   string
	Values1, Values2 []float64

	data *mat.Dense
}

// NewGrid rebuilds a grid from row-major cell values.
func NewGrid(param1, param2 string, values1, values2, cells []float64) (*Grid, error) {
	if len(values1) == 0 || len(values2) == 0 {
		return nil, ErrEmptyAxis
	}
	if len(cells) != len(values1)*len(values2) {
		return nil, fmt.Errorf("%w: %d cells for a %dx%d grid", dynamo.ErrDimensionMismatch, len(cells), len(values1), len(values2))
	}
	return &Grid{
		Param1:  param1,
		Param2:  param2,
		Values1: values1,
		Values2: values2,
		data:    mat.NewDense(len(values1), len(values2), append([]float64(nil), cells...)),
	}, nil
}

func (g *Grid) Dims() (rows, cols int) { return g.data.Dims() }

func (g *Grid) At(i, j int) float64 { return g.data.At(i, j) }

func (g *Grid) Row(i int) []float64 { return mat.Row(nil, i, g.data) }

func (g *Grid) Matrix() mat.Matrix { return g.data }

// Cells returns the values in row-major order.
func (g *Grid) Cells() []float64 {
	r, c := g.Dims()
	out := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		out = append(out, g.Row(i)...)
	}
	return out
}

// Range returns the smallest and largest cell.
func (g *Grid) Range() (lo, hi float64) {
	cells := g.Cells()
	return floats.Min(cells), floats.Max(cells)
}
