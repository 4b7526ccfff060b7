package seir

import "github.com/san-kum/adaptsim/internal/dynamo"

// Initial holds the starting stocks. Delay stages always start empty.
type Initial struct {
	S float64 `yaml:"s" json:"S"`
	I float64 `yaml:"i" json:"I"`
	R float64 `yaml:"r" json:"R"`
	M float64 `yaml:"m" json:"M"`
}

// Layout holds the offsets of each compartment in the flat state vector
// [S, E_1 … E_k, I, R, M].
type Layout struct {
	K   int
	E   int
	I   int
	R   int
	M   int
	Dim int
}

const offsetS = 0

func NewLayout(k int) Layout {
	return Layout{
		K:   k,
		E:   1,
		I:   1 + k,
		R:   2 + k,
		M:   3 + k,
		Dim: 4 + k,
	}
}

// Pack builds the initial state vector.
func (l Layout) Pack(init Initial) dynamo.State {
	y := make(dynamo.State, l.Dim)
	y[offsetS] = init.S
	y[l.I] = init.I
	y[l.R] = init.R
	y[l.M] = init.M
	return y
}

// Delay returns the E_1..E_k sub-slice of y without copying.
func (l Layout) Delay(y dynamo.State) dynamo.State {
	return y[l.E : l.E+l.K]
}

// Flow is S + ΣE + I + R, the quantity conserved when nothing leaks.
func (l Layout) Flow(y dynamo.State) float64 {
	return y.Sum(offsetS, l.R+1)
}
