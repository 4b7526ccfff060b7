package seir

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/san-kum/adaptsim/internal/dynamo"
)

// Output is the trajectory of one simulation. Every series is aligned by
// index with T; E is steps × k. It is not modified after Simulate returns.
type Output struct {
	Params Params
	T      []float64
	S      []float64
	E      [][]float64
	I      []float64
	R      []float64
	M      []float64
}

func newOutput(p Params, grid []float64) *Output {
	n := len(grid)
	backing := make([]float64, n*p.K)
	e := make([][]float64, n)
	for i := range e {
		e[i] = backing[i*p.K : (i+1)*p.K : (i+1)*p.K]
	}
	return &Output{
		Params: p,
		T:      grid,
		S:      make([]float64, n),
		E:      e,
		I:      make([]float64, n),
		R:      make([]float64, n),
		M:      make([]float64, n),
	}
}

func (o *Output) record(i int, l Layout, y dynamo.State) {
	o.S[i] = y[offsetS]
	copy(o.E[i], l.Delay(y))
	o.I[i] = y[l.I]
	o.R[i] = y[l.R]
	o.M[i] = y[l.M]
}

// Len is the number of samples.
func (o *Output) Len() int { return len(o.T) }

// K is the delay-chain order of the run.
func (o *Output) K() int { return o.Params.K }

// Row reassembles the state vector of sample i.
func (o *Output) Row(i int) dynamo.State {
	l := NewLayout(o.K())
	y := l.Pack(Initial{S: o.S[i], I: o.I[i], R: o.R[i], M: o.M[i]})
	copy(l.Delay(y), o.E[i])
	return y
}

// FirstNonFinite returns the first sample holding a NaN or Inf component,
// or -1 when the whole run is finite.
func (o *Output) FirstNonFinite() int {
	for i := range o.T {
		if !o.Row(i).IsValid() {
			return i
		}
	}
	return -1
}

// Totals returns S + ΣE + I + R per sample.
func (o *Output) Totals() []float64 {
	tot := make([]float64, o.Len())
	for i := range tot {
		sum := o.S[i]
		for _, e := range o.E[i] {
			sum += e
		}
		tot[i] = sum + o.I[i] + o.R[i]
	}
	return tot
}

// Columns names the flat columns of a row: t, S, E1..Ek, I, R, M.
func (o *Output) Columns() []string {
	cols := make([]string, 0, o.K()+5)
	cols = append(cols, "t", "S")
	for j := 1; j <= o.K(); j++ {
		cols = append(cols, "E"+strconv.Itoa(j))
	}
	return append(cols, "I", "R", "M")
}

// Series returns a column by name. Besides the Columns names it accepts "E"
// for the summed delay chain.
func (o *Output) Series(name string) ([]float64, error) {
	switch name {
	case "t":
		return o.T, nil
	case "S":
		return o.S, nil
	case "I":
		return o.I, nil
	case "R":
		return o.R, nil
	case "M":
		return o.M, nil
	case "E":
		sum := make([]float64, o.Len())
		for i, row := range o.E {
			for _, e := range row {
				sum[i] += e
			}
		}
		return sum, nil
	}
	if rest, ok := strings.CutPrefix(name, "E"); ok {
		j, err := strconv.Atoi(rest)
		if err == nil && j >= 1 && j <= o.K() {
			col := make([]float64, o.Len())
			for i, row := range o.E {
				col[i] = row[j-1]
			}
			return col, nil
		}
	}
	return nil, fmt.Errorf("seir: unknown series %q", name)
}

// Final is the last sample of a series. An Output always holds at least
// one sample.
func (o *Output) Final(name string) (float64, error) {
	s, err := o.Series(name)
	if err != nil {
		return 0, err
	}
	return s[len(s)-1], nil
}
