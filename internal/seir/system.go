package seir

import (
	"github.com/san-kum/adaptsim/internal/dynamo"
	"github.com/san-kum/adaptsim/internal/modulation"
)

// System is the right-hand side of the model for one parameter set. Derive
// returns a buffer that is overwritten on the next call, so a System must
// not be shared between goroutines.
type System struct {
	p        Params
	layout   Layout
	stimulus modulation.Modulator
	recovery modulation.Modulator
	relapse  modulation.Modulator
	dy       dynamo.State
}

// NewSystem builds the derivative function. Nil recovery or relapse
// modulators default to a constant 1.
func NewSystem(p Params, stimulus, recovery, relapse modulation.Modulator) *System {
	l := NewLayout(p.K)
	return &System{
		p:        p,
		layout:   l,
		stimulus: stimulus,
		recovery: modulation.OrOne(recovery),
		relapse:  modulation.OrOne(relapse),
		dy:       make(dynamo.State, l.Dim),
	}
}

func (s *System) StateDim() int { return s.layout.Dim }

func (s *System) Layout() Layout { return s.layout }

func (s *System) Derive(y dynamo.State, t float64) dynamo.State {
	p := &s.p
	l := s.layout
	dy := s.dy

	S := y[offsetS]
	I := y[l.I]
	M := y[l.M]

	lam := p.Beta * s.stimulus.At(t)
	gamma := p.Gamma * s.recovery.At(t)
	phi := p.Phi * s.relapse.At(t)

	dy[offsetS] = -lam*S + phi*I

	// Erlang chain: each stage feeds the next at rate alpha.
	dy[l.E] = lam*S - p.Alpha*y[l.E]
	for i := 1; i < l.K; i++ {
		dy[l.E+i] = p.Alpha*y[l.E+i-1] - p.Alpha*y[l.E+i]
	}

	// Only the non-relapsing share of the adaptation outflow reaches R.
	dR := gamma * (1.0 - phi) * I
	dy[l.I] = p.Alpha*y[l.E+l.K-1] - dR - phi*I
	dy[l.R] = dR
	dy[l.M] = p.RGain*dR - p.RLoss*(M-p.M0)

	return dy
}
