package seir

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/adaptsim/internal/dynamo"
	"github.com/san-kum/adaptsim/internal/integrators"
	"github.com/san-kum/adaptsim/internal/modulation"
)

// ErrNoStimulus indicates an engine built without a stimulus modulator.
var ErrNoStimulus = errors.New("seir: stimulus modulator is required")

// cancelCheckEvery is how many steps pass between context checks.
const cancelCheckEvery = 64

// Engine integrates the model for a fixed parameter set and modulators.
// It holds no mutable state; Simulate may be called concurrently.
type Engine struct {
	params   Params
	stimulus modulation.Modulator
	recovery modulation.Modulator
	relapse  modulation.Modulator
}

// NewEngine validates p and returns an engine. Nil recovery or relapse
// modulators default to a constant 1.
func NewEngine(p Params, stimulus, recovery, relapse modulation.Modulator) (*Engine, error) {
	if stimulus == nil {
		return nil, ErrNoStimulus
	}
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &Engine{
		params:   p,
		stimulus: stimulus,
		recovery: modulation.OrOne(recovery),
		relapse:  modulation.OrOne(relapse),
	}, nil
}

func (e *Engine) Params() Params { return e.params }

func (e *Engine) Layout() Layout { return NewLayout(e.params.K) }

// System returns a fresh derivative function for this engine's
// configuration.
func (e *Engine) System() *System {
	return NewSystem(e.params, e.stimulus, e.recovery, e.relapse)
}

// Simulate runs fixed-step RK4 from t=0 to t_max. The state is recorded
// before each advance, so row 0 is the initial condition. A nil init uses
// Params.DefaultInitial.
func (e *Engine) Simulate(ctx context.Context, init *Initial) (*Output, error) {
	p := e.params
	start := p.DefaultInitial()
	if init != nil {
		start = *init
	}

	sys := e.System()
	integ := integrators.NewRK4()
	layout := sys.Layout()

	cfg := p.Config()
	grid := cfg.TimeGrid()
	out := newOutput(p, grid)

	y := layout.Pack(start)
	last := len(grid) - 1
	for i, t := range grid {
		if i%cancelCheckEvery == 0 {
			select {
			case <-ctx.Done():
				return nil, &dynamo.SimulationError{
					Step:    i,
					Time:    t,
					Wrapped: fmt.Errorf("%w: %w", dynamo.ErrContextCanceled, ctx.Err()),
				}
			default:
			}
		}

		out.record(i, layout, y)
		if i < last {
			y = integ.Step(sys, y, t, cfg.Dt)
		}
	}

	return out, nil
}
