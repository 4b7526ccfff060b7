package scenario

import (
	"context"
	"fmt"

	"github.com/san-kum/adaptsim/internal/seir"
)

// Scenario is a named way of wiring modulators into an engine.
type Scenario struct {
	Name        string
	Description string
	build       func(b *Builder, p seir.Params) (*seir.Engine, error)
}

var registry = []Scenario{
	{"baseline", "full program, no recovery or relapse modulation",
		func(b *Builder, p seir.Params) (*seir.Engine, error) { return b.BaselineEngine(p) }},
	{"no-delay", "baseline with a single fast delay stage (k=1, alpha=5)",
		func(b *Builder, p seir.Params) (*seir.Engine, error) { return b.NoDelayEngine(p) }},
	{"deload-on", "flat intensity with deload recovery boost and relapse suppression",
		func(b *Builder, p seir.Params) (*seir.Engine, error) { return b.DeloadEngine(p, true) }},
	{"deload-off", "flat intensity without deload effects",
		func(b *Builder, p seir.Params) (*seir.Engine, error) { return b.DeloadEngine(p, false) }},
	{"constant-stimulus", "flat load from adherence and block intensity, deload effects applied",
		func(b *Builder, p seir.Params) (*seir.Engine, error) { return b.ConstantEngine(p, b.ConstantLoadFor(p)) }},
	{"constant-high", "flat high load (0.95, 1.2, 1.0)",
		func(b *Builder, p seir.Params) (*seir.Engine, error) { return b.ConstantEngine(p, HighLoad) }},
	{"constant-low", "flat low load (0.60, 0.9, 0.9)",
		func(b *Builder, p seir.Params) (*seir.Engine, error) { return b.ConstantEngine(p, LowLoad) }},
	{"microlesion", "relapse pulse from microlesions",
		func(b *Builder, p seir.Params) (*seir.Engine, error) { return b.MicrolesionEngine(p) }},
	{"stagnation", "stimulus sensitivity fading over time",
		func(b *Builder, p seir.Params) (*seir.Engine, error) { return b.StagnationEngine(p) }},
}

// All returns the registered scenarios in display order.
func All() []Scenario {
	out := make([]Scenario, len(registry))
	copy(out, registry)
	return out
}

func Names() []string {
	names := make([]string, len(registry))
	for i, s := range registry {
		names[i] = s.Name
	}
	return names
}

func Lookup(name string) (Scenario, error) {
	for _, s := range registry {
		if s.Name == name {
			return s, nil
		}
	}
	return Scenario{}, fmt.Errorf("%w: %s", ErrUnknownScenario, name)
}

// Engine builds the engine of a named scenario.
func (b *Builder) Engine(name string, p seir.Params) (*seir.Engine, error) {
	s, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	return s.build(b, p)
}

// Run simulates a named scenario.
func (b *Builder) Run(ctx context.Context, name string, p *seir.Params) (*seir.Output, error) {
	e, err := b.Engine(name, resolve(p))
	if err != nil {
		return nil, err
	}
	out, err := e.Simulate(ctx, b.Initial)
	if err != nil {
		return nil, fmt.Errorf("scenario %s: %w", name, err)
	}
	return out, nil
}

func Run(ctx context.Context, name string, p *seir.Params) (*seir.Output, error) {
	return defaultBuilder.Run(ctx, name, p)
}
