// Package scenario composes modulators into the named experiments of the
// adaptation model and runs them.
//
// Every scenario takes an optional parameter set; nil means
// [seir.DefaultParams]. The parameter set is copied before use, so callers
// may reuse or mutate their value afterwards.
package scenario

import (
	"context"
	"errors"
	"fmt"

	"github.com/san-kum/adaptsim/internal/modulation"
	"github.com/san-kum/adaptsim/internal/seir"
)

// ErrUnknownScenario indicates a scenario name missing from the registry.
var ErrUnknownScenario = errors.New("scenario: unknown scenario")

// NoDelayAlpha is the per-stage rate used to collapse the delay chain to a
// near-memoryless single stage.
const NoDelayAlpha = 5.0

// ConstantLoad is a flat training stimulus.
type ConstantLoad struct {
	Adherence float64 `yaml:"adherence" json:"adherence"`
	Intensity float64 `yaml:"intensity" json:"intensity"`
	Protein   float64 `yaml:"protein" json:"protein"`
}

// Loads compared in the adherence experiment.
var (
	HighLoad = ConstantLoad{Adherence: 0.95, Intensity: 1.2, Protein: 1.0}
	LowLoad  = ConstantLoad{Adherence: 0.60, Intensity: 0.9, Protein: 0.9}
)

// Builder holds the modulation settings shared by all scenarios.
type Builder struct {
	Deload modulation.Deload
	Lesion modulation.Microlesion
	Decay  modulation.SensitivityDecay

	// Constant is the load of the constant-stimulus scenario. Nil takes
	// adherence and block intensity from the parameter set with sufficient
	// protein.
	Constant *ConstantLoad

	// Initial overrides the starting stocks of every run when set.
	Initial *seir.Initial
}

func NewBuilder() *Builder {
	return &Builder{
		Deload: modulation.DefaultDeload(),
		Lesion: modulation.DefaultMicrolesion(),
		Decay:  modulation.DefaultSensitivityDecay(),
	}
}

var defaultBuilder = NewBuilder()

func resolve(p *seir.Params) seir.Params {
	if p == nil {
		return seir.DefaultParams()
	}
	return *p
}

func (b *Builder) simulate(ctx context.Context, e *seir.Engine, err error) (*seir.Output, error) {
	if err != nil {
		return nil, err
	}
	return e.Simulate(ctx, b.Initial)
}

// BaselineEngine: full training program, no recovery or relapse modulation.
func (b *Builder) BaselineEngine(p seir.Params) (*seir.Engine, error) {
	return seir.NewEngine(p, modulation.Stimulus(true), nil, nil)
}

// NoDelayEngine is the baseline with the delay chain collapsed to one fast
// stage, approximating a classical SIR-like response.
func (b *Builder) NoDelayEngine(p seir.Params) (*seir.Engine, error) {
	p.K = 1
	p.Alpha = NoDelayAlpha
	return b.BaselineEngine(p)
}

// DeloadEngine keeps the training load flat through the deload window so
// that only the physiological effect differs between on and off.
func (b *Builder) DeloadEngine(p seir.Params, on bool) (*seir.Engine, error) {
	stim := modulation.Stimulus(false)
	if !on {
		return seir.NewEngine(p, stim, nil, nil)
	}
	rec, rel, err := b.Deload.Effects()
	if err != nil {
		return nil, fmt.Errorf("deload effects: %w", err)
	}
	return seir.NewEngine(p, stim, rec, rel)
}

// ConstantLoadFor returns the load of the constant-stimulus scenario.
func (b *Builder) ConstantLoadFor(p seir.Params) ConstantLoad {
	if b.Constant != nil {
		return *b.Constant
	}
	return ConstantLoad{Adherence: p.Adherence, Intensity: p.BlockIntensity, Protein: 1.0}
}

// ConstantEngine replaces the program with a flat load; the deload effect
// pair still applies.
func (b *Builder) ConstantEngine(p seir.Params, load ConstantLoad) (*seir.Engine, error) {
	rec, rel, err := b.Deload.Effects()
	if err != nil {
		return nil, fmt.Errorf("deload effects: %w", err)
	}
	stim := modulation.ConstantStimulus(load.Adherence, load.Intensity, load.Protein)
	return seir.NewEngine(p, stim, rec, rel)
}

// MicrolesionEngine drives relapse with the microlesion pulse alone.
func (b *Builder) MicrolesionEngine(p seir.Params) (*seir.Engine, error) {
	pulse, err := b.Lesion.Pulse()
	if err != nil {
		return nil, fmt.Errorf("microlesion pulse: %w", err)
	}
	return seir.NewEngine(p, modulation.Stimulus(true), nil, pulse)
}

// StagnationEngine fades stimulus sensitivity over time.
func (b *Builder) StagnationEngine(p seir.Params) (*seir.Engine, error) {
	stim := modulation.Multiply(modulation.Stimulus(true), b.Decay.Modulator())
	return seir.NewEngine(p, stim, nil, nil)
}

func (b *Builder) Baseline(ctx context.Context, p *seir.Params) (*seir.Output, error) {
	e, err := b.BaselineEngine(resolve(p))
	return b.simulate(ctx, e, err)
}

func (b *Builder) NoDelay(ctx context.Context, p *seir.Params) (*seir.Output, error) {
	e, err := b.NoDelayEngine(resolve(p))
	return b.simulate(ctx, e, err)
}

func (b *Builder) DeloadToggle(ctx context.Context, on bool, p *seir.Params) (*seir.Output, error) {
	e, err := b.DeloadEngine(resolve(p), on)
	return b.simulate(ctx, e, err)
}

func (b *Builder) ConstantStimulus(ctx context.Context, load *ConstantLoad, p *seir.Params) (*seir.Output, error) {
	params := resolve(p)
	l := b.ConstantLoadFor(params)
	if load != nil {
		l = *load
	}
	e, err := b.ConstantEngine(params, l)
	return b.simulate(ctx, e, err)
}

func (b *Builder) Microlesion(ctx context.Context, p *seir.Params) (*seir.Output, error) {
	e, err := b.MicrolesionEngine(resolve(p))
	return b.simulate(ctx, e, err)
}

func (b *Builder) Stagnation(ctx context.Context, p *seir.Params) (*seir.Output, error) {
	e, err := b.StagnationEngine(resolve(p))
	return b.simulate(ctx, e, err)
}

// Package-level scenarios use the default modulation settings.

func Baseline(ctx context.Context, p *seir.Params) (*seir.Output, error) {
	return defaultBuilder.Baseline(ctx, p)
}

func NoDelay(ctx context.Context, p *seir.Params) (*seir.Output, error) {
	return defaultBuilder.NoDelay(ctx, p)
}

func DeloadToggle(ctx context.Context, on bool, p *seir.Params) (*seir.Output, error) {
	return defaultBuilder.DeloadToggle(ctx, on, p)
}

func ConstantStimulus(ctx context.Context, load *ConstantLoad, p *seir.Params) (*seir.Output, error) {
	return defaultBuilder.ConstantStimulus(ctx, load, p)
}

func Microlesion(ctx context.Context, p *seir.Params) (*seir.Output, error) {
	return defaultBuilder.Microlesion(ctx, p)
}

func Stagnation(ctx context.Context, p *seir.Params) (*seir.Output, error) {
	return defaultBuilder.Stagnation(ctx, p)
}
