package seir

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/adaptsim/internal/dynamo"
)

// ErrUnknownParam indicates a parameter name that does not exist.
var ErrUnknownParam = errors.New("seir: unknown parameter")

// Params is the parameter set of one run. It is a value type: variants are
// derived with With and never share state with the original.
type Params struct {
	// Population scale, normalized to 1.
	N float64 `yaml:"n" json:"N"`

	// Stimulus sensitivity; the infection-like flow is Beta·stimulus(t)·S.
	Beta float64 `yaml:"beta" json:"beta"`

	// Erlang delay chain: K stages at rate Alpha each, mean delay K/Alpha.
	K     int     `yaml:"k" json:"k"`
	Alpha float64 `yaml:"alpha" json:"alpha"`

	// Adaptation rate out of I.
	Gamma float64 `yaml:"gamma" json:"gamma"`

	// Fraction of I relapsing to S per day (fatigue, microlesions).
	Phi float64 `yaml:"phi" json:"phi"`

	RGain float64 `yaml:"r_gain" json:"r_gain"`
	RLoss float64 `yaml:"r_loss" json:"r_loss"`
	M0    float64 `yaml:"m0" json:"M0"`

	// Informational defaults used by constant-stimulus scenarios.
	Adherence      float64 `yaml:"adherence" json:"adherence"`
	BlockIntensity float64 `yaml:"block_intensity" json:"block_intensity"`

	// Horizon and step, in days.
	TMax float64 `yaml:"t_max" json:"t_max"`
	Dt   float64 `yaml:"dt" json:"dt"`
}

func DefaultParams() Params {
	return Params{
		N:              1.0,
		Beta:           0.55,
		K:              5,
		Alpha:          0.18,
		Gamma:          0.30,
		Phi:            0.10,
		RGain:          0.08,
		RLoss:          0.02,
		M0:             1.0,
		Adherence:      0.8,
		BlockIntensity: 1.0,
		TMax:           180.0,
		Dt:             0.25,
	}
}

// ParamNames lists the names accepted by Get and With.
var ParamNames = []string{
	"N", "beta", "k", "alpha", "gamma", "phi", "r_gain", "r_loss", "M0",
	"adherence", "block_intensity", "t_max", "dt",
}

// Validate rejects parameter sets the engine cannot integrate. Rates outside
// their physical range are not errors.
func (p Params) Validate() error {
	if p.K < 1 {
		return fmt.Errorf("%w: delay order k must be >= 1, got %d", dynamo.ErrParameterBounds, p.K)
	}
	return p.Config().Validate()
}

func (p Params) Config() dynamo.Config {
	return dynamo.Config{Dt: p.Dt, Duration: p.TMax}
}

// Steps is the number of recorded samples, floor(t_max/dt) + 1.
func (p Params) Steps() int {
	return p.Config().Steps()
}

// MeanDelay is the mean of the Erlang(k, alpha) delay.
func (p Params) MeanDelay() float64 {
	return float64(p.K) / p.Alpha
}

func (p Params) DefaultInitial() Initial {
	return Initial{S: 0.99, I: 0.01, R: 0, M: p.M0}
}

func (p *Params) field(name string) (*float64, bool) {
	switch strings.ToLower(name) {
	case "n":
		return &p.N, true
	case "beta":
		return &p.Beta, true
	case "alpha":
		return &p.Alpha, true
	case "gamma":
		return &p.Gamma, true
	case "phi":
		return &p.Phi, true
	case "r_gain":
		return &p.RGain, true
	case "r_loss":
		return &p.RLoss, true
	case "m0":
		return &p.M0, true
	case "adherence":
		return &p.Adherence, true
	case "block_intensity":
		return &p.BlockIntensity, true
	case "t_max":
		return &p.TMax, true
	case "dt":
		return &p.Dt, true
	}
	return nil, false
}

// Get returns a parameter by name.
func (p Params) Get(name string) (float64, error) {
	if strings.ToLower(name) == "k" {
		return float64(p.K), nil
	}
	f, ok := p.field(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	return *f, nil
}

// With returns a copy of p with one parameter overridden. The delay order k
// only accepts whole numbers.
func (p Params) With(name string, v float64) (Params, error) {
	if strings.ToLower(name) == "k" {
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return p, fmt.Errorf("%w: delay order k must be a whole number, got %g", dynamo.ErrParameterBounds, v)
		}
		p.K = int(v)
		return p, nil
	}
	f, ok := p.field(name)
	if !ok {
		return p, fmt.Errorf("%w: %q", ErrUnknownParam, name)
	}
	*f = v
	return p, nil
}
