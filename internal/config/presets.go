package config

import (
	"sort"

	"github.com/san-kum/adaptsim/internal/seir"
)

type Preset struct {
	Description string
	Params      seir.Params
}

func preset(desc string, tweak func(p *seir.Params)) Preset {
	p := seir.DefaultParams()
	tweak(&p)
	return Preset{Description: desc, Params: p}
}

var Presets = map[string]Preset{
	"default": preset("reference trainee", func(p *seir.Params) {}),
	"fast-responder": preset("high sensitivity, short adaptation delay", func(p *seir.Params) {
		p.Beta = 0.70
		p.Alpha = 0.25
		p.Gamma = 0.38
		p.RGain = 0.10
	}),
	"slow-responder": preset("low sensitivity, long adaptation delay", func(p *seir.Params) {
		p.Beta = 0.40
		p.Alpha = 0.12
		p.Gamma = 0.22
		p.RGain = 0.06
	}),
	"injury-prone": preset("frequent relapse, slower recovery", func(p *seir.Params) {
		p.Phi = 0.20
		p.Gamma = 0.26
	}),
	"high-volume": preset("consistent, heavy training block", func(p *seir.Params) {
		p.Beta = 0.60
		p.Phi = 0.14
		p.Adherence = 0.95
		p.BlockIntensity = 1.2
	}),
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetPreset returns a copy of the named preset's parameters.
func GetPreset(name string) (seir.Params, bool) {
	p, ok := Presets[name]
	return p.Params, ok
}
