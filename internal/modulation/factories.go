package modulation

// Training program phases in days: ramp-up from 0, hypertrophy from 30,
// strength from 60, deload from 90, then two further blocks at 110 and 140.

func AdherenceSchedule() *Schedule {
	return MustSchedule(
		Breakpoint{0, 0.85},
		Breakpoint{30, 0.90},
		Breakpoint{60, 0.80},
		Breakpoint{90, 0.95},
		Breakpoint{110, 0.88},
		Breakpoint{140, 0.90},
	)
}

// IntensitySchedule returns the relative training load. With dip set the
// load drops to 0.6 for the deload block; otherwise the strength-block load
// is held through it.
func IntensitySchedule(dip bool) *Schedule {
	if !dip {
		return MustSchedule(
			Breakpoint{0, 0.9},
			Breakpoint{30, 1.2},
			Breakpoint{60, 1.4},
			Breakpoint{110, 1.1},
			Breakpoint{140, 1.2},
		)
	}
	return MustSchedule(
		Breakpoint{0, 0.9},
		Breakpoint{30, 1.2},
		Breakpoint{60, 1.4},
		Breakpoint{90, 0.6},
		Breakpoint{110, 1.1},
		Breakpoint{140, 1.2},
	)
}

// ProteinSchedule is 1.0 for sufficient intake; below 1 a mild deficit
// dampens the response.
func ProteinSchedule() *Schedule {
	return MustSchedule(
		Breakpoint{0, 0.9},
		Breakpoint{45, 1.0},
		Breakpoint{120, 0.95},
	)
}

// Stimulus is adherence × intensity × protein clipped to [0, 2].
func Stimulus(dip bool) Modulator {
	return Clamp{
		Inner: Multiply(AdherenceSchedule(), IntensitySchedule(dip), ProteinSchedule()),
		Lo:    0,
		Hi:    2,
	}
}

// ConstantStimulus is a flat stimulus clipped to [0, 2].
func ConstantStimulus(adherence, intensity, protein float64) Modulator {
	return Clamp{Inner: Constant(adherence * intensity * protein), Lo: 0, Hi: 2}
}

// Deload describes the physiological effect of a planned low-load block:
// recovery is multiplied by RecoveryBoost and relapse by RelapseFactor on
// [Start, End].
type Deload struct {
	Start         float64 `yaml:"start" json:"start"`
	End           float64 `yaml:"end" json:"end"`
	RecoveryBoost float64 `yaml:"recovery_boost" json:"recovery_boost"`
	RelapseFactor float64 `yaml:"relapse_factor" json:"relapse_factor"`
}

func DefaultDeload() Deload {
	return Deload{Start: 90, End: 100, RecoveryBoost: 1.3, RelapseFactor: 0.6}
}

// Effects returns the recovery and relapse multipliers.
func (d Deload) Effects() (recovery, relapse Modulator, err error) {
	rw, err := NewWindow(d.Start, d.End, d.RecoveryBoost)
	if err != nil {
		return nil, nil, err
	}
	pw, err := NewWindow(d.Start, d.End, d.RelapseFactor)
	if err != nil {
		return nil, nil, err
	}
	return rw, pw, nil
}

// Microlesion amplifies relapse by Scale on [Start, End].
type Microlesion struct {
	Start float64 `yaml:"start" json:"start"`
	End   float64 `yaml:"end" json:"end"`
	Scale float64 `yaml:"scale" json:"scale"`
}

func DefaultMicrolesion() Microlesion {
	return Microlesion{Start: 50, End: 65, Scale: 1.8}
}

func (m Microlesion) Pulse() (Modulator, error) {
	return NewWindow(m.Start, m.End, m.Scale)
}

// SensitivityDecay models stagnation: stimulus sensitivity fades from 1
// toward Depth around Midpoint.
type SensitivityDecay struct {
	Midpoint  float64 `yaml:"midpoint" json:"midpoint"`
	Depth     float64 `yaml:"depth" json:"depth"`
	Sharpness float64 `yaml:"sharpness" json:"sharpness"`
}

func DefaultSensitivityDecay() SensitivityDecay {
	return SensitivityDecay{Midpoint: 90, Depth: 0, Sharpness: 10}
}

func (s SensitivityDecay) Modulator() Sigmoid {
	return Sigmoid{Midpoint: s.Midpoint, Depth: s.Depth, Sharpness: s.Sharpness}
}
