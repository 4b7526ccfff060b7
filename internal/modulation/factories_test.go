package modulation

import (
	"math"
	"testing"
)

func TestStimulusPhases(t *testing.T) {
	stim := Stimulus(true)

	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{"ramp-up", 10, 0.85 * 0.9 * 0.9},
		{"hypertrophy, protein sufficient", 50, 0.90 * 1.2 * 1.0},
		{"strength", 70, 0.80 * 1.4 * 1.0},
		{"deload", 95, 0.95 * 0.6 * 1.0},
		{"late block", 150, 0.90 * 1.2 * 0.95},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := stim.At(tt.t); math.Abs(got-tt.want) > 1e-12 {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIntensityVariantsDifferOnlyInDeload(t *testing.T) {
	dip := IntensitySchedule(true)
	flat := IntensitySchedule(false)

	for tt := 0.0; tt <= 180; tt += 0.25 {
		inDeload := tt >= 90 && tt < 110
		same := dip.At(tt) == flat.At(tt)
		if inDeload && same {
			t.Errorf("expected variants to differ at t=%v", tt)
		}
		if !inDeload && !same {
			t.Errorf("expected variants to agree at t=%v: %v vs %v", tt, dip.At(tt), flat.At(tt))
		}
	}

	if got := flat.At(95); got != 1.4 {
		t.Errorf("expected strength load held through deload, got %v", got)
	}
}

func TestConstantStimulusClipped(t *testing.T) {
	if got := ConstantStimulus(0.8, 1.0, 1.0).At(33); got != 0.8 {
		t.Errorf("expected 0.8, got %v", got)
	}
	if got := ConstantStimulus(1.5, 1.5, 1.0).At(0); got != 2 {
		t.Errorf("expected upper clip at 2, got %v", got)
	}
	if got := ConstantStimulus(-1, 1, 1).At(0); got != 0 {
		t.Errorf("expected lower clip at 0, got %v", got)
	}
}

func TestDeloadEffects(t *testing.T) {
	rec, rel, err := DefaultDeload().Effects()
	if err != nil {
		t.Fatalf("Effects: %v", err)
	}

	if rec.At(95) <= 1 {
		t.Errorf("expected recovery boost inside window, got %v", rec.At(95))
	}
	if rel.At(95) >= 1 {
		t.Errorf("expected relapse suppression inside window, got %v", rel.At(95))
	}
	for _, tt := range []float64{0, 89.75, 100.25, 180} {
		if rec.At(tt) != 1 || rel.At(tt) != 1 {
			t.Errorf("expected neutral effects at t=%v, got %v/%v", tt, rec.At(tt), rel.At(tt))
		}
	}

	bad := Deload{Start: 100, End: 90, RecoveryBoost: 1.3, RelapseFactor: 0.6}
	if _, _, err := bad.Effects(); err == nil {
		t.Error("expected error for inverted deload window")
	}
}

func TestMicrolesionPulse(t *testing.T) {
	pulse, err := DefaultMicrolesion().Pulse()
	if err != nil {
		t.Fatalf("Pulse: %v", err)
	}
	if got := pulse.At(50); got != 1.8 {
		t.Errorf("expected 1.8 at window start, got %v", got)
	}
	if got := pulse.At(65); got != 1.8 {
		t.Errorf("expected 1.8 at window end, got %v", got)
	}
	if got := pulse.At(49.75); got != 1 {
		t.Errorf("expected 1 before window, got %v", got)
	}
}

func TestDefaultSensitivityDecay(t *testing.T) {
	m := DefaultSensitivityDecay().Modulator()
	if got := m.At(90); got != 0.5 {
		t.Errorf("expected 0.5 at midpoint, got %v", got)
	}
	if got := m.At(0); got < 0.999 {
		t.Errorf("expected ~1 at start, got %v", got)
	}
}
