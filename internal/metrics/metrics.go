// Package metrics reduces a simulated trajectory to scalar summaries.
package metrics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"

	"github.com/san-kum/adaptsim/internal/seir"
)

const (
	KeyTPeakR      = "t_peak_R"
	KeyPeakR       = "peak_R"
	KeyTPeakM      = "t_peak_M"
	KeyPeakM       = "peak_M"
	KeyDeltaMFinal = "deltaM_final"
	KeyAUCI        = "AUC_I"
)

// Keys is the fixed column order of a Record.
var Keys = []string{KeyTPeakR, KeyPeakR, KeyTPeakM, KeyPeakM, KeyDeltaMFinal, KeyAUCI}

// Record summarizes one run.
type Record struct {
	TPeakR      float64 `json:"t_peak_R" yaml:"t_peak_R"`
	PeakR       float64 `json:"peak_R" yaml:"peak_R"`
	TPeakM      float64 `json:"t_peak_M" yaml:"t_peak_M"`
	PeakM       float64 `json:"peak_M" yaml:"peak_M"`
	DeltaMFinal float64 `json:"deltaM_final" yaml:"deltaM_final"`
	AUCI        float64 `json:"AUC_I" yaml:"AUC_I"`
}

// TimeToPeak returns the time and value of the maximum of x, taking the
// first occurrence on ties. A NaN sample counts as the maximum, so a series
// that goes non-finite peaks at its first NaN. Empty or misaligned input
// yields NaN.
func TimeToPeak(x, t []float64) (float64, float64) {
	if len(x) == 0 || len(x) != len(t) {
		return math.NaN(), math.NaN()
	}
	for i, v := range x {
		if math.IsNaN(v) {
			return t[i], v
		}
	}
	idx := floats.MaxIdx(x)
	return t[idx], x[idx]
}

// AUC integrates y over t with the trapezoidal rule. Fewer than two samples
// integrate to 0; misaligned input yields NaN.
func AUC(y, t []float64) float64 {
	if len(y) != len(t) {
		return math.NaN()
	}
	if len(y) < 2 {
		return 0
	}
	return integrate.Trapezoidal(t, y)
}

// Compute summarizes out against a reference baseline mass.
func Compute(out *seir.Output, reference float64) Record {
	var r Record
	r.TPeakR, r.PeakR = TimeToPeak(out.R, out.T)
	r.TPeakM, r.PeakM = TimeToPeak(out.M, out.T)
	r.DeltaMFinal = out.M[len(out.M)-1] - reference
	r.AUCI = AUC(out.I, out.T)
	return r
}

// Map returns the record keyed by Keys.
func (r Record) Map() map[string]float64 {
	return map[string]float64{
		KeyTPeakR:      r.TPeakR,
		KeyPeakR:       r.PeakR,
		KeyTPeakM:      r.TPeakM,
		KeyPeakM:       r.PeakM,
		KeyDeltaMFinal: r.DeltaMFinal,
		KeyAUCI:        r.AUCI,
	}
}

// Values returns the record in Keys order.
func (r Record) Values() []float64 {
	return []float64{r.TPeakR, r.PeakR, r.TPeakM, r.PeakM, r.DeltaMFinal, r.AUCI}
}
