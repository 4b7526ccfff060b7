// Package modulation provides time-varying multipliers for the rates of the
// adaptation model.
//
// A [Modulator] maps simulation time (days) to a scalar, typically in [0, 2].
// Modulators are pure: the same t always yields the same value and
// evaluation has no side effects, so one instance may be shared freely
// between concurrent runs.
//
// Compound modulators are built by composition rather than nesting:
//
//	stim := modulation.Clamp{
//	    Inner: modulation.Multiply(adherence, intensity, protein),
//	    Lo:    0, Hi: 2,
//	}
//
// The building blocks are [Constant], [Func], [Product], [Clamp], [Window],
// [Sigmoid] and the piecewise-constant [Schedule]. The named training
// program (adherence, intensity and protein schedules, deload window,
// microlesion pulse, sensitivity decay) lives in factories.go.
package modulation
