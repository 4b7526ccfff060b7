// Package seir implements the compartmental model of muscular adaptation.
//
// The model is an SEIR epidemic structure read as a training response:
// S is capacity not yet stimulated, E_1..E_k an Erlang delay chain between
// stimulus and response, I the actively adapting stock, R adapted stock and
// M an aggregate mass/performance index. State is a flat vector with the
// layout
//
//	[S, E_1 … E_k, I, R, M]
//
// computed once per parameter set (see [Layout]).
//
// Three [modulation.Modulator] values drive the rates over time: the
// combined training stimulus multiplies beta, a recovery modifier multiplies
// gamma and a relapse modifier multiplies phi.
//
// # Mass dynamics
//
// Mass grows with the instantaneous adaptation rate dR/dt, not with the
// adapted stock R, and decays toward the baseline M0:
//
//	dM/dt = r_gain·dR/dt − r_loss·(M − M0)
//
// This follows the reference model and should be confirmed with domain
// owners before being read as physiology.
//
// # Caveats
//
// Parameters outside their physical ranges (phi outside [0, 1], negative
// rates) are accepted and can drive compartments negative. Non-finite
// values are not detected and propagate into the output.
package seir
