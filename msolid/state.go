// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import "github.com/cpmech/gosl/chk"

// State holds the plastic internal variables of one integration point,
// with a "current" copy updated during the iterative solve and a "previous"
// copy committed once per time step.
type State struct {

	// current
	EpsPD   []float64 // deviatoric plastic strain [nsig]
	EpsPV   float64   // volumetric plastic strain
	EpsPEff float64   // effective (accumulated) plastic strain
	Dgam    float64   // Δγ: plastic multiplier of the last update
	Loading bool      // last update was elastoplastic

	// committed at the end of the previous time step
	EpsPDprev   []float64
	EpsPVprev   float64
	EpsPEffprev float64
}

// NewState allocates a state structure with nsig stress components
func NewState(nsig int) *State {
	return &State{
		EpsPD:     make([]float64, nsig),
		EpsPDprev: make([]float64, nsig),
	}
}

// Set copies other into this state.
// Note: both states must have been pre-allocated with the same sizes
func (o *State) Set(other *State) {
	copy(o.EpsPD, other.EpsPD)
	o.EpsPV = other.EpsPV
	o.EpsPEff = other.EpsPEff
	o.Dgam = other.Dgam
	o.Loading = other.Loading
	copy(o.EpsPDprev, other.EpsPDprev)
	o.EpsPVprev = other.EpsPVprev
	o.EpsPEffprev = other.EpsPEffprev
}

// GetCopy returns a copy of this state
func (o *State) GetCopy() *State {
	other := NewState(len(o.EpsPD))
	other.Set(o)
	return other
}

// SetInitialConditions resets the current variables to the committed ones,
// preparing the state for a new integration within the same time step
func (o *State) SetInitialConditions() {
	copy(o.EpsPD, o.EpsPDprev)
	o.EpsPV = o.EpsPVprev
	o.EpsPEff = o.EpsPEffprev
	o.Dgam = 0
	o.Loading = false
}

// PushBackState commits the current variables as the new "previous"
// snapshot. Must be called exactly once per converged time step; the commit
// is irreversible.
func (o *State) PushBackState() {
	copy(o.EpsPDprev, o.EpsPD)
	o.EpsPVprev = o.EpsPV
	o.EpsPEffprev = o.EpsPEff
}

// InternalValue returns a named internal variable as a slice of scalars.
// Available names: "eps_p.D", "eps_p.V", "eps_p.eff"
func (o *State) InternalValue(name string) ([]float64, error) {
	switch name {
	case "eps_p.D":
		res := make([]float64, len(o.EpsPD))
		copy(res, o.EpsPD)
		return res, nil
	case "eps_p.V":
		return []float64{o.EpsPV}, nil
	case "eps_p.eff":
		return []float64{o.EpsPEff}, nil
	}
	return nil, chk.Err("state: internal variable named %q is unavailable", name)
}
