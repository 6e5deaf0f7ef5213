// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gonlfem/msolid"
)

// IpRef is a stable handle to one integration point: element id and ip index
// within the element. References survive state reloads and mesh reorderings
// that preserve ids
type IpRef struct {
	Eid int // element id
	Ip  int // integration point index within the element
}

// IpShape holds the shape function data of one integration point, already
// mapped to real coordinates
type IpShape struct {
	S []float64   // shape function values [nnodes]
	G [][]float64 // gradients dNm/dxi in real coordinates [nnodes][ndim]
	W float64     // integration weight including the Jacobian determinant
}

// IpData holds the full state of one integration point. Stresses appear in
// two forms: SigEff is the effective (undamaged) stress produced by the
// constitutive integration, Sig is the nominal stress (1-ω)·SigEff that
// enters equilibrium and is the one persisted across restarts
type IpData struct {

	// geometry
	X []float64 // real coordinates
	W float64   // integration weight including the Jacobian determinant

	// strains and stresses
	Eps     []float64   // total strain
	EpsPrev []float64   // committed total strain
	SigEff  []float64   // effective stress of the last local integration
	Sig     []float64   // nominal stress
	SigPrev []float64   // committed nominal stress
	C       [][]float64 // consistent tangent of the last local integration

	// plastic state
	St *msolid.State

	// damage. The local driving variable and the blended nonlocal one are
	// separate tracks with separate commits: the local one accumulates on
	// its own committed value, never on the blend
	KappaLoc     float64 // local damage driving variable of this step
	KappaLocPrev float64 // committed local driving variable
	KappaD       float64 // blended (over)nonlocal driving variable
	KappaDPrev   float64 // committed blended driving variable
	Damage       float64 // scalar damage ω
	DamagePrev   float64 // committed damage

	// nonlocal neighbourhood
	Neigh  []IpRef   // neighbours within the interaction radius
	AlphaW []float64 // kernel weight times integration weight, per neighbour

	// activation bookkeeping. Both flags latch: once a point has entered
	// the damaging regime, or sits within reach of one that has, it stays
	// in the averaging for the rest of the run
	ActiveSelf bool // local driving variable has become positive
	Activated  bool // a point with positive driving variable reaches this one

	// scratch
	sigEffPrev []float64
}

// newIpData allocates an integration point with nsig stress components at
// real coordinates x
func newIpData(nsig int, x []float64, w float64) *IpData {
	return &IpData{
		X:          x,
		W:          w,
		Eps:        make([]float64, nsig),
		EpsPrev:    make([]float64, nsig),
		SigEff:     make([]float64, nsig),
		Sig:        make([]float64, nsig),
		SigPrev:    make([]float64, nsig),
		C:          allocMat(nsig, nsig),
		St:         msolid.NewState(nsig),
		sigEffPrev: make([]float64, nsig),
	}
}

func allocMat(m, n int) [][]float64 {
	res := make([][]float64, m)
	for i := 0; i < m; i++ {
		res[i] = make([]float64, n)
	}
	return res
}

// LocalKappaD returns the local damage driving variable computed by the last
// PreAssemble. Read by the nonlocal engine during the averaging phase
func (o *IpData) LocalKappaD() float64 {
	return o.KappaLoc
}

// SetDamage stores the blended driving variable and the damage evaluated
// from it
func (o *IpData) SetDamage(kappaD, damage float64) {
	o.KappaD = kappaD
	o.Damage = damage
}

// PushBackState commits the current variables of this integration point as
// the converged state of the time step. The activation flags are not
// cleared: activation is a property of the loading history, not of one step
func (o *IpData) PushBackState() {
	copy(o.EpsPrev, o.Eps)
	copy(o.SigPrev, o.Sig)
	o.KappaLocPrev = o.KappaLoc
	o.KappaDPrev = o.KappaD
	o.DamagePrev = o.Damage
	o.St.PushBackState()
}
