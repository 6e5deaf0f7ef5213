// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"

	"github.com/cpmech/gonlfem/msolid"
)

// PorePressure couples a given nodal pore pressure field into the
// equilibrium of the solid via the Biot effective stress
//  σ_total = σ' - α p I
// The pressures are data here, not unknowns
type PorePressure struct {
	Alpha float64   // Biot coefficient
	P     []float64 // nodal pore pressures [nnodes]
}

// ElemNld is a small-strain solid element with plasticity and nonlocal
// damage. Assembly is split in two phases: PreAssemble runs the local
// constitutive integration at every integration point, then, after all
// elements have pre-assembled, AssembleWithJacobian performs the nonlocal
// averaging and adds the element contributions to the global system
type ElemNld struct {

	// basic data
	Id     int         // element id; must be unique within one registry
	Ndim   int         // space dimension
	Nsig   int         // number of stress components
	Nnodes int         // number of nodes
	Nu     int         // number of displacement unknowns
	X      [][]float64 // nodal coordinates [ndim][nnodes]

	// model and nonlocal domain
	Mdl  *msolid.PlasticDamage
	Reg  *Registry
	Pp   *PorePressure // optional; nil means no coupling
	Temp float64       // temperature for the constitutive evaluation

	// integration points
	Ips []*IpData
	shp []*IpShape

	// scratchpad
	b    [][]float64 // strain-displacement matrix [nsig][nu]
	sigw []float64   // total stress entering equilibrium
}

// NewElemNld allocates an element with nodal coordinates x[ndim][nnodes] and
// pre-computed shape data per integration point. The element registers
// itself with reg; a nil reg turns the averaging off and the damage driving
// variable stays local
func NewElemNld(id, ndim int, x [][]float64, shapes []*IpShape, prms fun.Prms, reg *Registry) (o *ElemNld, err error) {
	o = &ElemNld{
		Id:     id,
		Ndim:   ndim,
		Nsig:   2 * ndim,
		Nnodes: len(x[0]),
		X:      x,
		Reg:    reg,
		shp:    shapes,
		Mdl:    new(msolid.PlasticDamage),
	}
	o.Nu = o.Nnodes * ndim
	err = o.Mdl.Init(ndim, prms)
	if err != nil {
		return nil, err
	}
	o.Temp = o.Mdl.Mat.T0

	// integration points at real coordinates
	o.Ips = make([]*IpData, len(shapes))
	for idx, shp := range shapes {
		xip := make([]float64, ndim)
		for d := 0; d < ndim; d++ {
			for m := 0; m < o.Nnodes; m++ {
				xip[d] += shp.S[m] * x[d][m]
			}
		}
		o.Ips[idx] = newIpData(o.Nsig, xip, shp.W)
	}

	// scratchpad
	o.b = allocMat(o.Nsig, o.Nu)
	o.sigw = make([]float64, o.Nsig)

	// join the averaging domain
	if reg != nil {
		err = reg.Register(o)
		if err != nil {
			return nil, err
		}
	}
	return
}

// PreAssemble runs the local phase at every integration point of this
// element: strain evaluation, constitutive integration on the effective
// stress, update of the local damage driving variable and propagation of the
// activation flags to the neighbourhood. Must be called on ALL elements
// before any AssembleWithJacobian call of the same iteration
func (o *ElemNld) PreAssemble(t, dt float64, uLoc []float64) (err error) {
	if o.Reg != nil {
		err = o.Reg.Ready()
		if err != nil {
			return
		}
	}
	for idx, ip := range o.Ips {

		// strains
		Bmatrix(o.b, o.shp[idx].G, o.Ndim)
		la.MatVecMul(ip.Eps, 1, o.b, uLoc)

		// recover the effective stress from the committed nominal one
		if ip.DamagePrev >= 1 {
			return chk.Err("element %d: integration point %d is fully damaged", o.Id, idx)
		}
		for i := 0; i < o.Nsig; i++ {
			ip.sigEffPrev[i] = ip.SigPrev[i] / (1.0 - ip.DamagePrev)
		}

		// local constitutive integration
		err = o.Mdl.IntegrateStress(ip.SigEff, ip.C, ip.St, t, dt, ip.X, ip.EpsPrev, ip.Eps, ip.sigEffPrev, o.Temp, ip.DamagePrev)
		if err != nil {
			return chk.Err("element %d: integration point %d: %v", o.Id, idx, err)
		}

		// local damage driving variable, accumulated on its own committed
		// track. Restating converged strains can leave float noise of order
		// 1e-14 in the increment; clamp it
		depsPEff := ip.St.EpsPEff - ip.St.EpsPEffprev
		if depsPEff < 0 {
			depsPEff = 0
		}
		ip.KappaLoc, err = o.Mdl.CalcKappaD(t, ip.X, depsPEff, ip.SigEff, ip.KappaLocPrev)
		if err != nil {
			return chk.Err("element %d: integration point %d: %v", o.Id, idx, err)
		}

		// activation: latch on the first positive driving variable and
		// activate the neighbourhood once
		if !ip.ActiveSelf && ip.KappaLoc > 0 {
			ip.ActiveSelf = true
			if o.Reg != nil {
				for _, nref := range ip.Neigh {
					nip, e := o.Reg.Resolve(nref)
					if e != nil {
						return e
					}
					nip.Activated = true
				}
			}
		}
	}
	return
}

// AssembleWithJacobian runs the nonlocal phase: averages the damage driving
// variable over each neighbourhood, updates the damage and adds
//  fb -= Bᵀ σ_total w    and    K += Bᵀ C B w
// to the global residual and stiffness. K may be nil when only the residual
// is needed. The damage already enters C through the tangent mode of the
// constitutive integration
func (o *ElemNld) AssembleWithJacobian(t, dt float64, fb []float64, K [][]float64) (err error) {
	for idx, ip := range o.Ips {

		// damage driving variable: skip points with no plastic activity in
		// their neighbourhood, their state cannot have changed
		skip := o.Reg != nil && !o.Reg.NoActivationOpt && !ip.ActiveSelf && !ip.Activated
		if skip {
			ip.SetDamage(ip.KappaDPrev, ip.DamagePrev)
		} else {
			kbar := ip.KappaLoc
			if o.Reg != nil {
				kbar, err = o.Reg.NonlocalKappa(IpRef{Eid: o.Id, Ip: idx})
				if err != nil {
					return
				}
			}
			g := o.Mdl.OvernonlocalGamma(t, ip.X)
			kap := (1.0-g)*ip.KappaLoc + g*kbar
			if kap < 0 {
				kap = 0
			}
			ip.SetDamage(kap, o.Mdl.CalcDamage(t, ip.X, kap))
		}

		// nominal stress
		for i := 0; i < o.Nsig; i++ {
			ip.Sig[i] = (1.0 - ip.Damage) * ip.SigEff[i]
		}

		// total stress entering equilibrium
		copy(o.sigw, ip.Sig)
		if o.Pp != nil {
			var p float64
			for m := 0; m < o.Nnodes; m++ {
				p += o.shp[idx].S[m] * o.Pp.P[m]
			}
			for i := 0; i < 3; i++ {
				o.sigw[i] -= o.Pp.Alpha * p
			}
		}

		// add to global system
		coef := o.shp[idx].W
		Bmatrix(o.b, o.shp[idx].G, o.Ndim)
		la.MatTrVecMulAdd(fb, -coef, o.b, o.sigw) // fb -= coef * tr(B) * σ
		if K != nil {
			la.MatTrMulAdd3(K, coef, o.b, ip.C, o.b) // K += coef * tr(B) * C * B
		}
	}
	return
}

// PushBackStates commits the state of all integration points at the end of a
// converged time step
func (o *ElemNld) PushBackStates() {
	for _, ip := range o.Ips {
		ip.PushBackState()
	}
}

// SigmaIp returns a copy of the nominal stress at integration point idx
func (o *ElemNld) SigmaIp(idx int) []float64 {
	res := make([]float64, o.Nsig)
	copy(res, o.Ips[idx].Sig)
	return res
}

// IpVal returns a named scalar at integration point idx.
// Available names: "kappa_d_ip", "damage_ip", "eps_p_eff_ip"
func (o *ElemNld) IpVal(idx int, name string) (float64, error) {
	if idx < 0 || idx >= len(o.Ips) {
		return 0, chk.Err("element %d has no integration point %d", o.Id, idx)
	}
	ip := o.Ips[idx]
	switch name {
	case "kappa_d_ip":
		return ip.KappaD, nil
	case "damage_ip":
		return ip.Damage, nil
	case "eps_p_eff_ip":
		return ip.St.EpsPEff, nil
	}
	return 0, chk.Err("element %d: integration point value named %q is unavailable", o.Id, name)
}
