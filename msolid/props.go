// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package msolid implements a thermo-plastic solid model with nonlocal
// damage: material parameters, internal state, implicit stress integration
// and the damage evolution laws.
package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
)

// MaterialProperties holds a snapshot of all scalar parameters resolved at
// one (time, position, temperature) triple. It is immutable for the duration
// of one constitutive integration call.
type MaterialProperties struct {

	// elasticity
	G float64 // shear modulus
	K float64 // bulk modulus

	// plasticity
	Fc float64 // uniaxial compressive strength
	M  float64 // friction coefficient

	// thermal softening of the hardening ratio
	Qp0  float64 // hardening ratio at reference temperature
	Alp  float64 // thermal softening coefficient
	Nexp float64 // thermal softening exponent
	T0   float64 // reference temperature
	Temp float64 // temperature of this evaluation

	// damage
	AlphaD float64 // softening rate
	BetaD  float64 // residual strength ratio
	HD     float64 // brittleness coefficient

	// nonlocal
	GammaNl float64 // overnonlocal blending factor

	// algorithm
	TangentType int // 0=elastic, 1=plastic-damage secant, 2=plastic

	// derived
	Qh float64 // hardening ratio at Temp
}

// Mat resolves material parameters, possibly depending on time, position and
// temperature, into MaterialProperties snapshots
type Mat struct {

	// constants
	E, Nu   float64 // Young modulus and Poisson ratio (alternative input)
	K, G    float64 // bulk and shear moduli
	Fc, M   float64 // strength parameters
	Qp0     float64 // hardening ratio
	Alp     float64 // thermal softening coefficient
	Nexp    float64 // thermal softening exponent
	T0      float64 // reference temperature
	AlphaD  float64 // damage softening rate
	BetaD   float64 // damage residual strength ratio
	HD      float64 // brittleness coefficient
	GammaNl float64 // overnonlocal factor
	TanType int     // tangent formulation mode

	// field-varying parameters (optional; override the constants)
	FcFcn fun.Func // fc(t, x)
}

// Init initialises the material from a parameters set
func (o *Mat) Init(ndim int, prms fun.Prms) (err error) {

	// defaults
	o.Qp0 = 1
	o.Nexp = 1
	o.GammaNl = 1
	o.TanType = 1

	// parse parameters
	var hasE, hasNu bool
	for _, p := range prms {
		switch p.N {
		case "E":
			o.E, hasE = p.V, true
		case "nu":
			o.Nu, hasNu = p.V, true
		case "K":
			o.K = p.V
		case "G":
			o.G = p.V
		case "fc":
			o.Fc = p.V
		case "m":
			o.M = p.V
		case "qp0":
			o.Qp0 = p.V
		case "alpha":
			o.Alp = p.V
		case "n":
			o.Nexp = p.V
		case "t0":
			o.T0 = p.V
		case "alpha_d":
			o.AlphaD = p.V
		case "beta_d":
			o.BetaD = p.V
		case "h_d":
			o.HD = p.V
		case "gamma_nl":
			o.GammaNl = p.V
		case "tangent":
			o.TanType = int(p.V)
		case "rho":
		default:
			return chk.Err("mat: parameter named %q is incorrect\n", p.N)
		}
	}

	// elastic moduli from E and nu
	if hasE && hasNu {
		o.K = Calc_K_from_Enu(o.E, o.Nu)
		o.G = Calc_G_from_Enu(o.E, o.Nu)
	}

	// check
	if o.K <= 0 || o.G <= 0 {
		return chk.Err("mat: elastic moduli must be positive: K=%g, G=%g", o.K, o.G)
	}
	if o.Fc <= 0 {
		return chk.Err("mat: compressive strength fc must be positive: fc=%g", o.Fc)
	}
	if o.GammaNl < 0 || o.GammaNl > 1 {
		return chk.Err("mat: overnonlocal factor gamma_nl must be within [0,1]: gamma_nl=%g", o.GammaNl)
	}
	if o.AlphaD < 0 || o.BetaD < 0 || o.BetaD > 1 {
		return chk.Err("mat: damage parameters are incorrect: alpha_d=%g, beta_d=%g", o.AlphaD, o.BetaD)
	}
	return
}

// GetPrms gets (an example of) parameters
func (o Mat) GetPrms() fun.Prms {
	return []*fun.Prm{
		&fun.Prm{N: "E", V: 30000},
		&fun.Prm{N: "nu", V: 0.2},
		&fun.Prm{N: "fc", V: 30},
		&fun.Prm{N: "m", V: 1.5},
		&fun.Prm{N: "qp0", V: 0.5},
		&fun.Prm{N: "alpha_d", V: 0.001},
		&fun.Prm{N: "beta_d", V: 0.05},
		&fun.Prm{N: "h_d", V: 0.1},
	}
}

// Evaluate resolves all parameters at (t, x, temp) into one snapshot.
// Called once per integration point per assembly pass; no memoisation.
func (o Mat) Evaluate(t float64, x []float64, temp float64) (mp MaterialProperties) {
	mp = MaterialProperties{
		G: o.G, K: o.K,
		Fc: o.Fc, M: o.M,
		Qp0: o.Qp0, Alp: o.Alp, Nexp: o.Nexp, T0: o.T0, Temp: temp,
		AlphaD: o.AlphaD, BetaD: o.BetaD, HD: o.HD,
		GammaNl:     o.GammaNl,
		TangentType: o.TanType,
	}
	if o.FcFcn != nil {
		mp.Fc = o.FcFcn.F(t, x)
	}

	// hardening ratio with thermal softening
	mp.Qh = mp.Qp0
	if mp.Alp > 0 {
		arg := mp.Alp * (temp - mp.T0)
		if arg < 0 {
			arg = 0
		}
		mp.Qh = mp.Qp0 / math.Pow(1.0+math.Pow(arg, mp.Nexp), 1.0-1.0/mp.Nexp)
	}
	return
}

// Calc_K_from_Enu returns the bulk modulus K for given E and nu
func Calc_K_from_Enu(E, nu float64) float64 {
	return E / (3.0 * (1.0 - 2.0*nu))
}

// Calc_G_from_Enu returns the shear modulus G for given E and nu
func Calc_G_from_Enu(E, nu float64) float64 {
	return E / (2.0 * (1.0 + nu))
}
