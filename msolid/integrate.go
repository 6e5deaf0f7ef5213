// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"

	"github.com/cpmech/gonlfem/kelvin"
)

// predictSigma computes the dimensionless trial stress σ̄tr = σtr/G for the
// given total strain ε, assuming a purely elastic step from (σPrev, εPrev)
func (o *PlasticDamage) predictSigma(σtr, σPrev, εPrev, ε []float64) {
	G, K := o.mp.G, o.mp.K
	pPrev := kelvin.Trace(σPrev) / (-3.0 * G)
	p := pPrev - K/G*(kelvin.Trace(ε)-kelvin.Trace(εPrev))
	for i := 0; i < o.Nsig; i++ {
		o.eD[i] = ε[i] - εPrev[i]
	}
	kelvin.Dev(o.eD, o.eD)
	kelvin.Dev(σtr, σPrev)
	for i := 0; i < o.Nsig; i++ {
		σtr[i] = σtr[i]/G + 2.0*o.eD[i] - p*tsr.Im[i]
	}
}

// IntegrateStress updates the stress σ and the plastic state s for the total
// strain increment from εPrev to ε, and computes the consistent tangent
// stiffness D. The previous stress σPrev must already be the effective
// (undamaged) stress. The current variables of s are reset to the committed
// ones on entry; dmg is only used to scale D when the secant tangent mode is
// selected.
func (o *PlasticDamage) IntegrateStress(σ []float64, D [][]float64, s *State, t, dt float64, x, εPrev, ε, σPrev []float64, temp, dmg float64) (err error) {

	if dt <= 0 {
		return chk.Err("pdamage: time increment must be positive: dt=%g", dt)
	}

	// resolve parameters and reset state
	o.mp = o.Mat.Evaluate(t, x, temp)
	o.dt = dt
	o.sprev = s
	s.SetInitialConditions()
	nsig := o.Nsig
	G, K := o.mp.G, o.mp.K

	// strain split
	o.epsV = kelvin.Trace(ε)
	kelvin.Dev(o.epsD, ε)

	// elastic trial
	σtr := o.x[:nsig]
	o.predictSigma(σtr, σPrev, εPrev, ε)
	sinv := o.calcInvs(σtr)
	if kelvin.NormSq(σtr) == 0 || o.yieldFunc(sinv) < 0 {
		for i := 0; i < nsig; i++ {
			σ[i] = G * σtr[i]
		}
		kelvin.ElastStiff(D, K, G)
		return
	}

	// plastic corrector: solve the augmented system with Newton-Raphson.
	// unknowns: {σ̄, εpD, εpV, εpEff, Δγ}
	for i := 0; i < nsig; i++ {
		o.x[nsig+i] = s.EpsPDprev[i]
	}
	o.x[2*nsig] = s.EpsPVprev
	o.x[2*nsig+1] = s.EpsPEffprev
	o.x[2*nsig+2] = 0
	converged := false
	for it := 0; it < o.MaxIt; it++ {
		o.plasticResidual(o.res, o.x)
		if la.VecNorm(o.res) < o.FTol {
			converged = true
			break
		}
		if o.NumJac {
			o.numJacobian(o.J, o.x)
		} else {
			o.anaJacobian(o.J, o.x)
		}
		err = la.MatInvG(o.Ji, o.J, 1e-12)
		if err != nil {
			return chk.Err("pdamage: Jacobian of plastic system is singular: %v", err)
		}
		la.MatVecMul(o.dx, -1, o.Ji, o.res)
		for i := 0; i < o.nx; i++ {
			o.x[i] += o.dx[i]
		}
	}
	if !converged {
		return chk.Err("pdamage: stress integration did not converge after %d iterations (res=%g)", o.MaxIt, la.VecNorm(o.res))
	}

	// split solution
	for i := 0; i < nsig; i++ {
		σ[i] = G * o.x[i]
		s.EpsPD[i] = o.x[nsig+i]
	}
	s.EpsPV = o.x[2*nsig]
	s.EpsPEff = o.x[2*nsig+1]
	s.Dgam = o.x[2*nsig+2]
	s.Loading = true
	if s.EpsPEff < s.EpsPEffprev-1e-14 {
		return chk.Err("pdamage: effective plastic strain decreased: %g < %g", s.EpsPEff, s.EpsPEffprev)
	}

	// consistent tangent: D = G Ji (-∂R/∂ε). Only the stress consistency
	// rows of R depend on the total strain:
	//  ∂R1/∂ε = -2 Psd - (K/G) I⊗I
	if o.NumJac {
		o.numJacobian(o.J, o.x)
	} else {
		o.anaJacobian(o.J, o.x)
	}
	err = la.MatInvG(o.Ji, o.J, 1e-12)
	if err != nil {
		return chk.Err("pdamage: Jacobian of converged plastic system is singular: %v", err)
	}
	for i := 0; i < nsig; i++ {
		for j := 0; j < nsig; j++ {
			var sum float64
			for k := 0; k < nsig; k++ {
				sum += o.Ji[i][k] * (2.0*tsr.Psd[k][j] + K/G*tsr.Im[k]*tsr.Im[j])
			}
			D[i][j] = G * sum
		}
	}

	// tangent formulation
	switch o.mp.TangentType {
	case 0:
		kelvin.ElastStiff(D, K, G)
	case 1:
		for i := 0; i < nsig; i++ {
			for j := 0; j < nsig; j++ {
				D[i][j] *= 1.0 - dmg
			}
		}
	case 2:
		// keep the plastic tangent as is
	default:
		return chk.Err("pdamage: inadmissible tangent mode %d: 0=elastic, 1=plastic-damage secant, 2=plastic", o.mp.TangentType)
	}
	return
}

// YieldValue returns the yield function value at the physical stress σ, with
// parameters resolved at (t, x, temp). Used by tests and diagnostics.
func (o *PlasticDamage) YieldValue(t float64, x []float64, temp float64, σ []float64) float64 {
	o.mp = o.Mat.Evaluate(t, x, temp)
	σbar := make([]float64, o.Nsig)
	for i := 0; i < o.Nsig; i++ {
		σbar[i] = σ[i] / o.mp.G
	}
	return o.yieldFunc(o.calcInvs(σbar))
}
