// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/la"
	"github.com/cpmech/gosl/tsr"

	"github.com/cpmech/gonlfem/kelvin"
)

// PlasticDamage implements a thermo-plastic model with isotropic damage for
// brittle geomaterials. The yield surface and plastic potential are
// formulated in the invariants I1 and J2 with a temperature dependent
// hardening ratio; stresses are handled in dimensionless form (σ/G) during
// the implicit integration.
type PlasticDamage struct {

	// constants
	Nsig   int     // number of stress components
	FTol   float64 // tolerance on the residual norm of the plastic solve
	MaxIt  int     // maximum number of Newton-Raphson iterations
	Pert   float64 // perturbation for the numerical Jacobian
	JTol   float64 // clamp value for J2 in denominators
	NumJac bool    // use central-difference Jacobian instead of analytical

	// material
	Mat Mat

	// context of the current integration (set by IntegrateStress)
	mp    MaterialProperties
	dt    float64
	epsD  []float64 // deviatoric strain
	epsV  float64   // volumetric strain
	sprev *State    // previous (committed) plastic state

	// scratchpad
	nx    int         // 2*nsig+3: augmented system size
	x     []float64   // {σ̄, εpD, εpV, εpEff, Δγ}
	res   []float64   // residual
	dx    []float64   // Newton increment
	J     [][]float64 // Jacobian [nx][nx]
	Ji    [][]float64 // inverse of J
	sig   []float64   // physical stress scratch
	sD    []float64   // deviator of physical stress
	flowd []float64   // deviatoric plastic flow
	dFD   [][]float64 // ∂flowD/∂σ [nsig][nsig]
	eD    []float64   // strain increment deviator scratch
}

// invariants of a physical stress state. J2c is clamped before use in
// denominators; see Init
type stressInvs struct {
	i1  float64
	j2  float64 // clamped
	det float64
}

// Init initialises the model for ndim dimensions with given parameters
func (o *PlasticDamage) Init(ndim int, prms fun.Prms) (err error) {

	// constants
	o.Nsig = 2 * ndim
	o.FTol = 1e-10
	o.MaxIt = 100
	o.Pert = 1e-8
	o.JTol = 1e-20

	// algorithm parameters; the remaining ones go to the material
	var mprms fun.Prms
	for _, p := range prms {
		switch p.N {
		case "ftol":
			o.FTol = p.V
		case "maxit":
			o.MaxIt = int(p.V)
		case "pert":
			o.Pert = p.V
		case "numjac":
			o.NumJac = p.V > 0
		default:
			mprms = append(mprms, p)
		}
	}
	err = o.Mat.Init(ndim, mprms)
	if err != nil {
		return
	}
	if o.Mat.TanType < 0 || o.Mat.TanType > 2 {
		return chk.Err("pdamage: inadmissible tangent mode %d: 0=elastic, 1=plastic-damage secant, 2=plastic", o.Mat.TanType)
	}

	// scratchpad
	o.nx = 2*o.Nsig + 3
	o.x = make([]float64, o.nx)
	o.res = make([]float64, o.nx)
	o.dx = make([]float64, o.nx)
	o.J = la.MatAlloc(o.nx, o.nx)
	o.Ji = la.MatAlloc(o.nx, o.nx)
	o.sig = make([]float64, o.Nsig)
	o.sD = make([]float64, o.Nsig)
	o.flowd = make([]float64, o.Nsig)
	o.dFD = la.MatAlloc(o.Nsig, o.Nsig)
	o.eD = make([]float64, o.Nsig)
	o.epsD = make([]float64, o.Nsig)
	return
}

// calcInvs computes the invariants of the physical stress σ=G*σ̄ for the
// dimensionless stress given in xσ, storing σ in o.sig and its deviator in
// o.sD
func (o *PlasticDamage) calcInvs(xσ []float64) (s stressInvs) {
	for i := 0; i < o.Nsig; i++ {
		o.sig[i] = o.mp.G * xσ[i]
	}
	kelvin.Dev(o.sD, o.sig)
	s.i1 = kelvin.Trace(o.sig)
	s.j2 = kelvin.J2(o.sD)
	if s.j2 < o.JTol {
		s.j2 = o.JTol
	}
	s.det = kelvin.J3(o.sD)
	return
}

// yieldFunc computes the yield function value at the physical stress state s
func (o *PlasticDamage) yieldFunc(s stressInvs) float64 {
	qh, fc, m := o.mp.Qh, o.mp.Fc, o.mp.M
	t3 := math.Sqrt(3.0 * s.j2)
	a := (t3 + s.i1) / (3.0 * fc)
	A := (1.0-qh)*a*a + t3/fc
	return A*A + m*qh*qh*a - qh*qh
}

// yieldDerivs computes the partial derivatives of the yield function with
// respect to I1 and J2
func (o *PlasticDamage) yieldDerivs(s stressInvs) (dI1, dJ2 float64) {
	qh, fc, m := o.mp.Qh, o.mp.Fc, o.mp.M
	t3 := math.Sqrt(3.0 * s.j2)
	a := (t3 + s.i1) / (3.0 * fc)
	A := (1.0-qh)*a*a + t3/fc
	AI1 := 2.0 * (1.0 - qh) * a / (3.0 * fc)
	AJ2 := (1.0-qh)*a/(fc*t3) + 3.0/(2.0*fc*t3)
	dI1 = 2.0*A*AI1 + m*qh*qh/(3.0*fc)
	dJ2 = 2.0*A*AJ2 + m*qh*qh/(2.0*fc*t3)
	return
}

// dgpDj2 computes the derivative of the plastic potential with respect to
// J2, which scales the deviatoric plastic flow direction
func (o *PlasticDamage) dgpDj2(s stressInvs) float64 {
	qh, fc, m := o.mp.Qh, o.mp.Fc, o.mp.M
	t3 := math.Sqrt(3.0 * s.j2)
	a1 := t3 + s.i1
	NB := (1.0-qh)*a1/(3.0*fc) + 1.5
	B := NB / (fc * t3)
	C := (1.0-qh)*a1*a1/(9.0*fc*fc) + t3/fc
	return qh*qh*m/(2.0*fc*t3) + 2.0*B*C
}

// dgpDerivs computes the partial derivatives of dgpDj2 with respect to I1
// and J2
func (o *PlasticDamage) dgpDerivs(s stressInvs) (dI1, dJ2 float64) {
	qh, fc, m := o.mp.Qh, o.mp.Fc, o.mp.M
	t3 := math.Sqrt(3.0 * s.j2)
	a1 := t3 + s.i1
	NB := (1.0-qh)*a1/(3.0*fc) + 1.5
	B := NB / (fc * t3)
	C := (1.0-qh)*a1*a1/(9.0*fc*fc) + t3/fc
	BI1 := (1.0 - qh) / (3.0 * fc * fc * t3)
	BJ2 := (1.0-qh)/(2.0*fc*fc*t3*t3) - 3.0*NB/(2.0*fc*t3*t3*t3)
	CI1 := 2.0 * (1.0 - qh) * a1 / (9.0 * fc * fc)
	CJ2 := B
	dI1 = 2.0 * (BI1*C + B*CI1)
	dJ2 = -3.0*qh*qh*m/(4.0*fc*t3*t3*t3) + 2.0*(BJ2*C+B*CJ2)
	return
}

// flowDev computes the deviatoric part of the plastic flow at the physical
// stress state s. The deviator o.sD must be up to date (see calcInvs)
func (o *PlasticDamage) flowDev(res []float64, s stressInvs) {
	dgp := o.dgpDj2(s)
	for i := 0; i < o.Nsig; i++ {
		res[i] = dgp * o.sD[i]
	}
}

// flowVol computes the volumetric part of the plastic flow
func (o *PlasticDamage) flowVol(s stressInvs) float64 {
	qh, fc, m := o.mp.Qh, o.mp.Fc, o.mp.M
	t3 := math.Sqrt(3.0 * s.j2)
	a1 := t3 + s.i1
	C := (1.0-qh)*a1*a1/(9.0*fc*fc) + t3/fc
	c4 := 4.0 * (1.0 - qh) / (3.0 * fc * fc)
	return qh*qh*m/fc + c4*a1*C
}

// flowVolDerivs computes the partial derivatives of flowVol with respect to
// I1 and J2
func (o *PlasticDamage) flowVolDerivs(s stressInvs) (dI1, dJ2 float64) {
	qh, fc := o.mp.Qh, o.mp.Fc
	t3 := math.Sqrt(3.0 * s.j2)
	a1 := t3 + s.i1
	NB := (1.0-qh)*a1/(3.0*fc) + 1.5
	B := NB / (fc * t3)
	C := (1.0-qh)*a1*a1/(9.0*fc*fc) + t3/fc
	CI1 := 2.0 * (1.0 - qh) * a1 / (9.0 * fc * fc)
	c4 := 4.0 * (1.0 - qh) / (3.0 * fc * fc)
	dI1 = c4 * (C + a1*CI1)
	dJ2 = c4 * (3.0/(2.0*t3)*C + a1*B)
	return
}

// plasticResidual computes the residual of the augmented plastic system for
// the solution vector x = {σ̄, εpD, εpV, εpEff, Δγ}:
//  R1: stress consistency        σ̄ - 2(εD-εpD) - K/G(εV-εpV) I
//  R2: deviatoric flow rule      dεpD/dt - Δγ flowD
//  R3: volumetric flow rule      dεpV/dt - Δγ flowV
//  R4: effective strain rate     dεpEff/dt - ‖Δγ flowD‖√(2/3)
//  R5: yield condition           f(σ)/G
func (o *PlasticDamage) plasticResidual(R, x []float64) {
	nsig := o.Nsig
	G, K := o.mp.G, o.mp.K
	lam := x[2*nsig+2]
	s := o.calcInvs(x[:nsig])

	// stress consistency
	for i := 0; i < nsig; i++ {
		R[i] = x[i] - 2.0*(o.epsD[i]-x[nsig+i]) - K/G*(o.epsV-x[2*nsig])*tsr.Im[i]
	}

	// deviatoric flow rule
	o.flowDev(o.flowd, s)
	for i := 0; i < nsig; i++ {
		R[nsig+i] = (x[nsig+i]-o.sprev.EpsPDprev[i])/o.dt - lam*o.flowd[i]
	}

	// volumetric flow rule
	R[2*nsig] = (x[2*nsig]-o.sprev.EpsPVprev)/o.dt - lam*o.flowVol(s)

	// effective plastic strain evolution
	R[2*nsig+1] = (x[2*nsig+1]-o.sprev.EpsPEffprev)/o.dt -
		math.Sqrt(2.0/3.0)*math.Abs(lam)*kelvin.Norm(o.flowd)

	// yield condition
	R[2*nsig+2] = o.yieldFunc(s) / G
	return
}

// anaJacobian computes the analytical Jacobian of plasticResidual with
// respect to x. The derivatives close in I1 and J2 because the hardening
// ratio is constant within one evaluation.
func (o *PlasticDamage) anaJacobian(J [][]float64, x []float64) {
	nsig := o.Nsig
	G, K := o.mp.G, o.mp.K
	lam := x[2*nsig+2]
	s := o.calcInvs(x[:nsig])
	la.MatFill(J, 0)

	// flow direction and its derivative w.r.t physical stress
	o.flowDev(o.flowd, s)
	dgp := o.dgpDj2(s)
	gI1, gJ2 := o.dgpDerivs(s)
	for i := 0; i < nsig; i++ {
		for j := 0; j < nsig; j++ {
			o.dFD[i][j] = o.sD[i]*(gI1*tsr.Im[j]+gJ2*o.sD[j]) + dgp*tsr.Psd[i][j]
		}
	}

	// stress consistency rows
	for i := 0; i < nsig; i++ {
		J[i][i] = 1.0
		J[i][nsig+i] = 2.0
		J[i][2*nsig] = K / G * tsr.Im[i]
	}

	// deviatoric flow rows
	for i := 0; i < nsig; i++ {
		for j := 0; j < nsig; j++ {
			J[nsig+i][j] = -lam * G * o.dFD[i][j]
		}
		J[nsig+i][nsig+i] = 1.0 / o.dt
		J[nsig+i][2*nsig+2] = -o.flowd[i]
	}

	// volumetric flow row
	vI1, vJ2 := o.flowVolDerivs(s)
	for j := 0; j < nsig; j++ {
		J[2*nsig][j] = -lam * G * (vI1*tsr.Im[j] + vJ2*o.sD[j])
	}
	J[2*nsig][2*nsig] = 1.0 / o.dt
	J[2*nsig][2*nsig+2] = -o.flowVol(s)

	// effective plastic strain row
	effRate := math.Sqrt(2.0/3.0) * math.Abs(lam) * kelvin.Norm(o.flowd)
	if effRate > 0 {
		for j := 0; j < nsig; j++ {
			var sum float64
			for i := 0; i < nsig; i++ {
				sum += o.flowd[i] * o.dFD[i][j]
			}
			J[2*nsig+1][j] = -2.0 / 3.0 * lam * lam * G * sum / effRate
		}
		J[2*nsig+1][2*nsig+2] = -2.0 / 3.0 * lam * kelvin.NormSq(o.flowd) / effRate
	}
	J[2*nsig+1][2*nsig+1] = 1.0 / o.dt

	// yield condition row
	fI1, fJ2 := o.yieldDerivs(s)
	for j := 0; j < nsig; j++ {
		J[2*nsig+2][j] = fI1*tsr.Im[j] + fJ2*o.sD[j]
	}
}

// numJacobian computes the Jacobian by central-difference perturbation of
// each component of x. Retained as a verification fallback for the
// analytical path; materially slower.
func (o *PlasticDamage) numJacobian(J [][]float64, x []float64) {
	xp := make([]float64, o.nx)
	rp := make([]float64, o.nx)
	rm := make([]float64, o.nx)
	for j := 0; j < o.nx; j++ {
		copy(xp, x)
		xp[j] = x[j] + o.Pert
		o.plasticResidual(rp, xp)
		xp[j] = x[j] - o.Pert
		o.plasticResidual(rm, xp)
		for i := 0; i < o.nx; i++ {
			J[i][j] = (rp[i] - rm[i]) / (2.0 * o.Pert)
		}
	}
}
