// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"math"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/tsr"
	"gonum.org/v1/gonum/mat"
)

// CalcKappaD advances the local damage driving variable by the increment of
// effective plastic strain scaled with the ductility of the current stress
// state. The brittleness is a piecewise function of
//  r_s = ‖σ_principal‖ / fc
// so that states close to uniaxial tension damage fastest
func (o *PlasticDamage) CalcKappaD(t float64, x []float64, depsPEff float64, σ []float64, kappaDPrev float64) (float64, error) {
	if depsPEff < 0 {
		return 0, chk.Err("damage: negative effective plastic strain increment: %g", depsPEff)
	}
	mp := o.Mat.Evaluate(t, x, o.Mat.T0)

	// principal stresses
	T := mat.NewSymDense(3, nil)
	T.SetSym(0, 0, σ[0])
	T.SetSym(1, 1, σ[1])
	T.SetSym(2, 2, σ[2])
	T.SetSym(0, 1, σ[3]/tsr.SQ2)
	if len(σ) == 6 {
		T.SetSym(1, 2, σ[4]/tsr.SQ2)
		T.SetSym(0, 2, σ[5]/tsr.SQ2)
	}
	var eig mat.EigenSym
	if !eig.Factorize(T, false) {
		return 0, chk.Err("damage: eigendecomposition of stress tensor failed")
	}
	vals := eig.Values(nil)
	var prod float64
	for _, v := range vals {
		prod += v * v
	}
	rs := math.Sqrt(prod) / mp.Fc

	// brittleness
	var xs float64
	switch {
	case rs < 1:
		xs = 1
	case rs <= 2:
		xs = 1 + mp.HD*(rs-1)*(rs-1)
	default:
		xs = 1 - 3*mp.HD + 4*mp.HD*math.Sqrt(rs-1)
	}
	return kappaDPrev + depsPEff/xs, nil
}

// CalcDamage maps the damage driving variable kappaD to the scalar damage
//  ω = (1-β_d) (1 - exp(-κ/α_d))
// Values outside [0,1] are reported and clamped
func (o *PlasticDamage) CalcDamage(t float64, x []float64, kappaD float64) float64 {
	mp := o.Mat.Evaluate(t, x, o.Mat.T0)
	if mp.AlphaD == 0 { // damage disabled
		return 0
	}
	dmg := (1.0 - mp.BetaD) * (1.0 - math.Exp(-kappaD/mp.AlphaD))
	if dmg < 0 {
		io.Pfred("damage: value %g outside admissible range; clamping to 0\n", dmg)
		dmg = 0
	}
	if dmg > 1 {
		io.Pfred("damage: value %g outside admissible range; clamping to 1\n", dmg)
		dmg = 1
	}
	return dmg
}

// OvernonlocalGamma returns the blending factor between local and nonlocal
// damage driving variables
func (o *PlasticDamage) OvernonlocalGamma(t float64, x []float64) float64 {
	return o.Mat.Evaluate(t, x, o.Mat.T0).GammaNl
}
