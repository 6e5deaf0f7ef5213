// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/io"
	"github.com/cpmech/gosl/la"
)

func Test_enld01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("enld01. single element, elastic step")

	reg := NewRegistry(0.75)
	e := unitQuad(tst, 0, 0, 0, reg)

	// uniform horizontal stretch: u = (a x, 0)
	a := 1e-5
	uLoc := []float64{0, 0, a, 0, a, 0, 0, 0}
	err := e.PreAssemble(1, 1, uLoc)
	if err != nil {
		tst.Errorf("PreAssemble failed: %v\n", err)
		return
	}
	fb := make([]float64, e.Nu)
	K := la.MatAlloc(e.Nu, e.Nu)
	err = e.AssembleWithJacobian(1, 1, fb, K)
	if err != nil {
		tst.Errorf("AssembleWithJacobian failed: %v\n", err)
		return
	}

	// strains and stresses of the uniform state
	ip := e.Ips[0]
	chk.Vector(tst, "ε", 1e-14, ip.Eps, []float64{a, 0, 0, 0})
	G, Kb := e.Mdl.Mat.G, e.Mdl.Mat.K
	chk.Scalar(tst, "σxx", 1e-10, ip.Sig[0], (Kb+4.0*G/3.0)*a)
	chk.Scalar(tst, "σyy", 1e-10, ip.Sig[1], (Kb-2.0*G/3.0)*a)
	chk.Scalar(tst, "σzz", 1e-10, ip.Sig[2], (Kb-2.0*G/3.0)*a)
	chk.Scalar(tst, "σxy", 1e-12, ip.Sig[3], 0)

	// no damage, and the residual is consistent with the stiffness
	dmg, err := e.IpVal(0, "damage_ip")
	if err != nil {
		tst.Errorf("IpVal failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "ω", 1e-15, dmg, 0)
	ku := make([]float64, e.Nu)
	la.MatVecMul(ku, 1, K, uLoc)
	for i := 0; i < e.Nu; i++ {
		chk.Scalar(tst, io.Sf("K·u+fb [%d]", i), 1e-9, ku[i]+fb[i], 0)
	}

	// accessor errors
	_, err = e.IpVal(0, "spam")
	if err == nil {
		tst.Errorf("unknown integration point value must be rejected\n")
	}
	_, err = e.IpVal(5, "damage_ip")
	if err == nil {
		tst.Errorf("out of range integration point must be rejected\n")
	}
}

// compress runs two compression steps on a fresh single-element mesh and
// returns the damage state after each step
func compress(tst *testing.T, noOpt bool) (kap1, dmg1, kap2, dmg2 float64, e *ElemNld) {
	reg := NewRegistry(0.75)
	reg.NoActivationOpt = noOpt
	e = unitQuad(tst, 0, 0, 0, reg)
	fb := make([]float64, e.Nu)
	K := la.MatAlloc(e.Nu, e.Nu)

	step := func(t, a float64) (kap, dmg float64) {
		uLoc := []float64{0, 0, a, 0, a, 0, 0, 0}
		err := e.PreAssemble(t, 1, uLoc)
		if err != nil {
			tst.Fatalf("PreAssemble failed: %v\n", err)
		}
		la.VecFill(fb, 0)
		la.MatFill(K, 0)
		err = e.AssembleWithJacobian(t, 1, fb, K)
		if err != nil {
			tst.Fatalf("AssembleWithJacobian failed: %v\n", err)
		}
		e.PushBackStates()
		kap, err = e.IpVal(0, "kappa_d_ip")
		if err != nil {
			tst.Fatalf("IpVal failed: %v\n", err)
		}
		dmg, err = e.IpVal(0, "damage_ip")
		if err != nil {
			tst.Fatalf("IpVal failed: %v\n", err)
		}
		return
	}
	kap1, dmg1 = step(1, -0.005)
	kap2, dmg2 = step(2, -0.006)
	return
}

func Test_enld02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("enld02. plasticity with damage over two steps")

	kap1, dmg1, kap2, dmg2, e := compress(tst, false)
	io.Pforan("κ = %v → %v   ω = %v → %v\n", kap1, kap2, dmg1, dmg2)

	if kap1 <= 0 {
		tst.Errorf("compression to the plastic range must drive κ: κ=%g\n", kap1)
	}
	if dmg1 <= 0 || dmg1 >= 1 {
		tst.Errorf("damage must be within (0,1): ω=%g\n", dmg1)
	}
	if kap2 < kap1 {
		tst.Errorf("driving variable must not decrease: %g < %g\n", kap2, kap1)
	}
	if dmg2 < dmg1 {
		tst.Errorf("damage must not decrease: %g < %g\n", dmg2, dmg1)
	}

	// nominal stress is the effective one scaled down by 1-ω
	ip := e.Ips[0]
	if math.Abs(ip.Sig[0]) >= math.Abs(ip.SigEff[0]) {
		tst.Errorf("nominal stress must be below the effective one: %g vs %g\n", ip.Sig[0], ip.SigEff[0])
	}
	chk.Scalar(tst, "σ=(1-ω)σeff", 1e-10, ip.Sig[0], (1.0-dmg2)*ip.SigEff[0])

	// plastic history accumulated
	eff, err := e.IpVal(0, "eps_p_eff_ip")
	if err != nil {
		tst.Errorf("IpVal failed: %v\n", err)
		return
	}
	if eff <= 0 {
		tst.Errorf("effective plastic strain must accumulate: %g\n", eff)
	}
}

// compressTwo drives a two-element mesh (integration points 1.0 apart,
// interaction radius 1.5) where only the first element is compressed into
// the plastic range; the second step holds all strains fixed. Returns the
// committed κ and ω per element and step
func compressTwo(tst *testing.T, noOpt bool) (kap, dmg [2][2]float64) {
	reg := NewRegistry(1.5)
	reg.NoActivationOpt = noOpt
	ea := unitQuad(tst, 0, 0, 0, reg)
	eb := unitQuad(tst, 1, 1, 0, reg)
	elems := []*ElemNld{ea, eb}
	uLocs := [][]float64{
		{0, 0, -0.005, 0, -0.005, 0, 0, 0},
		make([]float64, eb.Nu),
	}
	fb := make([]float64, ea.Nu)
	for s := 0; s < 2; s++ {
		t := float64(s + 1)
		for i, e := range elems {
			err := e.PreAssemble(t, 1, uLocs[i])
			if err != nil {
				tst.Fatalf("PreAssemble failed: %v\n", err)
			}
		}
		for _, e := range elems {
			la.VecFill(fb, 0)
			err := e.AssembleWithJacobian(t, 1, fb, nil)
			if err != nil {
				tst.Fatalf("AssembleWithJacobian failed: %v\n", err)
			}
		}
		for i, e := range elems {
			e.PushBackStates()
			var err error
			kap[i][s], err = e.IpVal(0, "kappa_d_ip")
			if err != nil {
				tst.Fatalf("IpVal failed: %v\n", err)
			}
			dmg[i][s], err = e.IpVal(0, "damage_ip")
			if err != nil {
				tst.Fatalf("IpVal failed: %v\n", err)
			}
		}
	}
	return
}

func Test_enld03(tst *testing.T) {

	//verbose()
	chk.PrintTitle("enld03. activation optimisation does not change results")

	// single element
	k1a, d1a, k2a, d2a, _ := compress(tst, false)
	k1b, d1b, k2b, d2b, _ := compress(tst, true)
	chk.Scalar(tst, "κ step 1", 1e-14, k1a, k1b)
	chk.Scalar(tst, "ω step 1", 1e-14, d1a, d1b)
	chk.Scalar(tst, "κ step 2", 1e-14, k2a, k2b)
	chk.Scalar(tst, "ω step 2", 1e-14, d2a, d2b)

	// non-uniform field: a plastic element next to an elastic one, then a
	// step with the strains held fixed
	kapA, dmgA := compressTwo(tst, false)
	kapB, dmgB := compressTwo(tst, true)
	for i := 0; i < 2; i++ {
		for s := 0; s < 2; s++ {
			chk.Scalar(tst, io.Sf("κ e%d step %d", i, s+1), 1e-14, kapA[i][s], kapB[i][s])
			chk.Scalar(tst, io.Sf("ω e%d step %d", i, s+1), 1e-14, dmgA[i][s], dmgB[i][s])
		}
	}

	// the elastic element is damaged through its neighbour only, hence less
	// than the plastic one
	if kapA[1][0] <= 0 {
		tst.Errorf("averaging must carry the driving variable to the elastic element: κ=%g\n", kapA[1][0])
	}
	if kapA[1][0] >= kapA[0][0] {
		tst.Errorf("the elastic element must see less than the plastic one: %g >= %g\n", kapA[1][0], kapA[0][0])
	}

	// holding the strains must not lose committed history
	for i := 0; i < 2; i++ {
		if kapA[i][1] < kapA[i][0] {
			tst.Errorf("committed κ of element %d decreased under constant strain: %g < %g\n", i, kapA[i][1], kapA[i][0])
		}
		if kapB[i][1] < kapB[i][0] {
			tst.Errorf("committed κ of element %d decreased under constant strain: %g < %g\n", i, kapB[i][1], kapB[i][0])
		}
	}

	// purely elastic mesh: both modes stay undamaged
	for _, noOpt := range []bool{false, true} {
		reg := NewRegistry(0.75)
		reg.NoActivationOpt = noOpt
		e := unitQuad(tst, 0, 0, 0, reg)
		uLoc := []float64{0, 0, 1e-6, 0, 1e-6, 0, 0, 0}
		err := e.PreAssemble(1, 1, uLoc)
		if err != nil {
			tst.Errorf("PreAssemble failed: %v\n", err)
			return
		}
		fb := make([]float64, e.Nu)
		err = e.AssembleWithJacobian(1, 1, fb, nil)
		if err != nil {
			tst.Errorf("AssembleWithJacobian failed: %v\n", err)
			return
		}
		dmg, err := e.IpVal(0, "damage_ip")
		if err != nil {
			tst.Errorf("IpVal failed: %v\n", err)
			return
		}
		chk.Scalar(tst, "ω elastic", 1e-15, dmg, 0)
	}
}

func Test_enld04(tst *testing.T) {

	//verbose()
	chk.PrintTitle("enld04. pore pressure coupling shifts the residual")

	// reference element without coupling
	reg0 := NewRegistry(0.75)
	e0 := unitQuad(tst, 0, 0, 0, reg0)
	a := 1e-5
	uLoc := []float64{0, 0, a, 0, a, 0, 0, 0}
	err := e0.PreAssemble(1, 1, uLoc)
	if err != nil {
		tst.Errorf("PreAssemble failed: %v\n", err)
		return
	}
	fb0 := make([]float64, e0.Nu)
	err = e0.AssembleWithJacobian(1, 1, fb0, nil)
	if err != nil {
		tst.Errorf("AssembleWithJacobian failed: %v\n", err)
		return
	}

	// coupled element with uniform pressure
	p := 5.0
	α := 0.8
	reg1 := NewRegistry(0.75)
	e1 := unitQuad(tst, 0, 0, 0, reg1)
	e1.Pp = &PorePressure{Alpha: α, P: []float64{p, p, p, p}}
	err = e1.PreAssemble(1, 1, uLoc)
	if err != nil {
		tst.Errorf("PreAssemble failed: %v\n", err)
		return
	}
	fb1 := make([]float64, e1.Nu)
	err = e1.AssembleWithJacobian(1, 1, fb1, nil)
	if err != nil {
		tst.Errorf("AssembleWithJacobian failed: %v\n", err)
		return
	}

	// the difference is exactly Bᵀ (α p I) w
	B := la.MatAlloc(e1.Nsig, e1.Nu)
	Bmatrix(B, [][]float64{{-0.5, -0.5}, {0.5, -0.5}, {0.5, 0.5}, {-0.5, 0.5}}, 2)
	for j := 0; j < e1.Nu; j++ {
		var ref float64
		for i := 0; i < 3; i++ {
			ref += B[i][j] * α * p
		}
		chk.Scalar(tst, io.Sf("Δfb[%d]", j), 1e-12, fb1[j]-fb0[j], ref)
	}

	// the effective stress is untouched by the coupling
	chk.Vector(tst, "σeff", 1e-10, e1.Ips[0].SigEff, e0.Ips[0].SigEff)
}
