// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package msolid

import (
	"testing"

	"github.com/cpmech/gosl/chk"
	"github.com/cpmech/gosl/fun"
	"github.com/cpmech/gosl/io"
)

func Test_props01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("props01. parameters and hardening ratio")

	var mat Mat
	err := mat.Init(2, mat.GetPrms())
	if err != nil {
		tst.Errorf("Init failed: %v\n", err)
		return
	}
	io.Pforan("mat = %+v\n", mat)
	chk.Scalar(tst, "G", 1e-12, mat.G, 12500)
	chk.Scalar(tst, "K", 1e-10, mat.K, 50000.0/3.0)

	// no thermal softening configured: qh == qp0 at any temperature
	mp := mat.Evaluate(0, nil, 100)
	chk.Scalar(tst, "qh", 1e-15, mp.Qh, 0.5)

	// with softening: qh decreases above the reference temperature
	mat.Alp = 0.01
	mat.Nexp = 2
	mat.T0 = 20
	mpCold := mat.Evaluate(0, nil, 10)
	mpHot := mat.Evaluate(0, nil, 500)
	chk.Scalar(tst, "qh cold", 1e-15, mpCold.Qh, 0.5)
	io.Pforan("qh hot = %v\n", mpHot.Qh)
	if mpHot.Qh >= 0.5 || mpHot.Qh <= 0 {
		tst.Errorf("hardening ratio must soften with temperature: qh=%g\n", mpHot.Qh)
	}
}

func Test_props02(tst *testing.T) {

	//verbose()
	chk.PrintTitle("props02. parameter validation")

	var mat Mat
	err := mat.Init(2, fun.Prms{&fun.Prm{N: "spam", V: 666}})
	if err == nil {
		tst.Errorf("unknown parameter name must be rejected\n")
	}

	err = mat.Init(2, fun.Prms{
		&fun.Prm{N: "E", V: 30000},
		&fun.Prm{N: "nu", V: 0.2},
		&fun.Prm{N: "fc", V: 30},
		&fun.Prm{N: "gamma_nl", V: 2},
	})
	if err == nil {
		tst.Errorf("overnonlocal factor outside [0,1] must be rejected\n")
	}

	err = mat.Init(2, fun.Prms{&fun.Prm{N: "fc", V: 30}})
	if err == nil {
		tst.Errorf("missing elastic moduli must be rejected\n")
	}
}

func Test_mstate01(tst *testing.T) {

	//verbose()
	chk.PrintTitle("mstate01. copy and commit")

	s := NewState(4)
	s.EpsPD[0] = 0.001
	s.EpsPV = -0.002
	s.EpsPEff = 0.003
	s.Dgam = 0.1
	s.Loading = true

	c := s.GetCopy()
	chk.Vector(tst, "epsPD", 1e-17, c.EpsPD, []float64{0.001, 0, 0, 0})
	chk.Scalar(tst, "epsPV", 1e-17, c.EpsPV, -0.002)
	chk.Scalar(tst, "epsPEff", 1e-17, c.EpsPEff, 0.003)

	s.PushBackState()
	chk.Vector(tst, "epsPDprev", 1e-17, s.EpsPDprev, []float64{0.001, 0, 0, 0})
	chk.Scalar(tst, "epsPEffprev", 1e-17, s.EpsPEffprev, 0.003)

	// a new integration within the same step starts from the commit
	s.EpsPEff = 0.009
	s.SetInitialConditions()
	chk.Scalar(tst, "epsPEff reset", 1e-17, s.EpsPEff, 0.003)
	chk.Scalar(tst, "dgam reset", 1e-17, s.Dgam, 0)

	vals, err := s.InternalValue("eps_p.eff")
	if err != nil {
		tst.Errorf("InternalValue failed: %v\n", err)
		return
	}
	chk.Scalar(tst, "internal eps_p.eff", 1e-17, vals[0], 0.003)
	_, err = s.InternalValue("spam")
	if err == nil {
		tst.Errorf("unknown internal variable name must be rejected\n")
	}
}
