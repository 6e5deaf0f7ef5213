// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package kelvin implements operations on symmetric second order tensors
// represented as Kelvin (Mandel) vectors: fixed-length vectors with length
// nsig = 4 (2D) or 6 (3D) whose off-diagonal components carry a factor of
// SQ2 so that the vector inner product equals the tensor contraction.
// Component order: {a00, a11, a22, SQ2*a01, SQ2*a12, SQ2*a02}
package kelvin

import (
	"math"

	"github.com/cpmech/gosl/tsr"
)

// tensor index pairs corresponding to each Kelvin component
var (
	ti = []int{0, 1, 2, 0, 1, 0} // first tensor index
	tj = []int{0, 1, 2, 1, 2, 2} // second tensor index
)

// Trace returns the trace of tensor a
func Trace(a []float64) float64 {
	return a[0] + a[1] + a[2]
}

// Dev extracts the deviatoric part of tensor a into res.
// It applies the deviatoric projection operator Psd.
func Dev(res, a []float64) {
	tra := Trace(a) / 3.0
	for i := 0; i < len(a); i++ {
		res[i] = a[i] - tra*tsr.Im[i]
	}
}

// J2 returns the second invariant of the deviatoric tensor s
//  J2 = (1/2) s:s
// s must be deviatoric already
func J2(s []float64) (res float64) {
	for i := 0; i < len(s); i++ {
		res += s[i] * s[i]
	}
	return res / 2.0
}

// Det returns the determinant of tensor a
func Det(a []float64) float64 {
	if len(a) == 4 {
		return a[2] * (a[0]*a[1] - a[3]*a[3]/2.0)
	}
	return a[0]*a[1]*a[2] + a[3]*a[4]*a[5]/tsr.SQ2 -
		a[0]*a[4]*a[4]/2.0 - a[1]*a[5]*a[5]/2.0 - a[2]*a[3]*a[3]/2.0
}

// J3 returns the third invariant (determinant) of the deviatoric tensor s.
// s must be deviatoric already
func J3(s []float64) float64 {
	return Det(s)
}

// ToTensor converts Kelvin vector a into the full 3x3 tensor T.
// T must be pre-allocated with size [3][3]
func ToTensor(T [][]float64, a []float64) {
	T[0][0], T[1][1], T[2][2] = a[0], a[1], a[2]
	T[0][1], T[1][0] = a[3]/tsr.SQ2, a[3]/tsr.SQ2
	T[1][2], T[2][1] = 0, 0
	T[0][2], T[2][0] = 0, 0
	if len(a) == 6 {
		T[1][2], T[2][1] = a[4]/tsr.SQ2, a[4]/tsr.SQ2
		T[0][2], T[2][0] = a[5]/tsr.SQ2, a[5]/tsr.SQ2
	}
}

// FromTensor converts the full 3x3 symmetric tensor T into Kelvin vector a
func FromTensor(a []float64, T [][]float64) {
	for i := 0; i < len(a); i++ {
		if i < 3 {
			a[i] = T[ti[i]][tj[i]]
		} else {
			a[i] = T[ti[i]][tj[i]] * tsr.SQ2
		}
	}
}

// SOdotS computes the special symmetric self-product of v with itself
//  (v⊙v)_ijkl = (v_ik*v_jl + v_il*v_jk) / 2
// returned as the Kelvin matrix res [nsig][nsig]. This operator shows up in
// Jacobian derivations involving derivatives of inverse tensors.
func SOdotS(res [][]float64, v []float64) {
	nsig := len(v)
	var T [3][3]float64
	T[0][0], T[1][1], T[2][2] = v[0], v[1], v[2]
	T[0][1], T[1][0] = v[3]/tsr.SQ2, v[3]/tsr.SQ2
	if nsig == 6 {
		T[1][2], T[2][1] = v[4]/tsr.SQ2, v[4]/tsr.SQ2
		T[0][2], T[2][0] = v[5]/tsr.SQ2, v[5]/tsr.SQ2
	}
	fac := func(k int) float64 {
		if k < 3 {
			return 1
		}
		return tsr.SQ2
	}
	for I := 0; I < nsig; I++ {
		for J := 0; J < nsig; J++ {
			i, j := ti[I], tj[I]
			k, l := ti[J], tj[J]
			res[I][J] = fac(I) * fac(J) * (T[i][k]*T[j][l] + T[i][l]*T[j][k]) / 2.0
		}
	}
}

// ElastStiff fills D with the isotropic elastic stiffness tensor in Kelvin
// representation, given bulk modulus K and shear modulus G.
// D must be pre-allocated with size [nsig][nsig]
func ElastStiff(D [][]float64, K, G float64) {
	nsig := len(D)
	lam := K - 2.0*G/3.0
	for i := 0; i < nsig; i++ {
		for j := 0; j < nsig; j++ {
			D[i][j] = 0
			if i < 3 && j < 3 {
				D[i][j] = lam
			}
			if i == j {
				D[i][j] += 2.0 * G
			}
		}
	}
}

// NormSq returns the squared Euclidean norm of Kelvin vector a, which equals
// the full tensor contraction a:a
func NormSq(a []float64) (res float64) {
	for i := 0; i < len(a); i++ {
		res += a[i] * a[i]
	}
	return
}

// Norm returns the Euclidean norm of Kelvin vector a
func Norm(a []float64) float64 {
	return math.Sqrt(NormSq(a))
}
