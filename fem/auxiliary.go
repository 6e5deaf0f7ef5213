// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package fem implements the element-level machinery of the nonlocal damage
// formulation: integration point bookkeeping, the nonlocal neighbourhood
// registry, the two-phase element assembler and checkpoint I/O.
package fem

import (
	"github.com/cpmech/gosl/tsr"
)

// Bmatrix assembles the strain-displacement matrix for the given shape
// function gradients G[m][i] = dNm/dxi, using the Kelvin convention for the
// shear rows (factor 1/SQ2). B must be pre-allocated with size
// [nsig][nnodes*ndim] and is fully overwritten
func Bmatrix(B [][]float64, G [][]float64, ndim int) {
	nnodes := len(G)
	nsig := 2 * ndim
	for i := 0; i < nsig; i++ {
		for j := 0; j < nnodes*ndim; j++ {
			B[i][j] = 0
		}
	}
	for m := 0; m < nnodes; m++ {
		cx := ndim * m
		cy := cx + 1
		B[0][cx] = G[m][0]
		B[1][cy] = G[m][1]
		B[3][cx] = G[m][1] / tsr.SQ2
		B[3][cy] = G[m][0] / tsr.SQ2
		if ndim == 3 {
			cz := cx + 2
			B[2][cz] = G[m][2]
			B[4][cy] = G[m][2] / tsr.SQ2
			B[4][cz] = G[m][1] / tsr.SQ2
			B[5][cx] = G[m][2] / tsr.SQ2
			B[5][cz] = G[m][0] / tsr.SQ2
		}
	}
}

// dist2 returns the squared Euclidean distance between points a and b
func dist2(a, b []float64) (res float64) {
	for i := 0; i < len(a); i++ {
		d := a[i] - b[i]
		res += d * d
	}
	return
}
