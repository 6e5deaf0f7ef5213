// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"math"
	"sort"

	"github.com/cpmech/gosl/chk"
)

// Registry tracks all elements participating in the nonlocal averaging and
// owns the neighbourhood topology. The topology is discovered once per mesh
// version and cached; registering elements or calling BumpMeshVersion
// invalidates the cache, and the next Discover rebuilds it
type Registry struct {

	// configuration
	InternalLength  float64 // interaction radius of the averaging kernel
	PuTol           float64 // partition of unity tolerance per neighbour
	NoActivationOpt bool    // disable the activation-propagation optimisation

	// elements
	elems map[int]*ElemNld

	// cache control
	meshVersion  int
	builtVersion int
}

// NewRegistry returns a registry for the given interaction radius
func NewRegistry(internalLength float64) *Registry {
	return &Registry{
		InternalLength: internalLength,
		PuTol:          1e-10,
		elems:          make(map[int]*ElemNld),
		meshVersion:    1,
	}
}

// Register adds an element to the averaging domain. Ids must be unique;
// registering invalidates the cached topology
func (o *Registry) Register(e *ElemNld) error {
	if _, ok := o.elems[e.Id]; ok {
		return chk.Err("nonlocal: element with id %d is already registered", e.Id)
	}
	o.elems[e.Id] = e
	o.meshVersion++
	return nil
}

// Resolve maps a stable integration point reference to its data
func (o *Registry) Resolve(ref IpRef) (*IpData, error) {
	e, ok := o.elems[ref.Eid]
	if !ok {
		return nil, chk.Err("nonlocal: reference to unknown element id %d", ref.Eid)
	}
	if ref.Ip < 0 || ref.Ip >= len(e.Ips) {
		return nil, chk.Err("nonlocal: element %d has no integration point %d", ref.Eid, ref.Ip)
	}
	return e.Ips[ref.Ip], nil
}

// BumpMeshVersion marks the cached topology as stale, e.g. after moving
// nodes. The next Ready call rebuilds the neighbourhoods
func (o *Registry) BumpMeshVersion() {
	o.meshVersion++
}

// alpha0 is the compact-support averaging kernel
//  α0(d²) = (1 - d²/L²)²  for d² ≤ L², zero beyond
func (o *Registry) alpha0(d2 float64) float64 {
	L2 := o.InternalLength * o.InternalLength
	if d2 > L2 {
		return 0
	}
	a := 1.0 - d2/L2
	return a * a
}

// Ready makes sure the neighbourhood topology matches the current mesh
// version, discovering it if stale
func (o *Registry) Ready() (err error) {
	if o.builtVersion == o.meshVersion {
		return
	}
	err = o.Discover()
	if err != nil {
		return
	}
	o.builtVersion = o.meshVersion
	return
}

// Discover builds the neighbour lists and normalised kernel weights of every
// integration point in the averaging domain. For each point k the stored
// weight per neighbour l is
//  AlphaW_kl = α0(d²_kl) / Σ_m α0(d²_km) w_m · w_l
// so that Σ_l AlphaW_kl = 1 by construction. A point with an empty
// neighbourhood (the internal length does not even reach the point itself)
// and a partition of unity violation are both fatal
func (o *Registry) Discover() (err error) {
	if o.InternalLength <= 0 {
		return chk.Err("nonlocal: internal length must be positive: L=%g", o.InternalLength)
	}

	// deterministic iteration order
	eids := make([]int, 0, len(o.elems))
	for eid := range o.elems {
		eids = append(eids, eid)
	}
	sort.Ints(eids)

	for _, eid := range eids {
		for i, ip := range o.elems[eid].Ips {

			// candidate neighbours
			ip.Neigh = ip.Neigh[:0]
			ip.AlphaW = ip.AlphaW[:0]
			var denom float64
			for _, oeid := range eids {
				for j, oip := range o.elems[oeid].Ips {
					a0 := o.alpha0(dist2(ip.X, oip.X))
					if a0 == 0 {
						continue
					}
					ip.Neigh = append(ip.Neigh, IpRef{Eid: oeid, Ip: j})
					ip.AlphaW = append(ip.AlphaW, a0*oip.W)
					denom += a0 * oip.W
				}
			}
			if len(ip.Neigh) == 0 || denom <= 0 {
				return chk.Err("nonlocal: no neighbours found for integration point %d of element %d; check the internal length (L=%g)", i, eid, o.InternalLength)
			}

			// normalise and verify the partition of unity
			var sum float64
			for l := range ip.AlphaW {
				ip.AlphaW[l] /= denom
				sum += ip.AlphaW[l]
			}
			tol := o.PuTol * float64(len(ip.AlphaW))
			if tol > 1e-6 {
				tol = 1e-6
			}
			if math.Abs(sum-1.0) > tol {
				return chk.Err("nonlocal: partition of unity violated at integration point %d of element %d: Σ=%.17g", i, eid, sum)
			}
		}
	}
	return
}

// NonlocalKappa averages the local damage driving variables over the
// neighbourhood of the referenced integration point. The topology must be
// ready
func (o *Registry) NonlocalKappa(ref IpRef) (res float64, err error) {
	ip, err := o.Resolve(ref)
	if err != nil {
		return
	}
	for l, nref := range ip.Neigh {
		nip, e := o.Resolve(nref)
		if e != nil {
			return 0, e
		}
		res += ip.AlphaW[l] * nip.LocalKappaD()
	}
	return
}
