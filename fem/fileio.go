// Copyright 2015 Dorival Pedroso and Raul Durand. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package fem

import (
	"encoding/gob"
	"encoding/json"
	goio "io"

	"github.com/cpmech/gosl/chk"
)

// Encoder defines encoders; e.g. gob or json
type Encoder interface {
	Encode(e interface{}) error
}

// Decoder defines decoders; e.g. gob or json
type Decoder interface {
	Decode(e interface{}) error
}

// GetEncoder returns a new encoder
func GetEncoder(w goio.Writer, enctype string) Encoder {
	if enctype == "json" {
		return json.NewEncoder(w)
	}
	return gob.NewEncoder(w)
}

// GetDecoder returns a new decoder
func GetDecoder(r goio.Reader, enctype string) Decoder {
	if enctype == "json" {
		return json.NewDecoder(r)
	}
	return gob.NewDecoder(r)
}

// ipChunk is the persisted state of one integration point
type ipChunk struct {
	Eid      int
	Ip       int
	Sig      []float64
	KappaLoc float64
	KappaD   float64
}

// SaveIpStates writes the committed integration point states of all elements
// to w. Only the nominal stress and the damage driving variable are
// persisted; the remaining variables are rebuilt on load
func SaveIpStates(w goio.Writer, enctype string, elems []*ElemNld) (err error) {
	enc := GetEncoder(w, enctype)
	nips := 0
	for _, e := range elems {
		nips += len(e.Ips)
	}
	err = enc.Encode(nips)
	if err != nil {
		return chk.Err("cannot encode number of integration points: %v", err)
	}
	for _, e := range elems {
		for idx, ip := range e.Ips {
			c := ipChunk{Eid: e.Id, Ip: idx, Sig: ip.SigPrev, KappaLoc: ip.KappaLocPrev, KappaD: ip.KappaDPrev}
			err = enc.Encode(&c)
			if err != nil {
				return chk.Err("cannot encode state of integration point %d of element %d: %v", idx, e.Id, err)
			}
		}
	}
	return
}

// LoadIpStates reads integration point states from r and restores them into
// the matching elements. Damage is rebuilt from the driving variable at the
// restart time t so that the first PreAssemble after a restart sees a
// consistent committed state. The activation flags are left unset: the first
// PreAssemble re-latches them from the restored local driving variable
func LoadIpStates(r goio.Reader, enctype string, t float64, elems []*ElemNld) (err error) {
	byid := make(map[int]*ElemNld)
	for _, e := range elems {
		byid[e.Id] = e
	}
	dec := GetDecoder(r, enctype)
	var nips int
	err = dec.Decode(&nips)
	if err != nil {
		return chk.Err("cannot decode number of integration points: %v", err)
	}
	for n := 0; n < nips; n++ {
		var c ipChunk
		err = dec.Decode(&c)
		if err != nil {
			return chk.Err("cannot decode integration point state: %v", err)
		}
		e, ok := byid[c.Eid]
		if !ok {
			return chk.Err("saved state references unknown element id %d", c.Eid)
		}
		if c.Ip < 0 || c.Ip >= len(e.Ips) {
			return chk.Err("saved state references unknown integration point %d of element %d", c.Ip, c.Eid)
		}
		ip := e.Ips[c.Ip]
		if len(c.Sig) != e.Nsig {
			return chk.Err("saved stress of element %d has %d components; expected %d", c.Eid, len(c.Sig), e.Nsig)
		}
		copy(ip.Sig, c.Sig)
		copy(ip.SigPrev, c.Sig)
		ip.KappaLoc = c.KappaLoc
		ip.KappaLocPrev = c.KappaLoc
		ip.KappaD = c.KappaD
		ip.KappaDPrev = c.KappaD
		ip.Damage = e.Mdl.CalcDamage(t, ip.X, c.KappaD)
		ip.DamagePrev = ip.Damage
	}
	return
}
