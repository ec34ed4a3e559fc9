// Copyright (c) 2022-2023, The OTNS Authors.
// All rights reserved.
//
// Redistribution and use in source and binary forms, with or without
// modification, are permitted provided that the following conditions are met:
// 1. Redistributions of source code must retain the above copyright
//    notice, this list of conditions and the following disclaimer.
// 2. Redistributions in binary form must reproduce the above copyright
//    notice, this list of conditions and the following disclaimer in the
//    documentation and/or other materials provided with the distribution.
// 3. Neither the name of the copyright holder nor the
//    names of its contributors may be used to endorse or promote products
//    derived from this software without specific prior written permission.
//
// THIS SOFTWARE IS PROVIDED BY THE COPYRIGHT HOLDERS AND CONTRIBUTORS "AS IS"
// AND ANY EXPRESS OR IMPLIED WARRANTIES, INCLUDING, BUT NOT LIMITED TO, THE
// IMPLIED WARRANTIES OF MERCHANTABILITY AND FITNESS FOR A PARTICULAR PURPOSE
// ARE DISCLAIMED. IN NO EVENT SHALL THE COPYRIGHT HOLDER OR CONTRIBUTORS BE
// LIABLE FOR ANY DIRECT, INDIRECT, INCIDENTAL, SPECIAL, EXEMPLARY, OR
// CONSEQUENTIAL DAMAGES (INCLUDING, BUT NOT LIMITED TO, PROCUREMENT OF
// SUBSTITUTE GOODS OR SERVICES; LOSS OF USE, DATA, OR PROFITS; OR BUSINESS
// INTERRUPTION) HOWEVER CAUSED AND ON ANY THEORY OF LIABILITY, WHETHER IN
// CONTRACT, STRICT LIABILITY, OR TORT (INCLUDING NEGLIGENCE OR OTHERWISE)
// ARISING IN ANY WAY OUT OF THE USE OF THIS SOFTWARE, EVEN IF ADVISED OF THE
// POSSIBILITY OF SUCH DAMAGE.

// Package mobility implements the periodic move tick of spec.md §4.7: it
// advances every interface's position by its direction vector and refreshes
// the medium's SNR matrix from path loss. Grounded on the fading-cache
// refresh idea in radiomodel/fading_model.go, generalized from OTNS's
// per-fading-cache invalidation to a full periodic matrix recompute.
package mobility

import (
	"github.com/yawmd/yawmd-sim/pathloss"
	"github.com/yawmd/yawmd-sim/types"
)

// Driver advances positions and recomputes a medium's SNR matrix on each
// move tick, per spec.md §4.7.
type Driver struct {
	Interfaces []*types.Interface
	Matrix     []int // row-major N*N, mutated in place
	Model      types.PathLossModelName
	Params     pathloss.Params
	NoiseLevelDbm types.DbValue

	// Gaussian draws a shadowing sample for log-normal-shadowing mode; see
	// pathloss.LogNormalShadowing.
	Gaussian func() float64
}

// Tick advances every interface's position by its direction vector, then
// recomputes the full N×N SNR matrix, per spec.md §4.7 steps 1-2.
func (d *Driver) Tick() {
	for _, iface := range d.Interfaces {
		iface.Position = iface.Position.Add(iface.Direction)
	}
	d.Recompute()
}

// Recompute fills the N×N SNR matrix from the interfaces' current positions,
// without moving them. Used both by Tick's periodic refresh and once at
// medium bring-up, before the mobility startup delay of spec.md §4.7 has
// elapsed, so path-loss mediums start with a matrix that matches their
// configured positions.
func (d *Driver) Recompute() {
	n := len(d.Interfaces)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			if i == j {
				continue
			}
			src, dst := d.Interfaces[i], d.Interfaces[j]
			pl := pathloss.Compute(d.Model, src.Position, dst.Position, float64(src.FreqMHz), d.Params, d.Gaussian)
			gains := src.TxPowerDbm + src.AntennaGainDb + dst.AntennaGainDb
			d.Matrix[i*n+j] = int(gains - pl - d.NoiseLevelDbm)
		}
	}
}
