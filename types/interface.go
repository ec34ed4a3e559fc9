// Copyright (c) 2020, The OTNS Authors.
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

package types

// Position is a point in 3D space, in metres, per spec.md §3/§4.1.
type Position struct {
	X, Y, Z float64
}

// Sub returns p - o.
func (p Position) Sub(o Position) Position {
	return Position{p.X - o.X, p.Y - o.Y, p.Z - o.Z}
}

// Add returns p + o, used by the mobility driver's move tick (spec.md §4.7).
func (p Position) Add(o Position) Position {
	return Position{p.X + o.X, p.Y + o.Y, p.Z + o.Z}
}

// Interface is a simulated radio within one medium, per spec.md §3 ("Interface").
// Identity (Index, MAC) is immutable for the medium's lifetime; Position mutates
// only on the owning medium's move tick, and Freq is overwritten by each
// incoming TX message from that interface.
type Interface struct {
	Index InterfaceIndex
	MAC   MacAddress

	// HWAddr is assigned by the kernel on the interface's first frame; zero
	// until then (spec.md §3).
	HWAddr MacAddress

	Position  Position
	Direction Position // per-tick delta applied by the mobility driver

	TxPowerDbm    DbValue
	AntennaGainDb DbValue
	FreqMHz       uint32
	IsAP          bool
}

// SetHWAddrOnce records the kernel-assigned hardware address the first time
// it is seen for this interface, per spec.md §3/§4.8.
func (i *Interface) SetHWAddrOnce(hwaddr MacAddress) {
	if i.HWAddr.IsZero() {
		i.HWAddr = hwaddr
	}
}
