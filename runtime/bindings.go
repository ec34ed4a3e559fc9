// Copyright (c) 2024, The OTNS Authors.
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

package runtime

import "github.com/yawmd/yawmd-sim/types"

// binding records which engine (and which interface within it) owns a
// kernel-assigned transmitter hwaddr, per spec.md §3's "HWAddr assigned by
// kernel on first frame". The config loader already rejects a MAC configured
// on two mediums, so this map is unambiguous.
type binding struct {
	engine int
	iface  types.InterfaceIndex
}

// Bindings routes an inbound TX-info message's ADDR_TRANSMITTER to the
// engine/interface that owns it.
type Bindings map[types.MacAddress]binding

// BuildBindings indexes every interface of every engine by its configured
// MAC address.
func BuildBindings(engines []*Engine) Bindings {
	b := make(Bindings)
	for ei, e := range engines {
		for _, iface := range e.Medium.Interfaces {
			b[iface.MAC] = binding{engine: ei, iface: iface.Index}
		}
	}
	return b
}

// Resolve finds the engine and interface owning mac, if any.
func (b Bindings) Resolve(mac types.MacAddress) (engineIdx int, ifaceIdx types.InterfaceIndex, ok bool) {
	bind, ok := b[mac]
	return bind.engine, bind.iface, ok
}
