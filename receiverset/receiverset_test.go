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

package receiverset

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yawmd/yawmd-sim/types"
)

func ifaces() []*types.Interface {
	return []*types.Interface{
		{Index: 0, MAC: types.MacAddress{0x02, 0, 0, 0, 0, 1}, HWAddr: types.MacAddress{0xaa}},
		{Index: 1, MAC: types.MacAddress{0x02, 0, 0, 0, 0, 2}, HWAddr: types.MacAddress{0xbb}},
	}
}

func TestBuild_NotAckedIsEmpty(t *testing.T) {
	f := &types.Frame{Acked: false}
	set := Build(f, ifaces(), 0, nil, nil, -91, CcaThresholdDbm, nil, nil)
	assert.Empty(t, set.Entries)
}

func TestBuild_UnicastMatchesDestination(t *testing.T) {
	f := &types.Frame{Acked: true, SignalDbm: -40}
	f.Header.Addr1 = types.MacAddress{0x02, 0, 0, 0, 0, 2}
	set := Build(f, ifaces(), 0, nil, nil, -91, CcaThresholdDbm, nil, nil)
	assert.Len(t, set.Entries, 1)
	assert.Equal(t, types.MacAddress{0xbb}, set.Entries[0].HWAddr)
	assert.Equal(t, types.DbValue(-40), set.Entries[0].Signal)
}

func TestBuild_MulticastDropsBelowCca(t *testing.T) {
	f := &types.Frame{Acked: true, SignalDbm: -40, Multicast: true}
	f.Header.Addr1 = types.BroadcastMac
	snr := func(src, dst types.InterfaceIndex) int { return -200 } // forces below CCA
	set := Build(f, ifaces(), 0, snr, nil, -91, CcaThresholdDbm, func() types.DbValue { return 0 }, nil)
	assert.Empty(t, set.Entries)
}

func TestBuild_MulticastKeepsReceiverThatPassesErrorTest(t *testing.T) {
	f := &types.Frame{Acked: true, SignalDbm: -40, Multicast: true}
	f.Header.Addr1 = types.BroadcastMac
	snr := func(src, dst types.InterfaceIndex) int { return 40 }
	errorProb := func(snr int, rateIdx int8, freqMHz uint32, frameLen int, src, dst types.InterfaceIndex) float64 {
		return 0
	}
	set := Build(f, ifaces(), 0, snr, errorProb, -91, CcaThresholdDbm, func() types.DbValue { return 0 }, func() float64 { return 1 })
	assert.Len(t, set.Entries, 1)
	assert.Equal(t, types.MacAddress{0xbb}, set.Entries[0].HWAddr)
}

func TestBuild_MulticastDropsOnErrorTest(t *testing.T) {
	f := &types.Frame{Acked: true, SignalDbm: -40, Multicast: true}
	f.Header.Addr1 = types.BroadcastMac
	snr := func(src, dst types.InterfaceIndex) int { return 40 }
	errorProb := func(snr int, rateIdx int8, freqMHz uint32, frameLen int, src, dst types.InterfaceIndex) float64 {
		return 1
	}
	set := Build(f, ifaces(), 0, snr, errorProb, -91, CcaThresholdDbm, func() types.DbValue { return 0 }, func() float64 { return 0.5 })
	assert.Empty(t, set.Entries)
}
