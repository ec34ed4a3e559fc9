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

// Package receiverset decides, for an acked frame, which interfaces receive
// it, per spec.md §4.6. Grounded on the dispatcher's sendNodeMessage
// fan-out, generalized from OTNS's per-node delivery to the per-medium
// {unicast, multicast-with-reverse-link-test} rule this spec requires.
package receiverset

import (
	"github.com/yawmd/yawmd-sim/linkquality"
	"github.com/yawmd/yawmd-sim/types"
)

// CcaThresholdDbm is the default clear-channel-assessment threshold below
// which a multicast receiver is considered unreachable, per spec.md §4.6.
const CcaThresholdDbm types.DbValue = -90

// Build constructs the receiver set for an acked frame, per spec.md §4.6.
// interfaces is the medium's full interface sequence; sender is the
// transmitting interface's index. fading draws one fresh fading sample per
// candidate receiver. rng draws the per-receiver drop test's uniform
// variate.
func Build(
	f *types.Frame,
	interfaces []*types.Interface,
	sender types.InterfaceIndex,
	snr linkquality.SnrFunc,
	errorProb linkquality.ErrorProbFunc,
	noiseLevelDbm types.DbValue,
	ccaThresholdDbm types.DbValue,
	fading func() types.DbValue,
	rng func() float64,
) *types.ReceiverSet {
	set := &types.ReceiverSet{}
	if !f.Acked {
		return set
	}

	for r, iface := range interfaces {
		if r == sender {
			continue
		}

		if f.Multicast {
			snrR := float64(snr(sender, r)) + fading()
			signalR := snrR + noiseLevelDbm
			if signalR < ccaThresholdDbm {
				continue
			}
			pErr := errorProb(int(snrR), f.Retries[0].RateIdx, f.Freq, f.Length, sender, r)
			if rng() <= pErr {
				continue
			}
			set.Add(iface.HWAddr, f.SignalDbm)
			continue
		}

		if iface.MAC == f.Header.Addr1 {
			set.Add(iface.HWAddr, f.SignalDbm)
		}
	}

	return set
}
