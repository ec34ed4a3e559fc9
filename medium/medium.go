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

// Package medium implements the single serialising scheduler per transmission
// environment, per spec.md §4.5: one current transmission slot, four QoS
// queues feeding it, and the catch-up delivery loop that keeps medium
// occupancy accurate even when the runtime wakes late.
//
// The event-driven shape follows a processNextEvent/advanceNodeTime loop,
// generalized from a single global simulation clock to one independent
// clock per medium, with the exact catch-up semantics following the
// original daemon's queue_frame / deliver_queued_frames pair.
package medium

import (
	"fmt"

	"github.com/yawmd/yawmd-sim/linkquality"
	"github.com/yawmd/yawmd-sim/qos"
	"github.com/yawmd/yawmd-sim/rateoutcome"
	"github.com/yawmd/yawmd-sim/receiverset"
	"github.com/yawmd/yawmd-sim/types"
)

// Medium is one isolated transmission environment, per spec.md §3.
type Medium struct {
	Id         types.MediumId
	Interfaces []*types.Interface

	Mode      types.LinkQualityMode
	Provider  linkquality.Provider
	SnrMatrix []int // row-major N*N, path-loss mode only

	NoiseLevelDbm   types.DbValue
	CcaThresholdDbm types.DbValue

	Queues *qos.Set

	CurrentTransmission *types.Frame
	EndTransmission     uint64 // absolute microseconds; valid iff CurrentTransmission != nil

	// Fading draws one fresh fading sample (spec.md §4.1); Rng draws the
	// [0,1) uniform variates the rate-outcome simulator and receiver-set
	// builder consume.
	Fading func() types.DbValue
	Rng    func() float64
}

// New creates a Medium with empty queues, per spec.md §3's default instance.
func New(id types.MediumId, interfaces []*types.Interface) *Medium {
	return &Medium{
		Id:              id,
		Interfaces:      interfaces,
		NoiseLevelDbm:   types.DefaultNoiseLevelDbm,
		CcaThresholdDbm: types.DefaultCCAThresholdDbm,
		Queues:          qos.NewSet(),
	}
}

// IndexOf returns the interface index whose MAC equals mac, or (-1, false)
// if no interface matches.
func (m *Medium) IndexOf(mac types.MacAddress) (types.InterfaceIndex, bool) {
	for i, iface := range m.Interfaces {
		if iface.MAC == mac {
			return i, true
		}
	}
	return -1, false
}

// resolveSnr returns the SNR (dB) to simulate a frame's delivery at,
// following the original daemon's rule: a resolvable unicast destination
// uses the medium's bound SNR provider plus one fading sample; a multicast
// or unresolved destination falls back to FallbackSnrDbm, per spec.md §9.
func (m *Medium) resolveSnr(f *types.Frame, src types.InterfaceIndex) (int, types.InterfaceIndex) {
	if f.Multicast {
		return types.FallbackSnrDbm, -1
	}
	dst, ok := m.IndexOf(f.Header.Addr1)
	if !ok {
		return types.FallbackSnrDbm, -1
	}
	snr := m.Provider.Snr(src, dst)
	if m.Fading != nil {
		snr += int(m.Fading())
	}
	return snr, dst
}

// Arrival is the result of HandleArrival: whether the frame started
// transmitting immediately, and if so the absolute timestamp its delivery
// timer must be armed to.
type Arrival struct {
	Started         bool
	EndTransmission uint64
}

// HandleArrival simulates f's rate outcome and places it on the medium, per
// spec.md §4.5's "On TX-info arrival" rule. f.AccessClass must already be
// set (by the classifier) before calling. now is the current absolute
// microsecond timestamp.
func (m *Medium) HandleArrival(f *types.Frame, now uint64) Arrival {
	src, _ := m.IndexOf(f.Header.Addr2)
	if src >= 0 {
		m.Interfaces[src].FreqMHz = f.Freq
	}
	snr, dst := m.resolveSnr(f, src)

	bounds := m.Queues[f.AccessClass].Bounds
	rateoutcome.Simulate(f, snr, m.NoiseLevelDbm, bounds, m.Provider.ErrorProb, src, dst, m.Rng)

	if m.CurrentTransmission == nil {
		m.CurrentTransmission = f
		m.EndTransmission = now + f.DurationUs
		return Arrival{Started: true, EndTransmission: m.EndTransmission}
	}

	m.Queues.Push(f)
	return Arrival{}
}

// Delivery is one outcome of the delivery-timer loop: a frame to hand back
// to the transport adapter together with its computed receiver set.
type Delivery struct {
	Frame     *types.Frame
	Receivers *types.ReceiverSet
}

// buildReceivers runs the receiver-set builder (spec.md §4.6) for f, using
// the sender interface recorded on f.
func (m *Medium) buildReceivers(f *types.Frame) *types.ReceiverSet {
	sender, _ := m.IndexOf(f.Header.Addr2)
	return receiverset.Build(
		f, m.Interfaces, sender,
		m.Provider.Snr, m.Provider.ErrorProb,
		m.NoiseLevelDbm, m.CcaThresholdDbm,
		m.Fading, m.Rng,
	)
}

// OnDeliveryTimerExpiry runs the full delivery + catch-up algorithm of
// spec.md §4.5 steps 1-4, returning every frame delivered (the expired
// current transmission plus zero or more caught-up frames) in order, and
// whether a new current transmission remains armed (and at what time).
func (m *Medium) OnDeliveryTimerExpiry(now uint64) (deliveries []Delivery, timerArmed bool, armTime uint64) {
	for {
		expired := m.CurrentTransmission
		if expired == nil {
			return deliveries, false, 0
		}
		deliveries = append(deliveries, Delivery{Frame: expired, Receivers: m.buildReceivers(expired)})

		next, _ := m.Queues.PopHighestPriority()
		if next == nil {
			m.CurrentTransmission = nil
			return deliveries, false, 0
		}

		newEnd := m.EndTransmission + next.DurationUs
		m.CurrentTransmission = next
		m.EndTransmission = newEnd

		if newEnd >= now {
			return deliveries, true, newEnd
		}
		// newEnd < now: this frame is already stale: deliver it immediately
		// (no timer) and loop to catch up further, per spec.md §4.5 step 4.
	}
}

// Empty reports whether the medium has no current transmission and no
// queued frames, used by tests and diagnostics.
func (m *Medium) Empty() bool {
	return m.CurrentTransmission == nil && m.Queues.Empty()
}

// DebugDump summarizes a medium's configuration and queue depths; the daemon
// logs it at trace level on SIGHUP, mirroring the original daemon's
// dump_medium_info.
func (m *Medium) DebugDump() string {
	busy := m.CurrentTransmission != nil
	return fmt.Sprintf("medium=%d mode=%s interfaces=%d busy=%v queues(VO/VI/BE/BK)=%d/%d/%d/%d",
		m.Id, m.Mode, len(m.Interfaces), busy,
		m.Queues[types.AccessClassVO].Len(), m.Queues[types.AccessClassVI].Len(),
		m.Queues[types.AccessClassBE].Len(), m.Queues[types.AccessClassBK].Len())
}
