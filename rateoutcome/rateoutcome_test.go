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

package rateoutcome

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yawmd/yawmd-sim/linkquality"
	"github.com/yawmd/yawmd-sim/qos"
	"github.com/yawmd/yawmd-sim/types"
)

func alwaysSucceeds(snr int, rateIdx int8, freqMHz uint32, frameLen int, src, dst types.InterfaceIndex) float64 {
	return 0
}

func alwaysFails(snr int, rateIdx int8, freqMHz uint32, frameLen int, src, dst types.InterfaceIndex) float64 {
	return 1
}

func newFrame(length int, retries [types.MaxRetryEntries]types.RetryEntry) *types.Frame {
	return &types.Frame{Length: length, Freq: 2412, Retries: retries}
}

func twoEntryRetries(count0, count1 uint8) [types.MaxRetryEntries]types.RetryEntry {
	return [types.MaxRetryEntries]types.RetryEntry{
		{RateIdx: 0, Count: count0},
		{RateIdx: 1, Count: count1},
		{RateIdx: -1, Count: 0},
		{RateIdx: -1, Count: 0},
	}
}

func TestSimulate_S1_UnicastGuaranteedDelivery(t *testing.T) {
	f := newFrame(100, twoEntryRetries(1, 0))
	midDraws := func() float64 { return 0.5 }

	Simulate(f, 40, -91, qos.DefaultBounds[types.AccessClassBE], alwaysSucceeds, 0, 1, midDraws)

	assert.True(t, f.Acked)
	wantDuration := DifsUs + PktDuration(100, linkquality.IndexToRate(0, 2412)) + PktDuration(AckLenOctets, linkquality.IndexToRate(0, 2412)) + SifsUs
	assert.Equal(t, uint64(wantDuration), f.DurationUs)
	assert.Equal(t, types.DbValue(40-91), f.SignalDbm)
	assert.Equal(t, uint8(1), f.Retries[0].Count)
	assert.True(t, f.Retries[1].Unused())
}

func TestSimulate_S2_MulticastNoAck(t *testing.T) {
	f := newFrame(100, twoEntryRetries(1, 0))
	f.NoAck = true

	Simulate(f, 40, -91, qos.DefaultBounds[types.AccessClassBE], alwaysFails, 0, 1, func() float64 { return 0 })

	assert.True(t, f.Acked)
	assert.Equal(t, uint8(1), f.Retries[0].Count)
	wantDuration := DifsUs + PktDuration(100, linkquality.IndexToRate(0, 2412))
	assert.Equal(t, uint64(wantDuration), f.DurationUs)
}

func TestSimulate_S3_ExhaustedRetries(t *testing.T) {
	f := newFrame(100, twoEntryRetries(4, 4))
	neverAcks := func() float64 { return 1 } // rng() > pErr(=1) is never true

	Simulate(f, 40, -91, qos.DefaultBounds[types.AccessClassBE], alwaysFails, 0, 1, neverAcks)

	assert.False(t, f.Acked)
	assert.Equal(t, uint8(4), f.Retries[0].Count)
	assert.Equal(t, uint8(4), f.Retries[1].Count)
}

func TestSimulate_EmptyRetrySet(t *testing.T) {
	f := newFrame(100, [types.MaxRetryEntries]types.RetryEntry{{RateIdx: -1}})

	Simulate(f, 40, -91, qos.DefaultBounds[types.AccessClassBE], alwaysSucceeds, 0, 1, func() float64 { return 0 })

	assert.False(t, f.Acked)
	assert.Equal(t, uint64(0), f.DurationUs)
}

func TestSimulate_ProbabilityZeroAcksFirstAttempt(t *testing.T) {
	f := newFrame(50, twoEntryRetries(4, 4))
	Simulate(f, 40, -91, qos.DefaultBounds[types.AccessClassBE], alwaysSucceeds, 0, 1, func() float64 { return 0.5 })
	assert.True(t, f.Acked)
	assert.Equal(t, uint8(1), f.Retries[0].Count)
}

func TestPktDuration_CeilingDivision(t *testing.T) {
	d := PktDuration(100, 10)
	// (16+800+6)*10/40 = 205.5 rounds up to 206 symbols: 16+4+4*206.
	assert.Equal(t, 844, d)
}
