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

// Package rateoutcome simulates, for one frame, the multi-rate retry loop
// against the link's error model until the frame is acked or its retry set
// is exhausted, and computes the medium-occupancy duration, per spec.md
// §4.4. Grounded on the original daemon's queue_frame/pkt_duration pair.
package rateoutcome

import (
	"github.com/yawmd/yawmd-sim/linkquality"
	"github.com/yawmd/yawmd-sim/qos"
	"github.com/yawmd/yawmd-sim/types"
)

// Timing constants, in microseconds, per spec.md §4.4.
const (
	SlotTimeUs = 9
	SifsUs     = 16
	DifsUs     = 2*SlotTimeUs + SifsUs
	AckLenOctets = 14
)

// divRoundUp performs integer ceiling division, matching the original
// daemon's div_round helper.
func divRoundUp(numerator, denominator int) int {
	return (numerator + denominator - 1) / denominator
}

// PktDuration returns the on-air duration in microseconds of an `len`-octet
// frame sent at `rate` (units of 100 kbps), per spec.md §4.4.
func PktDuration(length int, rate int) int {
	return 16 + 4 + 4*divRoundUp((16+8*length+6)*10, 4*rate)
}

// Simulate runs the retry loop of spec.md §4.4 against f, consuming uniform
// draws from rng for each attempt, and writes Acked/SignalDbm/DurationUs
// (and the possibly-truncated retry set) back onto f.
//
// snr is the link SNR already adjusted by the fading sample, per spec.md
// §4.4 "SNR from link provider adjusted by a fading sample". noiseLevelDbm
// is the medium's configured noise floor.
func Simulate(f *types.Frame, snr int, noiseLevelDbm types.DbValue, bounds qos.Bounds, errorProb linkquality.ErrorProbFunc, src, dst types.InterfaceIndex, rng func() float64) {
	sendTime := 0
	cw := bounds.CwMin
	acked := false

	ackTimeUs := PktDuration(AckLenOctets, linkquality.IndexToRate(0, f.Freq)) + SifsUs

	lastEntry := 0
	lastAttempt := 0

entries:
	for i := 0; i < types.MaxRetryEntries; i++ {
		entry := f.Retries[i]
		if entry.Unused() {
			break
		}
		lastEntry = i

		pErr := errorProb(snr, entry.RateIdx, f.Freq, f.Length, src, dst)
		rate := linkquality.IndexToRate(entry.RateIdx, f.Freq)

		for j := 0; j < int(entry.Count); j++ {
			lastAttempt = j
			sendTime += DifsUs + PktDuration(f.Length, rate)

			if f.NoAck {
				acked = true
				break entries
			}

			if j > 0 {
				sendTime += (cw * SlotTimeUs) / 2
				cw = cw*2 + 1
				if cw > bounds.CwMax {
					cw = bounds.CwMax
				}
			}

			if rng() > pErr {
				acked = true
			}
			sendTime += ackTimeUs

			if acked {
				break entries
			}
		}
	}

	if acked {
		f.Retries[lastEntry].Count = uint8(lastAttempt + 1)
		for i := lastEntry + 1; i < types.MaxRetryEntries; i++ {
			f.Retries[i] = types.RetryEntry{RateIdx: -1, Count: 0}
		}
	}

	f.Acked = acked
	f.SignalDbm = float64(snr) + noiseLevelDbm
	f.DurationUs = uint64(sendTime)
}
