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

package linkquality

import "sort"

// legacyRatesTenthsMbps are the standard 802.11b/g legacy PHY rates, in
// units of 100 kbps, indexed by rate index 0..11: 1, 2, 5.5, 11 (DSSS),
// then 6, 9, 12, 18, 24, 36, 48, 54 (OFDM), all in Mbps.
var legacyRatesTenthsMbps = []int{10, 20, 55, 110, 60, 90, 120, 180, 240, 360, 480, 540}

// fiveGHzRatesTenthsMbps omits the 2.4 GHz-only DSSS rates, per 802.11a/5GHz
// operation which is OFDM-only.
var fiveGHzRatesTenthsMbps = []int{60, 90, 120, 180, 240, 360, 480, 540}

// IndexToRate resolves a rate index to its PHY bit rate in units of 100
// kbps, selecting the band-appropriate legacy rate table by frequency, per
// spec.md §4.4's `index_to_rate(rate_idx, freq)`.
func IndexToRate(rateIdx int8, freqMHz uint32) int {
	table := legacyRatesTenthsMbps
	if freqMHz >= 5000 {
		table = fiveGHzRatesTenthsMbps
	}
	idx := int(rateIdx)
	if idx < 0 {
		idx = 0
	}
	if idx >= len(table) {
		idx = len(table) - 1
	}
	return table[idx]
}

// snrPoint is one (SNR dB, packet-error-rate) breakpoint of a rate's curve.
type snrPoint struct {
	snr int
	per float64
}

// Curves holds, per legacy rate index, a monotonically-decreasing SNR→PER
// breakpoint table. Values between breakpoints are linearly interpolated;
// values outside the table clamp to its first/last entry.
//
// The production daemon's real curve lives outside this repository's
// reference sources (declared `extern`, defined in a file not shipped with
// this port's corpus); the breakpoints below are derived from the standard
// 802.11b/g receiver sensitivity figures for each legacy rate and are a
// deliberate approximation, not a byte-for-byte port.
type Curves struct {
	perRate map[int][]snrPoint
}

// NewDefaultCurves builds the default per-rate SNR→PER tables.
func NewDefaultCurves() *Curves {
	c := &Curves{perRate: make(map[int][]snrPoint)}
	// Lower-order (more robust) rates tolerate lower SNR before failing;
	// higher-order rates need more headroom. Breakpoints run from
	// "always fails" at low SNR to "never fails" at high SNR.
	base := []snrPoint{
		{snr: -4, per: 1.0},
		{snr: 0, per: 0.9},
		{snr: 4, per: 0.5},
		{snr: 8, per: 0.1},
		{snr: 12, per: 0.01},
		{snr: 16, per: 0.0},
	}
	for i, table := range [][]int{legacyRatesTenthsMbps, fiveGHzRatesTenthsMbps} {
		for idx, rate := range table {
			// Higher PHY rates shift the whole curve right by roughly
			// 2 dB per 6 Mbps step, reflecting their weaker coding.
			shift := (rate - table[0]) / 30
			shifted := make([]snrPoint, len(base))
			for j, p := range base {
				shifted[j] = snrPoint{snr: p.snr + shift, per: p.per}
			}
			key := idx
			if i == 1 {
				key = -(idx + 1) // disjoint key space for the 5 GHz table
			}
			c.perRate[key] = shifted
		}
	}
	return c
}

func (c *Curves) tableFor(rateIdx int8, freqMHz uint32) []snrPoint {
	idx := int(rateIdx)
	if idx < 0 {
		idx = 0
	}
	if freqMHz >= 5000 {
		if idx >= len(fiveGHzRatesTenthsMbps) {
			idx = len(fiveGHzRatesTenthsMbps) - 1
		}
		return c.perRate[-(idx + 1)]
	}
	if idx >= len(legacyRatesTenthsMbps) {
		idx = len(legacyRatesTenthsMbps) - 1
	}
	return c.perRate[idx]
}

// PacketErrorProbability returns the interpolated packet error probability
// for one transmission attempt at the given SNR/rate/frequency. frameLen is
// accepted for interface symmetry with spec.md §4.2 but does not perturb the
// curve (the table already represents whole-packet error rate).
func (c *Curves) PacketErrorProbability(snr int, rateIdx int8, freqMHz uint32, frameLen int) float64 {
	points := c.tableFor(rateIdx, freqMHz)
	if len(points) == 0 {
		return 0
	}
	if snr <= points[0].snr {
		return points[0].per
	}
	if snr >= points[len(points)-1].snr {
		return points[len(points)-1].per
	}
	i := sort.Search(len(points), func(i int) bool { return points[i].snr >= snr })
	lo, hi := points[i-1], points[i]
	frac := float64(snr-lo.snr) / float64(hi.snr-lo.snr)
	return lo.per + frac*(hi.per-lo.per)
}
