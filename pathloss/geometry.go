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

package pathloss

import (
	"math"

	"github.com/yawmd/yawmd-sim/types"
)

// minDistance is substituted for an exact zero separation so log10(d) never
// sees -Inf (spec.md §4.1 open question).
const minDistance = 1e-6

// Distance3 returns the Euclidean distance between a and b in 3D space, used
// by free-space, log-distance, log-normal-shadowing and ITU.
func Distance3(a, b types.Position) float64 {
	d := a.Sub(b)
	dist := math.Sqrt(d.X*d.X + d.Y*d.Y + d.Z*d.Z)
	if dist < minDistance {
		return minDistance
	}
	return dist
}

// DistanceXY returns the planar (X,Y only) Euclidean distance between a and
// b, used by two-ray-ground, whose Z coordinates instead serve as antenna
// heights (spec.md §4.1).
func DistanceXY(a, b types.Position) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dist := math.Sqrt(dx*dx + dy*dy)
	if dist < minDistance {
		return minDistance
	}
	return dist
}

// resolveFreqHz returns freqMHz converted to Hz, substituting ChannelOneFreqHz
// when the configured frequency is below the 0.1 (MHz) reference threshold.
func resolveFreqHz(freqMHz float64) float64 {
	if freqMHz < 0.1 {
		return ChannelOneFreqHz
	}
	return freqMHz * 1e6
}

// resolveFreqMHz returns freqMHz unchanged, substituting ChannelOneFreqMHz
// when below the 0.1 threshold. Used only by the ITU model, which per
// spec.md §4.1 operates on frequency expressed in MHz directly.
func resolveFreqMHz(freqMHz float64) float64 {
	if freqMHz < 0.1 {
		return ChannelOneFreqMHz
	}
	return freqMHz
}
