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

// paround truncates a path-loss result toward zero to an integer dBm value,
// per spec.md §4.1 ("all returning path loss in dBm as an integer
// (truncation toward zero)") and the original daemon's `(int)` cast.
func paround(v float64) float64 {
	return math.Trunc(v)
}

// FreeSpace implements the Friis free-space path-loss formula:
// PL = 10*log10((4*pi*d)^2 * systemLoss / lambda^2), lambda = c/f.
func FreeSpace(a, b types.Position, freqMHz float64, p Params) float64 {
	f := resolveFreqHz(freqMHz)
	d := Distance3(a, b)
	lambda := SpeedOfLight / f
	numerator := math.Pow(4*math.Pi*d, 2) * p.SystemLoss
	denominator := lambda * lambda
	return paround(10 * math.Log10(numerator/denominator))
}

// freeSpaceAtOneMetre returns the free-space loss at a 1-metre reference
// distance, PL0 = 20*log10(4*pi*f/c), shared by log-distance and
// log-normal-shadowing.
func freeSpaceAtOneMetre(freqMHz float64) float64 {
	f := resolveFreqHz(freqMHz)
	return 20 * math.Log10(4*math.Pi*f/SpeedOfLight)
}

// LogDistance implements the log-distance path-loss model:
// PL = PL0 + 10*n*log10(d) + Xg.
func LogDistance(a, b types.Position, freqMHz float64, p Params) float64 {
	pl0 := freeSpaceAtOneMetre(freqMHz)
	d := Distance3(a, b)
	return paround(pl0 + 10*p.PathLossExponent*math.Log10(d) + p.Xg)
}

// LogNormalShadowing implements the log-normal-shadowing path-loss model:
// PL = PL0 + 10*n*log10(d) - X, where X is a zero-mean Gaussian shadowing
// sample drawn fresh on each call.
//
// The original daemon hardcodes this term to the constant 1 (flagged there
// as unresolved). This port instead draws a genuine Gaussian sample, since
// a constant offset provides no shadowing variance at all.
func LogNormalShadowing(a, b types.Position, freqMHz float64, p Params, gaussian func() float64) float64 {
	pl0 := freeSpaceAtOneMetre(freqMHz)
	d := Distance3(a, b)
	return paround(pl0 + 10*p.PathLossExponent*math.Log10(d) - gaussian())
}

// Itu implements the ITU indoor path-loss model:
// PL = 20*log10(f_MHz) + N*log10(d) + LF*nFloors - 28.
//
// N defaults to 28, becomes 38 once d exceeds 16m, and is overridden by
// p.PowerLossCoefficient whenever that is non-zero.
func Itu(a, b types.Position, freqMHz float64, p Params) float64 {
	f := resolveFreqMHz(freqMHz)
	d := Distance3(a, b)

	n := 28.0
	if d > 16 {
		n = 38.0
	}
	if p.PowerLossCoefficient != 0 {
		n = p.PowerLossCoefficient
	}

	pl := 20*math.Log10(f) + n*math.Log10(d) + p.FloorPenFactor*float64(p.NFloors) - 28
	return paround(pl)
}

// TwoRayGround implements the two-ray ground-reflection path-loss model:
// PL = 10*log10((h1*h2)^2) - 10*log10(d^4) - 10*log10(systemLoss), where the
// antenna heights h1, h2 are taken from each interface's Z coordinate and d
// is the planar (X,Y) distance.
func TwoRayGround(a, b types.Position, p Params) float64 {
	d := DistanceXY(a, b)
	heights := math.Pow(a.Z*b.Z, 2)
	pl := 10*math.Log10(heights) - 10*math.Log10(math.Pow(d, 4)) - 10*math.Log10(p.SystemLoss)
	return paround(pl)
}

// Compute dispatches to the path-loss formula named by model, per spec.md §4.1.
func Compute(model types.PathLossModelName, a, b types.Position, freqMHz float64, p Params, gaussian func() float64) float64 {
	switch model {
	case types.PathLossFreeSpace:
		return FreeSpace(a, b, freqMHz, p)
	case types.PathLossLogDistance:
		return LogDistance(a, b, freqMHz, p)
	case types.PathLossLogNormalShadowing:
		return LogNormalShadowing(a, b, freqMHz, p, gaussian)
	case types.PathLossItu:
		return Itu(a, b, freqMHz, p)
	case types.PathLossTwoRayGround:
		return TwoRayGround(a, b, p)
	default:
		return FreeSpace(a, b, freqMHz, p)
	}
}
