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

// Package pathloss implements the pure, side-effect-free geometry and
// path-loss functions of spec.md §4.1: Euclidean/planar distance, the five
// path-loss formulas, and the fading sample.
package pathloss

// SpeedOfLight is the speed of light in a vacuum, in metres/second.
const SpeedOfLight = 2.99792458e8

// ChannelOneFreqHz is the reference frequency substituted whenever an
// interface's configured frequency is below the 0.1 threshold, expressed in
// Hz, used by the three formulas that operate on Hz-scale frequency
// (free-space, log-distance, log-normal-shadowing).
const ChannelOneFreqHz = 2.412e9

// ChannelOneFreqMHz is the same reference frequency in MHz, used by the ITU
// model, which per spec.md §4.1 "uses MHz directly".
const ChannelOneFreqMHz = 2412.0

// Params holds the per-medium path-loss model parameters of spec.md §6
// ("model_params"). Only the fields relevant to the medium's chosen
// ModelName need be set; the rest are ignored.
type Params struct {
	SystemLoss           float64 // linear multiplicative factor (see DESIGN.md open-question decision)
	PathLossExponent     float64 // "n" in log-distance / log-normal-shadowing
	Xg                   float64 // log-distance shadow term
	NFloors              int     // ITU: number of floors
	FloorPenFactor       float64 // ITU: floor penetration loss factor "LF"
	PowerLossCoefficient float64 // ITU: overrides N when non-zero
}

// DefaultParams returns Params with the neutral defaults (no additional
// loss/shadowing) a medium_plan should start from before applying configured
// overrides.
func DefaultParams() Params {
	return Params{SystemLoss: 1.0}
}
