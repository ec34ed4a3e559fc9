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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/yawmd/yawmd-sim/types"
)

func TestDistance3(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 0}
	b := types.Position{X: 3, Y: 4, Z: 0}
	assert.Equal(t, 5.0, Distance3(a, b))
}

func TestDistance3_ZeroClamped(t *testing.T) {
	a := types.Position{X: 1, Y: 1, Z: 1}
	assert.Equal(t, minDistance, Distance3(a, a))
}

func TestDistanceXY_IgnoresZ(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 10}
	b := types.Position{X: 3, Y: 4, Z: 100}
	assert.Equal(t, 5.0, DistanceXY(a, b))
}

func TestResolveFreq_SubstitutesChannelOne(t *testing.T) {
	assert.Equal(t, ChannelOneFreqHz, resolveFreqHz(0))
	assert.Equal(t, ChannelOneFreqMHz, resolveFreqMHz(0))
	assert.Equal(t, 2400e6, resolveFreqHz(2400))
	assert.Equal(t, 2400.0, resolveFreqMHz(2400))
}

func TestFreeSpace_IncreasesWithDistance(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 0}
	near := types.Position{X: 1, Y: 0, Z: 0}
	far := types.Position{X: 100, Y: 0, Z: 0}
	p := DefaultParams()

	plNear := FreeSpace(a, near, 2400, p)
	plFar := FreeSpace(a, far, 2400, p)
	assert.Greater(t, plFar, plNear)
}

func TestLogDistance_MatchesFreeSpaceAtOneMetre(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 0}
	b := types.Position{X: 1, Y: 0, Z: 0}
	p := Params{SystemLoss: 1.0, PathLossExponent: 2.0}

	got := LogDistance(a, b, 2400, p)
	want := paround(freeSpaceAtOneMetre(2400))
	assert.InDelta(t, want, got, 0.01)
}

func TestLogNormalShadowing_SubtractsGaussianTerm(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 0}
	b := types.Position{X: 10, Y: 0, Z: 0}
	p := Params{SystemLoss: 1.0, PathLossExponent: 3.0}

	withZero := LogNormalShadowing(a, b, 2400, p, func() float64 { return 0 })
	withPositive := LogNormalShadowing(a, b, 2400, p, func() float64 { return 5 })
	assert.Less(t, withPositive, withZero)
}

func TestItu_StepsNAt16Metres(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 0}
	near := types.Position{X: 10, Y: 0, Z: 0}
	far := types.Position{X: 20, Y: 0, Z: 0}
	p := Params{}

	plNear := Itu(a, near, 2400, p)
	plFar := Itu(a, far, 2400, p)
	assert.Greater(t, plFar, plNear)
}

func TestItu_PowerLossCoefficientOverridesN(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 0}
	b := types.Position{X: 10, Y: 0, Z: 0}
	base := Itu(a, b, 2400, Params{})
	overridden := Itu(a, b, 2400, Params{PowerLossCoefficient: 50})
	assert.NotEqual(t, base, overridden)
}

func TestItu_FloorPenaltyAddsLoss(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 0}
	b := types.Position{X: 10, Y: 0, Z: 0}
	noFloors := Itu(a, b, 2400, Params{})
	withFloors := Itu(a, b, 2400, Params{NFloors: 2, FloorPenFactor: 15})
	assert.Greater(t, withFloors, noFloors)
}

func TestTwoRayGround_UsesZAsAntennaHeight(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 1.5}
	b := types.Position{X: 50, Y: 0, Z: 1.5}
	p := Params{SystemLoss: 1.0}

	got := TwoRayGround(a, b, p)
	assert.False(t, math.IsNaN(got))
	assert.False(t, math.IsInf(got, 0))
}

func TestCompute_Dispatch(t *testing.T) {
	a := types.Position{X: 0, Y: 0, Z: 1}
	b := types.Position{X: 10, Y: 0, Z: 1}
	p := Params{SystemLoss: 1.0, PathLossExponent: 2.0}
	gaussian := func() float64 { return 0 }

	assert.Equal(t, FreeSpace(a, b, 2400, p), Compute(types.PathLossFreeSpace, a, b, 2400, p, gaussian))
	assert.Equal(t, LogDistance(a, b, 2400, p), Compute(types.PathLossLogDistance, a, b, 2400, p, gaussian))
	assert.Equal(t, Itu(a, b, 2400, p), Compute(types.PathLossItu, a, b, 2400, p, gaussian))
	assert.Equal(t, TwoRayGround(a, b, p), Compute(types.PathLossTwoRayGround, a, b, 2400, p, gaussian))
}

func TestSample_ZeroCoefficientSkipsDraw(t *testing.T) {
	called := false
	uniform := func() float64 { called = true; return 0.5 }
	assert.Equal(t, 0.0, Sample(0, uniform))
	assert.False(t, called)
}

func TestSample_AllHalfDrawsYieldsZero(t *testing.T) {
	uniform := func() float64 { return 0.5 }
	assert.Equal(t, 0.0, Sample(4, uniform))
}

func TestSample_ScalesByCoefficient(t *testing.T) {
	uniform := func() float64 { return 1.0 }
	assert.Equal(t, 3*float64(irwinHallTerms-6), Sample(3, uniform))
}
