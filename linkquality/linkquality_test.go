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

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstantSnr(t *testing.T) {
	snr := NewConstantSnr(40)
	assert.Equal(t, 40, snr(0, 1))
	assert.Equal(t, 40, snr(3, 7))
}

func TestMatrixSnr_ReadsThroughPointer(t *testing.T) {
	matrix := []int{0, 10, 20, 0}
	snr := NewMatrixSnr(&matrix, 2)
	assert.Equal(t, 10, snr(0, 1))
	matrix[1] = 99 // simulates a mobility-driver refresh (spec.md §4.7)
	assert.Equal(t, 99, snr(0, 1))
}

func TestMatrixErrorProb(t *testing.T) {
	matrix := []float64{0, 0.5, 0.25, 0}
	prob := NewMatrixErrorProb(matrix, 2)
	assert.Equal(t, 0.5, prob(0, 0, 2412, 100, 0, 1))
	assert.Equal(t, 0.25, prob(0, 0, 2412, 100, 1, 0))
}

func TestIndexToRate_BandSelection(t *testing.T) {
	assert.Equal(t, 10, IndexToRate(0, 2412))  // 1 Mbps DSSS on 2.4 GHz
	assert.Equal(t, 60, IndexToRate(0, 5180))  // 6 Mbps OFDM on 5 GHz
	assert.Equal(t, 540, IndexToRate(11, 2412))
}

func TestIndexToRate_ClampsOutOfRange(t *testing.T) {
	assert.Equal(t, IndexToRate(11, 2412), IndexToRate(99, 2412))
	assert.Equal(t, IndexToRate(0, 2412), IndexToRate(-1, 2412))
}

func TestCurves_MonotonicWithSnr(t *testing.T) {
	c := NewDefaultCurves()
	low := c.PacketErrorProbability(-10, 0, 2412, 100)
	mid := c.PacketErrorProbability(4, 0, 2412, 100)
	high := c.PacketErrorProbability(30, 0, 2412, 100)
	assert.GreaterOrEqual(t, low, mid)
	assert.GreaterOrEqual(t, mid, high)
	assert.Equal(t, 1.0, low)
	assert.Equal(t, 0.0, high)
}

func TestCurves_HigherRateNeedsMoreSnr(t *testing.T) {
	c := NewDefaultCurves()
	lowRate := c.PacketErrorProbability(6, 0, 2412, 100)
	highRate := c.PacketErrorProbability(6, 11, 2412, 100)
	assert.GreaterOrEqual(t, highRate, lowRate)
}

func TestNewCurveErrorProb_Wraps(t *testing.T) {
	c := NewDefaultCurves()
	f := NewCurveErrorProb(c)
	assert.Equal(t, c.PacketErrorProbability(4, 0, 2412, 100), f(4, 0, 2412, 100, 0, 1))
}
