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

import "math"

// irwinHallTerms is the number of uniform draws summed by Sample, per
// spec.md §4.1's 12-term Irwin-Hall approximation to a standard normal.
const irwinHallTerms = 12

// Sample draws one fading offset in dB: coefficient * (sum of 12 uniform
// [0,1) draws - 6), which approximates coefficient times a standard normal
// variate without requiring an erf/inverse-erf implementation, truncated
// toward zero to an integer dBm value as the original daemon does. Returns 0
// without drawing when coefficient is 0, so a medium with fading disabled
// never perturbs its RNG stream.
func Sample(coefficient int, uniform func() float64) float64 {
	if coefficient == 0 {
		return 0
	}
	sum := 0.0
	for i := 0; i < irwinHallTerms; i++ {
		sum += uniform()
	}
	return math.Trunc(float64(coefficient) * (sum - 6))
}
