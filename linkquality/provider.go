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

// Package linkquality binds the two per-medium capabilities spec.md §4.2
// requires: resolving SNR between two interfaces, and the probability that a
// given transmission attempt is lost. Both are decided once, at medium
// configuration time, per spec.md §9's "function-pointer strategy table"
// note — expressed here as a struct of closures rather than an interface
// with several implementations, since a medium's mode never changes after
// load.
package linkquality

import "github.com/yawmd/yawmd-sim/types"

// SnrFunc resolves the SNR (dB) the receiver at dst would see from src.
type SnrFunc func(src, dst types.InterfaceIndex) int

// ErrorProbFunc returns the probability, in [0,1], that an attempt at the
// given SNR/rate/frequency/length is not received correctly. src/dst are
// passed through for modes that key lookups by interface pair; curve-based
// modes ignore them.
type ErrorProbFunc func(snr int, rateIdx int8, freqMHz uint32, frameLen int, src, dst types.InterfaceIndex) float64

// Provider is the pair of capabilities bound to one medium at configure
// time, per spec.md §4.2.
type Provider struct {
	Snr       SnrFunc
	ErrorProb ErrorProbFunc
}

// NewConstantSnr returns a SnrFunc that always answers DEFAULT_SNR,
// used when a medium's snr-table mode configures no matrix.
func NewConstantSnr(defaultSnr int) SnrFunc {
	return func(src, dst types.InterfaceIndex) int {
		return defaultSnr
	}
}

// NewMatrixSnr returns a SnrFunc backed by an N*N row-major SNR matrix, per
// spec.md §3 ("N×N integer SNR matrix"). The matrix is captured by
// reference so path-loss mode's periodic refresh (spec.md §4.7) is visible
// to every caller without rebinding the closure.
func NewMatrixSnr(matrix *[]int, n int) SnrFunc {
	return func(src, dst types.InterfaceIndex) int {
		return (*matrix)[src*n+dst]
	}
}

// NewMatrixErrorProb returns an ErrorProbFunc backed by an N*N row-major
// probability matrix (spec.md §4.2 "prob_matrix"); path arguments beyond the
// interface pair are ignored. dst is the sentinel -1 for multicast/absent
// receivers (spec.md §4.2); there is no row for that, so it always reports 0.
func NewMatrixErrorProb(matrix []float64, n int) ErrorProbFunc {
	return func(snr int, rateIdx int8, freqMHz uint32, frameLen int, src, dst types.InterfaceIndex) float64 {
		if dst < 0 {
			return 0
		}
		return matrix[src*n+dst]
	}
}

// NewCurveErrorProb returns an ErrorProbFunc computed from a fixed SNR→BER
// curve keyed by (rate index, frequency), used by snr-table and path-loss
// modes, per spec.md §4.2. frameLen is passed through to the curves but does
// not change the result.
func NewCurveErrorProb(curves *Curves) ErrorProbFunc {
	return func(snr int, rateIdx int8, freqMHz uint32, frameLen int, src, dst types.InterfaceIndex) float64 {
		return curves.PacketErrorProbability(snr, rateIdx, freqMHz, frameLen)
	}
}
