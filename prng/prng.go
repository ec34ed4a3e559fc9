// Copyright (c) 2024, The OTNS Authors.
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

// Package prng seeds one reproducible random source per medium, the way a
// simulation seeds one per node: a single root seed (0 meaning "pick one
// from the clock") mints the rest deterministically, so a run can be
// replayed bit-for-bit by fixing the root seed.
package prng

import (
	"math/rand"
	"time"
)

var rootGenerator *rand.Rand

// Init seeds the package, either from a fixed root seed (rootSeed != 0) or a
// time-based one (rootSeed == 0).
func Init(rootSeed int64) {
	if rootSeed == 0 {
		rootSeed = time.Now().UnixNano()
	}
	rootGenerator = rand.New(rand.NewSource(rootSeed))
}

// NewMediumSeed mints a unique seed for a medium's Source, derived from the
// package's root generator.
func NewMediumSeed() int64 {
	return rootGenerator.Int63()
}

// Source is one medium's private random stream, feeding the rate-outcome
// simulator's ack draws, the receiver-set builder's per-receiver
// draws, the fading sample, and log-normal shadowing's Gaussian term.
type Source struct {
	rng *rand.Rand
}

// NewSource creates a Source seeded with seed.
func NewSource(seed int64) *Source {
	return &Source{rng: rand.New(rand.NewSource(seed))}
}

// Uniform draws a uniform variate in [0,1).
func (s *Source) Uniform() float64 {
	return s.rng.Float64()
}

// Gaussian draws a standard-normal variate, used for shadowing noise in
// log-normal path-loss computation.
func (s *Source) Gaussian() float64 {
	return s.rng.NormFloat64()
}
