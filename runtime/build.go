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

// Package runtime builds the engine from a validated configuration and drives
// it, in either of the two concurrency modes of spec.md §5: a single
// cooperative event loop, or one worker per medium. The construction step
// follows a single config-to-engine wiring pass, generalized from one
// global simulation clock to one independent clock per medium.
package runtime

import (
	"github.com/yawmd/yawmd-sim/config"
	"github.com/yawmd/yawmd-sim/linkquality"
	"github.com/yawmd/yawmd-sim/logger"
	"github.com/yawmd/yawmd-sim/medium"
	"github.com/yawmd/yawmd-sim/mobility"
	"github.com/yawmd/yawmd-sim/pathloss"
	"github.com/yawmd/yawmd-sim/prng"
	"github.com/yawmd/yawmd-sim/types"
)

// Engine is one fully-built medium plus the mobility driver that moves it,
// if the plan calls for one.
type Engine struct {
	Medium          *medium.Medium
	Mobility        *mobility.Driver // nil unless the plan has mobility (spec.md §4.7)
	LogLevel        int
	MoveIntervalSec float64
}

// Build constructs one Engine from a validated plan, per spec.md §9's
// "parsing-and-engine split": config is consulted once, here, and never
// again.
func Build(plan config.MediumPlan) *Engine {
	interfaces := make([]*types.Interface, len(plan.Interfaces))
	for i, pi := range plan.Interfaces {
		interfaces[i] = &types.Interface{
			Index:         i,
			MAC:           pi.MAC,
			Position:      pi.Position,
			Direction:     pi.Direction,
			TxPowerDbm:    pi.TxPowerDbm,
			AntennaGainDb: pi.AntennaGainDb,
			IsAP:          pi.IsAP,
		}
	}

	m := medium.New(plan.ID, interfaces)
	m.Mode = plan.Mode
	m.NoiseLevelDbm = plan.NoiseLevelDbm
	m.CcaThresholdDbm = plan.CCAThresholdDbm

	source := prng.NewSource(prng.NewMediumSeed())
	m.Rng = source.Uniform

	var mob *mobility.Driver
	n := len(interfaces)

	switch plan.Mode {
	case types.LinkModeSnrTable:
		var snr linkquality.SnrFunc
		if len(plan.SnrLinks) == 0 {
			snr = linkquality.NewConstantSnr(plan.DefaultSnr)
		} else {
			matrix := buildIntMatrix(n, plan.DefaultSnr, plan.SnrLinks)
			snr = linkquality.NewMatrixSnr(&matrix, n)
		}
		m.Provider = linkquality.Provider{
			Snr:       snr,
			ErrorProb: linkquality.NewCurveErrorProb(linkquality.NewDefaultCurves()),
		}

	case types.LinkModeProbTable:
		probMatrix := buildFloatMatrix(n, plan.DefaultProbability, plan.ProbLinks)
		m.Provider = linkquality.Provider{
			Snr:       linkquality.NewConstantSnr(types.FallbackSnrDbm),
			ErrorProb: linkquality.NewMatrixErrorProb(probMatrix, n),
		}

	case types.LinkModePathLoss:
		m.Fading = func() types.DbValue {
			return pathloss.Sample(plan.FadingCoefficient, source.Uniform)
		}
		driver := &mobility.Driver{
			Interfaces:    interfaces,
			Matrix:        make([]int, n*n),
			Model:         plan.PathLossModel,
			Params:        plan.PathLossParams,
			NoiseLevelDbm: plan.NoiseLevelDbm,
			Gaussian:      source.Gaussian,
		}
		driver.Recompute() // populate from configured positions before any move tick, mobile or not
		m.SnrMatrix = driver.Matrix
		m.Provider = linkquality.Provider{
			Snr:       linkquality.NewMatrixSnr(&m.SnrMatrix, n),
			ErrorProb: linkquality.NewCurveErrorProb(linkquality.NewDefaultCurves()),
		}
		// Engine.Mobility stays nil for a static path-loss medium (no
		// interface has a direction vector): the matrix above is already
		// final, and leaving Mobility nil keeps the runtime from arming a
		// move timer that would just recompute the same matrix forever.
		if plan.HasMobility() {
			mob = driver
		}
	}

	logger.GetMediumLogger(plan.ID).CurrentLevel = logger.Level(plan.LogLevel)

	return &Engine{Medium: m, Mobility: mob, LogLevel: plan.LogLevel, MoveIntervalSec: plan.MoveIntervalSec}
}

// BuildAll builds one Engine per plan.
func BuildAll(plans []config.MediumPlan) []*Engine {
	engines := make([]*Engine, len(plans))
	for i, p := range plans {
		engines[i] = Build(p)
	}
	return engines
}

func buildIntMatrix(n, defaultValue int, links []config.Link) []int {
	m := make([]int, n*n)
	for i := range m {
		m[i] = defaultValue
	}
	for _, l := range links {
		if l.Src < 0 || l.Src >= n || l.Dst < 0 || l.Dst >= n {
			continue
		}
		m[l.Src*n+l.Dst] = int(l.Value)
	}
	return m
}

func buildFloatMatrix(n int, defaultValue float64, links []config.Link) []float64 {
	m := make([]float64, n*n)
	for i := range m {
		m[i] = defaultValue
	}
	for _, l := range links {
		if l.Src < 0 || l.Src >= n || l.Dst < 0 || l.Dst >= n {
			continue
		}
		m[l.Src*n+l.Dst] = l.Value
	}
	return m
}
