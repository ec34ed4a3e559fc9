// Copyright (c) 2020-2024, The OTNS Authors.
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

package config

import (
	"github.com/yawmd/yawmd-sim/pathloss"
	"github.com/yawmd/yawmd-sim/types"
)

// MediumPlan is the fully-validated, immutable output of Load, per spec.md
// §9's "parsing-and-engine split": a pure function from text to plan, with
// the engine never touching raw config again.
type MediumPlan struct {
	ID         types.MediumId
	Interfaces []PlannedInterface

	Mode types.LinkQualityMode

	DefaultSnr         int
	SnrLinks           []Link
	DefaultProbability float64
	ProbLinks          []Link

	PathLossModel  types.PathLossModelName
	PathLossParams pathloss.Params

	SimulateInterference bool
	NoiseLevelDbm        types.DbValue
	CCAThresholdDbm      types.DbValue
	FadingCoefficient    int
	MoveIntervalSec      float64
	LogLevel             int
}

// PlannedInterface is one validated interface entry of a MediumPlan.
type PlannedInterface struct {
	MAC           types.MacAddress
	Position      types.Position
	Direction     types.Position
	TxPowerDbm    types.DbValue
	AntennaGainDb types.DbValue
	IsAP          bool
}

// HasMobility reports whether this plan's interfaces carry direction
// vectors, enabling the mobility driver per spec.md §4.7.
func (p *MediumPlan) HasMobility() bool {
	if p.Mode != types.LinkModePathLoss {
		return false
	}
	for _, iface := range p.Interfaces {
		if iface.Direction != (types.Position{}) {
			return true
		}
	}
	return false
}
