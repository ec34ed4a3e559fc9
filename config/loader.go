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
	"fmt"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/yawmd/yawmd-sim/pathloss"
	"github.com/yawmd/yawmd-sim/types"
)

// Load reads, parses and validates the configuration file at path, per
// spec.md §6/§7 ("configuration error ... process fails to start").
func Load(path string) ([]MediumPlan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config %s", path)
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrapf(err, "parsing config %s", path)
	}

	plans := make([]MediumPlan, 0, len(doc.Medium))
	seenIDs := make(map[int]bool)
	seenMACs := make(map[types.MacAddress]bool)

	for _, rec := range doc.Medium {
		if seenIDs[rec.ID] {
			return nil, errors.Errorf("medium %d: duplicate id", rec.ID)
		}
		seenIDs[rec.ID] = true

		plan, err := buildPlan(rec, seenMACs)
		if err != nil {
			return nil, errors.Wrapf(err, "medium %d", rec.ID)
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

func buildPlan(rec MediumRecord, seenMACs map[types.MacAddress]bool) (MediumPlan, error) {
	plan := MediumPlan{
		ID:              rec.ID,
		NoiseLevelDbm:   types.DefaultNoiseLevelDbm,
		CCAThresholdDbm: types.DefaultCCAThresholdDbm,
		MoveIntervalSec: types.DefaultMoveIntervalSec,
		LogLevel:        6,
	}

	ifaces := make([]PlannedInterface, len(rec.Interfaces))
	for i, s := range rec.Interfaces {
		mac, err := parseMac(s)
		if err != nil {
			return plan, err
		}
		if seenMACs[mac] {
			return plan, errors.Errorf("interface %s: duplicate MAC across mediums", s)
		}
		seenMACs[mac] = true
		ifaces[i] = PlannedInterface{MAC: mac}
	}

	switch rec.Model.Type {
	case "snr":
		plan.Mode = types.LinkModeSnrTable
		if rec.Model.DefaultSnr != nil {
			plan.DefaultSnr = *rec.Model.DefaultSnr
		}
		plan.SnrLinks = rec.Model.Links
	case "prob":
		plan.Mode = types.LinkModeProbTable
		if rec.Model.DefaultProbability != nil {
			plan.DefaultProbability = *rec.Model.DefaultProbability
		}
		plan.ProbLinks = rec.Model.Links
	case "path_loss":
		plan.Mode = types.LinkModePathLoss
		if err := fillPathLossPlan(&plan, rec.Model, ifaces); err != nil {
			return plan, err
		}
	default:
		return plan, errors.Errorf(`model.type must be one of "snr", "prob", "path_loss", got %q`, rec.Model.Type)
	}

	if rec.Model.CCAThreshold != nil {
		plan.CCAThresholdDbm = types.DbValue(*rec.Model.CCAThreshold)
	}
	if rec.Model.LogLevel != nil {
		plan.LogLevel = *rec.Model.LogLevel
	}

	plan.Interfaces = ifaces
	return plan, nil
}

func fillPathLossPlan(plan *MediumPlan, m Model, ifaces []PlannedInterface) error {
	n := len(ifaces)
	if len(m.Positions) != n {
		return errors.Errorf("path_loss requires one position per interface (%d interfaces, %d positions)", n, len(m.Positions))
	}
	if len(m.TxPowers) != n {
		return errors.Errorf("path_loss requires one tx_power per interface (%d interfaces, %d tx_powers)", n, len(m.TxPowers))
	}

	for i := range ifaces {
		ifaces[i].Position = types.Position(m.Positions[i])
		ifaces[i].TxPowerDbm = types.DbValue(m.TxPowers[i])
		if i < len(m.Directions) {
			ifaces[i].Direction = types.Position(m.Directions[i])
		}
		if i < len(m.AntennaGain) {
			ifaces[i].AntennaGainDb = types.DbValue(m.AntennaGain[i])
		}
		if i < len(m.IsNodeAPs) {
			ifaces[i].IsAP = m.IsNodeAPs[i]
		}
	}

	model, err := parsePathLossModel(m.ModelName)
	if err != nil {
		return err
	}
	plan.PathLossModel = model
	plan.PathLossParams = pathloss.Params{
		SystemLoss:           m.ModelParams.SystemLoss,
		PathLossExponent:     m.ModelParams.PathLossExponent,
		Xg:                   m.ModelParams.Xg,
		NFloors:              m.ModelParams.NFloors,
		FloorPenFactor:       m.ModelParams.FloorPenFactor,
		PowerLossCoefficient: m.ModelParams.PowerLossCoefficient,
	}
	if plan.PathLossParams.SystemLoss == 0 {
		plan.PathLossParams.SystemLoss = 1.0 // linear identity factor, see DESIGN.md
	}

	if m.SimulateInterference != nil {
		plan.SimulateInterference = *m.SimulateInterference
	}
	if m.NoiseLevel != nil {
		plan.NoiseLevelDbm = types.DbValue(*m.NoiseLevel)
	}
	if m.FadingCoefficient != nil {
		plan.FadingCoefficient = *m.FadingCoefficient
	}
	if m.MoveInterval != nil {
		if *m.MoveInterval <= 0 {
			return errors.New("move_interval must be > 0")
		}
		plan.MoveIntervalSec = *m.MoveInterval
	}
	return nil
}

func parsePathLossModel(name string) (types.PathLossModelName, error) {
	switch name {
	case "free_space":
		return types.PathLossFreeSpace, nil
	case "log_distance":
		return types.PathLossLogDistance, nil
	case "log_normal_shadowing":
		return types.PathLossLogNormalShadowing, nil
	case "itu":
		return types.PathLossItu, nil
	case "two_ray_ground":
		return types.PathLossTwoRayGround, nil
	default:
		return 0, errors.Errorf("unknown model_name %q", name)
	}
}

func parseMac(s string) (types.MacAddress, error) {
	var mac types.MacAddress
	n, err := fmt.Sscanf(s, "%02x:%02x:%02x:%02x:%02x:%02x",
		&mac[0], &mac[1], &mac[2], &mac[3], &mac[4], &mac[5])
	if err != nil || n != 6 {
		return mac, errors.Errorf("invalid MAC address %q", s)
	}
	return mac, nil
}
