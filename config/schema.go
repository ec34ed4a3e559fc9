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

// Package config reads and validates the yaml configuration schema of
// spec.md §6 and produces immutable MediumPlan records, per spec.md §9's
// "parsing-and-engine split". The yaml struct-tag convention and defaulting
// pattern follows this codebase's usual config idiom, with the exact
// defaults each key falls back to when omitted taken from
// original_source/yawmd/config.c.
package config

// Link is one explicit `(src_idx, dst_idx, value)` override entry, used by
// both snr and prob model types, per spec.md §6.
type Link struct {
	Src   int     `yaml:"src"`
	Dst   int     `yaml:"dst"`
	Value float64 `yaml:"value"`
}

// ModelParams mirrors spec.md §6's `model_params` group; only the fields
// relevant to the chosen ModelName are meaningful.
type ModelParams struct {
	SystemLoss           float64 `yaml:"system_loss"`
	PathLossExponent     float64 `yaml:"path_loss_exponent"`
	Xg                   float64 `yaml:"xg"`
	NFloors              int     `yaml:"n_floors"`
	FloorPenFactor       float64 `yaml:"floor_pen_factor"`
	PowerLossCoefficient float64 `yaml:"power_loss_coefficient"`
}

// Position is one `(x,y,z)` metres triple, per spec.md §6.
type Position struct {
	X, Y, Z float64
}

// Direction is one `(dx,dy,dz)` per-tick delta, per spec.md §6.
type Direction struct {
	X, Y, Z float64
}

// Model is the `model` group of one medium record, per spec.md §6.
type Model struct {
	Type string `yaml:"type"` // "snr" | "prob" | "path_loss"

	// snr
	DefaultSnr *int   `yaml:"default_snr"`
	Links      []Link `yaml:"links"`

	// prob
	DefaultProbability *float64 `yaml:"default_probability"`

	// path_loss
	Positions            []Position  `yaml:"positions"`
	TxPowers             []int       `yaml:"tx_powers"`
	ModelName            string      `yaml:"model_name"`
	ModelParams          ModelParams `yaml:"model_params"`
	SimulateInterference *bool       `yaml:"simulate_interference"`
	NoiseLevel           *int        `yaml:"noise_level"`
	FadingCoefficient    *int        `yaml:"fading_coefficient"`
	MoveInterval         *float64    `yaml:"move_interval"`
	Directions           []Direction `yaml:"directions"`
	AntennaGain          []int       `yaml:"antenna_gain"`
	IsNodeAPs            []bool      `yaml:"isnodeaps"`

	// CCAThreshold and LogLevel are supplemented keys beyond the
	// distilled schema (original_source/yawmd/config.h's
	// DEFAULT_CCA_THRESHOLD, and a per-medium log-level override), per
	// SPEC_FULL.md's supplemented-features section.
	CCAThreshold *int `yaml:"cca_threshold"`
	LogLevel     *int `yaml:"log_level"`
}

// MediumRecord is one entry of the top-level `medium` list, per spec.md §6.
type MediumRecord struct {
	ID         int      `yaml:"id"`
	Interfaces []string `yaml:"interfaces"`
	Model      Model    `yaml:"model"`
}

// Document is the top-level configuration file, per spec.md §6.
type Document struct {
	Medium []MediumRecord `yaml:"medium"`
}
