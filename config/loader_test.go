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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yawmd/yawmd-sim/types"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "medium.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_SnrMode(t *testing.T) {
	path := writeConfig(t, `
medium:
  - id: 1
    interfaces: ["02:00:00:00:00:01", "02:00:00:00:00:02"]
    model:
      type: snr
      default_snr: 40
`)
	plans, err := Load(path)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, types.LinkModeSnrTable, plans[0].Mode)
	assert.Equal(t, 40, plans[0].DefaultSnr)
	assert.Len(t, plans[0].Interfaces, 2)
}

func TestLoad_PathLossMode(t *testing.T) {
	path := writeConfig(t, `
medium:
  - id: 1
    interfaces: ["02:00:00:00:00:01", "02:00:00:00:00:02"]
    model:
      type: path_loss
      positions: [{x: 0, y: 0, z: 0}, {x: 10, y: 0, z: 0}]
      tx_powers: [20, 20]
      model_name: free_space
      model_params:
        system_loss: 1
`)
	plans, err := Load(path)
	require.NoError(t, err)
	require.Len(t, plans, 1)
	assert.Equal(t, types.LinkModePathLoss, plans[0].Mode)
	assert.Equal(t, types.PathLossFreeSpace, plans[0].PathLossModel)
	assert.Equal(t, types.DbValue(20), plans[0].Interfaces[0].TxPowerDbm)
}

func TestLoad_RejectsDuplicateID(t *testing.T) {
	path := writeConfig(t, `
medium:
  - id: 1
    interfaces: ["02:00:00:00:00:01"]
    model: {type: snr}
  - id: 1
    interfaces: ["02:00:00:00:00:02"]
    model: {type: snr}
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsDuplicateMAC(t *testing.T) {
	path := writeConfig(t, `
medium:
  - id: 1
    interfaces: ["02:00:00:00:00:01"]
    model: {type: snr}
  - id: 2
    interfaces: ["02:00:00:00:00:01"]
    model: {type: snr}
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownModelType(t *testing.T) {
	path := writeConfig(t, `
medium:
  - id: 1
    interfaces: []
    model: {type: bogus}
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_PathLossRequiresPositionPerInterface(t *testing.T) {
	path := writeConfig(t, `
medium:
  - id: 1
    interfaces: ["02:00:00:00:00:01", "02:00:00:00:00:02"]
    model:
      type: path_loss
      positions: [{x: 0, y: 0, z: 0}]
      tx_powers: [20, 20]
      model_name: free_space
`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_DefaultsAppliedWhenOmitted(t *testing.T) {
	path := writeConfig(t, `
medium:
  - id: 1
    interfaces: []
    model: {type: snr}
`)
	plans, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, types.DefaultNoiseLevelDbm, plans[0].NoiseLevelDbm)
	assert.Equal(t, types.DefaultCCAThresholdDbm, plans[0].CCAThresholdDbm)
	assert.Equal(t, types.DefaultMoveIntervalSec, plans[0].MoveIntervalSec)
}
