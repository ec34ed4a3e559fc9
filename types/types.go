// Copyright (c) 2020, The OTNS Authors.
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

// Package types defines the common data model shared by every yawmd-sim package:
// mediums, interfaces, frames, and the small value types the engine threads
// between the classifier, the rate-outcome simulator, the scheduler and the
// receiver-set builder.
package types

import "fmt"

// MediumId uniquely identifies a Medium, process-wide.
type MediumId = int

// InterfaceIndex is the position of an Interface within its owning Medium's
// interface sequence; it also indexes rows/columns of the medium's SNR and
// error-probability matrices.
type InterfaceIndex = int

// DbValue is a decibel-scale quantity (signal level, path loss, SNR, noise
// floor, ...). Kept as float64 throughout the computation; only values that
// cross the wire (RX-info SIGNAL, the path-loss result) are truncated/rounded
// to integers at the boundary, per spec.
type DbValue = float64

// UndefinedDbValue is a sentinel DbValue meaning "not set".
const UndefinedDbValue DbValue = -1 << 60

// Fixed simulation-wide defaults (spec.md §6 config schema defaults, §4.6).
const (
	DefaultNoiseLevelDbm    DbValue = -91
	DefaultCCAThresholdDbm  DbValue = -90
	DefaultFadingCoeff      int     = 0
	DefaultMoveIntervalSec  float64 = 5.0
	MobilityStartupDelaySec float64 = 20.0

	// FallbackSnrDbm is used by the scheduler whenever a frame's
	// destination cannot be resolved to an interface (multicast, or an
	// address matching no configured receiver), and is the constant SNR
	// of prob-table mode, per spec.md §9/original daemon's SNR_DEFAULT.
	FallbackSnrDbm int = 30
)

// MacAddress is a six-octet 802.11 MAC address.
type MacAddress [6]byte

// IsMulticast reports whether the low-order bit of the first octet is set,
// per spec.md §3/§4.3.
func (a MacAddress) IsMulticast() bool {
	return a[0]&0x01 != 0
}

// IsZero reports whether the address is the all-zeroes address (unset).
func (a MacAddress) IsZero() bool {
	return a == MacAddress{}
}

func (a MacAddress) String() string {
	return fmt.Sprintf("%02x:%02x:%02x:%02x:%02x:%02x", a[0], a[1], a[2], a[3], a[4], a[5])
}

// BroadcastMac is the all-ones MAC address, ff:ff:ff:ff:ff:ff.
var BroadcastMac = MacAddress{0xff, 0xff, 0xff, 0xff, 0xff, 0xff}

// LinkQualityMode selects how a Medium resolves SNR/error-probability between
// two interfaces, per spec.md §3/§4.2.
type LinkQualityMode uint8

const (
	LinkModeSnrTable LinkQualityMode = iota
	LinkModeProbTable
	LinkModePathLoss
)

func (m LinkQualityMode) String() string {
	switch m {
	case LinkModeSnrTable:
		return "snr"
	case LinkModeProbTable:
		return "prob"
	case LinkModePathLoss:
		return "path_loss"
	default:
		return "unknown"
	}
}

// PathLossModelName selects one of the five path-loss formulas of spec.md §4.1.
type PathLossModelName uint8

const (
	PathLossFreeSpace PathLossModelName = iota
	PathLossLogDistance
	PathLossLogNormalShadowing
	PathLossItu
	PathLossTwoRayGround
)

// AccessClass is one of the four QoS access classes, priority descending.
type AccessClass uint8

const (
	AccessClassVO AccessClass = iota // voice, highest priority
	AccessClassVI                    // video
	AccessClassBE                    // best effort
	AccessClassBK                    // background, lowest priority
	numAccessClasses
)

func (c AccessClass) String() string {
	switch c {
	case AccessClassVO:
		return "VO"
	case AccessClassVI:
		return "VI"
	case AccessClassBE:
		return "BE"
	case AccessClassBK:
		return "BK"
	default:
		return "?"
	}
}

// AccessClassPriorityOrder lists the four access classes from highest to
// lowest dequeue priority, per spec.md §3 ("VO > VI > BE > BK").
var AccessClassPriorityOrder = [numAccessClasses]AccessClass{
	AccessClassVO, AccessClassVI, AccessClassBE, AccessClassBK,
}

// NumAccessClasses is the fixed number of QoS queues per medium (always 4).
const NumAccessClasses = int(numAccessClasses)
