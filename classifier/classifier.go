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

// Package classifier inspects an 802.11 MAC header to pick a frame's QoS
// access class and to detect management/multicast/no-ack frames, per
// spec.md §4.3. The bit-mask-accessor style follows a frame-control
// dissection idiom: direct bit tests against named offsets, no generated parser.
package classifier

import "github.com/yawmd/yawmd-sim/types"

const (
	fcTypeMask    uint16 = 0x000c
	fcTypeShift          = 2
	fcSubtypeMask uint16 = 0x00f0
	fcSubtypeShift       = 4
	fcToDsMask    uint16 = 0x0100
	fcFromDsMask  uint16 = 0x0200
)

const (
	frameTypeManagement uint16 = 0
	frameTypeData       uint16 = 2
)

// qosSubtypeBit marks the QoS-enabled subtypes within the data type (e.g.
// QoS Data = 0b1000, QoS Null = 0b1100).
const qosSubtypeBit uint16 = 0x8

// priorityToAccessClass maps the 3-bit QoS priority tag to an access class,
// per spec.md §4.3's fixed table [BE,BK,BK,BE,VI,VI,VO,VO].
var priorityToAccessClass = [8]types.AccessClass{
	types.AccessClassBE,
	types.AccessClassBK,
	types.AccessClassBK,
	types.AccessClassBE,
	types.AccessClassVI,
	types.AccessClassVI,
	types.AccessClassVO,
	types.AccessClassVO,
}

func frameType(fc uint16) uint16 {
	return (fc & fcTypeMask) >> fcTypeShift
}

func frameSubtype(fc uint16) uint16 {
	return (fc & fcSubtypeMask) >> fcSubtypeShift
}

// isData reports whether fc identifies a data-type frame.
func isData(fc uint16) bool {
	return frameType(fc) == frameTypeData
}

// isQosData reports whether fc identifies a QoS-subtyped data frame.
func isQosData(fc uint16) bool {
	return isData(fc) && frameSubtype(fc)&qosSubtypeBit != 0
}

// HasFourthAddress reports whether both ToDS and FromDS are set, which
// signals the presence of Address 4 in the header, per spec.md §4.3.
func HasFourthAddress(fc uint16) bool {
	return fc&fcToDsMask != 0 && fc&fcFromDsMask != 0
}

// IsQosData reports whether fc identifies a QoS-subtyped data frame, i.e.
// whether a QoS Control field follows the addresses in the header, per
// spec.md §4.3/§4.8.
func IsQosData(fc uint16) bool {
	return isQosData(fc)
}

// Classify fills in h's header-derived outputs onto f: access class,
// multicast, and no-ack, per spec.md §4.3.
func Classify(f *types.Frame) {
	fc := f.Header.FrameControl
	f.Multicast = f.Header.Addr1.IsMulticast()

	switch {
	case !isData(fc):
		f.AccessClass = types.AccessClassVO
	case !f.Header.HasQos || !isQosData(fc):
		f.AccessClass = types.AccessClassBE
	default:
		priority := f.Header.QosControl & 0x7
		f.AccessClass = priorityToAccessClass[priority]
	}

	f.NoAck = frameType(fc) == frameTypeManagement || f.Multicast
}
