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

package transport

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yawmd/yawmd-sim/types"
)

func sampleHeader() types.Header {
	return types.Header{
		FrameControl: 0x0088, // QoS data, subtype bits set
		Addr1:        types.MacAddress{0x02, 0, 0, 0, 0, 0x01},
		Addr2:        types.MacAddress{0x02, 0, 0, 0, 0, 0x02},
		Addr3:        types.MacAddress{0x02, 0, 0, 0, 0, 0x03},
		QosControl:   0x0005,
		HasQos:       true,
	}
}

func buildTxInfoMessage(t *testing.T, hdr types.Header, transmitter types.MacAddress) []byte {
	t.Helper()
	buf := make([]byte, 0, 64)
	buf = putAttr(buf, attrAddrTransmitter, transmitter[:])
	buf = putAttr(buf, attrFrameHeader, encodeHeader(hdr))
	buf = putAttr(buf, attrFrameLength, putUint32(200))
	buf = putAttr(buf, attrFlags, putUint32(0))
	buf = putAttr(buf, attrTxInfo, []byte{2, 4, 0, 2}) // rate 2 x4, rate 0 x2
	buf = putAttr(buf, attrFrameID, putUint64(0xdeadbeef))
	buf = putAttr(buf, attrFreq, putUint32(2412))
	return buf
}

func TestDecodeTxInfo_RoundTrips(t *testing.T) {
	hdr := sampleHeader()
	transmitter := types.MacAddress{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}
	msg := buildTxInfoMessage(t, hdr, transmitter)

	f, gotTransmitter, ok := DecodeTxInfo(msg)
	require.True(t, ok)
	assert.Equal(t, transmitter, gotTransmitter)
	assert.Equal(t, hdr.FrameControl, f.Header.FrameControl)
	assert.Equal(t, hdr.Addr1, f.Header.Addr1)
	assert.Equal(t, hdr.Addr2, f.Header.Addr2)
	assert.Equal(t, hdr.Addr3, f.Header.Addr3)
	assert.True(t, f.Header.HasQos)
	assert.Equal(t, hdr.QosControl, f.Header.QosControl)
	assert.Equal(t, 200, f.Length)
	assert.Equal(t, uint64(0xdeadbeef), f.Cookie)
	assert.Equal(t, uint32(2412), f.Freq)

	assert.Equal(t, int8(2), f.Retries[0].RateIdx)
	assert.Equal(t, uint8(4), f.Retries[0].Count)
	assert.Equal(t, int8(0), f.Retries[1].RateIdx)
	assert.Equal(t, uint8(2), f.Retries[1].Count)
	assert.True(t, f.Retries[2].Unused())
	assert.True(t, f.Retries[3].Unused())
}

func TestDecodeTxInfo_AssignsDistinctDebugIDs(t *testing.T) {
	hdr := sampleHeader()
	transmitter := types.MacAddress{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}
	msg := buildTxInfoMessage(t, hdr, transmitter)

	f1, _, ok := DecodeTxInfo(msg)
	require.True(t, ok)
	f2, _, ok := DecodeTxInfo(msg)
	require.True(t, ok)

	assert.NotEmpty(t, f1.DebugID)
	assert.NotEmpty(t, f2.DebugID)
	assert.NotEqual(t, f1.DebugID, f2.DebugID, "each decode mints its own correlation id, even for identical wire bytes")
}

func TestDecodeTxInfo_ShortFrameHeaderDropsSilently(t *testing.T) {
	buf := make([]byte, 0, 16)
	buf = putAttr(buf, attrFrameHeader, make([]byte, 8)) // below minFrameHeaderLen
	_, _, ok := DecodeTxInfo(buf)
	assert.False(t, ok)
}

func TestDecodeTxInfo_MissingFrameHeaderDropsSilently(t *testing.T) {
	buf := make([]byte, 0, 16)
	buf = putAttr(buf, attrFrameLength, putUint32(100))
	_, _, ok := DecodeTxInfo(buf)
	assert.False(t, ok)
}

func TestDecodeTxInfo_ClampsRetrySetToFourEntries(t *testing.T) {
	hdr := sampleHeader()
	buf := make([]byte, 0, 64)
	buf = putAttr(buf, attrFrameHeader, encodeHeader(hdr))
	buf = putAttr(buf, attrTxInfo, []byte{0, 1, 1, 1, 2, 1, 3, 1, 4, 1, 5, 1}) // 6 entries on the wire
	f, _, ok := DecodeTxInfo(buf)
	require.True(t, ok)
	assert.Equal(t, int8(3), f.Retries[types.MaxRetryEntries-1].RateIdx)
}

func TestEncodeRxInfo_IncludesReceiverSet(t *testing.T) {
	f := &types.Frame{
		Cookie:     0x42,
		Freq:       2412,
		SignalDbm:  -61,
		Acked:      true,
		RawFlags:   0,
		DurationUs: 100,
	}
	f.Retries[0] = types.RetryEntry{RateIdx: 3, Count: 1}
	f.Retries[1] = types.RetryEntry{RateIdx: -1}

	receivers := &types.ReceiverSet{}
	receivers.Add(types.MacAddress{0x02, 0, 0, 0, 0, 0x09}, -58)
	transmitter := types.MacAddress{0x02, 0x11, 0x22, 0x33, 0x44, 0x55}

	msg := EncodeRxInfo(f, transmitter, receivers)
	attrs := parseAttrs(msg)

	assert.Equal(t, transmitter[:], attrs[attrAddrTransmitter])
	assert.Equal(t, uint64(0x42), binary.LittleEndian.Uint64(attrs[attrFrameID]))
	assert.Equal(t, uint32(3), binary.LittleEndian.Uint32(attrs[attrRxRate]))
	assert.Equal(t, uint32(types.TxStatAck), binary.LittleEndian.Uint32(attrs[attrFlags]))

	recvInfo := attrs[attrReceiverInfo]
	require.Len(t, recvInfo, receiverEntryWireLen)
	assert.Equal(t, receivers.Entries[0].HWAddr[:], recvInfo[0:6])
	assert.Equal(t, int32(-58), int32(binary.LittleEndian.Uint32(recvInfo[6:10])))
}

func TestEncodeRxInfo_NilReceiverSetEncodesEmptyAttr(t *testing.T) {
	f := &types.Frame{}
	for i := range f.Retries {
		f.Retries[i] = types.RetryEntry{RateIdx: -1}
	}
	msg := EncodeRxInfo(f, types.MacAddress{}, nil)
	attrs := parseAttrs(msg)
	assert.Empty(t, attrs[attrReceiverInfo])
}
