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

// Package transport decodes TX-info kernel messages into types.Frame values
// and encodes RX-info replies, per spec.md §4.8/§6. The attribute codec
// uses explicit encoding/binary.LittleEndian field access with named
// offsets, rather than a generic reflective marshaller.
package transport

import (
	"encoding/binary"

	"github.com/google/uuid"

	"github.com/yawmd/yawmd-sim/classifier"
	"github.com/yawmd/yawmd-sim/logger"
	"github.com/yawmd/yawmd-sim/types"
)

// attrHeaderLen is the size of one attribute's {type, length} prefix; the
// attribute value follows immediately, per spec.md §6.
const attrHeaderLen = 4

type attrType uint16

// Attribute type identifiers of the MAC80211_HWSIM-style kernel protocol,
// per spec.md §6.
const (
	attrAddrTransmitter attrType = 1
	attrFrameHeader     attrType = 2
	attrFrameLength     attrType = 3
	attrFlags           attrType = 4
	attrTxInfo          attrType = 5
	attrFrameID         attrType = 6
	attrFreq            attrType = 7
	attrRxRate          attrType = 8
	attrSignal          attrType = 9
	attrReceiverInfo    attrType = 10
)

// minFrameHeaderLen is spec.md §4.8's "two MAC addresses plus 4 header
// octets" minimum for a usable FRAME_HEADER attribute.
const minFrameHeaderLen = 16

// maxFrameHeaderLen is the largest 802.11 header this adapter copies:
// FC+duration+3 addresses+seq-control+addr4+QoS-control, per spec.md §4.8.
const maxFrameHeaderLen = 32

// retryEntryWireLen is the on-wire size of one TX_INFO {rate_idx, count} pair.
const retryEntryWireLen = 2

// receiverEntryWireLen is the on-wire size of one RECEIVER_INFO entry:
// {mac[6], signal u32}, packed with no padding (alignment 1), per spec.md §6.
const receiverEntryWireLen = 6 + 4

// parseAttrs walks a flat TLV attribute stream, per spec.md §6. Each
// attribute is {type uint16 LE, length uint16 LE, value}; a truncated
// trailing attribute stops the walk without error (best-effort: return
// what decoded so far rather than erroring on incomplete data).
func parseAttrs(data []byte) map[attrType][]byte {
	attrs := make(map[attrType][]byte)
	for len(data) >= attrHeaderLen {
		t := attrType(binary.LittleEndian.Uint16(data[0:2]))
		l := int(binary.LittleEndian.Uint16(data[2:4]))
		data = data[attrHeaderLen:]
		if l > len(data) {
			break
		}
		attrs[t] = data[:l]
		data = data[l:]
	}
	return attrs
}

func putAttr(buf []byte, t attrType, value []byte) []byte {
	hdr := make([]byte, attrHeaderLen)
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(t))
	binary.LittleEndian.PutUint16(hdr[2:4], uint16(len(value)))
	buf = append(buf, hdr...)
	return append(buf, value...)
}

func putUint32(v uint32) []byte {
	b := make([]byte, 4)
	binary.LittleEndian.PutUint32(b, v)
	return b
}

func putUint64(v uint64) []byte {
	b := make([]byte, 8)
	binary.LittleEndian.PutUint64(b, v)
	return b
}

// parseHeader decodes up to maxFrameHeaderLen octets of 802.11 MAC header
// into h, per spec.md §4.3/§4.8. Fields past the supplied length are left
// at their zero value.
func parseHeader(raw []byte) types.Header {
	var h types.Header
	if len(raw) < 2 {
		return h
	}
	h.FrameControl = binary.LittleEndian.Uint16(raw[0:2])

	// offset 2:4 is Duration/ID, not modeled.
	pos := 4
	if len(raw) >= pos+6 {
		copy(h.Addr1[:], raw[pos:pos+6])
	}
	if len(raw) >= pos+12 {
		copy(h.Addr2[:], raw[pos+6:pos+12])
	}
	if len(raw) >= pos+18 {
		copy(h.Addr3[:], raw[pos+12:pos+18])
	}
	pos += 18
	// offset +0:2 after the three addresses is Sequence Control, not modeled.
	pos += 2

	if classifier.HasFourthAddress(h.FrameControl) && len(raw) >= pos+6 {
		copy(h.Addr4[:], raw[pos:pos+6])
		h.HasAddr4 = true
		pos += 6
	}

	if classifier.IsQosData(h.FrameControl) && len(raw) >= pos+2 {
		h.QosControl = binary.LittleEndian.Uint16(raw[pos : pos+2])
		h.HasQos = true
	}
	return h
}

// encodeHeader is the inverse of parseHeader, re-emitting exactly the
// octets the frame classifier needs; used only by tests to round-trip a
// synthetic TX-info message, since real RX-info replies do not echo
// FRAME_HEADER (spec.md §6 RX-info attribute list omits it).
func encodeHeader(h types.Header) []byte {
	raw := make([]byte, 24)
	binary.LittleEndian.PutUint16(raw[0:2], h.FrameControl)
	copy(raw[4:10], h.Addr1[:])
	copy(raw[10:16], h.Addr2[:])
	copy(raw[16:22], h.Addr3[:])
	if h.HasAddr4 {
		raw = append(raw, h.Addr4[:]...)
	}
	if h.HasQos {
		qos := make([]byte, 2)
		binary.LittleEndian.PutUint16(qos, h.QosControl)
		raw = append(raw, qos...)
	}
	return raw
}

// DecodeTxInfo parses an inbound TX-info message into a Frame, per spec.md
// §4.8. It returns the transmitter's kernel-assigned hwaddr alongside the
// frame (the caller assigns it onto the sending Interface via
// Interface.SetHWAddrOnce). ok is false if the message is malformed (per
// spec.md §7's "Malformed-frame error"); DecodeTxInfo itself logs nothing,
// and both runtimes drop such a message with a warning log line and a
// stats.FrameDroppedMalformed count.
func DecodeTxInfo(data []byte) (f *types.Frame, transmitter types.MacAddress, ok bool) {
	attrs := parseAttrs(data)

	hdrBytes, present := attrs[attrFrameHeader]
	if !present || len(hdrBytes) < minFrameHeaderLen {
		return nil, transmitter, false
	}
	if len(hdrBytes) > maxFrameHeaderLen {
		hdrBytes = hdrBytes[:maxFrameHeaderLen]
	}

	f = &types.Frame{DebugID: uuid.NewString()}
	for i := range f.Retries {
		f.Retries[i] = types.RetryEntry{RateIdx: -1}
	}

	if v, ok := attrs[attrAddrTransmitter]; ok && len(v) >= 6 {
		copy(transmitter[:], v)
	}

	f.Header = parseHeader(hdrBytes)

	if v, ok := attrs[attrFrameLength]; ok && len(v) >= 4 {
		f.Length = int(binary.LittleEndian.Uint32(v))
	}
	if v, ok := attrs[attrFlags]; ok && len(v) >= 4 {
		f.RawFlags = binary.LittleEndian.Uint32(v)
	}
	if v, ok := attrs[attrFrameID]; ok && len(v) >= 8 {
		f.Cookie = binary.LittleEndian.Uint64(v)
	}
	if v, ok := attrs[attrFreq]; ok && len(v) >= 4 {
		f.Freq = binary.LittleEndian.Uint32(v)
	}

	if v, ok := attrs[attrTxInfo]; ok {
		n := len(v) / retryEntryWireLen
		if n > types.MaxRetryEntries {
			n = types.MaxRetryEntries
		}
		for i := 0; i < n; i++ {
			off := i * retryEntryWireLen
			f.Retries[i] = types.RetryEntry{
				RateIdx: int8(v[off]),
				Count:   v[off+1],
			}
		}
	}

	logger.Tracef("decoded TX-info cookie=%d debug-id=%s transmitter=%s", f.Cookie, f.DebugID, transmitter.String())
	return f, transmitter, true
}

// chosenRate returns the rate index of the last retry-set entry the
// simulator actually attempted, i.e. the rate RX_RATE reports.
func chosenRate(f *types.Frame) int8 {
	rate := int8(-1)
	for i := 0; i < types.MaxRetryEntries; i++ {
		if f.Retries[i].Unused() {
			break
		}
		rate = f.Retries[i].RateIdx
	}
	return rate
}

// EncodeRxInfo builds the outbound RX-info message for a delivered frame,
// per spec.md §4.8/§6: the inverse of DecodeTxInfo plus the receiver set
// the receiver-set builder computed.
func EncodeRxInfo(f *types.Frame, transmitter types.MacAddress, receivers *types.ReceiverSet) []byte {
	buf := make([]byte, 0, 64)

	buf = putAttr(buf, attrAddrTransmitter, transmitter[:])
	buf = putAttr(buf, attrFrameID, putUint64(f.Cookie))
	buf = putAttr(buf, attrRxRate, putUint32(uint32(chosenRate(f))))
	buf = putAttr(buf, attrFreq, putUint32(f.Freq))
	buf = putAttr(buf, attrSignal, putUint32(uint32(int32(f.SignalDbm))))
	buf = putAttr(buf, attrFlags, putUint32(f.Flags()))

	// Writes back only the entries actually attempted, stopping at the first
	// unused slot, rather than the original C's fixed tx_rates_count-length
	// write-back (original_source/yawmd/yawmd.c:462-464): the kernel only
	// reads entries up to the first {rate_idx:-1} terminator either way, so
	// the shorter encoding is wire-compatible and saves a few bytes per reply.
	txInfo := make([]byte, 0, types.MaxRetryEntries*retryEntryWireLen)
	for i := 0; i < types.MaxRetryEntries; i++ {
		e := f.Retries[i]
		if e.Unused() {
			break
		}
		txInfo = append(txInfo, byte(e.RateIdx), e.Count)
	}
	buf = putAttr(buf, attrTxInfo, txInfo)

	recvInfo := make([]byte, 0)
	if receivers != nil {
		recvInfo = make([]byte, 0, len(receivers.Entries)*receiverEntryWireLen)
		for _, r := range receivers.Entries {
			recvInfo = append(recvInfo, r.HWAddr[:]...)
			recvInfo = append(recvInfo, putUint32(uint32(int32(r.Signal)))...)
		}
	}
	buf = putAttr(buf, attrReceiverInfo, recvInfo)

	return buf
}
