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

package types

// MaxRetryEntries is the maximum number of rate/count pairs the kernel may
// offer in a single TX-info message, per spec.md §3/§6 (TX_INFO attribute).
const MaxRetryEntries = 4

// RetryEntry is one {rate index, max attempts} pair of a frame's retry set.
// A RateIdx < 0 marks the entry (and all following it) unused, per spec.md §4.4.
type RetryEntry struct {
	RateIdx int8
	Count   uint8
}

// Unused reports whether this retry-set entry has been exhausted/unused.
func (e RetryEntry) Unused() bool {
	return e.RateIdx < 0
}

// FrameFlags mirror the RX-info FLAGS bit field of spec.md §6.
type FrameFlags uint32

// TxStatAck is bit 2 of FLAGS, set when the frame was acknowledged (or
// required no ack), per spec.md §4.4/§6.
const TxStatAck FrameFlags = 1 << 2

// Header holds the subset of the 802.11 MAC header the classifier and
// scheduler need to inspect, per spec.md §3 ("Frame").
type Header struct {
	FrameControl uint16 // first two octets of the MAC header, little-endian
	Addr1        MacAddress
	Addr2        MacAddress
	Addr3        MacAddress
	Addr4        MacAddress // only valid if HasAddr4
	HasAddr4     bool
	QosControl   uint16 // only valid if present (QoS data subtype)
	HasQos       bool
}

// Frame is one transmission attempt handed to the medium by the kernel-
// transport adapter, per spec.md §3 ("Frame"). A Frame is exclusively owned
// by the medium that receives it, from ingestion through delivery/free.
type Frame struct {
	Sender   InterfaceIndex
	Header   Header
	Length   int // raw frame length in octets, including body
	Cookie   uint64
	Freq     uint32 // MHz
	RawFlags uint32 // flags as received from the kernel, preserved and OR'd with TxStatAck on ack

	// Retries is the incoming (and, after simulation, possibly truncated)
	// multi-rate retry set; at most MaxRetryEntries entries, terminated by
	// the first Unused() entry.
	Retries [MaxRetryEntries]RetryEntry

	// Outputs filled in by the rate-outcome simulator (spec.md §4.4).
	Acked      bool
	SignalDbm  DbValue
	DurationUs uint64

	// AccessClass is set by the frame classifier (spec.md §4.3).
	AccessClass AccessClass
	Multicast   bool
	NoAck       bool

	// DebugID is a human-readable correlation id minted for this frame at
	// decode time, distinct from Cookie (which the kernel may reuse across
	// mediums); it never goes on the wire, only into trace logs.
	DebugID string
}

// Flags returns the frame's output FLAGS value, with TxStatAck set iff Acked.
func (f *Frame) Flags() uint32 {
	flags := f.RawFlags
	if f.Acked {
		flags |= uint32(TxStatAck)
	} else {
		flags &^= uint32(TxStatAck)
	}
	return flags
}

// ReceiverEntry is one {hw_address, signal} pair of a ReceiverSet, per
// spec.md §3 ("Receiver-set").
type ReceiverEntry struct {
	HWAddr MacAddress
	Signal DbValue
}

// ReceiverSet is the bounded list of interfaces that received an acked frame,
// built by the receiver-set builder (spec.md §4.6) and serialized into the
// RX-info reply.
type ReceiverSet struct {
	Entries []ReceiverEntry
}

// Add appends a receiver to the set.
func (r *ReceiverSet) Add(hwaddr MacAddress, signal DbValue) {
	r.Entries = append(r.Entries, ReceiverEntry{HWAddr: hwaddr, Signal: signal})
}
