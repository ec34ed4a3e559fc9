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

// KernelSocket speaks generic netlink to the MAC80211_HWSIM kernel family,
// per spec.md §6 ("Generic request/response messages over a datagram socket
// to a kernel family named MAC80211_HWSIM. Protocol version constant = 2.").
// Grounded on the raw AF_NETLINK socket idiom (unix.Socket/Bind/Sendto over
// a SockaddrNetlink) seen in the retrieved pack's netlink-route helper; the
// generic-netlink control exchange used to resolve the family id follows
// the kernel's fixed nlctrl wire format (see resolveFamily), while the
// family's own messages carry the flat TLV body the transport package
// already encodes/decodes, per SPEC_FULL.md §4's note that this codec
// stands in for libnl's genl attribute marshalling.
package runtime

import (
	"encoding/binary"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/sys/unix"
)

// Generic netlink control-plane wire constants (linux/genetlink.h), fixed by
// the kernel ABI and not exposed by golang.org/x/sys/unix.
const (
	genlIDCtrl        = 0x10
	ctrlCmdGetFamily  = 3
	ctrlAttrFamilyID  = 1
	ctrlAttrFamilyUn  = 2 // CTRL_ATTR_FAMILY_NAME
	hwsimProtoVersion = 2 // spec.md §6
	hwsimCmdFrame     = 1 // the only command this adapter sends/receives
	hwsimAttrPayload  = 1 // wraps the transport package's flat TLV blob
)

const (
	nlmsgHdrLen = 16
	genlHdrLen  = 4
	nlaHdrLen   = 4
	nlmsgError  = 2

	nlmFRequest = 0x1
	nlmFAck     = 0x4
)

func nlaAlign(n int) int {
	return (n + 3) &^ 3
}

func putNla(buf []byte, attrType uint16, value []byte) []byte {
	hdr := make([]byte, nlaHdrLen)
	binary.LittleEndian.PutUint16(hdr[0:2], uint16(nlaHdrLen+len(value)))
	binary.LittleEndian.PutUint16(hdr[2:4], attrType)
	buf = append(buf, hdr...)
	buf = append(buf, value...)
	pad := nlaAlign(len(value)) - len(value)
	return append(buf, make([]byte, pad)...)
}

// walkNla returns the value of the first attribute of type want in data, a
// flat sequence of 4-byte-aligned {len, type, value} records.
func walkNla(data []byte, want uint16) ([]byte, bool) {
	for len(data) >= nlaHdrLen {
		l := int(binary.LittleEndian.Uint16(data[0:2]))
		t := binary.LittleEndian.Uint16(data[2:4])
		if l < nlaHdrLen || l > len(data) {
			return nil, false
		}
		value := data[nlaHdrLen:l]
		if t == want {
			return value, true
		}
		data = data[nlaAlign(l):]
	}
	return nil, false
}

func buildGenlMessage(dstFamily uint16, flags uint16, seq uint32, cmd, version uint8, attrs []byte) []byte {
	total := nlmsgHdrLen + genlHdrLen + len(attrs)
	msg := make([]byte, total)
	binary.LittleEndian.PutUint32(msg[0:4], uint32(total))
	binary.LittleEndian.PutUint16(msg[4:6], dstFamily)
	binary.LittleEndian.PutUint16(msg[6:8], flags)
	binary.LittleEndian.PutUint32(msg[8:12], seq)
	// msg[12:16] (pid) left 0: the kernel fills in the sender's port id.
	msg[nlmsgHdrLen] = cmd
	msg[nlmsgHdrLen+1] = version
	copy(msg[nlmsgHdrLen+genlHdrLen:], attrs)
	return msg
}

// KernelSocket is one AF_NETLINK/NETLINK_GENERIC socket bound to the
// MAC80211_HWSIM family. Safe for concurrent WriteMessage calls (guarded by
// writeMu, per spec.md §5's per-medium-thread "socket-send mutex"
// requirement); ReadMessage is intended for a single reader goroutine.
type KernelSocket struct {
	fd       int
	familyID uint16
	seq      uint32
	writeMu  sync.Mutex
}

// OpenKernelSocket opens a netlink socket and resolves the family named
// familyName (spec.md §6's "MAC80211_HWSIM").
func OpenKernelSocket(familyName string) (*KernelSocket, error) {
	fd, err := unix.Socket(unix.AF_NETLINK, unix.SOCK_RAW, unix.NETLINK_GENERIC)
	if err != nil {
		return nil, errors.Wrap(err, "opening netlink socket")
	}
	if err := unix.Bind(fd, &unix.SockaddrNetlink{Family: unix.AF_NETLINK}); err != nil {
		_ = unix.Close(fd)
		return nil, errors.Wrap(err, "binding netlink socket")
	}

	ks := &KernelSocket{fd: fd}
	familyID, err := ks.resolveFamily(familyName)
	if err != nil {
		_ = unix.Close(fd)
		return nil, errors.Wrapf(err, "resolving genl family %q", familyName)
	}
	ks.familyID = familyID
	return ks, nil
}

// resolveFamily performs the fixed CTRL_CMD_GETFAMILY request/response
// exchange with the kernel's nlctrl family to learn familyName's numeric id.
func (ks *KernelSocket) resolveFamily(familyName string) (uint16, error) {
	ks.seq++
	nameAttr := putNla(nil, ctrlAttrFamilyUn, append([]byte(familyName), 0))
	req := buildGenlMessage(genlIDCtrl, nlmFRequest|nlmFAck, ks.seq, ctrlCmdGetFamily, 1, nameAttr)

	if err := unix.Sendto(ks.fd, req, 0, &unix.SockaddrNetlink{Family: unix.AF_NETLINK}); err != nil {
		return 0, errors.Wrap(err, "sending CTRL_CMD_GETFAMILY")
	}

	buf := make([]byte, 4096)
	n, _, err := unix.Recvfrom(ks.fd, buf, 0)
	if err != nil {
		return 0, errors.Wrap(err, "receiving CTRL_CMD_GETFAMILY reply")
	}
	return parseFamilyReply(buf[:n])
}

func parseFamilyReply(msg []byte) (uint16, error) {
	if len(msg) < nlmsgHdrLen+genlHdrLen {
		return 0, errors.New("short netlink reply")
	}
	msgType := binary.LittleEndian.Uint16(msg[4:6])
	if msgType == nlmsgError {
		return 0, errors.New("kernel returned NLMSG_ERROR resolving family (genl family not registered)")
	}
	attrs := msg[nlmsgHdrLen+genlHdrLen:]
	v, ok := walkNla(attrs, ctrlAttrFamilyID)
	if !ok || len(v) < 2 {
		return 0, errors.New("CTRL_ATTR_FAMILY_ID missing from reply")
	}
	return binary.LittleEndian.Uint16(v[0:2]), nil
}

// Fd returns the underlying file descriptor, for registration with an
// event-loop poller.
func (ks *KernelSocket) Fd() int {
	return ks.fd
}

// ReadMessage reads one inbound frame (a TX-info message, per spec.md §6)
// and returns its raw TLV body, ready for transport.DecodeTxInfo.
func (ks *KernelSocket) ReadMessage(buf []byte) ([]byte, error) {
	n, _, err := unix.Recvfrom(ks.fd, buf, 0)
	if err != nil {
		return nil, err
	}
	msg := buf[:n]
	if len(msg) < nlmsgHdrLen+genlHdrLen {
		return nil, errors.New("short netlink message")
	}
	attrs := msg[nlmsgHdrLen+genlHdrLen:]
	body, ok := walkNla(attrs, hwsimAttrPayload)
	if !ok {
		return nil, errors.New("frame message missing payload attribute")
	}
	return body, nil
}

// WriteMessage sends body (an RX-info message built by transport.EncodeRxInfo)
// to the kernel.
func (ks *KernelSocket) WriteMessage(body []byte) error {
	ks.writeMu.Lock()
	defer ks.writeMu.Unlock()

	ks.seq++
	attrs := putNla(nil, hwsimAttrPayload, body)
	msg := buildGenlMessage(ks.familyID, nlmFRequest, ks.seq, hwsimCmdFrame, hwsimProtoVersion, attrs)
	return unix.Sendto(ks.fd, msg, 0, &unix.SockaddrNetlink{Family: unix.AF_NETLINK})
}

// Close releases the socket.
func (ks *KernelSocket) Close() error {
	return unix.Close(ks.fd)
}
