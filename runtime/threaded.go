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
	"fmt"
	"sync"
	"time"

	"golang.org/x/sys/unix"

	"github.com/yawmd/yawmd-sim/classifier"
	"github.com/yawmd/yawmd-sim/logger"
	"github.com/yawmd/yawmd-sim/progctx"
	"github.com/yawmd/yawmd-sim/stats"
	"github.com/yawmd/yawmd-sim/transport"
	"github.com/yawmd/yawmd-sim/types"
)

// intakeDrainBatch is K of spec.md §5's "drains up to K (K=5) frames per
// wake".
const intakeDrainBatch = 5

// worker owns one medium's event loop, delivery/move timers and private
// frame-intake queue, per spec.md §5's per-medium-thread mode.
type worker struct {
	engine *Engine
	timers *mediumTimers
	intake *timerFd

	mu    sync.Mutex
	queue []*types.Frame
}

func newWorker(e *Engine) (*worker, error) {
	mt, err := newMediumTimers(e)
	if err != nil {
		return nil, err
	}
	intake, err := newTimerFd()
	if err != nil {
		mt.close()
		return nil, err
	}
	return &worker{engine: e, timers: mt, intake: intake}, nil
}

func (w *worker) close() {
	w.timers.close()
	_ = w.intake.close()
}

// pushFrame hands an already-classified frame to this medium's intake
// queue, per spec.md §5's "acquiring that medium's intake mutex, appending
// to the intake queue, writing a 1 ns oneshot to the medium's intake-timer
// descriptor, releasing the mutex".
func (w *worker) pushFrame(f *types.Frame) {
	w.mu.Lock()
	w.queue = append(w.queue, f)
	depth := len(w.queue)
	_ = w.intake.arm(time.Nanosecond)
	w.mu.Unlock()
	stats.SetQueueDepth(w.engine.Medium.Id, depth)
}

// drainBatch removes up to intakeDrainBatch frames from the queue and
// reports whether any remain.
func (w *worker) drainBatch() (batch []*types.Frame, more bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	n := intakeDrainBatch
	if n > len(w.queue) {
		n = len(w.queue)
	}
	batch = w.queue[:n]
	w.queue = w.queue[n:]
	stats.SetQueueDepth(w.engine.Medium.Id, len(w.queue))
	return batch, len(w.queue) > 0
}

// run is the worker's private epoll-driven event loop: delivery timer, move
// timer (if any), and the intake timer, all local to this medium, per
// spec.md §5.
func (w *worker) run(ctx *progctx.ProgCtx, sock *KernelSocket) {
	name := fmt.Sprintf("medium-%d", w.engine.Medium.Id)
	defer ctx.WaitDone(name)
	defer w.close()

	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		logger.Errorf("medium %d: opening epoll: %v", w.engine.Medium.Id, err)
		return
	}
	defer unix.Close(epfd)

	add := func(fd int) {
		_ = unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, fd, &unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(fd)})
	}
	add(w.timers.delivery.fd)
	add(w.intake.fd)
	if w.timers.move != nil {
		add(w.timers.move.fd)
	}

	events := make([]unix.EpollEvent, 8)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := unix.EpollWait(epfd, events, epollPollIntervalMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			logger.Errorf("medium %d: epoll_wait: %v", w.engine.Medium.Id, err)
			return
		}

		for _, ev := range events[:n] {
			fd := int(ev.Fd)
			switch {
			case fd == w.timers.delivery.fd:
				w.timers.delivery.drain()
				armed, in := deliverAndReply(w.engine, sock) // deliverAndReply records stats.FramesDelivered itself
				if armed {
					_ = w.timers.delivery.arm(in)
				}

			case fd == w.intake.fd:
				w.intake.drain()
				batch, more := w.drainBatch()
				for _, f := range batch {
					arrival := w.engine.Medium.HandleArrival(f, nowUs())
					if arrival.Started {
						now := nowUs()
						var in time.Duration
						if arrival.EndTransmission > now {
							in = time.Duration(arrival.EndTransmission-now) * time.Microsecond
						} else {
							in = time.Nanosecond
						}
						_ = w.timers.delivery.arm(in)
					}
				}
				if more {
					// more than K frames queued: re-arm so the other
					// timers on this worker still get a turn, per spec.md §5.
					_ = w.intake.arm(time.Nanosecond)
				}

			case w.timers.move != nil && fd == w.timers.move.fd:
				w.timers.move.drain()
				w.engine.Mobility.Tick()
				_ = w.timers.move.arm(time.Duration(w.engine.MoveIntervalSec * float64(time.Second)))
			}
		}
	}
}

// runKernelReader is the single shared thread of spec.md §5's threaded mode:
// it owns the kernel socket, classifies each inbound frame by the sending
// interface's medium, and hands it to that medium's worker.
func runKernelReader(ctx *progctx.ProgCtx, sock *KernelSocket, workers []*worker, bindings Bindings) {
	defer ctx.WaitDone("kernel-reader")

	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		logger.Errorf("opening kernel-reader epoll: %v", err)
		return
	}
	defer unix.Close(epfd)
	_ = unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, sock.Fd(), &unix.EpollEvent{Events: unix.EPOLLIN, Fd: int32(sock.Fd())})

	readBuf := make([]byte, 4096)
	events := make([]unix.EpollEvent, 1)
	for {
		if ctx.Err() != nil {
			return
		}
		n, err := unix.EpollWait(epfd, events, epollPollIntervalMs)
		if err != nil {
			if err == unix.EINTR {
				continue
			}
			logger.Errorf("kernel-reader epoll_wait: %v", err)
			return
		}
		if n == 0 {
			continue
		}

		data, err := sock.ReadMessage(readBuf)
		if err != nil {
			logger.Warnf("reading kernel message: %v", err)
			continue
		}

		f, transmitter, ok := transport.DecodeTxInfo(data)
		if !ok {
			logger.Warnf("dropping malformed TX-info message")
			stats.FrameDroppedMalformed()
			continue
		}
		engineIdx, ifaceIdx, ok := bindings.Resolve(transmitter)
		if !ok {
			logger.Warnf("dropping TX-info from unknown transmitter %s", transmitter.String())
			stats.FrameDroppedUnknownTransmitter()
			continue
		}

		w := workers[engineIdx]
		w.engine.Medium.Interfaces[ifaceIdx].SetHWAddrOnce(transmitter)
		f.Sender = ifaceIdx
		classifier.Classify(f)
		stats.FrameArrived(w.engine.Medium.Id)
		w.pushFrame(f)
	}
}

// RunPerMediumThread starts one worker goroutine per engine plus the shared
// kernel-reader goroutine, per spec.md §5's per-medium-thread mode, and
// returns once they are all running; callers wait for shutdown via
// ctx.Wait().
func RunPerMediumThread(ctx *progctx.ProgCtx, engines []*Engine, sock *KernelSocket) error {
	workers := make([]*worker, len(engines))
	for i, e := range engines {
		w, err := newWorker(e)
		if err != nil {
			return err
		}
		workers[i] = w
	}

	bindings := BuildBindings(engines)

	ctx.WaitAdd("kernel-reader", 1)
	go runKernelReader(ctx, sock, workers, bindings)

	for _, w := range workers {
		name := fmt.Sprintf("medium-%d", w.engine.Medium.Id)
		ctx.WaitAdd(name, 1)
		go w.run(ctx, sock)
	}
	return nil
}
