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

// Package qos implements the four fixed QoS access-category queues that sit
// in front of a medium's transmission slot (spec.md §3 "QoS queue", §4.5).
//
// The original C daemon keeps frames on intrusive doubly-linked lists
// (spec.md §9). A Go port has no business re-deriving that: a frame is
// exclusively owned by its medium, so a plain slice used as a FIFO (append at
// the tail, pop from the head) is the owning container spec.md §9 asks for.
package qos

import "github.com/yawmd/yawmd-sim/types"

// Bounds holds the contention-window bounds of one access category.
type Bounds struct {
	CwMin int
	CwMax int
}

// DefaultBounds are the fixed per-access-category contention-window bounds
// of spec.md §3: VO(3,7), VI(7,15), BE(15,1023), BK(15,1023).
var DefaultBounds = [types.NumAccessClasses]Bounds{
	types.AccessClassVO: {CwMin: 3, CwMax: 7},
	types.AccessClassVI: {CwMin: 7, CwMax: 15},
	types.AccessClassBE: {CwMin: 15, CwMax: 1023},
	types.AccessClassBK: {CwMin: 15, CwMax: 1023},
}

// Queue is a FIFO of pending frames for one access category, plus its
// contention-window bounds.
type Queue struct {
	Bounds Bounds
	frames []*types.Frame
}

// NewQueue creates a Queue with the given contention-window bounds.
func NewQueue(bounds Bounds) *Queue {
	return &Queue{Bounds: bounds}
}

// Push enqueues a frame at the tail.
func (q *Queue) Push(f *types.Frame) {
	q.frames = append(q.frames, f)
}

// Pop removes and returns the head frame, or nil if the queue is empty.
func (q *Queue) Pop() *types.Frame {
	if len(q.frames) == 0 {
		return nil
	}
	f := q.frames[0]
	q.frames[0] = nil // drop the owning reference before reslicing
	q.frames = q.frames[1:]
	return f
}

// Len reports the number of frames currently queued.
func (q *Queue) Len() int {
	return len(q.frames)
}

// Empty reports whether the queue holds no frames.
func (q *Queue) Empty() bool {
	return len(q.frames) == 0
}

// Set is the fixed set of four access-category queues every medium owns.
type Set [types.NumAccessClasses]*Queue

// NewSet creates the four queues with spec.md §3's default bounds.
func NewSet() *Set {
	var s Set
	for class := range s {
		s[class] = NewQueue(DefaultBounds[class])
	}
	return &s
}

// PopHighestPriority pops the head frame of the highest-priority non-empty
// queue (VO > VI > BE > BK), returning nil if all queues are empty, per
// spec.md §4.5 step 2.
func (s *Set) PopHighestPriority() (*types.Frame, types.AccessClass) {
	for _, class := range types.AccessClassPriorityOrder {
		if q := s[class]; !q.Empty() {
			return q.Pop(), class
		}
	}
	return nil, 0
}

// Push enqueues f onto the queue for its AccessClass.
func (s *Set) Push(f *types.Frame) {
	s[f.AccessClass].Push(f)
}

// Empty reports whether all four queues are empty.
func (s *Set) Empty() bool {
	for _, q := range s {
		if !q.Empty() {
			return false
		}
	}
	return true
}
