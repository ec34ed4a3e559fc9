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

// Package stats exposes per-medium Prometheus counters and gauges,
// generalized from a per-node role/partition counters struct to this
// daemon's closest analogue, per-medium frame-delivery counts, since
// mediums have no concept of device role.
package stats

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/xid"

	"github.com/yawmd/yawmd-sim/types"
)

// runID identifies this process among others scraped by the same Prometheus
// instance; it is also logged in the daemon's startup line so a metric
// series can be traced back to a specific run's log output.
var runID = xid.New().String()

// RunID returns this process's run identifier.
func RunID() string {
	return runID
}

var (
	constLabels = prometheus.Labels{"run": runID}

	framesArrived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "yawmd",
		Name:        "frames_arrived_total",
		Help:        "Frames accepted from the kernel and handed to a medium's arrival handler.",
		ConstLabels: constLabels,
	}, []string{"medium"})

	framesDelivered = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "yawmd",
		Name:        "frames_delivered_total",
		Help:        "Frames for which an RX-info reply was sent to the kernel.",
		ConstLabels: constLabels,
	}, []string{"medium"})

	framesDropped = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "yawmd",
		Name:        "frames_dropped_total",
		Help:        "Inbound kernel messages discarded before reaching a medium.",
		ConstLabels: constLabels,
	}, []string{"medium", "reason"})

	catchupIterations = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   "yawmd",
		Name:        "delivery_catchup_iterations_total",
		Help:        "Extra deliveries produced by one delivery-timer expiry's catch-up loop (spec.md §4.5 step 4).",
		ConstLabels: constLabels,
	}, []string{"medium"})

	queueDepth = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   "yawmd",
		Name:        "intake_queue_depth",
		Help:        "Current length of a per-medium-thread worker's intake queue (spec.md §5).",
		ConstLabels: constLabels,
	}, []string{"medium"})
)

func init() {
	prometheus.MustRegister(framesArrived, framesDelivered, framesDropped, catchupIterations, queueDepth)
}

func mediumLabel(id types.MediumId) string {
	return strconv.Itoa(int(id))
}

// FrameArrived records one frame accepted into a medium's arrival handler.
func FrameArrived(id types.MediumId) {
	framesArrived.WithLabelValues(mediumLabel(id)).Inc()
}

// FramesDelivered records n RX-info replies sent for a medium, and any
// catch-up deliveries among them (n-1, when n > 1, per spec.md §4.5 step 4).
func FramesDelivered(id types.MediumId, n int) {
	if n <= 0 {
		return
	}
	label := mediumLabel(id)
	framesDelivered.WithLabelValues(label).Add(float64(n))
	if n > 1 {
		catchupIterations.WithLabelValues(label).Add(float64(n - 1))
	}
}

// unboundMedium is the medium label of the "malformed" and
// "unknown-transmitter" drops, which never resolve to a medium.
const unboundMedium = "unbound"

// FrameDroppedMalformed records one inbound message that failed to decode.
func FrameDroppedMalformed() {
	framesDropped.WithLabelValues(unboundMedium, "malformed").Inc()
}

// FrameDroppedUnknownTransmitter records one inbound message whose
// ADDR_TRANSMITTER did not match any configured interface.
func FrameDroppedUnknownTransmitter() {
	framesDropped.WithLabelValues(unboundMedium, "unknown-transmitter").Inc()
}

// SetQueueDepth reports a per-medium-thread worker's current intake queue
// length.
func SetQueueDepth(id types.MediumId, depth int) {
	queueDepth.WithLabelValues(mediumLabel(id)).Set(float64(depth))
}
