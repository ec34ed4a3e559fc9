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

package stats

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/yawmd/yawmd-sim/types"
)

func TestFrameArrived_IncrementsPerMediumCounter(t *testing.T) {
	before := testutil.ToFloat64(framesArrived.WithLabelValues(mediumLabel(5)))
	FrameArrived(types.MediumId(5))
	after := testutil.ToFloat64(framesArrived.WithLabelValues(mediumLabel(5)))
	assert.Equal(t, before+1, after)
}

func TestFramesDelivered_CountsCatchupIterationsSeparately(t *testing.T) {
	beforeDelivered := testutil.ToFloat64(framesDelivered.WithLabelValues(mediumLabel(6)))
	beforeCatchup := testutil.ToFloat64(catchupIterations.WithLabelValues(mediumLabel(6)))

	FramesDelivered(types.MediumId(6), 3)

	assert.Equal(t, beforeDelivered+3, testutil.ToFloat64(framesDelivered.WithLabelValues(mediumLabel(6))))
	assert.Equal(t, beforeCatchup+2, testutil.ToFloat64(catchupIterations.WithLabelValues(mediumLabel(6))))
}

func TestFramesDelivered_NoCatchupWhenOnlyOneDelivery(t *testing.T) {
	before := testutil.ToFloat64(catchupIterations.WithLabelValues(mediumLabel(7)))
	FramesDelivered(types.MediumId(7), 1)
	assert.Equal(t, before, testutil.ToFloat64(catchupIterations.WithLabelValues(mediumLabel(7))))
}

func TestFramesDelivered_ZeroIsANoop(t *testing.T) {
	before := testutil.ToFloat64(framesDelivered.WithLabelValues(mediumLabel(8)))
	FramesDelivered(types.MediumId(8), 0)
	assert.Equal(t, before, testutil.ToFloat64(framesDelivered.WithLabelValues(mediumLabel(8))))
}

func TestFrameDropped_RecordsReason(t *testing.T) {
	beforeMalformed := testutil.ToFloat64(framesDropped.WithLabelValues(unboundMedium, "malformed"))
	beforeUnknown := testutil.ToFloat64(framesDropped.WithLabelValues(unboundMedium, "unknown-transmitter"))

	FrameDroppedMalformed()
	FrameDroppedUnknownTransmitter()

	assert.Equal(t, beforeMalformed+1, testutil.ToFloat64(framesDropped.WithLabelValues(unboundMedium, "malformed")))
	assert.Equal(t, beforeUnknown+1, testutil.ToFloat64(framesDropped.WithLabelValues(unboundMedium, "unknown-transmitter")))
}

func TestSetQueueDepth_SetsGaugeValue(t *testing.T) {
	SetQueueDepth(types.MediumId(9), 4)
	assert.Equal(t, 4.0, testutil.ToFloat64(queueDepth.WithLabelValues(mediumLabel(9))))
	SetQueueDepth(types.MediumId(9), 0)
	assert.Equal(t, 0.0, testutil.ToFloat64(queueDepth.WithLabelValues(mediumLabel(9))))
}

func TestRunID_IsStable(t *testing.T) {
	assert.Equal(t, RunID(), RunID())
	assert.NotEmpty(t, RunID())
}
