// Copyright (c) 2023, The OTNS Authors.
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

package logger

import (
	"fmt"
	"sync"

	"github.com/yawmd/yawmd-sim/types"
)

// MediumLogger is a medium-specific log object, tagging every line with its
// medium id, analogous to a per-node logger tagging lines with a node id.
type MediumLogger struct {
	Id           types.MediumId
	CurrentLevel Level

	entries     chan logEntry
	timestampUs uint64
}

var (
	mediumLogs = make(map[types.MediumId]*MediumLogger, 4)
	mutex      = sync.Mutex{}
)

// GetMediumLogger gets (creating if needed) the MediumLogger for a medium id.
func GetMediumLogger(id types.MediumId) *MediumLogger {
	mutex.Lock()
	defer mutex.Unlock()

	log, ok := mediumLogs[id]
	if !ok {
		log = &MediumLogger{
			Id:           id,
			CurrentLevel: currentLevel,
			entries:      make(chan logEntry, 1000),
		}
		mediumLogs[id] = log
	}
	return log
}

// MediumLogf logs a formatted message tagged with the given medium id; the
// corresponding MediumLogger is created on first use.
func MediumLogf(id types.MediumId, level Level, format string, args ...interface{}) {
	log := GetMediumLogger(id)
	if level > log.CurrentLevel {
		return
	}
	msg := getMessage(format, args)
	entry := logEntry{MediumId: id, Level: level, Msg: msg}
	select {
	case log.entries <- entry:
	default:
		log.DisplayPendingLogEntries(log.timestampUs)
		log.entries <- entry
	}
	log.DisplayPendingLogEntries(log.timestampUs)
}

func (ml *MediumLogger) Tracef(format string, args ...interface{}) {
	MediumLogf(ml.Id, TraceLevel, format, args...)
}

func (ml *MediumLogger) Debugf(format string, args ...interface{}) {
	MediumLogf(ml.Id, DebugLevel, format, args...)
}

func (ml *MediumLogger) Infof(format string, args ...interface{}) {
	MediumLogf(ml.Id, InfoLevel, format, args...)
}

func (ml *MediumLogger) Warnf(format string, args ...interface{}) {
	MediumLogf(ml.Id, WarnLevel, format, args...)
}

func (ml *MediumLogger) Errorf(format string, args ...interface{}) {
	MediumLogf(ml.Id, ErrorLevel, format, args...)
}

// DisplayPendingLogEntries flushes every queued entry for this medium,
// tagging the displayed line with ts (the medium's current simulation time).
func (ml *MediumLogger) DisplayPendingLogEntries(ts uint64) {
	ml.timestampUs = ts
	tsStr := fmt.Sprintf("%11d ", ts)
	mediumStr := fmt.Sprintf("medium=%d ", ml.Id)
	for {
		select {
		case ent := <-ml.entries:
			if ml.CurrentLevel >= ent.Level {
				logAlways(ent.Level, mediumStr+tsStr+ent.Msg)
			}
		default:
			return
		}
	}
}
