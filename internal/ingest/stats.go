/**
 * Copyright 2025-present Coinbase Global, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package ingest

import "sync/atomic"

// Stats is the thread-safe statistics record shared by every receive
// task (spec.md §5, §9 "Thread-safe counters"): three process-wide atomic
// counters summed across all channels (per-group and per-stream counts live
// in internal/metrics). No mutex is needed here since every field is a
// simple accumulator — the mutex-guarded summary in spec.md §9 applies to
// the richer reconciliation counters, which this module does not need.
type Stats struct {
	accepted atomic.Uint64
	rejected atomic.Uint64
	errors   atomic.Uint64
}

func (s *Stats) AddAccepted() { s.accepted.Add(1) }
func (s *Stats) AddRejected() { s.rejected.Add(1) }
func (s *Stats) AddError()    { s.errors.Add(1) }

// Snapshot returns a point-in-time read of the three counters.
func (s *Stats) Snapshot() (accepted, rejected, errors uint64) {
	return s.accepted.Load(), s.rejected.Load(), s.errors.Load()
}
