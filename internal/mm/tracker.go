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

// Package mm implements the MM Analyzer's core presence-reconstruction
// engine (spec.md §4.4): snapshot delta extraction, residual
// reconciliation (stealth-exit detection), cross-side pairing within a
// 100ms window, the two-slot MM1/MM2 state machine, and duty-window
// duration aggregation.
package mm

const (
	// DutyStart and DutyEnd bound the fixed duty window [09:05:00, 15:20:00]
	// in seconds since midnight (spec.md §3, §6).
	DutyStart = 32700.0
	DutyEnd   = 55200.0
	// DutyLength is DutyEnd - DutyStart, 22500 seconds.
	DutyLength = DutyEnd - DutyStart

	// PairingWindowSec is the strict, exclusive-above 100ms cross-side
	// pairing window (spec.md §4.4.4).
	PairingWindowSec = 0.1
)

// Snapshot is one aggregated-top-5 order-book reading for an instrument.
type Snapshot struct {
	TimeSec  float64
	AskTotal int64
	BidTotal int64
}

// Change is a delta between two consecutive snapshots (spec.md §4.4.2).
type Change struct {
	TimeSec   float64
	DeltaAsk  int64
	DeltaBid  int64
	DeltaAskQ int64
	DeltaBidQ int64
	PrevAsk   int64
	PrevBid   int64

	IsQMultipleAsk bool
	IsQMultipleBid bool

	Processed bool
}

// mmSlot holds one occupied MM's quote size, in Q units.
type mmSlot struct {
	AskQ int64
	BidQ int64
}

// TimelineEntry is one recorded presence-state transition.
type TimelineEntry struct {
	TimeSec    float64
	MM1Present bool
	MM2Present bool
}

// Tracker is the per-instrument two-slot state machine (spec.md §3 "MM
// slot", §4.4.5). Two named, independent slot fields — not a general
// n-MM container — so the no-promotion rule holds by construction
// (spec.md §9).
type Tracker struct {
	q uint64

	mm1 *mmSlot
	mm2 *mmSlot

	baselineAsk *int64
	baselineBid *int64

	Timeline []TimelineEntry
}

// NewTracker creates a Tracker for one instrument's quote-unit size Q.
func NewTracker(q uint64) *Tracker {
	return &Tracker{q: q}
}

func (t *Tracker) recordState(timeSec float64) {
	t.Timeline = append(t.Timeline, TimelineEntry{
		TimeSec:    timeSec,
		MM1Present: t.mm1 != nil,
		MM2Present: t.mm2 != nil,
	})
}

func (t *Tracker) mm1Enter(askQ, bidQ int64, timeSec float64) {
	t.mm1 = &mmSlot{AskQ: askQ, BidQ: bidQ}
	t.recordState(timeSec)
}

func (t *Tracker) mm2Enter(askQ, bidQ int64, timeSec float64) {
	t.mm2 = &mmSlot{AskQ: askQ, BidQ: bidQ}
	t.recordState(timeSec)
}

func (t *Tracker) mm1Exit(timeSec float64) {
	t.mm1 = nil // no promotion: MM2 keeps its own slot
	t.recordState(timeSec)
}

func (t *Tracker) mm2Exit(timeSec float64) {
	t.mm2 = nil
	t.recordState(timeSec)
}
