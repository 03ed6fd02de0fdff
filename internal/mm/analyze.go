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

package mm

/*
HOT PATH - Analyze() single-pass pipeline

  snapshots (sorted by time_sec)
        |
        v
  ExtractChanges()            -- one Change per differing consecutive pair
        |
        v
  main loop, i = 0..len(changes)-1, first-fit, no backtracking:
    [a] residual reconciliation  -- detect a stealth exit using prev_ask/
        (if a slot occupied)        prev_bid residuals against baseline
    [b] classify change:
          ask-only Q-multiple   -> forward scan for matching bid-only partner
          bid-only Q-multiple   -> forward scan for matching ask-only partner
          both sides Q-multiple -> pair directly, no scan
          anything else         -> no pairing attempt
    [c] apply paired event (if any) to the two-slot state machine
    [d] mark change processed, advance i unconditionally

  Every change is visited exactly once as the outer "i"; a change consumed
  as a forward-scan partner is marked processed so the outer loop skips it
  when it later reaches that index. This mirrors the documented first-fit
  behavior in spec.md §9 Open Question 1: no backtracking, no smarter
  matcher.
*/

// pairedEvent is the result of successfully pairing one or two changes
// within the 100ms window (spec.md §4.4.4).
type pairedEvent struct {
	askQ      int64
	bidQ      int64
	direction int // +1 entry, -1 exit
	timeSec   float64
}

// Result is the per-instrument aggregate for one day's analysis
// (spec.md §4.4.6, §4.5).
type Result struct {
	PacketCount int

	MM1Rate     float64
	MM2Rate     float64
	OnlyMM1Rate float64
	OnlyMM2Rate float64
	BothRate    float64
	NoneRate    float64
}

// Analyze runs the full MM-presence reconstruction for one instrument's
// day of snapshots and quote unit q. Snapshots outside [DutyStart,
// DutyEnd] are dropped before any other processing (spec.md §4.4.1: the
// archiver's trading-hour gate is wider than the duty window, so archived
// logs routinely carry out-of-window lines). It returns false if fewer
// than two in-window snapshots remain (spec.md §4.4.1, §7).
func Analyze(snapshots []Snapshot, q uint64) (Result, bool) {
	inWindow := make([]Snapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s.TimeSec >= DutyStart && s.TimeSec <= DutyEnd {
			inWindow = append(inWindow, s)
		}
	}
	snapshots = inWindow

	if len(snapshots) < 2 {
		return Result{}, false
	}

	tracker := NewTracker(q)
	changes := ExtractChanges(snapshots, q)

	for i := range changes {
		if changes[i].Processed {
			continue
		}

		reconcile(tracker, &changes[i])

		if pe, ok := pair(changes, i); ok {
			apply(tracker, pe, changes[i].PrevAsk, changes[i].PrevBid)
		}

		changes[i].Processed = true
	}

	firstTime := snapshots[0].TimeSec
	lastTime := snapshots[len(snapshots)-1].TimeSec

	if len(tracker.Timeline) == 0 {
		tracker.Timeline = append(tracker.Timeline, TimelineEntry{TimeSec: firstTime})
	}

	agg := aggregate(tracker.Timeline, firstTime, lastTime)

	return Result{
		PacketCount: len(snapshots),
		MM1Rate:     rate(agg.onlyMM1 + agg.both),
		MM2Rate:     rate(agg.onlyMM2 + agg.both),
		OnlyMM1Rate: rate(agg.onlyMM1),
		OnlyMM2Rate: rate(agg.onlyMM2),
		BothRate:    rate(agg.both),
		NoneRate:    rate(agg.none),
	}, true
}

func rate(seconds float64) float64 {
	return seconds / DutyLength * 100
}

// reconcile performs residual-volume reconciliation (spec.md §4.4.3):
// before attempting to pair change, if either slot is occupied and a
// baseline has been captured, detect and attribute an unlogged
// departure from the residual book quantity.
func reconcile(t *Tracker, change *Change) {
	if t.mm1 == nil && t.mm2 == nil {
		return
	}
	if t.baselineAsk == nil {
		return
	}

	var expectedAsk, expectedBid int64
	if t.mm1 != nil {
		expectedAsk += t.mm1.AskQ * int64(t.q)
		expectedBid += t.mm1.BidQ * int64(t.q)
	}
	if t.mm2 != nil {
		expectedAsk += t.mm2.AskQ * int64(t.q)
		expectedBid += t.mm2.BidQ * int64(t.q)
	}

	actualAsk := change.PrevAsk - *t.baselineAsk
	actualBid := change.PrevBid - *t.baselineBid

	halfQ := int64(t.q) / 2
	if actualAsk >= expectedAsk-halfQ && actualBid >= expectedBid-halfQ {
		return
	}

	missingAsk := expectedAsk - actualAsk
	missingBid := expectedBid - actualBid
	qi := int64(t.q)

	if t.mm2 != nil {
		mm2Ask := t.mm2.AskQ * qi
		mm2Bid := t.mm2.BidQ * qi
		if abs64(missingAsk-mm2Ask) < qi && abs64(missingBid-mm2Bid) < qi {
			t.mm2Exit(change.TimeSec)
			return
		}
		if t.mm1 != nil {
			mm1Ask := t.mm1.AskQ * qi
			mm1Bid := t.mm1.BidQ * qi
			if abs64(missingAsk-mm1Ask) < qi && abs64(missingBid-mm1Bid) < qi {
				t.mm1Exit(change.TimeSec)
			}
		}
		return
	}

	// Only MM1 is occupied (mm2 matching is MM2-not-promoted: spec.md §9).
	mm1Ask := t.mm1.AskQ * qi
	mm1Bid := t.mm1.BidQ * qi
	if abs64(missingAsk-mm1Ask) < qi && abs64(missingBid-mm1Bid) < qi {
		t.mm1Exit(change.TimeSec)
	}
}

// pair classifies changes[i] and, for the two single-sided Q-multiple
// cases, scans forward within the 100ms window for a qualifying partner
// (spec.md §4.4.4). The window is strict and exclusive-above; ties of
// time_sec count as within.
func pair(changes []Change, i int) (pairedEvent, bool) {
	c := &changes[i]
	askQ := c.IsQMultipleAsk && c.DeltaAsk != 0
	bidQ := c.IsQMultipleBid && c.DeltaBid != 0

	switch {
	case askQ && c.DeltaBid == 0:
		dir := sign(c.DeltaAsk)
		for j := i + 1; j < len(changes); j++ {
			other := &changes[j]
			if other.Processed {
				continue
			}
			if (other.TimeSec-c.TimeSec)*1000 > 100 {
				break
			}
			if other.IsQMultipleBid && other.DeltaAsk == 0 && sign(other.DeltaBid) == dir {
				other.Processed = true
				return pairedEvent{askQ: c.DeltaAskQ, bidQ: other.DeltaBidQ, direction: dir, timeSec: c.TimeSec}, true
			}
		}
		return pairedEvent{}, false

	case bidQ && c.DeltaAsk == 0:
		dir := sign(c.DeltaBid)
		for j := i + 1; j < len(changes); j++ {
			other := &changes[j]
			if other.Processed {
				continue
			}
			if (other.TimeSec-c.TimeSec)*1000 > 100 {
				break
			}
			if other.IsQMultipleAsk && other.DeltaBid == 0 && sign(other.DeltaAsk) == dir {
				other.Processed = true
				return pairedEvent{askQ: other.DeltaAskQ, bidQ: c.DeltaBidQ, direction: dir, timeSec: c.TimeSec}, true
			}
		}
		return pairedEvent{}, false

	case askQ && bidQ:
		askDir, bidDir := sign(c.DeltaAsk), sign(c.DeltaBid)
		if askDir == bidDir {
			return pairedEvent{askQ: c.DeltaAskQ, bidQ: c.DeltaBidQ, direction: askDir, timeSec: c.TimeSec}, true
		}
		return pairedEvent{}, false

	default:
		return pairedEvent{}, false
	}
}

func sign(n int64) int {
	if n > 0 {
		return 1
	}
	return -1
}

// apply drives the two-slot state machine from a paired event
// (spec.md §4.4.5). prevAsk/prevBid are the anchoring change's
// pre-change totals, used to capture the baseline on a first MM1 entry.
func apply(t *Tracker, pe pairedEvent, prevAsk, prevBid int64) {
	askQ, bidQ := abs64(pe.askQ), abs64(pe.bidQ)

	if pe.direction > 0 {
		switch {
		case t.mm1 == nil:
			if t.baselineAsk == nil {
				t.baselineAsk = &prevAsk
				t.baselineBid = &prevBid
			}
			t.mm1Enter(askQ, bidQ, pe.timeSec)
		case t.mm2 == nil:
			t.mm2Enter(askQ, bidQ, pe.timeSec)
		default:
			// Both slots full: excess inferred entries are not tracked
			// (spec.md §4.4.5, §9 Open Question 3).
		}
		return
	}

	mm1Match := t.mm1 != nil && t.mm1.AskQ == askQ && t.mm1.BidQ == bidQ
	mm2Match := t.mm2 != nil && t.mm2.AskQ == askQ && t.mm2.BidQ == bidQ

	switch {
	case mm1Match && mm2Match:
		t.mm2Exit(pe.timeSec)
	case mm2Match:
		t.mm2Exit(pe.timeSec)
	case mm1Match:
		t.mm1Exit(pe.timeSec)
	}
}
