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

import (
	"math"
	"testing"
)

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}

// S1 — single MM full window (spec.md §8).
func TestAnalyzeS1SingleMMFullWindow(t *testing.T) {
	snapshots := []Snapshot{
		{TimeSec: 32700, AskTotal: 0, BidTotal: 0},
		{TimeSec: 32700.050, AskTotal: 100, BidTotal: 100},
		{TimeSec: 55200, AskTotal: 100, BidTotal: 100},
	}

	result, ok := Analyze(snapshots, 10)
	if !ok {
		t.Fatal("Analyze returned not-ok")
	}

	if !approxEqual(result.OnlyMM1Rate, 99.9998, 0.001) {
		t.Errorf("OnlyMM1Rate = %v, want ≈99.9998", result.OnlyMM1Rate)
	}
	if result.MM2Rate != 0 {
		t.Errorf("MM2Rate = %v, want 0", result.MM2Rate)
	}
	if !approxEqual(result.NoneRate, 0.000222, 0.0005) {
		t.Errorf("NoneRate = %v, want ≈0", result.NoneRate)
	}
}

// S2 — paired across sides within window (spec.md §8).
func TestAnalyzeS2PairedAcrossSides(t *testing.T) {
	snapshots := []Snapshot{
		{TimeSec: 32700, AskTotal: 0, BidTotal: 0},
		{TimeSec: 32800.00, AskTotal: 100, BidTotal: 0},
		{TimeSec: 32800.05, AskTotal: 100, BidTotal: 100},
		{TimeSec: 55200, AskTotal: 100, BidTotal: 100},
	}

	result, ok := Analyze(snapshots, 10)
	if !ok {
		t.Fatal("Analyze returned not-ok")
	}

	if !approxEqual(result.OnlyMM1Rate, 99.56, 0.01) {
		t.Errorf("OnlyMM1Rate = %v, want ≈99.56", result.OnlyMM1Rate)
	}
}

// S3 — stealth-exit sequence: entry followed by a clean two-sided
// departure. The MM1 slot must close by t0+10 regardless of whether the
// departure is resolved via direct pairing or residual reconciliation
// (spec.md §8 S3; both mechanisms yield the same observable timeline for
// this exact sequence).
func TestAnalyzeS3StealthExit(t *testing.T) {
	t0 := 32700.0
	snapshots := []Snapshot{
		{TimeSec: t0, AskTotal: 0, BidTotal: 0},
		{TimeSec: t0 + 0.01, AskTotal: 100, BidTotal: 100},
		{TimeSec: t0 + 10, AskTotal: 0, BidTotal: 0},
	}

	result, ok := Analyze(snapshots, 10)
	if !ok {
		t.Fatal("Analyze returned not-ok")
	}

	if result.MM1Rate <= 0 {
		t.Errorf("MM1Rate = %v, want > 0 (MM1 was present for ~10s)", result.MM1Rate)
	}
	if result.MM2Rate != 0 {
		t.Errorf("MM2Rate = %v, want 0 (MM2 never entered)", result.MM2Rate)
	}

	sumBuckets := result.OnlyMM1Rate + result.OnlyMM2Rate + result.BothRate + result.NoneRate
	if !approxEqual(sumBuckets, 100, 0.01) {
		t.Errorf("bucket rates sum to %v, want ≈100", sumBuckets)
	}
}

// reconcile in isolation, matching spec.md §8 S3's narrated numbers
// directly: actual_mm_ask(0) < expected(100) − 5 triggers an MM1 exit.
func TestReconcileDetectsStealthExit(t *testing.T) {
	baselineAsk, baselineBid := int64(0), int64(0)
	tr := &Tracker{
		q:           10,
		mm1:         &mmSlot{AskQ: 10, BidQ: 10},
		baselineAsk: &baselineAsk,
		baselineBid: &baselineBid,
	}

	change := &Change{PrevAsk: 0, PrevBid: 0, TimeSec: 32710}
	reconcile(tr, change)

	if tr.mm1 != nil {
		t.Error("reconcile did not clear MM1 on detected stealth exit")
	}
	if len(tr.Timeline) != 1 || tr.Timeline[0].TimeSec != 32710 {
		t.Errorf("Timeline = %+v, want one entry at 32710", tr.Timeline)
	}
}

func TestReconcileNoOpWithoutBaseline(t *testing.T) {
	tr := &Tracker{q: 10, mm1: &mmSlot{AskQ: 10, BidQ: 10}}
	change := &Change{PrevAsk: 0, PrevBid: 0, TimeSec: 100}
	reconcile(tr, change)

	if tr.mm1 == nil {
		t.Error("reconcile fired without a captured baseline")
	}
}

// S4 — two MMs, exit pattern tie: exact match on both slots exits MM2,
// MM1 is preserved (spec.md §8 S4).
func TestApplyExitPatternTiePrefersMM2(t *testing.T) {
	tr := &Tracker{
		mm1: &mmSlot{AskQ: 5, BidQ: 5},
		mm2: &mmSlot{AskQ: 5, BidQ: 5},
	}

	apply(tr, pairedEvent{askQ: -5, bidQ: -5, direction: -1, timeSec: 1000}, 0, 0)

	if tr.mm2 != nil {
		t.Error("MM2 should have exited on the tie")
	}
	if tr.mm1 == nil {
		t.Error("MM1 must be preserved, not promoted or cleared")
	}
}

// S5 — unpaired Q-multiple leaves state unchanged (spec.md §8 S5).
func TestPairUnmatchedAskOnlyLeavesStateUnchanged(t *testing.T) {
	snapshots := []Snapshot{
		{TimeSec: 32700, AskTotal: 0, BidTotal: 0},
		{TimeSec: 32700.05, AskTotal: 100, BidTotal: 0}, // ask-only Q-multiple, no bid partner ever arrives
		{TimeSec: 55200, AskTotal: 100, BidTotal: 0},
	}

	result, ok := Analyze(snapshots, 10)
	if !ok {
		t.Fatal("Analyze returned not-ok")
	}
	if result.MM1Rate != 0 || result.MM2Rate != 0 {
		t.Errorf("MM1Rate=%v MM2Rate=%v, want 0,0 (no pairing occurred)", result.MM1Rate, result.MM2Rate)
	}
	if !approxEqual(result.NoneRate, 100, 0.01) {
		t.Errorf("NoneRate = %v, want ≈100", result.NoneRate)
	}
}

// Boundary: Q-1 is not a multiple, Q and 2Q are.
func TestIsQMultipleBoundaries(t *testing.T) {
	tests := []struct {
		delta int64
		q     uint64
		want  bool
	}{
		{9, 10, false},
		{10, 10, true},
		{20, 10, true},
		{-9, 10, false},
		{-10, 10, true},
	}
	for _, tc := range tests {
		if got := isQMultiple(tc.delta, tc.q); got != tc.want {
			t.Errorf("isQMultiple(%d, %d) = %v, want %v", tc.delta, tc.q, got, tc.want)
		}
	}
}

// "With Q = 10, delta_ask = −5 yields delta_ask_q = 0 and
// is_q_multiple_ask = false" (spec.md §8 Boundaries).
func TestQDivNegativeSmallDelta(t *testing.T) {
	if got := qDiv(-5, 10); got != 0 {
		t.Errorf("qDiv(-5, 10) = %d, want 0", got)
	}
	if isQMultiple(-5, 10) {
		t.Error("isQMultiple(-5, 10) should be false")
	}
}

// Invariant 1: bucket durations sum to the duty-window length.
func TestInvariantBucketsSumToDutyLength(t *testing.T) {
	snapshots := []Snapshot{
		{TimeSec: 32750, AskTotal: 0, BidTotal: 0},
		{TimeSec: 32900, AskTotal: 100, BidTotal: 100},
		{TimeSec: 40000, AskTotal: 0, BidTotal: 0},
		{TimeSec: 40000.05, AskTotal: 100, BidTotal: 100},
		{TimeSec: 55000, AskTotal: 100, BidTotal: 100},
	}

	result, ok := Analyze(snapshots, 10)
	if !ok {
		t.Fatal("Analyze returned not-ok")
	}

	sum := result.OnlyMM1Rate + result.OnlyMM2Rate + result.BothRate + result.NoneRate
	if !approxEqual(sum, 100, 1e-6) {
		t.Errorf("bucket rates sum to %v, want 100", sum)
	}
	mm1Total := result.OnlyMM1Rate + result.BothRate
	if !approxEqual(mm1Total, result.MM1Rate, 1e-9) {
		t.Errorf("MM1Rate = %v, want only_mm1+both = %v", result.MM1Rate, mm1Total)
	}
}

// Fewer than two snapshots: dash-row behavior at the API boundary.
func TestAnalyzeFewerThanTwoSnapshots(t *testing.T) {
	if _, ok := Analyze(nil, 10); ok {
		t.Error("Analyze(nil) should report not-ok")
	}
	if _, ok := Analyze([]Snapshot{{TimeSec: 1}}, 10); ok {
		t.Error("Analyze(single snapshot) should report not-ok")
	}
}

// Invariant: a paired event consumes at most two input changes.
func TestPairConsumesAtMostTwoChanges(t *testing.T) {
	changes := []Change{
		{TimeSec: 100.00, DeltaAsk: 100, DeltaBid: 0, DeltaAskQ: 10, DeltaBidQ: 0, IsQMultipleAsk: true},
		{TimeSec: 100.05, DeltaAsk: 0, DeltaBid: 100, DeltaAskQ: 0, DeltaBidQ: 10, IsQMultipleBid: true},
		{TimeSec: 100.06, DeltaAsk: 0, DeltaBid: 100, DeltaAskQ: 0, DeltaBidQ: 10, IsQMultipleBid: true},
	}

	pe, ok := pair(changes, 0)
	if !ok {
		t.Fatal("expected a pairing")
	}
	if pe.askQ != 10 || pe.bidQ != 10 {
		t.Errorf("paired event = %+v, want askQ=10 bidQ=10", pe)
	}
	if !changes[1].Processed {
		t.Error("matched partner must be marked processed")
	}
	if changes[2].Processed {
		t.Error("unmatched third change must remain unprocessed")
	}
}
