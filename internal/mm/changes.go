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

// abs64 returns the absolute value of a signed 64-bit integer.
func abs64(n int64) int64 {
	if n < 0 {
		return -n
	}
	return n
}

// qDiv computes the signed integer-division-toward-zero quotient used
// for delta_ask_q/delta_bid_q (spec.md §4.4.2): sign(delta) × (|delta| / Q).
func qDiv(delta int64, q uint64) int64 {
	qi := int64(q)
	if delta >= 0 {
		return delta / qi
	}
	return -(abs64(delta) / qi)
}

// isQMultiple reports whether |delta| is a non-zero multiple of q
// (spec.md §4.4.2: "true iff |delta| ≥ Q and |delta| % Q == 0").
func isQMultiple(delta int64, q uint64) bool {
	qi := int64(q)
	a := abs64(delta)
	return a >= qi && a%qi == 0
}

// ExtractChanges walks consecutive snapshot pairs and emits one Change
// per pair whose ask or bid total differs (spec.md §4.4.2). Unchanged
// snapshots are skipped.
func ExtractChanges(snapshots []Snapshot, q uint64) []Change {
	changes := make([]Change, 0, len(snapshots))

	for i := 1; i < len(snapshots); i++ {
		prev, curr := snapshots[i-1], snapshots[i]
		deltaAsk := curr.AskTotal - prev.AskTotal
		deltaBid := curr.BidTotal - prev.BidTotal

		if deltaAsk == 0 && deltaBid == 0 {
			continue
		}

		changes = append(changes, Change{
			TimeSec:        curr.TimeSec,
			DeltaAsk:       deltaAsk,
			DeltaBid:       deltaBid,
			DeltaAskQ:      qDiv(deltaAsk, q),
			DeltaBidQ:      qDiv(deltaBid, q),
			PrevAsk:        prev.AskTotal,
			PrevBid:        prev.BidTotal,
			IsQMultipleAsk: isQMultiple(deltaAsk, q),
			IsQMultipleBid: isQMultiple(deltaBid, q),
		})
	}

	return changes
}
