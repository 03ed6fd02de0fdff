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

// aggregation holds the four disjoint duty-window buckets, in seconds
// (spec.md §4.4.6).
type aggregation struct {
	none    float64
	onlyMM1 float64
	onlyMM2 float64
	both    float64
}

// aggregate computes the duration aggregation over a timeline
// (spec.md §4.4.6). firstTime/lastTime are the instrument's earliest and
// latest recorded snapshot times.
func aggregate(timeline []TimelineEntry, firstTime, lastTime float64) aggregation {
	var agg aggregation

	if firstTime > DutyStart {
		agg.none += firstTime - DutyStart
	}
	if timeline[0].TimeSec > firstTime {
		agg.none += timeline[0].TimeSec - firstTime
	}

	for i, state := range timeline {
		var duration float64
		if i < len(timeline)-1 {
			duration = timeline[i+1].TimeSec - state.TimeSec
		} else {
			duration = lastTime - state.TimeSec
		}
		if duration < 0 {
			duration = 0 // defensive clamp (spec.md §7)
		}

		addBucket(&agg, state.MM1Present, state.MM2Present, duration)
	}

	if lastTime < DutyEnd {
		last := timeline[len(timeline)-1]
		addBucket(&agg, last.MM1Present, last.MM2Present, DutyEnd-lastTime)
	}

	return agg
}

func addBucket(agg *aggregation, mm1, mm2 bool, duration float64) {
	switch {
	case mm1 && mm2:
		agg.both += duration
	case mm1:
		agg.onlyMM1 += duration
	case mm2:
		agg.onlyMM2 += duration
	default:
		agg.none += duration
	}
}
