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

import (
	"testing"

	"github.com/dsquant/krx-mm/internal/classifier"
)

func TestIndexFallback(t *testing.T) {
	tests := []struct {
		side classifier.Side
		want classifier.Stream
	}{
		{classifier.SideFutures, classifier.StreamFuturesIndex},
		{classifier.SideCall, classifier.StreamOptionsCallIndex},
		{classifier.SidePut, classifier.StreamOptionsPutIndex},
	}
	for _, tc := range tests {
		if got := indexFallback(tc.side); got != tc.want {
			t.Errorf("indexFallback(%v) = %v, want %v", tc.side, got, tc.want)
		}
	}
}

func TestStatsSnapshot(t *testing.T) {
	s := &Stats{}
	s.AddAccepted()
	s.AddAccepted()
	s.AddRejected()
	s.AddError()

	accepted, rejected, errors := s.Snapshot()
	if accepted != 2 || rejected != 1 || errors != 1 {
		t.Errorf("Snapshot() = (%d,%d,%d), want (2,1,1)", accepted, rejected, errors)
	}
}
