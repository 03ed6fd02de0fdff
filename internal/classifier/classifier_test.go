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

package classifier

import "testing"

func TestClassifyFuturesDegradedEmptySet(t *testing.T) {
	c := &Classifier{futures: map[string]struct{}{}, options: map[string]struct{}{}}

	if got := c.ClassifyFutures("KR4101"); got != StreamFuturesIndex {
		t.Errorf("empty set classifies stock-like prefix as %v, want index", got)
	}
}

func TestClassifyFutures(t *testing.T) {
	c := &Classifier{
		futures: map[string]struct{}{"KR4101": {}},
		options: map[string]struct{}{},
	}

	tests := []struct {
		prefix string
		want   Stream
	}{
		{"KR4101", StreamFuturesStock},
		{"KR4999", StreamFuturesIndex},
	}
	for _, tc := range tests {
		if got := c.ClassifyFutures(tc.prefix); got != tc.want {
			t.Errorf("ClassifyFutures(%q) = %v, want %v", tc.prefix, got, tc.want)
		}
	}
}

func TestClassifyOption(t *testing.T) {
	c := &Classifier{
		futures: map[string]struct{}{},
		options: map[string]struct{}{"KR4201": {}},
	}

	tests := []struct {
		name   string
		prefix string
		side   Side
		want   Stream
	}{
		{"call stock", "KR4201", SideCall, StreamOptionsCallStock},
		{"call index", "KR4999", SideCall, StreamOptionsCallIndex},
		{"put stock", "KR4201", SidePut, StreamOptionsPutStock},
		{"put index", "KR4999", SidePut, StreamOptionsPutIndex},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := c.ClassifyOption(tc.prefix, tc.side); got != tc.want {
				t.Errorf("ClassifyOption(%q, %v) = %v, want %v", tc.prefix, tc.side, got, tc.want)
			}
		})
	}
}

func TestStreamChannelAndFilename(t *testing.T) {
	for _, s := range AllStreams {
		if s.Channel() == "" {
			t.Errorf("stream %v has empty channel name", s)
		}
		if s.Filename() == "" {
			t.Errorf("stream %v has empty filename", s)
		}
	}

	if StreamFuturesStock.Channel() != "krx:futures:stock" {
		t.Errorf("StreamFuturesStock.Channel() = %q", StreamFuturesStock.Channel())
	}
	if StreamOptionsPutIndex.Filename() != "options_put_index.log" {
		t.Errorf("StreamOptionsPutIndex.Filename() = %q", StreamOptionsPutIndex.Filename())
	}
}
