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

package wire

import (
	"bytes"
	"testing"
)

// buildPayload assembles a synthetic fixed-position payload for tests:
// trCode at [0:5], isin at [17:29], timeField at [35:47], and len(levels)
// 46-byte records starting at offset 47, each built from (askQty, bidQty).
func buildPayload(trCode, isin, timeField string, levels [][2]uint64) []byte {
	total := HogaBase + len(levels)*HogaRecordSize
	buf := bytes.Repeat([]byte(" "), total)
	copy(buf[TRCodeStart:TRCodeEnd], trCode)
	copy(buf[ISINStart:ISINEnd], isin)
	copy(buf[TimeStart:TimeEnd], timeField)

	for i, lvl := range levels {
		base := HogaBase + i*HogaRecordSize
		askField := fitField(lvl[0], hogaAskEnd-hogaAskOffset)
		bidField := fitField(lvl[1], hogaBidEnd-hogaBidOffset)
		copy(buf[base+hogaAskOffset:base+hogaAskEnd], askField)
		copy(buf[base+hogaBidOffset:base+hogaBidEnd], bidField)
	}
	return buf
}

func fitField(n uint64, width int) []byte {
	s := []byte(itoa(n))
	if len(s) > width {
		s = s[len(s)-width:]
	}
	out := bytes.Repeat([]byte(" "), width)
	copy(out, s)
	return out
}

func itoa(n uint64) string {
	if n == 0 {
		return "0"
	}
	var digits []byte
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestIsWhitelisted(t *testing.T) {
	tests := []struct {
		name    string
		trCode  string
		want    bool
	}{
		{"order book code B604F", "B604F", true},
		{"order book code B605F", "B605F", true},
		{"trade code A301F", "A301F", true},
		{"trade code A317F", "A317F", true},
		{"excluded A314F", "A314F", false},
		{"unknown code", "Z999F", false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := buildPayload(tc.trCode, "KR4101V30004", "090500000000", nil)
			if got := IsWhitelisted(payload); got != tc.want {
				t.Errorf("IsWhitelisted(%q) = %v, want %v", tc.trCode, got, tc.want)
			}
		})
	}
}

func TestIsWhitelistedUndersized(t *testing.T) {
	if IsWhitelisted([]byte("AB")) {
		t.Error("IsWhitelisted on undersized payload should be false")
	}
}

func TestPrefixAndISIN(t *testing.T) {
	payload := buildPayload("A301F", "KR4101V30004", "090500000000", nil)

	prefix, ok := Prefix(payload)
	if !ok || prefix != "KR4101" {
		t.Errorf("Prefix = %q, %v; want KR4101, true", prefix, ok)
	}

	isin, ok := ISIN(payload)
	if !ok || isin != "KR4101V30004" {
		t.Errorf("ISIN = %q, %v; want KR4101V30004, true", isin, ok)
	}
}

func TestPrefixUndersized(t *testing.T) {
	if _, ok := Prefix(make([]byte, 10)); ok {
		t.Error("Prefix on undersized payload should report false")
	}
}

func TestTimeSec(t *testing.T) {
	tests := []struct {
		name      string
		timeField string
		want      float64
	}{
		{"midnight", "000000000000", 0},
		{"duty start 09:05:00", "090500000000", 32700},
		{"duty end 15:20:00", "152000000000", 55200},
		{"with micros", "090500500000", 32700.5},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			payload := buildPayload("A301F", "KR4101V30004", tc.timeField, nil)
			got, ok := TimeSec(payload)
			if !ok {
				t.Fatalf("TimeSec returned not-ok")
			}
			if got != tc.want {
				t.Errorf("TimeSec(%q) = %v, want %v", tc.timeField, got, tc.want)
			}
		})
	}
}

func TestHogaTotals(t *testing.T) {
	levels := [][2]uint64{
		{100, 200},
		{50, 60},
		{0, 0},
		{10, 10},
		{5, 5},
	}
	payload := buildPayload("A301F", "KR4101V30004", "090500000000", levels)

	ask, bid := HogaTotals(payload)
	if ask != 165 {
		t.Errorf("askTotal = %d, want 165", ask)
	}
	if bid != 275 {
		t.Errorf("bidTotal = %d, want 275", bid)
	}
}

func TestHogaTotalsTruncatedPacket(t *testing.T) {
	// Only 2 of 5 levels present in the buffer.
	levels := [][2]uint64{{100, 200}, {50, 60}}
	payload := buildPayload("A301F", "KR4101V30004", "090500000000", levels)

	ask, bid := HogaTotals(payload)
	if ask != 150 || bid != 260 {
		t.Errorf("HogaTotals on truncated packet = (%d,%d), want (150,260)", ask, bid)
	}
}
