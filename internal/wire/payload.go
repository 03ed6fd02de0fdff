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
	"strconv"
	"strings"
)

// Fixed byte offsets within the ASCII payload. See constants below for the
// exact ranges; a hoga record is 46 bytes starting at HogaBase, repeated,
// of which the first five are read.
const (
	TRCodeStart = 0
	TRCodeEnd   = 5 // [0:5), 5-char TR code (spec uses 5-char/"B604F"-style codes)

	PrefixStart = 17
	PrefixEnd   = 23 // [17:23), 6-char classification prefix

	ISINStart = 17
	ISINEnd   = 29 // [17:29), 12-char ISIN

	TimeStart = 35
	TimeEnd   = 47 // [35:47), 12-char HHMMSSuuuuuu

	HogaBase       = 47
	HogaRecordSize = 46
	HogaLevels     = 5

	hogaAskOffset = 18 // within a 46-byte record, [18:27)
	hogaAskEnd    = 27
	hogaBidOffset = 27 // [27:36)
	hogaBidEnd    = 36
)

// WhitelistedTRCodes is the 18-entry set of transaction-record codes the
// ingestor accepts: two order-book codes and sixteen trade codes
// (A301F-A317F without A314F).
var WhitelistedTRCodes = map[string]struct{}{
	"B604F": {}, "B605F": {},
	"A301F": {}, "A302F": {}, "A303F": {}, "A304F": {}, "A305F": {},
	"A306F": {}, "A307F": {}, "A308F": {}, "A309F": {}, "A310F": {},
	"A311F": {}, "A312F": {}, "A313F": {}, "A315F": {}, "A316F": {},
	"A317F": {},
}

// IsWhitelisted reports whether payload's leading TR code is one of the
// 18 accepted codes. HOT PATH: called once per received datagram.
func IsWhitelisted(payload []byte) bool {
	if len(payload) < TRCodeEnd {
		return false
	}
	_, ok := WhitelistedTRCodes[string(payload[TRCodeStart:TRCodeEnd])]
	return ok
}

// Prefix extracts the 6-char classification prefix at bytes[17:23]. The
// second return is false when the payload is too short to yield one, in
// which case callers must route to the index variant (spec.md §4.1 step 2).
func Prefix(payload []byte) (string, bool) {
	if len(payload) < PrefixEnd {
		return "", false
	}
	return string(payload[PrefixStart:PrefixEnd]), true
}

// ISIN extracts the 12-char instrument identifier at bytes[17:29].
func ISIN(payload []byte) (string, bool) {
	if len(payload) < ISINEnd {
		return "", false
	}
	return string(payload[ISINStart:ISINEnd]), true
}

// TimeSec decodes the 12-char HHMMSSuuuuuu field at bytes[35:47] into
// seconds since midnight with microsecond precision.
func TimeSec(payload []byte) (float64, bool) {
	if len(payload) < TimeEnd {
		return 0, false
	}
	raw := payload[TimeStart:TimeEnd]
	hh, err1 := strconv.Atoi(string(raw[0:2]))
	mm, err2 := strconv.Atoi(string(raw[2:4]))
	ss, err3 := strconv.Atoi(string(raw[4:6]))
	uu, err4 := strconv.Atoi(string(raw[6:12]))
	if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
		return 0, false
	}
	return float64(hh*3600+mm*60+ss) + float64(uu)/1e6, true
}

// HogaTotals sums ask and bid quantities across the first five hoga
// (order-book-level) records starting at byte offset 47. Right-padded
// ASCII decimal fields that fail to parse are treated as zero, matching
// the archived-log tolerance the analyzer applies (spec.md §7 "undersized
// packet" policy extended to malformed numeric fields).
func HogaTotals(payload []byte) (askTotal, bidTotal uint64) {
	for level := 0; level < HogaLevels; level++ {
		base := HogaBase + level*HogaRecordSize
		if base+hogaBidEnd > len(payload) {
			break
		}
		askTotal += parseDigits(payload[base+hogaAskOffset : base+hogaAskEnd])
		bidTotal += parseDigits(payload[base+hogaBidOffset : base+hogaBidEnd])
	}
	return askTotal, bidTotal
}

// parseDigits parses a right-padded ASCII decimal field, ignoring
// trailing spaces/nulls. Zero allocations on the happy path.
func parseDigits(field []byte) uint64 {
	trimmed := strings.TrimRight(string(field), " \x00")
	if trimmed == "" {
		return 0
	}
	n, err := strconv.ParseUint(trimmed, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
