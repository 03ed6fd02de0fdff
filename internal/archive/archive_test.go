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

package archive

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func mustTime(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.ParseInLocation("2006-01-02 15:04:05", s, time.Local)
	if err != nil {
		t.Fatalf("parse time %q: %v", s, err)
	}
	return ts
}

func TestWithinTradingHours(t *testing.T) {
	tests := []struct {
		name string
		time string
		want bool
	}{
		{"before gate", "2026-07-31 08:39:59", false},
		{"gate open boundary", "2026-07-31 08:40:00", true},
		{"midday", "2026-07-31 12:00:00", true},
		{"gate close boundary", "2026-07-31 15:50:00", true},
		{"after gate", "2026-07-31 15:51:00", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := WithinTradingHours(mustTime(t, tc.time)); got != tc.want {
				t.Errorf("WithinTradingHours(%s) = %v, want %v", tc.time, got, tc.want)
			}
		})
	}
}

func TestAppendWritesAndDiscards(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	inHours := mustTime(t, "2026-07-31 10:00:00")
	outOfHours := mustTime(t, "2026-07-31 20:00:00")

	m.Append("krx:futures:stock", "futures_stock.log", []byte("line-one"), inHours)
	m.Append("krx:futures:stock", "futures_stock.log", []byte("line-two"), inHours)
	m.Append("krx:futures:stock", "futures_stock.log", []byte("ignored"), outOfHours)
	m.CloseAll()

	data, err := os.ReadFile(filepath.Join(dir, "2026-07-31", "futures_stock.log"))
	if err != nil {
		t.Fatalf("read archive file: %v", err)
	}
	want := "line-one\nline-two\n"
	if string(data) != want {
		t.Errorf("archive file contents = %q, want %q", data, want)
	}

	if got := m.DiscardCount("krx:futures:stock"); got != 1 {
		t.Errorf("DiscardCount = %d, want 1", got)
	}
}

func TestAppendRotatesOnDateChange(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	day1 := mustTime(t, "2026-07-30 10:00:00")
	day2 := mustTime(t, "2026-07-31 10:00:00")

	m.Append("krx:futures:stock", "futures_stock.log", []byte("day1"), day1)
	m.Append("krx:futures:stock", "futures_stock.log", []byte("day2"), day2)
	m.CloseAll()

	d1, err := os.ReadFile(filepath.Join(dir, "2026-07-30", "futures_stock.log"))
	if err != nil || string(d1) != "day1\n" {
		t.Errorf("day1 file = %q, %v; want %q", d1, err, "day1\n")
	}
	d2, err := os.ReadFile(filepath.Join(dir, "2026-07-31", "futures_stock.log"))
	if err != nil || string(d2) != "day2\n" {
		t.Errorf("day2 file = %q, %v; want %q", d2, err, "day2\n")
	}
}
