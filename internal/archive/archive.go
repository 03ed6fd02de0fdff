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

// Package archive implements the Archiver (AR): a single bus consumer
// that gates by trading hours and appends raw payloads to per-day,
// per-channel log files (spec.md §4.2).
package archive

import (
	"bufio"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dsquant/krx-mm/internal/metrics"
)

const (
	gateOpenMinute  = 8*60 + 40  // 08:40
	gateCloseMinute = 15*60 + 50 // 15:50
)

// openFile pairs a buffered writer with its underlying handle so Close
// can flush and release both.
type openFile struct {
	f *os.File
	w *bufio.Writer
}

// Manager owns the map of open per-day file handles. File handles rotate
// when the local wall-clock date changes; the map is guarded by a single
// mutex (spec.md §5 "Shared-resource policy").
type Manager struct {
	baseDir string

	mu       sync.Mutex
	day      string
	files    map[string]*openFile
	discards map[string]uint64
}

// NewManager creates a file manager rooted at baseDir.
func NewManager(baseDir string) *Manager {
	return &Manager{
		baseDir:  baseDir,
		files:    make(map[string]*openFile),
		discards: make(map[string]uint64),
	}
}

// WithinTradingHours reports whether t's local minute-of-day falls in
// [08:40, 15:50] inclusive (spec.md §6).
func WithinTradingHours(t time.Time) bool {
	minute := t.Hour()*60 + t.Minute()
	return minute >= gateOpenMinute && minute <= gateCloseMinute
}

// Append writes payload, newline-terminated, to the file for channel on
// the current local date, creating the per-day directory and rotating
// open handles on date rollover as needed (spec.md §4.2 steps 1-4).
func (m *Manager) Append(channel, filename string, payload []byte, now time.Time) {
	if !WithinTradingHours(now) {
		m.mu.Lock()
		m.discards[channel]++
		count := m.discards[channel]
		m.mu.Unlock()
		metrics.ArchiveDiscards.WithLabelValues(channel).Inc()
		if count%1000 == 0 {
			log.Printf("archive[%s]: discarded %d messages outside trading hours", channel, count)
		}
		return
	}

	day := now.Format("2006-01-02")

	m.mu.Lock()
	defer m.mu.Unlock()

	if day != m.day {
		m.closeAllLocked()
		m.day = day
	}

	of, ok := m.files[filename]
	if !ok {
		dir := filepath.Join(m.baseDir, day)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Printf("archive[%s]: mkdir %s failed: %v", channel, dir, err)
			return
		}
		f, err := os.OpenFile(filepath.Join(dir, filename), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			log.Printf("archive[%s]: open failed: %v", channel, err)
			return
		}
		of = &openFile{f: f, w: bufio.NewWriter(f)}
		m.files[filename] = of
	}

	if _, err := of.w.Write(payload); err != nil {
		log.Printf("archive[%s]: write failed: %v", channel, err)
		return
	}
	if err := of.w.WriteByte('\n'); err != nil {
		log.Printf("archive[%s]: write failed: %v", channel, err)
		return
	}
	if err := of.w.Flush(); err != nil {
		log.Printf("archive[%s]: flush failed: %v", channel, err)
		return
	}

	metrics.ArchiveWrites.WithLabelValues(channel).Inc()
}

// closeAllLocked flushes and closes every open handle. Caller must hold m.mu.
func (m *Manager) closeAllLocked() {
	for name, of := range m.files {
		if err := of.w.Flush(); err != nil {
			log.Printf("archive: flush on rotate failed for %s: %v", name, err)
		}
		if err := of.f.Close(); err != nil {
			log.Printf("archive: close on rotate failed for %s: %v", name, err)
		}
	}
	m.files = make(map[string]*openFile)
}

// CloseAll flushes and closes every open handle under lock — used on
// shutdown (spec.md §5 "Cancellation").
func (m *Manager) CloseAll() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeAllLocked()
}

// SweepRollover closes all open handles and resets the tracked day if
// the local date has advanced since the last Append, so a date boundary
// crossed during low traffic still rotates files promptly.
func (m *Manager) SweepRollover(now time.Time) bool {
	day := now.Format("2006-01-02")

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.day == "" || m.day == day {
		return false
	}
	m.closeAllLocked()
	m.day = day
	return true
}

// DiscardCount returns the current discard count for channel, used by
// the periodic logging job.
func (m *Manager) DiscardCount(channel string) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.discards[channel]
}
