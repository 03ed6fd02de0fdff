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

package report

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/dsquant/krx-mm/internal/mm"
	"github.com/dsquant/krx-mm/internal/wire"
)

// optionLogFiles are the archive filenames that carry option payloads
// (spec.md §6 "Archive layout") — futures logs hold no option ISINs and
// are not read by the analyzer.
var optionLogFiles = []string{
	"options_call_stock.log",
	"options_call_index.log",
	"options_put_stock.log",
	"options_put_index.log",
}

// LoadDaySnapshots reads the archived option logs for date under baseDir
// and groups them into a per-ISIN, time-sorted snapshot sequence
// (spec.md §4.4.1 "Input assembly"). Lines with no recoverable ISIN or
// time field are skipped, as are lines outside [mm.DutyStart, mm.DutyEnd]
// — the archiver's trading-hour gate (§6) is strictly wider than the duty
// window, so archived logs routinely carry snapshots Analyze must never see.
func LoadDaySnapshots(baseDir, date string) (SnapshotLookup, error) {
	byISIN := make(map[string][]mm.Snapshot)

	dayDir := filepath.Join(baseDir, date)
	for _, name := range optionLogFiles {
		path := filepath.Join(dayDir, name)
		if err := loadLogFile(path, byISIN); err != nil {
			return nil, err
		}
	}

	for isin := range byISIN {
		sort.Slice(byISIN[isin], func(i, j int) bool {
			return byISIN[isin][i].TimeSec < byISIN[isin][j].TimeSec
		})
	}

	return func(isin string) ([]mm.Snapshot, bool) {
		s, ok := byISIN[isin]
		return s, ok
	}, nil
}

func loadLogFile(path string, byISIN map[string][]mm.Snapshot) error {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil // a quiet day may never have opened this file
	}
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 4096), 1<<20)
	for scanner.Scan() {
		line := scanner.Bytes()

		isin, ok := wire.ISIN(line)
		if !ok {
			continue
		}
		timeSec, ok := wire.TimeSec(line)
		if !ok {
			continue
		}
		if timeSec < mm.DutyStart || timeSec > mm.DutyEnd {
			continue // archiver's trading-hour gate is wider than the duty window (spec.md §4.4.1)
		}
		askTotal, bidTotal := wire.HogaTotals(line)

		byISIN[isin] = append(byISIN[isin], mm.Snapshot{
			TimeSec:  timeSec,
			AskTotal: int64(askTotal),
			BidTotal: int64(bidTotal),
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scan %s: %w", path, err)
	}
	return nil
}
