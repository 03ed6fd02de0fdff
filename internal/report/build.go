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
	"fmt"

	"github.com/dsquant/krx-mm/internal/catalog"
	"github.com/dsquant/krx-mm/internal/mm"
)

// SnapshotLookup resolves an ISIN to its day's ask/bid snapshot sequence.
// hasData is false when the instrument never traded that day.
type SnapshotLookup func(isin string) (snapshots []mm.Snapshot, hasData bool)

// sides is the fixed two-side order the table iterates (spec.md §4.5).
var sides = []struct {
	side  Side
	right string
}{
	{SideCall, "C"},
	{SidePut, "P"},
}

// Build assembles the 72-row table for one date: underlyings × sides ×
// catalog.Levels (spec.md §4.5). Rows with no matching listed option or
// fewer than two snapshots render as dash rows (spec.md §7).
func Build(date string, underlyings []string, cat *catalog.Catalog, lookup SnapshotLookup) (Table, error) {
	table := Table{Date: date}

	for _, underlying := range underlyings {
		expiry, ok, err := cat.NearestCommonExpiry(underlying)
		if err != nil {
			return Table{}, fmt.Errorf("nearest common expiry for %s: %w", underlying, err)
		}
		if !ok {
			table.Rows = append(table.Rows, dashRows(underlying)...)
			continue
		}

		for _, s := range sides {
			options, err := cat.OptionsForExpiry(underlying, expiry, s.right)
			if err != nil {
				return Table{}, fmt.Errorf("options for %s/%s: %w", underlying, s.right, err)
			}
			levels := catalog.ClassifyStrikes(s.right, options)

			for _, level := range catalog.Levels {
				row := Row{Underlying: underlying, Side: s.side, Level: level}

				opt, ok := levels[level]
				if !ok {
					row.Dash = true
					table.Rows = append(table.Rows, row)
					continue
				}
				row.ISIN = opt.ISIN
				row.Strike = opt.Strike

				info, ok, err := cat.DutyQ(underlying, level)
				if err != nil {
					return Table{}, fmt.Errorf("duty Q for %s/%s: %w", underlying, level, err)
				}
				if !ok {
					row.Dash = true
					table.Rows = append(table.Rows, row)
					continue
				}
				row.Firm = info.Firm
				row.Q = info.Q

				snapshots, hasData := lookup(opt.ISIN)
				result, okAnalyze := mm.Analyze(snapshots, info.Q)
				if !hasData || !okAnalyze {
					row.Dash = true
					table.Rows = append(table.Rows, row)
					continue
				}
				row.Result = result
				table.Rows = append(table.Rows, row)
			}
		}
	}

	return table, nil
}

func dashRows(underlying string) []Row {
	rows := make([]Row, 0, 2*len(catalog.Levels))
	for _, s := range sides {
		for _, level := range catalog.Levels {
			rows = append(rows, Row{Underlying: underlying, Side: s.side, Level: level, Dash: true})
		}
	}
	return rows
}
