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

// Package report builds and renders the daily MM-presence table: one row
// per underlying × side × strike level, 72 rows total for six underlyings
// (spec.md §4.5).
package report

import (
	"github.com/shopspring/decimal"

	"github.com/dsquant/krx-mm/internal/mm"
)

// Side is the option right a row describes.
type Side string

const (
	SideCall Side = "C"
	SidePut  Side = "P"
)

// Row is one line of the 72-row table. A Row with Dash set true renders as
// a dash row: no matching listed option, or fewer than two snapshots for
// the instrument (spec.md §4.5, §7).
type Row struct {
	Underlying string
	Side       Side
	Level      string // ITM1, ATM, OTM1..OTM4

	Firm   string
	ISIN   string
	Strike int
	Q      uint64

	Dash bool
	mm.Result
}

// StrikeDecimal renders the strike as a fixed-point value for display
// parity with the rate columns (strikes are integers on the wire, but the
// table's numeric columns are uniformly decimal-formatted).
func (r Row) StrikeDecimal() decimal.Decimal {
	return decimal.NewFromInt(int64(r.Strike))
}

func (r Row) rateDecimal(rate float64) decimal.Decimal {
	return decimal.NewFromFloat(rate).Round(2)
}

// MM1RateDecimal, MM2RateDecimal and the bucket-rate accessors round to
// two decimal places for display (spec.md §4.4.6 "report each rate as
// bucket/D × 100").
func (r Row) MM1RateDecimal() decimal.Decimal     { return r.rateDecimal(r.MM1Rate) }
func (r Row) MM2RateDecimal() decimal.Decimal     { return r.rateDecimal(r.MM2Rate) }
func (r Row) OnlyMM1RateDecimal() decimal.Decimal { return r.rateDecimal(r.OnlyMM1Rate) }
func (r Row) OnlyMM2RateDecimal() decimal.Decimal { return r.rateDecimal(r.OnlyMM2Rate) }
func (r Row) BothRateDecimal() decimal.Decimal    { return r.rateDecimal(r.BothRate) }
func (r Row) NoneRateDecimal() decimal.Decimal    { return r.rateDecimal(r.NoneRate) }

// Table is the full daily report: 72 rows plus the date they describe.
type Table struct {
	Date string // YYYY-MM-DD
	Rows []Row
}
