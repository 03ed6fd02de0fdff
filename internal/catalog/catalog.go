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

// Package catalog loads the analyzer's two input documents — the
// duty-requirements mapping and the daily options-master — into a local
// SQLite store and serves nearest-expiry/strike-classification queries
// built with squirrel (spec.md §6 "Analyzer inputs").
package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS options_master (
	isin     TEXT PRIMARY KEY,
	name     TEXT NOT NULL,
	right    TEXT NOT NULL,
	expiry   TEXT NOT NULL,
	strike   INTEGER NOT NULL,
	atm_flag TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS duty_levels (
	product_id TEXT NOT NULL,
	level      TEXT NOT NULL,
	q          INTEGER NOT NULL,
	firm       TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (product_id, level)
);
`

// OptionMaster is one row of the daily options-master document
// (spec.md §6).
type OptionMaster struct {
	ISIN    string `db:"isin" json:"isin"`
	Name    string `db:"name" json:"name"`
	Right   string `db:"right" json:"right"` // "C" or "P"
	Expiry  string `db:"expiry" json:"expiry"`
	Strike  int    `db:"strike" json:"strike"`
	ATMFlag string `db:"atm_flag" json:"atm_flag"` // "1"=ATM, "2"=ITM, "3"=OTM
}

// Catalog wraps the local SQLite store.
type Catalog struct {
	db *sqlx.DB
}

// Open creates (or opens) the SQLite database at path and ensures the schema exists.
func Open(path string) (*Catalog, error) {
	db, err := sqlx.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("catalog open: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("catalog schema: %w", err)
	}
	return &Catalog{db: db}, nil
}

func (c *Catalog) Close() error {
	return c.db.Close()
}

// optionsMasterDoc is the on-disk JSON shape for the daily options-master
// document (spec.md §6).
type optionsMasterDoc struct {
	Options []OptionMaster `json:"options"`
}

// LoadOptionsMaster reads path and upserts every row into options_master.
func (c *Catalog) LoadOptionsMaster(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read options master %s: %w", path, err)
	}
	var doc optionsMasterDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse options master %s: %w", path, err)
	}

	tx, err := c.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO options_master (isin, name, right, expiry, strike, atm_flag) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range doc.Options {
		if _, err := stmt.Exec(o.ISIN, o.Name, o.Right, o.Expiry, o.Strike, o.ATMFlag); err != nil {
			return fmt.Errorf("insert option %s: %w", o.ISIN, err)
		}
	}

	return tx.Commit()
}

// DutyLevelInfo is one entry of the duty-requirements document: the quote
// unit Q and the partner firm obligated to quote that product/level
// (spec.md §6 "Analyzer inputs"; the contracted-firm field is the
// report's "partner firm" column, spec.md §4.5).
type DutyLevelInfo struct {
	Q    uint64 `db:"q" json:"q"`
	Firm string `db:"firm" json:"firm"`
}

// dutyRequirementsDoc is the on-disk JSON shape: product-id -> level -> info.
type dutyRequirementsDoc map[string]map[string]DutyLevelInfo

// LoadDutyRequirements reads path and upserts every product/level row.
func (c *Catalog) LoadDutyRequirements(path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read duty requirements %s: %w", path, err)
	}
	var doc dutyRequirementsDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("parse duty requirements %s: %w", path, err)
	}

	tx, err := c.db.Beginx()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Preparex(`INSERT OR REPLACE INTO duty_levels (product_id, level, q, firm) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for productID, levels := range doc {
		for level, info := range levels {
			if _, err := stmt.Exec(productID, level, info.Q, info.Firm); err != nil {
				return fmt.Errorf("insert duty level %s/%s: %w", productID, level, err)
			}
		}
	}

	return tx.Commit()
}

// DutyQ returns the quote unit Q and partner firm for productID/level. ok
// is false when no row exists — the documented "missing Q for a level"
// dash-row policy (spec.md §7) is the caller's responsibility.
func (c *Catalog) DutyQ(productID, level string) (info DutyLevelInfo, ok bool, err error) {
	query, args, err := sq.Select("q", "firm").From("duty_levels").
		Where(sq.Eq{"product_id": productID, "level": level}).ToSql()
	if err != nil {
		return DutyLevelInfo{}, false, err
	}

	err = c.db.Get(&info, query, args...)
	if err == sql.ErrNoRows {
		return DutyLevelInfo{}, false, nil
	}
	if err != nil {
		return DutyLevelInfo{}, false, err
	}
	return info, true, nil
}

// ExpiriesForUnderlying returns the distinct expiries on file for
// underlying and right, ascending.
func (c *Catalog) ExpiriesForUnderlying(underlying, right string) ([]string, error) {
	query, args, err := sq.Select("DISTINCT expiry").
		From("options_master").
		Where(sq.And{
			sq.Like{"name": underlying + "%"},
			sq.Eq{"right": right},
		}).
		OrderBy("expiry ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var expiries []string
	if err := c.db.Select(&expiries, query, args...); err != nil {
		return nil, err
	}
	return expiries, nil
}

// OptionsForExpiry returns every option whose name starts with underlying,
// whose expiry matches exactly, and whose right matches (when right is
// non-empty), ordered by strike ascending.
func (c *Catalog) OptionsForExpiry(underlying, expiry, right string) ([]OptionMaster, error) {
	where := sq.And{
		sq.Like{"name": underlying + "%"},
		sq.Eq{"expiry": expiry},
	}
	if right != "" {
		where = append(where, sq.Eq{"right": right})
	}

	query, args, err := sq.Select("isin", "name", "right", "expiry", "strike", "atm_flag").
		From("options_master").
		Where(where).
		OrderBy("strike ASC").
		ToSql()
	if err != nil {
		return nil, err
	}

	var rows []OptionMaster
	if err := c.db.Select(&rows, query, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
