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

// Package classifier routes a wire payload's 6-char prefix to one of the
// six logical streams using prefix sets loaded once from an external
// catalog. The loaded sets are an immutable shared handle, never a mutable
// singleton: one Classifier is built at startup and passed by pointer into
// every ingest task.
package classifier

import (
	"database/sql"
	"log"

	_ "github.com/lib/pq"
)

// Side identifies the channel dimension derived from which multicast
// group delivered a packet, never from the payload itself (spec.md §4.3).
type Side int

const (
	SideFutures Side = iota
	SideCall
	SidePut
)

// Stream is one of the six logical output streams.
type Stream string

const (
	StreamFuturesStock     Stream = "futures_stock"
	StreamFuturesIndex     Stream = "futures_index"
	StreamOptionsCallStock Stream = "options_call_stock"
	StreamOptionsCallIndex Stream = "options_call_index"
	StreamOptionsPutStock  Stream = "options_put_stock"
	StreamOptionsPutIndex  Stream = "options_put_index"
)

// Classifier holds the two disjoint 6-char prefix sets loaded at startup.
// Zero value is a valid "everything is index" classifier, matching the
// documented catalog-load-failure fallback.
type Classifier struct {
	futures map[string]struct{}
	options map[string]struct{}
}

// Load queries dsn for every code in futures_master and options_master,
// truncates each to 6 characters, and builds the two disjoint sets. On
// failure it logs a warning and returns an empty Classifier — every
// packet then classifies to the index variant, which is the documented
// and acceptable degraded mode (spec.md §4.3, §7).
func Load(dsn string) *Classifier {
	c := &Classifier{
		futures: make(map[string]struct{}),
		options: make(map[string]struct{}),
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Printf("classifier: catalog open failed, proceeding with empty sets: %v", err)
		return c
	}
	defer db.Close()

	if err := loadPrefixSet(db, "futures_master", c.futures); err != nil {
		log.Printf("classifier: futures_master load failed, set left empty: %v", err)
	}
	if err := loadPrefixSet(db, "options_master", c.options); err != nil {
		log.Printf("classifier: options_master load failed, set left empty: %v", err)
	}

	log.Printf("classifier: loaded %d futures prefixes, %d options prefixes", len(c.futures), len(c.options))
	return c
}

func loadPrefixSet(db *sql.DB, table string, into map[string]struct{}) error {
	rows, err := db.Query("SELECT instrument_code FROM " + table)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var code string
		if err := rows.Scan(&code); err != nil {
			return err
		}
		if len(code) > 6 {
			code = code[:6]
		}
		into[code] = struct{}{}
	}
	return rows.Err()
}

// ClassifyFutures routes a futures-side prefix to stock or index.
func (c *Classifier) ClassifyFutures(prefix string) Stream {
	if _, ok := c.futures[prefix]; ok {
		return StreamFuturesStock
	}
	return StreamFuturesIndex
}

// ClassifyOption routes an options-side prefix, combined with the
// inbound channel's call/put side, to one of the four options streams.
// The call/put dimension always comes from the channel, never the payload.
func (c *Classifier) ClassifyOption(prefix string, side Side) Stream {
	_, isStock := c.options[prefix]

	switch {
	case side == SideCall && isStock:
		return StreamOptionsCallStock
	case side == SideCall:
		return StreamOptionsCallIndex
	case side == SidePut && isStock:
		return StreamOptionsPutStock
	default:
		return StreamOptionsPutIndex
	}
}

// Channel returns the literal bus channel name for a stream (spec.md §6).
func (s Stream) Channel() string {
	switch s {
	case StreamFuturesStock:
		return "krx:futures:stock"
	case StreamFuturesIndex:
		return "krx:futures:index"
	case StreamOptionsCallStock:
		return "krx:options:call:stock"
	case StreamOptionsCallIndex:
		return "krx:options:call:index"
	case StreamOptionsPutStock:
		return "krx:options:put:stock"
	case StreamOptionsPutIndex:
		return "krx:options:put:index"
	default:
		return "krx:options:put:index"
	}
}

// Filename returns the canonical per-day archive filename for a stream
// (spec.md §6).
func (s Stream) Filename() string {
	switch s {
	case StreamFuturesStock:
		return "futures_stock.log"
	case StreamFuturesIndex:
		return "futures_index.log"
	case StreamOptionsCallStock:
		return "options_call_stock.log"
	case StreamOptionsCallIndex:
		return "options_call_index.log"
	case StreamOptionsPutStock:
		return "options_put_stock.log"
	case StreamOptionsPutIndex:
		return "options_put_index.log"
	default:
		return "options_put_index.log"
	}
}

// AllStreams lists the six logical streams in canonical order.
var AllStreams = []Stream{
	StreamFuturesStock, StreamFuturesIndex,
	StreamOptionsCallStock, StreamOptionsCallIndex,
	StreamOptionsPutStock, StreamOptionsPutIndex,
}
