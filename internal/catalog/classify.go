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

package catalog

import (
	"fmt"
	"sort"
)

// Levels is the canonical ordering of the six quote-duty levels
// (spec.md §6).
var Levels = []string{"ITM1", "ATM", "OTM1", "OTM2", "OTM3", "OTM4"}

// ClassifyStrikes assigns the six quote-duty levels to one side of a
// single underlying's nearest-expiry option chain (spec.md §6 "Strike
// classification rule"). options must already be filtered to one right
// ("C" or "P") and one expiry; ClassifyStrikes sorts by strike itself.
//
// ATM is the median strike among atm-flagged contracts. For calls,
// strikes below ATM are ITM (ITM1 is the highest such strike) and
// strikes above are OTM1..OTM4 ascending. For puts the ordering is
// mirrored: strikes above ATM are ITM (ITM1 is the lowest such strike)
// and strikes below are OTM1..OTM4 descending. A level with no
// qualifying contract is simply absent from the returned map — callers
// render it as a dash row (spec.md §7).
func ClassifyStrikes(right string, options []OptionMaster) map[string]OptionMaster {
	sorted := append([]OptionMaster(nil), options...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Strike < sorted[j].Strike })

	var atmCandidates []OptionMaster
	for _, o := range sorted {
		if o.ATMFlag == "1" {
			atmCandidates = append(atmCandidates, o)
		}
	}
	if len(atmCandidates) == 0 {
		return nil
	}
	sort.Slice(atmCandidates, func(i, j int) bool { return atmCandidates[i].Strike < atmCandidates[j].Strike })
	atm := atmCandidates[len(atmCandidates)/2]

	levels := map[string]OptionMaster{"ATM": atm}

	var below, above []OptionMaster
	for _, o := range sorted {
		switch {
		case o.Strike < atm.Strike:
			below = append(below, o)
		case o.Strike > atm.Strike:
			above = append(above, o)
		}
	}

	switch right {
	case "C":
		if n := len(below); n > 0 {
			levels["ITM1"] = below[n-1]
		}
		for i := 0; i < len(above) && i < 4; i++ {
			levels[fmt.Sprintf("OTM%d", i+1)] = above[i]
		}
	case "P":
		if len(above) > 0 {
			levels["ITM1"] = above[0]
		}
		for i := 0; i < len(below) && i < 4; i++ {
			levels[fmt.Sprintf("OTM%d", i+1)] = below[len(below)-1-i]
		}
	}

	return levels
}

// NearestCommonExpiry intersects the expiries available on each side for
// underlying and returns the earliest one present in both (spec.md §6:
// "the nearest expiry common to the call and put chains").
func (c *Catalog) NearestCommonExpiry(underlying string) (string, bool, error) {
	calls, err := c.ExpiriesForUnderlying(underlying, "C")
	if err != nil {
		return "", false, err
	}
	puts, err := c.ExpiriesForUnderlying(underlying, "P")
	if err != nil {
		return "", false, err
	}

	putSet := make(map[string]struct{}, len(puts))
	for _, e := range puts {
		putSet[e] = struct{}{}
	}

	sort.Strings(calls)
	for _, e := range calls {
		if _, ok := putSet[e]; ok {
			return e, true, nil
		}
	}
	return "", false, nil
}
