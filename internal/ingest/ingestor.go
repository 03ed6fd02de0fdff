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

package ingest

import (
	"context"
	"sync"

	"github.com/dsquant/krx-mm/internal/bus"
	"github.com/dsquant/krx-mm/internal/classifier"
	"github.com/dsquant/krx-mm/internal/config"
)

// Ingestor owns every GroupReceiver and the shared Stats aggregate.
type Ingestor struct {
	Stats *Stats

	receivers []*GroupReceiver
}

// New builds one GroupReceiver per configured port across the three
// multicast groups (futures: 9, calls: 7, puts: 7 — 23 total).
func New(cfg *config.Config, cls *classifier.Classifier, b *bus.Bus) *Ingestor {
	stats := &Stats{}
	ing := &Ingestor{Stats: stats}

	specs := []struct {
		side classifier.Side
		name string
		grp  config.MulticastGroup
	}{
		{classifier.SideFutures, "futures", cfg.FuturesGroups},
		{classifier.SideCall, "call", cfg.CallGroups},
		{classifier.SidePut, "put", cfg.PutGroups},
	}

	for _, spec := range specs {
		for _, port := range spec.grp.Ports() {
			ing.receivers = append(ing.receivers, &GroupReceiver{
				GroupName:  spec.name,
				Side:       spec.side,
				Group:      spec.grp.Group,
				LocalAddr:  spec.grp.LocalAddr,
				Port:       port,
				Classifier: cls,
				Bus:        b,
				Stats:      stats,
			})
		}
	}

	return ing
}

// Receivers returns every configured GroupReceiver.
func (ing *Ingestor) Receivers() []*GroupReceiver {
	return ing.receivers
}

// Run starts every receiver concurrently and blocks until ctx is
// cancelled and all receivers have exited (spec.md §5 "Scheduling").
func (ing *Ingestor) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for _, r := range ing.receivers {
		wg.Add(1)
		go func(r *GroupReceiver) {
			defer wg.Done()
			r.Run(ctx)
		}(r)
	}
	wg.Wait()
}
