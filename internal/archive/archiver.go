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
	"context"
	"log"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/dsquant/krx-mm/internal/bus"
	"github.com/dsquant/krx-mm/internal/classifier"
	"github.com/dsquant/krx-mm/internal/wire"
)

// Archiver is the single bus consumer across all six channels.
type Archiver struct {
	bus     *bus.Bus
	manager *Manager
}

// New builds an Archiver writing under baseDir.
func New(b *bus.Bus, baseDir string) *Archiver {
	return &Archiver{bus: b, manager: NewManager(baseDir)}
}

// channelToFilename maps the six literal bus channel names to their
// canonical archive filenames (spec.md §6). The map is built from the
// classifier.Stream Channel/Filename methods; the archiver uses only these
// names and never calls the prefix classification itself.
var channelToFilename = map[string]string{
	classifier.StreamFuturesStock.Channel():     classifier.StreamFuturesStock.Filename(),
	classifier.StreamFuturesIndex.Channel():     classifier.StreamFuturesIndex.Filename(),
	classifier.StreamOptionsCallStock.Channel(): classifier.StreamOptionsCallStock.Filename(),
	classifier.StreamOptionsCallIndex.Channel(): classifier.StreamOptionsCallIndex.Filename(),
	classifier.StreamOptionsPutStock.Channel():  classifier.StreamOptionsPutStock.Filename(),
	classifier.StreamOptionsPutIndex.Channel():  classifier.StreamOptionsPutIndex.Filename(),
}

// Run subscribes to all six channels and appends messages until ctx is
// cancelled. On shutdown any message already dequeued is written before
// exiting (spec.md §5 "Cancellation" — "no in-flight message may be lost
// silently").
func (a *Archiver) Run(ctx context.Context) {
	channels := make([]string, 0, len(channelToFilename))
	for ch := range channelToFilename {
		channels = append(channels, ch)
	}

	sub := a.bus.SubscribeAll(ctx, channels...)
	defer sub.Close()
	defer a.manager.CloseAll()

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Printf("archive: scheduler init failed, continuing without periodic housekeeping: %v", err)
	} else {
		a.scheduleHousekeeping(scheduler)
		scheduler.Start()
		defer scheduler.Shutdown()
	}

	log.Printf("archive: subscribed to %d channels", len(channels))

	for {
		select {
		case <-ctx.Done():
			log.Println("archive: shutting down")
			return
		default:
		}

		msg, channel, err := sub.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Printf("archive: receive error: %v", err)
			continue
		}

		env, ok := wire.Decode(msg)
		if !ok {
			log.Printf("archive[%s]: undersized envelope, skipped", channel)
			continue
		}

		filename := channelToFilename[channel]
		a.manager.Append(channel, filename, env.Payload, time.Now())
	}
}

// scheduleHousekeeping wires the gocron scheduler to two periodic jobs:
// a rolling discard-count log (spec.md §4.2 step 1) and a date-rollover
// sweep so a day boundary crossed during low traffic still closes files
// promptly (SPEC_FULL.md §6.2 supplemental).
func (a *Archiver) scheduleHousekeeping(s gocron.Scheduler) {
	_, err := s.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			for ch := range channelToFilename {
				if count := a.manager.DiscardCount(ch); count > 0 {
					log.Printf("archive[%s]: %d messages discarded outside trading hours since startup", ch, count)
				}
			}
		}),
	)
	if err != nil {
		log.Printf("archive: failed to schedule discard-count job: %v", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(time.Minute),
		gocron.NewTask(func() {
			if a.manager.SweepRollover(time.Now()) {
				log.Printf("archive: date rollover swept outside of traffic")
			}
		}),
	)
	if err != nil {
		log.Printf("archive: failed to schedule rollover-sweep job: %v", err)
	}
}
