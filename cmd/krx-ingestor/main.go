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

// Command krx-ingestor runs the Multicast Ingestor: it joins the futures,
// call, and put multicast groups, filters and classifies every packet,
// and republishes it onto the bus (spec.md §4.1).
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dsquant/krx-mm/internal/bus"
	"github.com/dsquant/krx-mm/internal/classifier"
	"github.com/dsquant/krx-mm/internal/config"
	"github.com/dsquant/krx-mm/internal/ingest"
	"github.com/dsquant/krx-mm/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("krx-ingestor: load config: %v", err)
	}

	cls := classifier.Load(cfg.ClassifierDSN)

	b, err := bus.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("krx-ingestor: bus connect: %v", err)
	}
	defer b.Close()

	go metrics.Serve(ctx, cfg.MetricsAddr)

	ingestor := ingest.New(cfg, cls, b)
	log.Printf("krx-ingestor: starting %d multicast receivers", len(ingestor.Receivers()))
	ingestor.Run(ctx)

	accepted, rejected, errs := ingestor.Stats.Snapshot()
	log.Printf("krx-ingestor: shutdown — accepted=%d rejected=%d errors=%d", accepted, rejected, errs)
}
