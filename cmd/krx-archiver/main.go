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

// Command krx-archiver subscribes to every bus channel and writes raw
// payloads to per-day log files during trading hours (spec.md §4.2).
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"github.com/dsquant/krx-mm/internal/archive"
	"github.com/dsquant/krx-mm/internal/bus"
	"github.com/dsquant/krx-mm/internal/config"
	"github.com/dsquant/krx-mm/internal/metrics"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("krx-archiver: load config: %v", err)
	}

	b, err := bus.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Fatalf("krx-archiver: bus connect: %v", err)
	}
	defer b.Close()

	go metrics.Serve(ctx, cfg.MetricsAddr)

	a := archive.New(b, cfg.ArchiveBaseDir)
	log.Printf("krx-archiver: writing to %s", cfg.ArchiveBaseDir)
	a.Run(ctx)

	log.Println("krx-archiver: shutdown complete")
}
