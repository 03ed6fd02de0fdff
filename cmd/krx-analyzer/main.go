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

// Command krx-analyzer reconstructs the MM-presence timeline for one
// trading day's archived option logs and emits the 72-row report
// (spec.md §4.4, §4.5).
package main

import (
	"flag"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/dsquant/krx-mm/internal/catalog"
	"github.com/dsquant/krx-mm/internal/config"
	"github.com/dsquant/krx-mm/internal/report"
)

func main() {
	date := flag.String("date", time.Now().Format("2006-01-02"), "trading day to analyze (YYYY-MM-DD)")
	outDir := flag.String("out", "", "directory to write report.md (default: stdout only)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("krx-analyzer: load config: %v", err)
	}

	cat, err := catalog.Open(cfg.CatalogSQLitePath)
	if err != nil {
		log.Fatalf("krx-analyzer: open catalog: %v", err)
	}
	defer cat.Close()

	if err := cat.LoadOptionsMaster(cfg.OptionsMasterPath); err != nil {
		log.Printf("krx-analyzer: options master load failed, proceeding with stale/empty catalog: %v", err)
	}
	if err := cat.LoadDutyRequirements(cfg.DutyRequirementsPath); err != nil {
		log.Printf("krx-analyzer: duty requirements load failed, proceeding with stale/empty catalog: %v", err)
	}

	lookup, err := report.LoadDaySnapshots(cfg.ArchiveBaseDir, *date)
	if err != nil {
		log.Fatalf("krx-analyzer: load day snapshots: %v", err)
	}

	table, err := report.Build(*date, cfg.ReportUnderlyings, cat, lookup)
	if err != nil {
		log.Fatalf("krx-analyzer: build report: %v", err)
	}

	report.Render(os.Stdout, table)
	summary := report.Summarize(table)
	report.RenderSummary(os.Stdout, summary)

	if *outDir != "" {
		if err := os.MkdirAll(*outDir, 0o755); err != nil {
			log.Fatalf("krx-analyzer: create output dir: %v", err)
		}
		if err := writeMarkdown(filepath.Join(*outDir, "report.md"), table); err != nil {
			log.Printf("krx-analyzer: write markdown report: %v", err)
		}
	}
}

func writeMarkdown(path string, table report.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	report.RenderMarkdown(f, table)
	return nil
}
