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

// Command krxctl is an interactive, read-only operator REPL over a prior
// day's MM-presence report: load a date, page through rows, filter by
// underlying or partner firm, and reprint the ATM summary
// (SPEC_FULL.md §6.5 supplemental).
package main

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/dsquant/krx-mm/internal/catalog"
	"github.com/dsquant/krx-mm/internal/config"
	"github.com/dsquant/krx-mm/internal/report"
)

type session struct {
	cfg   *config.Config
	cat   *catalog.Catalog
	table report.Table
	ready bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("krxctl: load config: %v", err)
	}

	cat, err := catalog.Open(cfg.CatalogSQLitePath)
	if err != nil {
		log.Fatalf("krxctl: open catalog: %v", err)
	}
	defer cat.Close()
	if err := cat.LoadOptionsMaster(cfg.OptionsMasterPath); err != nil {
		log.Printf("krxctl: options master load failed: %v", err)
	}
	if err := cat.LoadDutyRequirements(cfg.DutyRequirementsPath); err != nil {
		log.Printf("krxctl: duty requirements load failed: %v", err)
	}

	s := &session{cfg: cfg, cat: cat}

	completer := readline.NewPrefixCompleter(
		readline.PcItem("date"),
		readline.PcItem("list"),
		readline.PcItem("show"),
		readline.PcItem("firm"),
		readline.PcItem("summary"),
		readline.PcItem("help"),
		readline.PcItem("exit"),
	)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "krxctl> ",
		AutoComplete:    completer,
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		log.Fatalf("krxctl: readline init: %v", err)
	}
	defer rl.Close()

	fmt.Println("krxctl — type 'help' for commands")
	for {
		line, err := rl.Readline()
		if err != nil {
			break
		}

		parts := strings.Fields(strings.TrimSpace(line))
		if len(parts) == 0 {
			continue
		}

		cmd := strings.ToLower(parts[0])
		switch cmd {
		case "date":
			s.handleDate(parts)
		case "list":
			s.handleList()
		case "show":
			s.handleShow(parts)
		case "firm":
			s.handleFirm(parts)
		case "summary":
			s.handleSummary()
		case "help":
			displayHelp()
		case "exit":
			return
		default:
			fmt.Println("Unknown command. Type 'help' for available commands.")
		}
	}
}

func (s *session) handleDate(parts []string) {
	date := time.Now().Format("2006-01-02")
	if len(parts) > 1 {
		date = parts[1]
	}

	lookup, err := report.LoadDaySnapshots(s.cfg.ArchiveBaseDir, date)
	if err != nil {
		fmt.Printf("failed to load %s: %v\n", date, err)
		return
	}

	table, err := report.Build(date, s.cfg.ReportUnderlyings, s.cat, lookup)
	if err != nil {
		fmt.Printf("failed to build report for %s: %v\n", date, err)
		return
	}

	s.table = table
	s.ready = true
	fmt.Printf("loaded %s: %d rows\n", date, len(table.Rows))
}

func (s *session) handleList() {
	if !s.requireLoaded() {
		return
	}
	report.Render(os.Stdout, s.table)
}

func (s *session) handleShow(parts []string) {
	if !s.requireLoaded() {
		return
	}
	if len(parts) < 2 {
		fmt.Println("usage: show <underlying>")
		return
	}
	underlying := parts[1]

	filtered := report.Table{Date: s.table.Date}
	for _, row := range s.table.Rows {
		if row.Underlying == underlying {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	if len(filtered.Rows) == 0 {
		fmt.Printf("no rows for underlying %s\n", underlying)
		return
	}
	report.Render(os.Stdout, filtered)
}

func (s *session) handleFirm(parts []string) {
	if !s.requireLoaded() {
		return
	}
	if len(parts) < 2 {
		fmt.Println("usage: firm <name>")
		return
	}
	firm := parts[1]

	filtered := report.Table{Date: s.table.Date}
	for _, row := range s.table.Rows {
		if row.Firm == firm {
			filtered.Rows = append(filtered.Rows, row)
		}
	}
	if len(filtered.Rows) == 0 {
		fmt.Printf("no rows for firm %s\n", firm)
		return
	}
	report.Render(os.Stdout, filtered)
}

func (s *session) handleSummary() {
	if !s.requireLoaded() {
		return
	}
	report.RenderMarkdown(os.Stdout, s.table)
	report.RenderSummary(os.Stdout, report.Summarize(s.table))
}

func (s *session) requireLoaded() bool {
	if !s.ready {
		fmt.Println("no report loaded yet — try 'date YYYY-MM-DD' first")
		return false
	}
	return true
}

func displayHelp() {
	fmt.Print(`Commands:
  date [YYYY-MM-DD]   - load a day's report (default: today)
  list                - print the full 72-row table
  show <underlying>   - filter rows to one underlying
  firm <name>         - filter rows to one partner firm
  summary             - print the Markdown view and compliance summary
  help                - show this help message
  exit                - quit
`)
}
