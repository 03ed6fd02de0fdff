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

// Package config loads runtime configuration for every binary in this
// module from environment variables, with an optional .env file loaded
// first via godotenv.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// MulticastGroup describes one side's UDP multicast receivers: a side
// name, a group address, the local interface address to join on, and a
// contiguous port range.
type MulticastGroup struct {
	Name      string
	Group     string
	LocalAddr string
	PortStart int
	PortEnd   int
}

// Config holds every tunable read at process startup. Load never returns
// a partially-populated Config: on failure to parse a set value it returns
// an error immediately.
type Config struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ClassifierDSN string // Postgres DSN for futures_master/options_master

	ArchiveBaseDir string

	CatalogSQLitePath    string
	DutyRequirementsPath string
	OptionsMasterPath    string

	MetricsAddr string

	ReportUnderlyings []string

	FuturesGroups MulticastGroup
	CallGroups    MulticastGroup
	PutGroups     MulticastGroup
}

// init is loaded once at process start; ignored if no .env file is present.
func init() {
	_ = godotenv.Load()
}

// Load reads every setting from the environment, applying the documented
// defaults from SPEC_FULL.md §3.2 where a variable is unset.
func Load() (*Config, error) {
	cfg := &Config{
		RedisAddr:     getEnv("KRX_REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("KRX_REDIS_PASSWORD", ""),
		ClassifierDSN: getEnv("KRX_CLASSIFIER_DSN", "postgres://localhost/krx?sslmode=disable"),
		ArchiveBaseDir: getEnv("KRX_ARCHIVE_DIR", "./archive"),

		CatalogSQLitePath:    getEnv("KRX_CATALOG_DB", "./catalog.db"),
		DutyRequirementsPath: getEnv("KRX_DUTY_REQUIREMENTS", "./duty_requirements.json"),
		OptionsMasterPath:    getEnv("KRX_OPTIONS_MASTER", "./options_master.json"),

		MetricsAddr: getEnv("KRX_METRICS_ADDR", ":9090"),

		ReportUnderlyings: strings.Split(getEnv("KRX_REPORT_UNDERLYINGS",
			"KOSPI200,SAMSUNG_ELECTRONICS,SK_HYNIX,NAVER,KAKAO,LG_ENERGY_SOLUTION"), ","),

		FuturesGroups: MulticastGroup{
			Name:      "futures",
			Group:     getEnv("KRX_FUTURES_GROUP", "233.38.231.92"),
			LocalAddr: getEnv("KRX_FUTURES_LOCAL_ADDR", "0.0.0.0"),
			PortStart: 10302,
			PortEnd:   10310,
		},
		CallGroups: MulticastGroup{
			Name:      "call",
			Group:     getEnv("KRX_CALL_GROUP", "233.38.231.96"),
			LocalAddr: getEnv("KRX_CALL_LOCAL_ADDR", "0.0.0.0"),
			PortStart: 10322,
			PortEnd:   10328,
		},
		PutGroups: MulticastGroup{
			Name:      "put",
			Group:     getEnv("KRX_PUT_GROUP", "233.38.231.97"),
			LocalAddr: getEnv("KRX_PUT_LOCAL_ADDR", "0.0.0.0"),
			PortStart: 10331,
			PortEnd:   10337,
		},
	}

	if raw := os.Getenv("KRX_REDIS_DB"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("parse KRX_REDIS_DB: %w", err)
		}
		cfg.RedisDB = n
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Ports returns the expanded list of ports for a multicast group.
func (g MulticastGroup) Ports() []int {
	ports := make([]int, 0, g.PortEnd-g.PortStart+1)
	for p := g.PortStart; p <= g.PortEnd; p++ {
		ports = append(ports, p)
	}
	return ports
}
