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

// Package metrics exposes the ingestor's and archiver's per-channel
// counters (spec.md §5 "thread-safe statistics record") as Prometheus
// counters, and serves them over HTTP.
package metrics

import (
	"context"
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PacketsAccepted = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krx_ingestor_packets_accepted_total",
			Help: "Packets that passed the TR-code whitelist and were published.",
		},
		[]string{"stream"},
	)
	PacketsRejected = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krx_ingestor_packets_rejected_total",
			Help: "Packets rejected by the TR-code whitelist.",
		},
		[]string{"group"},
	)
	SocketErrors = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krx_ingestor_socket_errors_total",
			Help: "Socket receive errors, per group.",
		},
		[]string{"group"},
	)
	ArchiveWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krx_archiver_writes_total",
			Help: "Lines appended to per-day log files.",
		},
		[]string{"channel"},
	)
	ArchiveDiscards = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "krx_archiver_discards_total",
			Help: "Messages discarded by the trading-hour gate.",
		},
		[]string{"channel"},
	)
)

func init() {
	prometheus.MustRegister(PacketsAccepted, PacketsRejected, SocketErrors, ArchiveWrites, ArchiveDiscards)
}

// Serve starts the /metrics HTTP endpoint and blocks until ctx is done.
func Serve(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		<-ctx.Done()
		_ = srv.Close()
	}()

	log.Printf("metrics: serving on %s", addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Printf("metrics: server exited: %v", err)
	}
}
