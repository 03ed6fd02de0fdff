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

// Package ingest implements the Multicast Ingestor (MI): one receiver
// task per configured multicast group/port, filtering by TR-code
// whitelist, classifying via the symbol classifier, and publishing
// enveloped payloads to the bus (spec.md §4.1).
package ingest

import (
	"context"
	"log"
	"net"
	"time"

	"github.com/dsquant/krx-mm/internal/bus"
	"github.com/dsquant/krx-mm/internal/classifier"
	"github.com/dsquant/krx-mm/internal/metrics"
	"github.com/dsquant/krx-mm/internal/wire"
)

const (
	readBufferSize = 2048
	readTimeout    = 5 * time.Second
)

// GroupReceiver owns one UDP socket for one multicast group/port and
// runs independently of every other receiver: tasks share no state
// beyond the Stats aggregate and the Bus publish handle (spec.md §5).
type GroupReceiver struct {
	GroupName string // "futures" | "call" | "put" — channel side for SC
	Side      classifier.Side
	Group     string
	LocalAddr string
	Port      int

	Classifier *classifier.Classifier
	Bus        *bus.Bus
	Stats      *Stats
}

// Run joins the multicast group and reads datagrams until ctx is
// cancelled. A read timeout yields no observable effect and returns to
// read (spec.md §4.1); a cancelled ctx causes a clean exit on the next
// timeout (spec.md §5 "Cancellation").
func (r *GroupReceiver) Run(ctx context.Context) {
	addr := &net.UDPAddr{IP: net.ParseIP(r.Group), Port: r.Port}

	iface, err := interfaceForIP(r.LocalAddr)
	if err != nil {
		log.Printf("ingest[%s:%d]: resolving local interface %s: %v", r.Group, r.Port, r.LocalAddr, err)
	}

	conn, err := net.ListenMulticastUDP("udp", iface, addr)
	if err != nil {
		log.Printf("ingest[%s:%d]: join failed: %v", r.Group, r.Port, err)
		return
	}
	defer conn.Close()
	_ = conn.SetReadBuffer(readBufferSize)

	log.Printf("ingest[%s:%d]: joined on local %s", r.Group, r.Port, r.LocalAddr)

	buf := make([]byte, readBufferSize)
	for {
		select {
		case <-ctx.Done():
			log.Printf("ingest[%s:%d]: shutting down", r.Group, r.Port)
			return
		default:
		}

		conn.SetReadDeadline(time.Now().Add(readTimeout))
		n, err := conn.Read(buf)
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			r.Stats.AddError()
			metrics.SocketErrors.WithLabelValues(r.GroupName).Inc()
			continue
		}

		r.handlePacket(ctx, buf[:n])
	}
}

// handlePacket applies the TR-code whitelist, classifies, envelopes, and
// publishes a single datagram (spec.md §4.1 steps 1-3).
func (r *GroupReceiver) handlePacket(ctx context.Context, payload []byte) {
	if !wire.IsWhitelisted(payload) {
		r.Stats.AddRejected()
		metrics.PacketsRejected.WithLabelValues(r.GroupName).Inc()
		return
	}

	var stream classifier.Stream
	prefix, ok := wire.Prefix(payload)
	if !ok {
		// Undersized packet: route to the index variant (spec.md §4.1 "Failure semantics").
		stream = indexFallback(r.Side)
	} else if r.Side == classifier.SideFutures {
		stream = r.Classifier.ClassifyFutures(prefix)
	} else {
		stream = r.Classifier.ClassifyOption(prefix, r.Side)
	}

	envelope := wire.Encode(nowSeconds(), uint16(r.Port), payload)
	if err := r.Bus.Publish(ctx, stream.Channel(), envelope); err != nil {
		log.Printf("ingest[%s:%d]: publish failed: %v", r.Group, r.Port, err)
		return
	}

	r.Stats.AddAccepted()
	metrics.PacketsAccepted.WithLabelValues(string(stream)).Inc()
}

func indexFallback(side classifier.Side) classifier.Stream {
	switch side {
	case classifier.SideFutures:
		return classifier.StreamFuturesIndex
	case classifier.SideCall:
		return classifier.StreamOptionsCallIndex
	default:
		return classifier.StreamOptionsPutIndex
	}
}

func nowSeconds() float64 {
	return float64(time.Now().UnixNano()) / 1e9
}

// interfaceForIP resolves the *net.Interface carrying localIP, so the
// multicast join honors spec.md §4.1's "join on a specific local
// interface" instead of letting the kernel pick the default route. A
// blank or unresolvable localIP falls back to nil (default interface).
func interfaceForIP(localIP string) (*net.Interface, error) {
	if localIP == "" {
		return nil, nil
	}
	ip := net.ParseIP(localIP)
	if ip == nil {
		return nil, nil
	}

	ifaces, err := net.Interfaces()
	if err != nil {
		return nil, err
	}

	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			ipNet, ok := a.(*net.IPNet)
			if ok && ipNet.IP.Equal(ip) {
				return &ifaces[i], nil
			}
		}
	}
	return nil, nil
}
