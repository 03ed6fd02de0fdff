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

// Package bus wraps Redis pub/sub as the six-channel message bus between
// the ingestor and the archiver. The bus itself is assumed to serialize
// publishers and subscribers (spec.md §5 "Shared-resource policy").
package bus

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Bus publishes capture envelopes and subscribes across the six canonical
// channels.
type Bus struct {
	client *redis.Client
}

// Connect opens a client against addr and verifies connectivity with a
// PING. A failure here is fatal at MI/AR startup (spec.md §7).
func Connect(ctx context.Context, addr, password string, db int) (*Bus, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("bus connect %s: %w", addr, err)
	}
	return &Bus{client: client}, nil
}

// Publish writes an already-enveloped message to channel.
func (b *Bus) Publish(ctx context.Context, channel string, envelope []byte) error {
	return b.client.Publish(ctx, channel, envelope).Err()
}

// Subscription is a single consumer attached to one or more channels.
type Subscription struct {
	pubsub *redis.PubSub
}

// SubscribeAll attaches one consumer to all of the given channels —
// the archiver's single-consumer design (spec.md §4.2, §5).
func (b *Bus) SubscribeAll(ctx context.Context, channels ...string) *Subscription {
	return &Subscription{pubsub: b.client.Subscribe(ctx, channels...)}
}

// Next blocks for the next message, honoring ctx cancellation.
func (s *Subscription) Next(ctx context.Context) ([]byte, string, error) {
	msg, err := s.pubsub.ReceiveMessage(ctx)
	if err != nil {
		return nil, "", err
	}
	return []byte(msg.Payload), msg.Channel, nil
}

// Close releases the underlying subscription.
func (s *Subscription) Close() error {
	return s.pubsub.Close()
}

// Close releases the underlying client connection.
func (b *Bus) Close() error {
	return b.client.Close()
}
