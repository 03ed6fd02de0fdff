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

// Package wire decodes the capture envelope and the fixed-position ASCII
// KRX wire payload.
package wire

import (
	"encoding/binary"
	"math"
)

// EnvelopeHeaderSize is the fixed prefix before the raw payload: an
// 8-byte little-endian double capture timestamp plus a 2-byte
// little-endian u16 source port.
const EnvelopeHeaderSize = 10

// Envelope is a decoded capture-header-plus-payload bus message.
type Envelope struct {
	CaptureTime float64 // seconds since epoch
	Port        uint16
	Payload     []byte
}

// Encode prepends the capture envelope header to payload, producing the
// exact bus wire format: double||u16||payload.
func Encode(captureTime float64, port uint16, payload []byte) []byte {
	buf := make([]byte, EnvelopeHeaderSize+len(payload))
	binary.LittleEndian.PutUint64(buf[0:8], math.Float64bits(captureTime))
	binary.LittleEndian.PutUint16(buf[8:10], port)
	copy(buf[10:], payload)
	return buf
}

// Decode parses a bus message back into its envelope and payload. It
// tolerates a payload of arbitrary length, including zero.
func Decode(msg []byte) (Envelope, bool) {
	if len(msg) < EnvelopeHeaderSize {
		return Envelope{}, false
	}
	bits := binary.LittleEndian.Uint64(msg[0:8])
	port := binary.LittleEndian.Uint16(msg[8:10])
	payload := msg[EnvelopeHeaderSize:]
	return Envelope{
		CaptureTime: math.Float64frombits(bits),
		Port:        port,
		Payload:     payload,
	}, true
}
