// Pomodesk
// Copyright (c) 2026 The Pomodesk Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of Pomodesk.
//
// Pomodesk is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Pomodesk is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Pomodesk.  If not, see <http://www.gnu.org/licenses/>.

// Package broker fans the notification channel out to every consumer:
// the websocket stream, MQTT publishers and the metrics collector.
package broker

import (
	"context"

	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/pomodesk/pomodesk/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

// Broker copies each notification to all subscribers. A subscriber whose
// buffer is full misses that notification; the producer never blocks.
type Broker struct {
	source      <-chan models.Notification
	subscribers map[int]chan models.Notification
	nextID      int
	closed      bool
	mu          syncutil.RWMutex
}

func New(source <-chan models.Notification) *Broker {
	return &Broker{
		source:      source,
		subscribers: make(map[int]chan models.Notification),
	}
}

// Run broadcasts until ctx is done or the source closes, then closes every
// subscriber channel.
func (b *Broker) Run(ctx context.Context) {
	defer b.closeAll()
	for {
		select {
		case <-ctx.Done():
			return
		case notif, ok := <-b.source:
			if !ok {
				log.Debug().Msg("notification source closed")
				return
			}
			b.broadcast(notif)
		}
	}
}

func (b *Broker) broadcast(notif models.Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- notif:
		default:
			log.Warn().
				Int("subscriber", id).
				Str("method", notif.Method).
				Msg("subscriber full, dropping notification")
		}
	}
}

// Subscribe returns a channel buffered to size and its id. After the
// broker has stopped the returned channel is already closed.
func (b *Broker) Subscribe(size int) (<-chan models.Notification, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan models.Notification, size)
	if b.closed {
		close(ch)
		return ch, id
	}
	b.subscribers[id] = ch
	return ch, id
}

// Unsubscribe closes the channel of id. Unknown ids are ignored.
func (b *Broker) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		close(ch)
		delete(b.subscribers, id)
	}
	b.closed = true
}
