// ROM Runner Core
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ROM Runner Core.
//
// ROM Runner Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ROM Runner Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ROM Runner Core.  If not, see <http://www.gnu.org/licenses/>.

// Package broker fans engine notifications out to any number of
// subscribers. Sends never block the engine; a subscriber whose buffer is
// full misses the notification.
package broker

import (
	"context"

	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

type Broker struct {
	ctx    context.Context
	source <-chan models.Notification
	subs   map[int]chan models.Notification
	mu     syncutil.RWMutex
	nextID int
}

func NewBroker(ctx context.Context, source <-chan models.Notification) *Broker {
	return &Broker{
		ctx:    ctx,
		source: source,
		subs:   make(map[int]chan models.Notification),
	}
}

// Start runs the fan-out loop until the source closes or the context ends.
// Every subscriber channel is closed on exit.
func (b *Broker) Start() {
	go func() {
		defer b.closeAll()
		for {
			select {
			case n, ok := <-b.source:
				if !ok {
					log.Debug().Msg("broker: source closed")
					return
				}
				b.broadcast(n)
			case <-b.ctx.Done():
				log.Debug().Msg("broker: context done")
				return
			}
		}
	}()
}

func (b *Broker) broadcast(n models.Notification) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subs {
		select {
		case ch <- n:
		default:
			log.Warn().Int("subscriber", id).Str("method", n.Method).
				Msg("subscriber buffer full, dropping notification")
		}
	}
}

// Subscribe registers a subscriber with a buffer of size n.
func (b *Broker) Subscribe(n int) (ch <-chan models.Notification, id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id = b.nextID
	b.nextID++
	c := make(chan models.Notification, n)
	b.subs[id] = c
	return c, id
}

// Unsubscribe closes a subscriber's channel. Unknown ids are ignored.
func (b *Broker) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		close(ch)
		delete(b.subs, id)
	}
}
