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

package broker

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recv(t *testing.T, ch <-chan models.Notification) models.Notification {
	t.Helper()
	select {
	case n, ok := <-ch:
		require.True(t, ok, "channel closed")
		return n
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for notification")
		return models.Notification{}
	}
}

func waitClosed(t *testing.T, ch <-chan models.Notification) {
	t.Helper()
	deadline := time.After(time.Second)
	for {
		select {
		case _, ok := <-ch:
			if !ok {
				return
			}
		case <-deadline:
			t.Fatal("channel was not closed")
		}
	}
}

func TestBroadcastReachesAllSubscribers(t *testing.T) {
	t.Parallel()

	src := make(chan models.Notification)
	b := NewBroker(context.Background(), src)
	a, _ := b.Subscribe(4)
	c, _ := b.Subscribe(4)
	b.Start()

	src <- models.Notification{Method: models.NotificationScanProgress}
	assert.Equal(t, models.NotificationScanProgress, recv(t, a).Method)
	assert.Equal(t, models.NotificationScanProgress, recv(t, c).Method)
	close(src)
	waitClosed(t, a)
	waitClosed(t, c)
}

func TestFullSubscriberDoesNotBlockOthers(t *testing.T) {
	t.Parallel()

	src := make(chan models.Notification)
	b := NewBroker(context.Background(), src)
	slow, _ := b.Subscribe(1)
	fast, _ := b.Subscribe(10)
	b.Start()

	for range 5 {
		src <- models.Notification{Method: models.NotificationScanProgress}
	}
	for range 5 {
		recv(t, fast)
	}
	close(src)

	got := 0
	for range slow {
		got++
	}
	assert.GreaterOrEqual(t, got, 1)
	assert.LessOrEqual(t, got, 2)
}

func TestUnsubscribe(t *testing.T) {
	t.Parallel()

	b := NewBroker(context.Background(), make(chan models.Notification))
	ch, id := b.Subscribe(1)
	b.Unsubscribe(id)
	b.Unsubscribe(id)
	_, ok := <-ch
	assert.False(t, ok)
	assert.Empty(t, b.subs)
}

func TestContextCancelClosesSubscribers(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	b := NewBroker(ctx, make(chan models.Notification))
	ch, _ := b.Subscribe(1)
	b.Start()
	cancel()
	waitClosed(t, ch)
}

func TestOrderPreservedPerSubscriber(t *testing.T) {
	t.Parallel()

	src := make(chan models.Notification)
	b := NewBroker(context.Background(), src)
	ch, _ := b.Subscribe(10)
	b.Start()

	methods := []string{models.NotificationScanProgress, models.NotificationScanCompleted}
	for _, m := range methods {
		src <- models.Notification{Method: m}
	}
	for _, m := range methods {
		assert.Equal(t, m, recv(t, ch).Method)
	}
	close(src)
}

func TestConcurrentSubscribe(t *testing.T) {
	t.Parallel()

	b := NewBroker(context.Background(), make(chan models.Notification))
	var wg sync.WaitGroup
	for range 20 {
		wg.Go(func() {
			_, id := b.Subscribe(1)
			b.Unsubscribe(id)
		})
	}
	wg.Wait()
	assert.Empty(t, b.subs)
	assert.Equal(t, 20, b.nextID)
}
