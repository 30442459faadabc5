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

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRemoteIP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		addr string
		want string
	}{
		{name: "ipv4 with port", addr: "192.168.1.5:5000", want: "192.168.1.5"},
		{name: "ipv4 bare", addr: "10.0.0.1", want: "10.0.0.1"},
		{name: "ipv6 with port", addr: "[::1]:7597", want: "::1"},
		{name: "garbage", addr: "not-an-ip", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			ip := ParseRemoteIP(tt.addr)
			if tt.want == "" {
				assert.Nil(t, ip)
				return
			}
			assert.Equal(t, tt.want, ip.String())
		})
	}
}

func TestIPRateLimiter_Burst(t *testing.T) {
	t.Parallel()
	limiter := NewIPRateLimiter(1, 3, clockwork.NewFakeClock())

	rl := limiter.GetLimiter("192.168.1.100")
	for i := range 3 {
		assert.True(t, rl.Allow(), "request %d within burst", i+1)
	}
	assert.False(t, rl.Allow())

	other := limiter.GetLimiter("192.168.1.101")
	assert.NotSame(t, rl, other)
	assert.True(t, other.Allow())
	assert.Same(t, rl, limiter.GetLimiter("192.168.1.100"))
}

func TestIPRateLimiter_Cleanup(t *testing.T) {
	t.Parallel()
	clock := clockwork.NewFakeClock()
	limiter := NewIPRateLimiter(10, 10, clock)

	limiter.GetLimiter("10.0.0.1")
	clock.Advance(StaleLimiterAge / 2)
	limiter.GetLimiter("10.0.0.2")
	require.Equal(t, 2, limiter.Len())

	clock.Advance(StaleLimiterAge/2 + time.Second)
	limiter.Cleanup()
	assert.Equal(t, 1, limiter.Len())

	clock.Advance(StaleLimiterAge)
	limiter.Cleanup()
	assert.Equal(t, 0, limiter.Len())
}

func TestHTTPRateLimitMiddleware(t *testing.T) {
	t.Parallel()
	limiter := NewIPRateLimiter(1, 2, clockwork.NewFakeClock())
	handler := HTTPRateLimitMiddleware(limiter)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodGet, "/api", http.NoBody)
		req.RemoteAddr = "192.168.1.20:4444"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitResponse(t *testing.T) {
	t.Parallel()

	var resp map[string]any
	require.NoError(t, json.Unmarshal(RateLimitResponse(), &resp))
	assert.Equal(t, "2.0", resp["jsonrpc"])
	assert.Nil(t, resp["id"])
	errObj, ok := resp["error"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, float64(rateLimitCode), errObj["code"], 0)
	assert.Equal(t, "Rate limit exceeded", errObj["message"])
}
