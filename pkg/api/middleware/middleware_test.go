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

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRemoteAddr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{in: "192.168.1.20:5000", want: "192.168.1.20", ok: true},
		{in: "[::1]:8080", want: "::1", ok: true},
		{in: "10.0.0.1", want: "10.0.0.1", ok: true},
		{in: "[::ffff:10.0.0.1]:80", want: "10.0.0.1", ok: true},
		{in: "not-an-ip:80", ok: false},
		{in: "", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			addr, ok := RemoteAddr(tt.in)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, addr.String())
			}
		})
	}
}

func TestIPFilter(t *testing.T) {
	t.Parallel()

	filter := NewIPFilter([]string{"192.168.1.20", "10.0.0.0/8", "172.16.0.5:7000", "bogus", "::1"})

	tests := []struct {
		addr string
		want bool
	}{
		{addr: "192.168.1.20:1234", want: true},
		{addr: "192.168.1.21:1234", want: false},
		{addr: "10.200.3.4:1", want: true},
		{addr: "172.16.0.5:80", want: true},
		{addr: "[::1]:80", want: true},
		{addr: "[::ffff:10.1.1.1]:80", want: true},
		{addr: "garbage", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.addr, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, filter.IsAllowed(tt.addr))
		})
	}
}

func TestIPFilter_EmptyAllowsAll(t *testing.T) {
	t.Parallel()

	filter := NewIPFilter(nil)
	assert.True(t, filter.IsAllowed("8.8.8.8:53"))
	assert.True(t, filter.IsAllowed("garbage"))
}

func TestIPFilterMiddleware(t *testing.T) {
	t.Parallel()

	h := IPFilterMiddleware(NewIPFilter([]string{"127.0.0.1"}))(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/data", http.NoBody)
	req.RemoteAddr = "127.0.0.1:4000"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/data", http.NoBody)
	req.RemoteAddr = "192.168.0.9:4000"
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRateLimiter_Burst(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(clock)

	for i := range BurstSize {
		require.True(t, rl.Allow("10.0.0.1"), "request %d within burst", i)
	}
	assert.False(t, rl.Allow("10.0.0.1"))
	assert.True(t, rl.Allow("10.0.0.2"), "buckets are per client")

	clock.Advance(time.Minute / RequestsPerMinute)
	assert.True(t, rl.Allow("10.0.0.1"), "a token is refilled")
}

func TestRateLimiter_Cleanup(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(clock)

	rl.Allow("10.0.0.1")
	clock.Advance(staleAfter / 2)
	rl.Allow("10.0.0.2")
	require.Equal(t, 2, rl.Len())

	clock.Advance(staleAfter/2 + time.Second)
	rl.Cleanup()
	assert.Equal(t, 1, rl.Len())
}

func TestRateLimiter_RunCleanup(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	rl := NewRateLimiter(clock)
	rl.Allow("10.0.0.1")

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		rl.RunCleanup(ctx)
		close(done)
	}()

	require.NoError(t, clock.BlockUntilContext(ctx, 1))
	clock.Advance(staleAfter + cleanupInterval)
	assert.Eventually(t, func() bool { return rl.Len() == 0 }, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}

func TestRateLimitMiddleware(t *testing.T) {
	t.Parallel()

	h := RateLimitMiddleware(NewRateLimiter(clockwork.NewFakeClock()))(okHandler())

	codes := make([]int, 0, BurstSize+1)
	for range BurstSize + 1 {
		req := httptest.NewRequest(http.MethodGet, "/start", http.NoBody)
		req.RemoteAddr = "192.168.1.50:9999"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, http.StatusOK, codes[0])
	assert.Equal(t, http.StatusTooManyRequests, codes[BurstSize])
}
