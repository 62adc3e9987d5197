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

package discovery

import (
	"context"
	"errors"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/config"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeServer struct {
	shutdowns atomic.Int32
}

func (f *fakeServer) Shutdown() { f.shutdowns.Add(1) }

var eth0 = net.Interface{Index: 2, Name: "eth0", Flags: net.FlagUp | net.FlagMulticast}

func newService(t *testing.T, clock clockwork.Clock) *Service {
	t.Helper()
	cfg, err := config.NewConfig(afero.NewMemMapFs(), "/etc/pomodesk", config.BaseDefaults)
	require.NoError(t, err)
	s := New(cfg, clock)
	s.interfaces = func() ([]net.Interface, error) { return []net.Interface{eth0}, nil }
	return s
}

func TestNew_Advert(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/etc/pomodesk/config.toml",
		[]byte("config_schema = 1\n[service]\napi_port = 9090\n[service.discovery]\ninstance_name = \"study desk\"\n"), 0o600))
	cfg, err := config.NewConfig(fs, "/etc/pomodesk", config.BaseDefaults)
	require.NoError(t, err)

	a := New(cfg, clockwork.NewFakeClock()).Advert()
	assert.Equal(t, "study desk", a.Instance)
	assert.Equal(t, 9090, a.Port)
	assert.Contains(t, a.Text, "id="+cfg.DeviceID())
	assert.Contains(t, a.Text, "version="+config.AppVersion)
}

func TestInstanceName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "desk", instanceName("desk", "0123456789"))
	assert.NotEmpty(t, instanceName("", "0123456789"))
}

func TestFilterInterfaces(t *testing.T) {
	t.Parallel()

	ifaces := []net.Interface{
		eth0,
		{Name: "lo", Flags: net.FlagUp | net.FlagLoopback | net.FlagMulticast},
		{Name: "wlan0", Flags: net.FlagMulticast},
		{Name: "ppp0", Flags: net.FlagUp},
		{Name: "docker0", Flags: net.FlagUp | net.FlagMulticast},
		{Name: "wg0", Flags: net.FlagUp | net.FlagMulticast},
		{Name: "wlan1", Flags: net.FlagUp | net.FlagMulticast},
	}

	got := filterInterfaces(ifaces)
	names := make([]string, 0, len(got))
	for _, i := range got {
		names = append(names, i.Name)
	}
	assert.Equal(t, []string{"eth0", "wlan1"}, names)
}

func TestRun_RegistersAndShutsDown(t *testing.T) {
	t.Parallel()

	srv := &fakeServer{}
	s := newService(t, clockwork.NewFakeClock())
	var got Advert
	s.register = func(a Advert, _ []net.Interface) (shutdowner, error) {
		got = a
		return srv, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	require.Eventually(t, func() bool { return got.Port != 0 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(0), srv.shutdowns.Load())

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(1), srv.shutdowns.Load())
}

func TestRun_RetriesUntilNetworkUp(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	srv := &fakeServer{}
	s := newService(t, clock)
	var attempts atomic.Int32
	s.register = func(Advert, []net.Interface) (shutdowner, error) {
		if attempts.Add(1) < 3 {
			return nil, errors.New("no route")
		}
		return srv, nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	for want := int32(1); want < 3; want++ {
		require.Eventually(t, func() bool { return attempts.Load() == want }, time.Second, time.Millisecond)
		require.NoError(t, clock.BlockUntilContext(ctx, 2))
		clock.Advance(retryInterval)
	}
	require.Eventually(t, func() bool { return attempts.Load() == 3 }, time.Second, time.Millisecond)

	cancel()
	require.NoError(t, <-done)
	assert.Equal(t, int32(3), attempts.Load())
	assert.Equal(t, int32(1), srv.shutdowns.Load())
}

func TestRun_GivesUp(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	s := newService(t, clock)
	s.interfaces = func() ([]net.Interface, error) { return nil, nil }

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background()) }()

	require.NoError(t, clock.BlockUntilContext(context.Background(), 2))
	clock.Advance(maxRetryDuration)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not give up")
	}
}
