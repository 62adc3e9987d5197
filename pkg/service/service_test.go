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

package service

import (
	"context"
	"image/color"
	"path/filepath"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/audio"
	"github.com/pomodesk/pomodesk/pkg/config"
	"github.com/pomodesk/pomodesk/pkg/helpers/syncutil"
	"github.com/pomodesk/pomodesk/pkg/input"
	"github.com/pomodesk/pomodesk/pkg/light"
	"github.com/pomodesk/pomodesk/pkg/pomodoro"
	"github.com/pomodesk/pomodesk/pkg/rtc"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const cfgDir = "/etc/pomodesk"

type blockingPlayer struct {
	release chan struct{}
}

func (p *blockingPlayer) PlayPattern(ctx context.Context, _ audio.Pattern) error {
	select {
	case <-p.release:
	case <-ctx.Done():
	}
	return nil
}

type recordingStrip struct {
	shown []color.RGBA
	mu    syncutil.Mutex
}

func (s *recordingStrip) Show(c color.RGBA) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.shown = append(s.shown, c)
	return nil
}

func newTestConfig(t *testing.T, contents string) *config.Instance {
	t.Helper()
	fs := afero.NewMemMapFs()
	if contents != "" {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(cfgDir, config.CfgFile), []byte(contents), 0o600))
	}
	cfg, err := config.NewConfig(fs, cfgDir, config.BaseDefaults)
	require.NoError(t, err)
	return cfg
}

func newTestService(t *testing.T, cfg *config.Instance, hw Hardware) (*Service, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(deskTime)
	if hw.RTC == nil {
		hw.RTC = rtc.NewSystemDevice(clock, time.UTC)
	}
	s, err := New(cfg, hw, clock)
	require.NoError(t, err)
	return s, clock
}

func TestNew_RequiresClock(t *testing.T) {
	t.Parallel()

	_, err := New(newTestConfig(t, ""), Hardware{}, clockwork.NewFakeClock())
	require.Error(t, err)
}

func TestNew_AppliesConfig(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, "config_schema = 1\n[pomodoro]\nwork = 50\nbreak = 10\n[light]\nmode = \"yellow\"\n")
	s, _ := newTestService(t, cfg, Hardware{})

	assert.Equal(t, pomodoro.Config{Work: 3000, Break: 600, LongBreak: 900}, s.Engine().Config())
	assert.Equal(t, 3000, s.Engine().Snapshot().TimeLeft)
	assert.Equal(t, light.Yellow, s.light.Mode())
	require.NotNil(t, s.Emulator())
	assert.True(t, s.Emulator().On(), "panel initialized")
}

func TestNew_DisplayDisabled(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, "config_schema = 1\n[display]\nenabled = false\n")
	s, _ := newTestService(t, cfg, Hardware{})

	assert.Nil(t, s.Emulator())
	s.driver.Step(context.Background())
	assert.True(t, s.cache.Load().OK)
}

func TestHandleCommand(t *testing.T) {
	t.Parallel()

	strip := &recordingStrip{}
	s, _ := newTestService(t, newTestConfig(t, ""), Hardware{Strip: strip})

	s.handleCommand(input.StartStop)
	assert.True(t, s.Engine().Snapshot().Running)

	s.Engine().Tick()
	s.handleCommand(input.Reset)
	snap := s.Engine().Snapshot()
	assert.False(t, snap.Running)
	assert.Equal(t, pomodoro.DefaultConfig.Work, snap.TimeLeft)

	s.handleCommand(input.CycleLightMode)
	assert.Equal(t, light.White, s.light.Mode())
	require.Len(t, strip.shown, 1)
	assert.Equal(t, light.White.Color(), strip.shown[0])

	s.handleCommand(input.Command(42))
}

func TestOnTransition_AlertOutcomes(t *testing.T) {
	t.Parallel()

	player := &blockingPlayer{release: make(chan struct{})}
	s, _ := newTestService(t, newTestConfig(t, ""), Hardware{Player: player})
	tr := pomodoro.Transition{From: pomodoro.Work, To: pomodoro.Break, Completed: 1}

	s.onTransition(tr)
	require.Eventually(t, s.alerter.Playing, time.Second, 5*time.Millisecond)
	s.onTransition(tr)

	close(player.release)
	s.alerter.Wait()

	reg := s.metrics.Registry()
	assert.InDelta(t, 2, metricValue(t, reg, "pomodesk_transitions_total"), 0)
	assert.InDelta(t, 2, metricValue(t, reg, "pomodesk_alerts_total"), 0)
}

func TestOnTransition_AlertDisabled(t *testing.T) {
	t.Parallel()

	player := &blockingPlayer{release: make(chan struct{})}
	s, _ := newTestService(t, newTestConfig(t, "config_schema = 1\n[alert]\nenabled = false\n"), Hardware{Player: player})

	s.onTransition(pomodoro.Transition{From: pomodoro.Work, To: pomodoro.Break, Completed: 1})

	assert.False(t, s.alerter.Playing())
	assert.InDelta(t, 1, metricValue(t, s.metrics.Registry(), "pomodesk_alerts_total"), 0)
}

func TestEngineTransitionTriggersAlert(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, "config_schema = 1\n[pomodoro]\nwork = 1\n")
	player := &blockingPlayer{release: make(chan struct{})}
	s, _ := newTestService(t, cfg, Hardware{Player: player})

	s.Engine().StartStop()
	for range 60 {
		s.Engine().Tick()
	}
	assert.False(t, s.alerter.Playing())

	snap := s.Engine().Tick()
	assert.Equal(t, pomodoro.Break, snap.State)
	assert.False(t, snap.Running, "auto-pause after an interval by default")
	assert.True(t, s.alerter.Playing())

	close(player.release)
	s.alerter.Wait()
}

func TestApplyConfig(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, "")
	s, _ := newTestService(t, cfg, Hardware{})
	before := s.Engine().Config()

	s.applyConfig()
	assert.Equal(t, before, s.Engine().Config(), "unchanged durations are left alone")

	cfg.SetPomodoroMinutes(30, 5, 20)
	s.applyConfig()

	assert.Equal(t, pomodoro.Config{Work: 1800, Break: 300, LongBreak: 1200}, s.Engine().Config())
	assert.Equal(t, 1800, s.Engine().Snapshot().TimeLeft, "idle session picks up the new work length")
}

func TestTimeSyncSelection(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		contents string
		want     bool
	}{
		{name: "ds3231 default", contents: "", want: true},
		{name: "system clock", contents: "config_schema = 1\n[clock]\nsource = \"system\"\n"},
		{name: "interval zero", contents: "config_schema = 1\n[clock]\nsync_interval = \"0s\"\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s, _ := newTestService(t, newTestConfig(t, tt.contents), Hardware{})
			assert.Equal(t, tt.want, s.timeSync() != nil)
		})
	}
}

func TestRun_StopsOnCancel(t *testing.T) {
	t.Parallel()

	cfg := newTestConfig(t, `config_schema = 1
[clock]
source = "system"

[service]
api_listen = "127.0.0.1:0"

[service.discovery]
enabled = false
`)
	s, clock := newTestService(t, cfg, Hardware{})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	// driver ticker plus the rate limiter cleanup ticker
	require.NoError(t, clock.BlockUntilContext(ctx, 2))
	s.Engine().StartStop()
	clock.Advance(TickInterval)
	require.Eventually(t, func() bool {
		return s.Engine().Snapshot().TimeLeft == pomodoro.DefaultConfig.Work-1
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(10 * time.Second):
		t.Fatal("service did not stop")
	}
}
