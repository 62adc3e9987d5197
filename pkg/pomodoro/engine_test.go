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

package pomodoro

import (
	"encoding/json"
	"testing"

	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var shortConfig = Config{Work: 3, Break: 2, LongBreak: 4}

func newTestEngine(t *testing.T, cfg Config, opts ...Option) *Engine {
	t.Helper()
	e, err := NewEngine(cfg, opts...)
	require.NoError(t, err)
	return e
}

// finishInterval ticks until the current interval ends and returns the
// snapshot after the transition.
func finishInterval(t *testing.T, e *Engine) Snapshot {
	t.Helper()
	start := e.Snapshot()
	require.True(t, start.Running, "engine must be running to finish an interval")
	for range start.TimeLeft {
		snap := e.Tick()
		require.Equal(t, start.State, snap.State)
	}
	return e.Tick()
}

func TestNewEngine_InitialState(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig)
	snap := e.Snapshot()

	assert.Equal(t, Work, snap.State)
	assert.False(t, snap.Running)
	assert.Equal(t, 1500, snap.TimeLeft)
	assert.Zero(t, snap.Completed)
	assert.Equal(t, DefaultConfig, snap.Config)
	assert.True(t, snap.Idle())
	assert.Equal(t, "25:00", snap.TimerString())
}

func TestNewEngine_RejectsInvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := NewEngine(Config{Work: 0, Break: 1, LongBreak: 1})
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStartStop_Toggles(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig)

	assert.True(t, e.StartStop().Running)
	assert.False(t, e.StartStop().Running)
	assert.True(t, e.StartStop().Running)
}

func TestTick_NoopWhenPaused(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig)
	before := e.Snapshot()

	after := e.Tick()

	assert.Equal(t, before, after)
}

func TestTick_Decrements(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig)
	e.StartStop()

	assert.Equal(t, 1499, e.Tick().TimeLeft)
	assert.Equal(t, 1498, e.Tick().TimeLeft)
}

func TestTick_TransitionHappensOnTickAfterZero(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, shortConfig)
	e.StartStop()

	assert.Equal(t, 2, e.Tick().TimeLeft)
	assert.Equal(t, 1, e.Tick().TimeLeft)
	zero := e.Tick()
	assert.Equal(t, 0, zero.TimeLeft)
	assert.Equal(t, Work, zero.State)

	next := e.Tick()
	assert.Equal(t, Break, next.State)
	assert.Equal(t, shortConfig.Break, next.TimeLeft)
	assert.Equal(t, uint(1), next.Completed)
	assert.False(t, next.Running, "auto-pause is the default policy")
}

func TestTick_BreakReturnsToWork(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, shortConfig)
	e.StartStop()
	finishInterval(t, e)

	e.StartStop()
	snap := finishInterval(t, e)

	assert.Equal(t, Work, snap.State)
	assert.Equal(t, shortConfig.Work, snap.TimeLeft)
	assert.Equal(t, uint(1), snap.Completed)
}

func TestTick_EveryFourthWorkIsLongBreak(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, shortConfig, WithAfterInterval(AutoContinue))
	e.StartStop()

	var breaks []State
	for range 8 {
		snap := finishInterval(t, e)
		breaks = append(breaks, snap.State)
		require.Equal(t, Work, finishInterval(t, e).State)
	}

	assert.Equal(t, []State{Break, Break, Break, LongBreak, Break, Break, Break, LongBreak}, breaks)
	assert.Equal(t, uint(8), e.Snapshot().Completed)
}

func TestTick_ThirdToFourthCompletionIsLongBreak(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, shortConfig)
	e.mu.Lock()
	e.session.completed = 3
	e.session.running = true
	e.session.timeLeft = 0
	e.mu.Unlock()

	snap := e.Tick()

	assert.Equal(t, uint(4), snap.Completed)
	assert.Equal(t, LongBreak, snap.State)
	assert.Equal(t, shortConfig.LongBreak, snap.TimeLeft)
}

func TestTick_AutoContinue(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, shortConfig, WithAfterInterval(AutoContinue))
	e.StartStop()

	snap := finishInterval(t, e)

	assert.Equal(t, Break, snap.State)
	assert.True(t, snap.Running)
}

func TestReset(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		setup func(e *Engine)
	}{
		{name: "fresh", setup: func(*Engine) {}},
		{name: "running work", setup: func(e *Engine) {
			e.StartStop()
			e.Tick()
		}},
		{name: "paused break", setup: func(e *Engine) {
			e.StartStop()
			for range shortConfig.Work + 1 {
				e.Tick()
			}
		}},
		{name: "running long break", setup: func(e *Engine) {
			e.mu.Lock()
			e.session = session{state: LongBreak, running: true, timeLeft: 1, completed: 4}
			e.mu.Unlock()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			e := newTestEngine(t, shortConfig)
			tt.setup(e)
			completed := e.Snapshot().Completed

			snap := e.Reset()

			assert.Equal(t, Work, snap.State)
			assert.False(t, snap.Running)
			assert.Equal(t, shortConfig.Work, snap.TimeLeft)
			assert.Equal(t, completed, snap.Completed, "reset keeps the completion count")
		})
	}
}

func TestConfigure_RejectsZero(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig)

	_, err := e.Configure(Config{Work: 0, Break: 5, LongBreak: 15})
	require.ErrorIs(t, err, ErrInvalidArgument)

	assert.Equal(t, DefaultConfig, e.Config())
	assert.Equal(t, 1500, e.Snapshot().TimeLeft)
}

func TestConfigure_IdleAppliesImmediately(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig)

	snap, err := e.Configure(FromMinutes(50, 10, 30))
	require.NoError(t, err)

	assert.Equal(t, 3000, snap.TimeLeft)
	assert.Equal(t, FromMinutes(50, 10, 30), snap.Config)
}

func TestConfigure_RunningKeepsCountdown(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig)
	e.StartStop()
	e.Tick()

	snap, err := e.Configure(FromMinutes(50, 10, 30))
	require.NoError(t, err)
	assert.Equal(t, 1499, snap.TimeLeft, "running interval keeps its countdown")

	e.mu.Lock()
	e.session.timeLeft = 0
	e.mu.Unlock()
	snap = e.Tick()
	assert.Equal(t, Break, snap.State)
	assert.Equal(t, 600, snap.TimeLeft, "next interval uses the new duration")
}

func TestConfigure_RunningClampsToShorterDuration(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig)
	e.StartStop()

	snap, err := e.Configure(FromMinutes(10, 5, 15))
	require.NoError(t, err)
	assert.Equal(t, 600, snap.TimeLeft)
}

func TestConfigure_PausedBreakIsNotIdle(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, Config{Work: 1, Break: 100, LongBreak: 200})
	e.StartStop()
	e.Tick()
	snap := e.Tick()
	require.Equal(t, Break, snap.State)
	require.False(t, snap.Running)

	snap, err := e.Configure(Config{Work: 1, Break: 300, LongBreak: 200})
	require.NoError(t, err)
	assert.Equal(t, 100, snap.TimeLeft)
}

func TestConfigure_ApplyImmediately(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, DefaultConfig, WithApplyPolicy(ApplyImmediately))
	e.StartStop()
	e.Tick()

	snap, err := e.Configure(FromMinutes(50, 10, 30))
	require.NoError(t, err)
	assert.Equal(t, 3000, snap.TimeLeft)
	assert.True(t, snap.Running)
}

func TestTransitionHook(t *testing.T) {
	t.Parallel()

	var got []Transition
	var e *Engine
	e = newTestEngine(t, shortConfig, WithTransitionHook(func(tr Transition) {
		// Hooks run outside the lock and may read the engine.
		_ = e.Snapshot()
		got = append(got, tr)
	}))
	e.StartStop()
	finishInterval(t, e)

	require.Len(t, got, 1)
	assert.Equal(t, Transition{From: Work, To: Break, Completed: 1, Running: false}, got[0])
}

func TestNotifications(t *testing.T) {
	t.Parallel()

	ns := make(chan models.Notification, 10)
	e := newTestEngine(t, shortConfig, WithNotifications(ns))

	e.StartStop()
	finishInterval(t, e)
	e.Reset()
	_, err := e.Configure(FromMinutes(1, 1, 1))
	require.NoError(t, err)

	methods := make([]string, 0, len(ns))
	var transition models.PomodoroTransition
	for len(ns) > 0 {
		n := <-ns
		methods = append(methods, n.Method)
		if n.Method == models.NotificationPomodoroTransition {
			require.NoError(t, json.Unmarshal(n.Params, &transition))
		}
	}

	assert.Equal(t, []string{
		models.NotificationPomodoroStarted,
		models.NotificationPomodoroTransition,
		models.NotificationPomodoroReset,
		models.NotificationPomodoroConfigured,
	}, methods)
	assert.Equal(t, "work", transition.From)
	assert.Equal(t, "break", transition.To)
}

func TestParsePolicies(t *testing.T) {
	t.Parallel()

	a, err := ParseAfterInterval("continue")
	require.NoError(t, err)
	assert.Equal(t, AutoContinue, a)

	a, err = ParseAfterInterval("")
	require.NoError(t, err)
	assert.Equal(t, AutoPause, a)

	_, err = ParseAfterInterval("sometimes")
	require.ErrorIs(t, err, ErrInvalidArgument)

	p, err := ParseApplyPolicy("immediate")
	require.NoError(t, err)
	assert.Equal(t, ApplyImmediately, p)

	_, err = ParseApplyPolicy("later")
	require.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStatusAndDurations(t *testing.T) {
	t.Parallel()

	snap := Snapshot{State: LongBreak, TimeLeft: 61, Completed: 4, Running: true}
	assert.Equal(t, models.PomodoroStatus{
		State: "LONG", Timer: "01:01", TimeLeft: 61, Completed: 4, Running: true,
	}, Status(snap))

	assert.Equal(t, models.PomodoroDurations{Work: 25, Break: 5, LongBreak: 15}, Durations(DefaultConfig))
}
