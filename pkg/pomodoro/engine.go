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
	"fmt"

	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/pomodesk/pomodesk/pkg/api/notifications"
	"github.com/pomodesk/pomodesk/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
)

// Engine owns the Pomodoro session. Every mutator holds mu for the whole
// read-modify-write so ticks and commands from the driver, the inputs and
// the API are linearizable.
//
// LOCKING RULES: never send notifications or call hooks while holding mu.
// Pattern: lock, modify, copy a snapshot, unlock, then notify.
type Engine struct {
	notifications chan<- models.Notification
	hooks         []func(Transition)
	cfg           Config
	session       session
	after         AfterInterval
	apply         ApplyPolicy
	mu            syncutil.Mutex
}

type session struct {
	state     State
	timeLeft  int
	completed uint
	running   bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithAfterInterval sets the policy applied after every transition.
func WithAfterInterval(a AfterInterval) Option {
	return func(e *Engine) { e.after = a }
}

// WithApplyPolicy sets how Configure treats the current interval.
func WithApplyPolicy(p ApplyPolicy) Option {
	return func(e *Engine) { e.apply = p }
}

// WithNotifications sends session events to ns.
func WithNotifications(ns chan<- models.Notification) Option {
	return func(e *Engine) { e.notifications = ns }
}

// WithTransitionHook registers fn to run after every interval ends. Hooks
// run on the ticking goroutine after the lock is released and must not
// block.
func WithTransitionHook(fn func(Transition)) Option {
	return func(e *Engine) { e.hooks = append(e.hooks, fn) }
}

// NewEngine returns an engine in Work, paused, with a full work interval.
//
//nolint:gocritic // config copied for immutability
func NewEngine(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	e := &Engine{cfg: cfg}
	for _, opt := range opts {
		opt(e)
	}
	e.session = session{state: Work, timeLeft: cfg.Work}
	return e, nil
}

// snapshotLocked copies the session. Caller must hold mu.
func (e *Engine) snapshotLocked() Snapshot {
	return Snapshot{
		Config:    e.cfg,
		State:     e.session.state,
		TimeLeft:  e.session.timeLeft,
		Completed: e.session.completed,
		Running:   e.session.running,
	}
}

// Snapshot returns a consistent copy of the session.
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

// Config returns the current durations.
func (e *Engine) Config() Config {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.cfg
}

// StartStop toggles between running and paused.
func (e *Engine) StartStop() Snapshot {
	e.mu.Lock()
	e.session.running = !e.session.running
	snap := e.snapshotLocked()
	e.mu.Unlock()

	if snap.Running {
		log.Info().Str("state", snap.State.String()).Int("timeLeft", snap.TimeLeft).Msg("pomodoro started")
		notifications.PomodoroStarted(e.notifications, Status(snap))
	} else {
		log.Info().Str("state", snap.State.String()).Int("timeLeft", snap.TimeLeft).Msg("pomodoro paused")
		notifications.PomodoroPaused(e.notifications, Status(snap))
	}
	return snap
}

// Reset pauses and restarts a full work interval. The completed counter
// is kept.
func (e *Engine) Reset() Snapshot {
	e.mu.Lock()
	e.session.running = false
	e.session.state = Work
	e.session.timeLeft = e.cfg.Work
	snap := e.snapshotLocked()
	e.mu.Unlock()

	log.Info().Uint("completed", snap.Completed).Msg("pomodoro reset")
	notifications.PomodoroReset(e.notifications, Status(snap))
	return snap
}

// Configure replaces the durations. An invalid config leaves the engine
// untouched. See ApplyPolicy for how the current countdown is adjusted.
//
//nolint:gocritic // config copied for immutability
func (e *Engine) Configure(cfg Config) (Snapshot, error) {
	if err := cfg.Validate(); err != nil {
		return e.Snapshot(), fmt.Errorf("configure: %w", err)
	}

	e.mu.Lock()
	e.cfg = cfg
	current := cfg.Duration(e.session.state)
	idle := !e.session.running && e.session.state == Work
	switch {
	case e.apply == ApplyImmediately, idle:
		e.session.timeLeft = current
	case e.session.timeLeft > current:
		e.session.timeLeft = current
	}
	snap := e.snapshotLocked()
	e.mu.Unlock()

	log.Info().
		Int("work", cfg.Work).
		Int("break", cfg.Break).
		Int("longBreak", cfg.LongBreak).
		Msg("pomodoro configured")
	notifications.PomodoroConfigured(e.notifications, Durations(cfg))
	return snap, nil
}

// Tick advances a running countdown by one second. A countdown already at
// zero ends the interval: the transition hooks fire and the next state's
// full duration is loaded.
func (e *Engine) Tick() Snapshot {
	e.mu.Lock()
	if !e.session.running {
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap
	}
	if e.session.timeLeft > 0 {
		e.session.timeLeft--
		snap := e.snapshotLocked()
		e.mu.Unlock()
		return snap
	}

	t := e.transitionLocked()
	snap := e.snapshotLocked()
	e.mu.Unlock()

	log.Info().
		Str("from", t.From.String()).
		Str("to", t.To.String()).
		Uint("completed", t.Completed).
		Msg("pomodoro interval finished")
	for _, hook := range e.hooks {
		hook(t)
	}
	notifications.PomodoroTransition(e.notifications, models.PomodoroTransition{
		From:      t.From.String(),
		To:        t.To.String(),
		Completed: t.Completed,
		Running:   t.Running,
	})
	return snap
}

// transitionLocked moves to the next state. Caller must hold mu.
func (e *Engine) transitionLocked() Transition {
	from := e.session.state
	next := Work
	if from == Work {
		e.session.completed++
		next = Break
		if e.session.completed%LongBreakEvery == 0 {
			next = LongBreak
		}
	}
	e.session.state = next
	e.session.timeLeft = e.cfg.Duration(next)
	e.session.running = e.after == AutoContinue

	return Transition{
		From:      from,
		To:        next,
		Completed: e.session.completed,
		Running:   e.session.running,
	}
}

// Status converts a snapshot to its API payload.
//
//nolint:gocritic // snapshot passed by value
func Status(s Snapshot) models.PomodoroStatus {
	return models.PomodoroStatus{
		State:     s.State.Label(),
		Timer:     s.TimerString(),
		TimeLeft:  s.TimeLeft,
		Completed: s.Completed,
		Running:   s.Running,
	}
}

// Durations converts a config to whole minutes, rounding down.
func Durations(c Config) models.PomodoroDurations {
	return models.PomodoroDurations{
		Work:      c.Work / 60,
		Break:     c.Break / 60,
		LongBreak: c.LongBreak / 60,
	}
}

// FromMinutes builds a Config from minute values.
func FromMinutes(work, brk, longBreak int) Config {
	return Config{Work: work * 60, Break: brk * 60, LongBreak: longBreak * 60}
}
