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
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/display"
	"github.com/pomodesk/pomodesk/pkg/helpers"
	"github.com/pomodesk/pomodesk/pkg/pomodoro"
	"github.com/pomodesk/pomodesk/pkg/rtc"
	"github.com/pomodesk/pomodesk/pkg/service/metrics"
	"github.com/rs/zerolog/log"
)

// TickInterval is the driver period: one countdown second per tick.
const TickInterval = time.Second

// Driver is the 1 Hz loop: read the clock, render the snapshot, then
// advance the countdown.
type Driver struct {
	clock   clockwork.Clock
	device  rtc.Device
	cache   *rtc.Cache
	screen  *display.Screen
	engine  *pomodoro.Engine
	metrics *metrics.Metrics

	started     time.Time
	waitTimeout time.Duration
	ready       bool
	failing     bool
}

// NewDriver builds a driver. screen may be nil when the panel is
// disabled. Rendering is held back until the clock reads a plausible time
// or waitTimeout has passed since the first step.
func NewDriver(
	clock clockwork.Clock,
	device rtc.Device,
	cache *rtc.Cache,
	screen *display.Screen,
	engine *pomodoro.Engine,
	m *metrics.Metrics,
	waitTimeout time.Duration,
) *Driver {
	return &Driver{
		clock:       clock,
		device:      device,
		cache:       cache,
		screen:      screen,
		engine:      engine,
		metrics:     m,
		waitTimeout: waitTimeout,
	}
}

// Step runs one tick. A failed clock read skips the frame but never the
// countdown.
func (d *Driver) Step(ctx context.Context) pomodoro.Snapshot {
	now := d.clock.Now()
	if d.started.IsZero() {
		d.started = now
	}

	wc, err := d.device.ReadTime(ctx)
	switch {
	case err != nil:
		d.metrics.ClockFailure()
		if !d.failing {
			log.Warn().Err(err).Msg("failed to read clock, skipping refresh")
		}
		d.failing = true
	default:
		if d.failing {
			log.Info().Msg("clock reads recovered")
		}
		d.failing = false
		d.cache.Store(wc, now)
		if !d.ready {
			d.ready = d.clockReady(wc, now)
		}
		if d.ready {
			d.render(wc)
		}
	}

	snap := d.engine.Tick()
	d.metrics.ObserveTick(snap)
	return snap
}

func (d *Driver) clockReady(wc rtc.WallClock, now time.Time) bool {
	if helpers.IsClockReliable(wc.Time(time.UTC)) {
		log.Info().Str("time", wc.ClockString()).Str("date", wc.DateString()).Msg("clock ready")
		return true
	}
	if now.Sub(d.started) >= d.waitTimeout {
		log.Warn().
			Str("date", wc.DateString()).
			Dur("waited", now.Sub(d.started)).
			Msg("clock not set, showing it anyway")
		return true
	}
	return false
}

func (d *Driver) render(wc rtc.WallClock) {
	if d.screen == nil {
		return
	}
	view, err := d.screen.Render(wc, d.engine.Snapshot())
	if err != nil {
		d.metrics.DisplayFailure()
		log.Warn().Err(err).Stringer("view", view).Msg("failed to render frame")
	}
}

// Run steps once per TickInterval until ctx is done.
func (d *Driver) Run(ctx context.Context) {
	ticker := d.clock.NewTicker(TickInterval)
	defer ticker.Stop()

	log.Info().Dur("interval", TickInterval).Msg("driver started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("driver stopped")
			return
		case <-ticker.Chan():
			d.Step(ctx)
		}
	}
}
