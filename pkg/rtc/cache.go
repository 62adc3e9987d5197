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

package rtc

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/helpers/syncutil"
)

// Reading is a copy of the last successful clock read.
type Reading struct {
	ReadAt time.Time
	Clock  WallClock
	OK     bool
}

// Cache holds the most recent successful read so readers outside the
// driver never touch the bus. A failed read leaves the previous value.
type Cache struct {
	last Reading
	mu   syncutil.RWMutex
}

// Store records a successful read.
func (c *Cache) Store(w WallClock, at time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.last = Reading{Clock: w, ReadAt: at, OK: true}
}

// Load returns a copy of the last successful read. OK is false until the
// first read succeeds.
func (c *Cache) Load() Reading {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.last
}

// SystemDevice is a Device backed by the host clock, used when no RTC is
// wired. SetTime shifts the reported time by an offset instead of touching
// the host clock.
type SystemDevice struct {
	clock  clockwork.Clock
	loc    *time.Location
	offset time.Duration
	mu     syncutil.Mutex
}

// NewSystemDevice returns a host clock device reporting time in loc.
func NewSystemDevice(clock clockwork.Clock, loc *time.Location) *SystemDevice {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if loc == nil {
		loc = time.Local
	}
	return &SystemDevice{clock: clock, loc: loc}
}

func (d *SystemDevice) ReadTime(_ context.Context) (WallClock, error) {
	d.mu.Lock()
	offset := d.offset
	d.mu.Unlock()
	return FromTime(d.clock.Now().Add(offset).In(d.loc)), nil
}

func (d *SystemDevice) SetTime(_ context.Context, w WallClock) error {
	if err := w.Validate(); err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.offset = w.Time(d.loc).Sub(d.clock.Now())
	return nil
}
