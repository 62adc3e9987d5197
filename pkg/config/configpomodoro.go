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

package config

const (
	DefaultWorkMinutes      = 25
	DefaultBreakMinutes     = 5
	DefaultLongBreakMinutes = 15
)

// Pomodoro durations are stored in minutes, as entered on the web page.
type Pomodoro struct {
	Work          *int   `toml:"work,omitempty" validate:"omitempty,min=1,max=120"`
	Break         *int   `toml:"break,omitempty" validate:"omitempty,min=1,max=60"`
	LongBreak     *int   `toml:"long_break,omitempty" validate:"omitempty,min=1,max=60"`
	AfterInterval string `toml:"after_interval,omitempty" validate:"omitempty,oneof=pause continue"`
	ApplyConfig   string `toml:"apply_config,omitempty" validate:"omitempty,oneof=next immediate"`
}

func intOr(p *int, def int) int {
	if p == nil {
		return def
	}
	return *p
}

// PomodoroMinutes returns the work, break and long break durations.
func (c *Instance) PomodoroMinutes() (work, brk, longBreak int) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	p := c.vals.Pomodoro
	return intOr(p.Work, DefaultWorkMinutes),
		intOr(p.Break, DefaultBreakMinutes),
		intOr(p.LongBreak, DefaultLongBreakMinutes)
}

// SetPomodoroMinutes stores new durations. Call Save to persist them.
func (c *Instance) SetPomodoroMinutes(work, brk, longBreak int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Pomodoro.Work = &work
	c.vals.Pomodoro.Break = &brk
	c.vals.Pomodoro.LongBreak = &longBreak
}

// AfterInterval is "pause" (default) or "continue".
func (c *Instance) AfterInterval() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Pomodoro.AfterInterval
}

// ApplyConfig is "next" (default) or "immediate".
func (c *Instance) ApplyConfig() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Pomodoro.ApplyConfig
}
