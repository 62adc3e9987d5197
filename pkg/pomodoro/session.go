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

// Package pomodoro implements the work/break countdown state machine.
package pomodoro

import (
	"errors"
	"fmt"
)

// LongBreakEvery is how many completed work intervals earn a long break.
const LongBreakEvery = 4

// ErrInvalidArgument is returned for a non-positive duration.
var ErrInvalidArgument = errors.New("invalid argument")

// State is the kind of interval being counted down.
type State int

const (
	Work State = iota
	Break
	LongBreak
)

func (s State) String() string {
	switch s {
	case Work:
		return "work"
	case Break:
		return "break"
	case LongBreak:
		return "longBreak"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Label is the upper-case name shown on the panel and in the status API.
func (s State) Label() string {
	switch s {
	case Break:
		return "BREAK"
	case LongBreak:
		return "LONG"
	default:
		return "WORK"
	}
}

// Valid reports whether s is one of the three known states.
func (s State) Valid() bool {
	return s >= Work && s <= LongBreak
}

// Config holds interval durations in seconds.
type Config struct {
	Work      int `json:"work"`
	Break     int `json:"break"`
	LongBreak int `json:"longBreak"`
}

// DefaultConfig is 25/5/15 minutes.
var DefaultConfig = Config{Work: 1500, Break: 300, LongBreak: 900}

// Validate rejects any duration that is not positive.
func (c Config) Validate() error {
	switch {
	case c.Work <= 0:
		return fmt.Errorf("%w: work duration %d must be positive", ErrInvalidArgument, c.Work)
	case c.Break <= 0:
		return fmt.Errorf("%w: break duration %d must be positive", ErrInvalidArgument, c.Break)
	case c.LongBreak <= 0:
		return fmt.Errorf("%w: long break duration %d must be positive", ErrInvalidArgument, c.LongBreak)
	}
	return nil
}

// Duration returns the configured length of s in seconds.
func (c Config) Duration(s State) int {
	switch s {
	case Break:
		return c.Break
	case LongBreak:
		return c.LongBreak
	default:
		return c.Work
	}
}

// Snapshot is a point-in-time copy of the session and its config.
type Snapshot struct {
	Config    Config
	State     State
	TimeLeft  int
	Completed uint
	Running   bool
}

// Idle reports a paused session in the work state, the only time the
// clock views are shown and new durations apply at once.
func (s Snapshot) Idle() bool {
	return !s.Running && s.State == Work
}

// Duration is the configured length of the current state.
func (s Snapshot) Duration() int {
	return s.Config.Duration(s.State)
}

// TimerString formats TimeLeft as MM:SS.
func (s Snapshot) TimerString() string {
	return fmt.Sprintf("%02d:%02d", s.TimeLeft/60, s.TimeLeft%60)
}

// Transition describes the end of one interval and the start of the next.
type Transition struct {
	From      State
	To        State
	Completed uint
	Running   bool
}

// AfterInterval decides whether the next interval starts on its own.
type AfterInterval int

const (
	AutoPause AfterInterval = iota
	AutoContinue
)

// ParseAfterInterval accepts "pause" and "continue"; empty means pause.
func ParseAfterInterval(s string) (AfterInterval, error) {
	switch s {
	case "", "pause":
		return AutoPause, nil
	case "continue":
		return AutoContinue, nil
	default:
		return AutoPause, fmt.Errorf("%w: unknown after-interval policy %q", ErrInvalidArgument, s)
	}
}

// ApplyPolicy decides when changed durations affect the running interval.
type ApplyPolicy int

const (
	// ApplyOnNextInterval resets the countdown only when idle; otherwise
	// the remaining time is clamped to the new duration.
	ApplyOnNextInterval ApplyPolicy = iota
	// ApplyImmediately restarts the current interval with its new duration.
	ApplyImmediately
)

// ParseApplyPolicy accepts "next" and "immediate"; empty means next.
func ParseApplyPolicy(s string) (ApplyPolicy, error) {
	switch s {
	case "", "next":
		return ApplyOnNextInterval, nil
	case "immediate":
		return ApplyImmediately, nil
	default:
		return ApplyOnNextInterval, fmt.Errorf("%w: unknown apply policy %q", ErrInvalidArgument, s)
	}
}
