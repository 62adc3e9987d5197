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

// Package input turns raw button levels into debounced commands.
package input

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

const (
	DefaultPollInterval = 100 * time.Millisecond
	DefaultDebounce     = 50 * time.Millisecond
)

// Command is a logical action produced by one button press.
type Command int

const (
	StartStop Command = iota
	Reset
	CycleLightMode
)

func (c Command) String() string {
	switch c {
	case StartStop:
		return "startStop"
	case Reset:
		return "reset"
	case CycleLightMode:
		return "cycleLightMode"
	default:
		return fmt.Sprintf("Command(%d)", int(c))
	}
}

// ParseCommand maps a config name to a Command.
func ParseCommand(s string) (Command, error) {
	for _, c := range []Command{StartStop, Reset, CycleLightMode} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown input command: %q", s)
}

// Pin reads one input line. High is true. Buttons are active low.
type Pin interface {
	Read() (bool, error)
}

// Button binds a pin to the command it produces.
type Button struct {
	Pin     Pin
	Name    string
	Command Command
}

type buttonState struct {
	deadline time.Time
	Button
	high   bool
	armed  bool
	seeded bool
}

// Dispatcher samples every button on a fixed period. A falling edge arms
// a debounce deadline; the first sample taken after the deadline emits the
// command if the pin is still low. A press released before that sample is
// dropped, and a held button emits once.
//
// All state is owned by the goroutine calling Step or Run.
type Dispatcher struct {
	clock    clockwork.Clock
	handler  func(Command)
	buttons  []*buttonState
	poll     time.Duration
	debounce time.Duration
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithPollInterval overrides DefaultPollInterval.
func WithPollInterval(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.poll = d
		}
	}
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(disp *Dispatcher) {
		if d >= 0 {
			disp.debounce = d
		}
	}
}

// NewDispatcher returns a dispatcher that calls handler once per press.
func NewDispatcher(
	clock clockwork.Clock,
	handler func(Command),
	buttons []Button,
	opts ...Option,
) *Dispatcher {
	d := &Dispatcher{
		clock:    clock,
		handler:  handler,
		poll:     DefaultPollInterval,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(d)
	}
	for _, b := range buttons {
		d.buttons = append(d.buttons, &buttonState{Button: b})
	}
	return d
}

// Step samples every button once.
func (d *Dispatcher) Step() {
	now := d.clock.Now()
	for _, b := range d.buttons {
		high, err := b.Pin.Read()
		if err != nil {
			log.Warn().Err(err).Str("button", b.Name).Msg("failed to read button")
			continue
		}
		if !b.seeded {
			// A button held at start-up is not a press.
			b.high = high
			b.seeded = true
			continue
		}

		if b.armed && !now.Before(b.deadline) {
			b.armed = false
			if !high {
				log.Debug().Str("button", b.Name).Stringer("command", b.Command).Msg("button pressed")
				d.handler(b.Command)
			}
		}

		if b.high && !high && !b.armed {
			b.armed = true
			b.deadline = now.Add(d.debounce)
		}
		b.high = high
	}
}

// Run polls until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) {
	if len(d.buttons) == 0 {
		log.Info().Msg("no buttons configured, input dispatcher idle")
		<-ctx.Done()
		return
	}

	ticker := d.clock.NewTicker(d.poll)
	defer ticker.Stop()

	log.Info().Int("buttons", len(d.buttons)).Dur("poll", d.poll).Msg("input dispatcher started")
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("input dispatcher stopped")
			return
		case <-ticker.Chan():
			d.Step()
		}
	}
}
