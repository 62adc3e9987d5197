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

// Package light cycles the ambient LED strip through its fixed modes.
package light

import (
	"fmt"
	"image/color"
	"sync/atomic"

	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/pomodesk/pomodesk/pkg/api/notifications"
	"github.com/rs/zerolog/log"
)

// Mode is one ambient lighting preset.
type Mode uint32

const (
	Off Mode = iota
	White
	Yellow
	Blue
	modeCount
)

func (m Mode) String() string {
	switch m {
	case Off:
		return "off"
	case White:
		return "white"
	case Yellow:
		return "yellow"
	case Blue:
		return "blue"
	default:
		return fmt.Sprintf("Mode(%d)", uint32(m))
	}
}

// ParseMode maps a config name to a Mode.
func ParseMode(s string) (Mode, error) {
	for m := Off; m < modeCount; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return Off, fmt.Errorf("unknown light mode: %q", s)
}

// Color is the strip color for m. Off is black.
func (m Mode) Color() color.RGBA {
	switch m {
	case White:
		return color.RGBA{R: 255, G: 255, B: 100, A: 255}
	case Yellow:
		return color.RGBA{R: 255, G: 200, B: 18, A: 255}
	case Blue:
		return color.RGBA{R: 255, G: 255, B: 50, A: 255}
	default:
		return color.RGBA{A: 255}
	}
}

// Strip is the LED output.
type Strip interface {
	Show(c color.RGBA) error
}

// LogStrip logs every color instead of driving hardware.
type LogStrip struct{}

func (LogStrip) Show(c color.RGBA) error {
	log.Info().Uint8("r", c.R).Uint8("g", c.G).Uint8("b", c.B).Msg("light strip updated")
	return nil
}

// Controller holds the current mode in a single word so Cycle can be
// called from any goroutine without a lock.
type Controller struct {
	strip         Strip
	notifications chan<- models.Notification
	mode          atomic.Uint32
}

// NewController returns a controller showing initial on strip.
func NewController(strip Strip, initial Mode, ns chan<- models.Notification) *Controller {
	if initial >= modeCount {
		initial = Off
	}
	c := &Controller{strip: strip, notifications: ns}
	c.mode.Store(uint32(initial))
	return c
}

// Mode returns the current mode.
func (c *Controller) Mode() Mode {
	return Mode(c.mode.Load())
}

// Apply pushes the current mode to the strip.
func (c *Controller) Apply() error {
	m := c.Mode()
	if err := c.strip.Show(m.Color()); err != nil {
		return fmt.Errorf("show light mode %s: %w", m, err)
	}
	return nil
}

// Cycle advances to the next mode, wrapping after Blue, and shows it.
func (c *Controller) Cycle() (Mode, error) {
	var m Mode
	for {
		old := c.mode.Load()
		next := (old + 1) % uint32(modeCount)
		if c.mode.CompareAndSwap(old, next) {
			m = Mode(next)
			break
		}
	}
	log.Info().Stringer("mode", m).Msg("light mode changed")
	notifications.LightChanged(c.notifications, models.LightMode{Mode: m.String()})
	if err := c.strip.Show(m.Color()); err != nil {
		return m, fmt.Errorf("show light mode %s: %w", m, err)
	}
	return m, nil
}
