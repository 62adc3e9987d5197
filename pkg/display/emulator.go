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

package display

import (
	"errors"
	"strings"

	"github.com/pomodesk/pomodesk/pkg/helpers/syncutil"
)

// Frame is a full panel image, one byte per column per page.
type Frame [Pages][Width]byte

// Pixel reports whether the pixel at (x, y) is lit.
func (f *Frame) Pixel(x, y int) bool {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return false
	}
	return f[y/8][x]&(1<<(y%8)) != 0
}

// String renders the frame as text, '#' for lit pixels.
func (f *Frame) String() string {
	var sb strings.Builder
	sb.Grow((Width + 1) * Height)
	for y := range Height {
		for x := range Width {
			if f.Pixel(x, y) {
				sb.WriteByte('#')
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// argCounts lists controller commands followed by argument bytes.
var argCounts = map[byte]int{
	0x20: 1, 0x21: 2, 0x22: 2, 0x81: 1, 0x8D: 1, 0xA8: 1,
	0xD3: 1, 0xD5: 1, 0xD9: 1, 0xDA: 1, 0xDB: 1,
}

// Emulator is an in-memory SSD1306 that understands page addressing. The
// frame being drawn becomes visible through Frame only after Flush.
type Emulator struct {
	work      Frame
	shown     Frame
	page      int
	col       int
	pending   int
	flushes   int
	displayOn bool
	mu        syncutil.RWMutex
}

// NewEmulator returns a blank, powered-off panel.
func NewEmulator() *Emulator {
	return &Emulator{}
}

func (e *Emulator) Command(cmds ...byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, c := range cmds {
		if e.pending > 0 {
			e.pending--
			continue
		}
		switch {
		case c >= 0xB0 && c <= 0xB7:
			e.page = int(c - 0xB0)
		case c <= 0x0F:
			e.col = e.col&0xF0 | int(c)
		case c >= 0x10 && c <= 0x1F:
			e.col = e.col&0x0F | int(c&0x0F)<<4
		case c == 0xAE:
			e.displayOn = false
		case c == 0xAF:
			e.displayOn = true
		default:
			e.pending = argCounts[c]
		}
	}
	return nil
}

func (e *Emulator) Data(p []byte) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, b := range p {
		if e.col >= Width {
			e.col = 0
			e.page = (e.page + 1) % Pages
		}
		e.work[e.page][e.col] = b
		e.col++
	}
	return nil
}

// Flush publishes the frame drawn so far.
func (e *Emulator) Flush() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.shown = e.work
	e.flushes++
	return nil
}

// Frame returns a copy of the last flushed frame.
func (e *Emulator) Frame() Frame {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.shown
}

// Flushes returns how many frames have been published.
func (e *Emulator) Flushes() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.flushes
}

// On reports whether the display-on command has been received.
func (e *Emulator) On() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.displayOn
}

// MultiBus writes every command and data byte to all of its buses.
type MultiBus []Bus

func (m MultiBus) Command(cmds ...byte) error {
	var errs []error
	for _, b := range m {
		errs = append(errs, b.Command(cmds...))
	}
	return errors.Join(errs...)
}

func (m MultiBus) Data(p []byte) error {
	var errs []error
	for _, b := range m {
		errs = append(errs, b.Data(p))
	}
	return errors.Join(errs...)
}

func (m MultiBus) Flush() error {
	var errs []error
	for _, b := range m {
		if f, ok := b.(Flusher); ok {
			errs = append(errs, f.Flush())
		}
	}
	return errors.Join(errs...)
}
