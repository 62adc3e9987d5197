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

// Package display renders the clock and Pomodoro screens on a 128x64
// monochrome panel addressed in 8-row pages.
package display

import (
	"errors"
	"fmt"
)

const (
	Width  = 128
	Height = 64
	Pages  = Height / 8
)

var (
	// ErrIO is returned when a bus write fails.
	ErrIO = errors.New("display bus error")
	// ErrPosition is returned for a page or column outside the panel.
	ErrPosition = errors.New("position out of range")
)

// Bus carries command and data bytes to the panel controller.
type Bus interface {
	Command(cmds ...byte) error
	Data(p []byte) error
}

// Flusher is implemented by buses that buffer a frame until told it is
// complete.
type Flusher interface {
	Flush() error
}

// InitSequence is sent once after reset. Multi-byte commands keep their
// argument on the same line.
var InitSequence = []byte{
	0xAE,       // display off
	0xD5, 0x80, // clock divide
	0xA8, 0x3F, // multiplex ratio 64
	0xD3, 0x00, // display offset
	0x40,       // start line 0
	0x8D, 0x14, // charge pump on
	0x20, 0x00, // addressing mode
	0xA1,       // segment remap
	0xC8,       // COM scan direction
	0xDA, 0x12, // COM pins
	0x81, 0xCF, // contrast
	0xD9, 0xF1, // pre-charge
	0xDB, 0x40, // VCOMH
	0xA4, // resume from RAM
	0xA6, // normal polarity
	0x2E, // scroll off
	0xAF, // display on
}

// Renderer turns characters into page-addressed writes. It holds no frame
// state; every call goes straight to the bus.
type Renderer struct {
	bus Bus
}

// NewRenderer returns a renderer writing to bus.
func NewRenderer(bus Bus) *Renderer {
	return &Renderer{bus: bus}
}

// Init sends the controller initialization sequence.
func (r *Renderer) Init() error {
	if err := r.bus.Command(InitSequence...); err != nil {
		return fmt.Errorf("%w: init: %w", ErrIO, err)
	}
	return nil
}

// SetAddress moves the write cursor to (page, col).
func (r *Renderer) SetAddress(page, col int) error {
	if page < 0 || page >= Pages || col < 0 || col >= Width {
		return fmt.Errorf("%w: page %d col %d", ErrPosition, page, col)
	}
	err := r.bus.Command(
		0xB0+byte(page),
		0x00|byte(col&0x0F),
		0x10|byte(col>>4),
	)
	if err != nil {
		return fmt.Errorf("%w: set address: %w", ErrIO, err)
	}
	return nil
}

func (r *Renderer) write(p []byte) error {
	if err := r.bus.Data(p); err != nil {
		return fmt.Errorf("%w: data: %w", ErrIO, err)
	}
	return nil
}

// Clear zeroes every column of every page.
func (r *Renderer) Clear() error {
	zeros := make([]byte, Width)
	for page := range Pages {
		if err := r.SetAddress(page, 0); err != nil {
			return err
		}
		if err := r.write(zeros); err != nil {
			return err
		}
	}
	return nil
}

// DrawBitmap writes raw column bytes starting at (page, col).
func (r *Renderer) DrawBitmap(page, col int, bits []byte) error {
	if len(bits) == 0 {
		return nil
	}
	if err := r.SetAddress(page, col); err != nil {
		return err
	}
	return r.write(bits)
}

// DrawSmall draws an 8x8 glyph on one page. Only digits and ':' are
// supported; anything else is silently skipped without bus traffic.
func (r *Renderer) DrawSmall(page, col int, c rune) error {
	g, ok := smallGlyph(c)
	if !ok {
		return nil
	}
	return r.DrawBitmap(page, col, g[:])
}

// DrawLarge draws a glyph 16 columns wide across page and page+1. Digits,
// ':' and '/' are supported; anything else is skipped.
func (r *Renderer) DrawLarge(page, col int, c rune) error {
	g, ok := largeGlyph(c)
	if !ok {
		return nil
	}
	if page+1 >= Pages {
		return fmt.Errorf("%w: large glyph at page %d", ErrPosition, page)
	}
	for p := range 2 {
		if err := r.SetAddress(page+p, col); err != nil {
			return err
		}
		if err := r.write(expandNibble(g, p)); err != nil {
			return err
		}
	}
	return nil
}

// expandNibble builds one page of a large glyph. Each source byte
// contributes nibble half; bit b of that nibble lands in bits 2b and 2b+1
// of the output, and every output byte is written twice.
func expandNibble(g Glyph, half int) []byte {
	out := make([]byte, 0, 2*GlyphSize)
	for _, src := range g {
		var b byte
		for bit := range 4 {
			if src&(1<<(bit+4*half)) != 0 {
				b |= 3 << (2 * bit)
			}
		}
		out = append(out, b, b)
	}
	return out
}

// DrawSmallText draws s with small glyphs, advancing 8 columns per
// character including unsupported ones.
func (r *Renderer) DrawSmallText(page, col int, s string) error {
	for _, c := range s {
		if err := r.DrawSmall(page, col, c); err != nil {
			return err
		}
		col += GlyphSize
	}
	return nil
}

// Flush tells a buffering bus that the frame is complete.
func (r *Renderer) Flush() error {
	if f, ok := r.bus.(Flusher); ok {
		if err := f.Flush(); err != nil {
			return fmt.Errorf("%w: flush: %w", ErrIO, err)
		}
	}
	return nil
}
