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
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"tinygo.org/x/drivers"
)

const resetPulse = 10 * time.Millisecond

// OutputPin drives a single GPIO line.
type OutputPin interface {
	Set(high bool) error
}

// SPIBus drives an SSD1306 over SPI with a separate data/command line.
// The DC line is low for commands and high for display data.
type SPIBus struct {
	spi   drivers.SPI
	dc    OutputPin
	rst   OutputPin
	clock clockwork.Clock
}

// NewSPIBus returns a bus for the panel. rst may be nil when the reset
// line is tied high.
func NewSPIBus(spi drivers.SPI, dc, rst OutputPin, clock clockwork.Clock) *SPIBus {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &SPIBus{spi: spi, dc: dc, rst: rst, clock: clock}
}

// Reset pulses the reset line high, low, high with 10 ms holds.
func (b *SPIBus) Reset() error {
	if b.rst == nil {
		return nil
	}
	for _, level := range []bool{true, false, true} {
		if err := b.rst.Set(level); err != nil {
			return fmt.Errorf("reset line: %w", err)
		}
		b.clock.Sleep(resetPulse)
	}
	return nil
}

func (b *SPIBus) Command(cmds ...byte) error {
	return b.send(false, cmds)
}

func (b *SPIBus) Data(p []byte) error {
	return b.send(true, p)
}

func (b *SPIBus) send(data bool, p []byte) error {
	if len(p) == 0 {
		return nil
	}
	if err := b.dc.Set(data); err != nil {
		return fmt.Errorf("dc line: %w", err)
	}
	if err := b.spi.Tx(p, nil); err != nil {
		return fmt.Errorf("spi write: %w", err)
	}
	return nil
}
