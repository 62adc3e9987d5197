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
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"tinygo.org/x/drivers"
)

const (
	// DefaultAddress is the fixed I2C address of the DS3231.
	DefaultAddress uint16 = 0x68
	// DefaultTimeout bounds every bus transaction.
	DefaultTimeout = time.Second

	regSeconds byte = 0x00
)

// Device reads and writes wall clock time.
type Device interface {
	ReadTime(ctx context.Context) (WallClock, error)
	SetTime(ctx context.Context, w WallClock) error
}

// DS3231 talks to a DS3231 over an I2C bus. Transactions are serialized and
// bounded by a timeout; a bus that hangs past the timeout reports ErrIO.
type DS3231 struct {
	bus     drivers.I2C
	busy    chan struct{}
	timeout time.Duration
	addr    uint16
}

// NewDS3231 returns an adapter for the device at addr. A zero timeout uses
// DefaultTimeout.
func NewDS3231(bus drivers.I2C, addr uint16, timeout time.Duration) *DS3231 {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &DS3231{
		bus:     bus,
		addr:    addr,
		timeout: timeout,
		busy:    make(chan struct{}, 1),
	}
}

// ReadTime sets the register pointer to 0x00 and reads the seven
// timekeeping registers.
func (d *DS3231) ReadTime(ctx context.Context) (WallClock, error) {
	var regs [RegisterCount]byte
	err := d.tx(ctx, []byte{regSeconds}, regs[:])
	if err != nil {
		return WallClock{}, fmt.Errorf("read time: %w", err)
	}
	return Decode(regs), nil
}

// SetTime validates w and writes the register pointer followed by the
// seven BCD fields in one transaction.
func (d *DS3231) SetTime(ctx context.Context, w WallClock) error {
	regs, err := Encode(w)
	if err != nil {
		return fmt.Errorf("set time: %w", err)
	}
	buf := make([]byte, 0, RegisterCount+1)
	buf = append(buf, regSeconds)
	buf = append(buf, regs[:]...)
	if err := d.tx(ctx, buf, nil); err != nil {
		return fmt.Errorf("set time: %w", err)
	}
	log.Info().Str("time", w.ClockString()).Str("date", w.DateString()).Msg("rtc time set")
	return nil
}

func (d *DS3231) tx(ctx context.Context, w, r []byte) error {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	select {
	case d.busy <- struct{}{}:
	case <-ctx.Done():
		return fmt.Errorf("%w: bus busy: %w", ErrIO, ctx.Err())
	}

	// The bus call cannot be interrupted, so it runs on its own goroutine
	// and releases the bus when it eventually returns.
	done := make(chan error, 1)
	go func() {
		defer func() { <-d.busy }()
		done <- d.bus.Tx(d.addr, w, r)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("%w: %w", ErrIO, err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("%w: %w", ErrIO, ctx.Err())
	}
}
