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

// Package hw binds the periph.io host drivers to the device interfaces
// used by the clock, display, input and alert packages.
package hw

import (
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
	"tinygo.org/x/drivers"
)

// ErrPinNotFound is returned when a GPIO name is unknown to the host.
var ErrPinNotFound = errors.New("gpio pin not found")

// Init loads the host drivers. It must run before any bus is opened.
func Init() error {
	state, err := host.Init()
	if err != nil {
		return fmt.Errorf("failed to initialize host drivers: %w", err)
	}
	for _, d := range state.Loaded {
		log.Debug().Str("driver", d.String()).Msg("host driver loaded")
	}
	for _, f := range state.Failed {
		log.Debug().Err(f.Err).Str("driver", f.D.String()).Msg("host driver failed")
	}
	return nil
}

// I2C adapts a periph I2C bus to drivers.I2C.
type I2C struct {
	bus    i2c.Bus
	closer io.Closer
}

var _ drivers.I2C = (*I2C)(nil)

// OpenI2C opens the named I2C bus; an empty name picks the first one.
func OpenI2C(name string) (*I2C, error) {
	bus, err := i2creg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", name, err)
	}
	log.Info().Str("bus", bus.String()).Msg("opened i2c bus")
	return &I2C{bus: bus, closer: bus}, nil
}

// NewI2C wraps an already open bus.
func NewI2C(bus i2c.Bus) *I2C {
	return &I2C{bus: bus}
}

func (b *I2C) Tx(addr uint16, w, r []byte) error {
	if err := b.bus.Tx(addr, w, r); err != nil {
		return fmt.Errorf("i2c tx at %#02x: %w", addr, err)
	}
	return nil
}

func (b *I2C) ReadRegister(addr, reg uint8, buf []byte) error {
	return b.Tx(uint16(addr), []byte{reg}, buf)
}

func (b *I2C) WriteRegister(addr, reg uint8, buf []byte) error {
	w := make([]byte, 0, len(buf)+1)
	w = append(w, reg)
	w = append(w, buf...)
	return b.Tx(uint16(addr), w, nil)
}

func (b *I2C) Close() error {
	if b.closer == nil {
		return nil
	}
	return b.closer.Close()
}

type txConn interface {
	Tx(w, r []byte) error
}

// SPI adapts a periph SPI connection to drivers.SPI.
type SPI struct {
	conn   txConn
	closer io.Closer
}

var _ drivers.SPI = (*SPI)(nil)

// OpenSPI opens the named SPI port in mode 0 with 8-bit words at hz.
func OpenSPI(name string, hz int64) (*SPI, error) {
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("failed to open spi port %q: %w", name, err)
	}
	c, err := port.Connect(physic.Frequency(hz)*physic.Hertz, spi.Mode0, 8)
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to connect spi port %q: %w", name, err)
	}
	log.Info().Str("port", port.String()).Int64("hz", hz).Msg("opened spi port")
	return &SPI{conn: c, closer: port}, nil
}

func (s *SPI) Tx(w, r []byte) error {
	if err := s.conn.Tx(w, r); err != nil {
		return fmt.Errorf("spi tx: %w", err)
	}
	return nil
}

func (s *SPI) Transfer(b byte) (byte, error) {
	r := make([]byte, 1)
	if err := s.Tx([]byte{b}, r); err != nil {
		return 0, err
	}
	return r[0], nil
}

func (s *SPI) Close() error {
	if s.closer == nil {
		return nil
	}
	return s.closer.Close()
}

// Pin adapts a GPIO line to display.OutputPin and input.Pin.
type Pin struct {
	pin gpio.PinIO
}

// OutputPin looks up name and drives it low.
func OutputPin(name string) (*Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to set %s as output: %w", name, err)
	}
	return &Pin{pin: p}, nil
}

// InputPin looks up name and configures it as a pulled-up input, so an
// idle button reads high.
func InputPin(name string) (*Pin, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}
	if err := p.In(gpio.PullUp, gpio.NoEdge); err != nil {
		return nil, fmt.Errorf("failed to set %s as input: %w", name, err)
	}
	return &Pin{pin: p}, nil
}

// NewPin wraps an already configured pin.
func NewPin(p gpio.PinIO) *Pin {
	return &Pin{pin: p}
}

func (p *Pin) Set(high bool) error {
	return p.pin.Out(gpio.Level(high))
}

func (p *Pin) Read() (bool, error) {
	return p.pin.Read() == gpio.High, nil
}
