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

package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/audio"
	"github.com/pomodesk/pomodesk/pkg/config"
	"github.com/pomodesk/pomodesk/pkg/display"
	"github.com/pomodesk/pomodesk/pkg/hw"
	"github.com/pomodesk/pomodesk/pkg/input"
	"github.com/pomodesk/pomodesk/pkg/light"
	"github.com/pomodesk/pomodesk/pkg/rtc"
	"github.com/pomodesk/pomodesk/pkg/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// headlessHardware runs on the host clock with the emulated panel only.
func headlessHardware(cfg *config.Instance, clock clockwork.Clock) (service.Hardware, func(), error) {
	loc, err := cfg.ClockLocation()
	if err != nil {
		return service.Hardware{}, nil, err
	}
	log.Info().Msg("running headless, no hardware will be opened")
	return service.Hardware{
		RTC:    rtc.NewSystemDevice(clock, loc),
		Player: alertPlayer(cfg, nil),
		Strip:  light.LogStrip{},
	}, func() {}, nil
}

// openHardware opens the buses and pins named in the config. Anything
// opened is closed again if a later step fails.
func openHardware(cfg *config.Instance, clock clockwork.Clock) (service.Hardware, func(), error) {
	var closers []io.Closer
	closeAll := func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				log.Debug().Err(err).Msg("closing hardware")
			}
		}
	}
	fail := func(err error) (service.Hardware, func(), error) {
		closeAll()
		return service.Hardware{}, nil, err
	}

	if err := hw.Init(); err != nil {
		return fail(err)
	}

	var hardware service.Hardware

	switch cfg.ClockSource() {
	case config.ClockSourceSystem:
		loc, err := cfg.ClockLocation()
		if err != nil {
			return fail(err)
		}
		hardware.RTC = rtc.NewSystemDevice(clock, loc)
	default:
		bus, err := hw.OpenI2C(cfg.ClockI2CBus())
		if err != nil {
			return fail(err)
		}
		closers = append(closers, bus)
		hardware.RTC = rtc.NewDS3231(bus, cfg.ClockAddress(), rtc.DefaultTimeout)
	}

	if cfg.DisplayEnabled() {
		bus, err := openDisplay(cfg, clock, &closers)
		if err != nil {
			return fail(err)
		}
		hardware.Display = bus
	}

	for _, b := range cfg.InputButtons() {
		cmd, err := input.ParseCommand(b.Command)
		if err != nil {
			return fail(err)
		}
		pin, err := hw.InputPin(b.Pin)
		if err != nil {
			return fail(err)
		}
		name := b.Name
		if name == "" {
			name = b.Pin
		}
		hardware.Buttons = append(hardware.Buttons, input.Button{Pin: pin, Name: name, Command: cmd})
	}

	var buzzer *hw.Buzzer
	if pin := cfg.AlertBuzzerPin(); pin != "" {
		b, err := hw.OpenBuzzer(pin, clock)
		if err != nil {
			return fail(err)
		}
		buzzer = b
	}
	hardware.Player = alertPlayer(cfg, buzzer)
	hardware.Strip = light.LogStrip{}

	return hardware, closeAll, nil
}

func openDisplay(cfg *config.Instance, clock clockwork.Clock, closers *[]io.Closer) (*display.SPIBus, error) {
	port, err := hw.OpenSPI(cfg.DisplaySPIPort(), cfg.DisplaySPIHz())
	if err != nil {
		return nil, err
	}
	*closers = append(*closers, port)

	dcName, rstName := cfg.DisplayPins()
	dc, err := hw.OutputPin(dcName)
	if err != nil {
		return nil, fmt.Errorf("display dc pin: %w", err)
	}
	var rst display.OutputPin
	if rstName != "" {
		p, err := hw.OutputPin(rstName)
		if err != nil {
			return nil, fmt.Errorf("display reset pin: %w", err)
		}
		rst = p
	}

	bus := display.NewSPIBus(port, dc, rst, clock)
	if err := bus.Reset(); err != nil {
		return nil, errors.Join(display.ErrIO, err)
	}
	return bus, nil
}

// alertPlayer prefers the buzzer, then the host sound device.
func alertPlayer(cfg *config.Instance, buzzer *hw.Buzzer) audio.Player {
	switch {
	case !cfg.AlertEnabled():
		return audio.NopPlayer{}
	case buzzer != nil:
		return buzzer
	default:
		return audio.NewMalgoPlayer(afero.NewOsFs(), cfg.AlertSound())
	}
}
