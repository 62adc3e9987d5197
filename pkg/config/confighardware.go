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

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	ClockSourceDS3231 = "ds3231"
	ClockSourceSystem = "system"

	DefaultSPIHz            = 8_000_000
	DefaultDCPin            = "GPIO25"
	DefaultResetPin         = "GPIO24"
	DefaultRTCAddress       = 0x68
	DefaultSyncInterval     = time.Hour
	DefaultClockWaitTimeout = 30 * time.Second
	DefaultAlertLength      = 5 * time.Second
	DefaultAlertFrequency   = 2500
)

type Display struct {
	Enabled        *bool  `toml:"enabled,omitempty"`
	AlternateEvery *int   `toml:"alternate_every,omitempty" validate:"omitempty,min=1,max=60"`
	SPIHz          *int64 `toml:"spi_hz,omitempty" validate:"omitempty,min=100000,max=10000000"`
	SPIPort        string `toml:"spi_port,omitempty"`
	DCPin          string `toml:"dc_pin,omitempty"`
	ResetPin       string `toml:"reset_pin,omitempty"`
}

type Clock struct {
	Address      *int   `toml:"address,omitempty" validate:"omitempty,min=8,max=119"`
	Source       string `toml:"source,omitempty" validate:"omitempty,oneof=ds3231 system"`
	I2CBus       string `toml:"i2c_bus,omitempty"`
	Timezone     string `toml:"timezone,omitempty"`
	SyncInterval string `toml:"sync_interval,omitempty"`
	WaitTimeout  string `toml:"wait_timeout,omitempty"`
}

type InputButton struct {
	Name    string `toml:"name,omitempty"`
	Pin     string `toml:"pin" validate:"required"`
	Command string `toml:"command" validate:"required,oneof=startStop reset cycleLightMode"`
}

type Input struct {
	PollMs     *int          `toml:"poll_ms,omitempty" validate:"omitempty,min=10,max=1000"`
	DebounceMs *int          `toml:"debounce_ms,omitempty" validate:"omitempty,min=0,max=500"`
	Buttons    []InputButton `toml:"buttons,omitempty" validate:"dive"`
}

type Alert struct {
	Enabled   *bool  `toml:"enabled,omitempty"`
	Frequency *int   `toml:"frequency,omitempty" validate:"omitempty,min=100,max=20000"`
	BuzzerPin string `toml:"buzzer_pin,omitempty"`
	Sound     string `toml:"sound,omitempty"`
	Length    string `toml:"length,omitempty"`
}

type Light struct {
	Mode string `toml:"mode,omitempty" validate:"omitempty,oneof=off white yellow blue"`
}

// DefaultButtons are used when no buttons are configured.
var DefaultButtons = []InputButton{
	{Name: "start", Pin: "GPIO17", Command: "startStop"},
	{Name: "reset", Pin: "GPIO27", Command: "reset"},
	{Name: "touch", Pin: "GPIO22", Command: "cycleLightMode"},
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}

func stringOr(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func durationOr(name, s string, def time.Duration) time.Duration {
	if s == "" {
		return def
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		log.Warn().Str("key", name).Str("value", s).Msg("invalid duration in config, using default")
		return def
	}
	return d
}

func (c *Instance) DisplayEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return boolOr(c.vals.Display.Enabled, true)
}

func (c *Instance) DisplayAlternateEvery() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return intOr(c.vals.Display.AlternateEvery, 3)
}

func (c *Instance) DisplaySPIPort() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Display.SPIPort
}

func (c *Instance) DisplaySPIHz() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Display.SPIHz == nil {
		return DefaultSPIHz
	}
	return *c.vals.Display.SPIHz
}

// DisplayPins returns the data/command and reset GPIO names.
func (c *Instance) DisplayPins() (dc, reset string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return stringOr(c.vals.Display.DCPin, DefaultDCPin),
		stringOr(c.vals.Display.ResetPin, DefaultResetPin)
}

func (c *Instance) ClockSource() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return stringOr(c.vals.Clock.Source, ClockSourceDS3231)
}

func (c *Instance) ClockI2CBus() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Clock.I2CBus
}

func (c *Instance) ClockAddress() uint16 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return uint16(intOr(c.vals.Clock.Address, DefaultRTCAddress)) //nolint:gosec // validated 8-119
}

// ClockLocation is the zone the RTC keeps its wall time in. Empty means
// the host's local zone.
func (c *Instance) ClockLocation() (*time.Location, error) {
	c.mu.RLock()
	tz := c.vals.Clock.Timezone
	c.mu.RUnlock()
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone %q: %w", tz, err)
	}
	return loc, nil
}

// ClockSyncInterval is how often the host clock is copied into the RTC.
// Zero disables syncing.
func (c *Instance) ClockSyncInterval() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return durationOr("clock.sync_interval", c.vals.Clock.SyncInterval, DefaultSyncInterval)
}

func (c *Instance) ClockWaitTimeout() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return durationOr("clock.wait_timeout", c.vals.Clock.WaitTimeout, DefaultClockWaitTimeout)
}

func (c *Instance) InputButtons() []InputButton {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.vals.Input.Buttons) == 0 {
		return DefaultButtons
	}
	return c.vals.Input.Buttons
}

// InputTiming returns the poll interval and debounce window.
func (c *Instance) InputTiming() (poll, debounce time.Duration) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return time.Duration(intOr(c.vals.Input.PollMs, 100)) * time.Millisecond,
		time.Duration(intOr(c.vals.Input.DebounceMs, 50)) * time.Millisecond
}

func (c *Instance) AlertEnabled() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return boolOr(c.vals.Alert.Enabled, true)
}

func (c *Instance) AlertFrequency() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return intOr(c.vals.Alert.Frequency, DefaultAlertFrequency)
}

func (c *Instance) AlertLength() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return durationOr("alert.length", c.vals.Alert.Length, DefaultAlertLength)
}

// AlertBuzzerPin is the PWM pin of a piezo buzzer. Empty plays alerts on
// the host sound device instead.
func (c *Instance) AlertBuzzerPin() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Alert.BuzzerPin
}

// AlertSound is a custom sound file replacing the generated tone.
func (c *Instance) AlertSound() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Alert.Sound
}

func (c *Instance) LightMode() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return stringOr(c.vals.Light.Mode, "off")
}
