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

// Package rtc implements the DS3231 register codec and device adapter.
//
// The DS3231 keeps its calendar in seven packed BCD registers starting at
// 0x00. Decode and Encode are pure; DS3231 performs the bus transactions.
package rtc

import (
	"errors"
	"fmt"
	"time"
)

// RegisterCount is the number of timekeeping registers read and written.
const RegisterCount = 7

const baseYear = 2000

var (
	// ErrInvalidArgument is matched by every RangeError.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrIO is returned when a bus transaction fails or times out.
	ErrIO = errors.New("rtc bus error")
)

// WallClock is a decoded calendar time as stored by the RTC.
type WallClock struct {
	Seconds int `json:"seconds"`
	Minutes int `json:"minutes"`
	Hours   int `json:"hours"`
	Weekday int `json:"weekday"`
	Day     int `json:"day"`
	Month   int `json:"month"`
	Year    int `json:"year"`
}

// RangeError reports a WallClock field outside its allowed range.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s %d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

func (*RangeError) Is(target error) bool {
	return target == ErrInvalidArgument
}

type fieldRange struct {
	name     string
	min, max int
}

var (
	secondsRange = fieldRange{"seconds", 0, 59}
	minutesRange = fieldRange{"minutes", 0, 59}
	hoursRange   = fieldRange{"hours", 0, 23}
	weekdayRange = fieldRange{"weekday", 1, 7}
	dayRange     = fieldRange{"day", 1, 31}
	monthRange   = fieldRange{"month", 1, 12}
	yearRange    = fieldRange{"year", 2000, 2099}
)

func (r fieldRange) check(v int) error {
	if v < r.min || v > r.max {
		return &RangeError{Field: r.name, Value: v, Min: r.min, Max: r.max}
	}
	return nil
}

// BCDToDec converts one packed BCD byte to its decimal value.
func BCDToDec(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// DecToBCD packs a decimal value in 0-99 into one BCD byte.
func DecToBCD(d int) byte {
	return byte((d/10)<<4 | (d % 10))
}

// Decode converts raw timekeeping registers into a WallClock. Control and
// century bits are masked off before conversion.
func Decode(regs [RegisterCount]byte) WallClock {
	return WallClock{
		Seconds: BCDToDec(regs[0] & 0x7F),
		Minutes: BCDToDec(regs[1] & 0x7F),
		Hours:   BCDToDec(regs[2] & 0x3F),
		Weekday: BCDToDec(regs[3] & 0x07),
		Day:     BCDToDec(regs[4] & 0x3F),
		Month:   BCDToDec(regs[5] & 0x1F),
		Year:    BCDToDec(regs[6]) + baseYear,
	}
}

// Validate returns a *RangeError for the first field outside its range.
func (w WallClock) Validate() error {
	checks := []struct {
		r fieldRange
		v int
	}{
		{secondsRange, w.Seconds},
		{minutesRange, w.Minutes},
		{hoursRange, w.Hours},
		{weekdayRange, w.Weekday},
		{dayRange, w.Day},
		{monthRange, w.Month},
		{yearRange, w.Year},
	}
	for _, c := range checks {
		if err := c.r.check(c.v); err != nil {
			return err
		}
	}
	return nil
}

// Encode converts a WallClock into timekeeping registers. It never clamps:
// any out-of-range field fails the whole encode.
func Encode(w WallClock) ([RegisterCount]byte, error) {
	var regs [RegisterCount]byte
	if err := w.Validate(); err != nil {
		return regs, err
	}
	regs[0] = DecToBCD(w.Seconds)
	regs[1] = DecToBCD(w.Minutes)
	regs[2] = DecToBCD(w.Hours)
	regs[3] = DecToBCD(w.Weekday)
	regs[4] = DecToBCD(w.Day)
	regs[5] = DecToBCD(w.Month)
	regs[6] = DecToBCD(w.Year - baseYear)
	return regs, nil
}

// FromTime builds a WallClock from t in its own location. Weekday is 1
// (Sunday) through 7 (Saturday).
func FromTime(t time.Time) WallClock {
	return WallClock{
		Seconds: t.Second(),
		Minutes: t.Minute(),
		Hours:   t.Hour(),
		Weekday: int(t.Weekday()) + 1,
		Day:     t.Day(),
		Month:   int(t.Month()),
		Year:    t.Year(),
	}
}

// Time returns w as a time.Time in loc. Weekday is ignored.
func (w WallClock) Time(loc *time.Location) time.Time {
	return time.Date(w.Year, time.Month(w.Month), w.Day, w.Hours, w.Minutes, w.Seconds, 0, loc)
}

// ClockString formats the time of day as HH:MM:SS.
func (w WallClock) ClockString() string {
	return fmt.Sprintf("%02d:%02d:%02d", w.Hours, w.Minutes, w.Seconds)
}

// DateString formats the date as DD/MM/YYYY.
func (w WallClock) DateString() string {
	return fmt.Sprintf("%02d/%02d/%04d", w.Day, w.Month, w.Year)
}
