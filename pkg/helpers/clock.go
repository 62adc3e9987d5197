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

package helpers

import "time"

// MinReliableYear is the earliest year a clock reading is trusted. A host
// or RTC reporting anything earlier has lost its time.
const MinReliableYear = 2024

// Clock sources recorded when the RTC is written.
const (
	// ClockSourceSystem means the host clock was copied into the RTC.
	ClockSourceSystem = "system"
	// ClockSourceManual means a client set the time over the API.
	ClockSourceManual = "manual"
)

// IsClockReliable reports whether t looks like a real, set clock.
func IsClockReliable(t time.Time) bool {
	return t.Year() >= MinReliableYear
}
