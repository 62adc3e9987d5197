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

package models

// SetPomodoroParams carries durations in minutes.
type SetPomodoroParams struct {
	Work      *int `json:"work" validate:"required,min=1,max=120"`
	Break     *int `json:"break" validate:"required,min=1,max=60"`
	LongBreak *int `json:"longBreak" validate:"required,min=1,max=60"`
}

// SetTimeParams is a calendar time. Pointers distinguish a missing field
// from a zero value.
type SetTimeParams struct {
	Hours   *int `json:"h" validate:"required,min=0,max=23"`
	Minutes *int `json:"m" validate:"required,min=0,max=59"`
	Seconds *int `json:"s" validate:"required,min=0,max=59"`
	Day     *int `json:"d" validate:"required,min=1,max=31"`
	Month   *int `json:"mo" validate:"required,min=1,max=12"`
	Year    *int `json:"y" validate:"required,min=2000,max=2099"`
}
