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

import "encoding/json"

const (
	NotificationPomodoroStarted    = "pomodoro.started"
	NotificationPomodoroPaused     = "pomodoro.paused"
	NotificationPomodoroReset      = "pomodoro.reset"
	NotificationPomodoroConfigured = "pomodoro.configured"
	NotificationPomodoroTransition = "pomodoro.transition"
	NotificationLightChanged       = "light.changed"
	NotificationClockSynced        = "clock.synced"
)

type Notification struct {
	Method string
	Params json.RawMessage
}

// PomodoroStatus is the session payload shared by notifications and the
// status API.
type PomodoroStatus struct {
	State     string `json:"state"`
	Timer     string `json:"timer"`
	TimeLeft  int    `json:"timeLeft"`
	Completed uint   `json:"completed"`
	Running   bool   `json:"running"`
}

type PomodoroTransition struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Completed uint   `json:"completed"`
	Running   bool   `json:"running"`
}

// PomodoroDurations holds durations in minutes.
type PomodoroDurations struct {
	Work      int `json:"work"`
	Break     int `json:"break"`
	LongBreak int `json:"longBreak"`
}

type LightMode struct {
	Mode string `json:"mode"`
}

type ClockSynced struct {
	Time   string `json:"time"`
	Date   string `json:"date"`
	Source string `json:"source"`
}
