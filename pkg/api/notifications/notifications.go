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

package notifications

import (
	"encoding/json"

	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/rs/zerolog/log"
)

// sendNotification marshals payload and sends without blocking. A nil
// channel or a full buffer drops the notification.
func sendNotification(ns chan<- models.Notification, method string, payload any) {
	if ns == nil {
		return
	}

	var params json.RawMessage
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			log.Error().Err(err).Str("method", method).Msg("failed to marshal notification payload")
			return
		}
		params = data
	}

	select {
	case ns <- models.Notification{Method: method, Params: params}:
	default:
		log.Warn().Str("method", method).Msg("notification channel full, dropping notification")
	}
}

func PomodoroStarted(ns chan<- models.Notification, payload models.PomodoroStatus) {
	sendNotification(ns, models.NotificationPomodoroStarted, payload)
}

func PomodoroPaused(ns chan<- models.Notification, payload models.PomodoroStatus) {
	sendNotification(ns, models.NotificationPomodoroPaused, payload)
}

func PomodoroReset(ns chan<- models.Notification, payload models.PomodoroStatus) {
	sendNotification(ns, models.NotificationPomodoroReset, payload)
}

func PomodoroConfigured(ns chan<- models.Notification, payload models.PomodoroDurations) {
	sendNotification(ns, models.NotificationPomodoroConfigured, payload)
}

func PomodoroTransition(ns chan<- models.Notification, payload models.PomodoroTransition) {
	sendNotification(ns, models.NotificationPomodoroTransition, payload)
}

func LightChanged(ns chan<- models.Notification, payload models.LightMode) {
	sendNotification(ns, models.NotificationLightChanged, payload)
}

func ClockSynced(ns chan<- models.Notification, payload models.ClockSynced) {
	sendNotification(ns, models.NotificationClockSynced, payload)
}
