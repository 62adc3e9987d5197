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

package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/pomodesk/pomodesk/pkg/api/notifications"
	"github.com/pomodesk/pomodesk/pkg/api/validation"
	"github.com/pomodesk/pomodesk/pkg/helpers"
	"github.com/pomodesk/pomodesk/pkg/pomodoro"
	"github.com/pomodesk/pomodesk/pkg/rtc"
	"github.com/rs/zerolog/log"
)

const (
	ErrCodeMalformedInput  = "MalformedInput"
	ErrCodeMissingParams   = "MissingParams"
	ErrCodeInvalidArgument = "InvalidArgument"
	ErrCodeClockFailure    = "ClockFailure"
	ErrCodeInternal        = "Internal"

	unknownTime = "--:--:--"
	unknownDate = "--/--/----"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("error writing response")
	}
}

func writeError(w http.ResponseWriter, status int, code, msg string, fields map[string]string) {
	writeJSON(w, status, models.ErrorResponse{
		Status: code,
		Error:  msg,
		Fields: fields,
	})
}

// writeDecodeError maps a ValidateAndUnmarshal failure to a 400 response.
func writeDecodeError(w http.ResponseWriter, err error) {
	var verr *validation.Error
	switch {
	case errors.As(err, &verr):
		writeError(w, http.StatusBadRequest, ErrCodeInvalidArgument, verr.Error(), verr.FieldMessages())
	case errors.Is(err, validation.ErrMissingParams):
		writeError(w, http.StatusBadRequest, ErrCodeMissingParams, err.Error(), nil)
	default:
		writeError(w, http.StatusBadRequest, ErrCodeMalformedInput, err.Error(), nil)
	}
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

func handleIndex(w http.ResponseWriter, _ *http.Request) {
	page, err := static.ReadFile("static/index.html")
	if err != nil {
		log.Error().Err(err).Msg("error opening status page")
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(page)
}

func (s *Server) handleData(w http.ResponseWriter, _ *http.Request) {
	reading := s.env.Cache.Load()
	snap := s.env.Engine.Snapshot()

	resp := models.DataResponse{
		Time:      unknownTime,
		Date:      unknownDate,
		Timer:     snap.TimerString(),
		State:     snap.State.Label(),
		Completed: snap.Completed,
		Running:   snap.Running,
		ClockOK:   reading.OK,
	}
	if reading.OK {
		resp.Time = reading.Clock.ClockString()
		resp.Date = reading.Clock.DateString()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleStart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pomodoro.Status(s.env.Engine.StartStop()))
}

func (s *Server) handleReset(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pomodoro.Status(s.env.Engine.Reset()))
}

func (s *Server) handleLight(w http.ResponseWriter, _ *http.Request) {
	mode, err := s.env.Light.Cycle()
	if err != nil {
		log.Warn().Err(err).Str("mode", mode.String()).Msg("light output failed")
	}
	writeJSON(w, http.StatusOK, models.LightMode{Mode: mode.String()})
}

func (s *Server) handleGetPomodoro(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, pomodoro.Durations(s.env.Engine.Config()))
}

func (s *Server) handleSetPomodoro(w http.ResponseWriter, r *http.Request) {
	var params models.SetPomodoroParams
	if err := validation.ValidateAndUnmarshal(r.Body, &params); err != nil {
		log.Debug().Err(err).Msg("rejected pomodoro config")
		writeDecodeError(w, err)
		return
	}

	work, brk, longBreak := *params.Work, *params.Break, *params.LongBreak
	if _, err := s.env.Engine.Configure(pomodoro.FromMinutes(work, brk, longBreak)); err != nil {
		writeError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error(), nil)
		return
	}

	s.env.Config.SetPomodoroMinutes(work, brk, longBreak)
	if err := s.env.Config.Save(); err != nil {
		log.Error().Err(err).Msg("error saving pomodoro config")
		writeError(w, http.StatusInternalServerError, ErrCodeInternal, "durations applied but not saved", nil)
		return
	}

	writeJSON(w, http.StatusOK, models.PomodoroDurations{Work: work, Break: brk, LongBreak: longBreak})
}

func (s *Server) handleSetTime(w http.ResponseWriter, r *http.Request) {
	var params models.SetTimeParams
	if err := validation.ValidateAndUnmarshal(r.Body, &params); err != nil {
		log.Debug().Err(err).Msg("rejected time update")
		writeDecodeError(w, err)
		return
	}

	date := time.Date(*params.Year, time.Month(*params.Month), *params.Day, 0, 0, 0, 0, time.UTC)
	wc := rtc.WallClock{
		Seconds: *params.Seconds,
		Minutes: *params.Minutes,
		Hours:   *params.Hours,
		Weekday: int(date.Weekday()) + 1,
		Day:     *params.Day,
		Month:   *params.Month,
		Year:    *params.Year,
	}

	ctx, cancel := context.WithTimeout(r.Context(), rtcWriteTimeout)
	defer cancel()
	if err := s.env.Clock.SetTime(ctx, wc); err != nil {
		if errors.Is(err, rtc.ErrInvalidArgument) {
			writeError(w, http.StatusBadRequest, ErrCodeInvalidArgument, err.Error(), nil)
			return
		}
		log.Error().Err(err).Msg("error writing clock")
		writeError(w, http.StatusServiceUnavailable, ErrCodeClockFailure, "clock write failed", nil)
		return
	}

	s.env.Cache.Store(wc, s.env.WallClock.Now())
	log.Info().Str("time", wc.ClockString()).Str("date", wc.DateString()).Msg("clock set from api")
	notifications.ClockSynced(s.env.Notifications, models.ClockSynced{
		Time:   wc.ClockString(),
		Date:   wc.DateString(),
		Source: helpers.ClockSourceManual,
	})

	writeJSON(w, http.StatusOK, models.StatusResponse{Status: "ok"})
}

func (s *Server) handleDisplay(w http.ResponseWriter, _ *http.Request) {
	if s.env.Emulator == nil {
		http.Error(w, "display mirror not available", http.StatusNotFound)
		return
	}
	frame := s.env.Emulator.Frame()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte(frame.String()))
}
