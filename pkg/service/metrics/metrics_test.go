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

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pomodesk/pomodesk/pkg/pomodoro"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveTick(t *testing.T) {
	t.Parallel()
	m := New()

	m.ObserveTick(pomodoro.Snapshot{TimeLeft: 1499, Completed: 2, Running: true})
	m.ObserveTick(pomodoro.Snapshot{TimeLeft: 1498, Completed: 2, Running: true})

	assert.InDelta(t, 2, testutil.ToFloat64(m.ticks), 0)
	assert.InDelta(t, 1498, testutil.ToFloat64(m.timeLeft), 0)
	assert.InDelta(t, 2, testutil.ToFloat64(m.completed), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.running), 0)

	m.ObserveSnapshot(pomodoro.Snapshot{TimeLeft: 1498})
	assert.InDelta(t, 0, testutil.ToFloat64(m.running), 0)
}

func TestObserveTransition(t *testing.T) {
	t.Parallel()
	m := New()

	m.ObserveTransition(pomodoro.Transition{From: pomodoro.Work, To: pomodoro.Break, Completed: 1})
	m.ObserveTransition(pomodoro.Transition{From: pomodoro.Break, To: pomodoro.Work, Completed: 1})
	m.ObserveTransition(pomodoro.Transition{From: pomodoro.Work, To: pomodoro.Break, Completed: 2})

	expected := `
# HELP pomodesk_transitions_total Finished intervals by the state entered next.
# TYPE pomodesk_transitions_total counter
pomodesk_transitions_total{to="break"} 2
pomodesk_transitions_total{to="work"} 1
`
	require.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected), "pomodesk_transitions_total"))
	assert.InDelta(t, 2, testutil.ToFloat64(m.completed), 0)
}

func TestFailureCounters(t *testing.T) {
	t.Parallel()
	m := New()

	m.ClockFailure()
	m.ClockFailure()
	m.DisplayFailure()
	m.ClockSync("ok")
	m.ClockSync("skipped")
	m.Alert("dropped")

	assert.InDelta(t, 2, testutil.ToFloat64(m.clockFailures), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.displayFailures), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.clockSyncs.WithLabelValues("ok")), 0)
	assert.InDelta(t, 1, testutil.ToFloat64(m.alerts.WithLabelValues("dropped")), 0)
}

func TestHandler(t *testing.T) {
	t.Parallel()
	m := New()
	m.ObserveTick(pomodoro.Snapshot{TimeLeft: 60, Running: true})

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", http.NoBody))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "pomodesk_ticks_total 1")
	assert.Contains(t, body, "pomodesk_time_left_seconds 60")
	assert.Contains(t, body, "pomodesk_host_uptime_seconds")
	assert.Contains(t, body, "go_goroutines")
}
