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

// Package metrics exposes the desk's counters in Prometheus format.
package metrics

import (
	"net/http"

	"github.com/mackerelio/go-osstat/uptime"
	"github.com/pomodesk/pomodesk/pkg/pomodoro"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "pomodesk"

type Metrics struct {
	registry        *prometheus.Registry
	ticks           prometheus.Counter
	transitions     *prometheus.CounterVec
	completed       prometheus.Gauge
	timeLeft        prometheus.Gauge
	running         prometheus.Gauge
	clockFailures   prometheus.Counter
	displayFailures prometheus.Counter
	clockSyncs      *prometheus.CounterVec
	alerts          *prometheus.CounterVec
}

// New registers every collector on a private registry, plus the Go runtime
// and process collectors and the host uptime.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Driver ticks processed.",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transitions_total",
			Help:      "Finished intervals by the state entered next.",
		}, []string{"to"}),
		completed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "completed_sessions",
			Help:      "Work intervals completed since power-up.",
		}),
		timeLeft: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "time_left_seconds",
			Help:      "Seconds left in the current interval.",
		}),
		running: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "running",
			Help:      "1 while the countdown is running.",
		}),
		clockFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clock_read_failures_total",
			Help:      "Failed RTC reads.",
		}),
		displayFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "display_failures_total",
			Help:      "Frames that failed to render.",
		}),
		clockSyncs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clock_syncs_total",
			Help:      "RTC sync attempts by result.",
		}, []string{"result"}),
		alerts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "alerts_total",
			Help:      "End-of-interval alerts by outcome.",
		}, []string{"outcome"}),
	}

	m.registry.MustRegister(
		m.ticks, m.transitions, m.completed, m.timeLeft, m.running,
		m.clockFailures, m.displayFailures, m.clockSyncs, m.alerts,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "host_uptime_seconds",
			Help:      "Host uptime as reported by the OS.",
		}, hostUptime),
	)
	return m
}

func hostUptime() float64 {
	d, err := uptime.Get()
	if err != nil {
		return 0
	}
	return d.Seconds()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry for /metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveTick records a processed tick and the resulting session.
//
//nolint:gocritic // snapshot passed by value
func (m *Metrics) ObserveTick(s pomodoro.Snapshot) {
	m.ticks.Inc()
	m.ObserveSnapshot(s)
}

//nolint:gocritic // snapshot passed by value
func (m *Metrics) ObserveSnapshot(s pomodoro.Snapshot) {
	m.timeLeft.Set(float64(s.TimeLeft))
	m.completed.Set(float64(s.Completed))
	if s.Running {
		m.running.Set(1)
	} else {
		m.running.Set(0)
	}
}

func (m *Metrics) ObserveTransition(t pomodoro.Transition) {
	m.transitions.WithLabelValues(t.To.String()).Inc()
	m.completed.Set(float64(t.Completed))
}

func (m *Metrics) ClockFailure() {
	m.clockFailures.Inc()
}

func (m *Metrics) DisplayFailure() {
	m.displayFailures.Inc()
}

// ClockSync records a sync attempt: "ok", "failed" or "skipped".
func (m *Metrics) ClockSync(result string) {
	m.clockSyncs.WithLabelValues(result).Inc()
}

// Alert records an alert: "played" or "dropped".
func (m *Metrics) Alert(outcome string) {
	m.alerts.WithLabelValues(outcome).Inc()
}
