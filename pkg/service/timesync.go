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

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/pomodesk/pomodesk/pkg/api/notifications"
	"github.com/pomodesk/pomodesk/pkg/helpers"
	"github.com/pomodesk/pomodesk/pkg/rtc"
	"github.com/pomodesk/pomodesk/pkg/service/metrics"
	"github.com/rs/zerolog/log"
)

// ErrClockUnreliable is returned when the host clock has not been set.
var ErrClockUnreliable = errors.New("host clock not synchronized")

const syncWriteTimeout = 2 * time.Second

// TimeSync copies the host clock into the RTC on a schedule, so the desk
// keeps correct time across power loss once the host has network time.
type TimeSync struct {
	clock         clockwork.Clock
	device        rtc.Device
	cache         *rtc.Cache
	loc           *time.Location
	metrics       *metrics.Metrics
	notifications chan<- models.Notification
	interval      time.Duration
}

func NewTimeSync(
	clock clockwork.Clock,
	device rtc.Device,
	cache *rtc.Cache,
	loc *time.Location,
	m *metrics.Metrics,
	ns chan<- models.Notification,
	interval time.Duration,
) *TimeSync {
	return &TimeSync{
		clock:         clock,
		device:        device,
		cache:         cache,
		loc:           loc,
		metrics:       m,
		notifications: ns,
		interval:      interval,
	}
}

// Sync writes the host time, converted to the RTC's zone, into the RTC.
func (ts *TimeSync) Sync(ctx context.Context) error {
	now := ts.clock.Now()
	if !helpers.IsClockReliable(now) {
		ts.metrics.ClockSync("skipped")
		log.Debug().Time("now", now).Msg("host clock not reliable, skipping rtc sync")
		return ErrClockUnreliable
	}

	wc := rtc.FromTime(now.In(ts.loc))
	ctx, cancel := context.WithTimeout(ctx, syncWriteTimeout)
	defer cancel()
	if err := ts.device.SetTime(ctx, wc); err != nil {
		ts.metrics.ClockSync("failed")
		return fmt.Errorf("sync rtc: %w", err)
	}

	ts.metrics.ClockSync("ok")
	ts.cache.Store(wc, now)
	log.Info().Str("time", wc.ClockString()).Str("date", wc.DateString()).Msg("rtc synced from host clock")
	notifications.ClockSynced(ts.notifications, models.ClockSynced{
		Time:   wc.ClockString(),
		Date:   wc.DateString(),
		Source: helpers.ClockSourceSystem,
	})
	return nil
}

// Run schedules Sync every interval, starting immediately, until ctx is
// done.
func (ts *TimeSync) Run(ctx context.Context) error {
	s, err := gocron.NewScheduler(
		gocron.WithClock(ts.clock),
		gocron.WithLocation(ts.loc),
	)
	if err != nil {
		return fmt.Errorf("create sync scheduler: %w", err)
	}

	_, err = s.NewJob(
		gocron.DurationJob(ts.interval),
		gocron.NewTask(func() {
			if err := ts.Sync(ctx); err != nil && !errors.Is(err, ErrClockUnreliable) {
				log.Warn().Err(err).Msg("rtc sync failed")
			}
		}),
		gocron.WithName("rtc-sync"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("schedule rtc sync: %w", err)
	}

	s.Start()
	log.Info().Dur("interval", ts.interval).Msg("rtc sync scheduled")

	<-ctx.Done()
	if err := s.Shutdown(); err != nil {
		return fmt.Errorf("stop sync scheduler: %w", err)
	}
	return nil
}
