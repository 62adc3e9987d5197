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
	"strconv"

	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/api"
	"github.com/pomodesk/pomodesk/pkg/api/models"
	"github.com/pomodesk/pomodesk/pkg/audio"
	"github.com/pomodesk/pomodesk/pkg/config"
	"github.com/pomodesk/pomodesk/pkg/display"
	"github.com/pomodesk/pomodesk/pkg/helpers"
	"github.com/pomodesk/pomodesk/pkg/input"
	"github.com/pomodesk/pomodesk/pkg/light"
	"github.com/pomodesk/pomodesk/pkg/pomodoro"
	"github.com/pomodesk/pomodesk/pkg/rtc"
	"github.com/pomodesk/pomodesk/pkg/service/broker"
	"github.com/pomodesk/pomodesk/pkg/service/discovery"
	"github.com/pomodesk/pomodesk/pkg/service/metrics"
	"github.com/pomodesk/pomodesk/pkg/service/publishers"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

const (
	notificationBuffer = 64
	subscriberBuffer   = 32
)

// Hardware is what the board provides. Display may be nil, in which case
// frames only go to the emulator.
type Hardware struct {
	RTC     rtc.Device
	Display display.Bus
	Player  audio.Player
	Strip   light.Strip
	Buttons []input.Button
}

// Service owns every long-running part of the desk.
type Service struct {
	cfg           *config.Instance
	clock         clockwork.Clock
	hw            Hardware
	notifications chan models.Notification
	broker        *broker.Broker
	metrics       *metrics.Metrics
	engine        *pomodoro.Engine
	light         *light.Controller
	alerter       *audio.Alerter
	cache         *rtc.Cache
	emulator      *display.Emulator
	driver        *Driver
	dispatcher    *input.Dispatcher
	alertCtx      context.Context //nolint:containedctx // transition hooks have no ctx of their own
}

// New builds the service from the config and the board. Nothing runs
// until Run is called.
func New(cfg *config.Instance, hw Hardware, clock clockwork.Clock) (*Service, error) {
	if hw.RTC == nil {
		return nil, errors.New("no clock device")
	}
	if hw.Player == nil {
		hw.Player = audio.NopPlayer{}
	}
	if hw.Strip == nil {
		hw.Strip = light.LogStrip{}
	}

	s := &Service{
		cfg:           cfg,
		clock:         clock,
		hw:            hw,
		notifications: make(chan models.Notification, notificationBuffer),
		metrics:       metrics.New(),
		cache:         &rtc.Cache{},
		alertCtx:      context.Background(),
	}
	s.broker = broker.New(s.notifications)

	after, err := pomodoro.ParseAfterInterval(cfg.AfterInterval())
	if err != nil {
		return nil, fmt.Errorf("pomodoro.after_interval: %w", err)
	}
	apply, err := pomodoro.ParseApplyPolicy(cfg.ApplyConfig())
	if err != nil {
		return nil, fmt.Errorf("pomodoro.apply_config: %w", err)
	}
	s.engine, err = pomodoro.NewEngine(
		pomodoro.FromMinutes(cfg.PomodoroMinutes()),
		pomodoro.WithAfterInterval(after),
		pomodoro.WithApplyPolicy(apply),
		pomodoro.WithNotifications(s.notifications),
		pomodoro.WithTransitionHook(s.onTransition),
	)
	if err != nil {
		return nil, fmt.Errorf("create pomodoro engine: %w", err)
	}

	mode, err := light.ParseMode(cfg.LightMode())
	if err != nil {
		log.Warn().Err(err).Msg("invalid light mode, starting with the light off")
	}
	s.light = light.NewController(hw.Strip, mode, s.notifications)

	pattern := audio.DefaultAlert
	pattern.Frequency = float64(cfg.AlertFrequency())
	pattern.Total = cfg.AlertLength()
	s.alerter = audio.NewAlerter(hw.Player, pattern)

	var screen *display.Screen
	if cfg.DisplayEnabled() {
		s.emulator = display.NewEmulator()
		var bus display.Bus = s.emulator
		if hw.Display != nil {
			bus = display.MultiBus{hw.Display, s.emulator}
		}
		renderer := display.NewRenderer(bus)
		if err := renderer.Init(); err != nil {
			return nil, fmt.Errorf("init display: %w", err)
		}
		screen = display.NewScreen(renderer, cfg.DisplayAlternateEvery())
	}
	s.driver = NewDriver(clock, hw.RTC, s.cache, screen, s.engine, s.metrics, cfg.ClockWaitTimeout())

	poll, debounce := cfg.InputTiming()
	s.dispatcher = input.NewDispatcher(
		clock,
		s.handleCommand,
		hw.Buttons,
		input.WithPollInterval(poll),
		input.WithDebounce(debounce),
	)

	return s, nil
}

// Engine is the running session.
func (s *Service) Engine() *pomodoro.Engine {
	return s.engine
}

// Emulator mirrors the panel. It is nil when the display is disabled.
func (s *Service) Emulator() *display.Emulator {
	return s.emulator
}

// Run starts every component and blocks until ctx is done or one of them
// fails.
func (s *Service) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	s.alertCtx = ctx

	if err := s.light.Apply(); err != nil {
		log.Warn().Err(err).Msg("failed to show initial light mode")
	}

	events, _ := s.broker.Subscribe(subscriberBuffer)
	server := api.NewServer(api.Env{
		Config:        s.cfg,
		Engine:        s.engine,
		Light:         s.light,
		Clock:         s.hw.RTC,
		Cache:         s.cache,
		Emulator:      s.emulator,
		Metrics:       s.metrics.Handler(),
		Notifications: s.notifications,
		Events:        events,
		WallClock:     s.clock,
	})

	stopPublishers := s.startPublishers()
	defer stopPublishers()

	g.Go(func() error {
		s.broker.Run(ctx)
		return nil
	})
	g.Go(func() error {
		s.driver.Run(ctx)
		return nil
	})
	if len(s.hw.Buttons) > 0 {
		g.Go(func() error {
			s.dispatcher.Run(ctx)
			return nil
		})
	}
	g.Go(func() error {
		return server.ListenAndServe(ctx)
	})

	if ts := s.timeSync(); ts != nil {
		g.Go(func() error {
			return ts.Run(ctx)
		})
	}

	if s.cfg.DiscoveryEnabled() {
		d := discovery.New(s.cfg, s.clock)
		g.Go(func() error {
			return d.Run(ctx)
		})
	}

	watcher := NewConfigWatcher(s.clock, s.cfg, s.applyConfig)
	g.Go(func() error {
		if err := watcher.Run(ctx); err != nil {
			log.Warn().Err(err).Msg("config file watching disabled")
		}
		return nil
	})

	s.logAddresses()
	log.Info().Str("version", config.AppVersion).Msg("pomodesk started")

	err := g.Wait()
	s.alerter.Wait()
	if err != nil {
		return fmt.Errorf("service stopped: %w", err)
	}
	log.Info().Msg("pomodesk stopped")
	return nil
}

// timeSync returns nil when the RTC is the host clock or syncing is off.
func (s *Service) timeSync() *TimeSync {
	interval := s.cfg.ClockSyncInterval()
	if s.cfg.ClockSource() == config.ClockSourceSystem || interval == 0 {
		log.Debug().Msg("rtc sync disabled")
		return nil
	}
	loc, err := s.cfg.ClockLocation()
	if err != nil {
		log.Warn().Err(err).Msg("rtc sync disabled")
		return nil
	}
	return NewTimeSync(s.clock, s.hw.RTC, s.cache, loc, s.metrics, s.notifications, interval)
}

func (s *Service) startPublishers() func() {
	var started []*publishers.MQTTPublisher
	var subs []int

	for _, cfg := range s.cfg.GetMQTTPublishers() {
		if cfg.Enabled != nil && !*cfg.Enabled {
			continue
		}
		ch, id := s.broker.Subscribe(subscriberBuffer)
		p := publishers.NewMQTTPublisher(cfg.Broker, cfg.Topic, s.cfg.DeviceID(), cfg.Filter)
		if err := p.Start(ch); err != nil {
			log.Warn().Err(err).Str("broker", cfg.Broker).Msg("failed to start mqtt publisher")
			s.broker.Unsubscribe(id)
			continue
		}
		started = append(started, p)
		subs = append(subs, id)
	}

	return func() {
		for _, id := range subs {
			s.broker.Unsubscribe(id)
		}
		for _, p := range started {
			p.Stop()
		}
	}
}

func (s *Service) handleCommand(cmd input.Command) {
	log.Debug().Stringer("command", cmd).Msg("input command")
	switch cmd {
	case input.StartStop:
		s.engine.StartStop()
	case input.Reset:
		s.engine.Reset()
	case input.CycleLightMode:
		if _, err := s.light.Cycle(); err != nil {
			log.Warn().Err(err).Msg("failed to change light mode")
		}
	default:
		log.Warn().Stringer("command", cmd).Msg("unhandled input command")
	}
}

func (s *Service) onTransition(tr pomodoro.Transition) {
	s.metrics.ObserveTransition(tr)
	if !s.cfg.AlertEnabled() {
		s.metrics.Alert("disabled")
		return
	}
	if s.alerter.Alert(s.alertCtx) {
		s.metrics.Alert("played")
		return
	}
	s.metrics.Alert("dropped")
}

// applyConfig pushes values that can change at runtime after the config
// file is reloaded.
func (s *Service) applyConfig() {
	helpers.SetDebug(s.cfg.DebugLogging())

	next := pomodoro.FromMinutes(s.cfg.PomodoroMinutes())
	if next == s.engine.Config() {
		return
	}
	if _, err := s.engine.Configure(next); err != nil {
		log.Warn().Err(err).Msg("reloaded durations rejected")
	}
}

func (s *Service) logAddresses() {
	port := strconv.Itoa(s.cfg.APIPort())
	for _, ip := range helpers.LocalIPs() {
		log.Info().Msgf("web page available at http://%s:%s/", ip, port)
	}
}

