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

// Package api serves the Pomodesk HTTP surface: the status page, the JSON
// control endpoints and a websocket stream of notifications.
package api

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jonboulle/clockwork"
	"github.com/olahol/melody"
	"github.com/pomodesk/pomodesk/pkg/api/models"
	apimiddleware "github.com/pomodesk/pomodesk/pkg/api/middleware"
	"github.com/pomodesk/pomodesk/pkg/config"
	"github.com/pomodesk/pomodesk/pkg/display"
	"github.com/pomodesk/pomodesk/pkg/light"
	"github.com/pomodesk/pomodesk/pkg/pomodoro"
	"github.com/pomodesk/pomodesk/pkg/rtc"
	"github.com/rs/zerolog/log"
)

//go:embed static
var static embed.FS

const (
	readHeaderTimeout = 5 * time.Second
	shutdownTimeout   = 5 * time.Second
	// rtcWriteTimeout bounds the /settime bus write.
	rtcWriteTimeout = 2 * time.Second
)

var defaultOrigins = []string{"https://*", "http://*"}

// Env is everything the handlers read or drive.
type Env struct {
	Config   *config.Instance
	Engine   *pomodoro.Engine
	Light    *light.Controller
	Clock    rtc.Device
	Cache    *rtc.Cache
	Emulator *display.Emulator
	// Metrics serves /metrics when set.
	Metrics http.Handler
	// Notifications receives events raised by the API itself.
	Notifications chan<- models.Notification
	// Events is a broker subscription streamed to websocket clients.
	Events    <-chan models.Notification
	WallClock clockwork.Clock
}

type Server struct {
	env     Env
	handler http.Handler
	events  *melody.Melody
	limiter *apimiddleware.RateLimiter
}

func NewServer(env Env) *Server {
	if env.WallClock == nil {
		env.WallClock = clockwork.NewRealClock()
	}
	s := &Server{
		env:     env,
		events:  melody.New(),
		limiter: apimiddleware.NewRateLimiter(env.WallClock),
	}
	s.events.Upgrader.CheckOrigin = func(*http.Request) bool { return true }
	s.events.HandleConnect(func(session *melody.Session) {
		log.Debug().Str("addr", session.Request.RemoteAddr).Msg("event stream client connected")
	})
	s.events.HandleDisconnect(func(session *melody.Session) {
		log.Debug().Str("addr", session.Request.RemoteAddr).Msg("event stream client disconnected")
	})
	s.handler = s.routes()
	return s
}

// Handler returns the router with all middleware applied.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	origins := s.env.Config.AllowedOrigins()
	if len(origins) == 0 {
		origins = defaultOrigins
	}

	r.Use(middleware.Recoverer)
	r.Use(apimiddleware.IPFilterMiddleware(apimiddleware.NewIPFilter(s.env.Config.AllowedIPs())))
	r.Use(apimiddleware.RateLimitMiddleware(s.limiter))
	r.Use(middleware.NoCache)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	// The websocket stream outlives the request timeout.
	r.Get("/api/events", func(w http.ResponseWriter, r *http.Request) {
		if err := s.events.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling event stream request")
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(config.APIRequestTimeout))

		r.Get("/", handleIndex)
		r.Get("/health", handleHealth)
		r.Get("/data", s.handleData)
		r.Get("/start", s.handleStart)
		r.Get("/reset", s.handleReset)
		r.Get("/light", s.handleLight)
		r.Get("/getpomodoro", s.handleGetPomodoro)
		r.Post("/setpomodoro", s.handleSetPomodoro)
		r.Post("/settime", s.handleSetTime)
		r.Options("/settime", func(w http.ResponseWriter, _ *http.Request) {
			w.Header().Set("Allow", "POST, OPTIONS")
			w.WriteHeader(http.StatusNoContent)
		})
		r.Get("/display", s.handleDisplay)
		if s.env.Metrics != nil {
			r.Method(http.MethodGet, "/metrics", s.env.Metrics)
		}
	})

	return r
}

// Serve accepts connections on ln until ctx is done, then shuts down
// gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go s.limiter.RunCleanup(ctx)
	go s.broadcast(ctx)

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", ln.Addr().String()).Msg("api server listening")
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		_ = s.events.Close()
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server: %w", err)
	case <-ctx.Done():
	}

	log.Debug().Msg("shutting down api server")
	if err := s.events.Close(); err != nil {
		log.Debug().Err(err).Msg("closing event stream")
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("api server shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// ListenAndServe listens on the configured address.
func (s *Server) ListenAndServe(ctx context.Context) error {
	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", s.env.Config.APIListen())
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.env.Config.APIListen(), err)
	}
	return s.Serve(ctx, ln)
}
