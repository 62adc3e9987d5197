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
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/config"
	"github.com/rs/zerolog/log"
)

// reloadDelay coalesces the burst of events an editor save produces.
const reloadDelay = 250 * time.Millisecond

// ConfigWatcher reloads the config file when it changes on disk and calls
// onReload after every successful load.
type ConfigWatcher struct {
	clock    clockwork.Clock
	cfg      *config.Instance
	onReload func()
	delay    time.Duration
}

func NewConfigWatcher(clock clockwork.Clock, cfg *config.Instance, onReload func()) *ConfigWatcher {
	return &ConfigWatcher{clock: clock, cfg: cfg, onReload: onReload, delay: reloadDelay}
}

// Run watches the config directory, since editors often replace the file
// rather than write it, until ctx is done.
func (w *ConfigWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer func() {
		if err := watcher.Close(); err != nil {
			log.Debug().Err(err).Msg("closing config watcher")
		}
	}()

	path := filepath.Clean(w.cfg.Path())
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watch config directory: %w", err)
	}
	log.Debug().Str("path", path).Msg("watching config file")

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path || !event.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			if pending == nil {
				pending = w.clock.After(w.delay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn().Err(err).Msg("config watcher error")
		case <-pending:
			pending = nil
			w.reload()
		}
	}
}

func (w *ConfigWatcher) reload() {
	if err := w.cfg.Load(); err != nil {
		log.Warn().Err(err).Msg("config changed on disk but failed to load, keeping previous values")
		return
	}
	log.Info().Str("path", w.cfg.Path()).Msg("config reloaded")
	if w.onReload != nil {
		w.onReload()
	}
}
