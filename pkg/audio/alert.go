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

package audio

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog/log"
)

// Player sounds a pattern and returns once it finishes or ctx is done.
type Player interface {
	PlayPattern(ctx context.Context, p Pattern) error
}

// Alerter plays the end-of-interval alert in the background. An alert
// requested while another one is sounding is dropped.
type Alerter struct {
	player  Player
	pattern Pattern
	wg      sync.WaitGroup
	playing atomic.Bool
}

// NewAlerter returns an alerter playing pattern on player.
func NewAlerter(player Player, pattern Pattern) *Alerter {
	return &Alerter{player: player, pattern: pattern}
}

// Alert starts the pattern unless one is already playing. It never blocks
// and reports whether playback started.
func (a *Alerter) Alert(ctx context.Context) bool {
	if !a.playing.CompareAndSwap(false, true) {
		log.Debug().Msg("alert already playing, skipping")
		return false
	}

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		defer a.playing.Store(false)
		err := a.player.PlayPattern(ctx, a.pattern)
		if err != nil && !errors.Is(err, context.Canceled) {
			log.Warn().Err(err).Msg("failed to play alert")
		}
	}()
	return true
}

// Playing reports whether an alert is sounding.
func (a *Alerter) Playing() bool {
	return a.playing.Load()
}

// Wait blocks until the current alert, if any, has finished.
func (a *Alerter) Wait() {
	a.wg.Wait()
}

// NopPlayer discards alerts.
type NopPlayer struct{}

func (NopPlayer) PlayPattern(context.Context, Pattern) error { return nil }
