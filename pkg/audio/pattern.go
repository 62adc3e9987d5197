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
	"fmt"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/generators"
)

// SampleRate is used for every generated tone.
const SampleRate = beep.SampleRate(48000)

// Step is one segment of an alert: the tone is either sounding or silent.
type Step struct {
	Duration time.Duration
	On       bool
}

// Pattern is a repeating on/off tone sequence cut off after Total.
type Pattern struct {
	Steps     []Step
	Frequency float64
	Total     time.Duration
}

// DefaultAlert is a 2500 Hz double beep repeated for five seconds.
var DefaultAlert = Pattern{
	Frequency: 2500,
	Steps: []Step{
		{On: true, Duration: 150 * time.Millisecond},
		{On: false, Duration: 100 * time.Millisecond},
		{On: true, Duration: 150 * time.Millisecond},
		{On: false, Duration: 400 * time.Millisecond},
	},
	Total: 5 * time.Second,
}

// Validate rejects patterns that would never end or never sound.
func (p Pattern) Validate() error {
	if p.Frequency <= 0 {
		return fmt.Errorf("alert frequency must be positive: %v", p.Frequency)
	}
	if p.Total <= 0 {
		return fmt.Errorf("alert length must be positive: %v", p.Total)
	}
	var cycle time.Duration
	for _, s := range p.Steps {
		if s.Duration <= 0 {
			return fmt.Errorf("alert step must be positive: %v", s.Duration)
		}
		cycle += s.Duration
	}
	if cycle == 0 {
		return fmt.Errorf("alert pattern has no steps")
	}
	return nil
}

// Expand repeats the steps until Total is reached, shortening the last
// step so the sum is exactly Total.
func (p Pattern) Expand() []Step {
	if p.Validate() != nil {
		return nil
	}
	var out []Step
	remaining := p.Total
	for remaining > 0 {
		for _, s := range p.Steps {
			if remaining <= 0 {
				break
			}
			d := min(s.Duration, remaining)
			out = append(out, Step{On: s.On, Duration: d})
			remaining -= d
		}
	}
	return out
}

// Streamer renders the pattern as a finite beep stream at sr.
func (p Pattern) Streamer(sr beep.SampleRate) (beep.Streamer, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	steps := p.Expand()
	parts := make([]beep.Streamer, 0, len(steps))
	for _, s := range steps {
		n := sr.N(s.Duration)
		if !s.On {
			parts = append(parts, beep.Silence(n))
			continue
		}
		tone, err := generators.SineTone(sr, p.Frequency)
		if err != nil {
			return nil, fmt.Errorf("failed to create tone: %w", err)
		}
		parts = append(parts, beep.Take(n, tone))
	}
	return beep.Seq(parts...), nil
}
