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

package hw

import (
	"context"
	"fmt"

	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/audio"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

type pwmPin interface {
	Out(l gpio.Level) error
	PWM(duty gpio.Duty, f physic.Frequency) error
}

// Buzzer plays alert patterns on a passive piezo driven by a PWM pin.
type Buzzer struct {
	pin   pwmPin
	clock clockwork.Clock
}

var _ audio.Player = (*Buzzer)(nil)

// OpenBuzzer looks up the named PWM-capable pin.
func OpenBuzzer(name string, clock clockwork.Clock) (*Buzzer, error) {
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("%w: %s", ErrPinNotFound, name)
	}
	if err := p.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("failed to set buzzer pin %s low: %w", name, err)
	}
	return NewBuzzer(p, clock), nil
}

// NewBuzzer wraps an already configured pin.
func NewBuzzer(pin pwmPin, clock clockwork.Clock) *Buzzer {
	return &Buzzer{pin: pin, clock: clock}
}

// PlayPattern toggles a 50% duty square wave at the pattern frequency.
// The pin is always left low.
func (b *Buzzer) PlayPattern(ctx context.Context, p audio.Pattern) (err error) {
	if err := p.Validate(); err != nil {
		return err
	}
	defer func() {
		if offErr := b.pin.Out(gpio.Low); offErr != nil && err == nil {
			err = fmt.Errorf("failed to silence buzzer: %w", offErr)
		}
	}()

	freq := physic.Frequency(p.Frequency * float64(physic.Hertz))
	for _, step := range p.Expand() {
		if step.On {
			err = b.pin.PWM(gpio.DutyHalf, freq)
		} else {
			err = b.pin.Out(gpio.Low)
		}
		if err != nil {
			return fmt.Errorf("failed to drive buzzer: %w", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-b.clock.After(step.Duration):
		}
	}
	return nil
}
