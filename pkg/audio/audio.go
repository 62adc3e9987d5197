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

// Package audio plays the end-of-interval alert through the host sound
// device.
package audio

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/gen2brain/malgo"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"github.com/pomodesk/pomodesk/pkg/helpers/syncutil"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// MalgoPlayer plays alerts on the default playback device. With a sound
// file configured, the file replaces the generated tone.
type MalgoPlayer struct {
	fs        afero.Fs
	soundPath string
	sound     []byte
	mu        syncutil.Mutex
}

// NewMalgoPlayer returns a player for the generated tone, or for the file
// at soundPath when it is not empty.
func NewMalgoPlayer(fs afero.Fs, soundPath string) *MalgoPlayer {
	return &MalgoPlayer{fs: fs, soundPath: soundPath}
}

// PlayPattern blocks until the alert has played or ctx is done.
func (p *MalgoPlayer) PlayPattern(ctx context.Context, pattern Pattern) error {
	streamer, err := p.streamer(pattern)
	if err != nil {
		return err
	}
	return playWithMalgo(ctx, streamer)
}

func (p *MalgoPlayer) streamer(pattern Pattern) (beep.Streamer, error) {
	if p.soundPath == "" {
		return pattern.Streamer(SampleRate)
	}

	data, err := p.readSound()
	if err != nil {
		return nil, err
	}
	s, format, err := decode(p.soundPath, data)
	if err != nil {
		return nil, err
	}
	resampled := beep.Resample(4, format.SampleRate, SampleRate, s)
	return beep.Take(SampleRate.N(pattern.Total), resampled), nil
}

func (p *MalgoPlayer) readSound() ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.sound != nil {
		return p.sound, nil
	}
	data, err := afero.ReadFile(p.fs, p.soundPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read alert sound: %w", err)
	}
	p.sound = data
	return data, nil
}

func decode(path string, data []byte) (beep.StreamSeekCloser, beep.Format, error) {
	var (
		s      beep.StreamSeekCloser
		format beep.Format
		err    error
	)
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".wav":
		s, format, err = wav.Decode(bytes.NewReader(data))
	case ".mp3":
		s, format, err = mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	case ".ogg":
		s, format, err = vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	case ".flac":
		s, format, err = flac.Decode(bytes.NewReader(data))
	default:
		return nil, beep.Format{}, fmt.Errorf("unsupported audio format: %s (supported: .wav, .mp3, .ogg, .flac)", ext)
	}
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("failed to decode alert sound: %w", err)
	}
	return s, format, nil
}

func playWithMalgo(ctx context.Context, streamer beep.Streamer) error {
	malgoCtx, err := malgo.InitContext(nil, malgo.ContextConfig{}, nil)
	if err != nil {
		return fmt.Errorf("failed to initialize malgo context: %w", err)
	}
	if malgoCtx == nil {
		return errors.New("malgo context is nil after initialization")
	}
	defer func() {
		_ = malgoCtx.Uninit()
		malgoCtx.Free()
	}()

	// F32 avoids the S16 to S32 conversion path in miniaudio.
	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatF32
	deviceConfig.Playback.Channels = 2
	deviceConfig.SampleRate = uint32(SampleRate)
	deviceConfig.Alsa.NoMMap = 1

	done := make(chan struct{})
	var (
		mu       syncutil.Mutex
		finished bool
		samples  [][2]float64
	)

	onSamples := func(out, _ []byte, frameCount uint32) {
		mu.Lock()
		defer mu.Unlock()
		if finished {
			return
		}

		if len(samples) < int(frameCount) {
			samples = make([][2]float64, frameCount)
		}
		n, ok := streamer.Stream(samples[:frameCount])
		if !ok || n == 0 {
			finished = true
			close(done)
			return
		}

		offset := 0
		for i := range n {
			binary.LittleEndian.PutUint32(out[offset:], math.Float32bits(float32(samples[i][0])))
			binary.LittleEndian.PutUint32(out[offset+4:], math.Float32bits(float32(samples[i][1])))
			offset += 8
		}
		clear(out[offset:])
	}

	device, err := malgo.InitDevice(malgoCtx.Context, deviceConfig, malgo.DeviceCallbacks{
		Data: onSamples,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize audio device: %w", err)
	}
	defer device.Uninit()

	if err := device.Start(); err != nil {
		return fmt.Errorf("failed to start audio device: %w", err)
	}

	select {
	case <-done:
	case <-ctx.Done():
		mu.Lock()
		finished = true
		mu.Unlock()
	}

	if err := device.Stop(); err != nil {
		log.Warn().Err(err).Msg("failed to stop audio device")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	log.Debug().Msg("alert playback finished")
	return nil
}
