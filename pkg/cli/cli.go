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

// Package cli holds the command line flags and startup shared by the
// pomodesk binaries.
package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pomodesk/pomodesk/internal/telemetry"
	"github.com/pomodesk/pomodesk/pkg/config"
	"github.com/pomodesk/pomodesk/pkg/helpers"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ErrExit is returned by Pre and Post when a flag was fully handled and
// the program should exit successfully.
var ErrExit = errors.New("done")

type Flags struct {
	set        *flag.FlagSet
	ConfigDir  *string
	LogDir     *string
	API        *string
	Version    *bool
	Headless   *bool
	Foreground *bool
}

// SetupFlags defines the flags on fs. Add any custom flags before calling
// Pre.
func SetupFlags(fs *flag.FlagSet) *Flags {
	return &Flags{
		set: fs,
		ConfigDir: fs.String(
			"config-dir",
			helpers.ConfigDir(),
			"directory holding config.toml",
		),
		LogDir: fs.String(
			"log-dir",
			helpers.LogDir(),
			"directory for rotated log files",
		),
		API: fs.String(
			"api",
			"",
			"call a running desk's API, e.g. \"start\" or \"data\", and print the response",
		),
		Version: fs.Bool(
			"version",
			false,
			"print version and exit",
		),
		Headless: fs.Bool(
			"headless",
			false,
			"run without hardware, using the host clock and an emulated display",
		),
		Foreground: fs.Bool(
			"foreground",
			false,
			"also log to stderr",
		),
	}
}

// Pre parses args and handles flags that need no setup.
func (f *Flags) Pre(args []string, out io.Writer) error {
	if err := f.set.Parse(args); err != nil {
		return fmt.Errorf("failed to parse flags: %w", err)
	}
	if *f.Version {
		_, _ = fmt.Fprintf(out, "Pomodesk v%s\n", config.AppVersion)
		return ErrExit
	}
	return nil
}

// Post handles flags that need the config. Logging is available.
func (f *Flags) Post(cfg *config.Instance, out io.Writer) error {
	if *f.API == "" {
		return nil
	}
	resp, err := NewClient(cfg).Call(*f.API)
	if err != nil {
		log.Error().Err(err).Msg("error calling API")
		return err
	}
	_, _ = fmt.Fprintln(out, resp)
	return ErrExit
}

// Setup creates the directories, starts logging, loads the config and
// sets up opt-in error reporting.
//
//nolint:gocritic // config struct copied for immutability
func (f *Flags) Setup(fs afero.Fs, defaults config.Values) (*config.Instance, error) {
	if err := helpers.EnsureDirectories(*f.ConfigDir, *f.LogDir); err != nil {
		return nil, err
	}

	var writers []io.Writer
	if *f.Foreground {
		writers = append(writers, os.Stderr)
	}
	if err := helpers.InitLogging(*f.LogDir, writers); err != nil {
		return nil, fmt.Errorf("failed to initialize logging: %w", err)
	}

	if _, ok := helpers.HasUserDir(); ok {
		log.Info().Msg("using 'user' directory for storage")
	}

	cfg, err := config.NewConfig(fs, *f.ConfigDir, defaults)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	helpers.SetDebug(cfg.DebugLogging())

	if err := telemetry.Init(
		cfg.ErrorReporting(),
		cfg.SentryDSN(),
		cfg.DeviceID(),
		config.AppVersion,
	); err != nil {
		log.Warn().Err(err).Msg("failed to initialize error reporting")
	}

	return cfg, nil
}
