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

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/internal/telemetry"
	"github.com/pomodesk/pomodesk/pkg/cli"
	"github.com/pomodesk/pomodesk/pkg/config"
	"github.com/pomodesk/pomodesk/pkg/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

func main() {
	if err := run(); err != nil {
		if errors.Is(err, cli.ErrExit) {
			return
		}
		_, _ = fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

func run() error {
	flags := cli.SetupFlags(flag.CommandLine)
	if err := flags.Pre(os.Args[1:], os.Stdout); err != nil {
		return err
	}

	cfg, err := flags.Setup(afero.NewOsFs(), config.BaseDefaults)
	if err != nil {
		return err
	}
	defer telemetry.Close()

	defer func() {
		if r := recover(); r != nil {
			_, _ = fmt.Fprintf(os.Stderr, "Panic: %v\n", r)
			log.Error().Msgf("panic: %v", r)
			telemetry.Flush()
			os.Exit(1)
		}
	}()

	if err := flags.Post(cfg, os.Stdout); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()
	var (
		hw      service.Hardware
		closeHW func()
	)
	if *flags.Headless {
		hw, closeHW, err = headlessHardware(cfg, clock)
	} else {
		hw, closeHW, err = openHardware(cfg, clock)
	}
	if err != nil {
		log.Error().Err(err).Msg("error opening hardware")
		return err
	}
	defer closeHW()

	svc, err := service.New(cfg, hw, clock)
	if err != nil {
		log.Error().Err(err).Msg("error starting service")
		return fmt.Errorf("error starting service: %w", err)
	}
	if err := svc.Run(ctx); err != nil {
		log.Error().Err(err).Msg("service exited with error")
		return err
	}
	return nil
}
