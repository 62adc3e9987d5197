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

package helpers

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	cfgDir := filepath.Join(root, "config", "nested")
	logDir := filepath.Join(root, "logs")

	require.NoError(t, EnsureDirectories(cfgDir, logDir))
	require.NoError(t, EnsureDirectories(cfgDir), "existing directories are fine")

	for _, dir := range []string{cfgDir, logDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
		if runtime.GOOS != "windows" {
			assert.Equal(t, os.FileMode(0o750), info.Mode().Perm())
		}
	}
}

func TestEnsureDirectories_InvalidPath(t *testing.T) {
	t.Parallel()

	err := EnsureDirectories("/proc/invalid\x00path")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create directory")
}

func TestInitLogging(t *testing.T) {
	// Not parallel: InitLogging replaces the global logger.
	prev := log.Logger
	t.Cleanup(func() { log.Logger = prev })

	var buf bytes.Buffer
	logDir := filepath.Join(t.TempDir(), "logs")

	require.NoError(t, InitLogging(logDir, []io.Writer{&buf}))
	log.Info().Str("state", "work").Msg("pomodoro started")

	assert.Contains(t, buf.String(), `"message":"pomodoro started"`)
	assert.Contains(t, buf.String(), `"state":"work"`)

	_, err := os.Stat(filepath.Join(logDir, LogFile))
	require.NoError(t, err, "file writer receives the same entry")
}

func TestSetDebug(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	SetDebug(true)
	assert.Equal(t, zerolog.DebugLevel, zerolog.GlobalLevel())
	SetDebug(false)
	assert.Equal(t, zerolog.InfoLevel, zerolog.GlobalLevel())
}
