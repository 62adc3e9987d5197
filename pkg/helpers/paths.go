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
	"os"
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/spf13/afero"
)

const (
	appDirName = "pomodesk"
	// UserDir next to the executable turns the install portable: config
	// and logs live inside it instead of the XDG directories.
	UserDir = "user"
	logsDir = "logs"
)

var (
	userDirOnce   sync.Once
	userDirPath   string
	userDirExists bool
)

// findUserDir looks for UserDir beside exe.
func findUserDir(fs afero.Fs, exe string) (string, bool) {
	dir := filepath.Join(filepath.Dir(exe), UserDir)
	ok, err := afero.IsDir(fs, dir)
	if err != nil || !ok {
		return "", false
	}
	return dir, true
}

// HasUserDir reports the portable user directory, if present. The lookup
// is done once.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exe, err := os.Executable()
		if err != nil {
			return
		}
		userDirPath, userDirExists = findUserDir(afero.NewOsFs(), exe)
	})
	return userDirPath, userDirExists
}

// ConfigDir is where config.toml lives.
func ConfigDir() string {
	if dir, ok := HasUserDir(); ok {
		return dir
	}
	return filepath.Join(xdg.ConfigHome, appDirName)
}

// DataDir holds state written at runtime, including logs.
func DataDir() string {
	if dir, ok := HasUserDir(); ok {
		return dir
	}
	return filepath.Join(xdg.DataHome, appDirName)
}

func LogDir() string {
	return filepath.Join(DataDir(), logsDir)
}
