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
	"net"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindUserDir(t *testing.T) {
	t.Parallel()

	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/opt/pomodesk/user", 0o750))
	require.NoError(t, afero.WriteFile(fs, "/opt/other/user", []byte("not a dir"), 0o600))

	dir, ok := findUserDir(fs, "/opt/pomodesk/pomodesk")
	assert.True(t, ok)
	assert.Equal(t, filepath.Join("/opt/pomodesk", UserDir), dir)

	_, ok = findUserDir(fs, "/opt/other/pomodesk")
	assert.False(t, ok, "a file named user is not a portable dir")

	_, ok = findUserDir(fs, "/usr/bin/pomodesk")
	assert.False(t, ok)
}

func TestDirs(t *testing.T) {
	t.Parallel()

	assert.True(t, strings.HasSuffix(ConfigDir(), appDirName) || strings.HasSuffix(ConfigDir(), UserDir))
	assert.Equal(t, filepath.Join(DataDir(), logsDir), LogDir())
}

func TestPrivateIPv4(t *testing.T) {
	t.Parallel()

	mk := func(s string) net.Addr {
		ip, ipnet, err := net.ParseCIDR(s)
		require.NoError(t, err)
		ipnet.IP = ip
		return ipnet
	}
	addrs := []net.Addr{
		mk("127.0.0.1/8"),
		mk("192.168.1.20/24"),
		mk("8.8.8.8/32"),
		mk("10.0.0.5/8"),
		mk("fd00::1/64"),
		&net.IPAddr{IP: net.ParseIP("192.168.9.9")},
	}

	assert.Equal(t, []string{"192.168.1.20", "10.0.0.5"}, privateIPv4(addrs))
}
