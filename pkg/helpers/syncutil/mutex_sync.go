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

//go:build !deadlock

// Package syncutil wraps the mutex types so a build tag can swap in a
// deadlock detector. Build with -tags=deadlock while developing.
package syncutil

import "sync"

// DeadlockEnabled reports whether the detector is compiled in.
const DeadlockEnabled = false

// Mutex is sync.Mutex in normal builds.
//
//nolint:gocritic // the wrapper embeds on purpose
type Mutex struct {
	sync.Mutex //nolint:forbidigo // wrapped type
}

// RWMutex is sync.RWMutex in normal builds.
//
//nolint:gocritic // the wrapper embeds on purpose
type RWMutex struct {
	sync.RWMutex //nolint:forbidigo // wrapped type
}
