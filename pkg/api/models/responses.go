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

package models

// DataResponse is returned by GET /data.
type DataResponse struct {
	Time      string `json:"time"`
	Date      string `json:"date"`
	Timer     string `json:"timer"`
	State     string `json:"state"`
	Completed uint   `json:"completed"`
	Running   bool   `json:"running"`
	ClockOK   bool   `json:"clockOk"`
}

type StatusResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Fields map[string]string `json:"fields,omitempty"`
	Status string            `json:"status"`
	Error  string            `json:"error"`
}
