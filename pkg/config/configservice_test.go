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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func TestDiscoveryEnabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		enabled *bool
		name    string
		want    bool
	}{
		{
			name:    "nil returns true (default enabled)",
			enabled: nil,
			want:    true,
		},
		{
			name:    "true returns true",
			enabled: boolPtr(true),
			want:    true,
		},
		{
			name:    "false returns false",
			enabled: boolPtr(false),
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inst := &Instance{
				vals: Values{
					Service: Service{
						Discovery: Discovery{
							Enabled: tt.enabled,
						},
					},
				},
			}

			assert.Equal(t, tt.want, inst.DiscoveryEnabled())
		})
	}
}

func TestDiscoveryInstanceName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		instanceName string
		name         string
	}{
		{name: "empty string returns empty", instanceName: ""},
		{name: "custom name is returned", instanceName: "Study Desk"},
		{name: "simple hostname", instanceName: "pomodesk-2"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inst := &Instance{
				vals: Values{
					Service: Service{
						Discovery: Discovery{
							InstanceName: tt.instanceName,
						},
					},
				},
			}

			assert.Equal(t, tt.instanceName, inst.DiscoveryInstanceName())
		})
	}
}

func TestAPIListen(t *testing.T) {
	t.Parallel()

	tests := []struct {
		port   *int
		name   string
		listen string
		want   string
	}{
		{name: "default port", want: ":8080"},
		{name: "custom port", port: intPtr(9090), want: ":9090"},
		{name: "listen overrides port", port: intPtr(9090), listen: "127.0.0.1:7000", want: "127.0.0.1:7000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inst := &Instance{
				vals: Values{
					Service: Service{APIPort: tt.port, APIListen: tt.listen},
				},
			}

			assert.Equal(t, tt.want, inst.APIListen())
		})
	}
}

func TestSetAPIPort(t *testing.T) {
	t.Parallel()

	inst := &Instance{}
	inst.SetAPIPort(8181)

	assert.Equal(t, 8181, inst.APIPort())
	assert.Equal(t, ":8181", inst.APIListen())
}

func TestAccessLists(t *testing.T) {
	t.Parallel()

	inst := &Instance{
		vals: Values{
			Service: Service{
				AllowedOrigins: []string{"http://desk.local"},
				AllowedIPs:     []string{"192.168.1.0/24"},
				DeviceID:       "550e8400-e29b-41d4-a716-446655440000",
				SentryDSN:      "https://key@sentry.example.com/1",
			},
		},
	}

	assert.Equal(t, []string{"http://desk.local"}, inst.AllowedOrigins())
	assert.Equal(t, []string{"192.168.1.0/24"}, inst.AllowedIPs())
	assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", inst.DeviceID())
	assert.Equal(t, "https://key@sentry.example.com/1", inst.SentryDSN())
}
