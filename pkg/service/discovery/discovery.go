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

// Package discovery advertises the API over mDNS so phones and desktop
// widgets can find the desk without knowing its address.
package discovery

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
	"github.com/jonboulle/clockwork"
	"github.com/pomodesk/pomodesk/pkg/config"
	"github.com/rs/zerolog/log"
)

const (
	ServiceType = "_pomodesk._tcp"
	domain      = "local."

	retryInterval    = 30 * time.Second
	maxRetryDuration = 5 * time.Minute
)

var virtualInterfacePrefixes = []string{
	"docker", "br-", "veth", "virbr", "lxc", "lxd",
	"cni", "flannel", "cali", "tunl", "wg",
}

// Advert is what gets registered.
type Advert struct {
	Instance string
	Port     int
	Text     []string
}

type shutdowner interface {
	Shutdown()
}

type registerFunc func(a Advert, ifaces []net.Interface) (shutdowner, error)

func zeroconfRegister(a Advert, ifaces []net.Interface) (shutdowner, error) {
	server, err := zeroconf.Register(a.Instance, ServiceType, domain, a.Port, a.Text, ifaces)
	if err != nil {
		return nil, fmt.Errorf("zeroconf register: %w", err)
	}
	return server, nil
}

// Service keeps the advert registered while Run is active.
type Service struct {
	clock      clockwork.Clock
	register   registerFunc
	interfaces func() ([]net.Interface, error)
	advert     Advert
}

// New builds the advert from the config: instance name, API port, device
// id and version.
func New(cfg *config.Instance, clock clockwork.Clock) *Service {
	return &Service{
		clock:      clock,
		register:   zeroconfRegister,
		interfaces: preferredInterfaces,
		advert: Advert{
			Instance: instanceName(cfg.DiscoveryInstanceName(), cfg.DeviceID()),
			Port:     cfg.APIPort(),
			Text: []string{
				"id=" + cfg.DeviceID(),
				"version=" + config.AppVersion,
				"path=/data",
			},
		},
	}
}

func (s *Service) Advert() Advert {
	return s.advert
}

// Run registers the advert, retrying while the network comes up, and
// withdraws it when ctx is done. Giving up on registration is not an
// error: the API still works by address.
func (s *Service) Run(ctx context.Context) error {
	server := s.tryRegister()
	if server == nil {
		log.Info().Dur("retryInterval", retryInterval).Msg("mDNS registration failed, retrying in background")
		server = s.retry(ctx)
	}
	if server == nil {
		return nil
	}

	<-ctx.Done()
	log.Debug().Msg("stopping mDNS advertising")
	server.Shutdown()
	return nil
}

func (s *Service) retry(ctx context.Context) shutdowner {
	ticker := s.clock.NewTicker(retryInterval)
	defer ticker.Stop()
	deadline := s.clock.After(maxRetryDuration)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-deadline:
			log.Warn().Msg("mDNS registration retry timed out, discovery will not be available")
			return nil
		case <-ticker.Chan():
			if server := s.tryRegister(); server != nil {
				return server
			}
		}
	}
}

func (s *Service) tryRegister() shutdowner {
	ifaces, err := s.interfaces()
	if err != nil {
		log.Debug().Err(err).Msg("failed to list network interfaces")
		return nil
	}
	if len(ifaces) == 0 {
		log.Debug().Msg("no suitable network interfaces for mDNS")
		return nil
	}

	server, err := s.register(s.advert, ifaces)
	if err != nil {
		log.Debug().Err(err).Msg("mDNS registration attempt failed")
		return nil
	}

	names := make([]string, len(ifaces))
	for i, iface := range ifaces {
		names[i] = iface.Name
	}
	log.Info().
		Str("instance", s.advert.Instance).
		Int("port", s.advert.Port).
		Strs("interfaces", names).
		Msg("mDNS advertising started")
	return server
}

func preferredInterfaces() ([]net.Interface, error) {
	all, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list network interfaces: %w", err)
	}
	return filterInterfaces(all), nil
}

// filterInterfaces keeps interfaces that are up, multicast capable, not
// loopback and not a container or VPN bridge.
func filterInterfaces(ifaces []net.Interface) []net.Interface {
	var out []net.Interface
	for _, iface := range ifaces {
		switch {
		case iface.Flags&net.FlagUp == 0,
			iface.Flags&net.FlagLoopback != 0,
			iface.Flags&net.FlagMulticast == 0,
			isVirtualInterface(iface.Name):
			continue
		}
		out = append(out, iface)
	}
	return out
}

func isVirtualInterface(name string) bool {
	lower := strings.ToLower(name)
	for _, prefix := range virtualInterfacePrefixes {
		if strings.HasPrefix(lower, prefix) {
			return true
		}
	}
	return false
}

// instanceName prefers the configured name, then the hostname, then a name
// derived from the device id.
func instanceName(configured, deviceID string) string {
	if configured != "" {
		return configured
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	if len(deviceID) >= 8 {
		return config.AppName + "-" + deviceID[:8]
	}
	return config.AppName
}
