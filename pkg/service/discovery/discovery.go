// ROM Runner Core
// Copyright (c) 2026 The Zaparoo Project Contributors.
// SPDX-License-Identifier: GPL-3.0-or-later
//
// This file is part of ROM Runner Core.
//
// ROM Runner Core is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// ROM Runner Core is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with ROM Runner Core.  If not, see <http://www.gnu.org/licenses/>.

// Package discovery advertises a running engine service over mDNS so
// clients on the network can find its API without manual configuration.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/config"
	"github.com/ZaparooProject/romrunner-core/pkg/helpers/syncutil"
	"github.com/grandcat/zeroconf"
	"github.com/rs/zerolog/log"
)

// ServiceType is the DNS-SD service type for the engine API.
const ServiceType = "_romrunner._tcp"

// how often to retry while no interface can carry the advertisement
const retryInterval = 30 * time.Second

// listenTarget splits a listen address into the bound IP (nil for all
// addresses) and port. It reports false for loopback-only or malformed
// addresses, which other hosts cannot reach.
func listenTarget(listen string) (net.IP, int, bool) {
	host, portStr, err := net.SplitHostPort(listen)
	if err != nil {
		return nil, 0, false
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port <= 0 {
		return nil, 0, false
	}
	if host == "" {
		return nil, port, true
	}
	if host == "localhost" {
		return nil, 0, false
	}
	ip := net.ParseIP(host)
	switch {
	case ip == nil:
		return nil, 0, false
	case ip.IsLoopback():
		return nil, 0, false
	case ip.IsUnspecified():
		return nil, port, true
	}
	return ip, port, true
}

type addrsFunc func(net.Interface) ([]net.Addr, error)

// interfacesFor returns the multicast interfaces the API is reachable on.
// A nil ip means every interface that is up; otherwise only the one
// holding ip.
func interfacesFor(ip net.IP, ifaces []net.Interface, addrs addrsFunc) []net.Interface {
	var out []net.Interface
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagMulticast == 0 ||
			iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if ip == nil || holdsIP(iface, ip, addrs) {
			out = append(out, iface)
		}
	}
	return out
}

func holdsIP(iface net.Interface, ip net.IP, addrs addrsFunc) bool {
	list, err := addrs(iface)
	if err != nil {
		log.Debug().Err(err).Str("interface", iface.Name).Msg("failed to list interface addresses")
		return false
	}
	for _, a := range list {
		if n, ok := a.(*net.IPNet); ok && n.IP.Equal(ip) {
			return true
		}
	}
	return false
}

func interfaceAddrs(iface net.Interface) ([]net.Addr, error) {
	return iface.Addrs()
}

// Service manages mDNS advertising of the API.
type Service struct {
	cfg    *config.Instance
	server *zeroconf.Server
	cancel context.CancelFunc
	done   chan struct{}
	name   string
	mu     syncutil.Mutex
}

func New(cfg *config.Instance) *Service {
	return &Service{cfg: cfg}
}

// Start advertises the API in the background until Stop, retrying while
// no usable interface exists. Disabled discovery and loopback-only listen
// addresses advertise nothing.
func (s *Service) Start() error {
	if !s.cfg.DiscoveryEnabled() {
		log.Info().Msg("mDNS discovery disabled by configuration")
		return nil
	}
	ip, port, ok := listenTarget(s.cfg.APIListen())
	if !ok {
		log.Warn().Str("listen", s.cfg.APIListen()).
			Msg("mDNS discovery enabled but API is not reachable from the network")
		return nil
	}

	name, err := instanceName(s.cfg)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.mu.Lock()
	s.name = name
	s.cancel = cancel
	s.done = make(chan struct{})
	s.mu.Unlock()

	go s.advertise(ctx, ip, port)
	return nil
}

func (s *Service) advertise(ctx context.Context, ip net.IP, port int) {
	defer close(s.done)
	ticker := time.NewTicker(retryInterval)
	defer ticker.Stop()

	for {
		server, err := s.register(ip, port)
		if err == nil {
			s.mu.Lock()
			s.server = server
			s.mu.Unlock()
			<-ctx.Done()
			return
		}
		log.Debug().Err(err).Dur("retry", retryInterval).Msg("mDNS registration failed")

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *Service) register(ip net.IP, port int) (*zeroconf.Server, error) {
	all, err := net.Interfaces()
	if err != nil {
		return nil, fmt.Errorf("list network interfaces: %w", err)
	}
	ifaces := interfacesFor(ip, all, interfaceAddrs)
	if len(ifaces) == 0 {
		return nil, fmt.Errorf("no multicast interface for %v", ip)
	}

	server, err := zeroconf.Register(s.name, ServiceType, "local.", port, []string{
		"id=" + s.cfg.InstanceID(),
		"version=" + config.AppVersion,
		"path=/api",
	}, ifaces)
	if err != nil {
		return nil, fmt.Errorf("register %s: %w", s.name, err)
	}

	names := make([]string, len(ifaces))
	for i, iface := range ifaces {
		names[i] = iface.Name
	}
	log.Info().Str("instance", s.name).Int("port", port).Strs("interfaces", names).
		Msg("mDNS service advertising started")
	return server, nil
}

// Stop withdraws the advertisement. Safe to call more than once.
func (s *Service) Stop() {
	s.mu.Lock()
	cancel, done := s.cancel, s.done
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	<-done

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.server != nil {
		log.Debug().Msg("stopping mDNS service advertising")
		s.server.Shutdown()
		s.server = nil
	}
}

func (s *Service) InstanceName() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.name
}

// instanceName prefers the configured name, then the hostname.
func instanceName(cfg *config.Instance) (string, error) {
	if name := cfg.DiscoveryInstanceName(); name != "" {
		return name, nil
	}
	hostname, err := os.Hostname()
	if err == nil && hostname != "" {
		return hostname, nil
	}
	id := cfg.InstanceID()
	if len(id) < 8 {
		return "", errors.New("no hostname or instance id to name the service")
	}
	log.Warn().Err(err).Msg("failed to get hostname, using instance id")
	return "romrunner-" + id[:8], nil
}
