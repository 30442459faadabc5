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

// Package service wires the catalog, resolvers, destination scanner and
// stores into the Engine that the API and CLI drive.
package service

import (
	"context"
	"errors"
	"sync"

	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/autolist"
	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/config"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/database/overrides"
	"github.com/ZaparooProject/romrunner-core/pkg/destination/scanner"
	"github.com/ZaparooProject/romrunner-core/pkg/helpers/syncutil"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver/gate"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver/osprofile"
	"github.com/ZaparooProject/romrunner-core/pkg/service/broker"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const notificationQueueSize = 100

var (
	ErrOverridesDisabled = errors.New("saving path overrides is disabled")
	ErrEngineClosed      = errors.New("engine is closed")
)

type Options struct {
	Fs    afero.Fs
	Clock clockwork.Clock
	// Usage reports destination volume capacity. Nil uses DiskUsage.
	Usage scanner.UsageFunc
}

// Engine is safe for concurrent use. Settings are read from the config on
// every call so changes apply without a restart.
type Engine struct {
	ctx      context.Context
	cancel   context.CancelFunc
	cat      *catalog.Catalog
	cfg      *config.Instance
	db       *database.Database
	paths    *overrides.Store
	profiles *osprofile.Resolver
	usage    scanner.UsageFunc
	fs       afero.Fs
	clock    clockwork.Clock
	ns       chan models.Notification
	broker   *broker.Broker
	scans    map[string]*ScanHandle
	stats    catalog.LoadStats
	wg       sync.WaitGroup
	scansMu  syncutil.Mutex
	closed   bool
}

func NewEngine(
	ctx context.Context,
	cfg *config.Instance,
	cat *catalog.Catalog,
	stats catalog.LoadStats,
	db *database.Database,
	paths *overrides.Store,
	opts Options,
) *Engine {
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Usage == nil {
		opts.Usage = DiskUsage
	}

	ctx, cancel := context.WithCancel(ctx)
	ns := make(chan models.Notification, notificationQueueSize)
	b := broker.NewBroker(ctx, ns)
	b.Start()

	return &Engine{
		ctx:      ctx,
		cancel:   cancel,
		cat:      cat,
		stats:    stats,
		cfg:      cfg,
		db:       db,
		paths:    paths,
		profiles: osprofile.NewResolver(cat),
		usage:    opts.Usage,
		fs:       opts.Fs,
		clock:    opts.Clock,
		ns:       ns,
		broker:   b,
		scans:    make(map[string]*ScanHandle),
	}
}

func (e *Engine) Config() *config.Instance {
	return e.cfg
}

func (e *Engine) Catalog() *catalog.Catalog {
	return e.cat
}

// LoadStats reports what the catalog loader accepted and skipped.
func (e *Engine) LoadStats() catalog.LoadStats {
	return e.stats
}

// Subscribe returns a channel of engine notifications. It is closed when
// the engine closes or Unsubscribe is called.
func (e *Engine) Subscribe(buffer int) (ch <-chan models.Notification, id int) {
	return e.broker.Subscribe(buffer)
}

func (e *Engine) Unsubscribe(id int) {
	e.broker.Unsubscribe(id)
}

// Profile resolves the layout profile for a device and OS, filling blanks
// from the configured default target.
func (e *Engine) Profile(deviceID, osID string) osprofile.Profile {
	defDevice, defOS := e.cfg.DefaultTarget()
	if deviceID == "" {
		deviceID = defDevice
	}
	if osID == "" && deviceID == defDevice {
		osID = defOS
	}
	return e.profiles.Resolve(deviceID, osID)
}

func (e *Engine) generatorSettings() autolist.Settings {
	return autolist.Settings{
		MinPerformanceTier: catalog.PerformanceTier(e.cfg.MinPerformanceTier()),
		Gate:               gate.Settings{AllowOptimisticStrict: e.cfg.AllowOptimisticStrict()},
		Workers:            e.cfg.EvaluationWorkers(),
	}
}

// Close cancels running scans, waits for them to finish and stops
// notification delivery. Stores are owned by the caller.
func (e *Engine) Close() {
	e.scansMu.Lock()
	if e.closed {
		e.scansMu.Unlock()
		return
	}
	e.closed = true
	for _, h := range e.scans {
		h.Cancel()
	}
	e.scansMu.Unlock()

	e.cancel()
	e.wg.Wait()
	log.Debug().Msg("engine closed")
}
