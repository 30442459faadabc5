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

package service

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/config"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/database/overrides"
	"github.com/ZaparooProject/romrunner-core/pkg/database/userdb"
	"github.com/ZaparooProject/romrunner-core/pkg/helpers"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// LoadCatalog loads the definition pack from dir. A missing pack is not
// fatal: an empty catalog is returned and every lookup falls back to
// built-in defaults.
func LoadCatalog(fs afero.Fs, dir string) (*catalog.Catalog, catalog.LoadStats, error) {
	cat, stats, err := catalog.LoadBundle(fs, dir)
	if errors.Is(err, catalog.ErrNoManifest) {
		log.Warn().Str("dir", dir).Msg("no definition pack found, using built-in defaults")
		cat, stats = catalog.New(&catalog.Entries{})
		return cat, stats, nil
	} else if err != nil {
		return nil, catalog.LoadStats{}, fmt.Errorf("failed to load definition pack: %w", err)
	}
	if n := stats.TotalSkipped(); n > 0 {
		log.Warn().Int("skipped", n).Interface("byKind", stats.Skipped).
			Msg("definition pack has invalid entries")
	}
	return cat, stats, nil
}

func openStores(ctx context.Context, dataDir string) (*database.Database, *overrides.Store, error) {
	log.Debug().Msg("opening user database")
	udb, err := userdb.OpenUserDB(ctx, dataDir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open user database: %w", err)
	}

	log.Debug().Msg("opening path override store")
	store, err := overrides.Open(filepath.Join(dataDir, overrides.DBFile), clockwork.NewRealClock())
	if err != nil {
		if closeErr := udb.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close user database")
		}
		return nil, nil, fmt.Errorf("failed to open path override store: %w", err)
	}
	return &database.Database{UserDB: udb}, store, nil
}

// Start prepares the directories, loads the catalog, opens the stores and
// returns a running engine. stop closes the engine then the stores.
func Start(
	ctx context.Context,
	cfg *config.Instance,
	dirs helpers.Dirs,
) (engine *Engine, stop func() error, err error) {
	if err := helpers.EnsureDirectories(dirs); err != nil {
		return nil, nil, fmt.Errorf("failed to set up directories: %w", err)
	}

	osFs := afero.NewOsFs()
	bundleDir := cfg.BundleDir(dirs.Data)
	log.Info().Str("dir", bundleDir).Msg("loading definition pack")
	cat, stats, err := LoadCatalog(osFs, bundleDir)
	if err != nil {
		return nil, nil, err
	}

	db, store, err := openStores(ctx, dirs.Data)
	if err != nil {
		return nil, nil, err
	}

	engine = NewEngine(ctx, cfg, cat, stats, db, store, Options{Fs: osFs})
	stop = func() error {
		engine.Close()
		var errs []error
		if err := store.Close(); err != nil {
			errs = append(errs, err)
		}
		if err := db.UserDB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("failed to close user database: %w", err))
		}
		return errors.Join(errs...)
	}
	log.Info().Str("pack", cat.Meta().Version).Msg("engine started")
	return engine, stop, nil
}
