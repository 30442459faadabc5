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

package userdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

var ErrNullSQL = errors.New("UserDB is not connected")

const (
	DBFile           = "userdb.db"
	sqliteConnParams = "?_journal_mode=WAL&_synchronous=FULL&_busy_timeout=5000"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

type UserDB struct {
	sql     *sql.DB
	ctx     context.Context
	clock   clockwork.Clock
	dataDir string
}

// OpenUserDB opens or creates the user database in dataDir.
func OpenUserDB(ctx context.Context, dataDir string) (*UserDB, error) {
	db := &UserDB{ctx: ctx, dataDir: dataDir, clock: clockwork.NewRealClock()}
	err := db.Open()
	return db, err
}

func (db *UserDB) Open() error {
	exists := true
	dbPath := db.GetDBPath()
	_, err := os.Stat(dbPath)
	if err != nil {
		exists = false
		mkdirErr := os.MkdirAll(filepath.Dir(dbPath), 0o750)
		if mkdirErr != nil {
			return fmt.Errorf("failed to create directory for database: %w", mkdirErr)
		}
	}
	sqlInstance, err := sql.Open("sqlite3", dbPath+sqliteConnParams)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	db.sql = sqlInstance
	if !exists {
		return db.Allocate()
	}
	return db.MigrateUp()
}

func (db *UserDB) GetDBPath() string {
	return filepath.Join(db.dataDir, DBFile)
}

func (db *UserDB) UnsafeGetSQLDb() *sql.DB {
	return db.sql
}

func (db *UserDB) Truncate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlTruncate(db.ctx, db.sql)
}

func (db *UserDB) Allocate() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlAllocate(db.sql)
}

func (db *UserDB) MigrateUp() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlMigrateUp(db.sql)
}

func (db *UserDB) Vacuum() error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlVacuum(db.ctx, db.sql)
}

func (db *UserDB) Close() error {
	if db.sql == nil {
		return nil
	}
	err := db.sql.Close()
	if err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	return nil
}

// SetSQLForTesting allows injection of a sql.DB instance for testing purposes.
// This method should only be used in tests to set up in-memory databases.
func (db *UserDB) SetSQLForTesting(ctx context.Context, sqlDB *sql.DB, clock clockwork.Clock) error {
	db.sql = sqlDB
	db.ctx = ctx
	db.clock = clock
	return db.Allocate()
}

func (db *UserDB) GetGameOverride(platformID, gameID string) (database.GameOverride, error) {
	if db.sql == nil {
		return database.GameOverride{}, ErrNullSQL
	}
	return sqlGetGameOverride(db.ctx, db.sql, platformID, gameID)
}

func (db *UserDB) GetGameOverrides() ([]database.GameOverride, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetGameOverrides(db.ctx, db.sql)
}

func (db *UserDB) SetGameOverride(o *database.GameOverride) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid game override: %w", err)
	}
	if o.CompatStatus != "" && !o.CompatStatus.Valid() {
		return fmt.Errorf("invalid game override: unknown compat status %q", o.CompatStatus)
	}
	o.UpdatedAt = db.clock.Now().Truncate(time.Second)
	return sqlSetGameOverride(db.ctx, db.sql, o)
}

func (db *UserDB) DeleteGameOverride(platformID, gameID string) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlDeleteGameOverride(db.ctx, db.sql, platformID, gameID)
}

func (db *UserDB) GetPlatformOverride(platformID string) (database.PlatformOverride, error) {
	if db.sql == nil {
		return database.PlatformOverride{}, ErrNullSQL
	}
	return sqlGetPlatformOverride(db.ctx, db.sql, platformID)
}

func (db *UserDB) GetPlatformOverrides() ([]database.PlatformOverride, error) {
	if db.sql == nil {
		return nil, ErrNullSQL
	}
	return sqlGetPlatformOverrides(db.ctx, db.sql)
}

func (db *UserDB) SetPlatformOverride(o *database.PlatformOverride) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid platform override: %w", err)
	}
	o.UpdatedAt = db.clock.Now().Truncate(time.Second)
	return sqlSetPlatformOverride(db.ctx, db.sql, o)
}

func (db *UserDB) DeletePlatformOverride(platformID string) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlDeletePlatformOverride(db.ctx, db.sql, platformID)
}

func (db *UserDB) GetScanCache(destinationID string) (database.ScanCacheEntry, error) {
	if db.sql == nil {
		return database.ScanCacheEntry{}, ErrNullSQL
	}
	return sqlGetScanCache(db.ctx, db.sql, destinationID)
}

func (db *UserDB) PutScanCache(entry *database.ScanCacheEntry) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	if entry.DestinationID == "" {
		return errors.New("scan cache entry missing destination id")
	}
	if entry.ScannedAt.IsZero() {
		entry.ScannedAt = db.clock.Now().Truncate(time.Second)
	}
	return sqlPutScanCache(db.ctx, db.sql, entry)
}

func (db *UserDB) DeleteScanCache(destinationID string) error {
	if db.sql == nil {
		return ErrNullSQL
	}
	return sqlDeleteScanCache(db.ctx, db.sql, destinationID)
}
