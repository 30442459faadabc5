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

package helpers

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/database/userdb"
	"github.com/jonboulle/clockwork"
	_ "github.com/mattn/go-sqlite3"
)

// TestNow is the fixed time used by fake clocks in test databases.
var TestNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// NewInMemoryUserDB opens a migrated user database in a temp dir. It
// is closed automatically when the test ends.
func NewInMemoryUserDB(t *testing.T) *userdb.UserDB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "userdb_test.db")
	sqlDB, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	db := &userdb.UserDB{}
	err = db.SetSQLForTesting(context.Background(), sqlDB, clockwork.NewFakeClockAt(TestNow))
	if err != nil {
		if closeErr := sqlDB.Close(); closeErr != nil {
			t.Errorf("Failed to close SQL database after setup error: %v", closeErr)
		}
		t.Fatalf("Failed to set up UserDB for testing: %v", err)
	}

	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("Failed to close UserDB: %v", err)
		}
	})
	return db
}

// NewTestDatabase wraps NewInMemoryUserDB in a database.Database.
func NewTestDatabase(t *testing.T) *database.Database {
	t.Helper()
	return &database.Database{UserDB: NewInMemoryUserDB(t)}
}
