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
	"encoding/json"
	"testing"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTempUserDB(t *testing.T) *UserDB {
	t.Helper()
	userDB, err := OpenUserDB(context.Background(), t.TempDir())
	require.NoError(t, err)
	userDB.clock = clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	t.Cleanup(func() { _ = userDB.Close() })
	return userDB
}

//nolint:paralleltest // goose migrations share global state
func TestUserDB_OpenClose_Integration(t *testing.T) {
	userDB := setupTempUserDB(t)

	require.NoError(t, userDB.Truncate())
	require.NoError(t, userDB.Close())

	err := userDB.Truncate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database is closed")
}

//nolint:paralleltest // goose migrations share global state
func TestUserDB_Reopen_Integration(t *testing.T) {
	dir := t.TempDir()

	first, err := OpenUserDB(context.Background(), dir)
	require.NoError(t, err)
	require.NoError(t, first.SetPlatformOverride(&database.PlatformOverride{
		PlatformID: "ps2", EmulatorID: "pcsx2",
	}))
	require.NoError(t, first.Close())

	second, err := OpenUserDB(context.Background(), dir)
	require.NoError(t, err)
	defer func() { _ = second.Close() }()

	got, err := second.GetPlatformOverride("ps2")
	require.NoError(t, err)
	assert.Equal(t, "pcsx2", got.EmulatorID)
	assert.Contains(t, second.GetDBPath(), DBFile)
}

//nolint:paralleltest // goose migrations share global state
func TestUserDB_GameOverrides_Integration(t *testing.T) {
	userDB := setupTempUserDB(t)

	o := &database.GameOverride{
		PlatformID:   "ps2",
		GameID:       "shadow-hearts",
		Action:       database.GameActionInclude,
		CompatStatus: catalog.StatusPlayable,
	}
	require.NoError(t, userDB.SetGameOverride(o))
	assert.False(t, o.UpdatedAt.IsZero())

	got, err := userDB.GetGameOverride("ps2", "shadow-hearts")
	require.NoError(t, err)
	assert.Equal(t, database.GameActionInclude, got.Action)
	assert.Equal(t, catalog.StatusPlayable, got.CompatStatus)
	assert.Equal(t, o.UpdatedAt.Unix(), got.UpdatedAt.Unix())

	o.Action = database.GameActionExclude
	require.NoError(t, userDB.SetGameOverride(o))
	list, err := userDB.GetGameOverrides()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, database.GameActionExclude, list[0].Action)

	require.NoError(t, userDB.DeleteGameOverride("ps2", "shadow-hearts"))
	_, err = userDB.GetGameOverride("ps2", "shadow-hearts")
	require.ErrorIs(t, err, database.ErrNotFound)
}

//nolint:paralleltest // goose migrations share global state
func TestUserDB_GameOverrideValidation_Integration(t *testing.T) {
	userDB := setupTempUserDB(t)

	tests := []struct {
		o    *database.GameOverride
		name string
	}{
		{name: "missing game", o: &database.GameOverride{PlatformID: "ps2"}},
		{name: "bad action", o: &database.GameOverride{PlatformID: "ps2", GameID: "x", Action: "maybe"}},
		{name: "bad status", o: &database.GameOverride{PlatformID: "ps2", GameID: "x", CompatStatus: "fine"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := userDB.SetGameOverride(tt.o)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid game override")
		})
	}
}

//nolint:paralleltest // goose migrations share global state
func TestUserDB_ScanCache_Integration(t *testing.T) {
	userDB := setupTempUserDB(t)

	_, err := userDB.GetScanCache("dest-42")
	require.ErrorIs(t, err, database.ErrNotFound)

	entry := &database.ScanCacheEntry{
		DestinationID: "dest-42",
		OSID:          "rocknix",
		Confidence:    catalog.ConfidenceMedium,
		Result:        json.RawMessage(`{"root":"/media/sd1"}`),
	}
	require.NoError(t, userDB.PutScanCache(entry))
	assert.Equal(t, userDB.clock.Now().Unix(), entry.ScannedAt.Unix())

	got, err := userDB.GetScanCache("dest-42")
	require.NoError(t, err)
	assert.Equal(t, "rocknix", got.OSID)
	assert.Equal(t, catalog.ConfidenceMedium, got.Confidence)
	assert.JSONEq(t, `{"root":"/media/sd1"}`, string(got.Result))

	require.NoError(t, userDB.DeleteScanCache("dest-42"))
	_, err = userDB.GetScanCache("dest-42")
	require.ErrorIs(t, err, database.ErrNotFound)
}
