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

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	testsqlmock "github.com/ZaparooProject/romrunner-core/pkg/testing/sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSqlSetGameOverride_Success(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	now := time.Unix(1772366400, 0)
	o := &database.GameOverride{
		PlatformID:      "ps2",
		GameID:          "god-of-war",
		Action:          database.GameActionInclude,
		ForceEmulatorID: "pcsx2",
		Notes:           "runs fine at 2x",
		UpdatedAt:       now,
	}

	mock.ExpectPrepare(`insert into GameOverrides.*on conflict`).
		ExpectExec().
		WithArgs("ps2", "god-of-war", "include", "pcsx2", "", "runs fine at 2x", now.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	err = sqlSetGameOverride(context.Background(), db, o)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlSetGameOverride_DatabaseError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`insert into GameOverrides`).
		ExpectExec().
		WillReturnError(sqlmock.ErrCancelled)

	err = sqlSetGameOverride(context.Background(), db, &database.GameOverride{
		PlatformID: "ps2",
		GameID:     "god-of-war",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to execute game override upsert")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetGameOverride(t *testing.T) {
	t.Parallel()

	tests := []struct {
		rows    *sqlmock.Rows
		want    database.GameOverride
		wantErr error
		name    string
	}{
		{
			name: "found",
			rows: sqlmock.NewRows([]string{
				"PlatformID", "GameID", "Action", "ForceEmulatorID", "CompatStatus", "Notes", "UpdatedAt",
			}).AddRow("n64", "goldeneye", "exclude", "", "broken", "", int64(1772366400)),
			want: database.GameOverride{
				PlatformID:   "n64",
				GameID:       "goldeneye",
				Action:       database.GameActionExclude,
				CompatStatus: catalog.StatusBroken,
				UpdatedAt:    time.Unix(1772366400, 0).UTC(),
			},
		},
		{
			name: "missing",
			rows: sqlmock.NewRows([]string{
				"PlatformID", "GameID", "Action", "ForceEmulatorID", "CompatStatus", "Notes", "UpdatedAt",
			}),
			wantErr: database.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			db, mock, err := testsqlmock.NewSQLMock()
			require.NoError(t, err)
			defer func() { _ = db.Close() }()

			mock.ExpectPrepare(`select.*from GameOverrides.*where PlatformID = \? and GameID = \?`).
				ExpectQuery().
				WithArgs("n64", "goldeneye").
				WillReturnRows(tt.rows)

			got, err := sqlGetGameOverride(context.Background(), db, "n64", "goldeneye")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestSqlGetGameOverrides_PrepareError(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`select.*from GameOverrides`).WillReturnError(sqlmock.ErrCancelled)

	list, err := sqlGetGameOverrides(context.Background(), db)
	require.Error(t, err)
	assert.Empty(t, list)
	assert.Contains(t, err.Error(), "failed to prepare game overrides query")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlGetPlatformOverrides(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`select PlatformID, EmulatorID, UpdatedAt.*order by PlatformID`).
		ExpectQuery().
		WillReturnRows(sqlmock.NewRows([]string{"PlatformID", "EmulatorID", "UpdatedAt"}).
			AddRow("n64", "mupen64plus", int64(100)).
			AddRow("ps2", "pcsx2", int64(200)))

	list, err := sqlGetPlatformOverrides(context.Background(), db)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "mupen64plus", list[0].EmulatorID)
	assert.Equal(t, time.Unix(200, 0).UTC(), list[1].UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlDeletePlatformOverride(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectPrepare(`delete from PlatformOverrides where PlatformID = \?`).
		ExpectExec().
		WithArgs("ps2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, sqlDeletePlatformOverride(context.Background(), db, "ps2"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSqlScanCache_RoundTripArgs(t *testing.T) {
	t.Parallel()
	db, mock, err := testsqlmock.NewSQLMock()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	scanned := time.Unix(1772366400, 0).UTC()
	result := json.RawMessage(`{"detectedOsId":"rocknix"}`)

	mock.ExpectPrepare(`insert into ScanCache`).
		ExpectExec().
		WithArgs("dest-42", "rocknix", "high", string(result), scanned.Unix()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectPrepare(`select DestinationID, OSID, Confidence, Result, ScannedAt`).
		ExpectQuery().
		WithArgs("dest-42").
		WillReturnRows(sqlmock.NewRows([]string{"DestinationID", "OSID", "Confidence", "Result", "ScannedAt"}).
			AddRow("dest-42", "rocknix", "high", string(result), scanned.Unix()))

	err = sqlPutScanCache(context.Background(), db, &database.ScanCacheEntry{
		DestinationID: "dest-42",
		OSID:          "rocknix",
		Confidence:    catalog.ConfidenceHigh,
		Result:        result,
		ScannedAt:     scanned,
	})
	require.NoError(t, err)

	got, err := sqlGetScanCache(context.Background(), db, "dest-42")
	require.NoError(t, err)
	assert.Equal(t, catalog.ConfidenceHigh, got.Confidence)
	assert.JSONEq(t, string(result), string(got.Result))
	assert.Equal(t, scanned, got.ScannedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDB_NotConnected(t *testing.T) {
	t.Parallel()
	db := &UserDB{}

	_, err := db.GetGameOverride("ps2", "x")
	require.ErrorIs(t, err, ErrNullSQL)
	require.ErrorIs(t, db.SetPlatformOverride(&database.PlatformOverride{}), ErrNullSQL)
	require.ErrorIs(t, db.PutScanCache(&database.ScanCacheEntry{}), ErrNullSQL)
	require.ErrorIs(t, db.Truncate(), ErrNullSQL)
	require.NoError(t, db.Close())
}
