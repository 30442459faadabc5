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
	"embed"
	"errors"
	"fmt"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/rs/zerolog/log"
)

// Queries go here to keep the interface clean

//go:embed migrations/*.sql
var migrationFiles embed.FS

func sqlMigrateUp(db *sql.DB) error {
	if err := database.MigrateUp(db, migrationFiles, "migrations"); err != nil {
		return fmt.Errorf("failed to run user database migrations: %w", err)
	}
	return nil
}

func sqlAllocate(db *sql.DB) error {
	return sqlMigrateUp(db)
}

func closeStmt(stmt *sql.Stmt) {
	if err := stmt.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql statement")
	}
}

func closeRows(rows *sql.Rows) {
	if err := rows.Close(); err != nil {
		log.Warn().Err(err).Msg("failed to close sql rows")
	}
}

//goland:noinspection SqlWithoutWhere
func sqlTruncate(ctx context.Context, db *sql.DB) error {
	sqlStmt := `
	delete from GameOverrides;
	delete from PlatformOverrides;
	delete from ScanCache;
	vacuum;
	`
	_, err := db.ExecContext(ctx, sqlStmt)
	if err != nil {
		return fmt.Errorf("failed to truncate database: %w", err)
	}
	return nil
}

func sqlVacuum(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `vacuum;`)
	if err != nil {
		return fmt.Errorf("failed to vacuum database: %w", err)
	}
	return nil
}

func sqlGetGameOverride(
	ctx context.Context,
	db *sql.DB,
	platformID, gameID string,
) (database.GameOverride, error) {
	var row database.GameOverride
	q, err := db.PrepareContext(ctx, `
		select
		PlatformID, GameID, Action, ForceEmulatorID, CompatStatus, Notes, UpdatedAt
		from GameOverrides
		where PlatformID = ? and GameID = ?;
	`)
	if err != nil {
		return row, fmt.Errorf("failed to prepare game override select statement: %w", err)
	}
	defer closeStmt(q)

	row, err = scanGameOverride(q.QueryRowContext(ctx, platformID, gameID))
	if errors.Is(err, sql.ErrNoRows) {
		return row, database.ErrNotFound
	} else if err != nil {
		return row, fmt.Errorf("failed to scan game override row: %w", err)
	}
	return row, nil
}

func sqlGetGameOverrides(ctx context.Context, db *sql.DB) ([]database.GameOverride, error) {
	list := make([]database.GameOverride, 0)
	q, err := db.PrepareContext(ctx, `
		select
		PlatformID, GameID, Action, ForceEmulatorID, CompatStatus, Notes, UpdatedAt
		from GameOverrides
		order by PlatformID, GameID;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare game overrides query: %w", err)
	}
	defer closeStmt(q)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return list, fmt.Errorf("failed to query game overrides: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		row, err := scanGameOverride(rows)
		if err != nil {
			return list, fmt.Errorf("failed to scan game override row: %w", err)
		}
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("failed iterating game override rows: %w", err)
	}
	return list, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGameOverride(r rowScanner) (database.GameOverride, error) {
	var row database.GameOverride
	var action, status string
	var updated int64
	err := r.Scan(
		&row.PlatformID,
		&row.GameID,
		&action,
		&row.ForceEmulatorID,
		&status,
		&row.Notes,
		&updated,
	)
	if err != nil {
		return row, err //nolint:wrapcheck // wrapped by callers
	}
	row.Action = database.GameAction(action)
	row.CompatStatus = catalog.CompatStatus(status)
	row.UpdatedAt = time.Unix(updated, 0).UTC()
	return row, nil
}

func sqlSetGameOverride(ctx context.Context, db *sql.DB, o *database.GameOverride) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into GameOverrides(
			PlatformID, GameID, Action, ForceEmulatorID, CompatStatus, Notes, UpdatedAt
		) values (?, ?, ?, ?, ?, ?, ?)
		on conflict(PlatformID, GameID) do update set
			Action = excluded.Action,
			ForceEmulatorID = excluded.ForceEmulatorID,
			CompatStatus = excluded.CompatStatus,
			Notes = excluded.Notes,
			UpdatedAt = excluded.UpdatedAt;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare game override upsert statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx,
		o.PlatformID,
		o.GameID,
		string(o.Action),
		o.ForceEmulatorID,
		string(o.CompatStatus),
		o.Notes,
		o.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to execute game override upsert: %w", err)
	}
	return nil
}

func sqlDeleteGameOverride(ctx context.Context, db *sql.DB, platformID, gameID string) error {
	stmt, err := db.PrepareContext(ctx, `
		delete from GameOverrides where PlatformID = ? and GameID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare game override delete statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx, platformID, gameID)
	if err != nil {
		return fmt.Errorf("failed to execute game override delete: %w", err)
	}
	return nil
}

func sqlGetPlatformOverride(
	ctx context.Context,
	db *sql.DB,
	platformID string,
) (database.PlatformOverride, error) {
	var row database.PlatformOverride
	q, err := db.PrepareContext(ctx, `
		select PlatformID, EmulatorID, UpdatedAt
		from PlatformOverrides
		where PlatformID = ?;
	`)
	if err != nil {
		return row, fmt.Errorf("failed to prepare platform override select statement: %w", err)
	}
	defer closeStmt(q)

	var updated int64
	err = q.QueryRowContext(ctx, platformID).Scan(&row.PlatformID, &row.EmulatorID, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return row, database.ErrNotFound
	} else if err != nil {
		return row, fmt.Errorf("failed to scan platform override row: %w", err)
	}
	row.UpdatedAt = time.Unix(updated, 0).UTC()
	return row, nil
}

func sqlGetPlatformOverrides(ctx context.Context, db *sql.DB) ([]database.PlatformOverride, error) {
	list := make([]database.PlatformOverride, 0)
	q, err := db.PrepareContext(ctx, `
		select PlatformID, EmulatorID, UpdatedAt
		from PlatformOverrides
		order by PlatformID;
	`)
	if err != nil {
		return list, fmt.Errorf("failed to prepare platform overrides query: %w", err)
	}
	defer closeStmt(q)

	rows, err := q.QueryContext(ctx)
	if err != nil {
		return list, fmt.Errorf("failed to query platform overrides: %w", err)
	}
	defer closeRows(rows)

	for rows.Next() {
		var row database.PlatformOverride
		var updated int64
		if err := rows.Scan(&row.PlatformID, &row.EmulatorID, &updated); err != nil {
			return list, fmt.Errorf("failed to scan platform override row: %w", err)
		}
		row.UpdatedAt = time.Unix(updated, 0).UTC()
		list = append(list, row)
	}
	if err := rows.Err(); err != nil {
		return list, fmt.Errorf("failed iterating platform override rows: %w", err)
	}
	return list, nil
}

func sqlSetPlatformOverride(ctx context.Context, db *sql.DB, o *database.PlatformOverride) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into PlatformOverrides(PlatformID, EmulatorID, UpdatedAt)
		values (?, ?, ?)
		on conflict(PlatformID) do update set
			EmulatorID = excluded.EmulatorID,
			UpdatedAt = excluded.UpdatedAt;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare platform override upsert statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx, o.PlatformID, o.EmulatorID, o.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to execute platform override upsert: %w", err)
	}
	return nil
}

func sqlDeletePlatformOverride(ctx context.Context, db *sql.DB, platformID string) error {
	stmt, err := db.PrepareContext(ctx, `
		delete from PlatformOverrides where PlatformID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare platform override delete statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx, platformID)
	if err != nil {
		return fmt.Errorf("failed to execute platform override delete: %w", err)
	}
	return nil
}

func sqlGetScanCache(ctx context.Context, db *sql.DB, destinationID string) (database.ScanCacheEntry, error) {
	var row database.ScanCacheEntry
	q, err := db.PrepareContext(ctx, `
		select DestinationID, OSID, Confidence, Result, ScannedAt
		from ScanCache
		where DestinationID = ?;
	`)
	if err != nil {
		return row, fmt.Errorf("failed to prepare scan cache select statement: %w", err)
	}
	defer closeStmt(q)

	var confidence, result string
	var scanned int64
	err = q.QueryRowContext(ctx, destinationID).Scan(
		&row.DestinationID,
		&row.OSID,
		&confidence,
		&result,
		&scanned,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return row, database.ErrNotFound
	} else if err != nil {
		return row, fmt.Errorf("failed to scan scan cache row: %w", err)
	}
	row.Confidence = catalog.Confidence(confidence)
	row.Result = []byte(result)
	row.ScannedAt = time.Unix(scanned, 0).UTC()
	return row, nil
}

func sqlPutScanCache(ctx context.Context, db *sql.DB, entry *database.ScanCacheEntry) error {
	stmt, err := db.PrepareContext(ctx, `
		insert into ScanCache(DestinationID, OSID, Confidence, Result, ScannedAt)
		values (?, ?, ?, ?, ?)
		on conflict(DestinationID) do update set
			OSID = excluded.OSID,
			Confidence = excluded.Confidence,
			Result = excluded.Result,
			ScannedAt = excluded.ScannedAt;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare scan cache upsert statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx,
		entry.DestinationID,
		entry.OSID,
		string(entry.Confidence),
		string(entry.Result),
		entry.ScannedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("failed to execute scan cache upsert: %w", err)
	}
	return nil
}

func sqlDeleteScanCache(ctx context.Context, db *sql.DB, destinationID string) error {
	stmt, err := db.PrepareContext(ctx, `
		delete from ScanCache where DestinationID = ?;
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare scan cache delete statement: %w", err)
	}
	defer closeStmt(stmt)

	_, err = stmt.ExecContext(ctx, destinationID)
	if err != nil {
		return fmt.Errorf("failed to execute scan cache delete: %w", err)
	}
	return nil
}
