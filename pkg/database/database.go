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

package database

import (
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
)

/*
 * Shared record types and interfaces live here so the service layer can
 * depend on them without importing the concrete sqlite implementation.
 */

var ErrNotFound = errors.New("record not found")

// Database is the set of stores handed to the engine.
type Database struct {
	UserDB UserDBI
}

/*
 * Structs for SQL records
 */

type GameAction string

const (
	GameActionNone    GameAction = ""
	GameActionInclude GameAction = "include"
	GameActionExclude GameAction = "exclude"
)

// GameOverride is a user's per-game decision. Any field may be left
// empty; an empty Action means only the emulator or compat status is
// forced.
type GameOverride struct {
	UpdatedAt       time.Time            `json:"updatedAt"`
	GameID          string               `json:"gameId" validate:"required"`
	PlatformID      string               `json:"platformId" validate:"required"`
	Action          GameAction           `json:"action,omitempty" validate:"omitempty,oneof=include exclude"`
	ForceEmulatorID string               `json:"forceEmulatorId,omitempty"`
	CompatStatus    catalog.CompatStatus `json:"compatStatus,omitempty"`
	Notes           string               `json:"notes,omitempty"`
}

// PlatformOverride pins the emulator used for every game of a platform.
type PlatformOverride struct {
	UpdatedAt  time.Time `json:"updatedAt"`
	PlatformID string    `json:"platformId" validate:"required"`
	EmulatorID string    `json:"emulatorId" validate:"required"`
}

// ScanCacheEntry remembers the last scan of a destination. Result holds
// the encoded scan result as returned by the scanner.
type ScanCacheEntry struct {
	ScannedAt     time.Time          `json:"scannedAt"`
	DestinationID string             `json:"destinationId"`
	OSID          string             `json:"osId"`
	Confidence    catalog.Confidence `json:"confidence"`
	Result        json.RawMessage    `json:"result"`
}

/*
 * Interfaces for external deps
 */

type GenericDBI interface {
	Open() error
	UnsafeGetSQLDb() *sql.DB
	Truncate() error
	Allocate() error
	MigrateUp() error
	Vacuum() error
	Close() error
	GetDBPath() string
}

type UserDBI interface {
	GenericDBI
	GetGameOverride(platformID, gameID string) (GameOverride, error)
	GetGameOverrides() ([]GameOverride, error)
	SetGameOverride(o *GameOverride) error
	DeleteGameOverride(platformID, gameID string) error
	GetPlatformOverride(platformID string) (PlatformOverride, error)
	GetPlatformOverrides() ([]PlatformOverride, error)
	SetPlatformOverride(o *PlatformOverride) error
	DeletePlatformOverride(platformID string) error
	GetScanCache(destinationID string) (ScanCacheEntry, error)
	PutScanCache(entry *ScanCacheEntry) error
	DeleteScanCache(destinationID string) error
}
