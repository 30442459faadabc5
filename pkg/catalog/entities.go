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

package catalog

import "time"

// Provenance records where a performance or compatibility rating came from.
type Provenance struct {
	Name       string     `json:"name"`
	Confidence Confidence `json:"confidence" validate:"omitempty,oneof=high medium low"`
}

// Platform is a console, computer or handheld system a game targets.
type Platform struct {
	ID              string         `json:"id" validate:"required"`
	Name            string         `json:"name"`
	Aliases         []string       `json:"aliases,omitempty"`
	DefaultEmulator string         `json:"defaultEmulator,omitempty"`
	Difficulty      DifficultyTier `json:"difficultyTier" validate:"required,min=1,max=4"`
	Strict          bool           `json:"strict,omitempty"`
	PerfCoverage    bool           `json:"perfCoverage,omitempty"`
}

// Policy returns the platform's missing-data policy.
func (p *Platform) Policy() PlatformPolicy {
	return PlatformPolicy{
		PlatformID:   p.ID,
		Difficulty:   p.Difficulty,
		Strict:       p.Strict,
		PerfCoverage: p.PerfCoverage,
		Known:        true,
	}
}

// PlatformPolicy is the per-platform configuration consulted when catalog
// data is missing.
type PlatformPolicy struct {
	PlatformID   string         `json:"platformId"`
	Difficulty   DifficultyTier `json:"difficultyTier"`
	Strict       bool           `json:"strict"`
	PerfCoverage bool           `json:"perfCoverage"`
	// Known is false when the platform was not in the catalog and the
	// policy was built from defaults.
	Known bool `json:"known"`
}

// Chipset is the SoC family shared by several devices.
type Chipset struct {
	ID           string `json:"id" validate:"required"`
	Name         string `json:"name"`
	Manufacturer string `json:"manufacturer,omitempty"`
}

// Device is a concrete handheld or console model.
type Device struct {
	ID          string   `json:"id" validate:"required"`
	Name        string   `json:"name"`
	ChipsetID   string   `json:"chipsetId,omitempty"`
	SupportedOS []string `json:"supportedOs,omitempty"`
	DefaultOS   string   `json:"defaultOs,omitempty"`
}

// SupportsOS reports whether osID is in the device's supported list. A
// device with no list supports everything.
func (d *Device) SupportsOS(osID string) bool {
	if len(d.SupportedOS) == 0 {
		return true
	}
	for _, id := range d.SupportedOS {
		if id == osID {
			return true
		}
	}
	return false
}

type Emulator struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name"`
	Platforms []string `json:"platforms,omitempty"`
}

// OperatingSystem is a firmware or custom OS installed on a device. Family
// groups related distributions (e.g. forks of the same base image).
type OperatingSystem struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name"`
	Family string `json:"family,omitempty"`
}

// PerformanceRecord rates a game (or every game via the wildcard) on a
// platform for a device or chipset, optionally for a single emulator.
type PerformanceRecord struct {
	GameID               string          `json:"gameId" validate:"required"`
	PlatformID           string          `json:"platformId" validate:"required"`
	DeviceID             string          `json:"deviceId,omitempty" validate:"required_without=ChipsetID,excluded_with=ChipsetID"`
	ChipsetID            string          `json:"chipsetId,omitempty" validate:"required_without=DeviceID,excluded_with=DeviceID"`
	EmulatorID           string          `json:"emulatorId,omitempty"`
	Tier                 PerformanceTier `json:"tier" validate:"required,oneof=unplayable poor playable good excellent"`
	ExcludeFromAutoLists bool            `json:"excludeFromAutoLists,omitempty"`
	Source               Provenance      `json:"source"`
}

// CompatibilityRecord rates how correctly an emulator runs a game.
type CompatibilityRecord struct {
	GameID     string       `json:"gameId" validate:"required"`
	PlatformID string       `json:"platformId" validate:"required"`
	EmulatorID string       `json:"emulatorId" validate:"required"`
	Status     CompatStatus `json:"status" validate:"required,oneof=perfect playable ingame menu_intro boots_only broken unknown"`
	Source     Provenance   `json:"source"`
}

// OSLayoutProfile describes where an OS expects each content category and
// which emulators it ships. DeviceID is set for device-specific variants.
type OSLayoutProfile struct {
	OSID             string            `json:"osId" validate:"required"`
	DeviceID         string            `json:"deviceId,omitempty"`
	Paths            LayoutPaths       `json:"paths"`
	Emulators        []string          `json:"emulators,omitempty"`
	DefaultEmulators map[string]string `json:"defaultEmulators,omitempty"`
	FingerprintID    string            `json:"fingerprintId,omitempty"`
}

// LayoutFingerprint is a set of marker paths that identify an OS layout on
// a destination. Marker paths are relative, slash-separated and matched
// case-insensitively.
type LayoutFingerprint struct {
	ID            string      `json:"id" validate:"required"`
	OSID          string      `json:"osId" validate:"required"`
	AnyMarkers    []string    `json:"anyMarkers,omitempty"`
	AllMarkers    []string    `json:"allMarkers,omitempty"`
	NoneMarkers   []string    `json:"noneMarkers,omitempty"`
	MinAnyMatches int         `json:"minAnyMatches,omitempty" validate:"gte=0"`
	MinConfidence Confidence  `json:"minConfidence,omitempty" validate:"omitempty,oneof=none low medium high"`
	Paths         LayoutPaths `json:"paths"`
}

// AnyThreshold returns the number of any-markers needed for a medium match.
func (f *LayoutFingerprint) AnyThreshold() int {
	if f.MinAnyMatches <= 0 {
		return 1
	}
	return f.MinAnyMatches
}

// Meta describes the loaded definition pack.
type Meta struct {
	Version       string    `json:"version" toml:"version"`
	SchemaVersion int       `json:"schemaVersion" toml:"schema_version"`
	ReleaseDate   string    `json:"releaseDate,omitempty" toml:"release_date"`
	MinAppVersion string    `json:"minAppVersion,omitempty" toml:"min_app_version"`
	LoadedFrom    string    `json:"loadedFrom,omitempty" toml:"-"`
	LoadedAt      time.Time `json:"loadedAt" toml:"-"`
}

// PolicyDefaults are used for platforms missing from the catalog.
type PolicyDefaults struct {
	Difficulty   DifficultyTier `toml:"difficulty_tier"`
	Strict       bool           `toml:"strict"`
	PerfCoverage bool           `toml:"perf_coverage"`
}

// BuiltinPolicyDefaults is moderate, not strict, without coverage.
var BuiltinPolicyDefaults = PolicyDefaults{
	Difficulty: DifficultyModerate,
}
