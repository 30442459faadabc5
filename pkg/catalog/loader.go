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

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"slices"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	ManifestFile          = "manifest.toml"
	SheetsDir             = "performance"
	SchemaVersion         = 1
	PlatformsFile         = "platforms.json"
	ChipsetsFile          = "chipsets.json"
	DevicesFile           = "devices.json"
	EmulatorsFile         = "emulators.json"
	OperatingSystemsFile  = "operating_systems.json"
	PerformanceFile       = "performance.json"
	CompatibilityFile     = "compatibility.json"
	ProfilesFile          = "profiles.json"
	FingerprintsFile      = "fingerprints.json"
	sheetDefaultSource    = "community"
	sheetDefaultConfLevel = ConfidenceLow
)

var (
	ErrNoManifest        = errors.New("catalog bundle has no manifest")
	ErrUnsupportedSchema = errors.New("unsupported catalog schema version")
)

type manifest struct {
	Defaults      PolicyDefaults `toml:"defaults"`
	Version       string         `toml:"version"`
	ReleaseDate   string         `toml:"release_date"`
	MinAppVersion string         `toml:"min_app_version"`
	SchemaVersion int            `toml:"schema_version"`
}

type dataFile[T any] struct {
	GeneratedAt   string `json:"generatedAt"`
	Items         []T    `json:"items"`
	SchemaVersion int    `json:"schemaVersion"`
}

// SheetRow is one line of a community performance sheet. Status holds the
// free-form rating text contributors use, which is normalized to a tier.
type SheetRow struct {
	GameID     string `csv:"game_id"`
	PlatformID string `csv:"platform_id"`
	DeviceID   string `csv:"device_id"`
	ChipsetID  string `csv:"chipset_id"`
	EmulatorID string `csv:"emulator_id"`
	Status     string `csv:"status"`
	Exclude    string `csv:"exclude"`
	Source     string `csv:"source"`
	Confidence string `csv:"confidence"`
}

// LoadBundle reads a definition pack directory: the TOML manifest, the JSON
// tables and any CSV performance sheets. Missing tables are treated as
// empty. Malformed files are errors; malformed entries are skipped.
func LoadBundle(fs afero.Fs, dir string) (*Catalog, LoadStats, error) {
	var m manifest
	data, err := afero.ReadFile(fs, path.Join(dir, ManifestFile))
	if errors.Is(err, os.ErrNotExist) {
		return nil, LoadStats{}, fmt.Errorf("%w: %s", ErrNoManifest, dir)
	} else if err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to read manifest: %w", err)
	}
	if err = toml.Unmarshal(data, &m); err != nil {
		return nil, LoadStats{}, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if m.SchemaVersion != SchemaVersion {
		return nil, LoadStats{}, fmt.Errorf(
			"%w: got %d, want %d", ErrUnsupportedSchema, m.SchemaVersion, SchemaVersion,
		)
	}

	e := &Entries{
		Meta: Meta{
			Version:       m.Version,
			SchemaVersion: m.SchemaVersion,
			ReleaseDate:   m.ReleaseDate,
			MinAppVersion: m.MinAppVersion,
			LoadedFrom:    dir,
			LoadedAt:      time.Now(),
		},
		Defaults: m.Defaults,
	}

	if e.Platforms, err = readTable[Platform](fs, dir, PlatformsFile); err != nil {
		return nil, LoadStats{}, err
	}
	if e.Chipsets, err = readTable[Chipset](fs, dir, ChipsetsFile); err != nil {
		return nil, LoadStats{}, err
	}
	if e.Devices, err = readTable[Device](fs, dir, DevicesFile); err != nil {
		return nil, LoadStats{}, err
	}
	if e.Emulators, err = readTable[Emulator](fs, dir, EmulatorsFile); err != nil {
		return nil, LoadStats{}, err
	}
	if e.OperatingSystems, err = readTable[OperatingSystem](fs, dir, OperatingSystemsFile); err != nil {
		return nil, LoadStats{}, err
	}
	if e.Performance, err = readTable[PerformanceRecord](fs, dir, PerformanceFile); err != nil {
		return nil, LoadStats{}, err
	}
	if e.Compatibility, err = readTable[CompatibilityRecord](fs, dir, CompatibilityFile); err != nil {
		return nil, LoadStats{}, err
	}
	if e.Profiles, err = readTable[OSLayoutProfile](fs, dir, ProfilesFile); err != nil {
		return nil, LoadStats{}, err
	}
	if e.Fingerprints, err = readTable[LayoutFingerprint](fs, dir, FingerprintsFile); err != nil {
		return nil, LoadStats{}, err
	}

	sheetRecords, rejected, err := readSheets(fs, path.Join(dir, SheetsDir))
	if err != nil {
		return nil, LoadStats{}, err
	}
	e.Performance = append(e.Performance, sheetRecords...)

	c, stats := New(e)
	if rejected > 0 {
		stats.Skipped["sheets"] += rejected
	}

	log.Info().
		Str("version", c.meta.Version).
		Str("dir", dir).
		Interface("loaded", stats.Loaded).
		Msg("loaded catalog bundle")

	return c, stats, nil
}

func readTable[T any](fs afero.Fs, dir, name string) ([]T, error) {
	p := path.Join(dir, name)
	data, err := afero.ReadFile(fs, p)
	if errors.Is(err, os.ErrNotExist) {
		log.Debug().Str("file", p).Msg("catalog table not present")
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	var df dataFile[T]
	if err := json.Unmarshal(data, &df); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", name, err)
	}
	if df.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf(
			"%w: %s has %d, want %d", ErrUnsupportedSchema, name, df.SchemaVersion, SchemaVersion,
		)
	}
	return df.Items, nil
}

func readSheets(fs afero.Fs, dir string) (records []PerformanceRecord, rejected int, err error) {
	entries, err := afero.ReadDir(fs, dir)
	if errors.Is(err, os.ErrNotExist) {
		return nil, 0, nil
	} else if err != nil {
		return nil, 0, fmt.Errorf("failed to list performance sheets: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, fi := range entries {
		if fi.IsDir() || !strings.EqualFold(path.Ext(fi.Name()), ".csv") {
			continue
		}
		names = append(names, fi.Name())
	}
	slices.Sort(names)

	for _, name := range names {
		f, err := fs.Open(path.Join(dir, name))
		if err != nil {
			return nil, 0, fmt.Errorf("failed to open sheet %s: %w", name, err)
		}
		recs, bad, err := ParseSheet(f, strings.TrimSuffix(name, path.Ext(name)))
		if closeErr := f.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Str("sheet", name).Msg("failed to close sheet")
		}
		if err != nil {
			return nil, 0, fmt.Errorf("failed to parse sheet %s: %w", name, err)
		}
		records = append(records, recs...)
		rejected += bad
	}
	return records, rejected, nil
}

// ParseSheet converts a community performance sheet into records. Rows with
// unrecognized status text are counted and dropped.
func ParseSheet(r io.Reader, defaultSource string) (records []PerformanceRecord, rejected int, err error) {
	var rows []*SheetRow
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, 0, fmt.Errorf("failed to decode sheet: %w", err)
	}

	if defaultSource == "" {
		defaultSource = sheetDefaultSource
	}
	for i, row := range rows {
		tier, ok := NormalizeStatus(row.Status)
		if !ok {
			log.Debug().Int("row", i+2).Str("status", row.Status).Msg("unrecognized sheet status")
			rejected++
			continue
		}
		src := Provenance{Name: row.Source, Confidence: Confidence(strings.ToLower(row.Confidence))}
		if src.Name == "" {
			src.Name = defaultSource
		}
		if src.Confidence == "" {
			src.Confidence = sheetDefaultConfLevel
		}
		records = append(records, PerformanceRecord{
			GameID:               strings.TrimSpace(row.GameID),
			PlatformID:           strings.TrimSpace(row.PlatformID),
			DeviceID:             strings.TrimSpace(row.DeviceID),
			ChipsetID:            strings.TrimSpace(row.ChipsetID),
			EmulatorID:           strings.TrimSpace(row.EmulatorID),
			Tier:                 tier,
			ExcludeFromAutoLists: parseFlag(row.Exclude),
			Source:               src,
		})
	}
	return records, rejected, nil
}

func parseFlag(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "1", "y", "yes", "true", "x":
		return true
	default:
		return false
	}
}
