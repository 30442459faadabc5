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

// Package compat resolves emulator compatibility ratings.
package compat

import (
	"fmt"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver"
)

// Source names where a resolved status came from.
type Source string

const (
	SourceUserOverride    Source = "user_override"
	SourceExact           Source = "exact"
	SourcePlatformDefault Source = "platform_default"
)

// Query asks for the status of a game under an emulator. Override, when
// set, is the user's own status for the game and wins outright.
type Query struct {
	Override   *catalog.CompatStatus
	GameID     string
	PlatformID string
	EmulatorID string
}

type Match struct {
	Source Source               `json:"source"`
	Status catalog.CompatStatus `json:"status"`
	// Record is nil for user overrides.
	Record *catalog.CompatibilityRecord `json:"record,omitempty"`
}

type key struct {
	game     string
	platform string
	emulator string
}

type Resolver struct {
	cat     *catalog.Catalog
	records map[key]catalog.CompatibilityRecord
}

// NewResolver indexes compatibility records. When a key appears more than
// once the higher confidence record is kept, then the lower status.
func NewResolver(cat *catalog.Catalog) *Resolver {
	r := &Resolver{
		cat:     cat,
		records: make(map[key]catalog.CompatibilityRecord),
	}
	for _, rec := range cat.CompatibilityRecords() {
		k := key{game: rec.GameID, platform: rec.PlatformID, emulator: rec.EmulatorID}
		if existing, ok := r.records[k]; ok && !prefer(rec, existing) {
			continue
		}
		r.records[k] = rec
	}
	return r
}

func prefer(a, b catalog.CompatibilityRecord) bool {
	ac, bc := a.Source.Confidence.Rank(), b.Source.Confidence.Rank()
	if ac != bc {
		return ac > bc
	}
	if a.Status.Rank() != b.Status.Rank() {
		return a.Status.Rank() < b.Status.Rank()
	}
	return a.Source.Name < b.Source.Name
}

// Resolve returns the status for q, or false when neither an override nor
// a record applies.
func (r *Resolver) Resolve(q Query) (Match, bool) {
	if q.Override != nil && q.Override.Valid() {
		return Match{Status: *q.Override, Source: SourceUserOverride}, true
	}

	platform := q.PlatformID
	if p, ok := r.cat.Platform(platform); ok {
		platform = p.ID
	}

	if !catalog.IsWildcard(q.GameID) {
		if rec, ok := r.records[key{game: q.GameID, platform: platform, emulator: q.EmulatorID}]; ok {
			return Match{Status: rec.Status, Source: SourceExact, Record: &rec}, true
		}
	}
	if rec, ok := r.records[key{game: catalog.Wildcard, platform: platform, emulator: q.EmulatorID}]; ok {
		return Match{Status: rec.Status, Source: SourcePlatformDefault, Record: &rec}, true
	}
	return Match{}, false
}

// Decide maps a status to an outcome.
func Decide(status catalog.CompatStatus) resolver.Outcome {
	switch status {
	case catalog.StatusPerfect, catalog.StatusPlayable:
		return resolver.Include(resolver.ReasonCompatOK)
	case catalog.StatusBootsOnly, catalog.StatusBroken:
		return resolver.Exclude(resolver.ReasonCompatBroken)
	case catalog.StatusIngame, catalog.StatusMenuIntro, catalog.StatusUnknown:
		return resolver.Warn(resolver.ReasonCompatIssues, issueWarning(status))
	default:
		return resolver.Warn(resolver.ReasonCompatIssues, issueWarning(catalog.StatusUnknown))
	}
}

func issueWarning(s catalog.CompatStatus) string {
	switch s {
	case catalog.StatusIngame:
		return "reaches gameplay but has known emulation issues"
	case catalog.StatusMenuIntro:
		return "only reaches menus or intro"
	default:
		return fmt.Sprintf("compatibility status is %s", s)
	}
}
