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

// Package performance picks the most specific performance rating for a
// game on a device.
package performance

import (
	"cmp"
	"fmt"
	"slices"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver"
)

// Query identifies what is being rated. EmulatorID may be empty or the
// wildcard to accept ratings for any emulator.
type Query struct {
	GameID     string
	PlatformID string
	DeviceID   string
	EmulatorID string
}

// Match is a resolved record and the precedence level that produced it.
type Match struct {
	Rule   string                    `json:"rule"`
	Record catalog.PerformanceRecord `json:"record"`
	Level  int                       `json:"level"`
}

type indexKey struct {
	game     string
	platform string
	scopeID  string
	scope    Scope
}

// Resolver is safe for concurrent use once built.
type Resolver struct {
	cat   *catalog.Catalog
	index map[indexKey][]catalog.PerformanceRecord
	rules []Rule
}

// NewResolver indexes the catalog's performance records. With no rules the
// DefaultRules precedence is used.
func NewResolver(cat *catalog.Catalog, rules ...Rule) *Resolver {
	if len(rules) == 0 {
		rules = DefaultRules
	}
	r := &Resolver{
		cat:   cat,
		rules: rules,
		index: make(map[indexKey][]catalog.PerformanceRecord),
	}
	for _, rec := range cat.PerformanceRecords() {
		k := indexKey{game: rec.GameID, platform: rec.PlatformID}
		if rec.DeviceID != "" {
			k.scope, k.scopeID = ScopeDevice, rec.DeviceID
		} else {
			k.scope, k.scopeID = ScopeChipset, rec.ChipsetID
		}
		r.index[k] = append(r.index[k], rec)
	}
	for k := range r.index {
		slices.SortStableFunc(r.index[k], compareRecords)
	}
	return r
}

// compareRecords orders records at the same key so the preferred one comes
// first: higher confidence, then better tier, then source name, then
// emulator id.
func compareRecords(a, b catalog.PerformanceRecord) int {
	if c := cmp.Compare(b.Source.Confidence.Rank(), a.Source.Confidence.Rank()); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Tier.Rank(), a.Tier.Rank()); c != 0 {
		return c
	}
	if c := cmp.Compare(a.Source.Name, b.Source.Name); c != 0 {
		return c
	}
	if c := cmp.Compare(a.EmulatorID, b.EmulatorID); c != 0 {
		return c
	}
	if a.ExcludeFromAutoLists != b.ExcludeFromAutoLists {
		if a.ExcludeFromAutoLists {
			return -1
		}
		return 1
	}
	return 0
}

// Resolve returns the most specific record for q, or false when no rule
// matches.
func (r *Resolver) Resolve(q Query) (Match, bool) {
	platform := q.PlatformID
	if p, ok := r.cat.Platform(platform); ok {
		platform = p.ID
	}
	chipset := r.cat.ChipsetFor(q.DeviceID)
	anyQuery := catalog.IsWildcard(q.EmulatorID)

	for i, rule := range r.rules {
		if !rule.AnyEmulator && anyQuery {
			continue
		}

		k := indexKey{game: q.GameID, platform: platform, scope: rule.Scope}
		if rule.WildcardGame {
			k.game = catalog.Wildcard
		}
		if rule.Scope == ScopeDevice {
			k.scopeID = q.DeviceID
		} else {
			k.scopeID = chipset
		}
		if k.scopeID == "" {
			continue
		}

		for _, rec := range r.index[k] {
			if emulatorMatches(rule, rec.EmulatorID, q.EmulatorID, anyQuery) {
				return Match{Record: rec, Rule: rule.Name, Level: i + 1}, true
			}
		}
	}
	return Match{}, false
}

func emulatorMatches(rule Rule, recEmu, queryEmu string, anyQuery bool) bool {
	switch {
	case !rule.AnyEmulator:
		return !catalog.IsWildcard(recEmu) && recEmu == queryEmu
	case anyQuery:
		return true
	default:
		return catalog.IsWildcard(recEmu)
	}
}

// Decide maps a resolved rating to an outcome. Tiers below minTier are
// excluded; an invalid minTier means poor.
func Decide(rec catalog.PerformanceRecord, minTier catalog.PerformanceTier) resolver.Outcome {
	if !minTier.Valid() {
		minTier = catalog.TierPoor
	}
	switch {
	case rec.ExcludeFromAutoLists:
		return resolver.Exclude(resolver.ReasonPerfFlaggedExclude)
	case rec.Tier.Rank() < minTier.Rank():
		return resolver.Exclude(resolver.ReasonPerfBelowMinimum)
	case rec.Tier == catalog.TierPoor:
		src := rec.Source.Name
		if src == "" {
			src = "catalog"
		}
		return resolver.Warn(resolver.ReasonPerfPoor,
			fmt.Sprintf("rated poor on this device (source: %s)", src))
	default:
		return resolver.Include(resolver.ReasonPerfOK)
	}
}
