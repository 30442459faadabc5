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

package compat

import (
	"testing"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver"
	"github.com/ZaparooProject/romrunner-core/pkg/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePrecedence(t *testing.T) {
	t.Parallel()

	r := NewResolver(fixtures.NewCatalog())
	broken := catalog.StatusBroken
	perfect := catalog.StatusPerfect

	tests := []struct {
		name       string
		wantSource Source
		wantStatus catalog.CompatStatus
		query      Query
		found      bool
	}{
		{
			name: "override beats exact record",
			query: Query{
				GameID: "god-of-war", PlatformID: fixtures.PlatformPS2,
				EmulatorID: fixtures.EmuAetherSX2, Override: &broken,
			},
			found: true, wantSource: SourceUserOverride, wantStatus: catalog.StatusBroken,
		},
		{
			name: "override rescues unknown game",
			query: Query{
				GameID: "unknown", PlatformID: fixtures.PlatformDreamcast,
				EmulatorID: fixtures.EmuFlycast, Override: &perfect,
			},
			found: true, wantSource: SourceUserOverride, wantStatus: catalog.StatusPerfect,
		},
		{
			name:  "exact record",
			query: Query{GameID: "god-of-war", PlatformID: fixtures.PlatformPS2, EmulatorID: fixtures.EmuAetherSX2},
			found: true, wantSource: SourceExact, wantStatus: catalog.StatusPlayable,
		},
		{
			name:  "platform default",
			query: Query{GameID: "goldeneye", PlatformID: fixtures.PlatformN64, EmulatorID: fixtures.EmuMupen},
			found: true, wantSource: SourcePlatformDefault, wantStatus: catalog.StatusIngame,
		},
		{
			name:  "platform default via alias",
			query: Query{GameID: "ff7", PlatformID: "PS1", EmulatorID: fixtures.EmuDuckStation},
			found: true, wantSource: SourcePlatformDefault, wantStatus: catalog.StatusPerfect,
		},
		{
			name:  "other emulator has no data",
			query: Query{GameID: "god-of-war", PlatformID: fixtures.PlatformPS2, EmulatorID: fixtures.EmuPCSX2},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m, ok := r.Resolve(tt.query)
			require.Equal(t, tt.found, ok)
			if !tt.found {
				return
			}
			assert.Equal(t, tt.wantSource, m.Source)
			assert.Equal(t, tt.wantStatus, m.Status)
			if tt.wantSource == SourceUserOverride {
				assert.Nil(t, m.Record)
			} else {
				assert.NotNil(t, m.Record)
			}
		})
	}
}

func TestNewResolverDuplicateKeys(t *testing.T) {
	t.Parallel()

	e := fixtures.CatalogEntries()
	e.Compatibility = []catalog.CompatibilityRecord{
		{
			GameID: "ico", PlatformID: fixtures.PlatformPS2, EmulatorID: fixtures.EmuPCSX2,
			Status: catalog.StatusPerfect, Source: catalog.Provenance{Name: "a", Confidence: catalog.ConfidenceLow},
		},
		{
			GameID: "ico", PlatformID: fixtures.PlatformPS2, EmulatorID: fixtures.EmuPCSX2,
			Status: catalog.StatusIngame, Source: catalog.Provenance{Name: "b", Confidence: catalog.ConfidenceHigh},
		},
		{
			GameID: "ico", PlatformID: fixtures.PlatformPS2, EmulatorID: fixtures.EmuPCSX2,
			Status: catalog.StatusPlayable, Source: catalog.Provenance{Name: "c", Confidence: catalog.ConfidenceHigh},
		},
	}
	c, _ := catalog.New(e)

	m, ok := NewResolver(c).Resolve(Query{
		GameID: "ico", PlatformID: fixtures.PlatformPS2, EmulatorID: fixtures.EmuPCSX2,
	})
	require.True(t, ok)
	assert.Equal(t, "b", m.Record.Source.Name)
}

func TestDecide(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status  catalog.CompatStatus
		reason  resolver.Reason
		include bool
		warned  bool
	}{
		{status: catalog.StatusPerfect, reason: resolver.ReasonCompatOK, include: true},
		{status: catalog.StatusPlayable, reason: resolver.ReasonCompatOK, include: true},
		{status: catalog.StatusIngame, reason: resolver.ReasonCompatIssues, include: true, warned: true},
		{status: catalog.StatusMenuIntro, reason: resolver.ReasonCompatIssues, include: true, warned: true},
		{status: catalog.StatusUnknown, reason: resolver.ReasonCompatIssues, include: true, warned: true},
		{status: catalog.StatusBootsOnly, reason: resolver.ReasonCompatBroken},
		{status: catalog.StatusBroken, reason: resolver.ReasonCompatBroken},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			t.Parallel()
			out := Decide(tt.status)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, tt.include, out.Include)
			assert.Equal(t, tt.warned, len(out.Warnings) > 0)
		})
	}
}
