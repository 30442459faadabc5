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

package policy

import (
	"testing"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/testing/fixtures"
	"github.com/stretchr/testify/assert"
)

func TestLookupKnownPlatforms(t *testing.T) {
	t.Parallel()

	s := NewStore(fixtures.NewCatalog())

	tests := []struct {
		platform   string
		difficulty catalog.DifficultyTier
		strict     bool
		coverage   bool
	}{
		{platform: fixtures.PlatformPS2, difficulty: catalog.DifficultyExtreme, strict: true, coverage: true},
		{platform: fixtures.PlatformN64, difficulty: catalog.DifficultyDemanding, coverage: true},
		{platform: fixtures.PlatformPSX, difficulty: catalog.DifficultyModerate, coverage: true},
		{platform: fixtures.PlatformGBA, difficulty: catalog.DifficultyLight},
		{platform: "PlayStation 2", difficulty: catalog.DifficultyExtreme, strict: true, coverage: true},
	}

	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			t.Parallel()
			l := s.Lookup(tt.platform)
			assert.Empty(t, l.Warning)
			assert.True(t, l.Policy.Known)
			assert.Equal(t, tt.difficulty, l.Policy.Difficulty)
			assert.Equal(t, tt.strict, l.Policy.Strict)
			assert.Equal(t, tt.coverage, l.Policy.PerfCoverage)
		})
	}
}

func TestLookupUnknownPlatformUsesDefaults(t *testing.T) {
	t.Parallel()

	e := fixtures.CatalogEntries()
	e.Defaults = catalog.PolicyDefaults{Difficulty: catalog.DifficultyDemanding, Strict: true}
	c, _ := catalog.New(e)
	s := NewStore(c)

	l := s.Lookup("saturn")
	assert.False(t, l.Policy.Known)
	assert.Equal(t, "saturn", l.Policy.PlatformID)
	assert.Equal(t, catalog.DifficultyDemanding, l.Policy.Difficulty)
	assert.True(t, l.Policy.Strict)
	assert.False(t, l.Policy.PerfCoverage)
	assert.Contains(t, l.Warning, "saturn")
}
