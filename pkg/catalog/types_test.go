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
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestTierOrdering(t *testing.T) {
	t.Parallel()

	order := []PerformanceTier{TierUnplayable, TierPoor, TierPlayable, TierGood, TierExcellent}
	for i := 1; i < len(order); i++ {
		assert.Less(t, order[i-1].Rank(), order[i].Rank())
	}
	assert.False(t, PerformanceTier("meh").Valid())
}

func TestConfidenceLowerAndMin(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ConfidenceMedium, ConfidenceHigh.Lower())
	assert.Equal(t, ConfidenceLow, ConfidenceMedium.Lower())
	assert.Equal(t, ConfidenceNone, ConfidenceLow.Lower())
	assert.Equal(t, ConfidenceNone, ConfidenceNone.Lower())

	assert.Equal(t, ConfidenceLow, MinConfidence(ConfidenceHigh, ConfidenceLow, ConfidenceMedium))
	assert.Equal(t, ConfidenceNone, MinConfidence())
	assert.True(t, ConfidenceHigh.AtLeast(ConfidenceMedium))
	assert.False(t, ConfidenceLow.AtLeast(ConfidenceMedium))
}

func TestDifficultyDemanding(t *testing.T) {
	t.Parallel()

	assert.True(t, DifficultyExtreme.Demanding())
	assert.True(t, DifficultyDemanding.Demanding())
	assert.False(t, DifficultyModerate.Demanding())
	assert.False(t, DifficultyLight.Demanding())
	assert.False(t, DifficultyTier(0).Valid())
}

func TestLayoutPathsOverlay(t *testing.T) {
	t.Parallel()

	base := LayoutPaths{Bios: "/bios", Roms: "/roms", Saves: "/saves"}
	top := LayoutPaths{Roms: "/games", Screenshots: "/shots"}

	got := top.Overlay(base)
	assert.Equal(t, LayoutPaths{
		Bios: "/bios", Roms: "/games", Saves: "/saves", Screenshots: "/shots",
	}, got)
	assert.True(t, LayoutPaths{}.IsEmpty())
	assert.False(t, got.IsEmpty())
}

func TestLayoutPathsSetGetProperty(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		cat := rapid.SampledFrom(LayoutCategories).Draw(t, "category")
		p := rapid.StringMatching(`/[a-z]{1,10}`).Draw(t, "path")

		var lp LayoutPaths
		lp.Set(cat, p)
		if lp.Get(cat) != p {
			t.Fatalf("Get(%s) = %q, want %q", cat, lp.Get(cat), p)
		}
		for _, other := range LayoutCategories {
			if other != cat && lp.Get(other) != "" {
				t.Fatalf("Set(%s) leaked into %s", cat, other)
			}
		}
	})
}

func TestNormalizeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "PlayStation 2", want: "playstation_2"},
		{in: "  Sega--Saturn ", want: "sega_saturn"},
		{in: "Pokémon", want: "pokemon"},
		{in: "ｐｓ２", want: "ps2"},
		{in: "", want: ""},
		{in: "a.b_c", want: "a_b_c"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, NormalizeID(tt.in))
		})
	}
}

func TestNormalizeStatus(t *testing.T) {
	t.Parallel()

	tests := []struct {
		raw  string
		want PerformanceTier
		ok   bool
	}{
		{raw: "Perfect", want: TierExcellent, ok: true},
		{raw: "  great ", want: TierGood, ok: true},
		{raw: "Minor   Issues", want: TierPlayable, ok: true},
		{raw: "major issues", want: TierPoor, ok: true},
		{raw: "Doesn’t work", want: TierUnplayable, ok: true},
		{raw: "CRASHES", want: TierUnplayable, ok: true},
		{raw: "maybe", ok: false},
		{raw: "", ok: false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			got, ok := NormalizeStatus(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
