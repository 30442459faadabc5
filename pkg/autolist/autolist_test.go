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

package autolist

import (
	"context"
	"testing"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver/gate"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver/osprofile"
	"github.com/ZaparooProject/romrunner-core/pkg/testing/fixtures"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func newTarget(cat *catalog.Catalog, deviceID, osID string) *Target {
	return &Target{
		DeviceID: deviceID,
		Profile:  osprofile.NewResolver(cat).Resolve(deviceID, osID),
	}
}

func TestEvaluate(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	gen := NewGenerator(cat, Settings{})

	tests := []struct {
		name         string
		device       string
		os           string
		game         string
		platform     string
		wantEmulator string
		wantReason   resolver.Reason
		wantWarnings int
		wantInclude  bool
	}{
		{
			name: "demanding platform without rating", device: "d1", os: fixtures.OSRocknix,
			game: "g1", platform: fixtures.PlatformPS2,
			wantEmulator: fixtures.EmuAetherSX2, wantReason: resolver.ReasonPerfMissingStrict,
			wantWarnings: 0, wantInclude: false,
		},
		{
			name: "rated and compatible", device: fixtures.DeviceRP5, os: fixtures.OSRocknix,
			game: "god-of-war", platform: fixtures.PlatformPS2,
			wantEmulator: fixtures.EmuAetherSX2, wantReason: resolver.ReasonCompatOK,
			wantInclude: true,
		},
		{
			name: "flagged on chipset", device: fixtures.DeviceRG353V, os: fixtures.OSArkOS,
			game: "god-of-war", platform: fixtures.PlatformPS2,
			wantEmulator: fixtures.EmuPCSX2, wantReason: resolver.ReasonPerfFlaggedExclude,
			wantInclude: false,
		},
		{
			name: "poor with issues", device: fixtures.DeviceRG353V, os: fixtures.OSRocknix,
			game: "goldeneye", platform: fixtures.PlatformN64,
			wantEmulator: fixtures.EmuMupen, wantReason: resolver.ReasonPerfPoor,
			wantWarnings: 2, wantInclude: true,
		},
		{
			name: "broken", device: fixtures.DeviceOdin2, os: fixtures.OSRocknix,
			game: "shadow-hearts", platform: fixtures.PlatformPS2,
			wantEmulator: fixtures.EmuAetherSX2, wantReason: resolver.ReasonCompatBroken,
			wantInclude: false,
		},
		{
			name: "strict platform without compat data", device: fixtures.DeviceRP5, os: fixtures.OSRocknix,
			game: "soulcalibur", platform: fixtures.PlatformDreamcast,
			wantEmulator: fixtures.EmuFlycast, wantReason: resolver.ReasonCompatMissingStrict,
			wantInclude: false,
		},
		{
			name: "no coverage", device: fixtures.DeviceRG353V, os: fixtures.OSRocknix,
			game: "minish-cap", platform: fixtures.PlatformGBA,
			wantEmulator: fixtures.EmuMGBA, wantReason: resolver.ReasonPerfNoCoverageAssumeOK,
			wantInclude: true,
		},
		{
			name: "no emulator in profile", device: fixtures.DeviceRG353V, os: fixtures.OSArkOS,
			game: "soulcalibur", platform: fixtures.PlatformDreamcast,
			wantReason: resolver.ReasonNoEmulatorAvailable, wantInclude: false,
		},
		{
			name: "platform alias", device: fixtures.DeviceRG353V, os: fixtures.OSKnulli,
			game: "vagrant-story", platform: "PS1",
			wantEmulator: fixtures.EmuDuckStation, wantReason: resolver.ReasonCompatOK,
			wantInclude: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := gen.Evaluate(newTarget(cat, tt.device, tt.os), nil, Candidate{
				GameID: tt.game, PlatformID: tt.platform,
			})
			assert.Equal(t, tt.wantInclude, v.Include)
			assert.Equal(t, tt.wantReason, v.Reason)
			assert.Equal(t, tt.wantEmulator, v.EmulatorID)
			assert.Len(t, v.Warnings, tt.wantWarnings)
			assert.True(t, v.Reason.Valid())
		})
	}
}

func TestEvaluate_PerformanceStopsBeforeCompat(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	gen := NewGenerator(cat, Settings{})

	v := gen.Evaluate(newTarget(cat, fixtures.DeviceRG353V, fixtures.OSArkOS), nil, Candidate{
		GameID: "god-of-war", PlatformID: fixtures.PlatformPS2,
	})
	require.Len(t, v.Stages, 1)
	assert.Equal(t, StagePerformance, v.Stages[0].Name)
}

func TestEvaluate_MinimumTier(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	gen := NewGenerator(cat, Settings{MinPerformanceTier: catalog.TierPlayable})

	v := gen.Evaluate(newTarget(cat, fixtures.DeviceRG353V, fixtures.OSRocknix), nil, Candidate{
		GameID: "goldeneye", PlatformID: fixtures.PlatformN64,
	})
	assert.False(t, v.Include)
	assert.Equal(t, resolver.ReasonPerfBelowMinimum, v.Reason)
}

func TestEvaluate_OptimisticStrict(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	gen := NewGenerator(cat, Settings{Gate: gate.Settings{AllowOptimisticStrict: true}})

	v := gen.Evaluate(newTarget(cat, fixtures.DeviceRP5, fixtures.OSRocknix), nil, Candidate{
		GameID: "soulcalibur", PlatformID: fixtures.PlatformDreamcast,
	})
	assert.True(t, v.Include)
	assert.Equal(t, resolver.ReasonPerfNoCoverageAssumeOK, v.Reason)
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "optimistic")
}

func TestEvaluate_UserOverrides(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	gen := NewGenerator(cat, Settings{})
	target := newTarget(cat, fixtures.DeviceOdin2, fixtures.OSRocknix)

	tests := []struct {
		name         string
		games        []database.GameOverride
		platforms    []database.PlatformOverride
		candidate    Candidate
		wantEmulator string
		wantReason   resolver.Reason
		wantInclude  bool
	}{
		{
			name: "include beats broken",
			games: []database.GameOverride{{
				PlatformID: fixtures.PlatformPS2, GameID: "shadow-hearts", Action: database.GameActionInclude,
			}},
			candidate:   Candidate{GameID: "shadow-hearts", PlatformID: fixtures.PlatformPS2},
			wantReason:  resolver.ReasonUserOverrideInclude,
			wantInclude: true,
		},
		{
			name: "exclude",
			games: []database.GameOverride{{
				PlatformID: fixtures.PlatformPS2, GameID: "god-of-war", Action: database.GameActionExclude,
			}},
			candidate:   Candidate{GameID: "god-of-war", PlatformID: fixtures.PlatformPS2},
			wantReason:  resolver.ReasonUserOverrideExclude,
			wantInclude: false,
		},
		{
			name: "user compat status",
			games: []database.GameOverride{{
				PlatformID: fixtures.PlatformPS2, GameID: "shadow-hearts", CompatStatus: catalog.StatusPlayable,
			}},
			candidate:    Candidate{GameID: "shadow-hearts", PlatformID: fixtures.PlatformPS2},
			wantEmulator: fixtures.EmuAetherSX2,
			wantReason:   resolver.ReasonCompatOK,
			wantInclude:  true,
		},
		{
			name: "forced emulator",
			games: []database.GameOverride{{
				PlatformID: fixtures.PlatformPS2, GameID: "shadow-hearts", ForceEmulatorID: fixtures.EmuPCSX2,
			}},
			candidate:    Candidate{GameID: "shadow-hearts", PlatformID: fixtures.PlatformPS2},
			wantEmulator: fixtures.EmuPCSX2,
			wantReason:   resolver.ReasonCompatMissingStrict,
			wantInclude:  false,
		},
		{
			name:         "platform emulator for unknown platform",
			platforms:    []database.PlatformOverride{{PlatformID: "wonderswan", EmulatorID: "mednafen"}},
			candidate:    Candidate{GameID: "gunpey", PlatformID: "wonderswan"},
			wantEmulator: "mednafen",
			wantReason:   resolver.ReasonPerfNoCoverageAssumeOK,
			wantInclude:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			v := gen.Evaluate(target, NewOverrides(tt.games, tt.platforms), tt.candidate)
			assert.Equal(t, tt.wantInclude, v.Include)
			assert.Equal(t, tt.wantReason, v.Reason)
			assert.Equal(t, tt.wantEmulator, v.EmulatorID)
		})
	}
}

func TestEvaluate_UnknownPlatformWarns(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	gen := NewGenerator(cat, Settings{})
	ov := NewOverrides(nil, []database.PlatformOverride{{PlatformID: "wonderswan", EmulatorID: "mednafen"}})

	v := gen.Evaluate(newTarget(cat, fixtures.DeviceRP5, fixtures.OSRocknix), ov, Candidate{
		GameID: "gunpey", PlatformID: "wonderswan",
	})
	require.Len(t, v.Warnings, 1)
	assert.Contains(t, v.Warnings[0], "not in the catalog")
}

func TestEvaluate_StrictWithoutCompatProperty(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	gen := NewGenerator(cat, Settings{})
	ov := NewOverrides(nil, []database.PlatformOverride{
		{PlatformID: fixtures.PlatformDreamcast, EmulatorID: fixtures.EmuFlycast},
	})

	rapid.Check(t, func(t *rapid.T) {
		game := rapid.StringMatching(`[a-z]{3,12}`).Draw(t, "game")
		platform := rapid.SampledFrom([]string{fixtures.PlatformPS2, fixtures.PlatformDreamcast}).Draw(t, "platform")
		device := rapid.SampledFrom([]string{fixtures.DeviceRP5, fixtures.DeviceOdin2}).Draw(t, "device")

		v := gen.Evaluate(newTarget(cat, device, fixtures.OSRocknix), ov, Candidate{
			GameID: game, PlatformID: platform,
		})
		if v.Include || v.Reason != resolver.ReasonCompatMissingStrict {
			t.Fatalf("%s/%s on %s: include=%v reason=%s", platform, game, device, v.Include, v.Reason)
		}
	})
}

func TestEvaluate_NoCoverageProperty(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	gen := NewGenerator(cat, Settings{Gate: gate.Settings{AllowOptimisticStrict: true}})
	ov := NewOverrides(nil, []database.PlatformOverride{
		{PlatformID: fixtures.PlatformDreamcast, EmulatorID: fixtures.EmuFlycast},
	})

	rapid.Check(t, func(t *rapid.T) {
		game := rapid.StringMatching(`[a-z]{3,12}`).Draw(t, "game")
		platform := rapid.SampledFrom([]string{fixtures.PlatformGBA, fixtures.PlatformDreamcast}).Draw(t, "platform")
		device := rapid.SampledFrom([]string{
			fixtures.DeviceRG353V, fixtures.DeviceRP5, fixtures.DeviceOdin2, "unknown-device",
		}).Draw(t, "device")

		v := gen.Evaluate(newTarget(cat, device, fixtures.OSRocknix), ov, Candidate{
			GameID: game, PlatformID: platform,
		})
		if !v.Include || v.Reason != resolver.ReasonPerfNoCoverageAssumeOK {
			t.Fatalf("%s/%s on %s: include=%v reason=%s", platform, game, device, v.Include, v.Reason)
		}
	})
}

func TestEvaluateBatch_OrderAndConcurrencyIndependent(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	target := newTarget(cat, fixtures.DeviceRG353V, fixtures.OSRocknix)

	pool := []Candidate{
		{GameID: "god-of-war", PlatformID: fixtures.PlatformPS2},
		{GameID: "goldeneye", PlatformID: fixtures.PlatformN64},
		{GameID: "mario-kart", PlatformID: fixtures.PlatformN64},
		{GameID: "vagrant-story", PlatformID: "PS1"},
		{GameID: "minish-cap", PlatformID: fixtures.PlatformGBA},
		{GameID: "soulcalibur", PlatformID: fixtures.PlatformDreamcast},
		{GameID: "gunpey", PlatformID: "wonderswan"},
	}

	rapid.Check(t, func(t *rapid.T) {
		workers := rapid.IntRange(1, 8).Draw(t, "workers")
		candidates := rapid.SliceOfN(rapid.SampledFrom(pool), 0, 40).Draw(t, "candidates")

		gen := NewGenerator(cat, Settings{Workers: workers})
		verdicts, err := gen.EvaluateBatch(context.Background(), target, nil, candidates)
		if err != nil {
			t.Fatalf("batch: %v", err)
		}
		if len(verdicts) != len(candidates) {
			t.Fatalf("got %d verdicts for %d candidates", len(verdicts), len(candidates))
		}
		for i, c := range candidates {
			want := gen.Evaluate(target, nil, c)
			if verdicts[i].GameID != c.GameID || verdicts[i].Reason != want.Reason ||
				verdicts[i].Include != want.Include {
				t.Fatalf("verdict %d differs: got %+v want %+v", i, verdicts[i], want)
			}
		}
	})
}

func TestEvaluateBatch_Cancelled(t *testing.T) {
	t.Parallel()
	cat := fixtures.NewCatalog()
	gen := NewGenerator(cat, Settings{Workers: 2})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	verdicts, err := gen.EvaluateBatch(ctx, newTarget(cat, fixtures.DeviceRP5, ""), nil, []Candidate{
		{GameID: "god-of-war", PlatformID: fixtures.PlatformPS2},
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, verdicts)
}

func TestSummary(t *testing.T) {
	t.Parallel()
	included, excluded, byReason := Summary([]Verdict{
		{Include: true, Reason: resolver.ReasonCompatOK},
		{Include: true, Reason: resolver.ReasonCompatOK},
		{Include: false, Reason: resolver.ReasonCompatBroken},
	})
	assert.Equal(t, 2, included)
	assert.Equal(t, 1, excluded)
	assert.Equal(t, 2, byReason[resolver.ReasonCompatOK])
}
