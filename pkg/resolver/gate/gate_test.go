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

package gate

import (
	"testing"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver"
	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestPerformance(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reason  resolver.Reason
		policy  catalog.PlatformPolicy
		include bool
	}{
		{
			name:   "no coverage on extreme platform",
			policy: catalog.PlatformPolicy{Difficulty: catalog.DifficultyExtreme},
			reason: resolver.ReasonPerfNoCoverageAssumeOK, include: true,
		},
		{
			name:   "covered extreme",
			policy: catalog.PlatformPolicy{Difficulty: catalog.DifficultyExtreme, PerfCoverage: true},
			reason: resolver.ReasonPerfMissingStrict,
		},
		{
			name:   "covered demanding",
			policy: catalog.PlatformPolicy{Difficulty: catalog.DifficultyDemanding, PerfCoverage: true},
			reason: resolver.ReasonPerfMissingStrict,
		},
		{
			name:   "covered moderate",
			policy: catalog.PlatformPolicy{Difficulty: catalog.DifficultyModerate, PerfCoverage: true},
			reason: resolver.ReasonPerfMissingOptimistic, include: true,
		},
		{
			name:   "covered light",
			policy: catalog.PlatformPolicy{Difficulty: catalog.DifficultyLight, PerfCoverage: true},
			reason: resolver.ReasonPerfMissingOptimistic, include: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := Performance(tt.policy)
			assert.Equal(t, tt.reason, out.Reason)
			assert.Equal(t, tt.include, out.Include)
			assert.True(t, out.Notable)
		})
	}
}

func TestCompatibility(t *testing.T) {
	t.Parallel()

	strict := catalog.PlatformPolicy{PlatformID: "ps2", Strict: true}
	lenient := catalog.PlatformPolicy{PlatformID: "gba"}

	out := Compatibility(strict, Settings{})
	assert.False(t, out.Include)
	assert.Equal(t, resolver.ReasonCompatMissingStrict, out.Reason)

	out = Compatibility(strict, Settings{AllowOptimisticStrict: true})
	assert.True(t, out.Include)
	assert.Equal(t, resolver.ReasonCompatMissingStrictOptimistic, out.Reason)
	assert.Len(t, out.Warnings, 1)

	for _, s := range []Settings{{}, {AllowOptimisticStrict: true}} {
		out = Compatibility(lenient, s)
		assert.True(t, out.Include)
		assert.Equal(t, resolver.ReasonCompatMissingAssumeOK, out.Reason)
	}
}

func TestGateNeverExcludesWithoutCause(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		p := catalog.PlatformPolicy{
			Difficulty:   catalog.DifficultyTier(rapid.IntRange(1, 4).Draw(t, "tier")),
			Strict:       rapid.Bool().Draw(t, "strict"),
			PerfCoverage: rapid.Bool().Draw(t, "coverage"),
		}
		s := Settings{AllowOptimisticStrict: rapid.Bool().Draw(t, "optimistic")}

		perf := Performance(p)
		if !perf.Include && !(p.PerfCoverage && p.Difficulty.Demanding()) {
			t.Fatalf("performance excluded without coverage on demanding tier: %+v", p)
		}
		compat := Compatibility(p, s)
		if !compat.Include && !(p.Strict && !s.AllowOptimisticStrict) {
			t.Fatalf("compatibility excluded a non-strict or optimistic platform: %+v %+v", p, s)
		}
		if !perf.Reason.Valid() || !compat.Reason.Valid() {
			t.Fatalf("reason outside closed set")
		}
	})
}
