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

package helpers

import (
	"testing"

	"github.com/ZaparooProject/romrunner-core/pkg/autolist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertValidVerdict checks that a verdict is consistent with the stages
// that produced it. Use it on verdicts returned by production code.
func AssertValidVerdict(t *testing.T, v *autolist.Verdict) {
	t.Helper()

	require.NotNil(t, v, "verdict should not be nil")
	require.NotEmpty(t, v.GameID, "verdict game id is required")
	require.NotEmpty(t, v.PlatformID, "verdict platform id is required")
	require.NotEmpty(t, v.Stages, "verdict must record at least one stage")
	assert.NotNil(t, v.Warnings, "warnings must be an empty list, not null")
	assert.True(t, v.Reason.Valid(), "unknown reason %q", v.Reason)

	for i, s := range v.Stages {
		if s.Outcome.Include {
			continue
		}
		assert.False(t, v.Include, "excluded stage %s but verdict included", s.Name)
		assert.Equal(t, s.Outcome.Reason, v.Reason, "reason must come from the excluding stage")
		assert.Len(t, v.Stages, i+1, "no stage may run after an exclusion")
		return
	}
	assert.True(t, v.Include, "every stage included but verdict excluded")
}

// AssertValidVerdicts runs AssertValidVerdict on each verdict.
func AssertValidVerdicts(t *testing.T, verdicts []autolist.Verdict) {
	t.Helper()
	for i := range verdicts {
		AssertValidVerdict(t, &verdicts[i])
	}
}
