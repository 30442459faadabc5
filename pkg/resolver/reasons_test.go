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

package resolver

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReasonSetIsClosed(t *testing.T) {
	t.Parallel()

	seen := make(map[Reason]bool, len(AllReasons))
	for _, r := range AllReasons {
		assert.False(t, seen[r], "duplicate reason %s", r)
		seen[r] = true
		assert.True(t, r.Valid())
	}
	assert.Len(t, AllReasons, 16)
	assert.False(t, Reason("perf-great").Valid())
}

func TestOutcomeConstructors(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Outcome{Include: true, Reason: ReasonPerfOK}, Include(ReasonPerfOK))
	assert.False(t, Exclude(ReasonCompatBroken).Include)
	assert.True(t, Exclude(ReasonCompatBroken).Notable)

	w := Warn(ReasonPerfPoor, "runs poorly")
	assert.True(t, w.Include)
	assert.Equal(t, []string{"runs poorly"}, w.Warnings)

	p := Policy(ReasonPerfNoCoverageAssumeOK)
	assert.True(t, p.Include)
	assert.True(t, p.Notable)
	assert.Empty(t, p.Warnings)
}
