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

// Package gate decides inclusion when the catalog has no rating for a game.
//
// The two rule sets are deliberately asymmetric. Missing performance data
// is forgiven on platforms without coverage and on light platforms, since
// hardware only improves. Missing compatibility data is not forgiven on
// strict platforms, since a broken title stays broken.
package gate

import (
	"fmt"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver"
)

// Settings are the user toggles the gate consults. They are passed per
// call and never read from global state.
type Settings struct {
	AllowOptimisticStrict bool `json:"allowOptimisticStrict"`
}

// Performance decides a game with no performance rating.
func Performance(p catalog.PlatformPolicy) resolver.Outcome {
	switch {
	case !p.PerfCoverage:
		return resolver.Policy(resolver.ReasonPerfNoCoverageAssumeOK)
	case p.Difficulty.Demanding():
		return resolver.Exclude(resolver.ReasonPerfMissingStrict)
	default:
		return resolver.Policy(resolver.ReasonPerfMissingOptimistic)
	}
}

// Compatibility decides a game with no compatibility rating.
func Compatibility(p catalog.PlatformPolicy, s Settings) resolver.Outcome {
	switch {
	case p.Strict && s.AllowOptimisticStrict:
		return resolver.Warn(resolver.ReasonCompatMissingStrictOptimistic,
			fmt.Sprintf("no compatibility data for %s, included because optimistic mode is on", p.PlatformID))
	case p.Strict:
		return resolver.Exclude(resolver.ReasonCompatMissingStrict)
	default:
		return resolver.Policy(resolver.ReasonCompatMissingAssumeOK)
	}
}
