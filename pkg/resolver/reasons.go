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

// Package resolver holds the outcome vocabulary shared by the performance,
// compatibility and missing-data resolvers.
package resolver

// Reason is a machine-readable explanation attached to every verdict. The
// set is closed; callers may switch on it exhaustively.
type Reason string

const (
	ReasonUserOverrideInclude           Reason = "user-override-include"
	ReasonUserOverrideExclude           Reason = "user-override-exclude"
	ReasonNoEmulatorAvailable           Reason = "no-emulator-available"
	ReasonPerfOK                        Reason = "perf-ok"
	ReasonPerfPoor                      Reason = "perf-poor"
	ReasonPerfBelowMinimum              Reason = "perf-below-minimum"
	ReasonPerfFlaggedExclude            Reason = "perf-flagged-exclude"
	ReasonPerfNoCoverageAssumeOK        Reason = "perf-no-coverage-assume-ok"
	ReasonPerfMissingStrict             Reason = "perf-missing-strict"
	ReasonPerfMissingOptimistic         Reason = "perf-missing-optimistic"
	ReasonCompatOK                      Reason = "compat-ok"
	ReasonCompatIssues                  Reason = "compat-issues"
	ReasonCompatBroken                  Reason = "compat-broken"
	ReasonCompatMissingStrict           Reason = "compat-missing-strict"
	ReasonCompatMissingStrictOptimistic Reason = "compat-missing-strict-optimistic"
	ReasonCompatMissingAssumeOK         Reason = "compat-missing-assume-ok"
)

// AllReasons lists every reason code in declaration order.
var AllReasons = []Reason{
	ReasonUserOverrideInclude,
	ReasonUserOverrideExclude,
	ReasonNoEmulatorAvailable,
	ReasonPerfOK,
	ReasonPerfPoor,
	ReasonPerfBelowMinimum,
	ReasonPerfFlaggedExclude,
	ReasonPerfNoCoverageAssumeOK,
	ReasonPerfMissingStrict,
	ReasonPerfMissingOptimistic,
	ReasonCompatOK,
	ReasonCompatIssues,
	ReasonCompatBroken,
	ReasonCompatMissingStrict,
	ReasonCompatMissingStrictOptimistic,
	ReasonCompatMissingAssumeOK,
}

// Valid reports whether r is a member of the closed set.
func (r Reason) Valid() bool {
	for _, known := range AllReasons {
		if r == known {
			return true
		}
	}
	return false
}

// Outcome is the decision of a single evaluation stage.
type Outcome struct {
	Reason   Reason   `json:"reason"`
	Warnings []string `json:"warnings,omitempty"`
	Include  bool     `json:"include"`
	// Notable marks outcomes that came from a policy default or carry a
	// warning. The first notable reason of a game's stages becomes the
	// verdict reason.
	Notable bool `json:"notable"`
}

// Include builds an including outcome.
func Include(r Reason) Outcome {
	return Outcome{Include: true, Reason: r}
}

// Exclude builds an excluding outcome.
func Exclude(r Reason) Outcome {
	return Outcome{Include: false, Reason: r, Notable: true}
}

// Warn builds an including outcome that carries a warning.
func Warn(r Reason, msg string) Outcome {
	return Outcome{Include: true, Reason: r, Warnings: []string{msg}, Notable: true}
}

// Policy builds an including outcome that came from a missing-data policy
// rather than catalog data.
func Policy(r Reason) Outcome {
	return Outcome{Include: true, Reason: r, Notable: true}
}
