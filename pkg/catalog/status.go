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

import "strings"

// statusAliases maps the rating wording seen in community sheets to tiers.
// Keys are lowercase with collapsed whitespace.
var statusAliases = map[string]PerformanceTier{
	"perfect":       TierExcellent,
	"excellent":     TierExcellent,
	"flawless":      TierExcellent,
	"great":         TierGood,
	"good":          TierGood,
	"playable":      TierPlayable,
	"works":         TierPlayable,
	"ok":            TierPlayable,
	"runs":          TierPlayable,
	"minor issues":  TierPlayable,
	"poor":          TierPoor,
	"bad":           TierPoor,
	"major issues":  TierPoor,
	"unplayable":    TierUnplayable,
	"broken":        TierUnplayable,
	"doesn't work":  TierUnplayable,
	"does not work": TierUnplayable,
	"crash":         TierUnplayable,
	"crashes":       TierUnplayable,
}

// NormalizeStatus maps free-form status text to a performance tier.
func NormalizeStatus(raw string) (PerformanceTier, bool) {
	key := strings.Join(strings.Fields(strings.ToLower(raw)), " ")
	key = strings.ReplaceAll(key, "’", "'")
	if key == "" {
		return "", false
	}
	tier, ok := statusAliases[key]
	return tier, ok
}
