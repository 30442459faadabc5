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

// Wildcard matches any game or emulator in a catalog record key.
const Wildcard = "*"

// GenericOSID names the profile used as the fallback layout for any OS.
const GenericOSID = "generic"

// IsWildcard reports whether an id key means "any".
func IsWildcard(id string) bool {
	return id == "" || id == Wildcard
}

// PerformanceTier is an ordinal rating of how well a game runs on a device.
type PerformanceTier string

const (
	TierUnplayable PerformanceTier = "unplayable"
	TierPoor       PerformanceTier = "poor"
	TierPlayable   PerformanceTier = "playable"
	TierGood       PerformanceTier = "good"
	TierExcellent  PerformanceTier = "excellent"
)

var tierRanks = map[PerformanceTier]int{
	TierUnplayable: 1,
	TierPoor:       2,
	TierPlayable:   3,
	TierGood:       4,
	TierExcellent:  5,
}

// Rank returns the tier's position in the ordering, 0 for unknown values.
func (t PerformanceTier) Rank() int {
	return tierRanks[t]
}

// Valid reports whether t is one of the known tiers.
func (t PerformanceTier) Valid() bool {
	return t.Rank() > 0
}

// CompatStatus is the emulator-specific correctness rating of a game.
type CompatStatus string

const (
	StatusPerfect   CompatStatus = "perfect"
	StatusPlayable  CompatStatus = "playable"
	StatusIngame    CompatStatus = "ingame"
	StatusMenuIntro CompatStatus = "menu_intro"
	StatusBootsOnly CompatStatus = "boots_only"
	StatusBroken    CompatStatus = "broken"
	StatusUnknown   CompatStatus = "unknown"
)

var statusRanks = map[CompatStatus]int{
	StatusUnknown:   1,
	StatusBroken:    2,
	StatusBootsOnly: 3,
	StatusMenuIntro: 4,
	StatusIngame:    5,
	StatusPlayable:  6,
	StatusPerfect:   7,
}

// Rank orders statuses from broken to perfect. Unknown sorts lowest so it
// never wins a tie against real data.
func (s CompatStatus) Rank() int {
	return statusRanks[s]
}

func (s CompatStatus) Valid() bool {
	return s.Rank() > 0
}

// Confidence is shared by provenance data and layout detection.
type Confidence string

const (
	ConfidenceNone   Confidence = "none"
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

var confidenceRanks = map[Confidence]int{
	ConfidenceNone:   0,
	ConfidenceLow:    1,
	ConfidenceMedium: 2,
	ConfidenceHigh:   3,
}

// Rank returns 0 (none) to 3 (high). Empty or unknown values rank as none.
func (c Confidence) Rank() int {
	return confidenceRanks[c]
}

func (c Confidence) Valid() bool {
	_, ok := confidenceRanks[c]
	return ok
}

// AtLeast reports whether c ranks at or above other.
func (c Confidence) AtLeast(other Confidence) bool {
	return c.Rank() >= other.Rank()
}

// Lower returns the next confidence step down, bottoming out at none.
func (c Confidence) Lower() Confidence {
	switch c {
	case ConfidenceHigh:
		return ConfidenceMedium
	case ConfidenceMedium:
		return ConfidenceLow
	default:
		return ConfidenceNone
	}
}

// MinConfidence returns the lowest of the given values.
func MinConfidence(cs ...Confidence) Confidence {
	if len(cs) == 0 {
		return ConfidenceNone
	}
	lowest := cs[0]
	for _, c := range cs[1:] {
		if c.Rank() < lowest.Rank() {
			lowest = c
		}
	}
	return lowest
}

// DifficultyTier classifies how demanding a platform is to emulate. Lower
// numbers are harder: 1 and 2 are the demanding tiers used by the
// missing-data policy.
type DifficultyTier int

const (
	DifficultyExtreme   DifficultyTier = 1
	DifficultyDemanding DifficultyTier = 2
	DifficultyModerate  DifficultyTier = 3
	DifficultyLight     DifficultyTier = 4
)

func (d DifficultyTier) Valid() bool {
	return d >= DifficultyExtreme && d <= DifficultyLight
}

// Demanding is true for tiers 1-2.
func (d DifficultyTier) Demanding() bool {
	return d == DifficultyExtreme || d == DifficultyDemanding
}

// Category is a kind of content written to a destination.
type Category string

const (
	CategoryBios        Category = "bios"
	CategoryRoms        Category = "roms"
	CategorySaves       Category = "saves"
	CategoryStates      Category = "states"
	CategoryScreenshots Category = "screenshots"
	CategoryConfig      Category = "config"
	CategoryUnknown     Category = "unknown"
)

// LayoutCategories are the categories a layout assigns a path to, in
// display order.
var LayoutCategories = []Category{
	CategoryBios,
	CategoryRoms,
	CategorySaves,
	CategoryStates,
	CategoryScreenshots,
}

// LayoutPaths holds a destination-relative path per layout category. Paths
// use forward slashes and are rooted at the destination, e.g. "/roms".
type LayoutPaths struct {
	Bios        string `json:"bios,omitempty" toml:"bios,omitempty"`
	Roms        string `json:"roms,omitempty" toml:"roms,omitempty"`
	Saves       string `json:"saves,omitempty" toml:"saves,omitempty"`
	States      string `json:"states,omitempty" toml:"states,omitempty"`
	Screenshots string `json:"screenshots,omitempty" toml:"screenshots,omitempty"`
}

// Get returns the path for a category, empty if unset or not a layout
// category.
func (lp LayoutPaths) Get(c Category) string {
	switch c {
	case CategoryBios:
		return lp.Bios
	case CategoryRoms:
		return lp.Roms
	case CategorySaves:
		return lp.Saves
	case CategoryStates:
		return lp.States
	case CategoryScreenshots:
		return lp.Screenshots
	default:
		return ""
	}
}

// Set assigns a category path. Non-layout categories are ignored.
func (lp *LayoutPaths) Set(c Category, path string) {
	switch c {
	case CategoryBios:
		lp.Bios = path
	case CategoryRoms:
		lp.Roms = path
	case CategorySaves:
		lp.Saves = path
	case CategoryStates:
		lp.States = path
	case CategoryScreenshots:
		lp.Screenshots = path
	default:
	}
}

// Overlay returns lp with every empty category filled from base.
func (lp LayoutPaths) Overlay(base LayoutPaths) LayoutPaths {
	out := base
	for _, c := range LayoutCategories {
		if p := lp.Get(c); p != "" {
			out.Set(c, p)
		}
	}
	return out
}

// IsEmpty is true when no category has a path.
func (lp LayoutPaths) IsEmpty() bool {
	for _, c := range LayoutCategories {
		if lp.Get(c) != "" {
			return false
		}
	}
	return true
}
