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

package fixtures

import (
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
)

// Sample catalog ids used across tests.
const (
	PlatformPS2       = "ps2"
	PlatformN64       = "n64"
	PlatformPSX       = "psx"
	PlatformGBA       = "gba"
	PlatformDreamcast = "dreamcast"

	ChipsetRK3566 = "rk3566"
	ChipsetSD865  = "sd865"

	DeviceRG353V = "rg353v"
	DeviceRP5    = "retroid-pocket-5"
	DeviceOdin2  = "odin2"

	OSArkOS    = "arkos"
	OSRocknix  = "rocknix"
	OSKnulli   = "knulli"
	OSBatocera = "batocera"
	OSAndroid  = "android"

	EmuAetherSX2   = "aethersx2"
	EmuPCSX2       = "pcsx2"
	EmuMupen       = "mupen64plus"
	EmuDuckStation = "duckstation"
	EmuRearmed     = "pcsx_rearmed"
	EmuMGBA        = "mgba"
	EmuFlycast     = "flycast"
)

// CatalogEntries returns a fresh copy of a small but complete catalog:
// five platforms across every difficulty tier, two chipsets, three
// devices, five operating systems with layout profiles and fingerprints.
func CatalogEntries() *catalog.Entries {
	return &catalog.Entries{
		Meta: catalog.Meta{
			Version:       "2026.10.1",
			SchemaVersion: catalog.SchemaVersion,
			ReleaseDate:   "2026-10-01",
			LoadedAt:      time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC),
		},
		Defaults: catalog.BuiltinPolicyDefaults,
		Platforms: []catalog.Platform{
			{
				ID: PlatformPS2, Name: "PlayStation 2", Aliases: []string{"PlayStation 2", "playstation2"},
				DefaultEmulator: EmuAetherSX2, Difficulty: catalog.DifficultyExtreme,
				Strict: true, PerfCoverage: true,
			},
			{
				ID: PlatformN64, Name: "Nintendo 64", Aliases: []string{"Nintendo 64"},
				DefaultEmulator: EmuMupen, Difficulty: catalog.DifficultyDemanding,
				PerfCoverage: true,
			},
			{
				ID: PlatformPSX, Name: "PlayStation", Aliases: []string{"PS1", "PlayStation"},
				DefaultEmulator: EmuDuckStation, Difficulty: catalog.DifficultyModerate,
				PerfCoverage: true,
			},
			{
				ID: PlatformGBA, Name: "Game Boy Advance",
				DefaultEmulator: EmuMGBA, Difficulty: catalog.DifficultyLight,
			},
			{
				ID: PlatformDreamcast, Name: "Dreamcast",
				DefaultEmulator: EmuFlycast, Difficulty: catalog.DifficultyDemanding,
				Strict: true,
			},
		},
		Chipsets: []catalog.Chipset{
			{ID: ChipsetRK3566, Name: "RK3566", Manufacturer: "Rockchip"},
			{ID: ChipsetSD865, Name: "Snapdragon 865", Manufacturer: "Qualcomm"},
		},
		OperatingSystems: []catalog.OperatingSystem{
			{ID: OSArkOS, Name: "ArkOS", Family: "arkos"},
			{ID: OSRocknix, Name: "ROCKNIX", Family: "jelos"},
			{ID: OSKnulli, Name: "Knulli", Family: "batocera"},
			{ID: OSBatocera, Name: "Batocera", Family: "batocera"},
			{ID: OSAndroid, Name: "Android", Family: "android"},
		},
		Devices: []catalog.Device{
			{
				ID: DeviceRG353V, Name: "Anbernic RG353V", ChipsetID: ChipsetRK3566,
				SupportedOS: []string{OSArkOS, OSRocknix, OSKnulli}, DefaultOS: OSRocknix,
			},
			{
				ID: DeviceRP5, Name: "Retroid Pocket 5", ChipsetID: ChipsetSD865,
				SupportedOS: []string{OSAndroid, OSRocknix}, DefaultOS: OSAndroid,
			},
			{
				ID: DeviceOdin2, Name: "AYN Odin 2", ChipsetID: ChipsetSD865,
				SupportedOS: []string{OSAndroid, OSRocknix}, DefaultOS: OSAndroid,
			},
		},
		Emulators: []catalog.Emulator{
			{ID: EmuAetherSX2, Name: "AetherSX2", Platforms: []string{PlatformPS2}},
			{ID: EmuPCSX2, Name: "PCSX2", Platforms: []string{PlatformPS2}},
			{ID: EmuMupen, Name: "Mupen64Plus", Platforms: []string{PlatformN64}},
			{ID: EmuDuckStation, Name: "DuckStation", Platforms: []string{PlatformPSX}},
			{ID: EmuRearmed, Name: "PCSX ReARMed", Platforms: []string{PlatformPSX}},
			{ID: EmuMGBA, Name: "mGBA", Platforms: []string{PlatformGBA}},
			{ID: EmuFlycast, Name: "Flycast", Platforms: []string{PlatformDreamcast}},
		},
		Performance: []catalog.PerformanceRecord{
			{
				GameID: "god-of-war", PlatformID: PlatformPS2, DeviceID: DeviceRP5,
				EmulatorID: EmuAetherSX2, Tier: catalog.TierGood,
				Source: catalog.Provenance{Name: "tester-a", Confidence: catalog.ConfidenceHigh},
			},
			{
				GameID: "god-of-war", PlatformID: PlatformPS2, ChipsetID: ChipsetRK3566,
				Tier: catalog.TierUnplayable, ExcludeFromAutoLists: true,
				Source: catalog.Provenance{Name: "sheet", Confidence: catalog.ConfidenceMedium},
			},
			{
				GameID: catalog.Wildcard, PlatformID: PlatformPS2, ChipsetID: ChipsetSD865,
				Tier:   catalog.TierPlayable,
				Source: catalog.Provenance{Name: "sheet", Confidence: catalog.ConfidenceLow},
			},
			{
				GameID: "goldeneye", PlatformID: PlatformN64, ChipsetID: ChipsetRK3566,
				Tier:   catalog.TierPoor,
				Source: catalog.Provenance{Name: "sheet", Confidence: catalog.ConfidenceMedium},
			},
			{
				GameID: catalog.Wildcard, PlatformID: PlatformPSX, ChipsetID: ChipsetRK3566,
				Tier:   catalog.TierExcellent,
				Source: catalog.Provenance{Name: "sheet", Confidence: catalog.ConfidenceHigh},
			},
		},
		Compatibility: []catalog.CompatibilityRecord{
			{
				GameID: "god-of-war", PlatformID: PlatformPS2, EmulatorID: EmuAetherSX2,
				Status: catalog.StatusPlayable,
				Source: catalog.Provenance{Name: "compat-db", Confidence: catalog.ConfidenceHigh},
			},
			{
				GameID: "shadow-hearts", PlatformID: PlatformPS2, EmulatorID: EmuAetherSX2,
				Status: catalog.StatusBroken,
			},
			{
				GameID: catalog.Wildcard, PlatformID: PlatformN64, EmulatorID: EmuMupen,
				Status: catalog.StatusIngame,
			},
			{
				GameID: catalog.Wildcard, PlatformID: PlatformPSX, EmulatorID: EmuDuckStation,
				Status: catalog.StatusPerfect,
			},
		},
		Profiles: []catalog.OSLayoutProfile{
			{
				OSID: OSArkOS,
				Paths: catalog.LayoutPaths{
					Bios: "/roms/bios", Roms: "/roms", Saves: "/saves",
					States: "/savestates", Screenshots: "/screenshots",
				},
				Emulators: []string{EmuPCSX2, EmuMupen, EmuRearmed, EmuMGBA},
				DefaultEmulators: map[string]string{
					PlatformPS2: EmuPCSX2, PlatformN64: EmuMupen,
					PlatformPSX: EmuRearmed, PlatformGBA: EmuMGBA,
				},
				FingerprintID: "arkos-standard",
			},
			{
				OSID: OSRocknix,
				Paths: catalog.LayoutPaths{
					Bios: "/roms/bios", Roms: "/roms", Saves: "/roms/saves",
					States: "/roms/savestates", Screenshots: "/roms/screenshots",
				},
				Emulators: []string{EmuAetherSX2, EmuMupen, EmuDuckStation, EmuMGBA, EmuFlycast},
				DefaultEmulators: map[string]string{
					PlatformPS2: EmuAetherSX2, PlatformN64: EmuMupen,
					PlatformPSX: EmuDuckStation, PlatformGBA: EmuMGBA,
				},
				FingerprintID: "rocknix",
			},
			{
				OSID:     OSRocknix,
				DeviceID: DeviceRP5,
				Paths:    catalog.LayoutPaths{Screenshots: "/screenshots"},
				DefaultEmulators: map[string]string{
					PlatformDreamcast: EmuFlycast,
				},
			},
			{
				OSID: OSKnulli,
				Paths: catalog.LayoutPaths{
					Bios: "/share/bios", Roms: "/share/roms", Saves: "/share/saves",
					Screenshots: "/share/screenshots",
				},
				DefaultEmulators: map[string]string{PlatformPSX: EmuDuckStation},
				FingerprintID:    "knulli",
			},
			{
				OSID: OSBatocera,
				Paths: catalog.LayoutPaths{
					Bios: "/share/bios", Roms: "/share/roms", Saves: "/share/saves",
					Screenshots: "/share/screenshots",
				},
				FingerprintID: "batocera",
			},
		},
		Fingerprints: []catalog.LayoutFingerprint{
			{
				ID: "arkos-standard", OSID: OSArkOS,
				AllMarkers:  []string{"roms", "roms/bios"},
				AnyMarkers:  []string{".arkos", "themes"},
				NoneMarkers: []string{"share", ".config/rocknix"},
				Paths: catalog.LayoutPaths{
					Bios: "/roms/bios", Roms: "/roms", Saves: "/saves", States: "/savestates",
				},
			},
			{
				ID: "rocknix", OSID: OSRocknix,
				AllMarkers: []string{"roms/bios", ".config/rocknix"},
				AnyMarkers: []string{".config/rocknix", "storage"},
				Paths: catalog.LayoutPaths{
					Bios: "/roms/bios", Roms: "/roms", Saves: "/roms/saves",
				},
			},
			{
				ID: "knulli", OSID: OSKnulli,
				AllMarkers: []string{"share/system/knulli.conf", "share/roms"},
				AnyMarkers: []string{"share/roms", "share/bios"},
				Paths: catalog.LayoutPaths{
					Bios: "/share/bios", Roms: "/share/roms", Saves: "/share/saves",
				},
			},
			{
				ID: "batocera", OSID: OSBatocera,
				AllMarkers: []string{"share/system/batocera.conf", "share/roms"},
				AnyMarkers: []string{"share/roms", "share/bios"},
				Paths: catalog.LayoutPaths{
					Bios: "/share/bios", Roms: "/share/roms", Saves: "/share/saves",
				},
			},
		},
	}
}

// NewCatalog builds a Catalog from CatalogEntries.
func NewCatalog() *catalog.Catalog {
	c, _ := catalog.New(CatalogEntries())
	return c
}
