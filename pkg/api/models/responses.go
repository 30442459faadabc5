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

package models

import (
	"github.com/ZaparooProject/romrunner-core/pkg/autolist"
	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/database/overrides"
	"github.com/ZaparooProject/romrunner-core/pkg/destination/scanner"
	"github.com/ZaparooProject/romrunner-core/pkg/resolver"
)

type VersionResponse struct {
	Version  string `json:"version"`
	Platform string `json:"platform"`
}

type SettingsResponse struct {
	MinPerformanceTier    string `json:"minPerformanceTier"`
	OverrideMaxAge        string `json:"overrideMaxAge"`
	BundleDir             string `json:"bundleDir"`
	DebugLogging          bool   `json:"debugLogging"`
	AllowOptimisticStrict bool   `json:"allowOptimisticStrict"`
	TrustDetectedLayout   bool   `json:"trustDetectedLayout"`
	RememberLayouts       bool   `json:"rememberLayouts"`
	RememberOverrides     bool   `json:"rememberOverrides"`
	ScanBeforeDeploy      bool   `json:"scanBeforeDeploy"`
	ErrorReporting        bool   `json:"errorReporting"`
}

type CatalogMetaResponse struct {
	Skipped   map[string]int `json:"skipped"`
	Meta      catalog.Meta   `json:"meta"`
	Platforms int            `json:"platforms"`
	Devices   int            `json:"devices"`
	Emulators int            `json:"emulators"`
	OSes      int            `json:"operatingSystems"`
}

type PlatformsResponse struct {
	Platforms []catalog.Platform `json:"platforms"`
}

type DevicesResponse struct {
	Devices []catalog.Device `json:"devices"`
}

type OperatingSystemsResponse struct {
	OperatingSystems []catalog.OperatingSystem `json:"operatingSystems"`
}

type ScanStartedResponse struct {
	ScanID string `json:"scanId"`
}

type ScanCancelResponse struct {
	Cancelled bool `json:"cancelled"`
}

type EvaluateResponse struct {
	ByReason map[resolver.Reason]int `json:"byReason"`
	Verdicts []autolist.Verdict      `json:"verdicts"`
	Included int                     `json:"included"`
	Excluded int                     `json:"excluded"`
}

type PathOverridesResponse struct {
	Overrides []overrides.PathOverride `json:"overrides"`
}

type GameOverridesResponse struct {
	Overrides []database.GameOverride `json:"overrides"`
}

type PlatformOverridesResponse struct {
	Overrides []database.PlatformOverride `json:"overrides"`
}

// ScanProgressPayload is sent with scan.progress.
type ScanProgressPayload struct {
	DestinationID string `json:"destinationId"`
	scanner.Progress
}

// ScanCompletedPayload is sent with scan.completed. Error is set when the
// scan failed or was cancelled, Report otherwise.
type ScanCompletedPayload struct {
	Report        *scanner.Report `json:"report,omitempty"`
	DestinationID string          `json:"destinationId"`
	ScanID        string          `json:"scanId"`
	Error         string          `json:"error,omitempty"`
	Cancelled     bool            `json:"cancelled,omitempty"`
}
