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
)

type UpdateSettingsParams struct {
	DebugLogging          *bool   `json:"debugLogging"`
	AllowOptimisticStrict *bool   `json:"allowOptimisticStrict"`
	MinPerformanceTier    *string `json:"minPerformanceTier" validate:"omitempty,tier"`
	TrustDetectedLayout   *bool   `json:"trustDetectedLayout"`
	OverrideMaxAge        *string `json:"overrideMaxAge" validate:"omitempty,duration"`
	ScanBeforeDeploy      *bool   `json:"scanBeforeDeploy"`
	RememberLayouts       *bool   `json:"rememberLayouts"`
	RememberOverrides     *bool   `json:"rememberOverrides"`
	// ErrorReporting applies after a restart.
	ErrorReporting *bool `json:"errorReporting"`
}

type ScanParams struct {
	DestinationID string `json:"destinationId" validate:"required"`
	Root          string `json:"root" validate:"required"`
	DeviceID      string `json:"deviceId" validate:"omitempty,device"`
	OSID          string `json:"osId" validate:"omitempty,os"`
	// Wait blocks until the scan finishes and returns the report instead
	// of the scan id.
	Wait bool `json:"wait"`
}

type ScanCancelParams struct {
	DestinationID string `json:"destinationId" validate:"required"`
}

type PathsParams struct {
	DestinationID string `json:"destinationId" validate:"required"`
	DeviceID      string `json:"deviceId" validate:"omitempty,device"`
	OSID          string `json:"osId" validate:"omitempty,os"`
	// Root is rescanned before resolving when scan-before-deploy is on.
	Root string `json:"root"`
}

type EvaluateParams struct {
	DeviceID string               `json:"deviceId" validate:"omitempty,device"`
	OSID     string               `json:"osId" validate:"omitempty,os"`
	Games    []autolist.Candidate `json:"games" validate:"required,min=1,dive"`
}

type PathOverridesParams struct {
	DestinationID string `json:"destinationId"`
}

type SetPathOverrideParams struct {
	DestinationID   string              `json:"destinationId" validate:"required"`
	OSID            string              `json:"osId" validate:"required,os"`
	DestinationRoot string              `json:"destinationRoot"`
	Notes           string              `json:"notes"`
	Paths           catalog.LayoutPaths `json:"paths"`
}

type DeletePathOverrideParams struct {
	DestinationID string `json:"destinationId" validate:"required"`
	OSID          string `json:"osId" validate:"required"`
}

type SetGameOverrideParams struct {
	GameID          string              `json:"gameId" validate:"required"`
	PlatformID      string              `json:"platformId" validate:"required,platform"`
	Action          database.GameAction `json:"action" validate:"omitempty,oneof=include exclude"`
	ForceEmulatorID string              `json:"forceEmulatorId" validate:"omitempty,emulator"`
	CompatStatus    string              `json:"compatStatus" validate:"omitempty,compat"`
	Notes           string              `json:"notes"`
}

type DeleteGameOverrideParams struct {
	GameID     string `json:"gameId" validate:"required"`
	PlatformID string `json:"platformId" validate:"required"`
}

type SetPlatformOverrideParams struct {
	PlatformID string `json:"platformId" validate:"required,platform"`
	EmulatorID string `json:"emulatorId" validate:"required,emulator"`
}

type DeletePlatformOverrideParams struct {
	PlatformID string `json:"platformId" validate:"required"`
}
