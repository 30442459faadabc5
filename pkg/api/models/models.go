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

// Package models holds the JSON-RPC envelope types, method names and the
// request and response shapes of the ROM Runner API.
package models

import "encoding/json"

const (
	MethodVersion                  = "version"
	MethodSettings                 = "settings"
	MethodSettingsUpdate           = "settings.update"
	MethodCatalogMeta              = "catalog.meta"
	MethodCatalogPlatforms         = "catalog.platforms"
	MethodCatalogDevices           = "catalog.devices"
	MethodCatalogOS                = "catalog.os"
	MethodDestinationScan          = "destination.scan"
	MethodDestinationScanCancel    = "destination.scan.cancel"
	MethodDestinationPaths         = "destination.paths"
	MethodAutoListEvaluate         = "autolist.evaluate"
	MethodOverridesPaths           = "overrides.paths"
	MethodOverridesPathsSet        = "overrides.paths.set"
	MethodOverridesPathsDelete     = "overrides.paths.delete"
	MethodOverridesGames           = "overrides.games"
	MethodOverridesGamesSet        = "overrides.games.set"
	MethodOverridesGamesDelete     = "overrides.games.delete"
	MethodOverridesPlatforms       = "overrides.platforms"
	MethodOverridesPlatformsSet    = "overrides.platforms.set"
	MethodOverridesPlatformsDelete = "overrides.platforms.delete"
)

const (
	NotificationScanProgress  = "scan.progress"
	NotificationScanCompleted = "scan.completed"
)

// Notification is an event pushed to every connected client.
type Notification struct {
	Params any
	Method string
}

type RequestObject struct {
	ID      *RPCID          `json:"id,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

type ErrorObject struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

type ResponseObject struct {
	Result  any          `json:"result"`
	Error   *ErrorObject `json:"error,omitempty"`
	JSONRPC string       `json:"jsonrpc"`
	ID      RPCID        `json:"id"`
}

// ResponseErrorObject omits result so error responses carry only the
// error member.
type ResponseErrorObject struct {
	Error   *ErrorObject `json:"error"`
	JSONRPC string       `json:"jsonrpc"`
	ID      RPCID        `json:"id"`
}

type NotificationObject struct {
	Params  any    `json:"params,omitempty"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
}
