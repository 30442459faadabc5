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

package methods

import (
	"fmt"

	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/api/models/requests"
	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/database/overrides"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandlePathOverrides(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received path overrides request")

	var params models.PathOverridesParams
	if len(env.Params) > 0 {
		if err := decodeParams(&env, &params); err != nil {
			return nil, err
		}
	}

	list, err := env.Engine.PathOverrides(params.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to list path overrides: %w", err)
	}
	if list == nil {
		list = []overrides.PathOverride{}
	}
	return models.PathOverridesResponse{Overrides: list}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSetPathOverride(env requests.RequestEnv) (any, error) {
	var params models.SetPathOverrideParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().
		Str("destination", params.DestinationID).
		Str("os", params.OSID).
		Msg("received set path override request")

	o := overrides.PathOverride{
		DestinationID:   params.DestinationID,
		OSID:            params.OSID,
		DestinationRoot: params.DestinationRoot,
		Notes:           params.Notes,
		Paths:           params.Paths,
	}
	if err := env.Engine.SetPathOverride(&o); err != nil {
		return nil, fmt.Errorf("failed to set path override: %w", err)
	}
	return o, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDeletePathOverride(env requests.RequestEnv) (any, error) {
	var params models.DeletePathOverrideParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().
		Str("destination", params.DestinationID).
		Str("os", params.OSID).
		Msg("received delete path override request")

	if err := env.Engine.DeletePathOverride(params.DestinationID, params.OSID); err != nil {
		return nil, fmt.Errorf("failed to delete path override: %w", err)
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleGameOverrides(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received game overrides request")

	list, err := env.Engine.GameOverrides()
	if err != nil {
		return nil, err //nolint:wrapcheck // engine errors are already wrapped
	}
	if list == nil {
		list = []database.GameOverride{}
	}
	return models.GameOverridesResponse{Overrides: list}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSetGameOverride(env requests.RequestEnv) (any, error) {
	var params models.SetGameOverrideParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().
		Str("platform", params.PlatformID).
		Str("game", params.GameID).
		Str("action", string(params.Action)).
		Msg("received set game override request")

	o := database.GameOverride{
		GameID:          params.GameID,
		PlatformID:      params.PlatformID,
		Action:          params.Action,
		ForceEmulatorID: params.ForceEmulatorID,
		CompatStatus:    catalog.CompatStatus(params.CompatStatus),
		Notes:           params.Notes,
	}
	if err := env.Engine.SetGameOverride(&o); err != nil {
		return nil, err //nolint:wrapcheck // engine errors are already wrapped
	}
	return o, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDeleteGameOverride(env requests.RequestEnv) (any, error) {
	var params models.DeleteGameOverrideParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().
		Str("platform", params.PlatformID).
		Str("game", params.GameID).
		Msg("received delete game override request")

	if err := env.Engine.DeleteGameOverride(params.PlatformID, params.GameID); err != nil {
		return nil, err //nolint:wrapcheck // engine errors are already wrapped
	}
	return NoContent{}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandlePlatformOverrides(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received platform overrides request")

	list, err := env.Engine.PlatformOverrides()
	if err != nil {
		return nil, err //nolint:wrapcheck // engine errors are already wrapped
	}
	if list == nil {
		list = []database.PlatformOverride{}
	}
	return models.PlatformOverridesResponse{Overrides: list}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSetPlatformOverride(env requests.RequestEnv) (any, error) {
	var params models.SetPlatformOverrideParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().
		Str("platform", params.PlatformID).
		Str("emulator", params.EmulatorID).
		Msg("received set platform override request")

	o := database.PlatformOverride{
		PlatformID: params.PlatformID,
		EmulatorID: params.EmulatorID,
	}
	if err := env.Engine.SetPlatformOverride(&o); err != nil {
		return nil, err //nolint:wrapcheck // engine errors are already wrapped
	}
	return o, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDeletePlatformOverride(env requests.RequestEnv) (any, error) {
	var params models.DeletePlatformOverrideParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().Str("platform", params.PlatformID).Msg("received delete platform override request")

	if err := env.Engine.DeletePlatformOverride(params.PlatformID); err != nil {
		return nil, err //nolint:wrapcheck // engine errors are already wrapped
	}
	return NoContent{}, nil
}
