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
	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/api/models/requests"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleCatalogMeta(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received catalog meta request")

	cat := env.Engine.Catalog()
	skipped := env.Engine.LoadStats().Skipped
	if skipped == nil {
		skipped = map[string]int{}
	}
	return models.CatalogMetaResponse{
		Meta:      cat.Meta(),
		Platforms: len(cat.Platforms()),
		Devices:   len(cat.Devices()),
		Emulators: len(cat.Emulators()),
		OSes:      len(cat.OperatingSystems()),
		Skipped:   skipped,
	}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCatalogPlatforms(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received catalog platforms request")
	return models.PlatformsResponse{Platforms: env.Engine.Catalog().Platforms()}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCatalogDevices(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received catalog devices request")
	return models.DevicesResponse{Devices: env.Engine.Catalog().Devices()}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleCatalogOperatingSystems(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received catalog operating systems request")
	return models.OperatingSystemsResponse{
		OperatingSystems: env.Engine.Catalog().OperatingSystems(),
	}, nil
}
