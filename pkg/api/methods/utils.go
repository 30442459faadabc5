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
	"encoding/json"
	"runtime"

	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/api/models/requests"
	"github.com/ZaparooProject/romrunner-core/pkg/api/validation"
	"github.com/ZaparooProject/romrunner-core/pkg/config"
	"github.com/rs/zerolog/log"
)

// NoContent is returned by handlers that succeed without a result.
type NoContent struct{}

func (NoContent) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

var _ json.Marshaler = NoContent{}

// decodeParams unmarshals and validates params, checking catalog ids
// against the engine's loaded catalog.
func decodeParams[T any](env *requests.RequestEnv, dest *T) error {
	return validation.ValidateAndUnmarshalCtx(
		env.Context,
		env.Params,
		dest,
		validation.NewContext(env.Engine.Catalog()),
	)
}

func HandleVersion(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received version request")
	return models.VersionResponse{
		Version:  config.AppVersion,
		Platform: runtime.GOOS + "/" + runtime.GOARCH,
	}, nil
}
