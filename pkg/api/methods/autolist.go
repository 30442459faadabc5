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
	"github.com/ZaparooProject/romrunner-core/pkg/autolist"
	"github.com/ZaparooProject/romrunner-core/pkg/service"
	"github.com/rs/zerolog/log"
)

//nolint:gocritic // single-use parameter in API handler
func HandleAutoListEvaluate(env requests.RequestEnv) (any, error) {
	var params models.EvaluateParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().
		Str("device", params.DeviceID).
		Str("os", params.OSID).
		Int("games", len(params.Games)).
		Msg("received auto-list evaluate request")

	verdicts, err := env.Engine.EvaluateBatch(env.Context, service.EvaluateRequest{
		DeviceID: params.DeviceID,
		OSID:     params.OSID,
		Games:    params.Games,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate games: %w", err)
	}

	included, excluded, byReason := autolist.Summary(verdicts)
	return models.EvaluateResponse{
		Verdicts: verdicts,
		Included: included,
		Excluded: excluded,
		ByReason: byReason,
	}, nil
}
