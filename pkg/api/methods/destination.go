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
	"github.com/ZaparooProject/romrunner-core/pkg/service"
	"github.com/rs/zerolog/log"
)

// HandleDestinationScan starts a background scan and returns its id. The
// report follows as a scan.completed notification, or is returned directly
// when the request sets wait.
//
//nolint:gocritic // single-use parameter in API handler
func HandleDestinationScan(env requests.RequestEnv) (any, error) {
	var params models.ScanParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().
		Str("destination", params.DestinationID).
		Str("root", params.Root).
		Bool("wait", params.Wait).
		Msg("received destination scan request")

	h, err := env.Engine.StartScan(env.Context, service.ScanRequest{
		DestinationID: params.DestinationID,
		Root:          params.Root,
		DeviceID:      params.DeviceID,
		OSID:          params.OSID,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start scan: %w", err)
	}

	if !params.Wait {
		return models.ScanStartedResponse{ScanID: h.ID}, nil
	}

	select {
	case <-h.Done():
	case <-env.Context.Done():
		h.Cancel()
		return nil, fmt.Errorf("scan aborted: %w", env.Context.Err())
	}
	report, err := h.Wait()
	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}
	return report, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDestinationScanCancel(env requests.RequestEnv) (any, error) {
	var params models.ScanCancelParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().Str("destination", params.DestinationID).Msg("received scan cancel request")
	return models.ScanCancelResponse{
		Cancelled: env.Engine.CancelScan(params.DestinationID),
	}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleDestinationPaths(env requests.RequestEnv) (any, error) {
	var params models.PathsParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	log.Info().Str("destination", params.DestinationID).Msg("received destination paths request")

	resolved, err := env.Engine.ResolvePaths(env.Context, service.PathsRequest{
		DestinationID: params.DestinationID,
		DeviceID:      params.DeviceID,
		OSID:          params.OSID,
		Root:          params.Root,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve paths: %w", err)
	}
	return resolved, nil
}
