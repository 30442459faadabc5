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
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/api/models/requests"
	"github.com/ZaparooProject/romrunner-core/pkg/helpers"
	"github.com/rs/zerolog/log"
)

func HandleSettings(env requests.RequestEnv) (any, error) { //nolint:gocritic // single-use parameter in API handler
	log.Info().Msg("received settings request")

	cfg := env.Config
	return models.SettingsResponse{
		MinPerformanceTier:    cfg.MinPerformanceTier(),
		OverrideMaxAge:        cfg.OverrideMaxAge().String(),
		BundleDir:             env.Engine.Catalog().Meta().LoadedFrom,
		DebugLogging:          cfg.DebugLogging(),
		AllowOptimisticStrict: cfg.AllowOptimisticStrict(),
		TrustDetectedLayout:   cfg.TrustDetectedLayout(),
		RememberLayouts:       cfg.RememberLayouts(),
		RememberOverrides:     cfg.RememberOverrides(),
		ScanBeforeDeploy:      cfg.ScanBeforeDeploy(),
		ErrorReporting:        cfg.ErrorReporting(),
	}, nil
}

//nolint:gocritic // single-use parameter in API handler
func HandleSettingsUpdate(env requests.RequestEnv) (any, error) {
	log.Info().Msg("received settings update request")

	var params models.UpdateSettingsParams
	if err := decodeParams(&env, &params); err != nil {
		return nil, err
	}

	if params.DebugLogging != nil {
		log.Info().Bool("debugLogging", *params.DebugLogging).Msg("update")
		env.Config.SetDebugLogging(*params.DebugLogging)
		helpers.SetDebugLogging(*params.DebugLogging)
	}

	if params.AllowOptimisticStrict != nil {
		log.Info().Bool("allowOptimisticStrict", *params.AllowOptimisticStrict).Msg("update")
		env.Config.SetAllowOptimisticStrict(*params.AllowOptimisticStrict)
	}

	if params.MinPerformanceTier != nil {
		log.Info().Str("minPerformanceTier", *params.MinPerformanceTier).Msg("update")
		env.Config.SetMinPerformanceTier(*params.MinPerformanceTier)
	}

	if params.TrustDetectedLayout != nil {
		log.Info().Bool("trustDetectedLayout", *params.TrustDetectedLayout).Msg("update")
		env.Config.SetTrustDetectedLayout(*params.TrustDetectedLayout)
	}

	if params.OverrideMaxAge != nil {
		log.Info().Str("overrideMaxAge", *params.OverrideMaxAge).Msg("update")
		var maxAge time.Duration
		if *params.OverrideMaxAge != "" {
			d, err := time.ParseDuration(*params.OverrideMaxAge)
			if err != nil {
				return nil, fmt.Errorf("invalid override max age: %w", err)
			}
			maxAge = d
		}
		env.Config.SetOverrideMaxAge(maxAge)
	}

	if params.ScanBeforeDeploy != nil {
		log.Info().Bool("scanBeforeDeploy", *params.ScanBeforeDeploy).Msg("update")
		env.Config.SetScanBeforeDeploy(*params.ScanBeforeDeploy)
	}

	if params.RememberLayouts != nil {
		log.Info().Bool("rememberLayouts", *params.RememberLayouts).Msg("update")
		env.Config.SetRememberLayouts(*params.RememberLayouts)
	}

	if params.RememberOverrides != nil {
		log.Info().Bool("rememberOverrides", *params.RememberOverrides).Msg("update")
		env.Config.SetRememberOverrides(*params.RememberOverrides)
	}

	if params.ErrorReporting != nil {
		log.Info().Bool("errorReporting", *params.ErrorReporting).Msg("update")
		env.Config.SetErrorReporting(*params.ErrorReporting)
	}

	if err := env.Config.Save(); err != nil {
		return nil, fmt.Errorf("failed to save config: %w", err)
	}
	return NoContent{}, nil
}
