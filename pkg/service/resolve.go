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

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/ZaparooProject/romrunner-core/pkg/autolist"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/database/overrides"
	"github.com/ZaparooProject/romrunner-core/pkg/destination/paths"
	"github.com/ZaparooProject/romrunner-core/pkg/destination/scanner"
	"github.com/rs/zerolog/log"
)

type PathsRequest struct {
	// Scan is used instead of the remembered scan when set.
	Scan          *scanner.Result
	DestinationID string
	DeviceID      string
	OSID          string
	// Root is scanned first when scan-before-deploy is enabled and Scan
	// is nil. A failed scan falls back to the remembered one.
	Root string
}

// ResolvePaths merges saved overrides, the latest scan and the profile
// defaults into the paths content should be written to.
func (e *Engine) ResolvePaths(ctx context.Context, req PathsRequest) (paths.Resolved, error) {
	if req.DestinationID == "" {
		return paths.Resolved{}, errors.New("destination id is required")
	}
	profile := e.Profile(req.DeviceID, req.OSID)

	scan := req.Scan
	var scanWarnings []string
	if scan == nil && req.Root != "" && e.cfg.ScanBeforeDeploy() {
		report, err := e.Scan(ctx, ScanRequest{
			DestinationID: req.DestinationID,
			Root:          req.Root,
			DeviceID:      req.DeviceID,
			OSID:          profile.OSID,
		})
		switch {
		case err == nil:
			scan = &report.Result
		case ctx.Err() != nil:
			return paths.Resolved{}, err
		default:
			// An unreachable destination still resolves; stale overrides
			// are flagged by the path resolver.
			log.Warn().Err(err).Str("destination", req.DestinationID).
				Msg("scan before deploy failed, resolving without it")
			scanWarnings = append(scanWarnings, err.Error())
		}
	}
	if scan == nil && e.cfg.RememberLayouts() {
		scan = e.rememberedScan(req.DestinationID)
	}

	var saved []overrides.PathOverride
	if e.paths != nil && e.cfg.RememberOverrides() {
		var err error
		saved, err = e.paths.ForDestination(req.DestinationID)
		if err != nil {
			return paths.Resolved{}, fmt.Errorf("failed to load path overrides: %w", err)
		}
	}

	r := paths.NewResolver(e.fs, paths.Options{
		Clock:         e.clock,
		MaxAge:        e.cfg.OverrideMaxAge(),
		TrustDetected: e.cfg.TrustDetectedLayout(),
	})
	res := r.Resolve(&paths.Input{
		Scan:               scan,
		DestinationID:      req.DestinationID,
		OSID:               profile.OSID,
		Expected:           profile.Paths,
		ExpectedConfidence: profile.Confidence,
		Overrides:          saved,
	})
	res.Warnings = slices.Concat(profile.Warnings, scanWarnings, res.Warnings)
	return res, nil
}

// rememberedScan returns the cached scan result for a destination, or nil.
func (e *Engine) rememberedScan(destID string) *scanner.Result {
	entry, err := e.db.UserDB.GetScanCache(destID)
	if errors.Is(err, database.ErrNotFound) {
		return nil
	} else if err != nil {
		log.Warn().Err(err).Str("destination", destID).Msg("failed to read remembered scan")
		return nil
	}
	var res scanner.Result
	if err := json.Unmarshal(entry.Result, &res); err != nil {
		log.Warn().Err(err).Str("destination", destID).Msg("ignoring unreadable remembered scan")
		return nil
	}
	return &res
}

type EvaluateRequest struct {
	DeviceID string
	OSID     string
	Games    []autolist.Candidate
}

// EvaluateBatch decides every game for the target device and OS, applying
// the user's game and platform overrides.
func (e *Engine) EvaluateBatch(ctx context.Context, req EvaluateRequest) ([]autolist.Verdict, error) {
	games, err := e.db.UserDB.GetGameOverrides()
	if err != nil {
		return nil, fmt.Errorf("failed to load game overrides: %w", err)
	}
	platforms, err := e.db.UserDB.GetPlatformOverrides()
	if err != nil {
		return nil, fmt.Errorf("failed to load platform overrides: %w", err)
	}

	profile := e.Profile(req.DeviceID, req.OSID)
	target := &autolist.Target{DeviceID: profile.DeviceID, Profile: profile}

	gen := autolist.NewGenerator(e.cat, e.generatorSettings())
	verdicts, err := gen.EvaluateBatch(ctx, target, autolist.NewOverrides(games, platforms), req.Games)
	if err != nil {
		return nil, fmt.Errorf("failed to evaluate games: %w", err)
	}
	included, excluded, _ := autolist.Summary(verdicts)
	log.Info().Str("device", target.DeviceID).Str("os", profile.OSID).
		Int("included", included).Int("excluded", excluded).Msg("evaluated auto-list")
	return verdicts, nil
}
