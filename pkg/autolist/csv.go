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

package autolist

import (
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog/log"
)

// ReadCandidates parses a CSV game list with game_id, platform_id and an
// optional title column. Rows missing an id are skipped.
func ReadCandidates(r io.Reader) ([]Candidate, error) {
	rows := make([]Candidate, 0)
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal candidate CSV: %w", err)
	}

	candidates := rows[:0]
	for i, c := range rows {
		c.GameID = strings.TrimSpace(c.GameID)
		c.PlatformID = strings.TrimSpace(c.PlatformID)
		if c.GameID == "" || c.PlatformID == "" {
			log.Warn().Int("row", i+2).Msg("skipping candidate row without game or platform id")
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, nil
}

type verdictRow struct {
	GameID     string `csv:"game_id"`
	PlatformID string `csv:"platform_id"`
	EmulatorID string `csv:"emulator_id"`
	Reason     string `csv:"reason"`
	Warnings   string `csv:"warnings"`
	Include    bool   `csv:"include"`
}

// WriteVerdicts writes verdicts as CSV. Warnings are joined with "; ".
func WriteVerdicts(w io.Writer, verdicts []Verdict) error {
	rows := make([]verdictRow, 0, len(verdicts))
	for i := range verdicts {
		v := &verdicts[i]
		rows = append(rows, verdictRow{
			GameID:     v.GameID,
			PlatformID: v.PlatformID,
			EmulatorID: v.EmulatorID,
			Reason:     string(v.Reason),
			Warnings:   strings.Join(v.Warnings, "; "),
			Include:    v.Include,
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("failed to write verdict CSV: %w", err)
	}
	return nil
}
