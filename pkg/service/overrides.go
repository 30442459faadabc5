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
	"fmt"

	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/database/overrides"
)

// PathOverrides lists saved path overrides, for one destination or all
// when destID is empty.
func (e *Engine) PathOverrides(destID string) ([]overrides.PathOverride, error) {
	if destID == "" {
		return e.paths.List() //nolint:wrapcheck // store errors are already wrapped
	}
	return e.paths.ForDestination(destID) //nolint:wrapcheck // store errors are already wrapped
}

// SetPathOverride pins paths for a destination and OS. It fails when
// remembering overrides is turned off.
func (e *Engine) SetPathOverride(o *overrides.PathOverride) error {
	if !e.cfg.RememberOverrides() {
		return ErrOverridesDisabled
	}
	if o.DestinationRoot != "" {
		if fi, err := e.fs.Stat(o.DestinationRoot); err == nil && fi.IsDir() {
			o.LastValidated = e.clock.Now()
		}
	}
	if err := e.paths.Put(o); err != nil {
		return fmt.Errorf("failed to save path override: %w", err)
	}
	return nil
}

func (e *Engine) DeletePathOverride(destID, osID string) error {
	return e.paths.Delete(destID, osID) //nolint:wrapcheck // store errors are already wrapped
}

func (e *Engine) GameOverrides() ([]database.GameOverride, error) {
	gs, err := e.db.UserDB.GetGameOverrides()
	if err != nil {
		return nil, fmt.Errorf("failed to list game overrides: %w", err)
	}
	return gs, nil
}

// SetGameOverride stores a game override under the platform's canonical
// id so aliases resolve to the same record.
func (e *Engine) SetGameOverride(o *database.GameOverride) error {
	if p, ok := e.cat.Platform(o.PlatformID); ok {
		o.PlatformID = p.ID
	}
	if err := e.db.UserDB.SetGameOverride(o); err != nil {
		return fmt.Errorf("failed to save game override: %w", err)
	}
	return nil
}

func (e *Engine) DeleteGameOverride(platformID, gameID string) error {
	if p, ok := e.cat.Platform(platformID); ok {
		platformID = p.ID
	}
	if err := e.db.UserDB.DeleteGameOverride(platformID, gameID); err != nil {
		return fmt.Errorf("failed to delete game override: %w", err)
	}
	return nil
}

func (e *Engine) PlatformOverrides() ([]database.PlatformOverride, error) {
	ps, err := e.db.UserDB.GetPlatformOverrides()
	if err != nil {
		return nil, fmt.Errorf("failed to list platform overrides: %w", err)
	}
	return ps, nil
}

func (e *Engine) SetPlatformOverride(o *database.PlatformOverride) error {
	if p, ok := e.cat.Platform(o.PlatformID); ok {
		o.PlatformID = p.ID
	}
	if err := e.db.UserDB.SetPlatformOverride(o); err != nil {
		return fmt.Errorf("failed to save platform override: %w", err)
	}
	return nil
}

func (e *Engine) DeletePlatformOverride(platformID string) error {
	if p, ok := e.cat.Platform(platformID); ok {
		platformID = p.ID
	}
	if err := e.db.UserDB.DeletePlatformOverride(platformID); err != nil {
		return fmt.Errorf("failed to delete platform override: %w", err)
	}
	return nil
}
