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

// Package policy classifies platforms for the missing-data gate.
package policy

import (
	"fmt"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
)

// Lookup is the platform policy for one query, with a warning when the
// platform was not in the catalog.
type Lookup struct {
	Warning string
	Policy  catalog.PlatformPolicy
}

// Store answers policy questions from an immutable catalog.
type Store struct {
	cat *catalog.Catalog
}

func NewStore(cat *catalog.Catalog) *Store {
	return &Store{cat: cat}
}

// Lookup returns the policy for platformID, falling back to the catalog
// defaults for unknown platforms.
func (s *Store) Lookup(platformID string) Lookup {
	if p, ok := s.cat.Platform(platformID); ok {
		return Lookup{Policy: p.Policy()}
	}

	d := s.cat.Defaults()
	return Lookup{
		Policy: catalog.PlatformPolicy{
			PlatformID:   platformID,
			Difficulty:   d.Difficulty,
			Strict:       d.Strict,
			PerfCoverage: d.PerfCoverage,
		},
		Warning: fmt.Sprintf("platform %q is not in the catalog, using default policy", platformID),
	}
}
