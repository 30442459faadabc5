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

package config

const DefaultMinPerformanceTier = "poor"

type AutoList struct {
	MinPerformanceTier    string `toml:"min_performance_tier"`
	Workers               int    `toml:"workers,omitempty"`
	AllowOptimisticStrict bool   `toml:"allow_optimistic_strict"`
}

// AllowOptimisticStrict reports whether games on strict platforms are
// included when compatibility data is missing.
func (c *Instance) AllowOptimisticStrict() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.AutoList.AllowOptimisticStrict
}

func (c *Instance) SetAllowOptimisticStrict(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.AutoList.AllowOptimisticStrict = enabled
}

func (c *Instance) MinPerformanceTier() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.AutoList.MinPerformanceTier == "" {
		return DefaultMinPerformanceTier
	}
	return c.vals.AutoList.MinPerformanceTier
}

func (c *Instance) SetMinPerformanceTier(tier string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.AutoList.MinPerformanceTier = tier
}

// EvaluationWorkers returns the batch worker count, 0 meaning automatic.
func (c *Instance) EvaluationWorkers() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.AutoList.Workers < 0 {
		return 0
	}
	return c.vals.AutoList.Workers
}
