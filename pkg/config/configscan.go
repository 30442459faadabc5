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

import (
	"time"

	"github.com/rs/zerolog/log"
)

type Scan struct {
	OverrideMaxAge      string `toml:"override_max_age,omitempty"`
	MaxDepth            int    `toml:"max_depth,omitempty"`
	ContentDepth        int    `toml:"content_depth,omitempty"`
	CountDepth          int    `toml:"count_depth,omitempty"`
	BeforeDeploy        bool   `toml:"before_deploy"`
	TrustDetectedLayout bool   `toml:"trust_detected_layout"`
	RememberLayouts     bool   `toml:"remember_layouts"`
	RememberOverrides   bool   `toml:"remember_overrides"`
}

func (c *Instance) ScanBeforeDeploy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scan.BeforeDeploy
}

func (c *Instance) SetScanBeforeDeploy(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Scan.BeforeDeploy = enabled
}

// TrustDetectedLayout lets medium confidence detection beat profile
// defaults during path resolution.
func (c *Instance) TrustDetectedLayout() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scan.TrustDetectedLayout
}

func (c *Instance) SetTrustDetectedLayout(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Scan.TrustDetectedLayout = enabled
}

func (c *Instance) RememberLayouts() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scan.RememberLayouts
}

func (c *Instance) SetRememberLayouts(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Scan.RememberLayouts = enabled
}

func (c *Instance) RememberOverrides() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scan.RememberOverrides
}

func (c *Instance) SetRememberOverrides(enabled bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Scan.RememberOverrides = enabled
}

func (c *Instance) ScanMaxDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scan.MaxDepth
}

// ScanContentDepth bounds which folders are reported as content folders.
// Zero uses the scanner default.
func (c *Instance) ScanContentDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scan.ContentDepth
}

// ScanCountDepth bounds how deep files are counted and sized. Zero uses
// the scanner default.
func (c *Instance) ScanCountDepth() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Scan.CountDepth
}

// SetScanDepths sets the marker, content and count depth limits. Zero
// restores a scanner default.
func (c *Instance) SetScanDepths(maxDepth, contentDepth, countDepth int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Scan.MaxDepth = max(maxDepth, 0)
	c.vals.Scan.ContentDepth = max(contentDepth, 0)
	c.vals.Scan.CountDepth = max(countDepth, 0)
}

// OverrideMaxAge returns how long a path override stays fresh without
// being validated. Zero disables the age check. Values are Go durations
// ("720h").
func (c *Instance) OverrideMaxAge() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Scan.OverrideMaxAge == "" {
		return 0
	}
	d, err := time.ParseDuration(c.vals.Scan.OverrideMaxAge)
	if err != nil || d < 0 {
		log.Warn().Str("value", c.vals.Scan.OverrideMaxAge).Msg("invalid scan.override_max_age, ignoring")
		return 0
	}
	return d
}

func (c *Instance) SetOverrideMaxAge(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if d <= 0 {
		c.vals.Scan.OverrideMaxAge = ""
		return
	}
	c.vals.Scan.OverrideMaxAge = d.String()
}
