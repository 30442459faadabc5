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

import "path/filepath"

// Catalog selects the data bundle and the default target.
type Catalog struct {
	BundleDir     string `toml:"bundle_dir,omitempty"`
	DefaultDevice string `toml:"default_device,omitempty"`
	DefaultOS     string `toml:"default_os,omitempty"`
}

// BundleDir returns the configured bundle directory, or dataDir/catalog
// when unset.
func (c *Instance) BundleDir(dataDir string) string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.vals.Catalog.BundleDir == "" {
		return filepath.Join(dataDir, "catalog")
	}
	return c.vals.Catalog.BundleDir
}

func (c *Instance) SetBundleDir(dir string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Catalog.BundleDir = dir
}

func (c *Instance) DefaultTarget() (deviceID, osID string) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.vals.Catalog.DefaultDevice, c.vals.Catalog.DefaultOS
}

func (c *Instance) SetDefaultTarget(deviceID, osID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.vals.Catalog.DefaultDevice = deviceID
	c.vals.Catalog.DefaultOS = osID
}
