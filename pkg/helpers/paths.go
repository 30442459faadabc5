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

package helpers

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/ZaparooProject/romrunner-core/pkg/config"
	"github.com/adrg/xdg"
)

const (
	// UserDir is a folder next to the executable that, when present, holds
	// config, data and logs for a portable install.
	UserDir  = "user"
	LogFile  = "romrunner.log"
	dirPerms = 0o750
)

// Dirs are the directories the engine reads from and writes to.
type Dirs struct {
	Config string
	Data   string
	Log    string
}

var (
	userDirOnce        sync.Once
	userDirCache       string
	userDirCacheExists bool
)

// HasUserDir reports whether a portable user dir exists next to the
// executable. The result is cached after the first call.
func HasUserDir() (string, bool) {
	userDirOnce.Do(func() {
		exe, err := os.Executable()
		if err != nil {
			return
		}
		userDir := filepath.Join(filepath.Dir(exe), UserDir)
		info, err := os.Stat(userDir)
		if err != nil || !info.IsDir() {
			return
		}
		userDirCache = userDir
		userDirCacheExists = true
	})
	return userDirCache, userDirCacheExists
}

// DefaultDirs returns the portable user dir layout if present, otherwise
// the XDG config and data dirs.
func DefaultDirs() Dirs {
	if v, ok := HasUserDir(); ok {
		return Dirs{Config: v, Data: v, Log: filepath.Join(v, "logs")}
	}
	data := filepath.Join(xdg.DataHome, config.AppName)
	return Dirs{
		Config: filepath.Join(xdg.ConfigHome, config.AppName),
		Data:   data,
		Log:    filepath.Join(xdg.StateHome, config.AppName),
	}
}

// EnsureDirectories creates every directory in d.
func EnsureDirectories(d Dirs) error {
	for name, dir := range map[string]string{"config": d.Config, "data": d.Data, "log": d.Log} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, dirPerms); err != nil {
			return fmt.Errorf("failed to create %s directory: %w", name, err)
		}
	}
	return nil
}

// NormalizePathForComparison cleans a path, converts it to forward slashes
// and lowercases it so FAT32/exFAT paths compare equal regardless of case.
func NormalizePathForComparison(path string) string {
	p := filepath.ToSlash(filepath.Clean(path))
	return strings.ToLower(p)
}

// PathHasPrefix reports whether path is root or inside it. "/roms2" is
// not inside "/roms".
func PathHasPrefix(path, root string) bool {
	normPath := NormalizePathForComparison(path)
	normRoot := NormalizePathForComparison(root)

	if normPath == normRoot {
		return true
	}
	if normRoot == "" {
		return false
	}
	if !strings.HasSuffix(normRoot, "/") {
		normRoot += "/"
	}
	return strings.HasPrefix(normPath, normRoot)
}
