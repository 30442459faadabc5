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

package scanner

import (
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
)

// junkDirs are volume housekeeping folders that never hold content.
var junkDirs = map[string]struct{}{
	"$recycle.bin":              {},
	"system volume information": {},
	"lost+found":                {},
	".trashes":                  {},
	".spotlight-v100":           {},
	".fseventsd":                {},
}

func isJunk(name string) bool {
	lower := strings.ToLower(name)
	if _, ok := junkDirs[lower]; ok {
		return true
	}
	return strings.HasPrefix(lower, ".")
}

func readDir(fs afero.Fs, dir string) ([]os.FileInfo, error) {
	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return nil, &ScanError{Op: "readdir", Path: dir, Err: err}
	}
	return entries, nil
}

// followDir reports whether fi is a directory, resolving symlinks.
func followDir(fs afero.Fs, p string, fi os.FileInfo) bool {
	if fi.IsDir() {
		return true
	}
	if fi.Mode()&os.ModeSymlink == 0 {
		return false
	}
	target, err := fs.Stat(p)
	return err == nil && target.IsDir()
}

func isSymlink(fi os.FileInfo) bool {
	return fi.Mode()&os.ModeSymlink != 0
}

// FindPath resolves a slash-separated path under root case-insensitively,
// as FAT and exFAT volumes behave. It returns the real path with on-disk
// casing.
func FindPath(fs afero.Fs, root, rel string) (string, bool) {
	current := root
	for _, seg := range strings.Split(strings.Trim(path.Clean("/"+rel), "/"), "/") {
		if seg == "" {
			continue
		}
		exact := filepath.Join(current, seg)
		if _, err := fs.Stat(exact); err == nil {
			current = exact
			continue
		}
		entries, err := afero.ReadDir(fs, current)
		if err != nil {
			return "", false
		}
		found := false
		for _, e := range entries {
			if len(e.Name()) == len(seg) && strings.EqualFold(e.Name(), seg) {
				current = filepath.Join(current, e.Name())
				found = true
				break
			}
		}
		if !found {
			return "", false
		}
	}
	return current, true
}

// normalizeRel lowercases and cleans a destination-relative path to the
// form used for marker and layout comparisons: no leading or trailing
// slash.
func normalizeRel(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	return strings.Trim(strings.ToLower(path.Clean("/"+p)), "/")
}

// displayPath renders a relative path as a destination-rooted path.
func displayPath(rel string) string {
	return "/" + strings.Trim(rel, "/")
}
