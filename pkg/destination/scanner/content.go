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
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
)

// folderNames maps lowercase folder names to the content they usually
// hold across handheld firmwares.
var folderNames = map[string]catalog.Category{
	"roms":        catalog.CategoryRoms,
	"rom":         catalog.CategoryRoms,
	"games":       catalog.CategoryRoms,
	"bios":        catalog.CategoryBios,
	"firmware":    catalog.CategoryBios,
	"saves":       catalog.CategorySaves,
	"save":        catalog.CategorySaves,
	"savefiles":   catalog.CategorySaves,
	"states":      catalog.CategoryStates,
	"savestates":  catalog.CategoryStates,
	"save_states": catalog.CategoryStates,
	"savestate":   catalog.CategoryStates,
	"config":      catalog.CategoryConfig,
	"configs":     catalog.CategoryConfig,
	"cfg":         catalog.CategoryConfig,
	"retroarch":   catalog.CategoryConfig,
	"system":      catalog.CategoryConfig,
}

// Classify guesses a folder's content category from its name.
func Classify(name string) catalog.Category {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), " ", "_")
	if c, ok := folderNames[key]; ok {
		return c
	}
	return catalog.CategoryUnknown
}

type contentItem struct {
	real string
	rel  string
	// owner is the index of the nearest reported folder, -1 for none.
	owner    int
	category catalog.Category
	depth    int
}

// collectContent reports top-level folders, and deeper folders up to
// ContentDepth whose name implies a category different from their parent.
// Files are counted and sized (stat only) down to CountDepth and credited
// to the nearest reported folder. Symlinks are not followed.
func (s *Scanner) collectContent(ctx context.Context, st *scanState) ([]ContentFolder, bool, error) {
	var folders []ContentFolder
	empty := true

	queue := []contentItem{{real: st.root, owner: -1, category: catalog.CategoryUnknown}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if err := ctx.Err(); err != nil {
			return nil, false, fmt.Errorf("content scan cancelled: %w", err)
		}
		entries, err := readDir(s.fs, item.real)
		if err != nil {
			return nil, false, err
		}
		st.visit(item.real, PhaseContent)

		for _, e := range entries {
			if item.depth == 0 && !isJunk(e.Name()) {
				empty = false
			}
			if isSymlink(e) {
				continue
			}
			if !e.IsDir() {
				if item.owner >= 0 {
					folders[item.owner].FileCount++
					folders[item.owner].TotalSize += e.Size()
				}
				continue
			}
			if isJunk(e.Name()) {
				continue
			}

			depth := item.depth + 1
			if depth > s.opts.CountDepth {
				continue
			}
			rel := e.Name()
			if item.rel != "" {
				rel = item.rel + "/" + e.Name()
			}
			child := contentItem{
				real:     filepath.Join(item.real, e.Name()),
				rel:      rel,
				owner:    item.owner,
				category: item.category,
				depth:    depth,
			}

			cat := Classify(e.Name())
			report := depth == 1 ||
				(depth <= s.opts.ContentDepth && cat != catalog.CategoryUnknown && cat != item.category)
			if report {
				folders = append(folders, ContentFolder{Path: displayPath(rel), Category: cat})
				child.owner = len(folders) - 1
				child.category = cat
			}
			if depth < s.opts.CountDepth {
				queue = append(queue, child)
			}
		}
	}

	sort.Slice(folders, func(i, j int) bool {
		return folders[i].Path < folders[j].Path
	})
	return folders, empty, nil
}
