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
	"fmt"

	"github.com/ZaparooProject/romrunner-core/pkg/destination/scanner"
	"github.com/shirou/gopsutil/v4/disk"
)

// DiskUsage reports the capacity of the volume holding root.
func DiskUsage(ctx context.Context, root string) (*scanner.Storage, error) {
	u, err := disk.UsageWithContext(ctx, root)
	if err != nil {
		return nil, fmt.Errorf("failed to read disk usage for %s: %w", root, err)
	}
	return &scanner.Storage{
		Total:       u.Total,
		Free:        u.Free,
		Used:        u.Used,
		UsedPercent: u.UsedPercent,
	}, nil
}
