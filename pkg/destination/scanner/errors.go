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
	"errors"
	"fmt"
)

// ErrScanIO matches every ScanError with errors.Is.
var ErrScanIO = errors.New("destination scan I/O failure")

// ScanError is a filesystem failure during a scan. It is distinct from a
// destination that does not match expectations, which is reported in the
// Result.
type ScanError struct {
	Err  error
	Op   string
	Path string
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("scan %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

func (*ScanError) Is(target error) bool {
	return target == ErrScanIO
}
