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

package catalog

import "fmt"

// ReferenceError is returned when an entry points at an id that is not in
// the catalog.
type ReferenceError struct {
	Kind string
	ID   string
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("unknown %s: %s", e.Kind, e.ID)
}

func (c *Catalog) requirePlatform(id string) error {
	if _, ok := c.Platform(id); !ok {
		return &ReferenceError{Kind: "platform", ID: id}
	}
	return nil
}

func (c *Catalog) requireDevice(id string) error {
	if _, ok := c.devices[id]; !ok {
		return &ReferenceError{Kind: "device", ID: id}
	}
	return nil
}

func (c *Catalog) requireChipset(id string) error {
	if _, ok := c.chipsets[id]; !ok {
		return &ReferenceError{Kind: "chipset", ID: id}
	}
	return nil
}

func (c *Catalog) requireOS(id string) error {
	if _, ok := c.operatingSystems[id]; !ok {
		return &ReferenceError{Kind: "operating system", ID: id}
	}
	return nil
}
