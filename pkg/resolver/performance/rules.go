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

package performance

// Scope selects which hardware key a rule matches on.
type Scope int

const (
	ScopeDevice Scope = iota
	ScopeChipset
)

func (s Scope) String() string {
	if s == ScopeChipset {
		return "chipset"
	}
	return "device"
}

// Rule is one precedence level. Rules are tried in order and the first one
// with a matching record wins.
type Rule struct {
	Name         string
	Scope        Scope
	WildcardGame bool
	AnyEmulator  bool
}

// DefaultRules is the standard precedence: exact game data outranks
// platform-wide defaults, and device measurements outrank chipset
// generalizations.
var DefaultRules = []Rule{
	{Name: "game+device+emulator", Scope: ScopeDevice},
	{Name: "game+device", Scope: ScopeDevice, AnyEmulator: true},
	{Name: "game+chipset+emulator", Scope: ScopeChipset},
	{Name: "game+chipset", Scope: ScopeChipset, AnyEmulator: true},
	{Name: "platform+device+emulator", Scope: ScopeDevice, WildcardGame: true},
	{Name: "platform+device", Scope: ScopeDevice, WildcardGame: true, AnyEmulator: true},
	{Name: "platform+chipset", Scope: ScopeChipset, WildcardGame: true, AnyEmulator: true},
}
