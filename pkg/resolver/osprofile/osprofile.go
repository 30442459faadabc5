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

// Package osprofile resolves the expected layout and emulator set for a
// device running an operating system.
package osprofile

import (
	"fmt"
	"maps"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
)

// Source records which level of the profile chain produced the result.
type Source string

const (
	SourceDevice   Source = "device"
	SourceOS       Source = "os"
	SourceFallback Source = "fallback"
)

// BuiltinPaths is the generic layout used when the catalog has neither a
// matching profile nor a generic one.
var BuiltinPaths = catalog.LayoutPaths{
	Bios:        "/bios",
	Roms:        "/roms",
	Saves:       "/saves",
	States:      "/states",
	Screenshots: "/screenshots",
}

// Profile is a resolved layout profile.
type Profile struct {
	DefaultEmulators map[string]string   `json:"defaultEmulators"`
	OSID             string              `json:"osId"`
	DeviceID         string              `json:"deviceId,omitempty"`
	FingerprintID    string              `json:"fingerprintId,omitempty"`
	Source           Source              `json:"source"`
	Confidence       catalog.Confidence  `json:"confidence"`
	Paths            catalog.LayoutPaths `json:"paths"`
	Emulators        []string            `json:"emulators,omitempty"`
	Warnings         []string            `json:"warnings,omitempty"`
}

// DefaultEmulator returns the emulator the profile uses for a platform.
func (p *Profile) DefaultEmulator(platformID string) (string, bool) {
	id, ok := p.DefaultEmulators[platformID]
	return id, ok && id != ""
}

type profileKey struct {
	osID     string
	deviceID string
}

// Resolver never fails: when nothing in the catalog applies it synthesizes
// a low confidence fallback.
type Resolver struct {
	cat      *catalog.Catalog
	profiles map[profileKey]catalog.OSLayoutProfile
}

func NewResolver(cat *catalog.Catalog) *Resolver {
	r := &Resolver{
		cat:      cat,
		profiles: make(map[profileKey]catalog.OSLayoutProfile),
	}
	for _, p := range cat.Profiles() {
		k := profileKey{osID: p.OSID, deviceID: p.DeviceID}
		if _, dup := r.profiles[k]; dup {
			continue
		}
		r.profiles[k] = p
	}
	return r
}

// Resolve returns the profile for a device running osID. An empty osID
// selects the device's default OS.
func (r *Resolver) Resolve(deviceID, osID string) Profile {
	var warnings []string

	dev, devKnown := r.cat.Device(deviceID)
	if osID == "" && devKnown && dev.DefaultOS != "" {
		osID = dev.DefaultOS
	}
	switch {
	case deviceID != "" && !devKnown:
		warnings = append(warnings, fmt.Sprintf("device %q is not in the catalog", deviceID))
	case devKnown && !dev.SupportsOS(osID):
		warnings = append(warnings, fmt.Sprintf("%s does not list %s as a supported OS", deviceID, osID))
	}

	osLevel, hasOS := r.profiles[profileKey{osID: osID}]
	if deviceID != "" {
		if devLevel, ok := r.profiles[profileKey{osID: osID, deviceID: deviceID}]; ok {
			base := r.generic()
			if hasOS {
				base = fromCatalog(&osLevel)
			}
			p := overlay(fromCatalog(&devLevel), base)
			p.OSID, p.DeviceID = osID, deviceID
			p.Source, p.Confidence = SourceDevice, catalog.ConfidenceHigh
			p.Warnings = warnings
			return p
		}
	}

	if hasOS {
		p := fromCatalog(&osLevel)
		p.DeviceID = deviceID
		p.Source, p.Confidence = SourceOS, catalog.ConfidenceHigh
		p.Warnings = warnings
		return p
	}

	p := r.generic()
	p.OSID, p.DeviceID = osID, deviceID
	p.Source, p.Confidence = SourceFallback, catalog.ConfidenceLow
	p.Warnings = append(warnings,
		fmt.Sprintf("no layout profile for OS %q, using generic defaults", osID))
	return p
}

// generic returns the catalog's generic profile, or one built from
// BuiltinPaths and each platform's default emulator.
func (r *Resolver) generic() Profile {
	if gp, ok := r.profiles[profileKey{osID: catalog.GenericOSID}]; ok {
		return fromCatalog(&gp)
	}

	emus := make(map[string]string)
	for _, pl := range r.cat.Platforms() {
		if pl.DefaultEmulator != "" {
			emus[pl.ID] = pl.DefaultEmulator
		}
	}
	return Profile{
		Paths:            BuiltinPaths,
		DefaultEmulators: emus,
	}
}

func fromCatalog(p *catalog.OSLayoutProfile) Profile {
	return Profile{
		OSID:             p.OSID,
		DeviceID:         p.DeviceID,
		Paths:            p.Paths,
		Emulators:        append([]string(nil), p.Emulators...),
		DefaultEmulators: maps.Clone(p.DefaultEmulators),
		FingerprintID:    p.FingerprintID,
	}
}

// overlay fills blanks in top from base.
func overlay(top, base Profile) Profile {
	out := top
	out.Paths = top.Paths.Overlay(base.Paths)
	if len(out.Emulators) == 0 {
		out.Emulators = base.Emulators
	}
	if out.FingerprintID == "" {
		out.FingerprintID = base.FingerprintID
	}
	merged := make(map[string]string, len(base.DefaultEmulators)+len(top.DefaultEmulators))
	maps.Copy(merged, base.DefaultEmulators)
	maps.Copy(merged, top.DefaultEmulators)
	out.DefaultEmulators = merged
	return out
}
