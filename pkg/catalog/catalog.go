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

import (
	"errors"
	"slices"
	"sort"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Entries is the raw, unvalidated content of a definition pack.
type Entries struct {
	Meta             Meta
	Defaults         PolicyDefaults
	Platforms        []Platform
	Chipsets         []Chipset
	Devices          []Device
	Emulators        []Emulator
	OperatingSystems []OperatingSystem
	Performance      []PerformanceRecord
	Compatibility    []CompatibilityRecord
	Profiles         []OSLayoutProfile
	Fingerprints     []LayoutFingerprint
}

// LoadStats counts accepted and rejected entries per kind.
type LoadStats struct {
	Loaded  map[string]int `json:"loaded"`
	Skipped map[string]int `json:"skipped"`
}

func newLoadStats() LoadStats {
	return LoadStats{
		Loaded:  make(map[string]int),
		Skipped: make(map[string]int),
	}
}

// TotalSkipped sums rejected entries across every kind.
func (s LoadStats) TotalSkipped() int {
	n := 0
	for _, v := range s.Skipped {
		n += v
	}
	return n
}

// Catalog is the immutable, indexed set of catalog tables. All lookups are
// safe for concurrent use.
type Catalog struct {
	meta             Meta
	defaults         PolicyDefaults
	platforms        map[string]*Platform
	aliases          map[string]string
	chipsets         map[string]*Chipset
	devices          map[string]*Device
	emulators        map[string]*Emulator
	operatingSystems map[string]*OperatingSystem
	fingerprints     map[string]*LayoutFingerprint
	performance      []PerformanceRecord
	compatibility    []CompatibilityRecord
	profiles         []OSLayoutProfile
	fingerprintOrder []string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

var errDuplicate = errors.New("duplicate id")

// New validates entries and builds a Catalog. Invalid entries and entries
// referencing unknown platforms, devices, chipsets or operating systems are
// logged and skipped, never fatal.
func New(e *Entries) (*Catalog, LoadStats) {
	stats := newLoadStats()
	c := &Catalog{
		meta:             e.Meta,
		defaults:         e.Defaults,
		platforms:        make(map[string]*Platform, len(e.Platforms)),
		aliases:          make(map[string]string),
		chipsets:         make(map[string]*Chipset, len(e.Chipsets)),
		devices:          make(map[string]*Device, len(e.Devices)),
		emulators:        make(map[string]*Emulator, len(e.Emulators)),
		operatingSystems: make(map[string]*OperatingSystem, len(e.OperatingSystems)),
		fingerprints:     make(map[string]*LayoutFingerprint, len(e.Fingerprints)),
	}
	if !c.defaults.Difficulty.Valid() {
		c.defaults = BuiltinPolicyDefaults
	}

	for i := range e.Platforms {
		p := e.Platforms[i]
		if err := checkEntry(&p, p.ID, c.platforms); err != nil {
			stats.skip("platforms", p.ID, err)
			continue
		}
		c.platforms[p.ID] = &p
		c.aliases[NormalizeID(p.ID)] = p.ID
		for _, a := range p.Aliases {
			key := NormalizeID(a)
			if other, ok := c.aliases[key]; ok && other != p.ID {
				log.Warn().Str("alias", a).Str("platform", p.ID).Str("other", other).
					Msg("catalog: platform alias already in use, ignoring")
				continue
			}
			c.aliases[key] = p.ID
		}
		stats.Loaded["platforms"]++
	}

	for i := range e.Chipsets {
		ch := e.Chipsets[i]
		if err := checkEntry(&ch, ch.ID, c.chipsets); err != nil {
			stats.skip("chipsets", ch.ID, err)
			continue
		}
		c.chipsets[ch.ID] = &ch
		stats.Loaded["chipsets"]++
	}

	for i := range e.OperatingSystems {
		os := e.OperatingSystems[i]
		if err := checkEntry(&os, os.ID, c.operatingSystems); err != nil {
			stats.skip("operating_systems", os.ID, err)
			continue
		}
		c.operatingSystems[os.ID] = &os
		stats.Loaded["operating_systems"]++
	}

	for i := range e.Emulators {
		em := e.Emulators[i]
		if err := checkEntry(&em, em.ID, c.emulators); err != nil {
			stats.skip("emulators", em.ID, err)
			continue
		}
		c.emulators[em.ID] = &em
		stats.Loaded["emulators"]++
	}

	for i := range e.Devices {
		d := e.Devices[i]
		err := checkEntry(&d, d.ID, c.devices)
		if err == nil && d.ChipsetID != "" {
			err = c.requireChipset(d.ChipsetID)
		}
		if err == nil {
			for _, osID := range d.SupportedOS {
				if err = c.requireOS(osID); err != nil {
					break
				}
			}
		}
		if err != nil {
			stats.skip("devices", d.ID, err)
			continue
		}
		c.devices[d.ID] = &d
		stats.Loaded["devices"]++
	}

	for i := range e.Fingerprints {
		fp := e.Fingerprints[i]
		err := checkEntry(&fp, fp.ID, c.fingerprints)
		if err == nil {
			err = c.requireOS(fp.OSID)
		}
		if err != nil {
			stats.skip("fingerprints", fp.ID, err)
			continue
		}
		c.fingerprints[fp.ID] = &fp
		c.fingerprintOrder = append(c.fingerprintOrder, fp.ID)
		stats.Loaded["fingerprints"]++
	}
	sort.Strings(c.fingerprintOrder)

	for i := range e.Profiles {
		pr := e.Profiles[i]
		err := validate.Struct(&pr)
		if err == nil && pr.OSID != GenericOSID {
			err = c.requireOS(pr.OSID)
		}
		if err == nil && pr.DeviceID != "" {
			err = c.requireDevice(pr.DeviceID)
		}
		if err != nil {
			stats.skip("profiles", pr.OSID+"/"+pr.DeviceID, err)
			continue
		}
		if pr.FingerprintID != "" {
			if _, ok := c.fingerprints[pr.FingerprintID]; !ok {
				log.Warn().Str("os", pr.OSID).Str("fingerprint", pr.FingerprintID).
					Msg("catalog: profile references unknown fingerprint")
			}
		}
		c.profiles = append(c.profiles, pr)
		stats.Loaded["profiles"]++
	}

	for i := range e.Performance {
		r := e.Performance[i]
		err := validate.Struct(&r)
		if err == nil {
			err = c.requirePlatform(r.PlatformID)
		}
		if err == nil && r.DeviceID != "" {
			err = c.requireDevice(r.DeviceID)
		}
		if err == nil && r.ChipsetID != "" {
			err = c.requireChipset(r.ChipsetID)
		}
		if err != nil {
			stats.skip("performance", r.GameID, err)
			continue
		}
		r.PlatformID = c.canonicalPlatform(r.PlatformID)
		c.performance = append(c.performance, r)
		stats.Loaded["performance"]++
	}

	for i := range e.Compatibility {
		r := e.Compatibility[i]
		err := validate.Struct(&r)
		if err == nil {
			err = c.requirePlatform(r.PlatformID)
		}
		if err != nil {
			stats.skip("compatibility", r.GameID, err)
			continue
		}
		r.PlatformID = c.canonicalPlatform(r.PlatformID)
		c.compatibility = append(c.compatibility, r)
		stats.Loaded["compatibility"]++
	}

	if skipped := stats.TotalSkipped(); skipped > 0 {
		log.Warn().Int("skipped", skipped).Interface("byKind", stats.Skipped).
			Msg("catalog: some entries failed integrity checks")
	}

	return c, stats
}

func (s LoadStats) skip(kind, id string, err error) {
	log.Warn().Err(err).Str("kind", kind).Str("id", id).Msg("catalog: skipping entry")
	s.Skipped[kind]++
}

func checkEntry[T any](v *T, id string, existing map[string]*T) error {
	if err := validate.Struct(v); err != nil {
		return err //nolint:wrapcheck // validator errors are descriptive
	}
	if _, ok := existing[id]; ok {
		return errDuplicate
	}
	return nil
}

// Meta returns the definition pack metadata.
func (c *Catalog) Meta() Meta {
	return c.meta
}

// Defaults returns the policy used for platforms missing from the catalog.
func (c *Catalog) Defaults() PolicyDefaults {
	return c.defaults
}

// Platform looks up a platform by id or alias.
func (c *Catalog) Platform(id string) (*Platform, bool) {
	if p, ok := c.platforms[id]; ok {
		return p, true
	}
	if canonical, ok := c.aliases[NormalizeID(id)]; ok {
		return c.platforms[canonical], true
	}
	return nil, false
}

func (c *Catalog) canonicalPlatform(id string) string {
	if p, ok := c.Platform(id); ok {
		return p.ID
	}
	return id
}

// Platforms returns every platform sorted by id.
func (c *Catalog) Platforms() []Platform {
	return sortedValues(c.platforms)
}

func (c *Catalog) Chipset(id string) (*Chipset, bool) {
	ch, ok := c.chipsets[id]
	return ch, ok
}

func (c *Catalog) Device(id string) (*Device, bool) {
	d, ok := c.devices[id]
	return d, ok
}

// Devices returns every device sorted by id.
func (c *Catalog) Devices() []Device {
	return sortedValues(c.devices)
}

func (c *Catalog) Emulator(id string) (*Emulator, bool) {
	em, ok := c.emulators[id]
	return em, ok
}

// Emulators returns every emulator sorted by id.
func (c *Catalog) Emulators() []Emulator {
	return sortedValues(c.emulators)
}

func (c *Catalog) OperatingSystem(id string) (*OperatingSystem, bool) {
	os, ok := c.operatingSystems[id]
	return os, ok
}

// OperatingSystems returns every OS sorted by id.
func (c *Catalog) OperatingSystems() []OperatingSystem {
	return sortedValues(c.operatingSystems)
}

// ChipsetFor returns the chipset id of a device, empty if the device is
// unknown or has no chipset.
func (c *Catalog) ChipsetFor(deviceID string) string {
	if d, ok := c.devices[deviceID]; ok {
		return d.ChipsetID
	}
	return ""
}

// PerformanceRecords returns the validated performance records in load
// order. Callers must not modify the returned slice.
func (c *Catalog) PerformanceRecords() []PerformanceRecord {
	return c.performance
}

// CompatibilityRecords returns the validated compatibility records in load
// order. Callers must not modify the returned slice.
func (c *Catalog) CompatibilityRecords() []CompatibilityRecord {
	return c.compatibility
}

// Profiles returns the validated OS layout profiles.
func (c *Catalog) Profiles() []OSLayoutProfile {
	return c.profiles
}

func (c *Catalog) Fingerprint(id string) (*LayoutFingerprint, bool) {
	fp, ok := c.fingerprints[id]
	return fp, ok
}

// Fingerprints returns every fingerprint sorted by id.
func (c *Catalog) Fingerprints() []LayoutFingerprint {
	out := make([]LayoutFingerprint, 0, len(c.fingerprintOrder))
	for _, id := range c.fingerprintOrder {
		out = append(out, *c.fingerprints[id])
	}
	return out
}

func sortedValues[T any](m map[string]*T) []T {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	out := make([]T, 0, len(keys))
	for _, k := range keys {
		out = append(out, *m[k])
	}
	return out
}
