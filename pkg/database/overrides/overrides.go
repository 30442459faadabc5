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

// Package overrides persists user-pinned destination paths in a bbolt
// file. Writes for one destination are serialized; reads never block on
// writers.
package overrides

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/helpers/syncutil"
	"github.com/go-playground/validator/v10"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	bolt "go.etcd.io/bbolt"
)

const (
	DBFile       = "path_overrides.db"
	BucketPaths  = "path_overrides"
	keySeparator = "\x1f"
	openTimeout  = 5 * time.Second
	fileMode     = 0o600
)

var ErrNotFound = errors.New("path override not found")

// PathOverride pins some or all category paths for one destination when
// used with one OS. Categories left blank are not pinned.
type PathOverride struct {
	LastValidated   time.Time           `json:"lastValidated"`
	Updated         time.Time           `json:"updated"`
	DestinationID   string              `json:"destinationId" validate:"required"`
	DestinationRoot string              `json:"destinationRoot,omitempty"`
	OSID            string              `json:"osId" validate:"required"`
	Notes           string              `json:"notes,omitempty"`
	Paths           catalog.LayoutPaths `json:"paths"`
}

type Store struct {
	db    *bolt.DB
	clock clockwork.Clock
	locks syncutil.KeyedMutex
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Open opens or creates the store at file.
func Open(file string, clock clockwork.Clock) (*Store, error) {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	db, err := bolt.Open(file, fileMode, &bolt.Options{Timeout: openTimeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open path override store: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(BucketPaths))
		return err //nolint:wrapcheck // wrapped below
	})
	if err != nil {
		if closeErr := db.Close(); closeErr != nil {
			log.Warn().Err(closeErr).Msg("failed to close path override store")
		}
		return nil, fmt.Errorf("failed to create path override bucket: %w", err)
	}
	return &Store{db: db, clock: clock}, nil
}

func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("failed to close path override store: %w", err)
	}
	return nil
}

func key(destID, osID string) []byte {
	return []byte(destID + keySeparator + osID)
}

func destPrefix(destID string) []byte {
	return []byte(destID + keySeparator)
}

// Get returns the override for a destination and OS.
func (s *Store) Get(destID, osID string) (*PathOverride, error) {
	var o *PathOverride
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket([]byte(BucketPaths)).Get(key(destID, osID))
		if v == nil {
			return ErrNotFound
		}
		var decoded PathOverride
		if err := json.Unmarshal(v, &decoded); err != nil {
			return fmt.Errorf("failed to decode override %s/%s: %w", destID, osID, err)
		}
		o = &decoded
		return nil
	})
	if err != nil {
		return nil, err //nolint:wrapcheck // ErrNotFound must stay comparable
	}
	return o, nil
}

// ForDestination returns every override saved for a destination, for any
// OS, ordered by OS id.
func (s *Store) ForDestination(destID string) ([]PathOverride, error) {
	return s.scan(destPrefix(destID))
}

// List returns every override ordered by destination then OS.
func (s *Store) List() ([]PathOverride, error) {
	return s.scan(nil)
}

func (s *Store) scan(prefix []byte) ([]PathOverride, error) {
	out := make([]PathOverride, 0)
	err := s.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(BucketPaths)).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			var o PathOverride
			if err := json.Unmarshal(v, &o); err != nil {
				log.Warn().Err(err).Str("key", string(k)).Msg("skipping unreadable path override")
				continue
			}
			out = append(out, o)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list path overrides: %w", err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].DestinationID != out[j].DestinationID {
			return out[i].DestinationID < out[j].DestinationID
		}
		return out[i].OSID < out[j].OSID
	})
	return out, nil
}

// Put saves o, replacing any override for the same destination and OS.
// Last writer wins.
func (s *Store) Put(o *PathOverride) error {
	if err := validate.Struct(o); err != nil {
		return fmt.Errorf("invalid path override: %w", err)
	}
	unlock := s.locks.Lock(o.DestinationID)
	defer unlock()
	return s.write(o)
}

func (s *Store) write(o *PathOverride) error {
	o.Paths = cleanPaths(o.Paths)
	o.Updated = s.clock.Now()
	if o.LastValidated.IsZero() {
		o.LastValidated = o.Updated
	}
	data, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("failed to encode path override: %w", err)
	}
	err = s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketPaths)).Put(key(o.DestinationID, o.OSID), data)
	})
	if err != nil {
		return fmt.Errorf("failed to save path override: %w", err)
	}
	log.Debug().Str("destination", o.DestinationID).Str("os", o.OSID).Msg("saved path override")
	return nil
}

// Update applies fn to the stored override under the destination's write
// lock. fn may not change the destination or OS.
func (s *Store) Update(destID, osID string, fn func(*PathOverride) error) error {
	unlock := s.locks.Lock(destID)
	defer unlock()

	o, err := s.Get(destID, osID)
	if err != nil {
		return err
	}
	if err := fn(o); err != nil {
		return err
	}
	o.DestinationID, o.OSID = destID, osID
	return s.write(o)
}

// MarkValidated records that the override was confirmed against the
// destination now.
func (s *Store) MarkValidated(destID, osID string) error {
	return s.Update(destID, osID, func(o *PathOverride) error {
		o.LastValidated = s.clock.Now()
		return nil
	})
}

// Delete removes an override. Deleting a missing override is not an error.
func (s *Store) Delete(destID, osID string) error {
	unlock := s.locks.Lock(destID)
	defer unlock()

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(BucketPaths)).Delete(key(destID, osID))
	})
	if err != nil {
		return fmt.Errorf("failed to delete path override: %w", err)
	}
	return nil
}

// cleanPaths makes every pinned path destination-rooted with forward
// slashes.
func cleanPaths(lp catalog.LayoutPaths) catalog.LayoutPaths {
	for _, c := range catalog.LayoutCategories {
		p := strings.TrimSpace(lp.Get(c))
		if p == "" {
			continue
		}
		lp.Set(c, path.Clean("/"+strings.ReplaceAll(p, "\\", "/")))
	}
	return lp
}
