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

// Package paths merges user overrides, scan detection and OS profile
// defaults into one path per content category.
package paths

import (
	"fmt"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/database/overrides"
	"github.com/ZaparooProject/romrunner-core/pkg/destination/scanner"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

type Source string

const (
	SourceExpectedDefault Source = "expected_default"
	SourceDetected        Source = "detected"
	SourceUserOverride    Source = "user_override"
)

// Path is the resolved location for one category.
type Path struct {
	Category      catalog.Category   `json:"category"`
	Path          string             `json:"path"`
	Source        Source             `json:"source"`
	Confidence    catalog.Confidence `json:"confidence"`
	Reason        string             `json:"reason"`
	StaleOverride bool               `json:"staleOverride,omitempty"`
}

type Resolved struct {
	Confidence catalog.Confidence `json:"confidence"`
	Paths      []Path             `json:"paths"`
	Warnings   []string           `json:"warnings,omitempty"`
}

// Get returns the resolved path for a category.
func (r *Resolved) Get(c catalog.Category) (Path, bool) {
	for _, p := range r.Paths {
		if p.Category == c {
			return p, true
		}
	}
	return Path{}, false
}

// Input is everything known about one destination. Overrides may hold
// entries for any OS; only the one matching OSID is used.
type Input struct {
	Scan               *scanner.Result
	DestinationID      string
	OSID               string
	ExpectedConfidence catalog.Confidence
	Expected           catalog.LayoutPaths
	Overrides          []overrides.PathOverride
}

type Options struct {
	Clock clockwork.Clock
	// MaxAge marks overrides not validated within it as stale. Zero
	// disables the age check.
	MaxAge time.Duration
	// TrustDetected lets medium confidence detection beat profile
	// defaults. When off only high confidence detection is used.
	TrustDetected bool
}

type Resolver struct {
	fs   afero.Fs
	opts Options
}

func NewResolver(fs afero.Fs, opts Options) *Resolver {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	return &Resolver{fs: fs, opts: opts}
}

// Resolve picks, per category: the user override unless stale, then the
// detected path when detection is confident enough, then the expected
// default. A stale override falls through and lowers that category's
// confidence one step.
func (r *Resolver) Resolve(in *Input) Resolved {
	var res Resolved

	override, staleReason := r.selectOverride(in, &res)

	detectedOK := false
	minDetected := catalog.ConfidenceHigh
	if r.opts.TrustDetected {
		minDetected = catalog.ConfidenceMedium
	}
	if in.Scan != nil && in.Scan.Detected() && in.Scan.Confidence.AtLeast(minDetected) {
		detectedOK = true
	} else if in.Scan != nil && in.Scan.Ambiguous {
		res.Warnings = append(res.Warnings, "scan was ambiguous, detected paths ignored")
	}

	expectedConf := in.ExpectedConfidence
	if expectedConf == "" {
		expectedConf = catalog.ConfidenceHigh
	}

	confidences := make([]catalog.Confidence, 0, len(catalog.LayoutCategories))
	for _, c := range catalog.LayoutCategories {
		var p Path
		stale := false
		switch {
		case override != nil && override.Paths.Get(c) != "" && staleReason == "":
			p = Path{
				Path: override.Paths.Get(c), Source: SourceUserOverride,
				Confidence: catalog.ConfidenceHigh, Reason: "pinned by user",
			}
		default:
			stale = override != nil && override.Paths.Get(c) != ""
			switch {
			case detectedOK && in.Scan.DetectedPaths.Get(c) != "":
				p = Path{
					Path: in.Scan.DetectedPaths.Get(c), Source: SourceDetected,
					Confidence: in.Scan.Confidence,
					Reason:     fmt.Sprintf("detected %s layout", in.Scan.DetectedOSID),
				}
			case in.Expected.Get(c) != "":
				p = Path{
					Path: in.Expected.Get(c), Source: SourceExpectedDefault,
					Confidence: expectedConf, Reason: "OS profile default",
				}
			default:
				continue
			}
		}

		p.Category = c
		if stale {
			p.StaleOverride = true
			p.Confidence = p.Confidence.Lower()
			p.Reason += "; pinned override is stale (" + staleReason + ")"
		}
		res.Paths = append(res.Paths, p)
		confidences = append(confidences, p.Confidence)
	}

	res.Confidence = catalog.MinConfidence(confidences...)
	return res
}

// selectOverride finds the override for the input's OS and checks whether
// it is stale, returning the stale reason or "".
func (r *Resolver) selectOverride(in *Input, res *Resolved) (*overrides.PathOverride, string) {
	var match *overrides.PathOverride
	var others []string
	for i := range in.Overrides {
		o := &in.Overrides[i]
		if o.DestinationID != in.DestinationID {
			continue
		}
		if o.OSID == in.OSID {
			match = o
		} else {
			others = append(others, o.OSID)
		}
	}
	if match == nil {
		if len(others) > 0 {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("ignoring path overrides saved for other OS: %v", others))
		}
		return nil, ""
	}

	reason := r.staleReason(match)
	if reason != "" {
		log.Info().Str("destination", in.DestinationID).Str("os", in.OSID).Str("reason", reason).
			Msg("path override is stale, falling back")
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("saved path override for %s is stale: %s", in.DestinationID, reason))
	}
	return match, reason
}

func (r *Resolver) staleReason(o *overrides.PathOverride) string {
	if o.DestinationRoot != "" {
		fi, err := r.fs.Stat(o.DestinationRoot)
		if err != nil || !fi.IsDir() {
			return "destination root " + o.DestinationRoot + " is unreachable"
		}
	}
	if r.opts.MaxAge > 0 && r.opts.Clock.Since(o.LastValidated) > r.opts.MaxAge {
		return "not validated since " + o.LastValidated.Format(time.DateOnly)
	}
	return ""
}
