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

// Package scanner inspects a destination directory, identifies which OS
// layout it carries and compares it with the layout the user expects.
package scanner

import (
	"context"
	"errors"
	"os"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

const (
	DefaultMaxDepth     = 3
	DefaultContentDepth = 2
	DefaultCountDepth   = 6
)

// UsageFunc reports the capacity of the volume holding root.
type UsageFunc func(ctx context.Context, root string) (*Storage, error)

type Options struct {
	Clock    clockwork.Clock
	Progress func(Progress)
	Usage    UsageFunc
	// MaxDepth bounds the marker walk. The walk never goes deeper than the
	// deepest marker either.
	MaxDepth int
	// ContentDepth bounds which folders are reported as content folders.
	ContentDepth int
	// CountDepth bounds file counting.
	CountDepth int
}

func (o Options) withDefaults() Options {
	if o.Clock == nil {
		o.Clock = clockwork.NewRealClock()
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.ContentDepth <= 0 {
		o.ContentDepth = DefaultContentDepth
	}
	if o.CountDepth <= 0 {
		o.CountDepth = DefaultCountDepth
	}
	o.CountDepth = max(o.CountDepth, o.ContentDepth)
	return o
}

// Request is one scan. Expected is the layout the OS profile resolver
// produced for the selected OS. ScanID and Progress are optional and
// replace the generated id and the scanner-wide progress callback.
type Request struct {
	Progress     func(Progress)
	ScanID       string
	Root         string
	SelectedOSID string
	Expected     catalog.LayoutPaths
}

// Scanner only lists directories and stats entries; it never reads file
// contents. It is safe for concurrent use.
type Scanner struct {
	fs    afero.Fs
	cat   *catalog.Catalog
	fps   []catalog.LayoutFingerprint
	index markerIndex
	opts  Options
}

func New(fs afero.Fs, cat *catalog.Catalog, opts Options) *Scanner {
	fps := cat.Fingerprints()
	return &Scanner{
		fs:    fs,
		cat:   cat,
		fps:   fps,
		index: buildMarkerIndex(fps),
		opts:  opts.withDefaults(),
	}
}

type scanState struct {
	progress func(Progress)
	root     string
	scanID   string
	visited  int
}

func (st *scanState) visit(dir, phase string) {
	st.visited++
	if st.progress != nil {
		st.progress(Progress{
			ScanID:      st.scanID,
			Path:        dir,
			Phase:       phase,
			DirsVisited: st.visited,
		})
	}
}

// Scan characterizes req.Root. A destination that does not match
// expectations is a normal result; only filesystem failures (as
// *ScanError) and context cancellation are errors.
func (s *Scanner) Scan(ctx context.Context, req Request) (*Report, error) {
	started := s.opts.Clock.Now()
	st := &scanState{
		root:     req.Root,
		scanID:   req.ScanID,
		progress: s.opts.Progress,
	}
	if st.scanID == "" {
		st.scanID = uuid.New().String()
	}
	if req.Progress != nil {
		st.progress = req.Progress
	}

	fi, err := s.fs.Stat(req.Root)
	if err != nil {
		return nil, &ScanError{Op: "stat", Path: req.Root, Err: err}
	}
	if !fi.IsDir() {
		return nil, &ScanError{Op: "stat", Path: req.Root, Err: errors.New("not a directory")}
	}

	log.Debug().Str("scanId", st.scanID).Str("root", req.Root).Str("os", req.SelectedOSID).
		Msg("starting destination scan")

	present, err := s.collectMarkers(ctx, st, s.index)
	if err != nil {
		return nil, err
	}

	evals := make([]evaluation, 0, len(s.fps))
	for i := range s.fps {
		evals = append(evals, evaluate(&s.fps[i], present))
	}
	det := s.detect(evals, req.SelectedOSID)

	folders, empty, err := s.collectContent(ctx, st)
	if err != nil {
		return nil, err
	}

	res := Result{
		Root:            req.Root,
		SelectedOSID:    req.SelectedOSID,
		Confidence:      catalog.ConfidenceNone,
		Matches:         det.matches,
		Candidates:      det.candidates,
		Ambiguous:       det.ambiguous,
		ContentFolders:  folders,
		Empty:           empty,
		MatchedMarkers:  []string{},
		MissingMarkers:  []string{},
		Discrepancies:   []Discrepancy{},
		Recommendations: []Recommendation{},
	}
	if res.Matches == nil {
		res.Matches = []FingerprintMatch{}
	}
	if res.ContentFolders == nil {
		res.ContentFolders = []ContentFolder{}
	}
	if w := det.winner; w != nil {
		res.Confidence = w.confidence
		res.MatchedMarkers = w.matched
		if w.missing != nil {
			res.MissingMarkers = w.missing
		}
		if !det.ambiguous {
			res.DetectedOSID = w.fp.OSID
			res.DetectedFingerprintID = w.fp.ID
			res.DetectedPaths = w.fp.Paths
		}
	}

	if d := s.discrepancies(st, &res, req.Expected); d != nil {
		res.Discrepancies = d
	}
	if r := recommendations(&res, req.Expected); r != nil {
		res.Recommendations = r
	}

	report := &Report{
		Result: res,
		Diagnostics: Diagnostics{
			ScanID:      st.scanID,
			Started:     started,
			Duration:    s.opts.Clock.Since(started),
			DirsVisited: st.visited,
			Storage:     s.storage(ctx, req.Root),
		},
	}

	log.Info().
		Str("scanId", st.scanID).
		Str("root", req.Root).
		Str("detected", res.DetectedOSID).
		Str("confidence", string(res.Confidence)).
		Bool("ambiguous", res.Ambiguous).
		Int("discrepancies", len(res.Discrepancies)).
		Int("dirs", st.visited).
		Dur("duration", report.Diagnostics.Duration).
		Msg("destination scan complete")

	return report, nil
}

func (s *Scanner) storage(ctx context.Context, root string) *Storage {
	if s.opts.Usage == nil {
		return nil
	}
	u, err := s.opts.Usage(ctx, root)
	if err != nil {
		log.Debug().Err(err).Str("root", root).Msg("storage usage unavailable")
		return nil
	}
	return u
}

// IsNotExist reports whether a scan failed because the root is missing.
func IsNotExist(err error) bool {
	var se *ScanError
	if errors.As(err, &se) {
		return errors.Is(se.Err, os.ErrNotExist)
	}
	return false
}
