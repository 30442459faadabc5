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
	"slices"
	"sort"
	"strings"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
)

// markerIndex is every marker path from every fingerprint plus the
// directory prefixes leading to them.
type markerIndex struct {
	markers  map[string]struct{}
	prefixes map[string]struct{}
	maxDepth int
}

func buildMarkerIndex(fps []catalog.LayoutFingerprint) markerIndex {
	idx := markerIndex{
		markers:  make(map[string]struct{}),
		prefixes: make(map[string]struct{}),
	}
	add := func(ms []string) {
		for _, m := range ms {
			m = normalizeRel(m)
			if m == "" {
				continue
			}
			idx.markers[m] = struct{}{}
			segs := strings.Split(m, "/")
			idx.maxDepth = max(idx.maxDepth, len(segs))
			for i := 1; i < len(segs); i++ {
				idx.prefixes[strings.Join(segs[:i], "/")] = struct{}{}
			}
		}
	}
	for i := range fps {
		add(fps[i].AllMarkers)
		add(fps[i].AnyMarkers)
		add(fps[i].NoneMarkers)
	}
	return idx
}

type dirItem struct {
	real  string
	rel   string
	depth int
}

// collectMarkers walks breadth-first from the root, descending only into
// directories that lead to a marker, down to the smaller of maxDepth and
// the deepest marker. Symlinked directories are followed; the depth bound
// terminates cycles.
func (s *Scanner) collectMarkers(ctx context.Context, st *scanState, idx markerIndex) (map[string]struct{}, error) {
	present := make(map[string]struct{})
	limit := min(s.opts.MaxDepth, idx.maxDepth)
	if limit <= 0 {
		return present, nil
	}

	queue := []dirItem{{real: st.root}}
	for len(queue) > 0 {
		item := queue[0]
		queue = queue[1:]

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("marker scan cancelled: %w", err)
		}
		entries, err := readDir(s.fs, item.real)
		if err != nil {
			return nil, err
		}
		st.visit(item.real, PhaseMarkers)

		for _, e := range entries {
			rel := strings.ToLower(e.Name())
			if item.rel != "" {
				rel = item.rel + "/" + rel
			}
			if _, ok := idx.markers[rel]; ok {
				present[rel] = struct{}{}
			}
			if item.depth+1 >= limit {
				continue
			}
			if _, ok := idx.prefixes[rel]; !ok {
				continue
			}
			childReal := filepath.Join(item.real, e.Name())
			if followDir(s.fs, childReal, e) {
				queue = append(queue, dirItem{real: childReal, rel: rel, depth: item.depth + 1})
			}
		}
	}
	return present, nil
}

// evaluation is a fingerprint scored against the markers present.
type evaluation struct {
	fp *catalog.LayoutFingerprint
	// raw ignores none-markers.
	raw        catalog.Confidence
	confidence catalog.Confidence
	matched    []string
	missing    []string
	noneHit    bool
}

func evaluate(fp *catalog.LayoutFingerprint, present map[string]struct{}) evaluation {
	ev := evaluation{fp: fp}
	has := func(m string) bool {
		_, ok := present[normalizeRel(m)]
		return ok
	}

	seen := make(map[string]struct{})
	note := func(m string, ok bool) {
		n := normalizeRel(m)
		if _, dup := seen[n]; dup {
			return
		}
		seen[n] = struct{}{}
		if ok {
			ev.matched = append(ev.matched, n)
		} else {
			ev.missing = append(ev.missing, n)
		}
	}

	allPresent := len(fp.AllMarkers) > 0
	for _, m := range fp.AllMarkers {
		ok := has(m)
		allPresent = allPresent && ok
		note(m, ok)
	}
	anyCount := 0
	for _, m := range fp.AnyMarkers {
		ok := has(m)
		if ok {
			anyCount++
		}
		note(m, ok)
	}
	for _, m := range fp.NoneMarkers {
		if has(m) {
			ev.noneHit = true
		}
	}
	sort.Strings(ev.matched)
	sort.Strings(ev.missing)

	switch {
	case allPresent:
		ev.raw = catalog.ConfidenceHigh
	case anyCount > 0 && anyCount >= fp.AnyThreshold():
		ev.raw = catalog.ConfidenceMedium
	default:
		ev.raw = catalog.ConfidenceLow
	}
	ev.confidence = ev.raw
	if ev.noneHit {
		ev.confidence = catalog.ConfidenceNone
	}
	return ev
}

// survives drops fingerprints with no supporting evidence, those ruled out
// by a none-marker, and those under their own minimum confidence.
func (ev *evaluation) survives() bool {
	if len(ev.matched) == 0 || ev.confidence == catalog.ConfidenceNone {
		return false
	}
	return ev.confidence.AtLeast(ev.fp.MinConfidence)
}

type detection struct {
	winner     *evaluation
	matches    []FingerprintMatch
	candidates []string
	ambiguous  bool
}

// detect ranks surviving fingerprints by confidence, preferring the
// selected OS on ties. Equal confidence across different operating systems
// with none of them selected is ambiguous, as is a winner whose markers
// rule out a same-family fingerprint that would otherwise score medium or
// better.
func (s *Scanner) detect(evals []evaluation, selectedOS string) detection {
	var survivors []*evaluation
	for i := range evals {
		if evals[i].survives() {
			survivors = append(survivors, &evals[i])
		}
	}
	if len(survivors) == 0 {
		return detection{}
	}

	slices.SortFunc(survivors, func(a, b *evaluation) int {
		if d := b.confidence.Rank() - a.confidence.Rank(); d != 0 {
			return d
		}
		aSel, bSel := a.fp.OSID == selectedOS, b.fp.OSID == selectedOS
		if aSel != bSel {
			if aSel {
				return -1
			}
			return 1
		}
		return strings.Compare(a.fp.ID, b.fp.ID)
	})

	d := detection{winner: survivors[0]}
	for _, ev := range survivors {
		d.matches = append(d.matches, FingerprintMatch{
			FingerprintID:  ev.fp.ID,
			OSID:           ev.fp.OSID,
			Confidence:     ev.confidence,
			MatchedMarkers: ev.matched,
			Paths:          ev.fp.Paths,
		})
	}

	top := d.winner
	if top.fp.OSID != selectedOS || selectedOS == "" {
		for _, ev := range survivors[1:] {
			if ev.confidence != top.confidence {
				break
			}
			if ev.fp.OSID != top.fp.OSID {
				d.ambiguous = true
				d.candidates = append(d.candidates, ev.fp.ID)
			}
		}
	}

	for i := range evals {
		ev := &evals[i]
		if ev.fp.ID == top.fp.ID || !ev.noneHit || !ev.raw.AtLeast(catalog.ConfidenceMedium) {
			continue
		}
		if !s.sameFamily(ev.fp.OSID, top.fp.OSID) || !overlaps(top.matched, ev.fp.NoneMarkers) {
			continue
		}
		d.ambiguous = true
		d.candidates = append(d.candidates, ev.fp.ID)
	}

	if d.ambiguous {
		d.candidates = append(d.candidates, top.fp.ID)
		sort.Strings(d.candidates)
		d.candidates = slices.Compact(d.candidates)
	}
	return d
}

func (s *Scanner) sameFamily(a, b string) bool {
	if a == b {
		return true
	}
	osA, okA := s.cat.OperatingSystem(a)
	osB, okB := s.cat.OperatingSystem(b)
	return okA && okB && osA.Family != "" && osA.Family == osB.Family
}

func overlaps(matched, markers []string) bool {
	for _, m := range markers {
		if slices.Contains(matched, normalizeRel(m)) {
			return true
		}
	}
	return false
}
