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
	"fmt"
	"path"
	"strings"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/hbollon/go-edlib"
)

const suggestionMinSimilarity = 0.75

// contentCategory maps a layout category to the folder classification
// that would hold it.
func contentCategory(c catalog.Category) catalog.Category {
	switch c {
	case catalog.CategoryBios, catalog.CategoryRoms, catalog.CategorySaves, catalog.CategoryStates:
		return c
	default:
		return catalog.CategoryUnknown
	}
}

func (s *Scanner) discrepancies(st *scanState, res *Result, expected catalog.LayoutPaths) []Discrepancy {
	var out []Discrepancy

	for _, c := range catalog.LayoutCategories {
		want := expected.Get(c)
		if want == "" {
			continue
		}
		if _, ok := FindPath(s.fs, st.root, want); ok {
			continue
		}
		d := Discrepancy{
			Kind:       KindMissingFolder,
			Severity:   SeverityWarning,
			Category:   c,
			Path:       want,
			Message:    fmt.Sprintf("expected %s folder %s does not exist", c, want),
			Suggestion: "create " + want,
		}
		if alt := suggestFolder(c, want, res.ContentFolders); alt != "" {
			d.Suggestion = fmt.Sprintf("did you mean %s? otherwise create %s", alt, want)
		}
		out = append(out, d)
	}

	for _, f := range res.ContentFolders {
		for _, c := range catalog.LayoutCategories {
			if contentCategory(c) != f.Category || f.Category == catalog.CategoryUnknown {
				continue
			}
			want := expected.Get(c)
			if want == "" || normalizeRel(want) == normalizeRel(f.Path) {
				continue
			}
			out = append(out, Discrepancy{
				Kind:       KindUnexpectedFolder,
				Severity:   SeverityInfo,
				Category:   c,
				Path:       f.Path,
				Message:    fmt.Sprintf("found %s folder %s, layout expects %s", c, f.Path, want),
				Suggestion: fmt.Sprintf("use %s as the %s path or move its contents to %s", f.Path, c, want),
			})
		}
	}

	if res.Ambiguous {
		out = append(out, Discrepancy{
			Kind:     KindAmbiguousLayout,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("destination matches several layouts equally well: %s",
				strings.Join(res.Candidates, ", ")),
			Suggestion: "choose the layout that matches this card",
		})
	} else if res.DetectedOSID != "" && res.SelectedOSID != "" &&
		res.DetectedOSID != res.SelectedOSID && res.Confidence.AtLeast(catalog.ConfidenceMedium) {
		out = append(out, Discrepancy{
			Kind:     KindOSMismatch,
			Severity: SeverityError,
			Message: fmt.Sprintf("destination looks like %s (%s confidence), not %s",
				res.DetectedOSID, res.Confidence, res.SelectedOSID),
			Suggestion: fmt.Sprintf("switch the target OS to %s or confirm the destination", res.DetectedOSID),
		})
	}

	return out
}

// suggestFolder picks an existing folder that probably holds what the
// missing path was meant for: one classified as the same category, else
// the closest name.
func suggestFolder(c catalog.Category, want string, folders []ContentFolder) string {
	want = strings.ToLower(path.Base(want))
	var best string
	var bestScore float32
	for _, f := range folders {
		if cc := contentCategory(c); cc != catalog.CategoryUnknown && f.Category == cc {
			return f.Path
		}
		score := edlib.JaroWinklerSimilarity(want, strings.ToLower(path.Base(f.Path)))
		if score >= suggestionMinSimilarity && score > bestScore {
			best, bestScore = f.Path, score
		}
	}
	return best
}

func recommendations(res *Result, expected catalog.LayoutPaths) []Recommendation {
	var out []Recommendation

	if res.Empty {
		out = append(out, RecommendCreateFolders)
	}

	if res.Detected() && res.Confidence == catalog.ConfidenceHigh &&
		(res.DetectedOSID != res.SelectedOSID || pathsDiffer(res.DetectedPaths, expected)) {
		out = append(out, RecommendUseDetected)
	}

	if res.Ambiguous || (res.Detected() && res.Confidence == catalog.ConfidenceMedium) {
		out = append(out, RecommendConfirmLayout)
	}

	if !res.Empty && res.Confidence == catalog.ConfidenceNone && !hasRecognizedContent(res.ContentFolders) {
		out = append(out, RecommendManualConfig)
	}

	return out
}

func pathsDiffer(detected, expected catalog.LayoutPaths) bool {
	for _, c := range catalog.LayoutCategories {
		d, e := detected.Get(c), expected.Get(c)
		if d != "" && e != "" && normalizeRel(d) != normalizeRel(e) {
			return true
		}
	}
	return false
}

func hasRecognizedContent(folders []ContentFolder) bool {
	for _, f := range folders {
		if f.Category != catalog.CategoryUnknown {
			return true
		}
	}
	return false
}
