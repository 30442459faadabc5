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
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
	"github.com/ZaparooProject/romrunner-core/pkg/testing/fixtures"
	"github.com/ZaparooProject/romrunner-core/pkg/testing/helpers"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const root = "/dest"

func arkosExpected() catalog.LayoutPaths {
	return catalog.LayoutPaths{
		Bios: "/roms/bios", Roms: "/roms", Saves: "/saves",
		States: "/savestates", Screenshots: "/screenshots",
	}
}

func newTree(t *testing.T, tree map[string]any) afero.Fs {
	t.Helper()
	h := helpers.NewMemoryFS()
	require.NoError(t, h.CreateDirectoryStructure(map[string]any{root: tree}))
	return h.Fs
}

func scan(t *testing.T, fs afero.Fs, selected string, expected catalog.LayoutPaths) *Report {
	t.Helper()
	s := New(fs, fixtures.NewCatalog(), Options{})
	rep, err := s.Scan(context.Background(), Request{Root: root, SelectedOSID: selected, Expected: expected})
	require.NoError(t, err)
	return rep
}

func kinds(ds []Discrepancy) map[DiscrepancyKind]int {
	out := make(map[DiscrepancyKind]int)
	for _, d := range ds {
		out[d.Kind]++
	}
	return out
}

func TestScanDetectsArkOSFromAllMarkers(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{"roms": map[string]any{"bios": nil}})
	res := scan(t, fs, fixtures.OSArkOS, arkosExpected()).Result

	assert.Equal(t, fixtures.OSArkOS, res.DetectedOSID)
	assert.Equal(t, "arkos-standard", res.DetectedFingerprintID)
	assert.Equal(t, catalog.ConfidenceHigh, res.Confidence)
	assert.False(t, res.Ambiguous)
	assert.Equal(t, []string{"roms", "roms/bios"}, res.MatchedMarkers)
	assert.Equal(t, []string{".arkos", "themes"}, res.MissingMarkers)
	require.Len(t, res.Matches, 2)
	assert.Equal(t, "rocknix", res.Matches[1].FingerprintID)
	assert.Equal(t, catalog.ConfidenceLow, res.Matches[1].Confidence)

	assert.Equal(t, map[DiscrepancyKind]int{KindMissingFolder: 3}, kinds(res.Discrepancies))
	assert.False(t, res.HasErrors())
	assert.Empty(t, res.Recommendations)
}

func TestScanEmptyDestination(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{})
	res := scan(t, fs, fixtures.OSArkOS, arkosExpected()).Result

	assert.True(t, res.Empty)
	assert.Empty(t, res.DetectedOSID)
	assert.Equal(t, catalog.ConfidenceNone, res.Confidence)
	assert.Empty(t, res.Matches)
	assert.Empty(t, res.ContentFolders)
	require.Len(t, res.Discrepancies, 5)
	for _, d := range res.Discrepancies {
		assert.Equal(t, KindMissingFolder, d.Kind)
		assert.Equal(t, SeverityWarning, d.Severity)
	}
	assert.Equal(t, []Recommendation{RecommendCreateFolders}, res.Recommendations)
}

func TestScanOSMismatch(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{
		".config": map[string]any{"rocknix": nil},
		"roms":    map[string]any{"bios": nil, "saves": nil},
	})
	res := scan(t, fs, fixtures.OSArkOS, arkosExpected()).Result

	assert.Equal(t, fixtures.OSRocknix, res.DetectedOSID)
	assert.Equal(t, catalog.ConfidenceHigh, res.Confidence)
	require.Len(t, res.Matches, 1, "arkos is ruled out by its none-marker")
	assert.True(t, res.HasErrors())
	assert.Equal(t, 1, kinds(res.Discrepancies)[KindOSMismatch])
	assert.Contains(t, res.Recommendations, RecommendUseDetected)
}

func TestScanAmbiguousAcrossOperatingSystems(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{"share": map[string]any{"roms": nil}})
	knulli := catalog.LayoutPaths{Roms: "/share/roms"}

	res := scan(t, fs, fixtures.OSArkOS, knulli).Result
	assert.True(t, res.Ambiguous)
	assert.Empty(t, res.DetectedOSID)
	assert.False(t, res.Detected())
	assert.Equal(t, catalog.ConfidenceMedium, res.Confidence)
	assert.Equal(t, []string{"batocera", "knulli"}, res.Candidates)
	assert.Equal(t, 1, kinds(res.Discrepancies)[KindAmbiguousLayout])
	assert.Zero(t, kinds(res.Discrepancies)[KindOSMismatch])
	assert.Equal(t, []Recommendation{RecommendConfirmLayout}, res.Recommendations)

	// Selecting one of the tied operating systems resolves the tie.
	res = scan(t, fs, fixtures.OSKnulli, knulli).Result
	assert.False(t, res.Ambiguous)
	assert.Equal(t, fixtures.OSKnulli, res.DetectedOSID)
	assert.Equal(t, []Recommendation{RecommendConfirmLayout}, res.Recommendations)
	assert.False(t, res.HasErrors())
}

func TestScanSameFamilyNoneMarkerIsAmbiguous(t *testing.T) {
	t.Parallel()

	e := fixtures.CatalogEntries()
	e.OperatingSystems = append(e.OperatingSystems,
		catalog.OperatingSystem{ID: "stock", Family: "stock"},
		catalog.OperatingSystem{ID: "stock-v2", Family: "stock"},
	)
	e.Fingerprints = []catalog.LayoutFingerprint{
		{ID: "stock-v1", OSID: "stock", AnyMarkers: []string{"data"}, NoneMarkers: []string{"newfw"}},
		{ID: "stock-v2", OSID: "stock-v2", AllMarkers: []string{"data", "newfw"}},
	}
	c, stats := catalog.New(e)
	require.Zero(t, stats.TotalSkipped())

	fs := newTree(t, map[string]any{"data": nil, "newfw": nil})
	rep, err := New(fs, c, Options{}).Scan(context.Background(), Request{Root: root})
	require.NoError(t, err)

	res := rep.Result
	assert.True(t, res.Ambiguous)
	assert.Equal(t, []string{"stock-v1", "stock-v2"}, res.Candidates)
	assert.Equal(t, catalog.ConfidenceHigh, res.Confidence)
	assert.Empty(t, res.DetectedOSID)
}

func TestScanCaseInsensitiveMarkers(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{"ROMS": map[string]any{"Bios": nil}})
	res := scan(t, fs, fixtures.OSArkOS, arkosExpected()).Result

	assert.Equal(t, fixtures.OSArkOS, res.DetectedOSID)
	assert.Equal(t, catalog.ConfidenceHigh, res.Confidence)
	for _, d := range res.Discrepancies {
		assert.NotEqual(t, "/roms", d.Path, "expected folder found despite casing")
	}
}

func TestScanContentFolders(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{
		"roms": map[string]any{
			"psx":  map[string]any{"ff7.chd": "0123456789"},
			"bios": map[string]any{"scph1001.bin": "abcd"},
		},
		"saves":                     map[string]any{"ff7.srm": "xy"},
		"Games":                     map[string]any{"gba": map[string]any{"a.gba": "1"}},
		"misc":                      map[string]any{"readme.txt": "hello"},
		".hidden":                   map[string]any{"x": "1"},
		"System Volume Information": nil,
		"top.txt":                   "ignored",
	})
	res := scan(t, fs, fixtures.OSArkOS, arkosExpected()).Result

	assert.Equal(t, []ContentFolder{
		{Path: "/Games", Category: catalog.CategoryRoms, FileCount: 1, TotalSize: 1},
		{Path: "/misc", Category: catalog.CategoryUnknown, FileCount: 1, TotalSize: 5},
		{Path: "/roms", Category: catalog.CategoryRoms, FileCount: 1, TotalSize: 10},
		{Path: "/roms/bios", Category: catalog.CategoryBios, FileCount: 1, TotalSize: 4},
		{Path: "/saves", Category: catalog.CategorySaves, FileCount: 1, TotalSize: 2},
	}, res.ContentFolders)

	var unexpected []string
	for _, d := range res.Discrepancies {
		if d.Kind == KindUnexpectedFolder {
			assert.Equal(t, SeverityInfo, d.Severity)
			unexpected = append(unexpected, d.Path)
		}
	}
	assert.Equal(t, []string{"/Games"}, unexpected)
}

func TestScanMissingFolderSuggestion(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{
		"roms":       map[string]any{"bios": nil},
		"savefiles":  nil,
		"screenshot": nil,
	})
	res := scan(t, fs, fixtures.OSArkOS, arkosExpected()).Result

	byPath := make(map[string]Discrepancy)
	for _, d := range res.Discrepancies {
		if d.Kind == KindMissingFolder {
			byPath[d.Path] = d
		}
	}
	require.Contains(t, byPath, "/saves")
	assert.Contains(t, byPath["/saves"].Suggestion, "did you mean /savefiles")
	require.Contains(t, byPath, "/screenshots")
	assert.Contains(t, byPath["/screenshots"].Suggestion, "did you mean /screenshot")
	require.Contains(t, byPath, "/savestates")
}

func TestScanManualConfig(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{"stuff": map[string]any{"file.bin": "1"}})
	res := scan(t, fs, fixtures.OSArkOS, arkosExpected()).Result

	assert.Equal(t, catalog.ConfidenceNone, res.Confidence)
	assert.Contains(t, res.Recommendations, RecommendManualConfig)
	assert.NotContains(t, res.Recommendations, RecommendCreateFolders)
}

func TestScanIsDeterministic(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{
		"share": map[string]any{"roms": map[string]any{"psx": map[string]any{"a.chd": "1"}}, "bios": nil},
		"roms":  map[string]any{"bios": nil},
	})
	first := scan(t, fs, fixtures.OSKnulli, catalog.LayoutPaths{Roms: "/share/roms"})
	second := scan(t, fs, fixtures.OSKnulli, catalog.LayoutPaths{Roms: "/share/roms"})

	assert.Equal(t, first.Result, second.Result)
	assert.NotEqual(t, first.Diagnostics.ScanID, second.Diagnostics.ScanID)
}

func TestScanDepthBound(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{"share": map[string]any{"roms": nil, "bios": nil}})
	s := New(fs, fixtures.NewCatalog(), Options{MaxDepth: 1})
	rep, err := s.Scan(context.Background(), Request{Root: root})
	require.NoError(t, err)

	assert.Empty(t, rep.Result.Matches)
	assert.Equal(t, catalog.ConfidenceNone, rep.Result.Confidence)
}

func TestScanDiagnostics(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{"roms": map[string]any{"bios": nil}})
	clock := clockwork.NewFakeClockAt(time.Date(2026, 10, 15, 9, 0, 0, 0, time.UTC))

	var progress []Progress
	s := New(fs, fixtures.NewCatalog(), Options{
		Clock:    clock,
		Progress: func(p Progress) { progress = append(progress, p) },
		Usage: func(context.Context, string) (*Storage, error) {
			return &Storage{Total: 100, Free: 40, Used: 60, UsedPercent: 60}, nil
		},
	})
	rep, err := s.Scan(context.Background(), Request{Root: root})
	require.NoError(t, err)

	d := rep.Diagnostics
	assert.NotEmpty(t, d.ScanID)
	assert.Equal(t, clock.Now(), d.Started)
	assert.Zero(t, d.Duration)
	require.NotNil(t, d.Storage)
	assert.Equal(t, uint64(40), d.Storage.Free)
	require.NotEmpty(t, progress)
	assert.Equal(t, d.DirsVisited, progress[len(progress)-1].DirsVisited)
	for i, p := range progress {
		assert.Equal(t, i+1, p.DirsVisited)
		assert.Equal(t, d.ScanID, p.ScanID)
	}
}

func TestScanUsageFailureIsNotFatal(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{})
	s := New(fs, fixtures.NewCatalog(), Options{
		Usage: func(context.Context, string) (*Storage, error) {
			return nil, errors.New("no statfs")
		},
	})
	rep, err := s.Scan(context.Background(), Request{Root: root})
	require.NoError(t, err)
	assert.Nil(t, rep.Diagnostics.Storage)
}

func TestScanCancelled(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{"roms": map[string]any{"bios": nil}})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(fs, fixtures.NewCatalog(), Options{}).Scan(ctx, Request{Root: root})
	require.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, ErrScanIO)
}

func TestScanCancelledMidWalk(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{
		"a": map[string]any{"b": map[string]any{"c": nil}},
		"d": map[string]any{"e": nil},
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	s := New(fs, fixtures.NewCatalog(), Options{
		Progress: func(p Progress) {
			if p.Phase == PhaseContent {
				cancel()
			}
		},
	})
	_, err := s.Scan(ctx, Request{Root: root})
	require.ErrorIs(t, err, context.Canceled)
}

func TestScanMissingRoot(t *testing.T) {
	t.Parallel()

	_, err := New(afero.NewMemMapFs(), fixtures.NewCatalog(), Options{}).
		Scan(context.Background(), Request{Root: "/nowhere"})

	require.ErrorIs(t, err, ErrScanIO)
	var se *ScanError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "stat", se.Op)
	assert.True(t, IsNotExist(err))
}

type failingFs struct {
	afero.Fs
	failOn string
}

func (f failingFs) Open(name string) (afero.File, error) {
	if name == f.failOn {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name) //nolint:wrapcheck // passthrough
}

func TestScanReadFailure(t *testing.T) {
	t.Parallel()

	base := newTree(t, map[string]any{"saves": map[string]any{"a.srm": "1"}})
	fs := failingFs{Fs: base, failOn: filepath.Join(root, "saves")}

	_, err := New(fs, fixtures.NewCatalog(), Options{}).Scan(context.Background(), Request{Root: root})
	require.ErrorIs(t, err, ErrScanIO)
	require.ErrorIs(t, err, os.ErrPermission)
	assert.False(t, IsNotExist(err))
}

func TestScanFollowsSymlinkedMarkerDirsWithoutLooping(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "target"), []byte("x"), 0o600))
	require.NoError(t, os.Symlink(dir, filepath.Join(dir, "a")))

	e := fixtures.CatalogEntries()
	e.OperatingSystems = append(e.OperatingSystems, catalog.OperatingSystem{ID: "loopos"})
	e.Fingerprints = []catalog.LayoutFingerprint{
		{ID: "loop", OSID: "loopos", AllMarkers: []string{"a/a/target"}},
	}
	c, _ := catalog.New(e)

	rep, err := New(afero.NewOsFs(), c, Options{}).Scan(context.Background(), Request{Root: dir})
	require.NoError(t, err)
	assert.Equal(t, "loopos", rep.Result.DetectedOSID)
	assert.Equal(t, catalog.ConfidenceHigh, rep.Result.Confidence)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := map[string]catalog.Category{
		"roms": catalog.CategoryRoms, "Games": catalog.CategoryRoms,
		"BIOS": catalog.CategoryBios, "firmware": catalog.CategoryBios,
		"saves": catalog.CategorySaves, "Save States": catalog.CategoryStates,
		"savestates": catalog.CategoryStates, "retroarch": catalog.CategoryConfig,
		"music": catalog.CategoryUnknown,
	}
	for name, want := range tests {
		assert.Equal(t, want, Classify(name), name)
	}
}

func TestFindPath(t *testing.T) {
	t.Parallel()

	fs := newTree(t, map[string]any{"Roms": map[string]any{"BIOS": nil}})

	p, ok := FindPath(fs, root, "/roms/bios")
	require.True(t, ok)
	assert.Equal(t, filepath.Join(root, "Roms", "BIOS"), p)

	_, ok = FindPath(fs, root, "/roms/saves")
	assert.False(t, ok)

	p, ok = FindPath(fs, root, "/")
	require.True(t, ok)
	assert.Equal(t, root, p)
}
