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
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/catalog"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type DiscrepancyKind string

const (
	KindMissingFolder    DiscrepancyKind = "missing_folder"
	KindUnexpectedFolder DiscrepancyKind = "unexpected_folder"
	KindOSMismatch       DiscrepancyKind = "os_mismatch"
	KindAmbiguousLayout  DiscrepancyKind = "ambiguous_layout"
)

// Discrepancy is a difference between what was found and what the
// expected layout says, with a suggested fix.
type Discrepancy struct {
	Kind       DiscrepancyKind  `json:"kind"`
	Severity   Severity         `json:"severity"`
	Category   catalog.Category `json:"category,omitempty"`
	Path       string           `json:"path,omitempty"`
	Message    string           `json:"message"`
	Suggestion string           `json:"suggestion,omitempty"`
}

type Recommendation string

const (
	RecommendUseDetected   Recommendation = "use_detected"
	RecommendConfirmLayout Recommendation = "confirm_layout"
	RecommendCreateFolders Recommendation = "create_folders"
	RecommendManualConfig  Recommendation = "manual_config"
)

// FingerprintMatch is one fingerprint that survived evaluation.
type FingerprintMatch struct {
	FingerprintID  string              `json:"fingerprintId"`
	OSID           string              `json:"osId"`
	Confidence     catalog.Confidence  `json:"confidence"`
	MatchedMarkers []string            `json:"matchedMarkers"`
	Paths          catalog.LayoutPaths `json:"paths"`
}

// ContentFolder is a folder found under the destination root with the
// files beneath it counted and sized.
type ContentFolder struct {
	Path      string           `json:"path"`
	Category  catalog.Category `json:"category"`
	FileCount int              `json:"fileCount"`
	TotalSize int64            `json:"totalSize"`
}

// Result describes a destination. It contains nothing time or run
// dependent, so scanning an unchanged tree twice gives equal results.
type Result struct {
	Root                  string              `json:"root"`
	SelectedOSID          string              `json:"selectedOsId,omitempty"`
	DetectedOSID          string              `json:"detectedOsId,omitempty"`
	DetectedFingerprintID string              `json:"detectedFingerprintId,omitempty"`
	Confidence            catalog.Confidence  `json:"confidence"`
	DetectedPaths         catalog.LayoutPaths `json:"detectedPaths"`
	MatchedMarkers        []string            `json:"matchedMarkers"`
	MissingMarkers        []string            `json:"missingMarkers"`
	Matches               []FingerprintMatch  `json:"matches"`
	Candidates            []string            `json:"candidates,omitempty"`
	ContentFolders        []ContentFolder     `json:"contentFolders"`
	Discrepancies         []Discrepancy       `json:"discrepancies"`
	Recommendations       []Recommendation    `json:"recommendations"`
	Ambiguous             bool                `json:"ambiguous"`
	Empty                 bool                `json:"empty"`
}

// Detected reports whether a single layout was identified.
func (r *Result) Detected() bool {
	return r.DetectedOSID != "" && !r.Ambiguous
}

// HasErrors reports whether any discrepancy is error severity.
func (r *Result) HasErrors() bool {
	for _, d := range r.Discrepancies {
		if d.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Storage is the capacity of the volume holding the destination.
type Storage struct {
	Total       uint64  `json:"total"`
	Free        uint64  `json:"free"`
	Used        uint64  `json:"used"`
	UsedPercent float64 `json:"usedPercent"`
}

// Diagnostics are per-run facts kept apart from the Result.
type Diagnostics struct {
	Started     time.Time     `json:"started"`
	Storage     *Storage      `json:"storage,omitempty"`
	ScanID      string        `json:"scanId"`
	Duration    time.Duration `json:"duration"`
	DirsVisited int           `json:"dirsVisited"`
}

type Report struct {
	Diagnostics Diagnostics `json:"diagnostics"`
	Result      Result      `json:"result"`
}

// Progress is reported once per directory read.
type Progress struct {
	ScanID      string `json:"scanId"`
	Path        string `json:"path"`
	Phase       string `json:"phase"`
	DirsVisited int    `json:"dirsVisited"`
}

const (
	PhaseMarkers = "markers"
	PhaseContent = "content"
)
