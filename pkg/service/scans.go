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

package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/api/notifications"
	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/ZaparooProject/romrunner-core/pkg/database/overrides"
	"github.com/ZaparooProject/romrunner-core/pkg/destination/scanner"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type ScanRequest struct {
	DestinationID string
	Root          string
	DeviceID      string
	OSID          string
}

// ScanHandle tracks a background scan started by StartScan.
type ScanHandle struct {
	ctx           context.Context
	report        *scanner.Report
	err           error
	cancel        context.CancelFunc
	done          chan struct{}
	ID            string
	DestinationID string
}

// Wait blocks until the scan ends and returns its report or error.
func (h *ScanHandle) Wait() (*scanner.Report, error) {
	<-h.done
	return h.report, h.err
}

func (h *ScanHandle) Done() <-chan struct{} {
	return h.done
}

func (h *ScanHandle) Cancel() {
	h.cancel()
}

// Scan scans a destination against the profile for the request's device
// and OS, emitting scan.progress notifications. A successful scan is
// remembered for the destination when remembered layouts are enabled, and
// revalidates a saved path override for the same root.
func (e *Engine) Scan(ctx context.Context, req ScanRequest) (*scanner.Report, error) {
	return e.scan(ctx, req, uuid.New().String())
}

func (e *Engine) scan(ctx context.Context, req ScanRequest, scanID string) (*scanner.Report, error) {
	if req.DestinationID == "" {
		return nil, errors.New("destination id is required")
	}
	profile := e.Profile(req.DeviceID, req.OSID)
	for _, w := range profile.Warnings {
		log.Warn().Str("destination", req.DestinationID).Msg(w)
	}

	report, err := e.newScanner().Scan(ctx, scanner.Request{
		ScanID:       scanID,
		Root:         req.Root,
		SelectedOSID: profile.OSID,
		Expected:     profile.Paths,
		Progress: func(p scanner.Progress) {
			notifications.ScanProgress(e.ns, req.DestinationID, p)
		},
	})
	if err != nil {
		return nil, fmt.Errorf("scan of %s failed: %w", req.DestinationID, err)
	}

	if e.cfg.RememberLayouts() {
		e.rememberScan(req.DestinationID, report)
	}
	e.revalidateOverride(req.DestinationID, profile.OSID, req.Root)
	return report, nil
}

// newScanner builds a scanner from the current scan depth settings.
func (e *Engine) newScanner() *scanner.Scanner {
	return scanner.New(e.fs, e.cat, scanner.Options{
		Clock:        e.clock,
		Usage:        e.usage,
		MaxDepth:     e.cfg.ScanMaxDepth(),
		ContentDepth: e.cfg.ScanContentDepth(),
		CountDepth:   e.cfg.ScanCountDepth(),
	})
}

func (e *Engine) rememberScan(destID string, report *scanner.Report) {
	data, err := json.Marshal(report.Result)
	if err != nil {
		log.Warn().Err(err).Str("destination", destID).Msg("failed to encode scan result")
		return
	}
	err = e.db.UserDB.PutScanCache(&database.ScanCacheEntry{
		ScannedAt:     report.Diagnostics.Started,
		DestinationID: destID,
		OSID:          report.Result.SelectedOSID,
		Confidence:    report.Result.Confidence,
		Result:        data,
	})
	if err != nil {
		log.Warn().Err(err).Str("destination", destID).Msg("failed to remember scan result")
	}
}

func (e *Engine) revalidateOverride(destID, osID, root string) {
	if e.paths == nil {
		return
	}
	o, err := e.paths.Get(destID, osID)
	if errors.Is(err, overrides.ErrNotFound) {
		return
	} else if err != nil {
		log.Warn().Err(err).Str("destination", destID).Msg("failed to read path override")
		return
	}
	if o.DestinationRoot != "" && o.DestinationRoot != root {
		return
	}
	if err := e.paths.MarkValidated(destID, osID); err != nil {
		log.Warn().Err(err).Str("destination", destID).Msg("failed to revalidate path override")
	}
}

// StartScan runs Scan in the background. Only one scan runs per
// destination: starting another cancels the previous one. A
// scan.completed notification is sent when it ends.
func (e *Engine) StartScan(ctx context.Context, req ScanRequest) (*ScanHandle, error) {
	if req.DestinationID == "" {
		return nil, errors.New("destination id is required")
	}

	scanCtx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(e.ctx, cancel)
	h := &ScanHandle{
		ctx:           scanCtx,
		ID:            uuid.New().String(),
		DestinationID: req.DestinationID,
		cancel:        cancel,
		done:          make(chan struct{}),
	}

	e.scansMu.Lock()
	if e.closed {
		e.scansMu.Unlock()
		stop()
		cancel()
		return nil, ErrEngineClosed
	}
	if prev, ok := e.scans[req.DestinationID]; ok {
		log.Info().Str("destination", req.DestinationID).Str("scanId", prev.ID).
			Msg("cancelling running scan for new request")
		prev.Cancel()
	}
	e.scans[req.DestinationID] = h
	e.wg.Add(1)
	e.scansMu.Unlock()

	go func() {
		defer e.wg.Done()
		defer stop()
		defer cancel()

		h.report, h.err = e.scan(scanCtx, req, h.ID)

		e.scansMu.Lock()
		if e.scans[req.DestinationID] == h {
			delete(e.scans, req.DestinationID)
		}
		e.scansMu.Unlock()
		close(h.done)

		payload := models.ScanCompletedPayload{
			DestinationID: req.DestinationID,
			ScanID:        h.ID,
			Report:        h.report,
		}
		if h.err != nil {
			payload.Error = h.err.Error()
			payload.Cancelled = errors.Is(h.err, context.Canceled)
		}
		notifications.ScanCompleted(e.ns, payload)
	}()
	return h, nil
}

// CancelScan cancels the running scan for a destination and reports
// whether there was one.
func (e *Engine) CancelScan(destID string) bool {
	e.scansMu.Lock()
	defer e.scansMu.Unlock()
	h, ok := e.scans[destID]
	if ok {
		h.Cancel()
	}
	return ok
}

// runningScan returns the active scan for a destination.
func (e *Engine) runningScan(destID string) (*ScanHandle, bool) {
	e.scansMu.Lock()
	defer e.scansMu.Unlock()
	h, ok := e.scans[destID]
	return h, ok
}
