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

package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/api/client"
	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/autolist"
	"github.com/ZaparooProject/romrunner-core/pkg/destination/paths"
	"github.com/ZaparooProject/romrunner-core/pkg/destination/scanner"
	"github.com/ZaparooProject/romrunner-core/pkg/service"
)

// Backend is what the CLI commands run against: an in-process engine, or
// a running service reached through its API.
type Backend interface {
	Scan(ctx context.Context, req service.ScanRequest) (*scanner.Report, error)
	ResolvePaths(ctx context.Context, req service.PathsRequest) (paths.Resolved, error)
	EvaluateBatch(ctx context.Context, req service.EvaluateRequest) ([]autolist.Verdict, error)
}

var _ Backend = (*service.Engine)(nil)

// APIBackend forwards commands to a running service.
type APIBackend struct {
	client client.APIClient
}

var _ Backend = (*APIBackend)(nil)

func NewAPIBackend(c client.APIClient) *APIBackend {
	return &APIBackend{client: c}
}

func (b *APIBackend) call(ctx context.Context, method string, params, result any) error {
	data, err := json.Marshal(params)
	if err != nil {
		return fmt.Errorf("failed to encode params: %w", err)
	}
	resp, err := b.client.Call(ctx, method, string(data))
	if err != nil {
		return fmt.Errorf("%s failed: %w", method, err)
	}
	if err := json.Unmarshal([]byte(resp), result); err != nil {
		return fmt.Errorf("failed to decode %s result: %w", method, err)
	}
	return nil
}

func (b *APIBackend) Scan(ctx context.Context, req service.ScanRequest) (*scanner.Report, error) {
	var report scanner.Report
	err := b.call(ctx, models.MethodDestinationScan, models.ScanParams{
		DestinationID: req.DestinationID,
		Root:          req.Root,
		DeviceID:      req.DeviceID,
		OSID:          req.OSID,
		Wait:          true,
	}, &report)
	if err != nil {
		return nil, err
	}
	return &report, nil
}

func (b *APIBackend) ResolvePaths(ctx context.Context, req service.PathsRequest) (paths.Resolved, error) {
	var resolved paths.Resolved
	err := b.call(ctx, models.MethodDestinationPaths, models.PathsParams{
		DestinationID: req.DestinationID,
		DeviceID:      req.DeviceID,
		OSID:          req.OSID,
		Root:          req.Root,
	}, &resolved)
	return resolved, err
}

func (b *APIBackend) EvaluateBatch(
	ctx context.Context,
	req service.EvaluateRequest,
) ([]autolist.Verdict, error) {
	var resp models.EvaluateResponse
	err := b.call(ctx, models.MethodAutoListEvaluate, models.EvaluateParams{
		DeviceID: req.DeviceID,
		OSID:     req.OSID,
		Games:    req.Games,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Verdicts, nil
}

// IsServiceRunning reports whether a service answers on the API.
func IsServiceRunning(ctx context.Context, c client.APIClient) bool {
	ctx, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	_, err := c.Call(ctx, models.MethodVersion, "")
	return err == nil
}
