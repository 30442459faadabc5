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

package mocks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/stretchr/testify/mock"
)

// MockAPIClient is a mock implementation of client.APIClient for testing.
type MockAPIClient struct {
	mock.Mock
}

func NewMockAPIClient() *MockAPIClient {
	return &MockAPIClient{}
}

func (m *MockAPIClient) Call(ctx context.Context, method, params string) (string, error) {
	args := m.Called(ctx, method, params)
	return args.String(0), args.Error(1)
}

func (m *MockAPIClient) WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	notificationType string,
) (string, error) {
	args := m.Called(ctx, timeout, notificationType)
	return args.String(0), args.Error(1)
}

// SetupVersionResponse makes the mock answer like a running service.
func (m *MockAPIClient) SetupVersionResponse(version string) {
	data, _ := json.Marshal(models.VersionResponse{Version: version})
	m.On("Call", mock.Anything, models.MethodVersion, "").Return(string(data), nil)
}

// SetupUnreachable makes every call fail as if no service is listening.
func (m *MockAPIClient) SetupUnreachable(err error) {
	m.On("Call", mock.Anything, mock.Anything, mock.Anything).Return("", err)
}

// SetupResult returns result, JSON encoded, for any call to method whose
// params satisfy match. A nil match accepts any params.
func (m *MockAPIClient) SetupResult(method string, match func(params string) bool, result any) {
	data, _ := json.Marshal(result)
	var params any = mock.Anything
	if match != nil {
		params = mock.MatchedBy(match)
	}
	m.On("Call", mock.Anything, method, params).Return(string(data), nil)
}

// SetupError fails every call to method with err.
func (m *MockAPIClient) SetupError(method string, err error) {
	m.On("Call", mock.Anything, method, mock.Anything).Return("", err)
}
