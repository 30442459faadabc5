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

// Package helpers provides testing utilities shared across packages.
//
// MockUserDBI is a testify mock of database.UserDBI. Set expectations with
// On and verify with AssertExpectations:
//
//	userDB := helpers.NewMockUserDBI()
//	userDB.On("GetGameOverrides").Return([]database.GameOverride{}, nil)
//	...
//	userDB.AssertExpectations(t)
package helpers

import (
	"database/sql"
	"fmt"

	"github.com/ZaparooProject/romrunner-core/pkg/database"
	"github.com/stretchr/testify/mock"
)

// MockUserDBI is a mock implementation of the UserDBI interface using testify/mock
type MockUserDBI struct {
	mock.Mock
}

func NewMockUserDBI() *MockUserDBI {
	return &MockUserDBI{}
}

func mockErr(args mock.Arguments, idx int, op string) error {
	if err := args.Error(idx); err != nil {
		return fmt.Errorf("mock UserDBI %s failed: %w", op, err)
	}
	return nil
}

// GenericDBI methods
func (m *MockUserDBI) Open() error {
	return mockErr(m.Called(), 0, "open")
}

func (m *MockUserDBI) UnsafeGetSQLDb() *sql.DB {
	args := m.Called()
	if db, ok := args.Get(0).(*sql.DB); ok {
		return db
	}
	return nil
}

func (m *MockUserDBI) Truncate() error {
	return mockErr(m.Called(), 0, "truncate")
}

func (m *MockUserDBI) Allocate() error {
	return mockErr(m.Called(), 0, "allocate")
}

func (m *MockUserDBI) MigrateUp() error {
	return mockErr(m.Called(), 0, "migrate up")
}

func (m *MockUserDBI) Vacuum() error {
	return mockErr(m.Called(), 0, "vacuum")
}

func (m *MockUserDBI) Close() error {
	return mockErr(m.Called(), 0, "close")
}

func (m *MockUserDBI) GetDBPath() string {
	args := m.Called()
	return args.String(0)
}

// UserDBI specific methods
func (m *MockUserDBI) GetGameOverride(platformID, gameID string) (database.GameOverride, error) {
	args := m.Called(platformID, gameID)
	o, _ := args.Get(0).(database.GameOverride)
	return o, mockErr(args, 1, "get game override")
}

func (m *MockUserDBI) GetGameOverrides() ([]database.GameOverride, error) {
	args := m.Called()
	list, _ := args.Get(0).([]database.GameOverride)
	return list, mockErr(args, 1, "get game overrides")
}

func (m *MockUserDBI) SetGameOverride(o *database.GameOverride) error {
	return mockErr(m.Called(o), 0, "set game override")
}

func (m *MockUserDBI) DeleteGameOverride(platformID, gameID string) error {
	return mockErr(m.Called(platformID, gameID), 0, "delete game override")
}

func (m *MockUserDBI) GetPlatformOverride(platformID string) (database.PlatformOverride, error) {
	args := m.Called(platformID)
	o, _ := args.Get(0).(database.PlatformOverride)
	return o, mockErr(args, 1, "get platform override")
}

func (m *MockUserDBI) GetPlatformOverrides() ([]database.PlatformOverride, error) {
	args := m.Called()
	list, _ := args.Get(0).([]database.PlatformOverride)
	return list, mockErr(args, 1, "get platform overrides")
}

func (m *MockUserDBI) SetPlatformOverride(o *database.PlatformOverride) error {
	return mockErr(m.Called(o), 0, "set platform override")
}

func (m *MockUserDBI) DeletePlatformOverride(platformID string) error {
	return mockErr(m.Called(platformID), 0, "delete platform override")
}

func (m *MockUserDBI) GetScanCache(destinationID string) (database.ScanCacheEntry, error) {
	args := m.Called(destinationID)
	e, _ := args.Get(0).(database.ScanCacheEntry)
	return e, mockErr(args, 1, "get scan cache")
}

func (m *MockUserDBI) PutScanCache(entry *database.ScanCacheEntry) error {
	return mockErr(m.Called(entry), 0, "put scan cache")
}

func (m *MockUserDBI) DeleteScanCache(destinationID string) error {
	return mockErr(m.Called(destinationID), 0, "delete scan cache")
}
