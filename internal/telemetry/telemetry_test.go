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

package telemetry

import (
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizePath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "no username in path",
			input:    "/usr/local/bin/romrunner",
			expected: "/usr/local/bin/romrunner",
		},
		{
			name:     "linux home path",
			input:    "/home/sam/.local/share/romrunner/pack/manifest.toml",
			expected: "/home/<user>/.local/share/romrunner/pack/manifest.toml",
		},
		{
			name:     "removable media mount",
			input:    "/run/media/sam/ARKOS/roms/psx",
			expected: "/media/<user>/ARKOS/roms/psx",
		},
		{
			name:     "media mount without run prefix",
			input:    "/media/sam/SD/bios",
			expected: "/media/<user>/SD/bios",
		},
		{
			name:     "macos users path",
			input:    "/Users/sam/Library/Application Support/romrunner/config.toml",
			expected: "/Users/<user>/Library/Application Support/romrunner/config.toml",
		},
		{
			name:     "windows path different drive",
			input:    "D:\\Users\\admin\\romrunner\\logs",
			expected: "C:\\Users\\<user>\\romrunner\\logs",
		},
		{
			name:     "error message with two paths",
			input:    "scan of /media/alice/SD failed: open /home/alice/pack: denied",
			expected: "scan of /media/<user>/SD failed: open /home/<user>/pack: denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.expected, sanitizePath(tt.input))
		})
	}
}

func TestSanitizeEvent(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{
		ServerName: "sams-laptop",
		Message:    "scan of /run/media/sam/SD failed",
		Extra:      map[string]any{"root": "/media/sam/SD", "count": 3},
		Exception: []sentry.Exception{{
			Value: "open /home/sam/pack: denied",
			Stacktrace: &sentry.Stacktrace{Frames: []sentry.Frame{{
				AbsPath:  "/home/sam/src/romrunner/pkg/service/scans.go",
				Filename: "pkg/service/scans.go",
			}}},
		}},
	}

	got := sanitizeEvent(event)
	require.NotNil(t, got)
	assert.Empty(t, got.ServerName)
	assert.Equal(t, "scan of /media/<user>/SD failed", got.Message)
	assert.Equal(t, "/media/<user>/SD", got.Extra["root"])
	assert.Equal(t, 3, got.Extra["count"])
	assert.Equal(t, "open /home/<user>/pack: denied", got.Exception[0].Value)
	assert.Equal(t, "/home/<user>/src/romrunner/pkg/service/scans.go",
		got.Exception[0].Stacktrace.Frames[0].AbsPath)
}

func TestInitDisabled(t *testing.T) {
	t.Parallel()

	require.NoError(t, Init(false, "", "id", "1.0.0"))
	assert.False(t, Enabled())
	Close()
}

func TestInitRequiresDSN(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, Init(true, "", "id", "1.0.0"), ErrNoDSN)
	assert.False(t, Enabled())
}
