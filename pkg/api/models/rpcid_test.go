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

package models

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRPCIDUnmarshal(t *testing.T) {
	t.Parallel()

	u := uuid.New().String()
	tests := []struct {
		name   string
		input  string
		want   string
		isNull bool
	}{
		{name: "string", input: `"abc"`, want: `"abc"`},
		{name: "number", input: `42`, want: `42`},
		{name: "null", input: `null`, want: `null`, isNull: true},
		{name: "uuid", input: `"` + u + `"`, want: `"` + u + `"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var id RPCID
			require.NoError(t, json.Unmarshal([]byte(tt.input), &id))
			assert.Equal(t, tt.want, id.String())
			assert.Equal(t, tt.isNull, id.IsNull())
			assert.False(t, id.IsAbsent())
		})
	}
}

func TestRPCIDRejectsCompositeValues(t *testing.T) {
	t.Parallel()

	for _, input := range []string{`{"a":1}`, `[1]`} {
		var id RPCID
		assert.ErrorIs(t, json.Unmarshal([]byte(input), &id), ErrInvalidRPCID)
	}
}

func TestRequestObjectAbsentID(t *testing.T) {
	t.Parallel()

	var req RequestObject
	require.NoError(t, json.Unmarshal([]byte(`{"jsonrpc":"2.0","method":"version"}`), &req))
	assert.True(t, req.ID.IsAbsent())
	assert.Equal(t, MethodVersion, req.Method)
}

func TestResponseEchoesID(t *testing.T) {
	t.Parallel()

	resp := ResponseObject{JSONRPC: "2.0", ID: NewStringID("req-1"), Result: "ok"}
	b, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":"req-1","result":"ok"}`, string(b))

	b, err = json.Marshal(ResponseObject{JSONRPC: "2.0"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"jsonrpc":"2.0","id":null,"result":null}`, string(b))
}
