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

package helpers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"
)

// JSONRPCRequest is a client-side request with a random string id.
type JSONRPCRequest struct {
	Params  any    `json:"params,omitempty"`
	JSONRPC string `json:"jsonrpc"`
	Method  string `json:"method"`
	ID      string `json:"id"`
}

// JSONRPCError is the error member of a reply.
type JSONRPCError struct {
	Message string `json:"message"`
	Code    int    `json:"code"`
}

// JSONRPCResponse is a decoded reply. Result stays raw so tests can decode
// it into the expected response type.
type JSONRPCResponse struct {
	Error   *JSONRPCError   `json:"error,omitempty"`
	Method  string          `json:"method,omitempty"`
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  json.RawMessage `json:"result,omitempty"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the message is a server notification.
func (r *JSONRPCResponse) IsNotification() bool {
	return r.Method != "" && len(r.ID) == 0
}

// DialWebSocket connects to the websocket endpoint at path on an
// httptest server URL. The connection is closed when the test ends.
func DialWebSocket(t *testing.T, serverURL, path string) *websocket.Conn {
	t.Helper()

	u, err := url.Parse(serverURL)
	require.NoError(t, err)
	u.Scheme = "ws"
	u.Path = path

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func newRequest(method string, params any) JSONRPCRequest {
	return JSONRPCRequest{
		JSONRPC: "2.0",
		ID:      uuid.New().String(),
		Method:  method,
		Params:  params,
	}
}

// SendJSONRPCRequest sends a request and reads messages until the reply
// with the same id arrives. Notifications received meanwhile are skipped.
func SendJSONRPCRequest(conn *websocket.Conn, method string, params any) (*JSONRPCResponse, error) {
	req := newRequest(method, params)
	if err := conn.WriteJSON(req); err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	wantID, err := json.Marshal(req.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal id: %w", err)
	}

	for {
		resp, err := ReadJSONRPCMessage(conn, 5*time.Second)
		if err != nil {
			return nil, err
		}
		if resp.IsNotification() {
			continue
		}
		if !bytes.Equal(resp.ID, wantID) {
			continue
		}
		return resp, nil
	}
}

// ReadJSONRPCMessage reads one JSON message within timeout.
func ReadJSONRPCMessage(conn *websocket.Conn, timeout time.Duration) (*JSONRPCResponse, error) {
	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("failed to set read deadline: %w", err)
	}
	_, data, err := conn.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	var resp JSONRPCResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal message: %w", err)
	}
	return &resp, nil
}

// WaitForNotification reads until a notification with the given method
// arrives, returning its params.
func WaitForNotification(
	t *testing.T,
	conn *websocket.Conn,
	method string,
	timeout time.Duration,
) json.RawMessage {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		remaining := time.Until(deadline)
		require.Positive(t, remaining, "timed out waiting for %s", method)
		msg, err := ReadJSONRPCMessage(conn, remaining)
		require.NoError(t, err)
		if msg.IsNotification() && msg.Method == method {
			return msg.Params
		}
	}
}

// PostJSONRPC sends a request over HTTP POST to serverURL+path.
func PostJSONRPC(
	ctx context.Context,
	client *http.Client,
	endpoint string,
	method string,
	params any,
) (*http.Response, error) {
	body, err := json.Marshal(newRequest(method, params))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send POST request: %w", err)
	}
	return resp, nil
}

// AssertJSONRPCSuccess verifies a response has no error and decodes its
// result into dest when dest is non-nil.
func AssertJSONRPCSuccess(t *testing.T, response *JSONRPCResponse, dest any) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.Nil(t, response.Error, "response should not contain an error")
	if dest != nil {
		require.NoError(t, json.Unmarshal(response.Result, dest))
	}
}

// AssertJSONRPCError verifies a response carries the expected error code.
func AssertJSONRPCError(t *testing.T, response *JSONRPCResponse, expectedCode int) {
	t.Helper()
	require.NotNil(t, response, "response should not be nil")
	require.NotNil(t, response.Error, "response should contain an error")
	require.Equal(t, expectedCode, response.Error.Code, "error code should match")
}
