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

// Package client talks to a running ROM Runner API over its websocket
// endpoint. It is used by the CLI to drive a background service.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/url"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/config"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

var (
	ErrRequestTimeout   = errors.New("request timed out")
	ErrInvalidParams    = errors.New("invalid params")
	ErrRequestCancelled = errors.New("request cancelled")
)

const APIPath = "/api"

// APIClient abstracts API communication for testability.
type APIClient interface {
	// Call executes a JSON-RPC method and returns the raw result.
	Call(ctx context.Context, method, params string) (string, error)

	// WaitNotification blocks until a notification with the given method
	// arrives and returns its raw params.
	WaitNotification(ctx context.Context, timeout time.Duration, method string) (string, error)
}

// Client opens a fresh websocket connection per call.
type Client struct {
	URL     string
	Timeout time.Duration
}

var _ APIClient = (*Client)(nil)

func New(wsURL string) *Client {
	return &Client{URL: wsURL, Timeout: config.APIRequestTimeout}
}

// NewLocal returns a client for the API address in cfg. Wildcard listen
// hosts are dialled on localhost.
func NewLocal(cfg *config.Instance) *Client {
	host, port, err := net.SplitHostPort(cfg.APIListen())
	if err != nil {
		host, port = "", cfg.APIListen()
	}
	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "localhost"
	}
	u := url.URL{
		Scheme: "ws",
		Host:   net.JoinHostPort(host, port),
		Path:   APIPath,
	}
	return New(u.String())
}

func (c *Client) dial(ctx context.Context) (*websocket.Conn, error) {
	conn, resp, err := websocket.DefaultDialer.DialContext(ctx, c.URL, nil)
	if resp != nil && resp.Body != nil {
		_ = resp.Body.Close()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", c.URL, err)
	}
	return conn, nil
}

// readUntil reads messages on conn until match returns true or the
// connection fails. It closes done when finished.
func readUntil(conn *websocket.Conn, done chan<- struct{}, match func([]byte) bool) {
	defer close(done)
	for {
		_, message, err := conn.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("websocket read ended")
			return
		}
		if match(message) {
			return
		}
	}
}

func (c *Client) wait(
	ctx context.Context,
	conn *websocket.Conn,
	done <-chan struct{},
	timeout time.Duration,
) error {
	var timerChan <-chan time.Time
	if timeout > 0 {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		timerChan = timer.C
	}

	select {
	case <-done:
		return nil
	case <-timerChan:
		_ = conn.Close()
		<-done
		return ErrRequestTimeout
	case <-ctx.Done():
		_ = conn.Close()
		<-done
		return ErrRequestCancelled
	}
}

// Call sends method with params (a JSON document, or empty for none) and
// waits for the matching reply.
func (c *Client) Call(ctx context.Context, method, params string) (string, error) {
	id := models.NewStringID(uuid.New().String())
	req := models.RequestObject{
		JSONRPC: "2.0",
		ID:      &id,
		Method:  method,
	}
	if params != "" {
		if !json.Valid([]byte(params)) {
			return "", ErrInvalidParams
		}
		req.Params = json.RawMessage(params)
	}

	conn, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing websocket")
		}
	}()

	done := make(chan struct{})
	var resp *models.ResponseErrorObject
	var result json.RawMessage

	go readUntil(conn, done, func(message []byte) bool {
		var m struct {
			models.ResponseErrorObject
			Result json.RawMessage `json:"result"`
		}
		if err := json.Unmarshal(message, &m); err != nil || m.JSONRPC != "2.0" {
			return false
		}
		// errors the server couldn't tie to a request come back with a null id
		if m.ID.String() != id.String() && (m.Error == nil || !m.ID.IsNull()) {
			return false
		}
		resp = &m.ResponseErrorObject
		result = m.Result
		return true
	})

	if err := conn.WriteJSON(req); err != nil {
		_ = conn.Close()
		<-done
		return "", fmt.Errorf("failed to send request: %w", err)
	}

	if err := c.wait(ctx, conn, done, c.Timeout); err != nil {
		return "", err
	}
	if resp == nil {
		return "", ErrRequestTimeout
	}
	if resp.Error != nil {
		return "", fmt.Errorf("%s (code %d)", resp.Error.Message, resp.Error.Code)
	}
	if len(result) == 0 {
		return "null", nil
	}
	return string(result), nil
}

// WaitNotification blocks until a notification named method is broadcast.
// A zero timeout uses the client default, a negative one waits forever.
func (c *Client) WaitNotification(
	ctx context.Context,
	timeout time.Duration,
	method string,
) (string, error) {
	conn, err := c.dial(ctx)
	if err != nil {
		return "", err
	}
	defer func() {
		if err := conn.Close(); err != nil {
			log.Debug().Err(err).Msg("error closing websocket")
		}
	}()

	done := make(chan struct{})
	var params json.RawMessage
	found := false

	go readUntil(conn, done, func(message []byte) bool {
		var m struct {
			ID      *models.RPCID   `json:"id"`
			JSONRPC string          `json:"jsonrpc"`
			Method  string          `json:"method"`
			Params  json.RawMessage `json:"params"`
		}
		if err := json.Unmarshal(message, &m); err != nil || m.JSONRPC != "2.0" {
			return false
		}
		if !m.ID.IsAbsent() || m.Method != method {
			return false
		}
		params = m.Params
		found = true
		return true
	})

	if timeout == 0 {
		timeout = c.Timeout
	}
	if err := c.wait(ctx, conn, done, timeout); err != nil {
		return "", err
	}
	if !found {
		return "", ErrRequestTimeout
	}
	return string(params), nil
}
