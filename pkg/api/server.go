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

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZaparooProject/romrunner-core/pkg/api/methods"
	"github.com/ZaparooProject/romrunner-core/pkg/api/middleware"
	"github.com/ZaparooProject/romrunner-core/pkg/api/models"
	"github.com/ZaparooProject/romrunner-core/pkg/api/models/requests"
	"github.com/ZaparooProject/romrunner-core/pkg/api/validation"
	"github.com/ZaparooProject/romrunner-core/pkg/config"
	"github.com/ZaparooProject/romrunner-core/pkg/service"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/olahol/melody"
	"github.com/rs/zerolog/log"
)

const (
	APIPath = "/api"

	maxRequestBytes    = 1 << 20
	notificationBuffer = 100
	shutdownTimeout    = 5 * time.Second
)

var (
	JSONRPCErrorParseError = models.ErrorObject{
		Code:    -32700,
		Message: "Parse error",
	}
	JSONRPCErrorInvalidRequest = models.ErrorObject{
		Code:    -32600,
		Message: "Invalid Request",
	}
	JSONRPCErrorMethodNotFound = models.ErrorObject{
		Code:    -32601,
		Message: "Method not found",
	}
	JSONRPCErrorInvalidParams = models.ErrorObject{
		Code:    -32602,
		Message: "Invalid params",
	}
	JSONRPCErrorInternalError = models.ErrorObject{
		Code:    -32603,
		Message: "Internal error",
	}
	JSONRPCErrorServerError = models.ErrorObject{
		Code:    -32000,
		Message: "Server error",
	}
)

var methodMap = map[string]func(requests.RequestEnv) (any, error){
	// utils
	models.MethodVersion: methods.HandleVersion,
	// settings
	models.MethodSettings:       methods.HandleSettings,
	models.MethodSettingsUpdate: methods.HandleSettingsUpdate,
	// catalog
	models.MethodCatalogMeta:      methods.HandleCatalogMeta,
	models.MethodCatalogPlatforms: methods.HandleCatalogPlatforms,
	models.MethodCatalogDevices:   methods.HandleCatalogDevices,
	models.MethodCatalogOS:        methods.HandleCatalogOperatingSystems,
	// destinations
	models.MethodDestinationScan:       methods.HandleDestinationScan,
	models.MethodDestinationScanCancel: methods.HandleDestinationScanCancel,
	models.MethodDestinationPaths:      methods.HandleDestinationPaths,
	// auto-list
	models.MethodAutoListEvaluate: methods.HandleAutoListEvaluate,
	// overrides
	models.MethodOverridesPaths:           methods.HandlePathOverrides,
	models.MethodOverridesPathsSet:        methods.HandleSetPathOverride,
	models.MethodOverridesPathsDelete:     methods.HandleDeletePathOverride,
	models.MethodOverridesGames:           methods.HandleGameOverrides,
	models.MethodOverridesGamesSet:        methods.HandleSetGameOverride,
	models.MethodOverridesGamesDelete:     methods.HandleDeleteGameOverride,
	models.MethodOverridesPlatforms:       methods.HandlePlatformOverrides,
	models.MethodOverridesPlatformsSet:    methods.HandleSetPlatformOverride,
	models.MethodOverridesPlatformsDelete: methods.HandleDeletePlatformOverride,
}

// errorObject maps a handler error to a JSON-RPC error. Parameter problems
// are invalid params, everything else is a server error carrying the
// handler's message.
func errorObject(err error) models.ErrorObject {
	var verr *validation.Error
	switch {
	case errors.Is(err, validation.ErrMissingParams),
		errors.Is(err, validation.ErrInvalidParams),
		errors.As(err, &verr):
		return models.ErrorObject{Code: JSONRPCErrorInvalidParams.Code, Message: err.Error()}
	default:
		return models.ErrorObject{Code: JSONRPCErrorServerError.Code, Message: err.Error()}
	}
}

func handleRequest(env requests.RequestEnv, req models.RequestObject) (any, *models.ErrorObject) {
	log.Debug().Str("method", req.Method).Str("id", req.ID.String()).Msg("received request")

	fn, ok := methodMap[strings.ToLower(req.Method)]
	if !ok {
		log.Warn().Str("method", req.Method).Msg("unknown method")
		return nil, &JSONRPCErrorMethodNotFound
	}

	env.ID = *req.ID
	env.Params = req.Params

	resp, err := fn(env)
	if err != nil {
		log.Error().Err(err).Str("method", req.Method).Msg("error handling request")
		errObj := errorObject(err)
		return nil, &errObj
	}
	return resp, nil
}

func encodeResponse(id models.RPCID, result any) []byte {
	data, err := json.Marshal(models.ResponseObject{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
	if err != nil {
		log.Error().Err(err).Msg("error marshalling response")
		errObj := JSONRPCErrorInternalError
		return encodeError(id, &errObj)
	}
	return data
}

func encodeError(id models.RPCID, errObj *models.ErrorObject) []byte {
	log.Debug().Int("code", errObj.Code).Str("message", errObj.Message).Msg("sending error")
	data, err := json.Marshal(models.ResponseErrorObject{
		JSONRPC: "2.0",
		ID:      id,
		Error:   errObj,
	})
	if err != nil {
		log.Error().Err(err).Msg("error marshalling error response")
		return nil
	}
	return data
}

// processMessage handles one raw JSON-RPC message and returns the encoded
// reply, or nil when the message was a notification.
func processMessage(env requests.RequestEnv, msg []byte) []byte {
	if !json.Valid(msg) {
		log.Error().Msg("data not valid json")
		return encodeError(models.NullRPCID, &JSONRPCErrorParseError)
	}

	var req models.RequestObject
	if err := json.Unmarshal(msg, &req); err != nil {
		log.Error().Err(err).Msg("message is not a request object")
		return encodeError(models.NullRPCID, &JSONRPCErrorInvalidRequest)
	}

	id := models.NullRPCID
	if !req.ID.IsAbsent() {
		id = *req.ID
	}

	if req.JSONRPC != "2.0" {
		log.Error().Str("jsonrpc", req.JSONRPC).Msg("unsupported payload version")
		return encodeError(id, &JSONRPCErrorInvalidRequest)
	}

	if req.Method == "" {
		log.Error().Msg("request has no method")
		return encodeError(id, &JSONRPCErrorInvalidRequest)
	}

	if req.ID.IsAbsent() {
		log.Info().Str("method", req.Method).Msg("received notification, ignoring")
		return nil
	}

	resp, errObj := handleRequest(env, req)
	if errObj != nil {
		return encodeError(id, errObj)
	}
	return encodeResponse(id, resp)
}

func handleWSMessage(
	ctx context.Context,
	cfg *config.Instance,
	engine *service.Engine,
) func(session *melody.Session, msg []byte) {
	return func(session *melody.Session, msg []byte) {
		// heartbeat
		if bytes.Equal(msg, []byte("ping")) {
			if err := session.Write([]byte("pong")); err != nil {
				log.Error().Err(err).Msg("sending pong")
			}
			return
		}

		reply := processMessage(requests.RequestEnv{
			Context: ctx,
			Engine:  engine,
			Config:  cfg,
			IsLocal: isLoopback(session.Request.RemoteAddr),
		}, msg)
		if reply == nil {
			return
		}
		if err := session.Write(reply); err != nil {
			log.Error().Err(err).Msg("error sending response")
		}
	}
}

// handlePostRequest serves a single JSON-RPC request over plain HTTP.
func handlePostRequest(
	ctx context.Context,
	cfg *config.Instance,
	engine *service.Engine,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
		if err != nil {
			http.Error(w, "request too large", http.StatusRequestEntityTooLarge)
			return
		}

		reply := processMessage(requests.RequestEnv{
			Context: ctx,
			Engine:  engine,
			Config:  cfg,
			IsLocal: isLoopback(r.RemoteAddr),
		}, body)
		if reply == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		if _, err := w.Write(reply); err != nil {
			log.Error().Err(err).Msg("error writing HTTP response")
		}
	}
}

func isLoopback(remoteAddr string) bool {
	ip := middleware.ParseRemoteIP(remoteAddr)
	return ip != nil && ip.IsLoopback()
}

func broadcastNotifications(
	ctx context.Context,
	m *melody.Melody,
	notifications <-chan models.Notification,
) {
	for {
		select {
		case <-ctx.Done():
			log.Debug().Msg("stopping notification broadcast")
			return
		case notif, ok := <-notifications:
			if !ok {
				return
			}
			data, err := json.Marshal(models.NotificationObject{
				JSONRPC: "2.0",
				Method:  notif.Method,
				Params:  notif.Params,
			})
			if err != nil {
				log.Error().Err(err).Msg("marshalling notification")
				continue
			}
			if err := m.Broadcast(data); err != nil {
				log.Error().Err(err).Msg("broadcasting notification")
			}
		}
	}
}

func allowedOrigins(cfg *config.Instance) []string {
	origins := []string{"http://localhost:*", "http://127.0.0.1:*"}
	return append(origins, cfg.AllowedOrigins()...)
}

// newRouter builds the HTTP routes and the websocket hub. The hub must be
// closed by the caller.
func newRouter(
	ctx context.Context,
	cfg *config.Instance,
	engine *service.Engine,
	limiter *middleware.IPRateLimiter,
) (http.Handler, *melody.Melody) {
	r := chi.NewRouter()

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.NoCache)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins(cfg),
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		ExposedHeaders: []string{},
	}))
	r.Use(middleware.HTTPRateLimitMiddleware(limiter))

	m := melody.New()
	m.Config.MaxMessageSize = maxRequestBytes
	m.HandleMessage(middleware.WebSocketRateLimitHandler(limiter, handleWSMessage(ctx, cfg, engine)))

	r.Get(APIPath, func(w http.ResponseWriter, r *http.Request) {
		if err := m.HandleRequest(w, r); err != nil {
			log.Error().Err(err).Msg("handling websocket request")
		}
	})

	r.Group(func(r chi.Router) {
		r.Use(chimiddleware.Timeout(config.APIRequestTimeout))
		r.Post(APIPath, handlePostRequest(ctx, cfg, engine))
	})

	return r, m
}

// Start serves the JSON-RPC API on the configured listen address until ctx
// is cancelled. Engine notifications are broadcast to every connected
// websocket client.
func Start(ctx context.Context, cfg *config.Instance, engine *service.Engine) error {
	perSecond, burst := cfg.RateLimit()
	limiter := middleware.NewIPRateLimiter(perSecond, burst, nil)
	limiter.StartCleanup(ctx)

	handler, m := newRouter(ctx, cfg, engine, limiter)
	notifications, subID := engine.Subscribe(notificationBuffer)
	defer engine.Unsubscribe(subID)
	go broadcastNotifications(ctx, m, notifications)

	srv := &http.Server{
		Addr:              cfg.APIListen(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	stop := context.AfterFunc(ctx, func() {
		if err := m.Close(); err != nil {
			log.Warn().Err(err).Msg("error closing websocket sessions")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn().Err(err).Msg("error shutting down API server")
		}
	})
	defer stop()

	log.Info().Str("listen", srv.Addr).Msg("starting API server")
	err := srv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("API server failed: %w", err)
}
