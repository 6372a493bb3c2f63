// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package server exposes the assistant over HTTP: a JSON query endpoint
// plus an SSE stream that carries completion tokens as they arrive.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/helmsley-labs/manifest/internal/log"
	"github.com/helmsley-labs/manifest/pkg/assistant"
	"github.com/helmsley-labs/manifest/pkg/dataset"
	"github.com/helmsley-labs/manifest/pkg/llm"
	"github.com/r3labs/sse/v2"
	"go.uber.org/zap"
)

// TokenStream is the SSE stream completion tokens are published to.
const TokenStream = "tokens"

const queryTimeout = 5 * time.Minute

// Server serves the assistant over HTTP. Queries are serialized: the
// assistant and its sandbox are single-threaded by design.
type Server struct {
	assistant  *assistant.Assistant
	overview   dataset.Overview
	events     *sse.Server
	httpServer *http.Server

	mu sync.Mutex
}

// New creates a server bound to addr.
func New(a *assistant.Assistant, overview dataset.Overview, addr string) *Server {
	events := sse.New()
	events.AutoReplay = false
	events.CreateStream(TokenStream)

	s := &Server{
		assistant: a,
		overview:  overview,
		events:    events,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/v1/query", s.handleQuery)
	mux.HandleFunc("/v1/history", s.handleHistory)
	mux.HandleFunc("/v1/overview", s.handleOverview)
	mux.HandleFunc("/v1/events", events.ServeHTTP)

	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           corsMiddleware(mux),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Start serves until the context is cancelled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info("http server listening", zap.String("addr", s.httpServer.Addr))
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
		return s.Shutdown()
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	}
}

// Shutdown drains in-flight requests and closes the event streams.
func (s *Server) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := s.httpServer.Shutdown(ctx)
	s.events.Close()
	return err
}

// Handler returns the HTTP handler, exposed for tests.
func (s *Server) Handler() http.Handler { return s.httpServer.Handler }

type queryRequest struct {
	Query string `json:"query"`
}

type errorResponse struct {
	Error     string `json:"error"`
	Transient bool   `json:"transient,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "POST required", false)
		return
	}

	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), false)
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required", false)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	resp, err := s.assistant.HandleQueryStream(ctx, req.Query, func(token string) {
		s.events.Publish(TokenStream, &sse.Event{Data: []byte(token)})
	})
	if err != nil {
		status := http.StatusBadGateway
		transient := false
		var svcErr *llm.ServiceError
		if errors.As(err, &svcErr) && svcErr.Transient {
			status = http.StatusServiceUnavailable
			transient = true
		}
		log.Error("query failed", zap.Error(err))
		writeError(w, status, err.Error(), transient)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required", false)
		return
	}
	writeJSON(w, http.StatusOK, s.assistant.History().Entries())
}

func (s *Server) handleOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "GET required", false)
		return
	}
	writeJSON(w, http.StatusOK, s.overview)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Warn("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string, transient bool) {
	writeJSON(w, status, errorResponse{Error: msg, Transient: transient})
}

// corsMiddleware allows browser clients on other origins to reach the API.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
