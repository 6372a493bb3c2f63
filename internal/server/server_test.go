// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/helmsley-labs/manifest/pkg/assistant"
	"github.com/helmsley-labs/manifest/pkg/dataset"
	"github.com/helmsley-labs/manifest/pkg/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked
1,0,3,"Braund, Mr. Owen Harris",male,22,1,0,A/5 21171,7.25,,S
2,1,1,"Cumings, Mrs. John Bradley",female,38,1,0,PC 17599,71.2833,C85,C
3,1,3,"Heikkinen, Miss. Laina",female,26,0,0,STON/O2. 3101282,7.925,,S
`

type stubProvider struct {
	completion string
	err        error
}

func (s *stubProvider) Complete(context.Context, string) (*llm.Completion, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Completion{Text: s.completion, StopReason: "end_turn"}, nil
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-model" }

func newTestServer(t *testing.T, provider llm.Provider) *Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "titanic.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	table, err := dataset.Load(path)
	require.NoError(t, err)
	a, err := assistant.New(provider, table)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return New(a, table.Overview(), "127.0.0.1:0")
}

func TestHandleQuery(t *testing.T) {
	s := newTestServer(t, &stubProvider{
		completion: "Counting.\n\n```sql\nSELECT COUNT(*) AS total FROM passengers\n```\n",
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/query",
		strings.NewReader(`{"query": "How many passengers?"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp assistant.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.UsedExecution)
	assert.Contains(t, resp.Output, "total")
}

func TestHandleQuery_BadRequests(t *testing.T) {
	s := newTestServer(t, &stubProvider{completion: "ok"})

	tests := []struct {
		name   string
		method string
		body   string
		want   int
	}{
		{name: "wrong method", method: http.MethodGet, body: "", want: http.StatusMethodNotAllowed},
		{name: "malformed json", method: http.MethodPost, body: "{", want: http.StatusBadRequest},
		{name: "missing query", method: http.MethodPost, body: "{}", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/v1/query", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			s.Handler().ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestHandleQuery_TransientServiceError(t *testing.T) {
	s := newTestServer(t, &stubProvider{
		err: &llm.ServiceError{Provider: "stub", Message: "throttled", Transient: true},
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/query",
		strings.NewReader(`{"query": "anything"}`))
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var resp struct {
		Error     string `json:"error"`
		Transient bool   `json:"transient"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Transient)
	assert.Contains(t, resp.Error, "throttled")
}

func TestHandleHistory(t *testing.T) {
	s := newTestServer(t, &stubProvider{completion: "No code here."})

	ask := httptest.NewRequest(http.MethodPost, "/v1/query",
		strings.NewReader(`{"query": "hello"}`))
	s.Handler().ServeHTTP(httptest.NewRecorder(), ask)

	req := httptest.NewRequest(http.MethodGet, "/v1/history", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var entries []assistant.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "hello", entries[0].Query)
}

func TestHandleOverview(t *testing.T) {
	s := newTestServer(t, &stubProvider{completion: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/v1/overview", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var ov dataset.Overview
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ov))
	assert.Equal(t, 3, ov.Rows)
}

func TestHandleHealth(t *testing.T) {
	s := newTestServer(t, &stubProvider{completion: "ok"})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "ok")
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, &stubProvider{completion: "ok"})

	req := httptest.NewRequest(http.MethodOptions, "/v1/query", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
