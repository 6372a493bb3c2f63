// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package assistant ties the pipeline together: prompt construction,
// completion, code extraction, sandboxed execution, and assembly of the
// final answer.
package assistant

import (
	"context"
	"fmt"

	"github.com/helmsley-labs/manifest/internal/log"
	"github.com/helmsley-labs/manifest/pkg/dataset"
	"github.com/helmsley-labs/manifest/pkg/extract"
	"github.com/helmsley-labs/manifest/pkg/llm"
	"github.com/helmsley-labs/manifest/pkg/prompt"
	"github.com/helmsley-labs/manifest/pkg/sandbox"
	"go.uber.org/zap"
)

// DefaultSampleRows is how many example rows the prompt embeds.
const DefaultSampleRows = 5

// QueryError describes an execution fault surfaced to the user. Trace is
// populated only when debug mode is on.
type QueryError struct {
	Message string `json:"message"`
	Trace   string `json:"trace,omitempty"`
}

func (e *QueryError) Error() string { return e.Message }

// Response is the assembled answer for one query.
type Response struct {
	ID    string `json:"id"`
	Query string `json:"query"`

	// Answer is the model's narrative text with code fences removed.
	Answer string `json:"answer"`
	// Code is the statement that was (or would have been) executed.
	Code string `json:"code,omitempty"`
	// Output is the rendered result table, empty when nothing ran or the
	// run failed.
	Output string `json:"output,omitempty"`
	// Chart is ECharts option JSON, set only when a chart was requested
	// and execution succeeded.
	Chart string `json:"chart,omitempty"`
	// UsedExecution reports whether the completion carried runnable code.
	UsedExecution bool `json:"used_execution"`
	// Err carries an execution fault. Completions without code and
	// successful runs leave it nil.
	Err *QueryError `json:"error,omitempty"`
}

// Option configures an Assistant.
type Option func(*Assistant)

// WithDebug includes fault traces in responses and enables debug logging
// of intermediate pipeline stages.
func WithDebug(debug bool) Option {
	return func(a *Assistant) { a.debug = debug }
}

// WithSampleRows overrides how many example rows prompts embed.
func WithSampleRows(n int) Option {
	return func(a *Assistant) { a.sampleRows = n }
}

// Assistant answers natural-language questions about a passenger manifest.
// It is not safe for concurrent use; serve loops must serialize calls.
type Assistant struct {
	provider   llm.Provider
	builder    *prompt.Builder
	runner     *sandbox.Runner
	history    *History
	debug      bool
	sampleRows int
}

// New builds the pipeline around an already-loaded table.
func New(provider llm.Provider, table *dataset.Table, opts ...Option) (*Assistant, error) {
	a := &Assistant{
		provider:   provider,
		history:    NewHistory(),
		sampleRows: DefaultSampleRows,
	}
	for _, opt := range opts {
		opt(a)
	}

	a.builder = prompt.NewBuilder(table, a.sampleRows)

	runner, err := sandbox.New(table)
	if err != nil {
		return nil, fmt.Errorf("failed to prepare sandbox: %w", err)
	}
	a.runner = runner

	log.Info("assistant ready",
		zap.String("provider", provider.Name()),
		zap.String("model", provider.Model()),
		zap.Int("passengers", table.Len()))
	return a, nil
}

// Close releases the sandbox.
func (a *Assistant) Close() error { return a.runner.Close() }

// History returns the conversation history.
func (a *Assistant) History() *History { return a.history }

// HandleQuery runs one question through the full pipeline. The returned
// error is reserved for completion-service failures; execution faults come
// back inside the response.
func (a *Assistant) HandleQuery(ctx context.Context, query string) (*Response, error) {
	return a.handle(ctx, query, nil)
}

// HandleQueryStream is HandleQuery with the completion streamed through cb
// when the provider supports it.
func (a *Assistant) HandleQueryStream(ctx context.Context, query string, cb llm.TokenCallback) (*Response, error) {
	return a.handle(ctx, query, cb)
}

func (a *Assistant) handle(ctx context.Context, query string, cb llm.TokenCallback) (*Response, error) {
	p := a.builder.Build(query)

	completion, err := a.complete(ctx, p.Text, cb)
	if err != nil {
		return nil, err
	}

	resp := a.assemble(ctx, query, p, completion.Text)
	a.history.Add(resp)
	return resp, nil
}

func (a *Assistant) complete(ctx context.Context, promptText string, cb llm.TokenCallback) (*llm.Completion, error) {
	if cb != nil {
		if sp, ok := a.provider.(llm.StreamingProvider); ok {
			return sp.CompleteStream(ctx, promptText, cb)
		}
	}
	completion, err := a.provider.Complete(ctx, promptText)
	if err != nil {
		return nil, err
	}
	if cb != nil {
		cb(completion.Text)
	}
	return completion, nil
}

// assemble turns a completion into the final response: extract code, run
// it, and fold the outcome in. No step here can fail the query.
func (a *Assistant) assemble(ctx context.Context, query string, p prompt.Prompt, completion string) *Response {
	resp := &Response{
		ID:     newResponseID(),
		Query:  query,
		Answer: extract.Prose(completion),
	}

	code, ok := extract.SQL(completion)
	if !ok {
		log.Debug("completion carried no statement", zap.String("id", resp.ID))
		return resp
	}

	resp.Code = code
	resp.UsedExecution = true
	if a.debug {
		log.Debug("executing statement", zap.String("id", resp.ID), zap.String("code", code))
	}

	result := a.runner.Run(ctx, code, sandbox.Options{Chart: p.Chart, Name: query})
	if result.Failed() {
		resp.Err = &QueryError{Message: result.Err.Message}
		if a.debug {
			resp.Err.Trace = result.Err.Trace
		}
		log.Warn("statement failed",
			zap.String("id", resp.ID),
			zap.String("error", result.Err.Message))
		return resp
	}

	resp.Output = result.Output
	resp.Chart = result.Chart
	return resp
}
