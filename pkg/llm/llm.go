// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package llm defines the completion provider interface and its failure
// taxonomy. Concrete providers live in subpackages (gemini, anthropic,
// ollama); the factory package builds one from configuration.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/url"
)

// Usage reports token consumption for one completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// Completion is the raw text returned by a provider for one prompt. It is
// ephemeral and never persisted.
type Completion struct {
	Text       string
	StopReason string
	Usage      Usage
}

// TokenCallback receives tokens as a streaming provider produces them.
type TokenCallback func(token string)

// Provider generates a completion for a prompt. Implementations hold no
// state beyond credentials and an HTTP client, and must bound every call
// with a timeout so a hung service cannot block the query loop.
type Provider interface {
	// Complete sends the prompt and returns the full response text.
	// Failures are *ServiceError.
	Complete(ctx context.Context, prompt string) (*Completion, error)

	// Name identifies the provider ("gemini", "anthropic", "ollama").
	Name() string

	// Model returns the model identifier in use.
	Model() string
}

// StreamingProvider additionally supports token-by-token streaming.
type StreamingProvider interface {
	Provider

	// CompleteStream behaves like Complete but invokes cb for each token.
	CompleteStream(ctx context.Context, prompt string, cb TokenCallback) (*Completion, error)
}

// ServiceError reports a failed completion call. Transient marks failures a
// caller could reasonably retry (network errors, timeouts, throttling);
// permanent failures (bad credential, malformed request) it should not.
type ServiceError struct {
	Provider  string
	Message   string
	Transient bool
	Err       error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Provider, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Provider, e.Message)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// WrapTransport classifies a transport-level failure. Timeouts and network
// errors are transient; everything else is permanent.
func WrapTransport(provider string, err error) *ServiceError {
	transient := errors.Is(err, context.DeadlineExceeded)
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		transient = true
	}
	return &ServiceError{
		Provider:  provider,
		Message:   "request failed",
		Transient: transient,
		Err:       err,
	}
}

// WrapStatus classifies a non-success HTTP status. Throttling and server
// errors are transient; client errors are permanent.
func WrapStatus(provider string, status int, body string) *ServiceError {
	return &ServiceError{
		Provider:  provider,
		Message:   fmt.Sprintf("API error (status %d): %s", status, body),
		Transient: status == 429 || status >= 500,
	}
}
