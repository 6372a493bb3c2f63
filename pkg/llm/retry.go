// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package llm

import (
	"context"
	"errors"
	"time"

	"github.com/helmsley-labs/manifest/internal/log"
	"go.uber.org/zap"
)

// RetryConfig tunes the retry wrapper.
type RetryConfig struct {
	// MaxRetries is how many times a transient failure is retried.
	MaxRetries int
	// Backoff is the initial delay before the first retry; it doubles
	// after each attempt.
	Backoff time.Duration
}

// DefaultRetryConfig returns conservative retry defaults.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxRetries: 3,
		Backoff:    time.Second,
	}
}

// RetryProvider wraps a provider and retries transient failures (throttling,
// network errors, timeouts) with exponential backoff. Permanent failures
// pass through on the first attempt.
type RetryProvider struct {
	inner Provider
	cfg   RetryConfig
}

// WithRetries wraps provider with retry behavior.
func WithRetries(provider Provider, cfg RetryConfig) *RetryProvider {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.Backoff <= 0 {
		cfg.Backoff = time.Second
	}
	return &RetryProvider{inner: provider, cfg: cfg}
}

func (r *RetryProvider) Name() string  { return r.inner.Name() }
func (r *RetryProvider) Model() string { return r.inner.Model() }

// Complete delegates to the wrapped provider, retrying transient failures.
func (r *RetryProvider) Complete(ctx context.Context, prompt string) (*Completion, error) {
	var lastErr error
	backoff := r.cfg.Backoff

	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Warn("retrying completion",
				zap.String("provider", r.inner.Name()),
				zap.Int("attempt", attempt),
				zap.Duration("backoff", backoff))
			select {
			case <-ctx.Done():
				return nil, &ServiceError{
					Provider:  r.inner.Name(),
					Message:   "cancelled while waiting to retry",
					Transient: true,
					Err:       ctx.Err(),
				}
			case <-time.After(backoff):
			}
			backoff *= 2
		}

		completion, err := r.inner.Complete(ctx, prompt)
		if err == nil {
			return completion, nil
		}
		lastErr = err

		var svcErr *ServiceError
		if !errors.As(err, &svcErr) || !svcErr.Transient {
			return nil, err
		}
	}
	return nil, lastErr
}

// CompleteStream passes through without retries: once tokens have reached
// the caller a replayed attempt would duplicate them. Falls back to Complete
// when the wrapped provider does not stream.
func (r *RetryProvider) CompleteStream(ctx context.Context, prompt string, cb TokenCallback) (*Completion, error) {
	if sp, ok := r.inner.(StreamingProvider); ok {
		return sp.CompleteStream(ctx, prompt, cb)
	}
	completion, err := r.Complete(ctx, prompt)
	if err != nil {
		return nil, err
	}
	if cb != nil {
		cb(completion.Text)
	}
	return completion, nil
}

var (
	_ Provider          = (*RetryProvider)(nil)
	_ StreamingProvider = (*RetryProvider)(nil)
)
