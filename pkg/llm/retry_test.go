// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// flakyProvider fails with the queued errors before succeeding.
type flakyProvider struct {
	failures []error
	calls    int
}

func (f *flakyProvider) Complete(context.Context, string) (*Completion, error) {
	f.calls++
	if len(f.failures) > 0 {
		err := f.failures[0]
		f.failures = f.failures[1:]
		return nil, err
	}
	return &Completion{Text: "ok", StopReason: "end_turn"}, nil
}

func (f *flakyProvider) Name() string  { return "flaky" }
func (f *flakyProvider) Model() string { return "flaky-model" }

func TestRetryProvider_RecoversFromTransientFailure(t *testing.T) {
	inner := &flakyProvider{failures: []error{
		&ServiceError{Provider: "flaky", Message: "throttled", Transient: true},
	}}
	p := WithRetries(inner, RetryConfig{MaxRetries: 3, Backoff: time.Millisecond})

	completion, err := p.Complete(context.Background(), "hi")
	require.NoError(t, err)
	assert.Equal(t, "ok", completion.Text)
	assert.Equal(t, 2, inner.calls)
}

func TestRetryProvider_PermanentFailureFailsFast(t *testing.T) {
	inner := &flakyProvider{failures: []error{
		&ServiceError{Provider: "flaky", Message: "bad credential", Transient: false},
	}}
	p := WithRetries(inner, RetryConfig{MaxRetries: 3, Backoff: time.Millisecond})

	_, err := p.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, 1, inner.calls)
}

func TestRetryProvider_GivesUpAfterMaxRetries(t *testing.T) {
	throttled := &ServiceError{Provider: "flaky", Message: "throttled", Transient: true}
	inner := &flakyProvider{failures: []error{throttled, throttled, throttled}}
	p := WithRetries(inner, RetryConfig{MaxRetries: 2, Backoff: time.Millisecond})

	_, err := p.Complete(context.Background(), "hi")
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls, "initial attempt plus two retries")
}

func TestRetryProvider_RespectsContextCancellation(t *testing.T) {
	throttled := &ServiceError{Provider: "flaky", Message: "throttled", Transient: true}
	inner := &flakyProvider{failures: []error{throttled, throttled, throttled, throttled}}
	p := WithRetries(inner, RetryConfig{MaxRetries: 3, Backoff: time.Minute})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := p.Complete(ctx, "hi")
	require.Error(t, err)
	var svcErr *ServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.True(t, svcErr.Transient)
	assert.Equal(t, 1, inner.calls)
}
