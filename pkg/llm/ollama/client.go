// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package ollama implements the llm.Provider interface for a local Ollama
// server. No credential is required, which makes it the offline development
// provider.
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/helmsley-labs/manifest/pkg/llm"
)

const (
	// DefaultEndpoint is the local Ollama server.
	DefaultEndpoint = "http://localhost:11434"
	// DefaultModel works on modest hardware and handles SQL well.
	DefaultModel = "qwen2.5-coder"
	// DefaultTimeout is generous: local generation is slow.
	DefaultTimeout = 120 * time.Second
)

// Client implements llm.Provider for Ollama.
type Client struct {
	endpoint    string
	model       string
	httpClient  *http.Client
	temperature float64
}

// Config holds configuration for the Ollama client.
type Config struct {
	Endpoint    string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewClient creates a new Ollama client.
func NewClient(cfg Config) *Client {
	if cfg.Endpoint == "" {
		cfg.Endpoint = DefaultEndpoint
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &Client{
		endpoint:    cfg.Endpoint,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return "ollama" }

// Model returns the model identifier.
func (c *Client) Model() string { return c.model }

type generateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

type generateResponse struct {
	Response        string `json:"response"`
	Done            bool   `json:"done"`
	DoneReason      string `json:"done_reason"`
	PromptEvalCount int    `json:"prompt_eval_count"`
	EvalCount       int    `json:"eval_count"`
}

// Complete sends the prompt and returns the full response text.
func (c *Client) Complete(ctx context.Context, prompt string) (*llm.Completion, error) {
	body, err := json.Marshal(&generateRequest{
		Model:   c.model,
		Prompt:  prompt,
		Stream:  false,
		Options: map[string]any{"temperature": c.temperature},
	})
	if err != nil {
		return nil, &llm.ServiceError{Provider: "ollama", Message: "marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/api/generate", bytes.NewReader(body))
	if err != nil {
		return nil, &llm.ServiceError{Provider: "ollama", Message: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, llm.WrapTransport("ollama", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, llm.WrapTransport("ollama", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, llm.WrapStatus("ollama", httpResp.StatusCode, string(respBody))
	}

	var resp generateResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &llm.ServiceError{Provider: "ollama", Message: "unmarshal response", Err: err}
	}

	return &llm.Completion{
		Text:       resp.Response,
		StopReason: resp.DoneReason,
		Usage: llm.Usage{
			InputTokens:  resp.PromptEvalCount,
			OutputTokens: resp.EvalCount,
			TotalTokens:  resp.PromptEvalCount + resp.EvalCount,
		},
	}, nil
}

var _ llm.Provider = (*Client)(nil)
