// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package gemini implements the llm.Provider interface for Google Gemini,
// the service the manifest assistant talks to by default.
package gemini

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/helmsley-labs/manifest/pkg/llm"
)

const (
	// DefaultModel balances cost and quality for SQL generation.
	DefaultModel = "gemini-2.5-flash"
	// DefaultMaxTokens bounds the completion size.
	DefaultMaxTokens = 4096
	// DefaultTimeout bounds the single blocking call in the query loop.
	DefaultTimeout = 60 * time.Second

	baseURL = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Client implements llm.Provider for Google Gemini.
type Client struct {
	apiKey      string
	model       string
	endpoint    string
	httpClient  *http.Client
	maxTokens   int
	temperature float64
}

// Config holds configuration for the Gemini client.
type Config struct {
	// Required: API key from https://aistudio.google.com/
	APIKey string

	Model       string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
	Endpoint    string // Override for tests.
}

// NewClient creates a new Gemini client. The credential is validated on the
// first call, not here; factory.New rejects an empty key before that.
func NewClient(cfg Config) *Client {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.2
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = baseURL
	}
	return &Client{
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		endpoint:    cfg.Endpoint,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
	}
}

// Name returns the provider name.
func (c *Client) Name() string { return "gemini" }

// Model returns the model identifier.
func (c *Client) Model() string { return c.model }

// Complete sends the prompt and returns the full response text.
func (c *Client) Complete(ctx context.Context, prompt string) (*llm.Completion, error) {
	if c.apiKey == "" {
		return nil, &llm.ServiceError{Provider: "gemini", Message: "missing API key"}
	}

	apiURL := fmt.Sprintf("%s/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	resp, err := c.call(ctx, apiURL, prompt)
	if err != nil {
		return nil, err
	}

	out := &llm.Completion{
		Usage: llm.Usage{
			InputTokens:  resp.UsageMetadata.PromptTokenCount,
			OutputTokens: resp.UsageMetadata.CandidatesTokenCount,
			TotalTokens:  resp.UsageMetadata.TotalTokenCount,
		},
	}
	if len(resp.Candidates) > 0 {
		cand := resp.Candidates[0]
		out.StopReason = mapFinishReason(cand.FinishReason)
		for _, part := range cand.Content.Parts {
			out.Text += part.Text
		}
	}
	return out, nil
}

func (c *Client) call(ctx context.Context, apiURL, prompt string) (*GenerateContentResponse, error) {
	body, err := json.Marshal(c.request(prompt))
	if err != nil {
		return nil, &llm.ServiceError{Provider: "gemini", Message: "marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, &llm.ServiceError{Provider: "gemini", Message: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, llm.WrapTransport("gemini", err)
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, llm.WrapTransport("gemini", err)
	}
	if httpResp.StatusCode != http.StatusOK {
		return nil, llm.WrapStatus("gemini", httpResp.StatusCode, string(respBody))
	}

	var resp GenerateContentResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, &llm.ServiceError{Provider: "gemini", Message: "unmarshal response", Err: err}
	}
	if resp.Error != nil {
		return nil, &llm.ServiceError{
			Provider: "gemini",
			Message:  fmt.Sprintf("API error: %s (code %d)", resp.Error.Message, resp.Error.Code),
		}
	}
	return &resp, nil
}

func (c *Client) request(prompt string) *GenerateContentRequest {
	return &GenerateContentRequest{
		Contents: []Content{
			{Role: "user", Parts: []Part{{Text: prompt}}},
		},
		GenerationConfig: GenerationConfig{
			Temperature:     c.temperature,
			MaxOutputTokens: c.maxTokens,
		},
	}
}

func mapFinishReason(reason string) string {
	switch reason {
	case "STOP":
		return "end_turn"
	case "MAX_TOKENS":
		return "max_tokens"
	case "SAFETY", "RECITATION":
		return "content_filter"
	default:
		return reason
	}
}

// CompleteStream streams the completion token by token over SSE using the
// streamGenerateContent endpoint.
func (c *Client) CompleteStream(ctx context.Context, prompt string, cb llm.TokenCallback) (*llm.Completion, error) {
	if c.apiKey == "" {
		return nil, &llm.ServiceError{Provider: "gemini", Message: "missing API key"}
	}

	apiURL := fmt.Sprintf("%s/%s:streamGenerateContent?key=%s&alt=sse", c.endpoint, c.model, c.apiKey)
	body, err := json.Marshal(c.request(prompt))
	if err != nil {
		return nil, &llm.ServiceError{Provider: "gemini", Message: "marshal request", Err: err}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, &llm.ServiceError{Provider: "gemini", Message: "build request", Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, llm.WrapTransport("gemini", err)
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(httpResp.Body)
		return nil, llm.WrapStatus("gemini", httpResp.StatusCode, string(respBody))
	}

	var content strings.Builder
	out := &llm.Completion{}

	scanner := bufio.NewScanner(httpResp.Body)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var chunk GenerateContentResponse
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &chunk); err != nil {
			// Skip malformed chunks but keep reading.
			continue
		}
		if chunk.Error != nil {
			return nil, &llm.ServiceError{
				Provider: "gemini",
				Message:  fmt.Sprintf("API error: %s (code %d)", chunk.Error.Message, chunk.Error.Code),
			}
		}

		if len(chunk.Candidates) > 0 {
			cand := chunk.Candidates[0]
			for _, part := range cand.Content.Parts {
				if part.Text == "" {
					continue
				}
				content.WriteString(part.Text)
				if cb != nil {
					cb(part.Text)
				}
			}
			if cand.FinishReason != "" {
				out.StopReason = mapFinishReason(cand.FinishReason)
			}
		}
		if chunk.UsageMetadata.TotalTokenCount > 0 {
			out.Usage = llm.Usage{
				InputTokens:  chunk.UsageMetadata.PromptTokenCount,
				OutputTokens: chunk.UsageMetadata.CandidatesTokenCount,
				TotalTokens:  chunk.UsageMetadata.TotalTokenCount,
			}
		}

		select {
		case <-ctx.Done():
			return nil, llm.WrapTransport("gemini", ctx.Err())
		default:
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, llm.WrapTransport("gemini", err)
	}

	out.Text = content.String()
	return out, nil
}

var (
	_ llm.Provider          = (*Client)(nil)
	_ llm.StreamingProvider = (*Client)(nil)
)
