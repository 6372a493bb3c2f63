// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package factory creates LLM providers from configuration.
package factory

import (
	"fmt"
	"time"

	"github.com/helmsley-labs/manifest/pkg/llm"
	"github.com/helmsley-labs/manifest/pkg/llm/anthropic"
	"github.com/helmsley-labs/manifest/pkg/llm/gemini"
	"github.com/helmsley-labs/manifest/pkg/llm/ollama"
)

// Config holds provider selection and per-provider settings.
type Config struct {
	// Provider selects the backend: gemini, anthropic or ollama.
	Provider string

	GeminiAPIKey string
	GeminiModel  string

	AnthropicAPIKey string
	AnthropicModel  string

	OllamaEndpoint string
	OllamaModel    string

	// Common settings.
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

// CredentialError reports a missing credential for the selected provider.
// It is a startup configuration error: the caller must fail before handling
// any query.
type CredentialError struct {
	Provider string
	EnvHint  string
}

func (e *CredentialError) Error() string {
	return fmt.Sprintf("%s API key is not set (set %s)", e.Provider, e.EnvHint)
}

// New builds the configured provider. A missing credential or an unknown
// provider name is rejected here, before the first query.
func New(cfg Config) (llm.Provider, error) {
	switch cfg.Provider {
	case "", "gemini":
		if cfg.GeminiAPIKey == "" {
			return nil, &CredentialError{Provider: "gemini", EnvHint: "MANIFEST_LLM_GEMINI_API_KEY"}
		}
		return gemini.NewClient(gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.GeminiModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}), nil

	case "anthropic":
		if cfg.AnthropicAPIKey == "" {
			return nil, &CredentialError{Provider: "anthropic", EnvHint: "MANIFEST_LLM_ANTHROPIC_API_KEY"}
		}
		return anthropic.NewClient(anthropic.Config{
			APIKey:      cfg.AnthropicAPIKey,
			Model:       cfg.AnthropicModel,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}), nil

	case "ollama":
		return ollama.NewClient(ollama.Config{
			Endpoint:    cfg.OllamaEndpoint,
			Model:       cfg.OllamaModel,
			Temperature: cfg.Temperature,
			Timeout:     cfg.Timeout,
		}), nil

	default:
		return nil, fmt.Errorf("unknown LLM provider %q (want gemini, anthropic or ollama)", cfg.Provider)
	}
}
