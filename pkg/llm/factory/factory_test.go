// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package factory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      Config
		wantName string
		wantErr  bool
	}{
		{
			name:     "gemini with key",
			cfg:      Config{Provider: "gemini", GeminiAPIKey: "k"},
			wantName: "gemini",
		},
		{
			name:     "default provider is gemini",
			cfg:      Config{GeminiAPIKey: "k"},
			wantName: "gemini",
		},
		{
			name:     "anthropic with key",
			cfg:      Config{Provider: "anthropic", AnthropicAPIKey: "k"},
			wantName: "anthropic",
		},
		{
			name:     "ollama needs no key",
			cfg:      Config{Provider: "ollama"},
			wantName: "ollama",
		},
		{
			name:    "unknown provider",
			cfg:     Config{Provider: "cohere"},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := New(tt.cfg)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestNew_MissingCredential(t *testing.T) {
	_, err := New(Config{Provider: "gemini"})
	var credErr *CredentialError
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "gemini", credErr.Provider)

	_, err = New(Config{Provider: "anthropic"})
	require.ErrorAs(t, err, &credErr)
	assert.Equal(t, "anthropic", credErr.Provider)
}
