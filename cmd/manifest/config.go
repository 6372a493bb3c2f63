// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/helmsley-labs/manifest/pkg/llm/anthropic"
	"github.com/helmsley-labs/manifest/pkg/llm/factory"
	"github.com/helmsley-labs/manifest/pkg/llm/gemini"
	"github.com/helmsley-labs/manifest/pkg/llm/ollama"
	"github.com/spf13/viper"
)

// DefaultConfigFileName is the config file searched for when --config is
// not given (manifest.yaml).
const DefaultConfigFileName = "manifest"

// Config is the full CLI configuration.
type Config struct {
	Debug   bool          `mapstructure:"debug"`
	Dataset DatasetConfig `mapstructure:"dataset"`
	LLM     LLMConfig     `mapstructure:"llm"`
	Server  ServerConfig  `mapstructure:"server"`
}

// DatasetConfig locates and samples the passenger manifest.
type DatasetConfig struct {
	// Path to the manifest file, CSV or XLSX.
	Path string `mapstructure:"path"`
	// SampleRows is how many example rows prompts embed.
	SampleRows int `mapstructure:"sample_rows"`
}

// LLMConfig selects and tunes the completion provider.
type LLMConfig struct {
	Provider string `mapstructure:"provider"`

	GeminiAPIKey string `mapstructure:"gemini_api_key"`
	GeminiModel  string `mapstructure:"gemini_model"`

	AnthropicAPIKey string `mapstructure:"anthropic_api_key"`
	AnthropicModel  string `mapstructure:"anthropic_model"`

	OllamaEndpoint string `mapstructure:"ollama_endpoint"`
	OllamaModel    string `mapstructure:"ollama_model"`

	MaxTokens      int     `mapstructure:"max_tokens"`
	Temperature    float64 `mapstructure:"temperature"`
	TimeoutSeconds int     `mapstructure:"timeout_seconds"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// LoadConfig loads configuration with flag > config file > environment >
// default priority. Environment variables use the MANIFEST_ prefix with
// underscores for nesting (MANIFEST_LLM_GEMINI_API_KEY).
func LoadConfig(cfgFile string) (*Config, error) {
	setDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("$HOME/.manifest")
		viper.AddConfigPath("/etc/manifest/")
		viper.SetConfigName(DefaultConfigFileName)
		viper.SetConfigType("yaml")
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file %s: %w", viper.ConfigFileUsed(), err)
		}
	}

	viper.SetEnvPrefix("MANIFEST")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &config, nil
}

func setDefaults() {
	viper.SetDefault("debug", false)

	viper.SetDefault("dataset.path", "titanic.csv")
	viper.SetDefault("dataset.sample_rows", 5)

	viper.SetDefault("llm.provider", "gemini")
	// empty defaults so AutomaticEnv can populate credentials on Unmarshal
	viper.SetDefault("llm.gemini_api_key", "")
	viper.SetDefault("llm.anthropic_api_key", "")
	viper.SetDefault("llm.gemini_model", gemini.DefaultModel)
	viper.SetDefault("llm.anthropic_model", anthropic.DefaultModel)
	viper.SetDefault("llm.ollama_endpoint", ollama.DefaultEndpoint)
	viper.SetDefault("llm.ollama_model", ollama.DefaultModel)
	viper.SetDefault("llm.max_tokens", 4096)
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.timeout_seconds", 60)

	viper.SetDefault("server.addr", "127.0.0.1:8080")
}

// ProviderConfig converts the LLM section into the factory's shape.
func (c *Config) ProviderConfig() factory.Config {
	return factory.Config{
		Provider:        c.LLM.Provider,
		GeminiAPIKey:    c.LLM.GeminiAPIKey,
		GeminiModel:     c.LLM.GeminiModel,
		AnthropicAPIKey: c.LLM.AnthropicAPIKey,
		AnthropicModel:  c.LLM.AnthropicModel,
		OllamaEndpoint:  c.LLM.OllamaEndpoint,
		OllamaModel:     c.LLM.OllamaModel,
		MaxTokens:       c.LLM.MaxTokens,
		Temperature:     c.LLM.Temperature,
		Timeout:         time.Duration(c.LLM.TimeoutSeconds) * time.Second,
	}
}

// Validate rejects configurations no command could run with.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	if c.Dataset.SampleRows < 0 {
		return fmt.Errorf("dataset.sample_rows must not be negative")
	}
	if c.LLM.TimeoutSeconds <= 0 {
		return fmt.Errorf("llm.timeout_seconds must be positive")
	}
	return nil
}
