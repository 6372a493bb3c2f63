// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"os"

	"github.com/helmsley-labs/manifest/internal/log"
	"github.com/helmsley-labs/manifest/internal/version"
	"github.com/helmsley-labs/manifest/pkg/assistant"
	"github.com/helmsley-labs/manifest/pkg/dataset"
	"github.com/helmsley-labs/manifest/pkg/llm"
	"github.com/helmsley-labs/manifest/pkg/llm/factory"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	config  *Config
)

var rootCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Ask the Titanic passenger manifest questions in plain English",
	Long: `manifest loads the Titanic passenger manifest, asks an LLM to turn your
question into SQL, runs that SQL in a read-only in-memory sandbox, and
presents the result alongside the model's narrative answer.`,
	Version: version.Get(),
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./manifest.yaml)")

	rootCmd.PersistentFlags().String("data", "titanic.csv", "passenger manifest file (CSV or XLSX)")
	rootCmd.PersistentFlags().Int("sample-rows", 5, "example rows embedded in each prompt")

	rootCmd.PersistentFlags().String("llm-provider", "gemini", "LLM provider (gemini, anthropic, ollama)")
	rootCmd.PersistentFlags().String("gemini-key", "", "Gemini API key (or MANIFEST_LLM_GEMINI_API_KEY)")
	rootCmd.PersistentFlags().String("gemini-model", "", "Gemini model override")
	rootCmd.PersistentFlags().String("anthropic-key", "", "Anthropic API key (or MANIFEST_LLM_ANTHROPIC_API_KEY)")
	rootCmd.PersistentFlags().String("anthropic-model", "", "Anthropic model override")
	rootCmd.PersistentFlags().String("ollama-endpoint", "", "Ollama endpoint URL")
	rootCmd.PersistentFlags().String("ollama-model", "", "Ollama model override")
	rootCmd.PersistentFlags().Float64("temperature", 0.2, "LLM sampling temperature")
	rootCmd.PersistentFlags().Int("max-tokens", 4096, "maximum tokens per completion")
	rootCmd.PersistentFlags().Int("timeout", 60, "completion timeout in seconds")

	rootCmd.PersistentFlags().Bool("debug", false, "debug logging plus fault traces in answers")

	_ = viper.BindPFlag("dataset.path", rootCmd.PersistentFlags().Lookup("data"))
	_ = viper.BindPFlag("dataset.sample_rows", rootCmd.PersistentFlags().Lookup("sample-rows"))

	_ = viper.BindPFlag("llm.provider", rootCmd.PersistentFlags().Lookup("llm-provider"))
	_ = viper.BindPFlag("llm.gemini_api_key", rootCmd.PersistentFlags().Lookup("gemini-key"))
	_ = viper.BindPFlag("llm.gemini_model", rootCmd.PersistentFlags().Lookup("gemini-model"))
	_ = viper.BindPFlag("llm.anthropic_api_key", rootCmd.PersistentFlags().Lookup("anthropic-key"))
	_ = viper.BindPFlag("llm.anthropic_model", rootCmd.PersistentFlags().Lookup("anthropic-model"))
	_ = viper.BindPFlag("llm.ollama_endpoint", rootCmd.PersistentFlags().Lookup("ollama-endpoint"))
	_ = viper.BindPFlag("llm.ollama_model", rootCmd.PersistentFlags().Lookup("ollama-model"))
	_ = viper.BindPFlag("llm.temperature", rootCmd.PersistentFlags().Lookup("temperature"))
	_ = viper.BindPFlag("llm.max_tokens", rootCmd.PersistentFlags().Lookup("max-tokens"))
	_ = viper.BindPFlag("llm.timeout_seconds", rootCmd.PersistentFlags().Lookup("timeout"))

	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

// initConfig reads the config file and environment.
func initConfig() {
	var err error
	config, err = LoadConfig(cfgFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if config.Debug {
		log.EnableDebug()
	}
}

// buildAssistant wires the full pipeline from configuration. Dataset and
// credential problems are fatal here, before any query is accepted.
func buildAssistant(cfg *Config) (*assistant.Assistant, *dataset.Table, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	table, err := dataset.Load(cfg.Dataset.Path)
	if err != nil {
		return nil, nil, err
	}

	provider, err := factory.New(cfg.ProviderConfig())
	if err != nil {
		return nil, nil, err
	}

	a, err := assistant.New(llm.WithRetries(provider, llm.DefaultRetryConfig()), table,
		assistant.WithDebug(cfg.Debug),
		assistant.WithSampleRows(cfg.Dataset.SampleRows))
	if err != nil {
		return nil, nil, err
	}
	return a, table, nil
}
