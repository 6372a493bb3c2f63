// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"strings"

	"github.com/helmsley-labs/manifest/pkg/assistant"
	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask \"<question>\"",
	Short: "Ask a single question and print the answer",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, _, err := buildAssistant(config)
		if err != nil {
			return err
		}
		defer a.Close()

		resp, err := a.HandleQuery(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("completion failed: %w", err)
		}

		printResponse(cmd, resp, config.Debug)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func printResponse(cmd *cobra.Command, resp *assistant.Response, debug bool) {
	out := cmd.OutOrStdout()

	if resp.Answer != "" {
		fmt.Fprintln(out, resp.Answer)
	}

	if debug && resp.Code != "" {
		fmt.Fprintf(out, "\n-- executed --\n%s\n", resp.Code)
	}

	if resp.Err != nil {
		fmt.Fprintf(out, "\nquery failed: %s\n", resp.Err.Message)
		if debug && resp.Err.Trace != "" {
			fmt.Fprintln(out, resp.Err.Trace)
		}
		return
	}

	if resp.Output != "" {
		fmt.Fprintf(out, "\n%s", resp.Output)
	}
	if resp.Chart != "" {
		fmt.Fprintf(out, "\nchart config (%d bytes of ECharts JSON):\n%s\n",
			len(resp.Chart), resp.Chart)
	}
	if !resp.UsedExecution && strings.TrimSpace(resp.Answer) == "" {
		fmt.Fprintln(out, "(the model returned nothing to run)")
	}
}
