// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/helmsley-labs/manifest/pkg/llm"
	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question loop over the manifest",
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, table, err := buildAssistant(config)
		if err != nil {
			return err
		}
		defer a.Close()

		out := cmd.OutOrStdout()
		ov := table.Overview()
		fmt.Fprintf(out, "Loaded %d passengers (%d survivors). Ask away; 'exit' quits.\n\n",
			ov.Rows, ov.Survivors)

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, "> ")
			if !scanner.Scan() {
				break
			}
			query := strings.TrimSpace(scanner.Text())
			if query == "" {
				continue
			}
			if query == "exit" || query == "quit" {
				break
			}

			resp, err := a.HandleQueryStream(cmd.Context(), query, func(token string) {
				fmt.Fprint(out, token)
			})
			fmt.Fprintln(out)
			if err != nil {
				var svcErr *llm.ServiceError
				if errors.As(err, &svcErr) && svcErr.Transient {
					fmt.Fprintf(out, "service unavailable (%s), try again\n\n", svcErr.Message)
					continue
				}
				return err
			}

			// the streamed text already showed the completion; print only
			// what execution added
			if resp.Err != nil {
				fmt.Fprintf(out, "\nquery failed: %s\n", resp.Err.Message)
				if config.Debug && resp.Err.Trace != "" {
					fmt.Fprintln(out, resp.Err.Trace)
				}
			} else if resp.Output != "" {
				fmt.Fprintf(out, "\n%s", resp.Output)
			}
			if resp.Chart != "" {
				fmt.Fprintln(out, "\n(a chart config was generated; use serve for rendering)")
			}
			fmt.Fprintln(out)
		}
		return scanner.Err()
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
