// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/helmsley-labs/manifest/pkg/dataset"
	"github.com/spf13/cobra"
)

var infoFull bool

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show what the loaded manifest contains",
	RunE: func(cmd *cobra.Command, _ []string) error {
		if err := config.Validate(); err != nil {
			return err
		}
		table, err := dataset.Load(config.Dataset.Path)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if infoFull {
			fmt.Fprintln(out, table.Summary(config.Dataset.SampleRows))
			return nil
		}

		ov := table.Overview()
		fmt.Fprintf(out, "file:          %s\n", config.Dataset.Path)
		fmt.Fprintf(out, "passengers:    %d\n", ov.Rows)
		fmt.Fprintf(out, "survivors:     %d (%.1f%%)\n", ov.Survivors, ov.SurvivalRate*100)
		fmt.Fprintf(out, "columns:       %s\n", strings.Join(ov.Columns, ", "))

		classes := make([]int, 0, len(ov.ByClass))
		for class := range ov.ByClass {
			classes = append(classes, class)
		}
		sort.Ints(classes)
		for _, class := range classes {
			fmt.Fprintf(out, "class %d:       %d passengers\n", class, ov.ByClass[class])
		}

		sexes := make([]string, 0, len(ov.BySex))
		for sex := range ov.BySex {
			sexes = append(sexes, sex)
		}
		sort.Strings(sexes)
		for _, sex := range sexes {
			fmt.Fprintf(out, "%-14s %d passengers\n", sex+":", ov.BySex[sex])
		}

		if ov.ImputedAges > 0 || ov.ImputedFares > 0 {
			fmt.Fprintf(out, "imputed:       %d ages, %d fares\n", ov.ImputedAges, ov.ImputedFares)
		}
		return nil
	},
}

func init() {
	infoCmd.Flags().BoolVar(&infoFull, "full", false, "print the full summary sent to the model")
	rootCmd.AddCommand(infoCmd)
}
