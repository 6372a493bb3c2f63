// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package visualization turns query result sets into ECharts option JSON.
package visualization

// ChartType identifies the kind of chart rendered for a result set.
type ChartType string

const (
	ChartTypeBar     ChartType = "bar"
	ChartTypeLine    ChartType = "line"
	ChartTypePie     ChartType = "pie"
	ChartTypeScatter ChartType = "scatter"
)

// Dataset is a tabular query result prepared for charting. Columns keep
// the order the query produced; Rows are row-major with one value per
// column.
type Dataset struct {
	Name    string
	Columns []string
	Rows    [][]any
}

// RowCount returns the number of data rows.
func (ds *Dataset) RowCount() int { return len(ds.Rows) }

// Recommendation is a chart selection with its reasoning.
type Recommendation struct {
	ChartType  ChartType
	Title      string
	Rationale  string
	Confidence float64
}

// StyleConfig holds the design tokens applied to every generated chart.
type StyleConfig struct {
	ColorPrimary    string
	ColorBackground string
	ColorText       string
	ColorTextMuted  string
	ColorBorder     string
	ColorGlass      string
	ColorPalette    []string

	FontFamily      string
	FontSizeTitle   int
	FontSizeLabel   int
	FontSizeTooltip int

	AnimationDuration int
	AnimationEasing   string

	ShadowBlur int
}

// DefaultStyleConfig returns the house defaults.
func DefaultStyleConfig() *StyleConfig {
	return &StyleConfig{
		ColorPrimary:    "#2563eb",
		ColorBackground: "transparent",
		ColorText:       "#f5f5f5",
		ColorTextMuted:  "#b5b5b5",
		ColorBorder:     "#ffffff1a",
		ColorGlass:      "rgba(26, 26, 26, 0.8)",
		ColorPalette: []string{
			"#2563eb", // Blue
			"#f59e0b", // Amber
			"#10b981", // Green
			"#8b5cf6", // Purple
			"#ec4899", // Pink
			"#14b8a6", // Teal
			"#f37021", // Orange
		},
		FontFamily:        "IBM Plex Mono, monospace",
		FontSizeTitle:     14,
		FontSizeLabel:     11,
		FontSizeTooltip:   12,
		AnimationDuration: 1500,
		AnimationEasing:   "cubicOut",
		ShadowBlur:        15,
	}
}
