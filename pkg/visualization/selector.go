// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package visualization

import (
	"fmt"
	"strings"
	"unicode"
)

// Selector analyzes a result set and recommends a chart type for it.
type Selector struct{}

// NewSelector creates a chart selector.
func NewSelector() *Selector {
	return &Selector{}
}

// Recommend picks the chart type best suited to the result set. The first
// column is treated as the label axis and the remaining columns as values,
// matching the shape chart queries are asked to produce.
func (s *Selector) Recommend(ds *Dataset) *Recommendation {
	if ds.RowCount() == 0 || len(ds.Columns) == 0 {
		return &Recommendation{
			ChartType:  ChartTypeBar,
			Title:      toTitle(ds.Name),
			Rationale:  "empty result set, defaulting to bar chart",
			Confidence: 0.5,
		}
	}

	numericCols := s.numericColumns(ds)

	// All-numeric pair with enough points reads as a correlation.
	if len(ds.Columns) == 2 && len(numericCols) == 2 && ds.RowCount() > 10 {
		return &Recommendation{
			ChartType:  ChartTypeScatter,
			Title:      fmt.Sprintf("%s vs %s", toTitle(ds.Columns[0]), toTitle(ds.Columns[1])),
			Rationale:  "two numeric columns with many points, shows correlation",
			Confidence: 0.8,
		}
	}

	// An ordered label column (ages, years, deciles) reads as a trend.
	if s.labelLooksSequential(ds) {
		return &Recommendation{
			ChartType:  ChartTypeLine,
			Title:      toTitle(ds.Name),
			Rationale:  "label column is an ordered numeric sequence, shown as a trend line",
			Confidence: 0.85,
		}
	}

	// A handful of categories with one value column shows proportions well.
	if ds.RowCount() >= 2 && ds.RowCount() <= 7 && len(ds.Columns) == 2 {
		return &Recommendation{
			ChartType:  ChartTypePie,
			Title:      fmt.Sprintf("%s Distribution", toTitle(ds.Name)),
			Rationale:  fmt.Sprintf("small number of categories (%d), shows proportions well", ds.RowCount()),
			Confidence: 0.8,
		}
	}

	return &Recommendation{
		ChartType:  ChartTypeBar,
		Title:      toTitle(ds.Name),
		Rationale:  fmt.Sprintf("categorical comparison across %d rows", ds.RowCount()),
		Confidence: 0.7,
	}
}

// numericColumns returns the indices of columns whose first non-nil value
// is numeric.
func (s *Selector) numericColumns(ds *Dataset) []int {
	var cols []int
	for i := range ds.Columns {
		for _, row := range ds.Rows {
			if i >= len(row) || row[i] == nil {
				continue
			}
			if isNumeric(row[i]) {
				cols = append(cols, i)
			}
			break
		}
	}
	return cols
}

// labelLooksSequential reports whether the first column is numeric and
// strictly increasing, e.g. ages or years from a GROUP BY ... ORDER BY.
func (s *Selector) labelLooksSequential(ds *Dataset) bool {
	if ds.RowCount() < 3 {
		return false
	}
	prev := 0.0
	for i, row := range ds.Rows {
		if len(row) == 0 || !isNumeric(row[0]) {
			return false
		}
		v := toFloat64(row[0])
		if i > 0 && v <= prev {
			return false
		}
		prev = v
	}
	return true
}

func isNumeric(val any) bool {
	switch val.(type) {
	case int, int32, int64, float32, float64:
		return true
	}
	return false
}

// toTitle capitalizes the first letter of each word, treating underscores
// as word breaks so SQL column aliases render cleanly.
func toTitle(s string) string {
	s = strings.ReplaceAll(s, "_", " ")
	words := strings.Fields(s)
	for i, word := range words {
		runes := []rune(word)
		runes[0] = unicode.ToUpper(runes[0])
		words[i] = string(runes)
	}
	return strings.Join(words, " ")
}
