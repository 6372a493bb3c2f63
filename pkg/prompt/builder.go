// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package prompt assembles the instruction text sent to the language model.
// Prompt construction is fully deterministic: identical (query, summary)
// pairs yield identical prompts, so tests can stub the completion step.
package prompt

import (
	"strings"

	"github.com/helmsley-labs/manifest/internal/log"
	"github.com/helmsley-labs/manifest/pkg/dataset"
	"go.uber.org/zap"
)

// chartKeywords trigger the chart variant of the prompt. Matching is
// case-insensitive on whole words of the query.
var chartKeywords = []string{
	"plot", "graph", "chart", "show", "visualize", "visualise",
	"distribution", "histogram", "scatter",
}

// Prompt is the composed instruction text for one query.
type Prompt struct {
	Text string
	// Chart records whether the chart template was used; the sandbox uses
	// it to decide whether to derive a chart from the result set.
	Chart bool
	// Tokens is the measured prompt size.
	Tokens int
}

// Builder composes prompts from a fixed dataset summary.
type Builder struct {
	schema  string
	counter *TokenCounter
}

// NewBuilder creates a builder around the table's summary snapshot.
// sampleRows caps the example rows embedded in every prompt.
func NewBuilder(t *dataset.Table, sampleRows int) *Builder {
	return &Builder{
		schema:  t.Summary(sampleRows),
		counter: GetTokenCounter(),
	}
}

// WantsChart reports whether the query asks for a visualization.
func WantsChart(query string) bool {
	words := strings.Fields(strings.ToLower(query))
	for _, w := range words {
		w = strings.Trim(w, ".,!?;:\"'()")
		for _, kw := range chartKeywords {
			if w == kw {
				return true
			}
		}
	}
	return false
}

// Build composes the prompt for a user query.
func (b *Builder) Build(query string) Prompt {
	chart := WantsChart(query)
	tmpl := analysisTemplate
	if chart {
		tmpl = chartTemplate
	}

	text := Interpolate(tmpl, map[string]string{
		"schema": b.schema,
		"table":  dataset.TableName,
		"query":  SanitizeQuery(query),
	})

	p := Prompt{
		Text:   text,
		Chart:  chart,
		Tokens: b.counter.Count(text),
	}
	log.Debug("prompt built",
		zap.Bool("chart", p.Chart),
		zap.Int("tokens", p.Tokens))
	return p
}
