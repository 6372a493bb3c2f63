// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package extract isolates fenced code blocks from model completions.
// A completion with no fenced block is a valid "nothing to execute"
// outcome, never an error.
package extract

import (
	"regexp"
	"strings"
)

// Block is one fenced code region from a completion.
type Block struct {
	// Lang is the lowercased language tag, "" when untagged.
	Lang string
	// Code is the inner content with delimiters and tag stripped.
	Code string
}

var fenceRe = regexp.MustCompile("(?s)```([a-zA-Z0-9_+-]*)[ \\t]*\\r?\\n(.*?)```")

// Blocks returns every fenced code region in order of appearance. It returns
// an empty slice when the text has no fenced region.
func Blocks(text string) []Block {
	matches := fenceRe.FindAllStringSubmatch(text, -1)
	blocks := make([]Block, 0, len(matches))
	for _, m := range matches {
		code := strings.TrimSpace(m[2])
		if code == "" {
			continue
		}
		blocks = append(blocks, Block{
			Lang: strings.ToLower(m[1]),
			Code: code,
		})
	}
	return blocks
}

// SQL returns the statement to execute from a completion. When the model
// emits several blocks only the first is executed and the rest are treated
// as explanatory; blocks tagged "sql" win over untagged ones. The second
// return is false when the completion carries no code.
func SQL(text string) (string, bool) {
	blocks := Blocks(text)
	if len(blocks) == 0 {
		return "", false
	}
	for _, b := range blocks {
		if b.Lang == "sql" {
			return b.Code, true
		}
	}
	for _, b := range blocks {
		if b.Lang == "" {
			return b.Code, true
		}
	}
	return "", false
}

var blankRunRe = regexp.MustCompile(`\n{3,}`)

// Prose returns the completion with every fenced region removed, suitable
// for presenting as the model's narrative answer.
func Prose(text string) string {
	prose := fenceRe.ReplaceAllString(text, "")
	prose = blankRunRe.ReplaceAllString(prose, "\n\n")
	return strings.TrimSpace(prose)
}
