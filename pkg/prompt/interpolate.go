// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package prompt

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var placeholderRe = regexp.MustCompile(`\{\{\.(\w+)\}\}`)

// Interpolate substitutes {{.name}} placeholders in a template. Unknown
// placeholders are left in place. Values are inserted verbatim; callers
// sanitize untrusted values first.
func Interpolate(template string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(template, func(match string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(match, "{{."), "}}")
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}

// injection markers the model should never see inside a quoted user query
var injectionMarkers = []string{
	"```",
	"System:",
	"Assistant:",
	"Human:",
	"[INST]",
	"[/INST]",
	"<|im_start|>",
	"<|im_end|>",
}

// SanitizeQuery normalizes an untrusted user question for embedding in a
// prompt: one line, valid UTF-8, no control characters, no fence or role
// markers that could break out of the quoted request.
func SanitizeQuery(q string) string {
	q = strings.ReplaceAll(q, "\x00", "")
	if !utf8.ValidString(q) {
		q = strings.ToValidUTF8(q, "")
	}

	q = strings.ReplaceAll(q, "\r\n", " ")
	q = strings.ReplaceAll(q, "\n", " ")
	q = strings.ReplaceAll(q, "\r", " ")
	q = strings.ReplaceAll(q, "\t", " ")

	var b strings.Builder
	b.Grow(len(q))
	for _, r := range q {
		if unicode.IsControl(r) && r != ' ' {
			continue
		}
		b.WriteRune(r)
	}
	q = b.String()

	for _, marker := range injectionMarkers {
		q = strings.ReplaceAll(q, marker, " ")
	}

	return strings.Join(strings.Fields(q), " ")
}
