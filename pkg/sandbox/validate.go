// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package sandbox

import (
	"fmt"
	"regexp"
	"strings"
)

// deniedKeywords are statement forms the sandbox refuses even though the
// read-only connection would also reject them. Matching is on whole words
// so column names like "created_at" never trip it.
var deniedKeywords = []string{
	"ATTACH", "DETACH", "PRAGMA", "INSERT", "UPDATE", "DELETE",
	"REPLACE", "DROP", "CREATE", "ALTER", "REINDEX", "VACUUM",
}

var deniedRe = regexp.MustCompile(`(?i)\b(` + strings.Join(deniedKeywords, "|") + `)\b`)

// Validate checks that stmt is a single read-only SELECT (or WITH) statement
// and returns it with comments stripped and the trailing semicolon removed.
func Validate(stmt string) (string, error) {
	cleaned := strings.TrimSpace(stripComments(stmt))
	cleaned = strings.TrimSuffix(cleaned, ";")
	cleaned = strings.TrimSpace(cleaned)

	if cleaned == "" {
		return "", fmt.Errorf("statement is empty")
	}
	if strings.Contains(cleaned, ";") {
		return "", fmt.Errorf("only a single statement is allowed")
	}

	upper := strings.ToUpper(cleaned)
	if !strings.HasPrefix(upper, "SELECT") && !strings.HasPrefix(upper, "WITH") {
		return "", fmt.Errorf("only SELECT statements are allowed")
	}

	if m := deniedRe.FindString(cleaned); m != "" {
		return "", fmt.Errorf("statement contains disallowed keyword %q", strings.ToUpper(m))
	}

	return cleaned, nil
}

// stripComments removes -- line comments and /* */ block comments. String
// literals are respected so a quoted "--" survives.
func stripComments(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	inString := false
	for i := 0; i < len(s); i++ {
		c := s[i]

		if inString {
			b.WriteByte(c)
			if c == '\'' {
				// doubled quote is an escaped quote inside the literal
				if i+1 < len(s) && s[i+1] == '\'' {
					b.WriteByte(s[i+1])
					i++
				} else {
					inString = false
				}
			}
			continue
		}

		switch {
		case c == '\'':
			inString = true
			b.WriteByte(c)
		case c == '-' && i+1 < len(s) && s[i+1] == '-':
			for i < len(s) && s[i] != '\n' {
				i++
			}
			if i < len(s) {
				b.WriteByte('\n')
			}
		case c == '/' && i+1 < len(s) && s[i+1] == '*':
			i += 2
			for i+1 < len(s) && !(s[i] == '*' && s[i+1] == '/') {
				i++
			}
			i++ // skip the closing '/'
			b.WriteByte(' ')
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
