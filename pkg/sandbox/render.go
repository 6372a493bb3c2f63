// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package sandbox

import (
	"fmt"
	"strconv"
	"strings"
)

// renderTable produces an aligned plain-text rendering of a result set, the
// shape of what a query tool would print to stdout. Deterministic for a
// given result set.
func renderTable(columns []string, rows [][]any, truncated bool) string {
	if len(rows) == 0 {
		return "(no rows)\n"
	}

	cells := make([][]string, 0, len(rows))
	widths := make([]int, len(columns))
	for i, col := range columns {
		widths[i] = len(col)
	}
	for _, row := range rows {
		line := make([]string, len(columns))
		for i := range columns {
			var v any
			if i < len(row) {
				v = row[i]
			}
			line[i] = formatValue(v)
			if len(line[i]) > widths[i] {
				widths[i] = len(line[i])
			}
		}
		cells = append(cells, line)
	}

	var b strings.Builder
	writeRow := func(line []string) {
		for i, cell := range line {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(cell)
			if i < len(line)-1 {
				b.WriteString(strings.Repeat(" ", widths[i]-len(cell)))
			}
		}
		b.WriteByte('\n')
	}

	writeRow(columns)
	for i, w := range widths {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(strings.Repeat("-", w))
	}
	b.WriteByte('\n')
	for _, line := range cells {
		writeRow(line)
	}

	if truncated {
		b.WriteString("... (result truncated)\n")
	} else {
		noun := "rows"
		if len(rows) == 1 {
			noun = "row"
		}
		fmt.Fprintf(&b, "(%d %s)\n", len(rows), noun)
	}
	return b.String()
}

func formatValue(val any) string {
	switch v := val.(type) {
	case nil:
		return "NULL"
	case float64:
		return strconv.FormatFloat(v, 'g', 6, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', 6, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
