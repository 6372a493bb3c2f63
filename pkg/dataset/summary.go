// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package dataset

import (
	"fmt"
	"strings"
)

// Summary renders a deterministic textual snapshot of the table for prompt
// construction: schema, survival statistics, sample rows and descriptive
// statistics. Identical tables produce byte-identical summaries so prompts
// are reproducible for a fixed dataset.
func (t *Table) Summary(sampleRows int) string {
	if sampleRows <= 0 {
		sampleRows = 3
	}
	if sampleRows > len(t.rows) {
		sampleRows = len(t.rows)
	}

	var b strings.Builder
	ov := t.Overview()

	fmt.Fprintf(&b, "TITANIC PASSENGER MANIFEST\n")
	fmt.Fprintf(&b, "==========================\n\n")
	fmt.Fprintf(&b, "SQL table: %s\n", TableName)
	fmt.Fprintf(&b, "Total passengers: %d\n", ov.Rows)
	fmt.Fprintf(&b, "Survivors: %d (%.1f%%)\n\n", ov.Survivors, 100*ov.SurvivalRate)

	b.WriteString("COLUMNS:\n")
	b.WriteString("- PassengerId: unique identifier (INTEGER)\n")
	b.WriteString("- Survived: 0=died, 1=survived (INTEGER)\n")
	b.WriteString("- Pclass: passenger class 1/2/3 (INTEGER)\n")
	b.WriteString("- Name: full name with title (TEXT)\n")
	b.WriteString("- Sex: 'male' or 'female' (TEXT)\n")
	b.WriteString("- Age: age in years, missing values filled with the median (REAL)\n")
	b.WriteString("- SibSp: siblings/spouses aboard (INTEGER)\n")
	b.WriteString("- Parch: parents/children aboard (INTEGER)\n")
	b.WriteString("- Ticket: ticket number (TEXT)\n")
	b.WriteString("- Fare: fare paid, missing values filled with the median (REAL)\n")
	b.WriteString("- Cabin: cabin number, often empty (TEXT)\n")
	b.WriteString("- Embarked: port 'C'=Cherbourg 'Q'=Queenstown 'S'=Southampton (TEXT)\n")
	b.WriteString("- SexCode: 0=male, 1=female (INTEGER)\n")
	b.WriteString("- EmbarkedCode: 0=C, 1=Q, 2=S (INTEGER)\n\n")

	fmt.Fprintf(&b, "SAMPLE ROWS (first %d):\n", sampleRows)
	b.WriteString("PassengerId | Survived | Pclass | Name | Sex | Age | SibSp | Parch | Fare | Embarked\n")
	for _, p := range t.rows[:sampleRows] {
		fmt.Fprintf(&b, "%d | %d | %d | %s | %s | %s | %d | %d | %s | %s\n",
			p.ID, p.Survived, p.Pclass, p.Name, p.Sex,
			formatNum(p.Age), p.SibSp, p.Parch, formatNum(p.Fare), p.Embarked)
	}
	b.WriteString("\n")

	b.WriteString("DESCRIPTIVE STATISTICS:\n")
	t.describeNumeric(&b, "Age", func(p Passenger) float64 { return p.Age })
	t.describeNumeric(&b, "Fare", func(p Passenger) float64 { return p.Fare })
	t.describeNumeric(&b, "SibSp", func(p Passenger) float64 { return float64(p.SibSp) })
	t.describeNumeric(&b, "Parch", func(p Passenger) float64 { return float64(p.Parch) })
	t.describeCategorical(&b, "Pclass", func(p Passenger) string { return fmt.Sprintf("%d", p.Pclass) })
	t.describeCategorical(&b, "Sex", func(p Passenger) string { return p.Sex })
	t.describeCategorical(&b, "Embarked", func(p Passenger) string { return p.Embarked })

	return b.String()
}

func (t *Table) describeNumeric(b *strings.Builder, name string, get func(Passenger) float64) {
	vals := make([]float64, 0, len(t.rows))
	var sum float64
	min, max := get(t.rows[0]), get(t.rows[0])
	for _, p := range t.rows {
		v := get(p)
		vals = append(vals, v)
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	fmt.Fprintf(b, "- %s: count=%d mean=%s min=%s median=%s max=%s\n",
		name, len(vals), formatNum(sum/float64(len(vals))),
		formatNum(min), formatNum(median(vals)), formatNum(max))
}

func (t *Table) describeCategorical(b *strings.Builder, name string, get func(Passenger) string) {
	counts := make(map[string]int)
	for _, p := range t.rows {
		counts[get(p)]++
	}
	top := mostFrequent(collectKeysWeighted(counts))
	fmt.Fprintf(b, "- %s: distinct=%d top=%s (%d)\n", name, len(counts), top, counts[top])
}

// collectKeysWeighted expands a count map back into a value slice so that
// mostFrequent's deterministic tie-breaking applies.
func collectKeysWeighted(counts map[string]int) []string {
	var out []string
	for k, n := range counts {
		for i := 0; i < n; i++ {
			out = append(out, k)
		}
	}
	return out
}

// formatNum renders a float without a trailing ".0" for whole values, which
// keeps sample rows readable and stable.
func formatNum(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.4g", v)
}
