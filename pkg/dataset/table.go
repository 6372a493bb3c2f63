// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package dataset loads the Titanic passenger manifest into an immutable
// in-memory table and prepares it for query execution.
package dataset

import (
	"fmt"
	"sort"
)

// TableName is the SQL name the manifest is materialized under. Prompts and
// generated statements refer to this table and nothing else.
const TableName = "passengers"

// Passenger is one row of the manifest. Original column values are never
// altered after load; SexCode and EmbarkedCode are additive derived columns.
type Passenger struct {
	ID       int
	Survived int
	Pclass   int
	Name     string
	Sex      string
	Age      float64
	SibSp    int
	Parch    int
	Ticket   string
	Fare     float64
	Cabin    string
	Embarked string

	// Derived at load time: male=0 female=1, C=0 Q=1 S=2.
	SexCode      int
	EmbarkedCode int
}

// Table is the loaded, imputed manifest. It is built once at startup and
// read-only thereafter.
type Table struct {
	rows []Passenger

	imputedAges     int
	imputedFares    int
	imputedEmbarked int
	ageMedian       float64
	fareMedian      float64
	embarkedMode    string
}

// Len returns the number of passengers.
func (t *Table) Len() int { return len(t.rows) }

// Rows returns the passenger rows. Callers must not mutate the slice.
func (t *Table) Rows() []Passenger { return t.rows }

// Overview is a structured snapshot of the table for display surfaces.
type Overview struct {
	Rows         int
	Columns      []string
	Survivors    int
	SurvivalRate float64
	ByClass      map[int]int
	BySex        map[string]int
	ImputedAges  int
	ImputedFares int
}

// Columns lists the table's SQL columns in declaration order.
func Columns() []string {
	return []string{
		"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age",
		"SibSp", "Parch", "Ticket", "Fare", "Cabin", "Embarked",
		"SexCode", "EmbarkedCode",
	}
}

// Overview returns summary counts for the info command and the serve API.
func (t *Table) Overview() Overview {
	ov := Overview{
		Rows:         len(t.rows),
		Columns:      Columns(),
		ByClass:      make(map[int]int),
		BySex:        make(map[string]int),
		ImputedAges:  t.imputedAges,
		ImputedFares: t.imputedFares,
	}
	for _, p := range t.rows {
		if p.Survived == 1 {
			ov.Survivors++
		}
		ov.ByClass[p.Pclass]++
		ov.BySex[p.Sex]++
	}
	if len(t.rows) > 0 {
		ov.SurvivalRate = float64(ov.Survivors) / float64(len(t.rows))
	}
	return ov
}

// median returns the median of vals, averaging the two middle values for an
// even count. vals must be non-empty.
func median(vals []float64) float64 {
	s := make([]float64, len(vals))
	copy(s, vals)
	sort.Float64s(s)
	mid := len(s) / 2
	if len(s)%2 == 0 {
		return (s[mid-1] + s[mid]) / 2
	}
	return s[mid]
}

// mostFrequent returns the most frequent non-empty value. Ties are broken by
// lexical order so loading is deterministic.
func mostFrequent(vals []string) string {
	counts := make(map[string]int)
	for _, v := range vals {
		if v != "" {
			counts[v]++
		}
	}
	best, bestN := "", -1
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if counts[k] > bestN {
			best, bestN = k, counts[k]
		}
	}
	return best
}

// LoadError reports a dataset that could not be loaded. It is fatal to
// startup: no query can be handled without the table.
type LoadError struct {
	Path   string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("dataset %s: %s: %v", e.Path, e.Reason, e.Err)
	}
	return fmt.Sprintf("dataset %s: %s", e.Path, e.Reason)
}

func (e *LoadError) Unwrap() error { return e.Err }
