// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package dataset

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/helmsley-labs/manifest/internal/log"
	"go.uber.org/zap"
)

// requiredColumns are the manifest columns that must appear in the header.
// Age, Fare, Cabin and Embarked may have missing values in the data rows.
var requiredColumns = []string{
	"PassengerId", "Survived", "Pclass", "Name", "Sex", "Age",
	"SibSp", "Parch", "Ticket", "Fare", "Cabin", "Embarked",
}

// Load reads a manifest from a CSV or XLSX file, applies the imputation
// policy and derives the encoded columns. It fails with *LoadError if the
// file is missing or lacks required columns.
func Load(path string) (*Table, error) {
	var (
		records [][]string
		err     error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		records, err = readXLSX(path)
	default:
		records, err = readCSV(path)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, &LoadError{Path: path, Reason: "empty file"}
	}

	idx, err := headerIndex(path, records[0])
	if err != nil {
		return nil, err
	}

	t := &Table{}
	for _, rec := range records[1:] {
		p, ok := parseRow(rec, idx)
		if !ok {
			continue
		}
		t.rows = append(t.rows, p)
	}
	if len(t.rows) == 0 {
		return nil, &LoadError{Path: path, Reason: "no data rows"}
	}

	t.impute()
	t.encode()

	log.Info("dataset loaded",
		zap.String("path", path),
		zap.Int("passengers", len(t.rows)),
		zap.Int("imputed_ages", t.imputedAges),
		zap.Int("imputed_fares", t.imputedFares),
		zap.Int("imputed_embarked", t.imputedEmbarked))
	return t, nil
}

// readCSV reads all records from a CSV file.
func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "cannot open", Err: err}
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, &LoadError{Path: path, Reason: "cannot parse CSV", Err: err}
	}
	return records, nil
}

// headerIndex maps required column names to their positions in the header.
func headerIndex(path string, header []string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		idx[strings.TrimSpace(name)] = i
	}
	var missing []string
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, &LoadError{
			Path:   path,
			Reason: "missing required columns: " + strings.Join(missing, ", "),
		}
	}
	return idx, nil
}

// parseRow converts one record into a Passenger. Missing Age and Fare are
// marked NaN for imputation; a row without a parseable PassengerId is skipped.
func parseRow(rec []string, idx map[string]int) (Passenger, bool) {
	field := func(name string) string {
		i := idx[name]
		if i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	id, err := strconv.Atoi(field("PassengerId"))
	if err != nil {
		return Passenger{}, false
	}

	p := Passenger{
		ID:       id,
		Name:     field("Name"),
		Sex:      strings.ToLower(field("Sex")),
		Ticket:   field("Ticket"),
		Cabin:    field("Cabin"),
		Embarked: field("Embarked"),
	}
	p.Survived, _ = strconv.Atoi(field("Survived"))
	p.Pclass, _ = strconv.Atoi(field("Pclass"))
	p.SibSp, _ = strconv.Atoi(field("SibSp"))
	p.Parch, _ = strconv.Atoi(field("Parch"))

	p.Age = math.NaN()
	if v := field("Age"); v != "" {
		if age, err := strconv.ParseFloat(v, 64); err == nil {
			p.Age = age
		}
	}
	p.Fare = math.NaN()
	if v := field("Fare"); v != "" {
		if fare, err := strconv.ParseFloat(v, 64); err == nil {
			p.Fare = fare
		}
	}
	return p, true
}

// impute fills missing values: Age and Fare with their column medians over
// present values, Embarked with the most frequent port.
func (t *Table) impute() {
	var ages, fares []float64
	var ports []string
	for _, p := range t.rows {
		if !math.IsNaN(p.Age) {
			ages = append(ages, p.Age)
		}
		if !math.IsNaN(p.Fare) {
			fares = append(fares, p.Fare)
		}
		ports = append(ports, p.Embarked)
	}

	if len(ages) > 0 {
		t.ageMedian = median(ages)
	}
	if len(fares) > 0 {
		t.fareMedian = median(fares)
	}
	t.embarkedMode = mostFrequent(ports)

	for i := range t.rows {
		if math.IsNaN(t.rows[i].Age) {
			t.rows[i].Age = t.ageMedian
			t.imputedAges++
		}
		if math.IsNaN(t.rows[i].Fare) {
			t.rows[i].Fare = t.fareMedian
			t.imputedFares++
		}
		if t.rows[i].Embarked == "" {
			t.rows[i].Embarked = t.embarkedMode
			t.imputedEmbarked++
		}
	}
}

// encode derives SexCode and EmbarkedCode without touching the originals.
func (t *Table) encode() {
	for i := range t.rows {
		p := &t.rows[i]
		if p.Sex == "female" {
			p.SexCode = 1
		}
		switch p.Embarked {
		case "C":
			p.EmbarkedCode = 0
		case "Q":
			p.EmbarkedCode = 1
		case "S":
			p.EmbarkedCode = 2
		}
	}
}
