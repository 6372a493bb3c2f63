// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

// Package sandbox executes model-generated SQL against an in-memory,
// read-only copy of the passenger manifest. A statement fault is data,
// not a failure: Run captures it in the result and never propagates it.
package sandbox

import (
	"context"
	"database/sql"
	"fmt"
	"runtime/debug"

	"github.com/helmsley-labs/manifest/internal/log"
	"github.com/helmsley-labs/manifest/pkg/dataset"
	"github.com/helmsley-labs/manifest/pkg/visualization"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// DefaultRowLimit caps how many result rows a single statement may return.
const DefaultRowLimit = 10_000

// ExecError describes a statement that failed inside the sandbox. Trace
// holds a stack trace when the failure was a runtime panic, empty otherwise.
type ExecError struct {
	Message string
	Trace   string
}

func (e *ExecError) Error() string { return e.Message }

// Options control a single run.
type Options struct {
	// Chart derives an ECharts config from the result set.
	Chart bool
	// Name titles the chart; typically the user's question.
	Name string
}

// Result is the observable outcome of one statement: rendered output, an
// optional chart config, and the fault if the statement failed. Columns and
// Rows expose the raw result set for callers that post-process it.
type Result struct {
	Output  string
	Chart   string
	Columns []string
	Rows    [][]any
	Err     *ExecError
}

// Failed reports whether the run produced a fault instead of a result.
func (r *Result) Failed() bool { return r.Err != nil }

// Runner owns the in-memory database a manifest has been materialized into.
// It serves one statement at a time; the single connection is what carries
// the read-only pragma.
type Runner struct {
	db       *sql.DB
	rowLimit int
}

// New materializes the table into a fresh in-memory database and returns a
// runner bound to it.
func New(t *dataset.Table) (*Runner, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// The in-memory database lives on a single connection; a second
	// connection would see an empty schema and skip the pragma.
	db.SetMaxOpenConns(1)

	if err := dataset.Materialize(context.Background(), db, t); err != nil {
		db.Close()
		return nil, err
	}

	return &Runner{db: db, rowLimit: DefaultRowLimit}, nil
}

// Close releases the in-memory database.
func (r *Runner) Close() error { return r.db.Close() }

// Run validates and executes one statement. Statement faults, including
// runtime panics, come back inside the result; the answer pipeline decides
// how to present them.
func (r *Runner) Run(ctx context.Context, stmt string, opts Options) (res *Result) {
	res = &Result{}

	defer func() {
		if rec := recover(); rec != nil {
			res.Err = &ExecError{
				Message: fmt.Sprintf("runtime panic: %v", rec),
				Trace:   string(debug.Stack()),
			}
			log.Error("sandbox panic recovered", zap.Any("panic", rec))
		}
	}()

	cleaned, err := Validate(stmt)
	if err != nil {
		res.Err = &ExecError{Message: err.Error()}
		log.Debug("statement rejected", zap.String("reason", err.Error()))
		return res
	}

	rows, err := r.db.QueryContext(ctx, cleaned)
	if err != nil {
		res.Err = &ExecError{Message: err.Error()}
		log.Debug("statement failed", zap.String("error", err.Error()))
		return res
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		res.Err = &ExecError{Message: fmt.Sprintf("failed to read columns: %v", err)}
		return res
	}

	var collected [][]any
	truncated := false
	for rows.Next() {
		if len(collected) >= r.rowLimit {
			truncated = true
			break
		}
		scanDest := make([]any, len(columns))
		scanArgs := make([]any, len(columns))
		for i := range scanArgs {
			scanArgs[i] = &scanDest[i]
		}
		if err := rows.Scan(scanArgs...); err != nil {
			res.Err = &ExecError{Message: fmt.Sprintf("failed to scan row: %v", err)}
			return res
		}
		row := make([]any, len(columns))
		for i, val := range scanDest {
			if b, ok := val.([]byte); ok {
				row[i] = string(b)
			} else {
				row[i] = val
			}
		}
		collected = append(collected, row)
	}
	if err := rows.Err(); err != nil {
		res.Err = &ExecError{Message: err.Error()}
		return res
	}

	res.Columns = columns
	res.Rows = collected
	res.Output = renderTable(columns, collected, truncated)

	if opts.Chart && len(collected) > 0 {
		res.Chart = r.deriveChart(opts.Name, columns, collected)
	}

	log.Debug("statement executed",
		zap.Int("rows", len(collected)),
		zap.Bool("truncated", truncated),
		zap.Bool("chart", res.Chart != ""))
	return res
}

// deriveChart builds an ECharts config from the result set. The selector
// and generator are created fresh each run so no chart state survives
// between queries. A chart failure degrades to no chart.
func (r *Runner) deriveChart(name string, columns []string, rows [][]any) string {
	ds := &visualization.Dataset{
		Name:    name,
		Columns: columns,
		Rows:    rows,
	}
	rec := visualization.NewSelector().Recommend(ds)
	config, err := visualization.NewGenerator(nil).Generate(ds, rec)
	if err != nil {
		log.Warn("chart generation failed", zap.Error(err))
		return ""
	}
	return config
}
