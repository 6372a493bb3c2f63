// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package dataset

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func TestSummary_Deterministic(t *testing.T) {
	path := writeCSV(t, sampleCSV)

	a, err := Load(path)
	require.NoError(t, err)
	b, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, a.Summary(3), b.Summary(3))
}

func TestSummary_Content(t *testing.T) {
	table, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	s := table.Summary(2)
	assert.Contains(t, s, "SQL table: passengers")
	assert.Contains(t, s, "Total passengers: 6")
	assert.Contains(t, s, "Braund, Mr. Owen Harris")
	assert.NotContains(t, s, "Heikkinen", "sample capped at two rows")
	assert.Contains(t, s, "- Age: count=6")
}

func TestOverview(t *testing.T) {
	table, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	ov := table.Overview()
	assert.Equal(t, 6, ov.Rows)
	assert.Equal(t, 3, ov.Survivors)
	assert.InDelta(t, 0.5, ov.SurvivalRate, 1e-9)
	assert.Equal(t, 4, ov.ByClass[3])
	assert.Equal(t, 3, ov.BySex["female"])
}

func TestMaterialize(t *testing.T) {
	table, err := Load(writeCSV(t, sampleCSV))
	require.NoError(t, err)

	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, Materialize(ctx, db, table))

	var n int
	require.NoError(t, db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM passengers").Scan(&n))
	assert.Equal(t, 6, n)

	// query_only makes the namespace read-only.
	_, err = db.ExecContext(ctx, "DELETE FROM passengers")
	assert.Error(t, err)
}
