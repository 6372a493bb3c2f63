// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package sandbox

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/helmsley-labs/manifest/pkg/dataset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCSV = `PassengerId,Survived,Pclass,Name,Sex,Age,SibSp,Parch,Ticket,Fare,Cabin,Embarked
1,0,3,"Braund, Mr. Owen Harris",male,22,1,0,A/5 21171,7.25,,S
2,1,1,"Cumings, Mrs. John Bradley",female,38,1,0,PC 17599,71.2833,C85,C
3,1,3,"Heikkinen, Miss. Laina",female,26,0,0,STON/O2. 3101282,7.925,,S
4,1,1,"Futrelle, Mrs. Jacques Heath",female,35,1,0,113803,53.1,C123,S
5,0,2,"Allen, Mr. William Henry",male,35,0,0,373450,8.05,,S
6,0,3,"Moran, Mr. James",male,27,0,0,330877,8.4583,,Q
`

func newTestRunner(t *testing.T) *Runner {
	t.Helper()
	path := filepath.Join(t.TempDir(), "titanic.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	table, err := dataset.Load(path)
	require.NoError(t, err)
	r, err := New(table)
	require.NoError(t, err)
	t.Cleanup(func() { r.Close() })
	return r
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		stmt    string
		wantErr string
	}{
		{name: "plain select", stmt: "SELECT COUNT(*) FROM passengers"},
		{name: "cte", stmt: "WITH s AS (SELECT * FROM passengers) SELECT COUNT(*) FROM s"},
		{name: "trailing semicolon", stmt: "SELECT 1;"},
		{name: "lowercase", stmt: "select Name from passengers limit 5"},
		{name: "line comment stripped", stmt: "-- count them\nSELECT COUNT(*) FROM passengers"},
		{name: "block comment stripped", stmt: "/* count */ SELECT COUNT(*) FROM passengers"},
		{name: "keyword inside identifier allowed", stmt: "SELECT COUNT(*) AS updated_count FROM passengers"},
		{name: "empty", stmt: "   ", wantErr: "empty"},
		{name: "comment only", stmt: "-- nothing here", wantErr: "empty"},
		{name: "multiple statements", stmt: "SELECT 1; SELECT 2", wantErr: "single statement"},
		{name: "not a select", stmt: "EXPLAIN SELECT 1", wantErr: "only SELECT"},
		{name: "insert denied", stmt: "INSERT INTO passengers VALUES (1)", wantErr: "only SELECT"},
		{name: "write buried in select", stmt: "SELECT 1 FROM passengers WHERE 1 = 1 UNION SELECT 2; DROP TABLE passengers", wantErr: "single statement"},
		{name: "pragma denied", stmt: "SELECT 1 /* */ PRAGMA query_only = OFF", wantErr: "PRAGMA"},
		{name: "lowercase delete denied", stmt: "select * from passengers where delete", wantErr: "DELETE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cleaned, err := Validate(tt.stmt)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEmpty(t, cleaned)
			assert.NotContains(t, cleaned, "--")
		})
	}
}

func TestStripComments_PreservesStringLiterals(t *testing.T) {
	got := stripComments("SELECT '--not a comment' -- real comment\nFROM passengers")
	assert.Contains(t, got, "'--not a comment'")
	assert.NotContains(t, got, "real comment")
}

func TestRun_Count(t *testing.T) {
	r := newTestRunner(t)
	res := r.Run(context.Background(), "SELECT COUNT(*) AS total FROM passengers", Options{})

	require.False(t, res.Failed())
	assert.Equal(t, []string{"total"}, res.Columns)
	require.Len(t, res.Rows, 1)
	assert.Equal(t, int64(6), res.Rows[0][0])
	assert.Contains(t, res.Output, "total")
	assert.Contains(t, res.Output, "6")
	assert.Empty(t, res.Chart)
}

func TestRun_SurvivalRateByClass(t *testing.T) {
	r := newTestRunner(t)
	res := r.Run(context.Background(),
		"SELECT Pclass, AVG(Survived) AS survival_rate FROM passengers GROUP BY Pclass ORDER BY Pclass",
		Options{})

	require.False(t, res.Failed())
	require.Len(t, res.Rows, 3, "one rate per class")
	for _, row := range res.Rows {
		rate, ok := row[1].(float64)
		require.True(t, ok)
		assert.GreaterOrEqual(t, rate, 0.0)
		assert.LessOrEqual(t, rate, 1.0)
	}
}

func TestRun_Deterministic(t *testing.T) {
	r := newTestRunner(t)
	stmt := "SELECT Name, Fare FROM passengers ORDER BY Fare DESC"

	first := r.Run(context.Background(), stmt, Options{})
	second := r.Run(context.Background(), stmt, Options{})

	require.False(t, first.Failed())
	assert.Equal(t, first.Output, second.Output)
}

func TestRun_SyntaxErrorCaptured(t *testing.T) {
	r := newTestRunner(t)
	res := r.Run(context.Background(), "SELECT FROM WHERE", Options{})

	require.True(t, res.Failed())
	assert.NotEmpty(t, res.Err.Message)
	assert.Empty(t, res.Output)

	// the runner stays usable after a fault
	after := r.Run(context.Background(), "SELECT COUNT(*) FROM passengers", Options{})
	assert.False(t, after.Failed())
}

func TestRun_UnknownColumnCaptured(t *testing.T) {
	r := newTestRunner(t)
	res := r.Run(context.Background(), "SELECT NoSuchColumn FROM passengers", Options{})

	require.True(t, res.Failed())
	assert.Contains(t, res.Err.Message, "NoSuchColumn")
}

func TestRun_WriteRejected(t *testing.T) {
	r := newTestRunner(t)
	res := r.Run(context.Background(), "DELETE FROM passengers", Options{})

	require.True(t, res.Failed())
	assert.Contains(t, res.Err.Message, "only SELECT")
}

func TestRun_EmptyResult(t *testing.T) {
	r := newTestRunner(t)
	res := r.Run(context.Background(), "SELECT Name FROM passengers WHERE Age > 200", Options{})

	require.False(t, res.Failed())
	assert.Empty(t, res.Rows)
	assert.Contains(t, res.Output, "(no rows)")
}

func TestRun_RowLimitTruncates(t *testing.T) {
	r := newTestRunner(t)
	r.rowLimit = 2

	res := r.Run(context.Background(), "SELECT Name FROM passengers ORDER BY PassengerId", Options{})

	require.False(t, res.Failed())
	assert.Len(t, res.Rows, 2)
	assert.Contains(t, res.Output, "truncated")
}

func TestRun_Chart(t *testing.T) {
	r := newTestRunner(t)
	res := r.Run(context.Background(),
		"SELECT Pclass, COUNT(*) AS passengers FROM passengers GROUP BY Pclass ORDER BY Pclass",
		Options{Chart: true, Name: "passengers by class"})

	require.False(t, res.Failed())
	require.NotEmpty(t, res.Chart)
	var parsed map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Chart), &parsed))
	assert.Contains(t, parsed, "series")
}

func TestRun_ChartStateDoesNotLeak(t *testing.T) {
	r := newTestRunner(t)

	chart := r.Run(context.Background(),
		"SELECT Sex, COUNT(*) AS n FROM passengers GROUP BY Sex",
		Options{Chart: true, Name: "by sex"})
	require.False(t, chart.Failed())
	require.NotEmpty(t, chart.Chart)

	plain := r.Run(context.Background(), "SELECT COUNT(*) FROM passengers", Options{})
	require.False(t, plain.Failed())
	assert.Empty(t, plain.Chart, "no chart unless requested for this run")
}

func TestRenderTable(t *testing.T) {
	out := renderTable([]string{"name", "age"}, [][]any{
		{"Braund", 22.0},
		{"Cumings", nil},
	}, false)

	assert.Contains(t, out, "name")
	assert.Contains(t, out, "----")
	assert.Contains(t, out, "NULL")
	assert.Contains(t, out, "(2 rows)")
}
