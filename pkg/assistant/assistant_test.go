// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package assistant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/helmsley-labs/manifest/pkg/dataset"
	"github.com/helmsley-labs/manifest/pkg/llm"
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

// stubProvider returns a canned completion, or a canned error.
type stubProvider struct {
	completion string
	err        error
	lastPrompt string
}

func (s *stubProvider) Complete(_ context.Context, prompt string) (*llm.Completion, error) {
	s.lastPrompt = prompt
	if s.err != nil {
		return nil, s.err
	}
	return &llm.Completion{Text: s.completion, StopReason: "end_turn"}, nil
}

func (s *stubProvider) Name() string  { return "stub" }
func (s *stubProvider) Model() string { return "stub-model" }

func newTestAssistant(t *testing.T, provider llm.Provider, opts ...Option) *Assistant {
	t.Helper()
	path := filepath.Join(t.TempDir(), "titanic.csv")
	require.NoError(t, os.WriteFile(path, []byte(testCSV), 0o644))
	table, err := dataset.Load(path)
	require.NoError(t, err)
	a, err := New(provider, table, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { a.Close() })
	return a
}

func TestHandleQuery_ExecutesStatement(t *testing.T) {
	provider := &stubProvider{
		completion: "Counting every passenger in the manifest.\n\n" +
			"```sql\nSELECT COUNT(*) AS total FROM passengers\n```\n",
	}
	a := newTestAssistant(t, provider)

	resp, err := a.HandleQuery(context.Background(), "How many passengers are there?")
	require.NoError(t, err)

	assert.True(t, resp.UsedExecution)
	assert.Nil(t, resp.Err)
	assert.Equal(t, "Counting every passenger in the manifest.", resp.Answer)
	assert.Equal(t, "SELECT COUNT(*) AS total FROM passengers", resp.Code)
	assert.Contains(t, resp.Output, "total")
	assert.Contains(t, resp.Output, "6")
	assert.Empty(t, resp.Chart)
	assert.NotEmpty(t, resp.ID)
	assert.Contains(t, provider.lastPrompt, "How many passengers are there?")
}

func TestHandleQuery_NoCodeIsAValidAnswer(t *testing.T) {
	provider := &stubProvider{
		completion: "The Titanic sank on April 15, 1912; the manifest does not record this.",
	}
	a := newTestAssistant(t, provider)

	resp, err := a.HandleQuery(context.Background(), "When did the ship sink?")
	require.NoError(t, err)

	assert.False(t, resp.UsedExecution)
	assert.Nil(t, resp.Err)
	assert.Empty(t, resp.Output)
	assert.Equal(t, provider.completion, resp.Answer)
}

func TestHandleQuery_ExecutionFaultStaysInside(t *testing.T) {
	provider := &stubProvider{
		completion: "Trying this.\n\n```sql\nSELECT NoSuchColumn FROM passengers\n```\n",
	}
	a := newTestAssistant(t, provider)

	resp, err := a.HandleQuery(context.Background(), "Show me something broken")
	require.NoError(t, err, "execution faults must not fail the query")

	assert.True(t, resp.UsedExecution)
	require.NotNil(t, resp.Err)
	assert.Contains(t, resp.Err.Message, "NoSuchColumn")
	assert.Empty(t, resp.Err.Trace, "traces are debug-only")
	assert.Empty(t, resp.Output)
	assert.Equal(t, "Trying this.", resp.Answer)
}

func TestHandleQuery_ServiceErrorPropagates(t *testing.T) {
	provider := &stubProvider{
		err: &llm.ServiceError{Provider: "stub", Message: "throttled", Transient: true},
	}
	a := newTestAssistant(t, provider)

	_, err := a.HandleQuery(context.Background(), "anything")
	require.Error(t, err)

	var svcErr *llm.ServiceError
	require.True(t, errors.As(err, &svcErr))
	assert.True(t, svcErr.Transient)
	assert.Equal(t, 0, a.History().Len(), "failed completions are not recorded")
}

func TestHandleQuery_ChartQueryGetsChart(t *testing.T) {
	provider := &stubProvider{
		completion: "Survivors per class.\n\n" +
			"```sql\nSELECT Pclass, COUNT(*) AS survivors FROM passengers WHERE Survived = 1 GROUP BY Pclass ORDER BY Pclass\n```\n",
	}
	a := newTestAssistant(t, provider)

	resp, err := a.HandleQuery(context.Background(), "Plot survivors by class")
	require.NoError(t, err)

	assert.Nil(t, resp.Err)
	assert.NotEmpty(t, resp.Chart)
	assert.Contains(t, provider.lastPrompt, "CHART REQUEST")
}

func TestHandleQuery_SurvivalRateByClass(t *testing.T) {
	provider := &stubProvider{
		completion: "Survival rate per class.\n\n" +
			"```sql\nSELECT Pclass, AVG(Survived) AS survival_rate FROM passengers GROUP BY Pclass ORDER BY Pclass\n```\n",
	}
	a := newTestAssistant(t, provider)

	resp, err := a.HandleQuery(context.Background(), "What was the survival rate by passenger class?")
	require.NoError(t, err)

	assert.Nil(t, resp.Err)
	assert.Contains(t, resp.Output, "survival_rate")
	assert.Contains(t, resp.Output, "(3 rows)")
}

func TestHandleQuery_RecordsHistory(t *testing.T) {
	provider := &stubProvider{completion: "No query needed."}
	a := newTestAssistant(t, provider)

	first, err := a.HandleQuery(context.Background(), "first")
	require.NoError(t, err)
	second, err := a.HandleQuery(context.Background(), "second")
	require.NoError(t, err)

	entries := a.History().Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, first.ID, entries[0].ID)
	assert.Equal(t, second.ID, entries[1].ID)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestHandleQueryStream_FallsBackToComplete(t *testing.T) {
	provider := &stubProvider{completion: "Plain answer, nothing to run."}
	a := newTestAssistant(t, provider)

	var streamed string
	resp, err := a.HandleQueryStream(context.Background(), "hello", func(token string) {
		streamed += token
	})
	require.NoError(t, err)

	assert.Equal(t, provider.completion, streamed, "non-streaming providers deliver the text in one callback")
	assert.Equal(t, provider.completion, resp.Answer)
}
