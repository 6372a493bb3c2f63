// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlocks_Single(t *testing.T) {
	text := "Here is the query:\n```sql\nSELECT COUNT(*) FROM passengers\n```\nThat counts everyone."
	blocks := Blocks(text)
	require.Len(t, blocks, 1)
	assert.Equal(t, "sql", blocks[0].Lang)
	assert.Equal(t, "SELECT COUNT(*) FROM passengers", blocks[0].Code)
	assert.NotContains(t, blocks[0].Code, "`")
}

func TestBlocks_None(t *testing.T) {
	blocks := Blocks("The average age was about thirty years.")
	assert.Empty(t, blocks)
}

func TestBlocks_MultipleInOrder(t *testing.T) {
	text := "```sql\nSELECT 1\n```\nprose\n```sql\nSELECT 2\n```"
	blocks := Blocks(text)
	require.Len(t, blocks, 2)
	assert.Equal(t, "SELECT 1", blocks[0].Code)
	assert.Equal(t, "SELECT 2", blocks[1].Code)
}

func TestBlocks_UntaggedFence(t *testing.T) {
	blocks := Blocks("```\nSELECT 3\n```")
	require.Len(t, blocks, 1)
	assert.Equal(t, "", blocks[0].Lang)
	assert.Equal(t, "SELECT 3", blocks[0].Code)
}

func TestBlocks_LangTagCaseInsensitive(t *testing.T) {
	blocks := Blocks("```SQL\nSELECT 4\n```")
	require.Len(t, blocks, 1)
	assert.Equal(t, "sql", blocks[0].Lang)
}

func TestBlocks_EmptyFenceSkipped(t *testing.T) {
	blocks := Blocks("```sql\n\n```")
	assert.Empty(t, blocks)
}

func TestSQL_FirstBlockWins(t *testing.T) {
	text := "```sql\nSELECT 1\n```\n```sql\nSELECT 2\n```"
	stmt, ok := SQL(text)
	require.True(t, ok)
	assert.Equal(t, "SELECT 1", stmt)
}

func TestSQL_PrefersTaggedBlock(t *testing.T) {
	text := "```json\n{\"x\":1}\n```\n```sql\nSELECT 5\n```"
	stmt, ok := SQL(text)
	require.True(t, ok)
	assert.Equal(t, "SELECT 5", stmt)
}

func TestSQL_FallsBackToUntagged(t *testing.T) {
	stmt, ok := SQL("```\nSELECT 6\n```")
	require.True(t, ok)
	assert.Equal(t, "SELECT 6", stmt)
}

func TestSQL_NoCode(t *testing.T) {
	_, ok := SQL("no code at all")
	assert.False(t, ok)
}

func TestSQL_OnlyForeignLang(t *testing.T) {
	_, ok := SQL("```python\nprint('hi')\n```")
	assert.False(t, ok)
}

func TestBlocks_MultilineStatement(t *testing.T) {
	text := "```sql\nSELECT Pclass,\n       AVG(Survived)\nFROM passengers\nGROUP BY Pclass\n```"
	blocks := Blocks(text)
	require.Len(t, blocks, 1)
	assert.Contains(t, blocks[0].Code, "GROUP BY Pclass")
}

func TestProse_StripsFencedBlocks(t *testing.T) {
	text := "Here is the query:\n\n```sql\nSELECT COUNT(*) FROM passengers\n```\n\nIt counts every passenger."
	got := Prose(text)
	assert.Equal(t, "Here is the query:\n\nIt counts every passenger.", got)
}

func TestProse_NoBlocks(t *testing.T) {
	assert.Equal(t, "Just an answer.", Prose("  Just an answer.\n"))
}
