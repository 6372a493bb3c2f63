// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package prompt

// Templates for the two request shapes. {{.schema}} receives the dataset
// summary verbatim; {{.query}} receives the sanitized user question.
// Interpolation is purely textual, so identical inputs always produce
// identical prompts.

const analysisTemplate = `{{.schema}}
RULES:
1. The SQLite table '{{.table}}' already contains the real passenger manifest. Do NOT invent data.
2. Answer with exactly ONE SQL SELECT statement inside a fenced ` + "```sql" + ` block.
3. Query only the '{{.table}}' table. No other tables exist.
4. Use the original readable columns ('Sex', 'Embarked') rather than the encoded ones.
5. Never modify data: no INSERT, UPDATE, DELETE, DROP, CREATE or PRAGMA.
6. Round rates and averages to a sensible precision and name result columns clearly.
7. Add ORDER BY so the result order is stable.

ANALYSIS REQUEST: "{{.query}}"

Write the SELECT that computes the relevant statistics, then explain the
result in two or three sentences of plain prose after the code block.
`

const chartTemplate = `{{.schema}}
RULES:
1. The SQLite table '{{.table}}' already contains the real passenger manifest. Do NOT invent data.
2. Answer with exactly ONE SQL SELECT statement inside a fenced ` + "```sql" + ` block.
3. Query only the '{{.table}}' table. No other tables exist.
4. Use the original readable columns ('Sex', 'Embarked') rather than the encoded ones.
5. Never modify data: no INSERT, UPDATE, DELETE, DROP, CREATE or PRAGMA.
6. Round rates and averages to a sensible precision and name result columns clearly.
7. Add ORDER BY so the result order is stable.

CHART REQUEST: "{{.query}}"

A chart will be rendered directly from your query's result set, so return
grouped or aggregated rows: a label column first (the category axis),
followed by one or more numeric value columns. Keep the result under about
fifty rows. After the code block, explain in two or three sentences what
the chart shows.
`
