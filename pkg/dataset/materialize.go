// Copyright © 2026 Helmsley Labs - All Rights Reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.

package dataset

import (
	"context"
	"database/sql"
	"fmt"
)

const createTableSQL = `
	CREATE TABLE passengers (
		PassengerId  INTEGER PRIMARY KEY,
		Survived     INTEGER NOT NULL,
		Pclass       INTEGER NOT NULL,
		Name         TEXT NOT NULL,
		Sex          TEXT NOT NULL,
		Age          REAL NOT NULL,
		SibSp        INTEGER NOT NULL,
		Parch        INTEGER NOT NULL,
		Ticket       TEXT NOT NULL,
		Fare         REAL NOT NULL,
		Cabin        TEXT NOT NULL,
		Embarked     TEXT NOT NULL,
		SexCode      INTEGER NOT NULL,
		EmbarkedCode INTEGER NOT NULL
	)
`

// Materialize creates and fills the passengers table, then flips the
// database to query-only mode. After this call the handle accepts SELECTs
// and nothing else, which is the sandbox's restricted namespace.
func Materialize(ctx context.Context, db *sql.DB, t *Table) error {
	if _, err := db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("create %s table: %w", TableName, err)
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin insert transaction: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO passengers VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range t.rows {
		if _, err := stmt.ExecContext(ctx,
			p.ID, p.Survived, p.Pclass, p.Name, p.Sex, p.Age,
			p.SibSp, p.Parch, p.Ticket, p.Fare, p.Cabin, p.Embarked,
			p.SexCode, p.EmbarkedCode); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert passenger %d: %w", p.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit inserts: %w", err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA query_only = ON"); err != nil {
		return fmt.Errorf("set query_only: %w", err)
	}
	return nil
}
