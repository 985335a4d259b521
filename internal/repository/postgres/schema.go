// Package postgres implements the service repository interfaces against
// PostgreSQL using database/sql and lib/pq.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema holds the DDL for every table the scheduler owns. Staff ids start
// at 1001 so the synthetic overflow id 1500 is assigned early and then
// reserved by the exclusion constraint below.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS staff (
		id     INTEGER GENERATED BY DEFAULT AS IDENTITY (START WITH 1001) PRIMARY KEY,
		name   TEXT NOT NULL,
		age    INTEGER NOT NULL DEFAULT 0,
		level  INTEGER NOT NULL,
		status TEXT NOT NULL,
		e_mail TEXT NOT NULL UNIQUE,
		gender TEXT NOT NULL DEFAULT '',
		CHECK (id <> 1500)
	)`,
	`CREATE TABLE IF NOT EXISTS shift_pre (
		id        INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		staff_id  INTEGER NOT NULL REFERENCES staff (id) ON DELETE CASCADE,
		date      DATE NOT NULL,
		morning   INTEGER NOT NULL DEFAULT 0,
		afternoon INTEGER NOT NULL DEFAULT 0,
		night     INTEGER NOT NULL DEFAULT 0,
		UNIQUE (staff_id, date)
	)`,
	`CREATE TABLE IF NOT EXISTS daily_prediction (
		date            DATE PRIMARY KEY,
		predicted_sales DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS daily_report (
		date  DATE PRIMARY KEY,
		sales DOUBLE PRECISION NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS shift_ass (
		id       INTEGER GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY,
		date     DATE NOT NULL,
		hour     INTEGER NOT NULL,
		staff_id INTEGER NOT NULL,
		name     TEXT NOT NULL,
		level    INTEGER NOT NULL,
		status   TEXT NOT NULL,
		salary   INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS shift_ass_date_idx ON shift_ass (date, hour, staff_id)`,
}

// InitSchema creates the scheduler tables if they do not exist.
func InitSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("init schema: %w", err)
		}
	}
	return nil
}
