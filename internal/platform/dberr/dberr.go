// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package dberr classifies driver-level errors shared by the SQL-backed stores.
package dberr

import (
	"database/sql"
	"errors"

	"github.com/jackc/pgx/v5"
)

// IsNoRows reports whether err means "the query matched nothing", for both the
// pgx driver and database/sql drivers.
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || errors.Is(err, sql.ErrNoRows)
}

// Wrap annotates err with the failed action, mapping "no rows" to notFound.
// It returns nil when err is nil.
func Wrap(err error, action string, notFound error) error {
	if err == nil {
		return nil
	}
	if IsNoRows(err) {
		return notFound
	}
	return &QueryError{Action: action, Err: err}
}

// QueryError records which repository action failed.
type QueryError struct {
	Action string
	Err    error
}

func (e *QueryError) Error() string { return e.Action + ": " + e.Err.Error() }

func (e *QueryError) Unwrap() error { return e.Err }
