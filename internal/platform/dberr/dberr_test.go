// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/solosession/internal/platform/dberr"
)

var errMissing = errors.New("missing")

func TestWrap(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, "find", errMissing))

	assert.ErrorIs(t, dberr.Wrap(pgx.ErrNoRows, "find", errMissing), errMissing)
	assert.ErrorIs(t, dberr.Wrap(fmt.Errorf("scan: %w", sql.ErrNoRows), "find", errMissing), errMissing)

	boom := errors.New("connection reset")
	err := dberr.Wrap(boom, "sqlite_registry_find_failed", errMissing)
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, errMissing)
	assert.Equal(t, "sqlite_registry_find_failed: connection reset", err.Error())
}
