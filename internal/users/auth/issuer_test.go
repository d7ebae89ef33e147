// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/solosession/internal/users/account"
	"github.com/taibuivan/solosession/internal/users/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIssuer_Issue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	issued, err := f.issuer.Issue(ctx, "  ADA ")
	require.NoError(t, err)

	assert.Len(t, issued.Record.SessionVersion, 2*SessionVersionLength)
	assert.Equal(t, "ada", issued.Record.Username)
	assert.Equal(t, time.Hour, issued.Record.ExpiresAt.Sub(issued.Record.IssuedAt))
	assert.NotEmpty(t, issued.SessionID)

	user, err := f.registry.FindByUsername(ctx, "ada")
	require.NoError(t, err)
	assert.True(t, user.HasVersion(issued.Record.SessionVersion))

	stored, err := f.store.Get(ctx, issued.SessionID)
	require.NoError(t, err)
	assert.Equal(t, issued.Record.SessionVersion, stored.SessionVersion)
}

/*
TestIssuer_BlankUsername verifies that blank input is refused before the
registry is consulted.
*/
func TestIssuer_BlankUsername(t *testing.T) {
	f := newFixture(t, time.Hour)

	for _, raw := range []string{"", "   ", "\t\n"} {
		_, err := f.issuer.Issue(context.Background(), raw)
		assert.ErrorIs(t, err, ErrBlankUsername)
	}

	assert.Zero(t, f.registry.finds.Load())
	assert.Zero(t, f.registry.writes.Load())
}

func TestIssuer_UnknownUser(t *testing.T) {
	f := newFixture(t, time.Hour)

	_, err := f.issuer.Issue(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrUnknownUser)

	assert.Zero(t, f.registry.writes.Load())
	assert.Zero(t, f.store.Len())
}

/*
TestIssuer_DoubleIssue verifies that two logins produce distinct versions and
ids, and that only the second one remains usable.
*/
func TestIssuer_DoubleIssue(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	first, err := f.issuer.Issue(ctx, "ada")
	require.NoError(t, err)
	second, err := f.issuer.Issue(ctx, "ada")
	require.NoError(t, err)

	assert.NotEqual(t, first.Record.SessionVersion, second.Record.SessionVersion)
	assert.NotEqual(t, first.SessionID, second.SessionID)

	assert.Equal(t, ReasonVersionConflict, f.gate.Authorize(ctx, first.SessionID).Reason)
	assert.Equal(t, "ada", f.gate.Authorize(ctx, second.SessionID).Username)
}

func TestIssuer_StoreFailure(t *testing.T) {
	registry := account.NewMemoryRegistry("ada")
	issuer := NewIssuer(registry, brokenStore{}, time.Hour)

	_, err := issuer.Issue(context.Background(), "ada")
	assert.ErrorIs(t, err, session.ErrUnavailable)
}

func TestIssuer_RegistryFailure(t *testing.T) {
	store := session.NewMemoryStore(context.Background(), time.Hour, discardLogger())
	defer store.Close()
	issuer := NewIssuer(brokenRegistry{}, store, time.Hour)

	_, err := issuer.Issue(context.Background(), "ada")
	assert.ErrorIs(t, err, errDatabaseDown)
	assert.NotErrorIs(t, err, ErrUnknownUser)
}

/*
TestIssuer_Logout verifies that logout is idempotent and ids never issued are
accepted silently.
*/
func TestIssuer_Logout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	issued, err := f.issuer.Issue(ctx, "ada")
	require.NoError(t, err)

	require.NoError(t, f.issuer.Logout(ctx, issued.SessionID))
	require.NoError(t, f.issuer.Logout(ctx, issued.SessionID))
	require.NoError(t, f.issuer.Logout(ctx, "never-issued"))
	require.NoError(t, f.issuer.Logout(ctx, ""))

	assert.Equal(t, ReasonNoSession, f.gate.Authorize(ctx, issued.SessionID).Reason)
}
