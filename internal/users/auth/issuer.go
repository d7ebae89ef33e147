// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth enforces "one active session per user".

Logging in mints a new session version, stores it on the user and writes a
session record carrying the same version. Every protected request goes through
the [Gate], which accepts a record only while its version is still the user's
current one. A newer login therefore invalidates every older session without
having to find and delete them.

# Architecture

  - Issuer: login. Registry write first, then the session record.
  - Gate: per-request check. Re-reads the registry on every call.
  - Handler: HTTP delivery (forms, cookie, redirects, probe endpoint).
*/
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/solosession/internal/platform/ctxutil"
	"github.com/taibuivan/solosession/internal/platform/sec"
	"github.com/taibuivan/solosession/internal/users/account"
	"github.com/taibuivan/solosession/internal/users/session"
)

var (
	// ErrBlankUsername is returned when the username is empty after trimming.
	ErrBlankUsername = errors.New("auth: username is blank")

	// ErrUnknownUser is returned when the registry has no such user.
	ErrUnknownUser = errors.New("auth: unknown user")
)

// Issued is the result of a successful login.
type Issued struct {
	SessionID string
	Record    session.Record
}

// Issuer starts sessions.
type Issuer struct {
	registry   account.Registry
	store      session.Store
	timeToLive time.Duration

	now          func() time.Time
	newVersion   func() (string, error)
	newSessionID func() (string, error)
}

// NewIssuer constructs an [Issuer] whose records live for timeToLive.
func NewIssuer(registry account.Registry, store session.Store, timeToLive time.Duration) *Issuer {
	return &Issuer{
		registry:   registry,
		store:      store,
		timeToLive: timeToLive,
		now:        time.Now,
		newVersion: func() (string, error) {
			return sec.GenerateHexToken(SessionVersionLength)
		},
		newSessionID: func() (string, error) {
			return sec.GenerateSecureToken(SessionIDLength)
		},
	}
}

// TTL returns how long issued sessions live.
func (issuer *Issuer) TTL() time.Duration {
	return issuer.timeToLive
}

/*
Issue logs username in and invalidates every session issued to them before.

Description: The new version is written to the registry before the record is
stored. If the store write then fails, the user has no usable session at all,
which is the safe direction.

Parameters:
  - ctx: context.Context
  - username: string (raw form input)

Returns:
  - *Issued: The new session id and record
  - error: ErrBlankUsername, ErrUnknownUser or storage failures
*/
func (issuer *Issuer) Issue(ctx context.Context, username string) (*Issued, error) {
	normalized := account.NormalizeUsername(username)
	if normalized == "" {
		return nil, ErrBlankUsername
	}

	user, err := issuer.registry.FindByUsername(ctx, normalized)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return nil, ErrUnknownUser
		}
		return nil, fmt.Errorf("auth_issuer_find_user_failed: %w", err)
	}

	version, err := issuer.newVersion()
	if err != nil {
		return nil, fmt.Errorf("auth_issuer_version_failed: %w", err)
	}

	if err := issuer.registry.SetSessionVersion(ctx, user.ID, version); err != nil {
		return nil, fmt.Errorf("auth_issuer_set_version_failed: %w", err)
	}

	sessionID, err := issuer.newSessionID()
	if err != nil {
		return nil, fmt.Errorf("auth_issuer_session_id_failed: %w", err)
	}

	issuedAt := issuer.now()
	record := session.Record{
		Username:       account.NormalizeUsername(user.Username),
		SessionVersion: version,
		IssuedAt:       issuedAt,
		ExpiresAt:      issuedAt.Add(issuer.timeToLive),
	}

	if err := issuer.store.Put(ctx, sessionID, record, issuer.timeToLive); err != nil {
		return nil, fmt.Errorf("auth_issuer_store_put_failed: %w", err)
	}

	ctxutil.GetLogger(ctx).InfoContext(ctx, "session_issued",
		slog.Int64("user_id", user.ID),
		slog.String("username", record.Username),
	)

	return &Issued{SessionID: sessionID, Record: record}, nil
}

// Logout destroys the record for sessionID. Unknown or empty ids are a no-op.
func (issuer *Issuer) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := issuer.store.Destroy(ctx, sessionID); err != nil {
		return fmt.Errorf("auth_issuer_logout_failed: %w", err)
	}
	return nil
}
