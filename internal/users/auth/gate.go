// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"log/slog"

	"github.com/taibuivan/solosession/internal/platform/ctxutil"
	"github.com/taibuivan/solosession/internal/users/account"
	"github.com/taibuivan/solosession/internal/users/session"
)

// Gate decides, per request, whether a session id is still usable.
//
// Nothing is cached: the store and the registry are read on every call so a
// login elsewhere takes effect on the very next request.
type Gate struct {
	registry account.Registry
	store    session.Store
}

// NewGate constructs a [Gate].
func NewGate(registry account.Registry, store session.Store) *Gate {
	return &Gate{registry: registry, store: store}
}

/*
Authorize checks sessionID and destroys its record when it has been superseded
by a newer login.

Parameters:
  - ctx: context.Context
  - sessionID: string (may be empty)

Returns:
  - Verdict: Username on success, otherwise the denial Reason
*/
func (gate *Gate) Authorize(ctx context.Context, sessionID string) Verdict {
	return gate.evaluate(ctx, sessionID, true)
}

// Probe runs the same check as Authorize without destroying anything.
func (gate *Gate) Probe(ctx context.Context, sessionID string) Verdict {
	return gate.evaluate(ctx, sessionID, false)
}

func (gate *Gate) evaluate(ctx context.Context, sessionID string, destroyStale bool) Verdict {
	if sessionID == "" {
		return deny(ReasonNoSession)
	}

	logger := ctxutil.GetLogger(ctx)

	record, err := gate.store.Get(ctx, sessionID)
	switch {
	case err == nil:
	case errors.Is(err, session.ErrNotFound):
		return deny(ReasonNoSession)
	case errors.Is(err, session.ErrExpired):
		return deny(ReasonExpired)
	case errors.Is(err, session.ErrMalformed):
		logger.WarnContext(ctx, "session_record_malformed", slog.Any("error", err))
		return deny(ReasonMalformedRecord)
	default:
		logger.ErrorContext(ctx, "session_store_unavailable", slog.Any("error", err))
		return deny(ReasonStoreUnavailable)
	}

	if !record.Complete() {
		logger.WarnContext(ctx, "session_record_incomplete")
		return deny(ReasonMalformedRecord)
	}

	username := account.NormalizeUsername(record.Username)

	user, err := gate.registry.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return deny(ReasonUnknownUser)
		}
		logger.ErrorContext(ctx, "session_registry_unavailable", slog.Any("error", err))
		return deny(ReasonStoreUnavailable)
	}

	if !user.HasVersion(record.SessionVersion) {
		if destroyStale {
			if err := gate.store.Destroy(ctx, sessionID); err != nil {
				logger.WarnContext(ctx, "session_stale_destroy_failed", slog.Any("error", err))
			}
		}
		logger.InfoContext(ctx, "session_superseded", slog.String("username", username))
		return deny(ReasonVersionConflict)
	}

	return Verdict{Username: username}
}
