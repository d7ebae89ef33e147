// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/solosession/internal/users/account"
	"github.com/taibuivan/solosession/internal/users/session"
)

/*
TestGate_AdaScenario walks through two devices logging in as the same user.

Device A logs in and is accepted. Device B logs in. Device A's next request is
refused as superseded and its record is gone, so a retry reports no session.
Device B keeps working.
*/
func TestGate_AdaScenario(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	deviceA, err := f.issuer.Issue(ctx, "Ada")
	require.NoError(t, err)
	assert.Equal(t, Verdict{Username: "ada"}, f.gate.Authorize(ctx, deviceA.SessionID))

	deviceB, err := f.issuer.Issue(ctx, "ada")
	require.NoError(t, err)

	assert.Equal(t, ReasonVersionConflict, f.gate.Authorize(ctx, deviceA.SessionID).Reason)

	_, err = f.store.Get(ctx, deviceA.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
	assert.Equal(t, ReasonNoSession, f.gate.Authorize(ctx, deviceA.SessionID).Reason)

	verdict := f.gate.Authorize(ctx, deviceB.SessionID)
	assert.True(t, verdict.Authenticated())
	assert.Equal(t, "ada", verdict.Username)
}

func TestGate_OtherUsersAreIndependent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	ada, err := f.issuer.Issue(ctx, "ada")
	require.NoError(t, err)
	_, err = f.issuer.Issue(ctx, "grace")
	require.NoError(t, err)

	assert.True(t, f.gate.Authorize(ctx, ada.SessionID).Authenticated())
}

/*
TestGate_Denials covers every denial reason.
*/
func TestGate_Denials(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	never := "v-never"
	require.NoError(t, f.store.Put(ctx, "no-version-on-user", session.Record{Username: "grace", SessionVersion: never}, time.Hour))
	require.NoError(t, f.store.Put(ctx, "missing-version", session.Record{Username: "ada"}, time.Hour))
	require.NoError(t, f.store.Put(ctx, "missing-username", session.Record{SessionVersion: "v"}, time.Hour))
	require.NoError(t, f.store.Put(ctx, "ghost", session.Record{Username: "ghost", SessionVersion: "v"}, time.Hour))

	tests := []struct {
		name      string
		sessionID string
		want      Reason
	}{
		{"empty id", "", ReasonNoSession},
		{"never issued", "nope", ReasonNoSession},
		{"user has no version", "no-version-on-user", ReasonVersionConflict},
		{"record without version", "missing-version", ReasonMalformedRecord},
		{"record without username", "missing-username", ReasonMalformedRecord},
		{"user no longer exists", "ghost", ReasonUnknownUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict := f.gate.Authorize(ctx, tt.sessionID)
			assert.Equal(t, tt.want, verdict.Reason)
			assert.Empty(t, verdict.Username)
		})
	}
}

func TestGate_Expired(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, 10*time.Millisecond)

	issued, err := f.issuer.Issue(ctx, "ada")
	require.NoError(t, err)

	time.Sleep(30 * time.Millisecond)

	assert.Equal(t, ReasonExpired, f.gate.Authorize(ctx, issued.SessionID).Reason)
}

/*
TestGate_FailsClosed verifies that backend failures deny access.
*/
func TestGate_FailsClosed(t *testing.T) {
	ctx := context.Background()

	storeDown := NewGate(account.NewMemoryRegistry("ada"), brokenStore{})
	assert.Equal(t, ReasonStoreUnavailable, storeDown.Authorize(ctx, "sid").Reason)

	store := session.NewMemoryStore(ctx, time.Hour, discardLogger())
	defer store.Close()
	require.NoError(t, store.Put(ctx, "sid", session.Record{Username: "ada", SessionVersion: "v"}, time.Hour))

	registryDown := NewGate(brokenRegistry{}, store)
	assert.Equal(t, ReasonStoreUnavailable, registryDown.Authorize(ctx, "sid").Reason)
}

/*
TestGate_ProbeHasNoSideEffects verifies that a superseded record survives Probe
and is only destroyed by Authorize.
*/
func TestGate_ProbeHasNoSideEffects(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	first, err := f.issuer.Issue(ctx, "ada")
	require.NoError(t, err)
	_, err = f.issuer.Issue(ctx, "ada")
	require.NoError(t, err)

	assert.Equal(t, ReasonVersionConflict, f.gate.Probe(ctx, first.SessionID).Reason)
	assert.Equal(t, ReasonVersionConflict, f.gate.Probe(ctx, first.SessionID).Reason)

	_, err = f.store.Get(ctx, first.SessionID)
	assert.NoError(t, err)

	f.gate.Authorize(ctx, first.SessionID)
	_, err = f.store.Get(ctx, first.SessionID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestGate_RereadsRegistry(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	issued, err := f.issuer.Issue(ctx, "ada")
	require.NoError(t, err)

	before := f.registry.finds.Load()
	f.gate.Authorize(ctx, issued.SessionID)
	f.gate.Authorize(ctx, issued.SessionID)
	assert.Equal(t, before+2, f.registry.finds.Load())
}

func TestGate_ConcurrentLogins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, time.Hour)

	var (
		wg     sync.WaitGroup
		mu     sync.Mutex
		issued []string
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			result, err := f.issuer.Issue(ctx, "ada")
			if err != nil {
				return
			}
			mu.Lock()
			issued = append(issued, result.SessionID)
			mu.Unlock()
		}()
	}
	wg.Wait()

	accepted := 0
	for _, id := range issued {
		if f.gate.Probe(ctx, id).Authenticated() {
			accepted++
		}
	}
	assert.LessOrEqual(t, accepted, 1)
}
