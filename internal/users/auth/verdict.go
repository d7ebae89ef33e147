// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// Reason explains why the gate refused a session. The empty Reason means the
// session was accepted.
type Reason string

const (
	ReasonNone             Reason = ""
	ReasonNoSession        Reason = "no_session"
	ReasonExpired          Reason = "expired"
	ReasonVersionConflict  Reason = "version_conflict"
	ReasonStoreUnavailable Reason = "store_unavailable"
	ReasonUnknownUser      Reason = "unknown_user"
	ReasonMalformedRecord  Reason = "malformed_record"
)

// Verdict is the outcome of a gate check.
type Verdict struct {
	// Username is the normalized username, set only when Reason is empty.
	Username string
	Reason   Reason
}

// Authenticated reports whether the session was accepted.
func (v Verdict) Authenticated() bool {
	return v.Reason == ReasonNone
}

func deny(reason Reason) Verdict {
	return Verdict{Reason: reason}
}
