// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

// # Session Constraints

const (
	// SessionIDLength is the byte length of the random session identifier.
	SessionIDLength = 32

	// SessionVersionLength is the byte length of a session version before hex encoding.
	SessionVersionLength = 16

	// MaxUsernameLength bounds the login form field.
	MaxUsernameLength = 64
)

// # Field Identifiers

const (
	FieldUsername      = "username"
	FieldAuthenticated = "authenticated"
)
