// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, cookie names, route paths, and cross-cutting keys
that are shared between different layers of the system.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Session: Cookie naming, token issuer, default lifetime.
  - Routes: Public paths the redirect logic points at.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "solosession"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Session

const (
	// SessionIssuer is the 'iss' claim of the signed session cookie.
	SessionIssuer = "solosession"

	// SessionCookieName is the cookie carrying the signed session identifier.
	SessionCookieName = "sid"

	// SessionCookiePath scopes the cookie to the whole site.
	SessionCookiePath = "/"

	// DefaultSessionTTL bounds the lifetime of a session record.
	DefaultSessionTTL = 8 * time.Hour

	// RedisPrefixSession namespaces session records in a shared Redis.
	RedisPrefixSession = "sess:"
)

// # Routes

const (
	PathLogin         = "/login"
	PathHome          = "/home"
	PathLogout        = "/logout"
	PathSessionStatus = "/session/status"

	// QueryError is the query parameter used to hint login failures.
	QueryError = "error"

	// ErrorHintLogin is the generic login failure hint. It never says why.
	ErrorHintLogin = "1"

	// ErrorHintSession marks a forced logout caused by a newer login.
	ErrorHintSession = "session"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderOrigin        = "Origin"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)
