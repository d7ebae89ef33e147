// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives: random token generation and
// the signed cookie that carries a session identifier to the browser.
//
// Nothing in this package knows about users or session records. It only makes
// opaque identifiers unguessable and tamper-evident.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidCookie is returned for tokens with a bad signature, issuer or shape.
	ErrInvalidCookie = errors.New("sec: invalid session cookie")

	// ErrExpiredCookie is returned for well-signed tokens past their expiry.
	ErrExpiredCookie = errors.New("sec: session cookie expired")
)

// SessionClaims is the payload of the session cookie.
//
// Only the opaque session identifier is embedded. Username and session version
// stay server side so a stolen cookie reveals nothing.
type SessionClaims struct {
	jwt.RegisteredClaims

	SessionID string `json:"sid"`
}

// CookieSigner signs and verifies session cookies using HS256.
type CookieSigner struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewCookieSigner creates a [CookieSigner]. The secret must not be empty.
func NewCookieSigner(secret, issuer string) (*CookieSigner, error) {
	if secret == "" {
		return nil, errors.New("sec: cookie secret is required")
	}
	return &CookieSigner{secret: []byte(secret), issuer: issuer, now: time.Now}, nil
}

// Sign wraps sessionID into a signed token valid for timeToLive.
func (signer *CookieSigner) Sign(sessionID string, timeToLive time.Duration) (string, error) {
	currentTime := signer.now()
	claims := SessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    signer.issuer,
			IssuedAt:  jwt.NewNumericDate(currentTime),
			ExpiresAt: jwt.NewNumericDate(currentTime.Add(timeToLive)),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(signer.secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign session cookie: %w", err)
	}

	return signedToken, nil
}

// Verify checks the signature, issuer and expiry of tokenString and returns
// the session identifier it carries.
func (signer *CookieSigner) Verify(tokenString string) (string, error) {
	claims := &SessionClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("sec: unexpected signing method: %v", token.Header["alg"])
		}
		return signer.secret, nil
	},
		jwt.WithIssuer(signer.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(signer.now),
	)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredCookie
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidCookie, err)
	}

	if !token.Valid || claims.SessionID == "" {
		return "", ErrInvalidCookie
	}

	return claims.SessionID, nil
}
