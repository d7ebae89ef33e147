// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

// GenerateSecureToken returns length random bytes encoded as unpadded base64url.
func GenerateSecureToken(length int) (string, error) {
	buffer, err := randomBytes(length)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buffer), nil
}

// GenerateHexToken returns length random bytes encoded as lower-case hex.
func GenerateHexToken(length int) (string, error) {
	buffer, err := randomBytes(length)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(buffer), nil
}

func randomBytes(length int) ([]byte, error) {
	if length <= 0 {
		return nil, fmt.Errorf("sec: token length must be positive, got %d", length)
	}
	buffer := make([]byte, length)
	if _, err := rand.Read(buffer); err != nil {
		return nil, fmt.Errorf("sec: entropy source failed: %w", err)
	}
	return buffer, nil
}
