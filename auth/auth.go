// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidLoginToken = errors.New("invalid login token")

// GenerateSessionToken creates a random secure token for a session.
func GenerateSessionToken() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// GenerateLoginToken creates an HMAC-based login token for an email
// address. This is deterministic and verifiable, so the token carried
// by a magic link can be checked without storing it.
func GenerateLoginToken(email, salt string) string {
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(email))
	sum := h.Sum(nil)
	return strings.TrimRight(base64.URLEncoding.EncodeToString(sum), "=")
}

// ValidateLoginToken checks that the provided token is valid for the email.
func ValidateLoginToken(email, token, salt string) error {
	expected := GenerateLoginToken(email, salt)
	if !hmac.Equal([]byte(token), []byte(expected)) {
		return ErrInvalidLoginToken
	}
	return nil
}
