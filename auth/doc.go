// Copyright (c) 2026 bigblind.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides token generation and validation utilities.

# Session Tokens

Session tokens are random 24-byte (192-bit) secrets:

	token, err := auth.GenerateSessionToken()

Tokens are URL-safe base64 encoded and presented by clients in the
X-Session-Token header. Each sign-in (anonymous or verified) gets a
fresh token.

# Login Tokens

Login tokens use HMAC-SHA256 to create deterministic, verifiable
tokens for magic-link sign-in:

	token := auth.GenerateLoginToken(email, salt)
	err := auth.ValidateLoginToken(email, token, salt)

Since the token is deterministic from the email and salt, the link a
player receives by email can be validated without storing anything
server-side.
*/
package auth
