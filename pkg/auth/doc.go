// Package auth provides credential management, password hashing, and session
// tokens for the stockroom server.
//
// # Overview
//
// Four pieces compose the authentication layer:
//
//   - Hasher: bcrypt password hashing and constant-time verification.
//   - TokenService: HS256 JWT issuance and verification. Tokens carry
//     user_id and role, expire after a fixed window, and are never stored or
//     revoked server-side.
//   - CredentialStore: user records over the storage gateway. Owns the
//     authoritative username and role; the digest never leaves this package.
//   - Service: the signup and login flows tying the three together.
//
// A token carries a copy of the role at issuance time. A role change does not
// invalidate tokens already in the wild; it takes effect when they expire,
// which is the configured token TTL at the latest.
//
// Request-side enforcement (Bearer extraction, role gates) lives in
// pkg/middleware.
package auth
