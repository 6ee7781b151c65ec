package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrTokenMissing is returned when no token was supplied at all
	ErrTokenMissing = errors.New("token missing")
	// ErrTokenExpired is returned when the token is past its expiry
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenInvalid is returned for bad signatures and malformed payloads
	ErrTokenInvalid = errors.New("token invalid")
)

// Claims are the assertions carried by a session token
type Claims struct {
	UserID int64  `json:"user_id"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// TokenService issues and verifies signed, time-limited session tokens. The
// signing key and validity window are process-wide configuration, immutable
// after construction. Verification has no shared mutable state and no I/O.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenService creates a token service signing with the given secret.
// Tokens are valid for ttl from issuance.
func NewTokenService(secret []byte, ttl time.Duration) *TokenService {
	return &TokenService{
		secret: secret,
		ttl:    ttl,
	}
}

// TTL returns the configured validity window. This is also the worst-case
// time a role change takes to reach already-issued tokens.
func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue produces a signed token asserting the user's identity and role,
// expiring after the configured window.
func (s *TokenService) Issue(userID int64, role Role) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(userID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature integrity and expiry and returns the asserted
// identity. It distinguishes ErrTokenMissing, ErrTokenExpired, and
// ErrTokenInvalid; callers decide how much of that to expose.
func (s *TokenService) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrTokenMissing
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, ErrTokenExpired
		}
		return Identity{}, ErrTokenInvalid
	}
	if !token.Valid || claims.UserID == 0 {
		return Identity{}, ErrTokenInvalid
	}

	role := Role(claims.Role)
	if !ValidRole(role) {
		return Identity{}, ErrTokenInvalid
	}

	return Identity{
		UserID: claims.UserID,
		Role:   role,
	}, nil
}
