// Package auth issues and verifies the HS256 bearer tokens handed out at
// login.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")
)

// clockSkew tolerated between issuing and verifying hosts.
const clockSkew = time.Minute

type Claims struct {
	UID  string `json:"uid"`
	Role string `json:"role"` // 目前只有 "admin"
	jwt.RegisteredClaims
}

type Tokens struct {
	key    []byte
	issuer string
	ttl    time.Duration
	parser *jwt.Parser
}

func NewTokens(secret, issuer string, ttl time.Duration) *Tokens {
	return &Tokens{
		key:    []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithIssuer(issuer),
			jwt.WithLeeway(clockSkew),
			jwt.WithExpirationRequired(),
		),
	}
}

// Issue signs a token for uid that expires after the configured ttl.
func (t *Tokens) Issue(uid, role string) (string, error) {
	now := time.Now()
	return jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UID:  uid,
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   uid,
			Issuer:    t.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
		},
	}).SignedString(t.key)
}

// Verify checks signature, issuer and expiry. It returns ErrTokenExpired for
// stale tokens and ErrTokenInvalid for everything else.
func (t *Tokens) Verify(raw string) (*Claims, error) {
	var c Claims
	_, err := t.parser.ParseWithClaims(raw, &c, func(*jwt.Token) (any, error) { return t.key, nil })
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	case err != nil:
		return nil, errors.Join(ErrTokenInvalid, err)
	case c.UID == "":
		return nil, ErrTokenInvalid
	}
	return &c, nil
}
