// Package token issues and verifies signed, time-bound bearer tokens.
// Tokens are self-contained: verification needs only the signing secret,
// never a server-side token lookup.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TTL is the fixed token lifetime. There is no refresh mechanism; clients
// re-authenticate after expiry.
const TTL = time.Hour

// ErrInvalidToken is returned when a token is malformed, has a bad
// signature, or is expired.
var ErrInvalidToken = errors.New("invalid or expired token")

// Claims embeds the registered JWT claims plus the subject account id.
type Claims struct {
	jwt.RegisteredClaims
	UserID string `json:"uid"`
}

// Service signs and verifies HS256 tokens with a shared secret.
type Service struct {
	secret []byte
	now    func() time.Time
}

// NewService creates a token Service signing with the given secret.
func NewService(secret string) *Service {
	return &Service{secret: []byte(secret), now: time.Now}
}

// Issue signs a token for the given subject, expiring one hour from now.
func (s *Service) Issue(subjectID string) (string, error) {
	now := s.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
		UserID: subjectID,
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify validates the token's signature and expiry and returns the
// embedded subject id. All failure modes collapse into ErrInvalidToken.
func (s *Service) Verify(tokenString string) (string, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return s.secret, nil
	}, jwt.WithTimeFunc(func() time.Time { return s.now() }))
	if err != nil || !tok.Valid {
		return "", ErrInvalidToken
	}
	if claims.UserID == "" {
		return "", ErrInvalidToken
	}
	return claims.UserID, nil
}
