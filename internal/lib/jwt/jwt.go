package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// NewToken issues an identity bearer token for the account. Validity is
// determined purely by signature and expiry; there is no revocation list,
// so rotating the secret is the only way to invalidate issued tokens early.
func NewToken(accountID string, secret []byte, ttl time.Duration) (string, error) {
	now := time.Now()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	return token.SignedString(secret)
}

// ParseToken verifies the signature and expiry and returns the account id
// carried in the subject claim.
func ParseToken(tokenStr string, secret []byte) (string, error) {
	const op = "lib.jwt.ParseToken"

	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%s: unexpected signing method", op)
		}
		return secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	if !token.Valid || claims.Subject == "" {
		return "", ErrInvalidToken
	}

	return claims.Subject, nil
}
