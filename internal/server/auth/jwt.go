// Package auth implements the stateless credential primitives of the server:
// signed bearer tokens and password hashing. It owns no storage; a token is a
// capability, not a reference into a session table, so sign-out is purely a
// client-side forgetting of the token.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/viktorkr/authapp/internal/common"
)

// TokenIssuer is the "iss" claim stamped on every issued token.
const TokenIssuer = "authapp"

// Claims carries the standard registered claims plus the subject's user id
// and email.
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// GenerateToken issues an HS256-signed token for the given user. Expiry is
// strictly issuedAt + validityDuration; there is no clock-skew leeway.
func GenerateToken(userID, email string, secretKey []byte, validityDuration time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: userID,
		Email:  email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(validityDuration)),
			Issuer:    TokenIssuer,
		},
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// ParseToken verifies the signature and validity window of tokenString and
// returns its claims. The signing method is pinned to HMAC before any claim
// is trusted, so a token crafted with "alg":"none" (or any asymmetric alg)
// is rejected as invalid.
//
// Errors: common.ErrTokenExpired for an expired but otherwise well-formed
// token, common.ErrInvalidToken for everything else.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, common.ErrInvalidToken
		}
		return secretKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, common.ErrTokenExpired
		}
		return nil, common.ErrInvalidToken
	}

	if !token.Valid || claims.UserID == "" {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
