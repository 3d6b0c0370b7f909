package tokens

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// GenerateOperatorToken creates a signed HS256 token for calling the
// protected refresh endpoint.
func GenerateOperatorToken(secret, subject string, ttl time.Duration) (string, error) {
	if secret == "" {
		return "", errors.New("signing secret is empty")
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":   subject,
		"scope": "refresh",
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	jt := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return jt.SignedString([]byte(secret))
}
