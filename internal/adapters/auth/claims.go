package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrOpaqueToken = errors.New("token is not a jwt")

// Claims is what the console reads out of an operator token. The signature
// is not checked; the server remains the only judge of validity.
type Claims struct {
	Subject   string
	Name      string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

type operatorClaims struct {
	jwt.RegisteredClaims
	ID    string `json:"id,omitempty"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

func InspectToken(token string) (Claims, error) {
	if strings.Count(token, ".") != 2 {
		return Claims{}, ErrOpaqueToken
	}

	parsed := &operatorClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, parsed); err != nil {
		return Claims{}, fmt.Errorf("parse token claims: %w", err)
	}

	claims := Claims{
		Subject: parsed.Subject,
		Name:    parsed.Name,
		Email:   parsed.Email,
	}
	if claims.Subject == "" {
		claims.Subject = parsed.ID
	}
	if parsed.IssuedAt != nil {
		claims.IssuedAt = parsed.IssuedAt.Time.UTC()
	}
	if parsed.ExpiresAt != nil {
		claims.ExpiresAt = parsed.ExpiresAt.Time.UTC()
	}
	return claims, nil
}
