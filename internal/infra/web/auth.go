package web

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var errNoIdentity = errors.New("missing or invalid identity token")

// AuthManager derives the requesting account id from a bearer JWT issued by
// the platform's session service (HS256, subject = account id). In dev mode
// an ?account_id= query parameter is accepted as a fallback.
type AuthManager struct {
	secret      []byte
	devFallback bool
}

func NewAuthManager(secret string, devFallback bool) *AuthManager {
	return &AuthManager{secret: []byte(secret), devFallback: devFallback}
}

// AccountID extracts the caller's account id or fails with errNoIdentity.
func (a *AuthManager) AccountID(r *http.Request) (string, error) {
	if hdr := r.Header.Get("Authorization"); hdr != "" {
		if strings.HasPrefix(strings.ToLower(hdr), "bearer ") {
			return a.parse(strings.TrimSpace(hdr[7:]))
		}
	}
	if a.devFallback {
		if id := r.URL.Query().Get("account_id"); id != "" {
			return id, nil
		}
	}
	return "", errNoIdentity
}

func (a *AuthManager) parse(tok string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	tkn, err := jwt.ParseWithClaims(tok, claims, func(t *jwt.Token) (any, error) {
		return a.secret, nil
	})
	if err != nil || !tkn.Valid || claims.Subject == "" {
		return "", errNoIdentity
	}
	return claims.Subject, nil
}

// Mint signs a short-lived token for the account. Used by dev tooling and
// tests; production tokens come from the session service.
func (a *AuthManager) Mint(accountID string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   accountID,
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}
