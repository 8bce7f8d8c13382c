// Package security issues and validates bearer credentials and hashes passwords.
package security

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pkgError "github.com/movi-app/movi/pkg/error"
)

const (
	// DefaultTokenTTL is how long an issued credential stays valid.
	DefaultTokenTTL = 30 * 24 * time.Hour

	tokenIssuer = "movi"
	bearer      = "bearer"
)

// Identity is what a valid credential asserts about its holder.
type Identity struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
}

// Claims is the signed payload of a credential.
type Claims struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// TokenAuthority signs credentials with a shared HMAC secret.
// There is no revocation: a credential is valid until it expires.
type TokenAuthority struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenAuthority(secret string, ttl time.Duration) *TokenAuthority {
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}
	return &TokenAuthority{secret: []byte(secret), ttl: ttl, now: time.Now}
}

// Issue signs a credential for identity.
func (a *TokenAuthority) Issue(identity Identity) (string, error) {
	now := a.now()
	claims := &Claims{
		ID:       identity.ID,
		Username: identity.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(identity.ID, 10),
			Issuer:    tokenIssuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(a.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(a.secret)
}

// Verify parses a raw credential. Every failure is an InvalidCredentialError.
func (a *TokenAuthority) Verify(raw string) (Identity, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(*jwt.Token) (interface{}, error) {
		return a.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Identity{}, pkgError.InvalidCredentialError("token expired")
		}
		return Identity{}, pkgError.InvalidCredentialError("invalid token")
	}
	if !token.Valid || claims.ID == 0 {
		return Identity{}, pkgError.InvalidCredentialError("invalid token")
	}

	return Identity{ID: claims.ID, Username: claims.Username}, nil
}

// Authenticate validates an Authorization header value of the form "Bearer <token>".
// A missing token is an UnauthenticatedError.
func (a *TokenAuthority) Authenticate(header string) (Identity, error) {
	raw := extractBearer(header)
	if raw == "" {
		return Identity{}, pkgError.UnauthenticatedError("access denied, no token provided")
	}
	return a.Verify(raw)
}

func extractBearer(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, bearer) {
		return ""
	}
	return strings.TrimSpace(token)
}
