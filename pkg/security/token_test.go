package security

import (
	"encoding/base64"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-0123456789"

func fixedAuthority(at time.Time) *TokenAuthority {
	a := NewTokenAuthority(testSecret, 0)
	a.now = func() time.Time { return at }
	return a
}

func TestTokenAuthority_RoundTrip(t *testing.T) {
	a := NewTokenAuthority(testSecret, time.Hour)
	identities := []Identity{
		{ID: 1, Username: "alice"},
		{ID: 42, Username: "bob_the_reviewer"},
		{ID: 987654321, Username: "ünïcode"},
	}

	for _, want := range identities {
		token, err := a.Issue(want)
		require.NoError(t, err)

		got, err := a.Authenticate("Bearer " + token)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestTokenAuthority_DefaultTTLIsThirtyDays(t *testing.T) {
	issuedAt := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	a := fixedAuthority(issuedAt)

	token, err := a.Issue(Identity{ID: 3, Username: "carol"})
	require.NoError(t, err)

	a.now = func() time.Time { return issuedAt.Add(29 * 24 * time.Hour) }
	_, err = a.Verify(token)
	require.NoError(t, err)

	a.now = func() time.Time { return issuedAt.Add(31 * 24 * time.Hour) }
	_, err = a.Verify(token)
	var invalid pkgError.InvalidCredentialError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "token expired", err.Error())
}

func TestTokenAuthority_MissingCredential(t *testing.T) {
	a := NewTokenAuthority(testSecret, time.Hour)

	for _, header := range []string{"", "   ", "Bearer", "Bearer  ", "Basic dXNlcjpwYXNz"} {
		_, err := a.Authenticate(header)
		var unauth pkgError.UnauthenticatedError
		assert.ErrorAs(t, err, &unauth, "header %q", header)
	}
}

func TestTokenAuthority_TamperedPayload(t *testing.T) {
	a := NewTokenAuthority(testSecret, time.Hour)
	token, err := a.Issue(Identity{ID: 5, Username: "dave"})
	require.NoError(t, err)

	parts := strings.Split(token, ".")
	require.Len(t, parts, 3)
	forged := base64.RawURLEncoding.EncodeToString([]byte(`{"id":1,"username":"admin","exp":4102444800}`))
	tampered := parts[0] + "." + forged + "." + parts[2]

	_, err = a.Authenticate("Bearer " + tampered)
	var invalid pkgError.InvalidCredentialError
	assert.ErrorAs(t, err, &invalid)
}

func TestTokenAuthority_WrongSecret(t *testing.T) {
	other := NewTokenAuthority("another-secret", time.Hour)
	token, err := other.Issue(Identity{ID: 5, Username: "dave"})
	require.NoError(t, err)

	_, err = NewTokenAuthority(testSecret, time.Hour).Verify(token)
	var invalid pkgError.InvalidCredentialError
	assert.ErrorAs(t, err, &invalid)
}

func TestTokenAuthority_RejectsOtherAlgorithms(t *testing.T) {
	claims := &Claims{
		ID:       5,
		Username: "dave",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	none, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	a := NewTokenAuthority(testSecret, time.Hour)
	for _, token := range []string{hs512, none, "not-a-jwt"} {
		_, err := a.Verify(token)
		var invalid pkgError.InvalidCredentialError
		assert.ErrorAs(t, err, &invalid)
	}
}

func TestTokenAuthority_RequiresExpiry(t *testing.T) {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &Claims{ID: 5, Username: "dave"}).SignedString([]byte(testSecret))
	require.NoError(t, err)

	_, err = NewTokenAuthority(testSecret, time.Hour).Verify(token)
	var invalid pkgError.InvalidCredentialError
	assert.ErrorAs(t, err, &invalid)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter22", hash)
	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}
