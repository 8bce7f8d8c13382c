package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/security"
	"github.com/movi-app/movi/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authenticatorFunc func(header string) (security.Identity, error)

func (f authenticatorFunc) Authenticate(header string) (security.Identity, error) {
	return f(header)
}

func newAuthApp(tokens Authenticator) *fiber.App {
	app := fiber.New()
	app.Get("/me", Authenticated(tokens), func(c *fiber.Ctx) error {
		id, _ := CurrentIdentity(c)
		return c.JSON(fiber.Map{"id": id.ID})
	})
	return app
}

func get(t *testing.T, app *fiber.App, auth string) (int, utils.ResponseData) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	if auth != "" {
		req.Header.Set(fiber.HeaderAuthorization, auth)
	}
	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	var body utils.ResponseData
	_ = json.Unmarshal(raw, &body)
	return resp.StatusCode, body
}

func TestAuthenticated_TokenAuthority(t *testing.T) {
	tokens := security.NewTokenAuthority("test-secret", time.Hour)
	app := newAuthApp(tokens)

	status, body := get(t, app, "")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", body.Code)

	status, body = get(t, app, "Bearer garbage")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "INVALID_CREDENTIAL", body.Code)

	token, err := tokens.Issue(security.Identity{ID: 3, Username: "alice"})
	require.NoError(t, err)
	status, _ = get(t, app, "Bearer "+token)
	assert.Equal(t, http.StatusOK, status)
}

func TestAuthenticated_WrappedErrorsKeepTheirStatus(t *testing.T) {
	app := newAuthApp(authenticatorFunc(func(string) (security.Identity, error) {
		return security.Identity{}, fmt.Errorf("session lookup: %w", pkgError.UnauthenticatedError("access denied, no token provided"))
	}))

	status, body := get(t, app, "Bearer x")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "UNAUTHENTICATED", body.Code)
	assert.Contains(t, body.Message, "access denied")
}

func TestAuthenticated_UnclassifiedErrorIsForbidden(t *testing.T) {
	app := newAuthApp(authenticatorFunc(func(string) (security.Identity, error) {
		return security.Identity{}, errors.New("signature mismatch")
	}))

	status, body := get(t, app, "Bearer x")
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "INVALID_CREDENTIAL", body.Code)
}
