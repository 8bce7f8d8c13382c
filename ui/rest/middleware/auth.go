package middleware

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/security"
	"github.com/movi-app/movi/pkg/utils"
)

const identityKey = "identity"

// Authenticator resolves an Authorization header to the caller's identity.
type Authenticator interface {
	Authenticate(header string) (security.Identity, error)
}

// Authenticated rejects requests without a valid bearer token and stores the
// caller's identity for the handlers behind it.
func Authenticated(tokens Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		identity, err := tokens.Authenticate(c.Get(fiber.HeaderAuthorization))
		if err != nil {
			status, code := fiber.StatusForbidden, "INVALID_CREDENTIAL"
			var generic pkgError.GenericError
			if errors.As(err, &generic) {
				status, code = generic.StatusCode(), generic.ErrCode()
			}
			return c.Status(status).JSON(utils.ResponseData{
				Status:  status,
				Code:    code,
				Message: err.Error(),
			})
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// CurrentIdentity returns the identity stored by Authenticated.
func CurrentIdentity(c *fiber.Ctx) (security.Identity, bool) {
	identity, ok := c.Locals(identityKey).(security.Identity)
	return identity, ok
}
