package rest

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	domainMovie "github.com/movi-app/movi/domains/movie"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/security"
	"github.com/movi-app/movi/pkg/utils"
	"github.com/movi-app/movi/ui/rest/middleware"
	"github.com/movi-app/movi/validations"
)

func int64Param(c *fiber.Ctx, name string) int64 {
	v, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || v <= 0 {
		utils.PanicIfNeeded(pkgError.ValidationError(name + " must be a positive integer"))
	}
	return v
}

// popularLimit reads ?limit, defaulting when it is absent. Anything present must
// be an integer within the popular list bounds.
func popularLimit(c *fiber.Ctx) int {
	raw := c.Query("limit")
	if raw == "" {
		return domainMovie.DefaultPopularLimit
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError("limit must be an integer"))
	}
	utils.PanicIfNeeded(validations.ValidatePopularLimit(c.UserContext(), limit))
	return limit
}

// csvQuery splits a comma separated query value, dropping blanks.
func csvQuery(c *fiber.Ctx, name string) []string {
	var out []string
	for _, part := range strings.Split(c.Query(name), ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func identity(c *fiber.Ctx) security.Identity {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		utils.PanicIfNeeded(pkgError.UnauthenticatedError("access denied, no token provided"))
	}
	return id
}
