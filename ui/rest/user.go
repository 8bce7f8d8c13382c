package rest

import (
	"github.com/gofiber/fiber/v2"
	domainUser "github.com/movi-app/movi/domains/user"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/utils"
)

type User struct {
	Service domainUser.IUserUsecase
}

func InitRestUser(app fiber.Router, service domainUser.IUserUsecase, authenticated fiber.Handler) User {
	rest := User{Service: service}
	app.Post("/users/watchlist/toggle", authenticated, rest.ToggleWatchlist)
	app.Get("/users/watchlist", authenticated, rest.Watchlist)
	app.Get("/users/:username/profile", rest.Profile)
	return rest
}

func (handler *User) ToggleWatchlist(c *fiber.Ctx) error {
	var request domainUser.ToggleWatchlistRequest
	if err := c.BodyParser(&request); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError("movieId is required"))
	}

	toggle, err := handler.Service.ToggleWatchlist(c.UserContext(), identity(c).ID, request)
	utils.PanicIfNeeded(err)

	message := "Movie removed from watchlist"
	if toggle.Added {
		message = "Movie added to watchlist"
	}
	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: message,
		Results: toggle,
	})
}

func (handler *User) Watchlist(c *fiber.Ctx) error {
	list, err := handler.Service.Watchlist(c.UserContext(), identity(c).ID)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Watchlist retrieved",
		Results: fiber.Map{"watchlist": list},
	})
}

func (handler *User) Profile(c *fiber.Ctx) error {
	profile, err := handler.Service.Profile(c.UserContext(), c.Params("username"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Profile retrieved",
		Results: profile,
	})
}
