package rest

import (
	"github.com/gofiber/fiber/v2"
	domainAuth "github.com/movi-app/movi/domains/auth"
	pkgError "github.com/movi-app/movi/pkg/error"
	"github.com/movi-app/movi/pkg/utils"
)

type Auth struct {
	Service domainAuth.IAuthUsecase
}

func InitRestAuth(app fiber.Router, service domainAuth.IAuthUsecase) Auth {
	rest := Auth{Service: service}
	app.Post("/auth/register", rest.Register)
	app.Post("/auth/login", rest.Login)
	return rest
}

func (handler *Auth) Register(c *fiber.Ctx) error {
	var request domainAuth.RegisterRequest
	if err := c.BodyParser(&request); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError("invalid request body"))
	}

	user, err := handler.Service.Register(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.Status(fiber.StatusCreated).JSON(utils.ResponseData{
		Status:  fiber.StatusCreated,
		Code:    "SUCCESS",
		Message: "User registered successfully",
		Results: user,
	})
}

func (handler *Auth) Login(c *fiber.Ctx) error {
	var request domainAuth.LoginRequest
	if err := c.BodyParser(&request); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError("invalid request body"))
	}

	response, err := handler.Service.Login(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Login successful",
		Results: response,
	})
}
