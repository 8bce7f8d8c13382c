package rest

import (
	"time"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/movi-app/movi/core/config"
	"github.com/movi-app/movi/pkg/utils"
)

// NewApp builds the fiber app shared by the server and its tests. Path params
// arrive decoded, so "/top-rated-genre/Science%20Fiction" yields "Science Fiction".
func NewApp() *fiber.App {
	return fiber.New(fiber.Config{
		AppName:      "movi",
		ServerHeader: "Hidden",
		UnescapePath: true,
		JSONEncoder:  json.Marshal,
		JSONDecoder:  json.Unmarshal,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	})
}

type App struct {
	Version string
}

// InitRestApp registers the liveness text on app and the version endpoint on api.
func InitRestApp(app fiber.Router, api fiber.Router, cfg config.AppConfig) App {
	handler := App{Version: cfg.Version}
	app.Get("/", handler.Alive)
	api.Get("/app/version", handler.GetVersion)
	return handler
}

func (handler *App) Alive(c *fiber.Ctx) error {
	return c.SendString("Backend is running and healthy!")
}

func (handler *App) GetVersion(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  fiber.StatusOK,
		Code:    "SUCCESS",
		Message: "Version retrieved",
		Results: fiber.Map{"version": handler.Version},
	})
}

// InitRestNotFound must be registered last on the API group so unknown API paths
// answer in JSON instead of falling through.
func InitRestNotFound(api fiber.Router) {
	api.All("/*", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(utils.ResponseData{
			Status:  fiber.StatusNotFound,
			Code:    "NOT_FOUND_ERROR",
			Message: "API endpoint not found: " + c.Path(),
		})
	})
}
