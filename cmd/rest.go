package cmd

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/movi-app/movi/core/config"
	"github.com/movi-app/movi/ui/rest"
	"github.com/movi-app/movi/ui/rest/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const healthCheckInterval = time.Minute

var restCmd = &cobra.Command{
	Use:   "rest",
	Short: "Serve the movie API over http",
	Long:  `Start the JSON API consumed by the movi frontend.`,
	Run:   restServer,
}

func init() {
	rootCmd.AddCommand(restCmd)
}

func restServer(_ *cobra.Command, _ []string) {
	cfg := config.Global

	deps, err := newApplication(cfg)
	if err != nil {
		logrus.Fatalf("[REST] failed to initialize: %v", err)
	}

	app := rest.NewApp()

	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(cfg.App.CorsAllowedOrigins, ", "),
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.Recovery())
	app.Use(helmet.New(helmet.Config{
		XSSProtection:      "1; mode=block",
		ContentTypeNosniff: "nosniff",
		XFrameOptions:      "DENY",
		HSTSMaxAge:         31536000,
		ReferrerPolicy:     "strict-origin-when-cross-origin",
	}))
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.App.RateLimitPerMinute,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
	}))

	if cfg.App.Debug {
		app.Use(logger.New())
	}

	apiGroup := app.Group(cfg.App.BasePath + "/api")
	authenticated := middleware.Authenticated(deps.tokens)

	rest.InitRestApp(app, apiGroup, cfg.App)
	rest.InitRestAuth(apiGroup, deps.authUsecase)
	rest.InitRestReview(apiGroup, deps.reviewUsecase, authenticated)
	rest.InitRestMovie(apiGroup, deps.movieUsecase, authenticated)
	rest.InitRestUser(apiGroup, deps.userUsecase, authenticated)
	rest.InitRestHealth(apiGroup, deps.healthUsecase)
	apiGroup.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(deps.registry, promhttp.HandlerOpts{})))

	// Must stay last: answers unknown /api paths.
	rest.InitRestNotFound(apiGroup)

	deps.healthUsecase.StartPeriodicChecks(deps.ctx, healthCheckInterval)

	// Graceful shutdown handler
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		logrus.Info("[REST] Reception of termination signal, shutting down gracefully...")
		if err := app.Shutdown(); err != nil {
			logrus.Errorf("[REST] Error during Fiber shutdown: %v", err)
		}
	}()

	if err := app.Listen(":" + cfg.App.Port); err != nil {
		logrus.Errorf("[REST] Failed to start: %v", err)
	}
	deps.Close()
}
