package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"recipe-manager/core/loader"
	"recipe-manager/core/logger"
	"recipe-manager/core/middleware/metrics"
	"recipe-manager/core/middleware/ratelimit"
	"recipe-manager/core/middleware/rayid"
	"recipe-manager/feature/catalog"
	"recipe-manager/feature/integrity"
	"recipe-manager/feature/recipes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "recipe-manager/docs/swagger"
)

// @title Recipe Manager API
// @version 1.0
// @description API for managing recipes, their ingredients, instructions and media.
// @host localhost:8080
// @BasePath /

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the recipe manager server",
	Long:  `Starts the HTTP server and initializes all enabled features.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap(cmd.Context())
		if err != nil {
			return err
		}
		logg := rt.logger
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		if err := rt.cache.Ping(cmd.Context()); err != nil {
			logg.Warn("Cache unreachable, serving without it", zap.Error(err))
		}

		app := fiber.New(fiber.Config{
			DisableStartupMessage: true,
			BodyLimit:             rt.cfg.Server.BodyLimitBytes,
		})

		mgr := loader.NewManager(logg)
		mgr.Register(recipes.NewFeature(rt.db, rt.media, rt.cache, logg))
		mgr.Register(catalog.NewFeature(rt.db, logg))
		mgr.Register(integrity.NewFeature(rt.db, rt.media, logg))

		// RayID first so every later log line carries it.
		app.Use(rayid.New())
		app.Use(metrics.New())

		app.Use(func(c *fiber.Ctx) error {
			l := logger.WithRayID(logg, c)
			l.Info("Request started",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.String("ip", c.IP()),
			)
			err := c.Next()
			if err != nil {
				l.Error("Request error", zap.Error(err))
			}
			return err
		})

		app.Get("/health", func(c *fiber.Ctx) error {
			return c.JSON(fiber.Map{"status": "ok"})
		})
		app.Get("/metrics", metrics.Handler())
		app.Get("/swagger/*", swagger.HandlerDefault)

		if rt.cfg.Server.RateLimitEnabled() {
			limiter := ratelimit.NewLimiter(rt.cfg.Server.RateLimit, rt.cfg.Server.EffectiveBurst())
			app.Use(ratelimit.New(limiter))
		}

		if err := mgr.LoadAll(app); err != nil {
			return fmt.Errorf("failed to load features: %w", err)
		}

		go func() {
			logg.Info("Starting server", zap.String("port", rt.cfg.Server.Port))
			if err := app.Listen(":" + rt.cfg.Server.Port); err != nil {
				logg.Fatal("Server failed to start", zap.Error(err))
			}
		}()

		c := make(chan os.Signal, 1)
		signal.Notify(c, os.Interrupt, syscall.SIGTERM)
		<-c
		logg.Info("Shutting down server...")
		return app.Shutdown()
	},
}

func init() {
	RootCmd.AddCommand(startCmd)
}
