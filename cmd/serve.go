package main

import (
	"os/signal"
	"syscall"

	"github.com/Abraxas-365/taskboard/pkg/errx"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the task API and the realtime hub",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntP("port", "p", 0, "listen port (overrides server.port)")
	serveCmd.Flags().Bool("redis", false, "share rooms across nodes through redis")
	serveCmd.Flags().String("seed", "", "create demo tasks for this owner on startup")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("redis") {
		cfg.Redis.Enabled, _ = cmd.Flags().GetBool("redis")
	}

	logx.Info("🚀 Starting Taskboard server...")

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	container, err := NewContainer(ctx, cfg)
	if err != nil {
		logx.WithError(err).Error("❌ Failed to initialize container")
		return err
	}
	defer container.Cleanup()

	seedOwner, _ := cmd.Flags().GetString("seed")
	if seedOwner == "" && cfg.Server.Seed {
		seedOwner = cfg.Client.Owner
	}
	if seedOwner != "" {
		if err := container.Seed(ctx, kernel.NewUserID(seedOwner)); err != nil {
			return err
		}
		logx.Infof("🌱 Seeded demo tasks for %q", seedOwner)
	}

	app := newApp(container)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logx.Infof("🌐 Listening on %s", cfg.Server.Address())
		return app.Listen(cfg.Server.Address())
	})
	g.Go(func() error {
		<-gctx.Done()
		logx.Info("⏳ Shutting down server...")
		return app.ShutdownWithTimeout(cfg.Server.ShutdownTimeout)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logx.WithError(err).Error("❌ Server stopped")
		return err
	}
	logx.Info("👋 Server stopped")
	return nil
}

// newApp builds the fiber app with the global middleware and every route.
func newApp(container *Container) *fiber.App {
	cfg := container.Config.Server

	app := fiber.New(fiber.Config{
		AppName:               "Taskboard",
		DisableStartupMessage: true,
		ErrorHandler:          errx.FiberErrorHandler,
		ReadTimeout:           cfg.ReadTimeout,
		WriteTimeout:          cfg.WriteTimeout,
	})

	app.Use(recover.New(recover.Config{
		EnableStackTrace: true,
	}))

	app.Use(requestid.New(requestid.Config{
		Header:    fiber.HeaderXRequestID,
		Generator: uuid.NewString,
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSOrigins,
		AllowHeaders:  "Origin, Content-Type, Accept, X-Request-ID",
		AllowMethods:  "GET, POST, PUT, DELETE, PATCH, HEAD, OPTIONS",
		ExposeHeaders: "X-Request-ID",
	}))

	app.Use(logger.New(logger.Config{
		Format:     "${time} | ${status} | ${latency} | ${method} ${path} | ${ip} | ${respHeader:X-Request-ID}\n",
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "Local",
	}))

	app.Get("/health", healthCheckHandler(container))
	app.Get("/", infoHandler)

	container.TaskHandlers.RegisterRoutes(app)
	logx.Info("✓ Task routes registered")

	container.Hub.RegisterRoutes(app)
	logx.Info("✓ Realtime routes registered")

	app.Use(notFoundHandler)

	return app
}

func healthCheckHandler(container *Container) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := container.Health(c.UserContext())
		health["node"] = container.Hub.Node()

		status := fiber.StatusOK
		if health["status"] == "degraded" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

func infoHandler(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service":     "Taskboard",
		"description": "Task checklists with debounced sync and a chat room",
		"endpoints": fiber.Map{
			"health":    "GET /health",
			"list":      "GET /api/v1/users/:owner/tasks",
			"create":    "POST /api/v1/tasks",
			"get":       "GET /api/v1/tasks/:id",
			"checklist": "PUT /api/v1/tasks/:id/checklist",
			"realtime":  "GET /ws/:room",
		},
		"events": []string{"chat", "syncTask"},
	})
}

func notFoundHandler(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error":      "Route not found",
		"code":       "NOT_FOUND",
		"path":       c.Path(),
		"method":     c.Method(),
		"request_id": c.Locals("requestid"),
	})
}
