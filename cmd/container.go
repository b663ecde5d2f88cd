// cmd/container.go
//
// Composition root for the server. Owns the optional redis client, the
// realtime hub and the task module.
package main

import (
	"context"
	"time"

	"github.com/Abraxas-365/taskboard/pkg/config"
	"github.com/Abraxas-365/taskboard/pkg/kernel"
	"github.com/Abraxas-365/taskboard/pkg/logx"
	"github.com/Abraxas-365/taskboard/pkg/realtime"
	"github.com/Abraxas-365/taskboard/pkg/realtime/realtimeredis"
	"github.com/Abraxas-365/taskboard/pkg/task"
	"github.com/Abraxas-365/taskboard/pkg/task/taskapi"
	"github.com/Abraxas-365/taskboard/pkg/task/taskinfra"
	"github.com/Abraxas-365/taskboard/pkg/task/tasksrv"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// Container holds shared infrastructure and the composed modules.
type Container struct {
	Config *config.Config

	// Infrastructure
	Redis  *redis.Client
	Broker realtime.Broker
	Hub    *realtime.Hub

	// Task module
	TaskRepo     task.Repository
	TaskService  *tasksrv.TaskService
	TaskHandlers *taskapi.TaskHandlers
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	logx.Info("🔧 Initializing application container...")

	c := &Container{Config: cfg}

	if err := c.initInfrastructure(ctx); err != nil {
		return nil, err
	}
	c.initModules()

	logx.Info("✅ Application container initialized")
	return c, nil
}

// ---------------------------------------------------------------------------
// Infrastructure: redis and the realtime hub
// ---------------------------------------------------------------------------

func (c *Container) initInfrastructure(ctx context.Context) error {
	logx.Info("🏗️ Initializing infrastructure...")

	if c.Config.Redis.Enabled {
		c.Redis = redis.NewClient(&redis.Options{
			Addr:     c.Config.Redis.Address(),
			Password: c.Config.Redis.Password,
			DB:       c.Config.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := c.Redis.Ping(pingCtx).Err(); err != nil {
			_ = c.Redis.Close()
			return err
		}
		c.Broker = realtimeredis.NewBroker(c.Redis)
		logx.Infof("  ✅ Redis connected (%s)", c.Config.Redis.Address())
	} else {
		c.Broker = realtime.NewLocalBroker()
		logx.Info("  ✅ Using in-process realtime broker")
	}

	c.Hub = realtime.NewHub(c.Broker, realtime.HubConfig{
		WriteTimeout: c.Config.Realtime.WriteTimeout,
		ReadLimit:    c.Config.Realtime.ReadLimit,
	})
	if err := c.Hub.Start(ctx); err != nil {
		return err
	}
	logx.WithField("node", c.Hub.Node()).Info("  ✅ Realtime hub started")
	return nil
}

// ---------------------------------------------------------------------------
// Modules
// ---------------------------------------------------------------------------

func (c *Container) initModules() {
	c.TaskRepo = taskinfra.NewMemoryRepository()
	c.TaskService = tasksrv.NewTaskService(c.TaskRepo)
	c.TaskHandlers = taskapi.NewTaskHandlers(c.TaskService)
	logx.Info("  ✅ Task module ready")
}

// Seed fills the store with demo tasks for owner.
func (c *Container) Seed(ctx context.Context, owner kernel.UserID) error {
	return c.TaskService.Seed(ctx, owner)
}

// Health reports the state of the infrastructure.
func (c *Container) Health(ctx context.Context) fiber.Map {
	health := fiber.Map{"status": "healthy"}
	if c.Redis == nil {
		health["redis"] = "disabled"
		return health
	}
	if err := c.Redis.Ping(ctx).Err(); err != nil {
		health["redis"] = "unhealthy"
		health["redis_error"] = err.Error()
		health["status"] = "degraded"
	} else {
		health["redis"] = "healthy"
	}
	return health
}

// Cleanup releases infrastructure in reverse order.
func (c *Container) Cleanup() {
	logx.Info("🧹 Cleaning up resources...")

	if c.Hub != nil {
		if err := c.Hub.Close(); err != nil {
			logx.Errorf("Error closing realtime hub: %v", err)
		}
	}
	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logx.Errorf("Error closing Redis: %v", err)
		}
	}

	logx.Info("✅ Cleanup complete")
}
