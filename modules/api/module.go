package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Bart3kD/task-manager/modules/activity"
	"github.com/Bart3kD/task-manager/modules/auth"
	"github.com/Bart3kD/task-manager/modules/task"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// APIModule serves the task API over HTTP. It reaches the other modules
// only through their ports.
type APIModule struct {
	port         int
	loc          *time.Location
	app          *fiber.App
	taskPort     task.TaskPort
	authPort     auth.AuthPort
	activityPort activity.ActivityPort
	rateLimit    fiber.Handler
	logger       types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*APIModule)(nil)
var _ mono.DependentModule = (*APIModule)(nil)
var _ mono.HealthCheckableModule = (*APIModule)(nil)

// NewModule creates the API module. rateLimit guards every /api/v1 route;
// filter dates are read in loc.
func NewModule(port int, loc *time.Location, rateLimit fiber.Handler, logger types.Logger) *APIModule {
	if rateLimit == nil {
		rateLimit = func(c *fiber.Ctx) error { return c.Next() }
	}
	return &APIModule{
		port:      port,
		loc:       loc,
		rateLimit: rateLimit,
		logger:    logger,
	}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *APIModule) Dependencies() []string {
	return []string{"auth", "task", "activity"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *APIModule) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "auth":
		m.authPort = auth.NewAuthAdapter(container)
	case "task":
		m.taskPort = task.NewTaskAdapter(container)
	case "activity":
		m.activityPort = activity.NewActivityAdapter(container)
	}
}

// newApp builds the fiber app with middleware and routes.
func (m *APIModule) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Task Manager",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(cors.New(cors.Config{
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	m.setupRoutes(app)
	return app
}

// Start starts the HTTP server.
func (m *APIModule) Start(_ context.Context) error {
	switch {
	case m.taskPort == nil:
		return fmt.Errorf("taskPort dependency not set")
	case m.authPort == nil:
		return fmt.Errorf("authPort dependency not set")
	case m.activityPort == nil:
		return fmt.Errorf("activityPort dependency not set")
	}

	m.app = m.newApp()

	go func() {
		addr := fmt.Sprintf(":%d", m.port)
		if err := m.app.Listen(addr); err != nil {
			m.logger.Error("HTTP server error", "error", err.Error())
		}
	}()

	m.logger.Info("HTTP server started", "port", m.port)
	return nil
}

// Stop shuts down the HTTP server.
func (m *APIModule) Stop(ctx context.Context) error {
	if m.app == nil {
		return nil
	}
	m.logger.Info("Shutting down HTTP server")
	return m.app.ShutdownWithContext(ctx)
}

// Health returns the health status of the module.
func (m *APIModule) Health(_ context.Context) mono.HealthStatus {
	if m.app == nil {
		return mono.HealthStatus{Healthy: false, Message: "server not started"}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"port": m.port},
	}
}

// errorHandler handles errors that escape the route handlers.
func (m *APIModule) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	} else {
		m.logger.Error("Unhandled error", "path", c.Path(), "error", err.Error())
	}

	return c.Status(code).JSON(ErrorResponse{
		Error:   "server_error",
		Message: message,
	})
}
