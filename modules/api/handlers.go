package api

import (
	"errors"

	domain "github.com/Bart3kD/task-manager/domain/task"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *APIModule) setupRoutes(app *fiber.App) {
	app.Get("/health", m.healthHandler)

	api := app.Group("/api/v1", AuthMiddleware(m.authPort), m.rateLimit)

	tasks := api.Group("/tasks")
	tasks.Get("/", m.listTasks)
	tasks.Post("/", m.createTask)
	tasks.Get("/stats", m.taskStats)
	tasks.Get("/:id", m.getTask)
	tasks.Patch("/:id", m.updateTask)
	tasks.Put("/:id", m.updateTask)
	tasks.Post("/:id/toggle", m.toggleTask)
	tasks.Delete("/:id", m.deleteTask)

	api.Get("/activity", m.listActivity)
}

// healthHandler handles GET /health.
func (m *APIModule) healthHandler(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module": "api",
			"port":   m.port,
		},
	})
}

// listTasks handles GET /api/v1/tasks.
func (m *APIModule) listTasks(c *fiber.Ctx) error {
	f, err := domain.ParseFilter(func(key string) string { return c.Query(key) }, m.loc)
	if err != nil {
		return m.writeError(c, err)
	}

	page, err := m.taskPort.List(c.UserContext(), session(c), f)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(page)
}

// createTask handles POST /api/v1/tasks.
func (m *APIModule) createTask(c *fiber.Ctx) error {
	var in domain.CreateInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	t, err := m.taskPort.Create(c.UserContext(), session(c), in)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(t)
}

// getTask handles GET /api/v1/tasks/:id.
func (m *APIModule) getTask(c *fiber.Ctx) error {
	t, err := m.taskPort.Get(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(t)
}

// updateTask handles PATCH and PUT /api/v1/tasks/:id. Both apply only the
// fields present in the body.
func (m *APIModule) updateTask(c *fiber.Ctx) error {
	var in domain.UpdateInput
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}

	t, err := m.taskPort.Update(c.UserContext(), session(c), c.Params("id"), in)
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(t)
}

// toggleTask handles POST /api/v1/tasks/:id/toggle.
func (m *APIModule) toggleTask(c *fiber.Ctx) error {
	t, err := m.taskPort.Toggle(c.UserContext(), session(c), c.Params("id"))
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(t)
}

// deleteTask handles DELETE /api/v1/tasks/:id.
func (m *APIModule) deleteTask(c *fiber.Ctx) error {
	if err := m.taskPort.Delete(c.UserContext(), session(c), c.Params("id")); err != nil {
		return m.writeError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// taskStats handles GET /api/v1/tasks/stats.
func (m *APIModule) taskStats(c *fiber.Ctx) error {
	stats, err := m.taskPort.Stats(c.UserContext(), session(c))
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(stats)
}

// listActivity handles GET /api/v1/activity.
func (m *APIModule) listActivity(c *fiber.Ctx) error {
	entries, err := m.activityPort.Recent(c.UserContext(), session(c), c.QueryInt("limit", 0))
	if err != nil {
		return m.writeError(c, err)
	}
	return c.JSON(ActivityResponse{Entries: entries})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "invalid_request",
		Message: "Invalid request body",
	})
}

// writeError maps task errors onto HTTP statuses.
func (m *APIModule) writeError(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "Validation failed",
			Fields:  verr.Fields,
		})
	case errors.Is(err, domain.ErrUnauthenticated):
		return unauthorized(c, "Authentication required")
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Task not found",
		})
	}

	m.logger.Error("Request failed", "method", c.Method(), "path", c.Path(), "error", err.Error())
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "internal_error",
		Message: "Internal Server Error",
	})
}
