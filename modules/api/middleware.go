package api

import (
	"strings"

	"github.com/Bart3kD/task-manager/domain/user"
	"github.com/Bart3kD/task-manager/modules/auth"
	"github.com/gofiber/fiber/v2"
)

// AuthMiddleware verifies the bearer token and places the caller's session
// in the request's user context.
func AuthMiddleware(authPort auth.AuthPort) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return unauthorized(c, "Authorization header is required")
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok {
			return unauthorized(c, "Invalid authorization header format. Use: Bearer <token>")
		}
		token = strings.TrimSpace(token)
		if token == "" {
			return unauthorized(c, "Token is required")
		}

		claims, err := authPort.ValidateToken(c.UserContext(), token)
		if err != nil {
			return unauthorized(c, "Invalid or expired token")
		}

		c.SetUserContext(user.WithSession(c.UserContext(), user.NewSession(claims)))
		return c.Next()
	}
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(ErrorResponse{
		Error:   "unauthorized",
		Message: message,
	})
}

// session returns the caller's session set by AuthMiddleware.
func session(c *fiber.Ctx) user.Session {
	return user.SessionFromContext(c.UserContext())
}
