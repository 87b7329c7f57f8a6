package ratelimit

import (
	"fmt"
	"strconv"

	"github.com/Bart3kD/task-manager/domain/user"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
)

// Handler limits requests by the session's user ID, falling back to the
// client IP for anonymous requests. Redis failures let the request through.
func Handler(limiter *SlidingWindowLimiter, logger types.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := "ip:" + c.IP()
		if sess := user.SessionFromContext(c.UserContext()); sess.Authenticated() {
			key = "user:" + sess.UserID
		}

		result, err := limiter.Allow(c.UserContext(), key)
		if err != nil {
			logger.Warn("Rate limit check failed, allowing request", "key", key, "error", err.Error())
			return c.Next()
		}

		c.Set("X-RateLimit-Limit", strconv.Itoa(limiter.config.Requests))
		c.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			return tooManyRequests(c, result)
		}
		return c.Next()
	}
}

func tooManyRequests(c *fiber.Ctx, result *Result) error {
	retryAfter := int(result.RetryAfter.Seconds())
	if retryAfter < 1 {
		retryAfter = 1
	}
	c.Set("Retry-After", strconv.Itoa(retryAfter))

	return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
		"error":       "rate_limited",
		"message":     fmt.Sprintf("Rate limit exceeded. Please retry after %d seconds.", retryAfter),
		"retry_after": retryAfter,
	})
}
