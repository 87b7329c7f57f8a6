package ratelimit

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// RateLimitModule owns the Redis connection behind the API rate limiter.
// With no Redis address it is disabled and its middleware passes every
// request through.
type RateLimitModule struct {
	addr    string
	client  *redis.Client
	limiter *SlidingWindowLimiter
	logger  types.Logger
}

var _ mono.Module = (*RateLimitModule)(nil)
var _ mono.HealthCheckableModule = (*RateLimitModule)(nil)

// NewModule creates a rate limiting module. The client is created eagerly so
// the middleware can be mounted before the module starts.
func NewModule(addr string, config Config, logger types.Logger) *RateLimitModule {
	m := &RateLimitModule{
		addr:   addr,
		logger: logger,
	}
	if addr != "" {
		m.client = redis.NewClient(&redis.Options{Addr: addr})
		m.limiter = NewSlidingWindowLimiter(m.client, config)
	}
	return m
}

func (m *RateLimitModule) Name() string {
	return "ratelimit"
}

// Enabled reports whether requests are limited.
func (m *RateLimitModule) Enabled() bool {
	return m.limiter != nil
}

// Middleware returns the fiber handler to mount on rate limited routes.
func (m *RateLimitModule) Middleware() fiber.Handler {
	if !m.Enabled() {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return Handler(m.limiter, m.logger)
}

// Start verifies the Redis connection.
func (m *RateLimitModule) Start(ctx context.Context) error {
	if !m.Enabled() {
		m.logger.Info("Rate limiting disabled, REDIS_ADDR not set")
		return nil
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to Redis at %s: %w", m.addr, err)
	}

	cfg := m.limiter.Config()
	m.logger.Info("Module started", "redis", m.addr, "requests", cfg.Requests, "window", cfg.Window.String())
	return nil
}

func (m *RateLimitModule) Stop(_ context.Context) error {
	if m.client == nil {
		return nil
	}
	if err := m.client.Close(); err != nil {
		return fmt.Errorf("failed to close Redis client: %w", err)
	}
	m.logger.Info("Redis connection closed")
	return nil
}

func (m *RateLimitModule) Health(ctx context.Context) mono.HealthStatus {
	if !m.Enabled() {
		return mono.HealthStatus{Healthy: true, Message: "disabled"}
	}
	if err := m.client.Ping(ctx).Err(); err != nil {
		return mono.HealthStatus{Healthy: false, Message: fmt.Sprintf("redis ping failed: %v", err)}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{"redis": m.addr},
	}
}
