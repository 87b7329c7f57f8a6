package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// AuthModule verifies access tokens issued by the identity provider.
// Accounts live with the provider, so the module keeps no state of its own.
type AuthModule struct {
	config JWTConfig
	jwt    *JWTManager
	logger types.Logger
}

// Compile-time interface checks.
var _ mono.Module = (*AuthModule)(nil)
var _ mono.ServiceProviderModule = (*AuthModule)(nil)
var _ mono.HealthCheckableModule = (*AuthModule)(nil)

// NewModule creates a new AuthModule.
func NewModule(config JWTConfig, logger types.Logger) *AuthModule {
	return &AuthModule{
		config: config,
		jwt:    NewJWTManager(config),
		logger: logger,
	}
}

// Name returns the module name.
func (m *AuthModule) Name() string {
	return "auth"
}

// Manager exposes the token manager for the development token helper.
func (m *AuthModule) Manager() *JWTManager {
	return m.jwt
}

func (m *AuthModule) Start(_ context.Context) error {
	if m.config.SecretKey == DefaultJWTConfig().SecretKey {
		m.logger.Warn("Using development JWT secret, set JWT_SECRET in production")
	}
	m.logger.Info("Module started", "issuer", m.config.Issuer, "audience", m.config.Audience)
	return nil
}

func (m *AuthModule) Stop(_ context.Context) error {
	m.logger.Info("Module stopped")
	return nil
}

// Health returns the health status of the module.
func (m *AuthModule) Health(_ context.Context) mono.HealthStatus {
	if m.config.SecretKey == "" {
		return mono.HealthStatus{
			Healthy: false,
			Message: "signing secret not configured",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"algorithm": "HS256",
		},
	}
}

// RegisterServices registers request-reply services in the service container.
func (m *AuthModule) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container,
		serviceValidateToken,
		json.Unmarshal,
		json.Marshal,
		m.handleValidateToken,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", serviceValidateToken, err)
	}

	m.logger.Info("Registered services", "services", serviceValidateToken)
	return nil
}

// handleValidateToken reports validation failures in the response, not as
// a transport error.
func (m *AuthModule) handleValidateToken(_ context.Context, req ValidateTokenRequest, _ *mono.Msg) (ValidateTokenResponse, error) {
	claims, err := m.jwt.ValidateToken(req.Token)
	if err != nil {
		if !errors.Is(err, ErrExpiredToken) {
			m.logger.Debug("Rejected token", "error", err.Error())
		}
		return ValidateTokenResponse{
			Valid: false,
			Error: err.Error(),
		}, nil
	}

	return ValidateTokenResponse{
		Valid:  true,
		UserID: claims.Subject,
		Email:  claims.Email,
	}, nil
}
