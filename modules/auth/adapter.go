package auth

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Bart3kD/task-manager/domain/user"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
)

const serviceValidateToken = "validate-token"

// AuthPort verifies bearer tokens on behalf of other modules.
type AuthPort interface {
	ValidateToken(ctx context.Context, token string) (*user.Claims, error)
}

// AuthAdapter calls the validate-token service through the container.
type AuthAdapter struct {
	container mono.ServiceContainer
}

// NewAuthAdapter creates a new AuthAdapter.
func NewAuthAdapter(container mono.ServiceContainer) *AuthAdapter {
	return &AuthAdapter{container: container}
}

// ValidateToken returns the claims of token. Rejections come back as
// ErrExpiredToken or a wrapped ErrInvalidToken.
func (a *AuthAdapter) ValidateToken(ctx context.Context, token string) (*user.Claims, error) {
	var resp ValidateTokenResponse
	err := helper.CallRequestReplyService(ctx, a.container, serviceValidateToken,
		json.Marshal, json.Unmarshal, &ValidateTokenRequest{Token: token}, &resp)
	if err != nil {
		return nil, fmt.Errorf("%s request failed: %w", serviceValidateToken, err)
	}
	return resp.claims()
}

// claims turns a reply back into claims or the sentinel it was built from.
func (r ValidateTokenResponse) claims() (*user.Claims, error) {
	switch {
	case r.Valid:
		return &user.Claims{UserID: r.UserID, Email: r.Email}, nil
	case r.Error == ErrExpiredToken.Error():
		return nil, ErrExpiredToken
	case r.Error == "" || r.Error == ErrInvalidToken.Error():
		return nil, ErrInvalidToken
	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidToken, r.Error)
	}
}
