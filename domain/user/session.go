// Package user describes the caller identity handed to task operations.
package user

import "context"

// Claims represents verified bearer token claims.
type Claims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Session is the identity an operation runs as. The zero Session is
// anonymous.
type Session struct {
	UserID string `json:"user_id,omitempty"`
	Email  string `json:"email,omitempty"`
}

// NewSession builds a session from verified claims.
func NewSession(c *Claims) Session {
	if c == nil {
		return Session{}
	}
	return Session{UserID: c.UserID, Email: c.Email}
}

// Authenticated reports whether the session carries a user.
func (s Session) Authenticated() bool {
	return s.UserID != ""
}

type sessionKey struct{}

// WithSession returns a copy of ctx carrying s.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, s)
}

// SessionFromContext returns the session stored in ctx, or an anonymous one.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey{}).(Session)
	return s
}
