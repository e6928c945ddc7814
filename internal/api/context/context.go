// Package context carries the authenticated principal through a request.
package context

import (
	"context"

	"github.com/dtroode/storeauth/internal/model"
)

type principalKey struct{}

// Manager stores the principal in a context value. Both transports share it.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

// SetPrincipalToContext returns a child context carrying principal.
func (m *Manager) SetPrincipalToContext(ctx context.Context, principal model.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// GetPrincipalFromContext returns the principal set by the authentication middleware.
func (m *Manager) GetPrincipalFromContext(ctx context.Context) (model.Principal, bool) {
	principal, ok := ctx.Value(principalKey{}).(model.Principal)
	if !ok || principal.User.ID == "" {
		return model.Principal{}, false
	}
	return principal, true
}
