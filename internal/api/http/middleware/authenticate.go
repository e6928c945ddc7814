package middleware

import (
	"net/http"

	"github.com/dtroode/storeauth/internal/api/http/response"
	"github.com/dtroode/storeauth/internal/authn"
	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// Authenticate guards routes with one of the authenticators.
type Authenticate struct {
	authenticators *authn.Set
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware.
func NewAuthenticate(authenticators *authn.Set, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticators: authenticators, contextManager: contextManager, logger: logger}
}

// Require returns a chi middleware that admits only requests kind accepts.
// The resolved principal is put on the request context.
func (m *Authenticate) Require(kind authn.Kind) func(http.Handler) http.Handler {
	authenticator := m.authenticators.For(kind)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := authenticator.Authenticate(r.Context(), r.Header)
			if err != nil {
				m.logger.Debug("Authenticate middleware: rejected",
					"kind", kind.String(),
					"path", r.URL.Path,
					"error", err.Error())
				response.Error(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(m.contextManager.SetPrincipalToContext(r.Context(), principal)))
		})
	}
}
