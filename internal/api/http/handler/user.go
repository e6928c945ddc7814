package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/dtroode/storeauth/internal/api/http/response"
	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// UserService looks up accounts for admin routes.
type UserService interface {
	Get(ctx context.Context, id string) (model.User, error)
}

// User serves /users routes.
type User struct {
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(userService UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{userService: userService, contextManager: contextManager, logger: logger}
}

// Me handles GET /users/me.
func (h *User) Me(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Error(w, model.ErrTokenMissing)
		return
	}
	response.OK(w, principal.User.Public())
}

// Get handles GET /users/{id}. Admin only.
func (h *User) Get(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.Error(w, err)
		return
	}
	response.OK(w, user.Public())
}

// Health handles GET /health. A failing ping answers 503.
func Health(ping func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				response.JSON(w, http.StatusServiceUnavailable, response.Envelope{Message: "store unavailable"})
				return
			}
		}
		response.OK(w, map[string]string{"status": "ok"})
	}
}
