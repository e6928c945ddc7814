package handler

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"

	"github.com/dtroode/storeauth/internal/api/dto"
	"github.com/dtroode/storeauth/internal/api/http/response"
	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// AuthService covers sign-in and refresh.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (model.Credentials, error)
	CheckCaptcha(ctx context.Context, response, remoteIP string) error
	Refresh(principal model.Principal) (model.Credentials, error)
}

// Auth serves /auth routes.
type Auth struct {
	authService    AuthService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{authService: authService, contextManager: contextManager, logger: logger}
}

// SignIn handles POST /auth/signin.
func (h *Auth) SignIn(w http.ResponseWriter, r *http.Request) {
	var in dto.SignIn
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		response.Error(w, fmt.Errorf("%w: malformed body", model.ErrInvalidRequest))
		return
	}
	if err := in.Validate(); err != nil {
		response.Error(w, err)
		return
	}

	if err := h.authService.CheckCaptcha(r.Context(), in.Recaptcha, remoteIP(r)); err != nil {
		response.Error(w, err)
		return
	}

	creds, err := h.authService.SignIn(r.Context(), in.Email, in.Password)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, creds)
}

// RefreshToken handles GET /auth/token. The route is refresh-gated.
func (h *Auth) RefreshToken(w http.ResponseWriter, r *http.Request) {
	principal, ok := h.contextManager.GetPrincipalFromContext(r.Context())
	if !ok {
		response.Error(w, model.ErrTokenMissing)
		return
	}

	creds, err := h.authService.Refresh(principal)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed",
			"user_id", principal.User.ID,
			"error", err.Error())
		response.Error(w, err)
		return
	}

	response.OK(w, creds)
}

func remoteIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
