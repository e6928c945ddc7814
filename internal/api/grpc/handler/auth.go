package handler

import (
	"context"
	"net"

	"google.golang.org/grpc/peer"

	"github.com/dtroode/storeauth/internal/api/apierror"
	"github.com/dtroode/storeauth/internal/api/dto"
	"github.com/dtroode/storeauth/internal/api/grpc/authv1"
	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// AuthService covers sign-in and refresh.
type AuthService interface {
	SignIn(ctx context.Context, email, password string) (model.Credentials, error)
	CheckCaptcha(ctx context.Context, response, remoteIP string) error
	Refresh(principal model.Principal) (model.Credentials, error)
}

// UserService looks up accounts for admin routes.
type UserService interface {
	Get(ctx context.Context, id string) (model.User, error)
}

// Auth handles the storeauth.v1.Auth gRPC endpoints.
type Auth struct {
	authv1.UnimplementedAuthServer
	authService    AuthService
	userService    UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuth creates a new Auth handler.
func NewAuth(authService AuthService, userService UserService, contextManager model.ContextManager, logger *logger.Logger) *Auth {
	return &Auth{
		authService:    authService,
		userService:    userService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// SignIn exchanges email and password for a token pair.
func (h *Auth) SignIn(ctx context.Context, req *authv1.SignInRequest) (*authv1.Credentials, error) {
	h.logger.Debug("Auth handler: processing sign-in request",
		"email", req.Email)

	in := dto.SignIn{Email: req.Email, Password: req.Password, Recaptcha: req.Recaptcha}
	if err := in.Validate(); err != nil {
		return nil, apierror.GRPC(err)
	}

	if err := h.authService.CheckCaptcha(ctx, in.Recaptcha, remoteIP(ctx)); err != nil {
		return nil, apierror.GRPC(err)
	}

	creds, err := h.authService.SignIn(ctx, in.Email, in.Password)
	if err != nil {
		return nil, apierror.GRPC(err)
	}

	return toCredentials(creds), nil
}

// RefreshToken issues a new access token for the refresh principal.
func (h *Auth) RefreshToken(ctx context.Context, _ *authv1.Empty) (*authv1.Credentials, error) {
	principal, ok := h.contextManager.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, apierror.GRPC(model.ErrTokenMissing)
	}

	creds, err := h.authService.Refresh(principal)
	if err != nil {
		h.logger.Error("Auth handler: token refresh failed",
			"user_id", principal.User.ID,
			"error", err.Error())
		return nil, apierror.GRPC(err)
	}

	return toCredentials(creds), nil
}

// Me returns the authenticated account.
func (h *Auth) Me(ctx context.Context, _ *authv1.Empty) (*authv1.User, error) {
	principal, ok := h.contextManager.GetPrincipalFromContext(ctx)
	if !ok {
		return nil, apierror.GRPC(model.ErrTokenMissing)
	}

	return toUser(principal.User), nil
}

// GetUser returns any account. Admin only.
func (h *Auth) GetUser(ctx context.Context, req *authv1.GetUserRequest) (*authv1.User, error) {
	if req.ID == "" {
		return nil, apierror.GRPC(model.ErrInvalidRequest)
	}

	user, err := h.userService.Get(ctx, req.ID)
	if err != nil {
		return nil, apierror.GRPC(err)
	}

	return toUser(user), nil
}

func toCredentials(c model.Credentials) *authv1.Credentials {
	return &authv1.Credentials{AccessToken: c.AccessToken, RefreshToken: c.RefreshToken}
}

func toUser(u model.User) *authv1.User {
	pub := u.Public()
	return &authv1.User{
		ID:               pub.ID,
		Email:            pub.Email,
		Name:             pub.Name,
		Surname:          pub.Surname,
		Role:             string(pub.Role),
		OwnedResourceIDs: pub.OwnedResourceIDs,
	}
}

func remoteIP(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}
