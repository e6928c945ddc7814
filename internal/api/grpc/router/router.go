package router

import (
	"context"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/selector"
	"google.golang.org/grpc"

	"github.com/dtroode/storeauth/internal/api/grpc/authv1"
	"github.com/dtroode/storeauth/internal/api/grpc/handler"
	"github.com/dtroode/storeauth/internal/api/grpc/middleware"
	"github.com/dtroode/storeauth/internal/authn"
	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// Router wires the Auth service, its per-method authenticators and the
// logging interceptor into a grpc.Server.
type Router struct {
	authService    handler.AuthService
	userService    handler.UserService
	authenticators *authn.Set
	contextManager model.ContextManager
	logger         *logger.Logger
}

// New creates new gRPC Router instance.
func New(
	authService handler.AuthService,
	userService handler.UserService,
	authenticators *authn.Set,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		userService:    userService,
		authenticators: authenticators,
		contextManager: contextManager,
		logger:         logger,
	}
}

// methodKinds lists the guarded methods. SignIn is public.
var methodKinds = map[string]authn.Kind{
	authv1.Auth_RefreshToken_FullMethodName: authn.KindRefresh,
	authv1.Auth_Me_FullMethodName:           authn.KindAccess,
	authv1.Auth_GetUser_FullMethodName:      authn.KindAdmin,
}

func matchKind(kind authn.Kind) func(context.Context, interceptors.CallMeta) bool {
	return func(_ context.Context, c interceptors.CallMeta) bool {
		k, ok := methodKinds[c.FullMethod()]
		return ok && k == kind
	}
}

// Register builds the gRPC server with all interceptors and services.
func (r *Router) Register(opts ...grpc.ServerOption) *grpc.Server {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticators, r.contextManager, r.logger)

	unary := []grpc.UnaryServerInterceptor{logging.HandleGRPC}
	for _, kind := range []authn.Kind{authn.KindAccess, authn.KindRefresh, authn.KindAdmin} {
		unary = append(unary, selector.UnaryServerInterceptor(
			auth.UnaryServerInterceptor(authenticate.AuthFunc(kind)),
			selector.MatchFunc(matchKind(kind)),
		))
	}

	opts = append(opts, grpc.ChainUnaryInterceptor(unary...))
	s := grpc.NewServer(opts...)

	authv1.RegisterAuthServer(s, handler.NewAuth(r.authService, r.userService, r.contextManager, r.logger))

	return s
}
