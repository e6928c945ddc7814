package router

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/dtroode/storeauth/internal/api/http/handler"
	"github.com/dtroode/storeauth/internal/api/http/middleware"
	"github.com/dtroode/storeauth/internal/authn"
	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// Router builds the REST API mounted under /api.
type Router struct {
	authService    handler.AuthService
	userService    handler.UserService
	authenticators *authn.Set
	contextManager model.ContextManager
	ping           func(ctx context.Context) error
	allowedOrigins []string
	trustProxy     bool
	logger         *logger.Logger
}

// New creates new HTTP Router instance. With trustProxy set, the client
// address is taken from X-Forwarded-For or X-Real-IP; enable it only behind a
// proxy that overwrites those headers.
func New(
	authService handler.AuthService,
	userService handler.UserService,
	authenticators *authn.Set,
	contextManager model.ContextManager,
	ping func(ctx context.Context) error,
	allowedOrigins []string,
	trustProxy bool,
	logger *logger.Logger,
) *Router {
	return &Router{
		authService:    authService,
		userService:    userService,
		authenticators: authenticators,
		contextManager: contextManager,
		ping:           ping,
		allowedOrigins: allowedOrigins,
		trustProxy:     trustProxy,
		logger:         logger,
	}
}

// Register returns the root handler.
func (r *Router) Register() http.Handler {
	logging := middleware.NewLogging(r.logger)
	authenticate := middleware.NewAuthenticate(r.authenticators, r.contextManager, r.logger)
	authHandler := handler.NewAuth(r.authService, r.contextManager, r.logger)
	userHandler := handler.NewUser(r.userService, r.contextManager, r.logger)

	mux := chi.NewRouter()
	mux.Use(middleware.RequestID)
	if r.trustProxy {
		mux.Use(chimw.RealIP)
	}
	mux.Use(logging.Handle)
	mux.Use(logging.Recover)
	mux.Use(middleware.CORS(r.allowedOrigins))
	mux.Use(middleware.BodyLimit)

	mux.Route("/api", func(api chi.Router) {
		api.Get("/health", handler.Health(r.ping))

		api.Route("/auth", func(ar chi.Router) {
			ar.Post("/signin", authHandler.SignIn)
			ar.With(authenticate.Require(authn.KindRefresh)).Get("/token", authHandler.RefreshToken)
		})

		api.Route("/users", func(ur chi.Router) {
			ur.With(authenticate.Require(authn.KindAccess)).Get("/me", userHandler.Me)
			ur.With(authenticate.Require(authn.KindAdmin)).Get("/{id}", userHandler.Get)
		})
	})

	return mux
}
