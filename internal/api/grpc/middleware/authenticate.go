package middleware

import (
	"context"
	"strings"

	"github.com/grpc-ecosystem/go-grpc-middleware/v2/interceptors/auth"
	"google.golang.org/grpc/metadata"

	"github.com/dtroode/storeauth/internal/api/apierror"
	"github.com/dtroode/storeauth/internal/authn"
	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// Authenticate runs an authn strategy against incoming metadata and puts the
// resulting principal into the context.
type Authenticate struct {
	authenticators *authn.Set
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(authenticators *authn.Set, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{authenticators: authenticators, contextManager: contextManager, logger: logger}
}

// AuthFunc returns the go-grpc-middleware auth function for kind.
func (m *Authenticate) AuthFunc(kind authn.Kind) auth.AuthFunc {
	authenticator := m.authenticators.For(kind)

	return func(ctx context.Context) (context.Context, error) {
		md, _ := metadata.FromIncomingContext(ctx)

		principal, err := authenticator.Authenticate(ctx, mdHeaders(md))
		if err != nil {
			m.logger.Debug("Authenticate middleware: rejected",
				"kind", kind.String(),
				"error", err.Error())
			return nil, apierror.GRPC(err)
		}

		return m.contextManager.SetPrincipalToContext(ctx, principal), nil
	}
}

// mdHeaders exposes gRPC metadata through authn.Headers. Metadata keys are
// always lower case.
type mdHeaders metadata.MD

func (h mdHeaders) Get(key string) string {
	values := metadata.MD(h).Get(strings.ToLower(key))
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
