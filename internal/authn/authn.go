// Package authn resolves inbound requests to principals.
//
// Three strategies exist and are selected by route configuration:
//
//	KindAccess  - bearer access token, any role
//	KindRefresh - refresh token in the X-Refresh-Token header
//	KindAdmin   - bearer access token whose account has the ADMIN role
//
// Tokens only locate the account. Identity and role always come from a fresh
// UserStore lookup, so a role change or a deleted account takes effect on the
// next request.
package authn

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// Header names the strategies read tokens from.
const (
	AuthorizationHeader = "Authorization"
	RefreshTokenHeader  = "X-Refresh-Token"

	bearerPrefix = "Bearer "
)

// Kind selects an authentication strategy.
type Kind int

const (
	KindAccess Kind = iota + 1
	KindRefresh
	KindAdmin
)

func (k Kind) String() string {
	switch k {
	case KindAccess:
		return "access"
	case KindRefresh:
		return "refresh"
	case KindAdmin:
		return "admin"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// State is a step of a single authentication attempt.
type State string

const (
	StateUnauthenticated    State = "unauthenticated"
	StateTokenPresented     State = "token_presented"
	StateVerified           State = "verified"
	StateVerificationFailed State = "verification_failed"
	StatePrincipalResolved  State = "principal_resolved"
	StatePrincipalMissing   State = "principal_missing"
	StateAuthenticated      State = "authenticated"
	StateRejected           State = "rejected"
)

// Headers is the read side of request headers or gRPC metadata.
type Headers interface {
	Get(key string) string
}

// TokenVerifier verifies both token kinds.
type TokenVerifier interface {
	VerifyAccessToken(token string) (model.TokenPayload, error)
	VerifyRefreshToken(token string) (model.TokenPayload, error)
}

// Authenticator is one configured strategy.
type Authenticator struct {
	kind     Kind
	verifier TokenVerifier
	users    model.UserStore
	logger   *logger.Logger
}

// New creates an Authenticator of the given kind.
func New(kind Kind, verifier TokenVerifier, users model.UserStore, logger *logger.Logger) *Authenticator {
	return &Authenticator{kind: kind, verifier: verifier, users: users, logger: logger}
}

// Kind reports the strategy.
func (a *Authenticator) Kind() Kind {
	return a.kind
}

// Authenticate extracts the token for this strategy, verifies it and loads the
// account it names.
func (a *Authenticator) Authenticate(ctx context.Context, headers Headers) (model.Principal, error) {
	state := StateUnauthenticated

	tokenString, ok := a.extract(headers)
	if !ok {
		err := fmt.Errorf("%w: %w", model.ErrTokenMissing, model.ErrTokenInvalid)
		a.reject(state, err)
		return model.Principal{}, err
	}
	state = StateTokenPresented

	payload, err := a.verify(tokenString)
	if err != nil {
		a.reject(StateVerificationFailed, err)
		return model.Principal{}, err
	}
	state = StateVerified

	user, err := a.users.GetByID(ctx, payload.SubjectID)
	if err != nil {
		if !errors.Is(err, model.ErrNotFound) {
			a.logger.Error("Authenticator: user lookup failed",
				"kind", a.kind.String(),
				"user_id", payload.SubjectID,
				"error", err.Error())
		}
		a.reject(StatePrincipalMissing, err)
		return model.Principal{}, fmt.Errorf("%w: %s", model.ErrPrincipalNotFound, payload.SubjectID)
	}
	state = StatePrincipalResolved

	if a.kind == KindAdmin && user.Role != model.RoleAdmin {
		a.reject(state, model.ErrInsufficientRole)
		return model.Principal{}, fmt.Errorf("%w: %s has role %s", model.ErrInsufficientRole, user.ID, user.Role)
	}

	principal := model.Principal{User: user}
	if a.kind == KindRefresh {
		principal.RefreshToken = tokenString
	}

	a.logger.Debug("Authenticator: request authenticated",
		"kind", a.kind.String(),
		"state", string(StateAuthenticated),
		"user_id", user.ID)

	return principal, nil
}

func (a *Authenticator) extract(headers Headers) (string, bool) {
	if headers == nil {
		return "", false
	}

	switch a.kind {
	case KindRefresh:
		token := strings.TrimSpace(headers.Get(RefreshTokenHeader))
		return token, token != ""
	default:
		return BearerToken(headers.Get(AuthorizationHeader))
	}
}

func (a *Authenticator) verify(tokenString string) (model.TokenPayload, error) {
	if a.kind == KindRefresh {
		return a.verifier.VerifyRefreshToken(tokenString)
	}
	return a.verifier.VerifyAccessToken(tokenString)
}

func (a *Authenticator) reject(from State, err error) {
	a.logger.Debug("Authenticator: request rejected",
		"kind", a.kind.String(),
		"state", string(from),
		"next", string(StateRejected),
		"error", err.Error())
}

// BearerToken extracts the token from an "Authorization: Bearer <token>" value.
func BearerToken(value string) (string, bool) {
	if len(value) < len(bearerPrefix) || !strings.EqualFold(value[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}

	token := strings.TrimSpace(value[len(bearerPrefix):])
	if token == "" {
		return "", false
	}

	return token, true
}

// Set bundles the three strategies so transports can pick one per route.
type Set struct {
	Access  *Authenticator
	Refresh *Authenticator
	Admin   *Authenticator
}

// NewSet builds all three strategies over the same verifier and store.
func NewSet(verifier TokenVerifier, users model.UserStore, logger *logger.Logger) *Set {
	return &Set{
		Access:  New(KindAccess, verifier, users, logger),
		Refresh: New(KindRefresh, verifier, users, logger),
		Admin:   New(KindAdmin, verifier, users, logger),
	}
}

// For returns the strategy of the given kind, or nil.
func (s *Set) For(kind Kind) *Authenticator {
	switch kind {
	case KindAccess:
		return s.Access
	case KindRefresh:
		return s.Refresh
	case KindAdmin:
		return s.Admin
	default:
		return nil
	}
}
