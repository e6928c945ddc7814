// Package apierror maps domain errors to transport status codes and the
// message shown to clients.
package apierror

import (
	"errors"
	"net/http"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/storeauth/internal/model"
)

// Status is the client-facing rendering of an error.
type Status struct {
	HTTP    int
	GRPC    codes.Code
	Message string
}

var mapping = []struct {
	err    error
	status Status
}{
	{model.ErrInvalidCredentials, Status{http.StatusUnauthorized, codes.Unauthenticated, "invalid email or password"}},
	{model.ErrTokenMissing, Status{http.StatusUnauthorized, codes.Unauthenticated, "authorization token is missing"}},
	{model.ErrTokenExpired, Status{http.StatusUnauthorized, codes.Unauthenticated, "authorization token is expired"}},
	{model.ErrTokenInvalid, Status{http.StatusUnauthorized, codes.Unauthenticated, "authorization token is invalid"}},
	{model.ErrPrincipalNotFound, Status{http.StatusUnauthorized, codes.Unauthenticated, "unauthorized"}},
	{model.ErrInsufficientRole, Status{http.StatusForbidden, codes.PermissionDenied, "forbidden resource"}},
	{model.ErrRecaptchaRejected, Status{http.StatusBadRequest, codes.InvalidArgument, "recaptcha verification failed"}},
	{model.ErrInvalidRequest, Status{http.StatusBadRequest, codes.InvalidArgument, "invalid request"}},
	{model.ErrNotFound, Status{http.StatusNotFound, codes.NotFound, "not found"}},
}

var internal = Status{http.StatusInternalServerError, codes.Internal, "internal server error"}

// Resolve returns the status for err. Order matters: a missing token also
// wraps ErrTokenInvalid and must report as missing.
func Resolve(err error) Status {
	for _, m := range mapping {
		if errors.Is(err, m.err) {
			return m.status
		}
	}
	return internal
}

// GRPC converts err into a gRPC status error.
func GRPC(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	s := Resolve(err)
	return status.Error(s.GRPC, s.Message)
}
