// Package dto holds request payloads shared by the HTTP and gRPC transports.
package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dtroode/storeauth/internal/model"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SignIn is the sign-in request body.
type SignIn struct {
	Email     string `json:"email" validate:"required,email,min=6,max=50"`
	Password  string `json:"password" validate:"required,max=128"`
	Recaptcha string `json:"recaptcha"`
}

// Validate checks field constraints. Failures wrap model.ErrInvalidRequest.
func (s SignIn) Validate() error {
	return check(s)
}

func check(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %w", model.ErrInvalidRequest, err)
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fmt.Sprintf("%s failed %s", strings.ToLower(fe.Field()), fe.Tag()))
	}
	return fmt.Errorf("%w: %s", model.ErrInvalidRequest, strings.Join(fields, "; "))
}
