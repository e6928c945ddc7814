package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// Auth verifies credentials and hands out token pairs.
type Auth struct {
	users        model.UserStore
	passwords    model.PasswordCodec
	captcha      model.CaptchaVerifier
	tokenService *TokenService
	logger       *logger.Logger
}

// NewAuth creates the credential service. captcha may be nil, in which case
// CheckCaptcha always passes.
func NewAuth(
	users model.UserStore,
	passwords model.PasswordCodec,
	captcha model.CaptchaVerifier,
	tokenService *TokenService,
	logger *logger.Logger,
) *Auth {
	return &Auth{
		users:        users,
		passwords:    passwords,
		captcha:      captcha,
		tokenService: tokenService,
		logger:       logger,
	}
}

// SignIn checks email and password and returns a fresh access/refresh pair.
// Every failure, including store errors, surfaces as ErrInvalidCredentials.
func (a *Auth) SignIn(ctx context.Context, email, password string) (model.Credentials, error) {
	a.logger.Debug("Auth service: sign-in attempt",
		"email", email)

	user, err := a.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			a.logger.Info("Auth service: sign-in failed",
				"email", email,
				"reason", "unknown email")
		} else {
			a.logger.Error("Auth service: failed to get user by email",
				"email", email,
				"error", err.Error())
		}
		return model.Credentials{}, model.ErrInvalidCredentials
	}

	if err := a.passwords.Verify(password, user.PasswordHash); err != nil {
		a.logger.Info("Auth service: sign-in failed",
			"email", email,
			"user_id", user.ID,
			"reason", "password mismatch")
		return model.Credentials{}, model.ErrInvalidCredentials
	}

	creds, err := a.tokenService.Issue(user)
	if err != nil {
		a.logger.Error("Auth service: failed to issue tokens",
			"user_id", user.ID,
			"error", err.Error())
		return model.Credentials{}, fmt.Errorf("failed to issue tokens: %w", err)
	}

	a.logger.Info("Auth service: sign-in succeeded",
		"user_id", user.ID,
		"role", string(user.Role))

	return creds, nil
}

// CheckCaptcha validates the reCAPTCHA response sent with a sign-in request.
func (a *Auth) CheckCaptcha(ctx context.Context, response, remoteIP string) error {
	if a.captcha == nil {
		return nil
	}

	if err := a.captcha.Verify(ctx, response, remoteIP); err != nil {
		a.logger.Info("Auth service: recaptcha rejected",
			"remote_ip", remoteIP,
			"error", err.Error())
		return err
	}

	return nil
}

// Refresh mints a new access token for an already authenticated refresh principal.
func (a *Auth) Refresh(principal model.Principal) (model.Credentials, error) {
	return a.tokenService.Refresh(principal)
}
