package service

import (
	"fmt"

	"github.com/dtroode/storeauth/internal/logger"
	"github.com/dtroode/storeauth/internal/model"
)

// TokenService builds credential pairs on top of a TokenManager.
type TokenService struct {
	manager model.TokenManager
	logger  *logger.Logger
}

func NewTokenService(manager model.TokenManager, logger *logger.Logger) *TokenService {
	return &TokenService{manager: manager, logger: logger}
}

// Issue signs both tokens for user.
func (s *TokenService) Issue(user model.User) (model.Credentials, error) {
	payload := model.PayloadFromUser(user)

	access, err := s.manager.IssueAccessToken(payload)
	if err != nil {
		return model.Credentials{}, fmt.Errorf("issue access: %w", err)
	}

	refresh, err := s.manager.IssueRefreshToken(payload)
	if err != nil {
		return model.Credentials{}, fmt.Errorf("issue refresh: %w", err)
	}

	return model.Credentials{AccessToken: access, RefreshToken: refresh}, nil
}

// Refresh issues an access token from the principal's current user record.
// The presented refresh token is handed back unchanged; there is no rotation.
func (s *TokenService) Refresh(principal model.Principal) (model.Credentials, error) {
	if principal.RefreshToken == "" {
		return model.Credentials{}, fmt.Errorf("%w: principal carries no refresh token", model.ErrTokenMissing)
	}

	access, err := s.manager.IssueAccessToken(model.PayloadFromUser(principal.User))
	if err != nil {
		return model.Credentials{}, fmt.Errorf("issue access: %w", err)
	}

	s.logger.Debug("Token service: access token refreshed",
		"user_id", principal.User.ID)

	return model.Credentials{AccessToken: access, RefreshToken: principal.RefreshToken}, nil
}
