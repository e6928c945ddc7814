package model

import "time"

// Token lifetimes are fixed policy.
const (
	AccessTokenTTL  = 10 * time.Minute
	RefreshTokenTTL = 30 * 24 * time.Hour
)

// TokenPayload is the claim set carried by both token kinds.
type TokenPayload struct {
	SubjectID        string
	Role             Role
	OwnedResourceIDs []string
	IssuedAt         time.Time
	ExpiresAt        time.Time
}

// PayloadFromUser builds the claims for u. Timestamps are filled in by the signer.
func PayloadFromUser(u User) TokenPayload {
	return TokenPayload{
		SubjectID:        u.ID,
		Role:             u.Role,
		OwnedResourceIDs: u.OwnedResourceIDs,
	}
}

// Credentials is the token pair handed to a client.
type Credentials struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken,omitempty"`
}

// TokenManager issues and verifies access and refresh tokens.
type TokenManager interface {
	IssueAccessToken(payload TokenPayload) (string, error)
	IssueRefreshToken(payload TokenPayload) (string, error)
	VerifyAccessToken(token string) (TokenPayload, error)
	VerifyRefreshToken(token string) (TokenPayload, error)
}
