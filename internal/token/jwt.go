package token

import (
	"crypto/ecdsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/dtroode/storeauth/internal/model"
)

// Signing methods bound to each token kind.
var (
	AccessMethod  jwt.SigningMethod = jwt.SigningMethodES384
	RefreshMethod jwt.SigningMethod = jwt.SigningMethodES512
)

// Claims is the JWT body shared by access and refresh tokens.
type Claims struct {
	jwt.RegisteredClaims
	Role  model.Role `json:"role"`
	Owned []string   `json:"unitsOwnedIds,omitempty"`
}

var _ model.TokenManager = (*JWT)(nil)

// JWT implements TokenManager with ECDSA signatures. Access and refresh tokens
// use separate key pairs and separate algorithms, so neither key can forge the
// other kind.
type JWT struct {
	keys *KeySet
	now  func() time.Time
}

// Option configures a JWT.
type Option func(*JWT)

// WithClock replaces time.Now, used to test expiry.
func WithClock(now func() time.Time) Option {
	return func(j *JWT) {
		j.now = now
	}
}

// NewJWT creates a token manager backed by keys.
func NewJWT(keys *KeySet, opts ...Option) *JWT {
	j := &JWT{keys: keys, now: time.Now}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// IssueAccessToken signs a 10 minute ES384 token.
func (j *JWT) IssueAccessToken(payload model.TokenPayload) (string, error) {
	token, err := j.issue(payload, AccessMethod, j.keys.Access.Private, model.AccessTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}
	return token, nil
}

// IssueRefreshToken signs a 30 day ES512 token.
func (j *JWT) IssueRefreshToken(payload model.TokenPayload) (string, error) {
	token, err := j.issue(payload, RefreshMethod, j.keys.Refresh.Private, model.RefreshTokenTTL)
	if err != nil {
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}
	return token, nil
}

// VerifyAccessToken checks a token against the access public key and ES384.
func (j *JWT) VerifyAccessToken(tokenString string) (model.TokenPayload, error) {
	return j.Verify(tokenString, j.keys.Access.Public, AccessMethod)
}

// VerifyRefreshToken checks a token against the refresh public key and ES512.
func (j *JWT) VerifyRefreshToken(tokenString string) (model.TokenPayload, error) {
	return j.Verify(tokenString, j.keys.Refresh.Public, RefreshMethod)
}

// Verify parses tokenString, accepting only method and key. It returns
// ErrTokenExpired for a lapsed but correctly signed token and ErrTokenInvalid
// for anything else.
func (j *JWT) Verify(tokenString string, key *ecdsa.PublicKey, method jwt.SigningMethod) (model.TokenPayload, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(_ *jwt.Token) (interface{}, error) {
		return key, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return model.TokenPayload{}, fmt.Errorf("%w: %w", model.ErrTokenExpired, err)
		}
		return model.TokenPayload{}, fmt.Errorf("%w: %w", model.ErrTokenInvalid, err)
	}
	if !token.Valid {
		return model.TokenPayload{}, model.ErrTokenInvalid
	}
	if claims.Subject == "" {
		return model.TokenPayload{}, fmt.Errorf("%w: missing subject", model.ErrTokenInvalid)
	}

	payload := model.TokenPayload{
		SubjectID:        claims.Subject,
		Role:             claims.Role,
		OwnedResourceIDs: claims.Owned,
		ExpiresAt:        claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		payload.IssuedAt = claims.IssuedAt.Time
	}

	return payload, nil
}

func (j *JWT) issue(payload model.TokenPayload, method jwt.SigningMethod, key *ecdsa.PrivateKey, ttl time.Duration) (string, error) {
	if payload.SubjectID == "" {
		return "", errors.New("payload has no subject")
	}

	now := j.now()
	token := jwt.NewWithClaims(method, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   payload.SubjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role:  payload.Role,
		Owned: payload.OwnedResourceIDs,
	})

	return token.SignedString(key)
}
