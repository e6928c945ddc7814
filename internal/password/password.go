// Package password derives and verifies salted password hashes.
//
// A stored password has the form "<salt>:<hash>", both halves base64 encoded.
// The hash is an argon2id key derived from the plaintext and the salt.
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"

	"github.com/dtroode/storeauth/internal/model"
)

const (
	saltLen   = 16
	keyLen    = 32
	separator = ":"
)

// Params are the argon2id cost parameters. The stored form does not record
// them, so changing them invalidates every stored hash.
type Params struct {
	Time   uint32
	MemKiB uint32
	Par    uint8
}

// DefaultParams follow the OWASP argon2id baseline.
func DefaultParams() Params {
	return Params{Time: 3, MemKiB: 64 * 1024, Par: 1}
}

// Codec hashes and verifies passwords.
type Codec struct {
	params Params
}

// New creates a Codec. Zero fields fall back to DefaultParams.
func New(params Params) *Codec {
	def := DefaultParams()
	if params.Time == 0 {
		params.Time = def.Time
	}
	if params.MemKiB == 0 {
		params.MemKiB = def.MemKiB
	}
	if params.Par == 0 {
		params.Par = def.Par
	}
	return &Codec{params: params}
}

// Params returns the cost the codec derives keys with.
func (c *Codec) Params() Params {
	return c.params
}

// Hash returns "<salt>:<hash>" for plaintext using a fresh random salt.
func (c *Codec) Hash(plaintext string) (string, error) {
	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	key := c.derive(plaintext, salt)

	return base64.RawStdEncoding.EncodeToString(salt) + separator + base64.RawStdEncoding.EncodeToString(key), nil
}

// Verify checks plaintext against a stored "<salt>:<hash>" value.
// Every failure, including a malformed or empty stored value, is ErrInvalidCredentials.
func (c *Codec) Verify(plaintext, stored string) error {
	salt, want, err := split(stored)
	if err != nil {
		return fmt.Errorf("%w: %w", model.ErrInvalidCredentials, err)
	}

	got := c.derive(plaintext, salt)
	if subtle.ConstantTimeCompare(got, want) != 1 {
		return model.ErrInvalidCredentials
	}

	return nil
}

// Matches is Verify reduced to a boolean.
func (c *Codec) Matches(plaintext, stored string) bool {
	return c.Verify(plaintext, stored) == nil
}

func (c *Codec) derive(plaintext string, salt []byte) []byte {
	return argon2.IDKey([]byte(plaintext), salt, c.params.Time, c.params.MemKiB, c.params.Par, keyLen)
}

func split(stored string) (salt, hash []byte, err error) {
	if stored == "" {
		return nil, nil, fmt.Errorf("no password set")
	}

	parts := strings.Split(stored, separator)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, nil, fmt.Errorf("malformed stored password")
	}

	salt, err = base64.RawStdEncoding.DecodeString(parts[0])
	if err != nil {
		return nil, nil, fmt.Errorf("decoding salt: %w", err)
	}

	hash, err = base64.RawStdEncoding.DecodeString(parts[1])
	if err != nil {
		return nil, nil, fmt.Errorf("decoding hash: %w", err)
	}

	if len(hash) != keyLen {
		return nil, nil, fmt.Errorf("unexpected hash length %d", len(hash))
	}

	return salt, hash, nil
}
