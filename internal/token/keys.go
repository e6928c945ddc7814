package token

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Curves bound to each token kind. ES384 signs on P-384 and ES512 on P-521.
var (
	AccessCurve  = elliptic.P384()
	RefreshCurve = elliptic.P521()
)

// KeyPair is an ECDSA signing key with its verification half.
type KeyPair struct {
	Private *ecdsa.PrivateKey
	Public  *ecdsa.PublicKey
}

// KeySet holds the access and refresh key pairs. It is built once at start-up
// and never modified afterwards.
type KeySet struct {
	Access  KeyPair
	Refresh KeyPair
}

// NewKeySet validates both pairs and returns an immutable KeySet.
func NewKeySet(access, refresh KeyPair) (*KeySet, error) {
	if err := access.check(AccessCurve); err != nil {
		return nil, fmt.Errorf("access key pair: %w", err)
	}
	if err := refresh.check(RefreshCurve); err != nil {
		return nil, fmt.Errorf("refresh key pair: %w", err)
	}
	return &KeySet{Access: access, Refresh: refresh}, nil
}

// GenerateKeySet creates fresh access and refresh key pairs.
func GenerateKeySet() (*KeySet, error) {
	access, err := GenerateKeyPair(AccessCurve)
	if err != nil {
		return nil, err
	}
	refresh, err := GenerateKeyPair(RefreshCurve)
	if err != nil {
		return nil, err
	}
	return NewKeySet(access, refresh)
}

// GenerateKeyPair creates a key pair on curve.
func GenerateKeyPair(curve elliptic.Curve) (KeyPair, error) {
	priv, err := ecdsa.GenerateKey(curve, rand.Reader)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to generate %s key: %w", curve.Params().Name, err)
	}
	return KeyPair{Private: priv, Public: &priv.PublicKey}, nil
}

// ParseKeyPair decodes PEM encoded keys. The public half is optional and is
// derived from the private key when empty; when present it must match.
func ParseKeyPair(privatePEM, publicPEM []byte) (KeyPair, error) {
	priv, err := jwt.ParseECPrivateKeyFromPEM(privatePEM)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to parse private key: %w", err)
	}

	if len(publicPEM) == 0 {
		return KeyPair{Private: priv, Public: &priv.PublicKey}, nil
	}

	pub, err := jwt.ParseECPublicKeyFromPEM(publicPEM)
	if err != nil {
		return KeyPair{}, fmt.Errorf("failed to parse public key: %w", err)
	}
	if !pub.Equal(&priv.PublicKey) {
		return KeyPair{}, errors.New("public key does not match private key")
	}

	return KeyPair{Private: priv, Public: pub}, nil
}

// EncodeKeyPair returns the PEM encoding of both halves.
func EncodeKeyPair(kp KeyPair) (privatePEM, publicPEM []byte, err error) {
	privDER, err := x509.MarshalECPrivateKey(kp.Private)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	pubDER, err := x509.MarshalPKIXPublicKey(kp.Public)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal public key: %w", err)
	}

	privatePEM = pem.EncodeToMemory(&pem.Block{Type: "EC PRIVATE KEY", Bytes: privDER})
	publicPEM = pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: pubDER})
	return privatePEM, publicPEM, nil
}

func (kp KeyPair) check(curve elliptic.Curve) error {
	if kp.Private == nil || kp.Public == nil {
		return errors.New("incomplete key pair")
	}
	if kp.Private.Curve != curve || kp.Public.Curve != curve {
		return fmt.Errorf("expected curve %s, got %s", curve.Params().Name, kp.Private.Curve.Params().Name)
	}
	if !kp.Public.Equal(&kp.Private.PublicKey) {
		return errors.New("public key does not match private key")
	}
	return nil
}
