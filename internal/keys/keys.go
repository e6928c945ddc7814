// Package keys loads the signing KeySet from the configured source.
package keys

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dtroode/storeauth/internal/model"
	"github.com/dtroode/storeauth/internal/token"
)

// Source names where the PEM material lives.
type Source string

const (
	SourceEnv   Source = "env"
	SourceFile  Source = "file"
	SourceMinio Source = "minio"
)

// Refs locates the four PEM blocks. Depending on the source each field is PEM
// text, a file path or an object key.
type Refs struct {
	AccessPrivate  string
	AccessPublic   string
	RefreshPrivate string
	RefreshPublic  string
}

// Default object names used by keygen when publishing to storage.
var DefaultObjectRefs = Refs{
	AccessPrivate:  "access_private.pem",
	AccessPublic:   "access_public.pem",
	RefreshPrivate: "refresh_private.pem",
	RefreshPublic:  "refresh_public.pem",
}

type fetchFunc func(ref string) ([]byte, error)

// Load builds the KeySet. storage is required only for SourceMinio.
func Load(ctx context.Context, source Source, refs Refs, storage model.Storage) (*token.KeySet, error) {
	var fetch fetchFunc

	switch source {
	case SourceEnv:
		fetch = func(ref string) ([]byte, error) {
			// Dotenv files commonly carry PEM with literal \n sequences.
			return []byte(strings.ReplaceAll(ref, `\n`, "\n")), nil
		}
	case SourceFile:
		fetch = func(ref string) ([]byte, error) {
			if ref == "" {
				return nil, nil
			}
			return os.ReadFile(ref)
		}
	case SourceMinio:
		if storage == nil {
			return nil, errors.New("minio key source requires storage")
		}
		fetch = func(ref string) ([]byte, error) {
			if ref == "" {
				return nil, nil
			}
			return download(ctx, storage, ref)
		}
	default:
		return nil, fmt.Errorf("unknown key source %q", source)
	}

	access, err := loadPair(fetch, refs.AccessPrivate, refs.AccessPublic)
	if err != nil {
		return nil, fmt.Errorf("access key: %w", err)
	}

	refresh, err := loadPair(fetch, refs.RefreshPrivate, refs.RefreshPublic)
	if err != nil {
		return nil, fmt.Errorf("refresh key: %w", err)
	}

	return token.NewKeySet(access, refresh)
}

func loadPair(fetch fetchFunc, privRef, pubRef string) (token.KeyPair, error) {
	if privRef == "" {
		return token.KeyPair{}, errors.New("private key is not configured")
	}

	priv, err := fetch(privRef)
	if err != nil {
		return token.KeyPair{}, fmt.Errorf("failed to read private key: %w", err)
	}

	pub, err := fetch(pubRef)
	if err != nil {
		return token.KeyPair{}, fmt.Errorf("failed to read public key: %w", err)
	}

	return token.ParseKeyPair(priv, pub)
}

func download(ctx context.Context, storage model.Storage, key string) ([]byte, error) {
	rc, err := storage.Download(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return io.ReadAll(rc)
}

// Publish encodes the KeySet and uploads the four PEM objects under refs.
// Existing objects are not overwritten unless force is set.
func Publish(ctx context.Context, storage model.Storage, refs Refs, set *token.KeySet, force bool) error {
	objects, err := Encode(set)
	if err != nil {
		return err
	}

	names := map[string]string{
		refs.AccessPrivate:  "access_private",
		refs.AccessPublic:   "access_public",
		refs.RefreshPrivate: "refresh_private",
		refs.RefreshPublic:  "refresh_public",
	}
	if len(names) != 4 {
		return errors.New("object refs must be distinct")
	}

	if !force {
		for ref := range names {
			exists, err := storage.Exists(ctx, ref)
			if err != nil {
				return err
			}
			if exists {
				return fmt.Errorf("object %s already exists", ref)
			}
		}
	}

	for ref, name := range names {
		if err := storage.Upload(ctx, ref, bytes.NewReader(objects[name])); err != nil {
			return err
		}
	}

	return nil
}

// Encode returns the PEM encodings keyed by access_private, access_public,
// refresh_private and refresh_public.
func Encode(set *token.KeySet) (map[string][]byte, error) {
	accessPriv, accessPub, err := token.EncodeKeyPair(set.Access)
	if err != nil {
		return nil, fmt.Errorf("access key: %w", err)
	}

	refreshPriv, refreshPub, err := token.EncodeKeyPair(set.Refresh)
	if err != nil {
		return nil, fmt.Errorf("refresh key: %w", err)
	}

	return map[string][]byte{
		"access_private":  accessPriv,
		"access_public":   accessPub,
		"refresh_private": refreshPriv,
		"refresh_public":  refreshPub,
	}, nil
}
