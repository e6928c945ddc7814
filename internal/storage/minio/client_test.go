package minio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	minioLib "github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/storeauth/internal/model"
)

// fakeObjects is an in-memory objectAPI.
type fakeObjects struct {
	bucketExists    bool
	bucketExistsErr error
	makeBucketErr   error
	madeBucket      string

	objects     map[string][]byte
	contentType map[string]string
	putErr      error
	getErr      error
	statErr     error
}

func newFake() *fakeObjects {
	return &fakeObjects{bucketExists: true, objects: map[string][]byte{}, contentType: map[string]string{}}
}

var errNoSuchKey = minioLib.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist."}

func (f *fakeObjects) BucketExists(_ context.Context, _ string) (bool, error) {
	return f.bucketExists, f.bucketExistsErr
}

func (f *fakeObjects) MakeBucket(_ context.Context, bucket string, _ minioLib.MakeBucketOptions) error {
	f.madeBucket = bucket
	return f.makeBucketErr
}

func (f *fakeObjects) PutObject(_ context.Context, _ string, name string, r io.Reader, size int64, opts minioLib.PutObjectOptions) (minioLib.UploadInfo, error) {
	if f.putErr != nil {
		return minioLib.UploadInfo{}, f.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return minioLib.UploadInfo{}, err
	}
	if int64(len(data)) != size {
		return minioLib.UploadInfo{}, errors.New("size mismatch")
	}
	f.objects[name] = data
	f.contentType[name] = opts.ContentType
	return minioLib.UploadInfo{Key: name, Size: size}, nil
}

func (f *fakeObjects) GetObject(_ context.Context, _ string, name string, _ minioLib.GetObjectOptions) (io.ReadCloser, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	data, ok := f.objects[name]
	if !ok {
		return nil, errNoSuchKey
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeObjects) StatObject(_ context.Context, _ string, name string, _ minioLib.StatObjectOptions) (minioLib.ObjectInfo, error) {
	if f.statErr != nil {
		return minioLib.ObjectInfo{}, f.statErr
	}
	if _, ok := f.objects[name]; !ok {
		return minioLib.ObjectInfo{}, errNoSuchKey
	}
	return minioLib.ObjectInfo{Key: name}, nil
}

func TestNewKeyStore_Bucket(t *testing.T) {
	ctx := context.Background()

	t.Run("exists", func(t *testing.T) {
		api := newFake()
		s, err := NewKeyStore(ctx, api, "keys", "")
		require.NoError(t, err)
		assert.Equal(t, "keys", s.bucket)
		assert.Empty(t, api.madeBucket)
	})

	t.Run("created", func(t *testing.T) {
		api := newFake()
		api.bucketExists = false
		_, err := NewKeyStore(ctx, api, "keys", "")
		require.NoError(t, err)
		assert.Equal(t, "keys", api.madeBucket)
	})

	t.Run("check fails", func(t *testing.T) {
		api := newFake()
		api.bucketExistsErr = errors.New("boom")
		s, err := NewKeyStore(ctx, api, "keys", "")
		assert.Nil(t, s)
		assert.ErrorContains(t, err, "failed to ensure bucket exists")
	})

	t.Run("create fails", func(t *testing.T) {
		api := newFake()
		api.bucketExists = false
		api.makeBucketErr = errors.New("denied")
		_, err := NewKeyStore(ctx, api, "keys", "")
		assert.ErrorContains(t, err, "failed to create bucket")
	})

	t.Run("no bucket name", func(t *testing.T) {
		_, err := NewKeyStore(ctx, newFake(), "", "")
		assert.Error(t, err)
	})
}

func TestKeyStore_UploadDownload(t *testing.T) {
	ctx := context.Background()
	api := newFake()
	s, err := NewKeyStore(ctx, api, "keys", "prod")
	require.NoError(t, err)

	require.NoError(t, s.Upload(ctx, "access.pem", strings.NewReader("-----BEGIN-----")))
	assert.Contains(t, api.objects, "prod/access.pem")
	assert.Equal(t, pemContentType, api.contentType["prod/access.pem"])

	rc, err := s.Download(ctx, "access.pem")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "-----BEGIN-----", string(data))
}

func TestKeyStore_Download_Missing(t *testing.T) {
	ctx := context.Background()
	s, err := NewKeyStore(ctx, newFake(), "keys", "")
	require.NoError(t, err)

	_, err = s.Download(ctx, "nope.pem")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestKeyStore_Errors(t *testing.T) {
	ctx := context.Background()
	api := newFake()
	s, err := NewKeyStore(ctx, api, "keys", "")
	require.NoError(t, err)

	api.putErr = errors.New("quota")
	assert.ErrorContains(t, s.Upload(ctx, "k", strings.NewReader("x")), "failed to upload object")

	api.getErr = errors.New("timeout")
	_, err = s.Download(ctx, "k")
	assert.ErrorContains(t, err, "failed to get object")
	assert.NotErrorIs(t, err, model.ErrNotFound)

	api.statErr = errors.New("timeout")
	_, err = s.Exists(ctx, "k")
	assert.ErrorContains(t, err, "failed to stat object")
}

func TestKeyStore_Exists(t *testing.T) {
	ctx := context.Background()
	api := newFake()
	s, err := NewKeyStore(ctx, api, "keys", "")
	require.NoError(t, err)

	ok, err := s.Exists(ctx, "access.pem")
	require.NoError(t, err)
	assert.False(t, ok)

	api.objects["access.pem"] = []byte("x")
	ok, err = s.Exists(ctx, "access.pem")
	require.NoError(t, err)
	assert.True(t, ok)
}
