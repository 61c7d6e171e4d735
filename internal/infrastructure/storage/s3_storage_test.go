package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/erp/tilestock/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordedRequest struct {
	Method      string
	Path        string
	ContentType string
}

// fakeS3 answers path-style S3 calls for a single bucket
type fakeS3 struct {
	mu           sync.Mutex
	requests     []recordedRequest
	bucketExists bool
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_, _ = io.Copy(io.Discard, r.Body)

	f.mu.Lock()
	f.requests = append(f.requests, recordedRequest{
		Method:      r.Method,
		Path:        r.URL.Path,
		ContentType: r.Header.Get("Content-Type"),
	})
	exists := f.bucketExists
	isBucket := strings.Count(strings.Trim(r.URL.Path, "/"), "/") == 0
	if r.Method == http.MethodPut && isBucket {
		f.bucketExists = true
	}
	f.mu.Unlock()

	switch {
	case r.Method == http.MethodHead && isBucket && !exists:
		w.WriteHeader(http.StatusNotFound)
	case r.Method == http.MethodDelete:
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusOK)
	}
}

func (f *fakeS3) calls() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]recordedRequest(nil), f.requests...)
}

func newTestStorage(t *testing.T, fake *fakeS3) *S3ImageStorage {
	t.Helper()
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	s, err := NewS3ImageStorage(config.StorageConfig{
		Endpoint:        server.URL,
		Bucket:          "images",
		AccessKeyID:     "key",
		SecretAccessKey: "secret",
		UsePathStyle:    true,
	})
	require.NoError(t, err)
	return s
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.StorageConfig
		wantErr string
	}{
		{"missing bucket", config.StorageConfig{AccessKeyID: "k", SecretAccessKey: "s"}, "bucket is required"},
		{"missing access key", config.StorageConfig{Bucket: "b", SecretAccessKey: "s"}, "access key and secret"},
		{"missing secret", config.StorageConfig{Bucket: "b", AccessKeyID: "k"}, "access key and secret"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewS3ImageStorage(tt.cfg)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestS3ImageStorage_ObjectURL(t *testing.T) {
	base := config.StorageConfig{Bucket: "tiles", AccessKeyID: "k", SecretAccessKey: "s", Region: "eu-west-1"}

	tests := []struct {
		name   string
		mutate func(*config.StorageConfig)
		want   string
	}{
		{"aws default", func(*config.StorageConfig) {}, "https://tiles.s3.eu-west-1.amazonaws.com/products/a.png"},
		{"path style endpoint", func(c *config.StorageConfig) {
			c.Endpoint = "http://minio:9000"
			c.UsePathStyle = true
		}, "http://minio:9000/tiles/products/a.png"},
		{"virtual host endpoint", func(c *config.StorageConfig) {
			c.Endpoint = "storage.example.com"
		}, "https://tiles.storage.example.com/products/a.png"},
		{"public url wins", func(c *config.StorageConfig) {
			c.Endpoint = "http://minio:9000"
			c.PublicURL = "https://cdn.example.com/"
		}, "https://cdn.example.com/products/a.png"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)
			s, err := NewS3ImageStorage(cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, s.ObjectURL("products/a.png"))
			assert.Equal(t, "tiles", s.Bucket())
		})
	}
}

func TestS3ImageStorage_Upload(t *testing.T) {
	fake := &fakeS3{bucketExists: true}
	s := newTestStorage(t, fake)

	err := s.Upload(context.Background(), "products/p1/img.png", strings.NewReader("png-bytes"), 9, "image/png")
	require.NoError(t, err)

	calls := fake.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodPut, calls[0].Method)
	assert.Equal(t, "/images/products/p1/img.png", calls[0].Path)
	assert.Equal(t, "image/png", calls[0].ContentType)
}

func TestS3ImageStorage_UploadSizeMismatch(t *testing.T) {
	fake := &fakeS3{bucketExists: true}
	s := newTestStorage(t, fake)

	err := s.Upload(context.Background(), "k", strings.NewReader("short"), 10, "image/png")
	assert.ErrorContains(t, err, "expected 10")
	assert.Empty(t, fake.calls())

	assert.Error(t, s.Upload(context.Background(), "", strings.NewReader("x"), 1, "image/png"))
}

func TestS3ImageStorage_DeleteObject(t *testing.T) {
	fake := &fakeS3{bucketExists: true}
	s := newTestStorage(t, fake)

	require.NoError(t, s.DeleteObject(context.Background(), "products/p1/img.png"))

	calls := fake.calls()
	require.Len(t, calls, 1)
	assert.Equal(t, http.MethodDelete, calls[0].Method)
	assert.Equal(t, "/images/products/p1/img.png", calls[0].Path)

	assert.Error(t, s.DeleteObject(context.Background(), ""))
}

func TestS3ImageStorage_EnsureBucket(t *testing.T) {
	t.Run("creates missing bucket", func(t *testing.T) {
		fake := &fakeS3{}
		s := newTestStorage(t, fake)

		require.NoError(t, s.EnsureBucket(context.Background()))

		calls := fake.calls()
		require.Len(t, calls, 2)
		assert.Equal(t, http.MethodHead, calls[0].Method)
		assert.Equal(t, http.MethodPut, calls[1].Method)
		assert.Equal(t, "/images", calls[1].Path)
	})

	t.Run("existing bucket is left alone", func(t *testing.T) {
		fake := &fakeS3{bucketExists: true}
		s := newTestStorage(t, fake)

		require.NoError(t, s.EnsureBucket(context.Background()))
		assert.Len(t, fake.calls(), 1)
	})
}
