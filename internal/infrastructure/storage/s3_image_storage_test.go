package storage

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/studyreuse/backend/internal/infrastructure/config"
	"go.uber.org/zap/zaptest"
)

func validStorageConfig() *config.StorageConfig {
	return &config.StorageConfig{
		Enabled:      true,
		Endpoint:     "localhost:9000",
		Region:       "us-east-1",
		Bucket:       "item-images",
		AccessKey:    "minioadmin",
		SecretKey:    "minioadmin",
		UsePathStyle: true,
	}
}

func TestNewS3ImageStorage_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*config.StorageConfig)
		wantErr string
	}{
		{"missing bucket", func(c *config.StorageConfig) { c.Bucket = "" }, "bucket"},
		{"missing access key", func(c *config.StorageConfig) { c.AccessKey = "" }, "access key"},
		{"missing secret key", func(c *config.StorageConfig) { c.SecretKey = "" }, "secret key"},
		{"bad endpoint", func(c *config.StorageConfig) { c.Endpoint = "http://" }, "invalid storage endpoint"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validStorageConfig()
			tt.mutate(cfg)
			_, err := NewS3ImageStorage(cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}

	_, err := NewS3ImageStorage(nil)
	assert.Error(t, err)
}

func TestNewS3ImageStorage_Options(t *testing.T) {
	s, err := NewS3ImageStorage(validStorageConfig(),
		WithLogger(zaptest.NewLogger(t)),
		WithPresignExpiration(5*time.Minute),
	)
	require.NoError(t, err)
	assert.Equal(t, 5*time.Minute, s.presignExpiration)

	s, err = NewS3ImageStorage(validStorageConfig())
	require.NoError(t, err)
	assert.Equal(t, defaultPresignExpiration, s.presignExpiration)
}

func TestS3ImageStorage_ImageURL(t *testing.T) {
	t.Run("path style", func(t *testing.T) {
		s, err := NewS3ImageStorage(validStorageConfig())
		require.NoError(t, err)
		assert.Equal(t, "http://localhost:9000/item-images/items/a/b.jpg", s.ImageURL("items/a/b.jpg"))
	})

	t.Run("virtual host", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.UsePathStyle = false
		cfg.Endpoint = "s3.ap-south-1.amazonaws.com"
		cfg.UseSSL = true
		s, err := NewS3ImageStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://item-images.s3.ap-south-1.amazonaws.com/items/x.png", s.ImageURL("/items/x.png"))
	})

	t.Run("public base url", func(t *testing.T) {
		cfg := validStorageConfig()
		cfg.PublicBaseURL = "https://cdn.studyreuse.in/"
		s, err := NewS3ImageStorage(cfg)
		require.NoError(t, err)
		assert.Equal(t, "https://cdn.studyreuse.in/items/x.png", s.ImageURL("items/x.png"))
	})
}

func TestS3ImageStorage_GenerateUploadURL(t *testing.T) {
	s, err := NewS3ImageStorage(validStorageConfig(), WithPresignExpiration(10*time.Minute))
	require.NoError(t, err)

	before := time.Now()
	raw, expiresAt, err := s.GenerateUploadURL(context.Background(), "items/1/photo.jpg", "image/jpeg")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "localhost:9000", u.Host)
	assert.Equal(t, "/item-images/items/1/photo.jpg", u.Path)
	assert.Equal(t, "600", u.Query().Get("X-Amz-Expires"))
	assert.NotEmpty(t, u.Query().Get("X-Amz-Signature"))
	assert.WithinDuration(t, before.Add(10*time.Minute), expiresAt, 5*time.Second)

	_, _, err = s.GenerateUploadURL(context.Background(), "", "image/jpeg")
	assert.ErrorIs(t, err, errEmptyKey)
}

// fakeS3 answers HEAD and DELETE for objects under /item-images/
func fakeS3(t *testing.T, existing map[string]bool) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := strings.TrimPrefix(r.URL.Path, "/item-images/")
		switch r.Method {
		case http.MethodHead:
			if existing[key] {
				w.Header().Set("Content-Length", "3")
				w.WriteHeader(http.StatusOK)
				return
			}
			w.WriteHeader(http.StatusNotFound)
		case http.MethodDelete:
			delete(existing, key)
			w.WriteHeader(http.StatusNoContent)
		default:
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestS3ImageStorage_ObjectLifecycle(t *testing.T) {
	objects := map[string]bool{"items/1/photo.jpg": true}
	srv := fakeS3(t, objects)

	cfg := validStorageConfig()
	cfg.Endpoint = srv.URL
	s, err := NewS3ImageStorage(cfg)
	require.NoError(t, err)
	ctx := context.Background()

	exists, err := s.ObjectExists(ctx, "items/1/photo.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = s.ObjectExists(ctx, "items/1/missing.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, s.DeleteObject(ctx, "items/1/photo.jpg"))
	exists, err = s.ObjectExists(ctx, "items/1/photo.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	assert.ErrorIs(t, s.DeleteObject(ctx, ""), errEmptyKey)
}

func TestMemoryImageStorage(t *testing.T) {
	m := NewMemoryImageStorage("http://localhost:8080/static/")
	ctx := context.Background()

	exists, err := m.ObjectExists(ctx, "items/a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)

	uploadURL, expiresAt, err := m.GenerateUploadURL(ctx, "items/a.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/upload/items/a.jpg", uploadURL)
	assert.True(t, expiresAt.After(time.Now()))
	assert.Equal(t, "http://localhost:8080/static/items/a.jpg", m.ImageURL("items/a.jpg"))

	exists, err = m.ObjectExists(ctx, "items/a.jpg")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, m.DeleteObject(ctx, "items/a.jpg"))
	exists, err = m.ObjectExists(ctx, "items/a.jpg")
	require.NoError(t, err)
	assert.False(t, exists)
}
