package storage

import (
	"context"
	"strings"
	"sync"
	"time"

	catalogapp "github.com/studyreuse/backend/internal/application/catalog"
)

// MemoryImageStorage is used when object storage is disabled. Upload URLs
// point at BaseURL and every presigned key counts as uploaded.
type MemoryImageStorage struct {
	BaseURL string

	mu      sync.Mutex
	objects map[string]struct{}
}

// NewMemoryImageStorage creates a MemoryImageStorage rooted at baseURL
func NewMemoryImageStorage(baseURL string) *MemoryImageStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/static"
	}
	return &MemoryImageStorage{
		BaseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]struct{}),
	}
}

// GenerateUploadURL records key and returns a fake upload address
func (m *MemoryImageStorage) GenerateUploadURL(_ context.Context, key, _ string) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	m.mu.Lock()
	m.objects[key] = struct{}{}
	m.mu.Unlock()
	return m.BaseURL + "/upload/" + key, time.Now().Add(defaultPresignExpiration), nil
}

// ImageURL returns BaseURL/key
func (m *MemoryImageStorage) ImageURL(key string) string {
	return m.BaseURL + "/" + strings.TrimLeft(key, "/")
}

// ObjectExists reports whether key was presigned and not deleted
func (m *MemoryImageStorage) ObjectExists(_ context.Context, key string) (bool, error) {
	if key == "" {
		return false, errEmptyKey
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.objects[key]
	return ok, nil
}

// DeleteObject forgets key
func (m *MemoryImageStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errEmptyKey
	}
	m.mu.Lock()
	delete(m.objects, key)
	m.mu.Unlock()
	return nil
}

var _ catalogapp.ImageStorage = (*MemoryImageStorage)(nil)
