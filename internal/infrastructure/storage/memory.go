package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	catalogapp "github.com/erp/tilestock/internal/application/catalog"
)

var _ catalogapp.ImageStorage = (*MemoryImageStorage)(nil)

// StoredObject is an object held by MemoryImageStorage
type StoredObject struct {
	Data        []byte
	ContentType string
}

// MemoryImageStorage keeps images in process memory. It backs local
// development when no bucket is configured, and tests.
type MemoryImageStorage struct {
	mu      sync.RWMutex
	baseURL string
	objects map[string]StoredObject
}

// NewMemoryImageStorage returns an empty store whose URLs start with baseURL
func NewMemoryImageStorage(baseURL string) *MemoryImageStorage {
	if baseURL == "" {
		baseURL = "http://localhost:8080/images"
	}
	return &MemoryImageStorage{
		baseURL: strings.TrimRight(baseURL, "/"),
		objects: make(map[string]StoredObject),
	}
}

// Upload stores the body under key
func (s *MemoryImageStorage) Upload(_ context.Context, key string, body io.Reader, size int64, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	data, err := io.ReadAll(io.LimitReader(body, size+1))
	if err != nil {
		return fmt.Errorf("failed to read upload body: %w", err)
	}
	if int64(len(data)) != size {
		return fmt.Errorf("upload body is %d bytes, expected %d", len(data), size)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = StoredObject{Data: data, ContentType: contentType}
	return nil
}

// DeleteObject removes key. Missing keys are not an error.
func (s *MemoryImageStorage) DeleteObject(_ context.Context, key string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// ObjectURL returns the URL of key
func (s *MemoryImageStorage) ObjectURL(key string) string {
	return s.baseURL + "/" + strings.TrimLeft(key, "/")
}

// Get returns the object stored under key
func (s *MemoryImageStorage) Get(key string) (StoredObject, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	return obj, ok
}

// Len returns the number of stored objects
func (s *MemoryImageStorage) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.objects)
}
