package storage

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cabinet/backend/internal/application/invoicing"
)

// Ensure MemoryObjectStorage implements the pipeline's ObjectStorage port
var _ invoicing.ObjectStorage = (*MemoryObjectStorage)(nil)

// storedObject is one object held in memory.
type storedObject struct {
	Data               []byte
	ContentType        string
	ContentDisposition string
}

// MemoryObjectStorage is an in-memory ObjectStorage for tests and local
// development. Objects live in a map; presigned URLs are plain fake URLs
// carrying the expiry as a query parameter.
type MemoryObjectStorage struct {
	// BaseURL is the base URL used for ObjectURL and download URLs.
	// Defaults to "https://storage.example.com" if not set.
	BaseURL string

	mu      sync.Mutex
	objects map[string]storedObject
	uploads int
}

// NewMemoryObjectStorage creates an empty in-memory object storage
func NewMemoryObjectStorage() *MemoryObjectStorage {
	return &MemoryObjectStorage{
		BaseURL: "https://storage.example.com",
		objects: make(map[string]storedObject),
	}
}

// Upload stores the object, overwriting any prior object under key.
func (s *MemoryObjectStorage) Upload(ctx context.Context, key string, data []byte, contentType, contentDisposition string) error {
	if key == "" {
		return errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = storedObject{
		Data:               append([]byte(nil), data...),
		ContentType:        contentType,
		ContentDisposition: contentDisposition,
	}
	s.uploads++
	return nil
}

// Download returns the stored bytes and content type, or ErrObjectNotFound.
func (s *MemoryObjectStorage) Download(ctx context.Context, key string) ([]byte, string, error) {
	if key == "" {
		return nil, "", errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return append([]byte(nil), obj.Data...), obj.ContentType, nil
}

// ObjectExists reports whether an object is stored under key.
func (s *MemoryObjectStorage) ObjectExists(ctx context.Context, key string) (bool, error) {
	if key == "" {
		return false, errors.New("storage key is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.objects[key]
	return ok, nil
}

// GenerateDownloadURL returns a fake download URL with the expiry encoded
// as a query parameter.
func (s *MemoryObjectStorage) GenerateDownloadURL(ctx context.Context, key, filename string, expiresIn time.Duration) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}

	expiresAt := time.Now().Add(expiresIn)
	url := s.BaseURL + "/download/" + key + "?expires=" + expiresAt.Format(time.RFC3339)
	if filename != "" {
		url += "&filename=" + filename
	}
	return url, expiresAt, nil
}

// ObjectURL returns the deterministic reference URL for an object key.
func (s *MemoryObjectStorage) ObjectURL(key string) string {
	return s.BaseURL + "/" + key
}

// UploadCount returns how many uploads were performed.
func (s *MemoryObjectStorage) UploadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.uploads
}

// Object returns the stored object under key for assertions in tests.
func (s *MemoryObjectStorage) Object(key string) ([]byte, string, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", "", false
	}
	return append([]byte(nil), obj.Data...), obj.ContentType, obj.ContentDisposition, true
}
