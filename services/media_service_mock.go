package services

import (
	"fmt"
	"io"
	"mime/multipart"
	"sync"
)

// MockMediaStorage is an in-memory MediaStorage for testing
type MockMediaStorage struct {
	mu    sync.RWMutex
	files map[string][]byte
}

// NewMockMediaStorage creates a new mock media store
func NewMockMediaStorage() *MockMediaStorage {
	return &MockMediaStorage{
		files: make(map[string][]byte),
	}
}

// UploadImage stores file content in memory and returns a mock key
func (m *MockMediaStorage) UploadImage(fileHeader *multipart.FileHeader) (string, error) {
	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}

	key := "products/mock_" + fileHeader.Filename
	m.mu.Lock()
	m.files[key] = content
	m.mu.Unlock()
	return key, nil
}

// GetImageURL returns a fake URL for a stored key
func (m *MockMediaStorage) GetImageURL(key string) (string, error) {
	if key == "" {
		return "", nil
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.files[key]; !ok {
		return "", fmt.Errorf("image not found: %s", key)
	}
	return "https://mock-bucket.example.com/" + key, nil
}

// DeleteImage removes a stored key
func (m *MockMediaStorage) DeleteImage(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, key)
	return nil
}
