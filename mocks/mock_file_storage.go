package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockFileStorage is a mock implementation of port.FileStorage.
type MockFileStorage struct {
	mock.Mock
}

func (m *MockFileStorage) PresignUpload(ctx context.Context, key, contentType string, expirySeconds int64) (string, error) {
	args := m.Called(ctx, key, contentType, expirySeconds)
	return args.String(0), args.Error(1)
}

func (m *MockFileStorage) PresignDownload(ctx context.Context, key string, expirySeconds int64) (string, error) {
	args := m.Called(ctx, key, expirySeconds)
	return args.String(0), args.Error(1)
}
