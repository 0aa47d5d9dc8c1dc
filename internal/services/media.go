package services

import (
	"context"
	"fmt"
	"io"

	"backoffice/internal/common"
	"backoffice/internal/storage"

	"go.uber.org/zap"
)

// Upload is a file received from a multipart form.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Reader      io.Reader
}

// MediaStore wraps optional object storage. With no backend, saves fail
// with ErrUnavailable and URLs resolve to empty strings.
type MediaStore struct {
	storage storage.ObjectStorage
	logger  *zap.Logger
}

func NewMediaStore(store storage.ObjectStorage, logger *zap.Logger) *MediaStore {
	return &MediaStore{storage: store, logger: logger}
}

func (m *MediaStore) Enabled() bool {
	return m != nil && m.storage != nil
}

func (m *MediaStore) Save(ctx context.Context, folder string, up *Upload) (string, error) {
	if !m.Enabled() {
		return "", fmt.Errorf("media storage is not configured: %w", common.ErrUnavailable)
	}
	key := storage.ObjectName(folder, up.Filename)
	if err := m.storage.Upload(ctx, key, up.Reader, up.Size, up.ContentType); err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return key, nil
}

// URL presigns key; failures are logged and yield "".
func (m *MediaStore) URL(ctx context.Context, key string) string {
	if key == "" || !m.Enabled() {
		return ""
	}
	u, err := m.storage.PresignedURL(ctx, key)
	if err != nil {
		m.logger.Warn("presign failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return u
}

// Remove deletes a replaced object; errors are only logged.
func (m *MediaStore) Remove(ctx context.Context, key string) {
	if key == "" || !m.Enabled() {
		return
	}
	if err := m.storage.Delete(ctx, key); err != nil {
		m.logger.Warn("failed to delete object", zap.String("key", key), zap.Error(err))
	}
}
