package service

import (
	"context"
	"errors"

	"droplink/share-api/internal/store"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Lifecycle removes files. Used by the admin delete endpoint and the
// reaper; expiry itself never calls this, it's enforced lazily at read
// time.
type Lifecycle struct {
	Files   *store.FileStore
	Objects ObjectStore
}

func NewLifecycle(files *store.FileStore, objects ObjectStore) *Lifecycle {
	return &Lifecycle{Files: files, Objects: objects}
}

// Delete removes the blob and the record. The blob delete is attempted
// first but never blocks the metadata delete: a leftover blob nobody
// can reach beats an undeletable record.
func (l *Lifecycle) Delete(ctx context.Context, fileID string) error {
	f, err := l.Files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return ErrStoreUnavailable
	}

	if err := l.Objects.Delete(ctx, f.ObjectKey); err != nil {
		zap.L().Error("Blob delete failed, removing metadata anyway",
			zap.String("fileID", fileID),
			zap.String("key", f.ObjectKey),
			zap.Error(err))
	}

	if err := l.Files.Delete(ctx, fileID); err != nil {
		zap.L().Error("Failed to delete file record", zap.String("fileID", fileID), zap.Error(err))
		return ErrMetadataWrite
	}

	return nil
}
