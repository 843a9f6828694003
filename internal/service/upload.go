package service

import (
	"context"
	"io"
	"strings"
	"time"

	"droplink/share-api/internal/model"
	"droplink/share-api/internal/store"
	"droplink/share-api/pkg/security"
	"droplink/share-api/pkg/util"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Uploader runs the whole admission pipeline for one anonymous upload:
// validation, daily quota, blob write, optional password hash, record
// insert. One long-lived instance per process, injected into handlers.
type Uploader struct {
	Files   *store.FileStore
	Objects ObjectStore
	Argon   *security.ArgonHash
	Quota   *QuotaLimiter

	MaxSize     int64
	MaxFilename int

	Now func() time.Time
}

func NewUploader(files *store.FileStore, objects ObjectStore, argon *security.ArgonHash, quota *QuotaLimiter) *Uploader {
	return &Uploader{
		Files:       files,
		Objects:     objects,
		Argon:       argon,
		Quota:       quota,
		MaxSize:     viper.GetInt64("upload.max_size"),
		MaxFilename: viper.GetInt("upload.max_filename"),
		Now:         time.Now,
	}
}

type UploadInput struct {
	Body        io.Reader
	Size        int64
	Filename    string
	ContentType string
	OriginID    string
	Password    string
}

// Do validates, admits and stores one upload. On success it returns the
// persisted record plus the origin's remaining daily uploads.
//
// Ordering matters: everything that can be rejected for free happens
// before the quota is consumed, and the quota before any bytes move.
func (u *Uploader) Do(ctx context.Context, in UploadInput) (*model.File, int, error) {
	if in.Size < 0 || in.Size > u.MaxSize {
		return nil, 0, ErrFileTooLarge
	}

	if in.Filename == "" || len(in.Filename) > u.MaxFilename {
		return nil, 0, ErrInvalidFilename
	}

	allowed, remaining := u.Quota.Admit(ctx, in.OriginID)
	if !allowed {
		return nil, 0, ErrRateLimited
	}

	contentType := in.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	key := util.ObjectKey(in.Filename)

	// A failed blob write aborts the upload with no metadata side
	// effect, so there is never a record pointing at nothing.
	if err := u.Objects.Put(ctx, key, in.Body, in.Size, contentType); err != nil {
		zap.L().Error("Blob write failed",
			zap.String("key", key),
			zap.Error(err))
		return nil, 0, ErrStorageWrite
	}

	var passwordHash string
	if pw := strings.TrimSpace(in.Password); pw != "" {
		hash, err := u.Argon.Hash(pw)
		if err != nil {
			zap.L().Error("Failed to hash share password", zap.Error(err))
			return nil, 0, ErrMetadataWrite
		}
		passwordHash = hash
	}

	id, err := gonanoid.New()
	if err != nil {
		return nil, 0, ErrMetadataWrite
	}

	now := u.Now()
	file := &model.File{
		ID:           id,
		OriginalName: in.Filename,
		ObjectKey:    key,
		PasswordHash: passwordHash,
		UploaderIP:   in.OriginID,
		Size:         in.Size,
		ContentType:  contentType,
		IsActive:     true,
		CreatedAt:    now.Unix(),
		ExpiresAt:    ExpiryFrom(now).Unix(),
	}

	if err := u.Files.Create(ctx, file); err != nil {
		// The blob already landed. No rollback here, a distributed
		// transaction isn't worth it for an orphan the reconciliation
		// tooling can find from this log line.
		zap.L().Error("File record insert failed after blob write, orphaned object left behind",
			zap.String("key", key),
			zap.Error(err))
		return nil, 0, ErrMetadataWrite
	}

	return file, remaining, nil
}
