package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"droplink/share-api/internal/model"
	"droplink/share-api/internal/store"
	"droplink/share-api/pkg/security"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Access turns a share token (plus password, when one was set) into a
// short-lived signed download URL.
type Access struct {
	Files   *store.FileStore
	Objects ObjectStore
	Argon   *security.ArgonHash

	SignedTTL time.Duration

	Now func() time.Time
}

func NewAccess(files *store.FileStore, objects ObjectStore, argon *security.ArgonHash) *Access {
	return &Access{
		Files:     files,
		Objects:   objects,
		Argon:     argon,
		SignedTTL: time.Duration(viper.GetInt("links.signed_ttl_minutes")) * time.Minute,
		Now:       time.Now,
	}
}

type ResolvedFile struct {
	SignedURL string
	Filename  string
}

// Info returns the record behind a share token for the download page.
// Missing, expired and deleted all fail the same way outward so a
// token's past existence is never leaked; ErrNotFound vs ErrExpired is
// kept internally for logs and tests.
func (a *Access) Info(ctx context.Context, fileID string) (*model.File, error) {
	f, err := a.Files.GetByID(ctx, fileID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, ErrStoreUnavailable
	}

	if !Live(f, a.Now()) {
		return nil, ErrExpired
	}

	return f, nil
}

// Resolve checks liveness and the password gate, then issues the signed
// URL. The signed TTL is deliberately much shorter than the file's own
// retention window.
func (a *Access) Resolve(ctx context.Context, fileID, password string) (*ResolvedFile, error) {
	f, err := a.Info(ctx, fileID)
	if err != nil {
		return nil, err
	}

	if f.PasswordRequired() {
		pw := strings.TrimSpace(password)
		if pw == "" {
			return nil, ErrInvalidPassword
		}

		ok, err := a.Argon.Verify(pw, f.PasswordHash)
		if err != nil {
			zap.L().Error("Password verification failed", zap.String("fileID", fileID), zap.Error(err))
			return nil, ErrInvalidPassword
		}
		if !ok {
			return nil, ErrInvalidPassword
		}
	}

	url, err := a.Objects.SignedGetURL(ctx, f.ObjectKey, a.SignedTTL)
	if err != nil {
		zap.L().Error("Failed to presign download", zap.String("fileID", fileID), zap.Error(err))
		return nil, ErrSignedURL
	}

	// Best effort only. A broken counter must never block a download
	// that already has a valid URL.
	if err := a.Files.IncrementDownloads(ctx, fileID); err != nil {
		zap.L().Warn("Failed to increment download counter", zap.String("fileID", fileID), zap.Error(err))
	}

	return &ResolvedFile{
		SignedURL: url,
		Filename:  f.OriginalName,
	}, nil
}
