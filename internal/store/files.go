// Package store is the metadata layer. It owns the file and quota
// tables; nothing else touches gorm directly.
package store

import (
	"context"
	"time"

	"droplink/share-api/internal/model"

	"github.com/jellydator/ttlcache/v2"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Point lookups on the resolve path hit this cache first. The TTL is
// short on purpose: liveness is derived from expires_at at read time,
// so a cached record can never revive an expired file, and deletes
// invalidate explicitly.
const fileCacheTTL = 30 * time.Second

type FileStore struct {
	db    *gorm.DB
	cache *ttlcache.Cache

	// Ceiling for every query so a stalled database can't hang a
	// request forever
	Timeout time.Duration
}

func NewFileStore(db *gorm.DB) *FileStore {
	cache := ttlcache.NewCache()
	cache.SetTTL(fileCacheTTL)
	cache.SkipTTLExtensionOnHit(true)

	return &FileStore{
		db:      db,
		cache:   cache,
		Timeout: time.Duration(viper.GetInt("database.timeout")) * time.Second,
	}
}

func (s *FileStore) Create(ctx context.Context, f *model.File) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	return s.db.WithContext(ctx).Create(f).Error
}

// GetByID returns gorm.ErrRecordNotFound for missing rows; callers map
// that to their own sentinel.
func (s *FileStore) GetByID(ctx context.Context, id string) (*model.File, error) {
	if v, err := s.cache.Get(id); err == nil {
		f := v.(model.File)
		return &f, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var f model.File
	err := s.db.WithContext(ctx).First(&f, "id = ?", id).Error
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(id, f); err != nil {
		zap.L().Debug("Failed to cache file record", zap.Error(err))
	}

	return &f, nil
}

// IncrementDownloads bumps the counter in a single statement. Lost
// updates under concurrency would be tolerable (the counter is
// informational) but the atomic form costs nothing.
func (s *FileStore) IncrementDownloads(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	err := s.db.WithContext(ctx).
		Model(model.File{}).
		Where("id = ?", id).
		Update("downloads", gorm.Expr("downloads + 1")).
		Error
	if err == nil {
		s.cache.Remove(id)
	}
	return err
}

func (s *FileStore) Delete(ctx context.Context, id string) error {
	s.cache.Remove(id)

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	return s.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(model.File{}).
		Error
}

func (s *FileStore) Deactivate(ctx context.Context, id string) error {
	s.cache.Remove(id)

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	return s.db.WithContext(ctx).
		Model(model.File{}).
		Where("id = ?", id).
		Update("is_active", false).
		Error
}

// ListAll feeds the admin listing, newest first.
func (s *FileStore) ListAll(ctx context.Context) ([]model.File, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var files []model.File
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&files).
		Error
	return files, err
}

// ListExpired returns files whose retention window has passed,
// regardless of is_active. Used by the reaper.
func (s *FileStore) ListExpired(ctx context.Context, now time.Time) ([]model.File, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	var files []model.File
	err := s.db.WithContext(ctx).
		Where("expires_at <= ?", now.Unix()).
		Find(&files).
		Error
	return files, err
}
