package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"droplink/share-api/internal/model"
	"droplink/share-api/internal/store"
	"droplink/share-api/pkg/security"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Discard,
	})
	require.NoError(t, err)

	// Every pooled connection to :memory: would get its own empty
	// database, so pin the pool to one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(model.File{}, model.UploadQuota{}))
	return db
}

func testConfig(t *testing.T) {
	t.Helper()

	viper.Set("database.timeout", 5)
	viper.Set("upload.max_size", int64(250)<<20)
	viper.Set("upload.max_filename", 255)
	viper.Set("quota.daily_limit", 10)
	viper.Set("links.retention_hours", 72)
	viper.Set("links.signed_ttl_minutes", 60)
}

// fakeObjectStore stands in for R2 in tests. It keeps blobs in memory
// and can be told to fail any of the three operations.
type fakeObjectStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	types   map[string]string

	failPut    bool
	failSign   bool
	failDelete bool

	lastTTL time.Duration
}

func newFakeObjectStore() *fakeObjectStore {
	return &fakeObjectStore{
		objects: map[string][]byte{},
		types:   map[string]string{},
	}
}

func (f *fakeObjectStore) Put(_ context.Context, key string, body io.Reader, size int64, contentType string) error {
	if f.failPut {
		return errors.New("put failed")
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = data
	f.types[key] = contentType
	return nil
}

func (f *fakeObjectStore) SignedGetURL(_ context.Context, key string, ttl time.Duration) (string, error) {
	if f.failSign {
		return "", errors.New("sign failed")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[key]; !ok {
		return "", errors.New("no such key")
	}

	f.lastTTL = ttl
	return fmt.Sprintf("https://r2.test/%s?signed=1", key), nil
}

func (f *fakeObjectStore) Delete(_ context.Context, key string) error {
	if f.failDelete {
		return errors.New("delete failed")
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	delete(f.types, key)
	return nil
}

func (f *fakeObjectStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.objects[key]
	return ok
}

func (f *fakeObjectStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

// stack bundles everything one service test needs.
type stack struct {
	db      *gorm.DB
	files   *store.FileStore
	quotas  *store.QuotaStore
	objects *fakeObjectStore
	argon   *security.ArgonHash

	uploader  *Uploader
	access    *Access
	lifecycle *Lifecycle
	limiter   *QuotaLimiter
}

func newStack(t *testing.T) *stack {
	t.Helper()
	testConfig(t)

	db := newTestDB(t)
	s := &stack{
		db:      db,
		files:   store.NewFileStore(db),
		quotas:  store.NewQuotaStore(db),
		objects: newFakeObjectStore(),
		argon:   security.New(),
	}

	s.limiter = NewQuotaLimiter(s.quotas, viper.GetInt("quota.daily_limit"))
	s.uploader = NewUploader(s.files, s.objects, s.argon, s.limiter)
	s.access = NewAccess(s.files, s.objects, s.argon)
	s.lifecycle = NewLifecycle(s.files, s.objects)

	return s
}

func (s *stack) upload(t *testing.T, name, password string, data []byte) *model.File {
	t.Helper()

	f, _, err := s.uploader.Do(context.Background(), UploadInput{
		Body:        bytes.NewReader(data),
		Size:        int64(len(data)),
		Filename:    name,
		ContentType: "text/plain",
		OriginID:    "198.51.100.7",
		Password:    password,
	})
	require.NoError(t, err)
	return f
}
