package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"droplink/share-api/internal"
	"droplink/share-api/internal/model"
	"droplink/share-api/internal/service"
	"droplink/share-api/internal/store"
	"droplink/share-api/pkg/middleware"
	"droplink/share-api/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type nullObjects struct{}

func (nullObjects) Put(context.Context, string, io.Reader, int64, string) error { return nil }
func (nullObjects) SignedGetURL(context.Context, string, time.Duration) (string, error) {
	return "", errors.New("not implemented")
}
func (nullObjects) Delete(context.Context, string) error { return nil }

func newAdminRouter(t *testing.T) (*gin.Engine, *internal.Deps) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	viper.Set("database.timeout", 5)
	viper.Set("admin.password", "correct horse")
	viper.Set("admin.jwt_secret", "test-secret")

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, gdb.AutoMigrate(model.File{}, model.UploadQuota{}))

	d := &internal.Deps{
		DB:      gdb,
		Files:   store.NewFileStore(gdb),
		Quotas:  store.NewQuotaStore(gdb),
		Argon:   security.New(),
		Objects: nullObjects{},
	}
	d.Lifecycle = service.NewLifecycle(d.Files, d.Objects)

	r := gin.New()
	r.Use(middleware.NewRequestIDMiddleware())

	r.POST("/api/admin/login", func(c *gin.Context) { Login(c, d) })

	authed := r.Group("/api/admin", middleware.NewAdminJWTMiddleware())
	authed.GET("/files", func(c *gin.Context) { ListFiles(c, d) })
	authed.DELETE("/files/:id", func(c *gin.Context) { DeleteFile(c, d) })

	return r, d
}

func login(t *testing.T, r *gin.Engine, password string) (*httptest.ResponseRecorder, *http.Cookie) {
	t.Helper()

	body, _ := json.Marshal(gin.H{"password": password})
	req := httptest.NewRequest("POST", "/api/admin/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	for _, ck := range rec.Result().Cookies() {
		if ck.Name == "admin_token" {
			return rec, ck
		}
	}
	return rec, nil
}

func seedFile(t *testing.T, d *internal.Deps, id string, expiresAt int64) {
	t.Helper()
	require.NoError(t, d.DB.Create(&model.File{
		ID:           id,
		OriginalName: id + ".bin",
		ObjectKey:    "obj-" + id,
		UploaderIP:   "203.0.113.9",
		Size:         42,
		ContentType:  "application/octet-stream",
		IsActive:     true,
		CreatedAt:    time.Now().Unix(),
		ExpiresAt:    expiresAt,
	}).Error)
}

func TestLogin(t *testing.T) {
	r, _ := newAdminRouter(t)

	rec, cookie := login(t, r, "wrong")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Nil(t, cookie)

	rec, cookie = login(t, r, "correct horse")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, cookie)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestListFiles_RequiresSession(t *testing.T) {
	r, _ := newAdminRouter(t)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest("GET", "/api/admin/files", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest("GET", "/api/admin/files", nil)
	req.AddCookie(&http.Cookie{Name: "admin_token", Value: "garbage"})
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListFiles_IncludesExpired(t *testing.T) {
	r, d := newAdminRouter(t)

	seedFile(t, d, "live1", time.Now().Add(time.Hour).Unix())
	seedFile(t, d, "stale", time.Now().Add(-time.Hour).Unix())

	_, cookie := login(t, r, "correct horse")
	require.NotNil(t, cookie)

	req := httptest.NewRequest("GET", "/api/admin/files", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Files []map[string]any `json:"files"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Files, 2)

	byID := map[string]map[string]any{}
	for _, f := range body.Files {
		byID[f["id"].(string)] = f
	}
	assert.Equal(t, false, byID["live1"]["expired"])
	assert.Equal(t, true, byID["stale"]["expired"])
}

func TestDeleteFile(t *testing.T) {
	r, d := newAdminRouter(t)

	seedFile(t, d, "gone", time.Now().Add(time.Hour).Unix())

	_, cookie := login(t, r, "correct horse")
	require.NotNil(t, cookie)

	req := httptest.NewRequest("DELETE", "/api/admin/files/gone", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	err := d.DB.First(&model.File{}, "id = ?", "gone").Error
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// Second delete of the same ID
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
