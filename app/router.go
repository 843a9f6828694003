// Package app wires the HTTP surface together
package app

import (
	"context"
	"fmt"
	"time"

	"droplink/share-api/app/admin"
	"droplink/share-api/app/file"
	"droplink/share-api/app/root"
	"droplink/share-api/cloudflare"
	"droplink/share-api/db"
	"droplink/share-api/internal"
	"droplink/share-api/internal/service"
	"droplink/share-api/internal/store"
	"droplink/share-api/pkg/middleware"
	"droplink/share-api/pkg/security"

	cache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	gray  = "\x1b[90m"
	reset = "\x1b[0m"
)

func NewRouter() (*gin.Engine, error) {
	makeLogger()

	d := &internal.Deps{}

	gdb, err := db.New()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}
	d.DB = gdb
	d.Files = store.NewFileStore(gdb)
	d.Quotas = store.NewQuotaStore(gdb)
	d.Argon = security.New()

	r2, err := cloudflare.NewR2()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize R2 client, %w", err)
	}
	d.Objects = r2

	quota := service.NewQuotaLimiter(d.Quotas, viper.GetInt("quota.daily_limit"))
	d.Uploader = service.NewUploader(d.Files, d.Objects, d.Argon, quota)
	d.Access = service.NewAccess(d.Files, d.Objects, d.Argon)
	d.Lifecycle = service.NewLifecycle(d.Files, d.Objects)

	if viper.GetBool("reaper.enabled") {
		reaper := service.NewReaper(d.Files, d.Lifecycle)
		if err := reaper.Start(viper.GetString("reaper.schedule")); err != nil {
			return nil, fmt.Errorf("failed to start reaper, %w", err)
		}

		if viper.GetBool("reaper.run_on_start") {
			go reaper.Sweep(context.Background())
		}
	}

	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     viper.GetStringSlice("host.cors_origins"),
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
			ExposeHeaders:    []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true
	router.MaxMultipartMemory = 8 << 20

	burst := viper.GetInt("quota.burst_rps")
	rateLimiter := middleware.RateLimiterMiddleware(middleware.RateLimiterConfig{
		RequestsPerSecond: burst,
		Burst:             burst * 2,
		CleanupInterval:   time.Minute,
	})

	adminJWT := middleware.NewAdminJWTMiddleware()
	maxUploadSize := viper.GetInt64("upload.max_size")
	cacheStore := makeCacheStore()

	m := router.Group("/api", rateLimiter)
	{
		// HEAD /api/heartbeat		-> Used to check if the server is alive
		m.HEAD("/heartbeat", root.Heartbeat)
	}

	ff := m.Group("/files")
	{
		// POST /api/files		-> Anonymous upload, returns the share link
		// The extra MiB leaves room for the multipart framing around a max-size file
		ff.POST("", middleware.BodySizeLimiter(maxUploadSize+1<<20), func(c *gin.Context) { file.FileUpload(c, d) })

		// GET /api/files/:id		-> Metadata for the download page
		ff.GET("/:id", func(c *gin.Context) { file.FileInfo(c, d) })

		// POST /api/files/:id/resolve	-> Password check + signed download URL
		ff.POST("/:id/resolve", middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { file.FileResolve(c, d) })
	}

	ad := m.Group("/admin")
	{
		// POST /api/admin/login	-> Trades the shared credential for a session token
		ad.POST("/login", middleware.BodySizeLimiter(1<<20), func(c *gin.Context) { admin.Login(c, d) })

		// GET /api/admin/files		-> Lists every record, expired included
		ad.GET("/files", adminJWT, cache.CacheByRequestURI(cacheStore, 15*time.Second), func(c *gin.Context) { admin.ListFiles(c, d) })

		// DELETE /api/admin/files/:id	-> Deletes blob + record
		ad.DELETE("/files/:id", adminJWT, func(c *gin.Context) { admin.DeleteFile(c, d) })
	}

	return router, nil
}

// makeCacheStore picks redis when configured so cached responses
// survive restarts and are shared between replicas, otherwise an
// in-memory store.
func makeCacheStore() persist.CacheStore {
	if addr := viper.GetString("cache.redis_addr"); addr != "" {
		return persist.NewRedisStore(redis.NewClient(&redis.Options{Addr: addr}))
	}

	return persist.NewMemoryStore(time.Minute)
}

func makeLogger() {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	cfg.EncoderConfig.EncodeTime = func(t time.Time, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + t.Format("15:04:05.000") + reset)
	}
	cfg.EncoderConfig.EncodeCaller = func(ec zapcore.EntryCaller, pae zapcore.PrimitiveArrayEncoder) {
		pae.AppendString(gray + ec.TrimmedPath() + reset)
	}

	cfg.DisableStacktrace = true

	log, _ := cfg.Build()
	zap.ReplaceGlobals(log)
}
