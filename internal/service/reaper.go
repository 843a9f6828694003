package service

import (
	"context"
	"time"

	"droplink/share-api/internal/store"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reaper is an optional background sweep deleting files past their
// retention window. Liveness checks at access time stay the source of
// truth; the reaper only reclaims storage that would otherwise sit
// around until an admin noticed.
type Reaper struct {
	Files     *store.FileStore
	Lifecycle *Lifecycle

	cron *cron.Cron
}

func NewReaper(files *store.FileStore, lc *Lifecycle) *Reaper {
	return &Reaper{Files: files, Lifecycle: lc}
}

// Start schedules sweeps with a cron expression (robfig syntax,
// "@hourly" by default). Returns after registering; sweeps run on the
// cron's own goroutine.
func (r *Reaper) Start(schedule string) error {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() { r.Sweep(context.Background()) })
	if err != nil {
		return err
	}

	c.Start()
	r.cron = c

	zap.L().Info("Reaper attached", zap.String("schedule", schedule))
	return nil
}

func (r *Reaper) Stop() {
	if r.cron != nil {
		r.cron.Stop()
	}
}

// Sweep deletes everything expired right now. Failures on individual
// files are logged and skipped so one stuck blob can't wedge the sweep.
func (r *Reaper) Sweep(ctx context.Context) {
	expired, err := r.Files.ListExpired(ctx, time.Now())
	if err != nil {
		zap.L().Error("Reaper failed to list expired files", zap.Error(err))
		return
	}

	if len(expired) == 0 {
		return
	}

	var reaped int
	for _, f := range expired {
		if err := r.Lifecycle.Delete(ctx, f.ID); err != nil {
			zap.L().Error("Reaper failed to delete file", zap.String("fileID", f.ID), zap.Error(err))
			continue
		}
		reaped++
	}

	zap.L().Info("Reaper sweep finished", zap.Int("expired", len(expired)), zap.Int("deleted", reaped))
}
