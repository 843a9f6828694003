package service

import (
	"context"
	"time"

	"droplink/share-api/internal/store"

	"go.uber.org/zap"
)

// QuotaLimiter enforces the per-origin daily upload quota on top of the
// quota table. The origin identifier comes from forwarded headers and
// is attacker-controllable; this is an abuse deterrent, not a security
// boundary.
type QuotaLimiter struct {
	Quotas *store.QuotaStore
	Limit  int

	// Overridable for tests
	Now func() time.Time
}

func NewQuotaLimiter(quotas *store.QuotaStore, limit int) *QuotaLimiter {
	return &QuotaLimiter{
		Quotas: quotas,
		Limit:  limit,
		Now:    time.Now,
	}
}

// Admit decides whether originID may upload today and how many uploads
// it has left. A quota store failure fails OPEN: losing an upload to a
// flaky counter table is worse than letting one extra through.
func (l *QuotaLimiter) Admit(ctx context.Context, originID string) (allowed bool, remaining int) {
	today := l.Now().UTC().Format("2006-01-02")

	ok, count, err := l.Quotas.Admit(ctx, originID, today, l.Limit)
	if err != nil {
		zap.L().Error("Quota check failed, allowing upload",
			zap.String("origin", originID),
			zap.Error(err))
		return true, l.Limit
	}

	if !ok {
		return false, 0
	}

	return true, l.Limit - count
}
