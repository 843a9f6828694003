package store

import (
	"context"
	"time"

	"droplink/share-api/internal/model"

	"github.com/spf13/viper"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuotaStore struct {
	db *gorm.DB

	// Same query ceiling as the file store
	Timeout time.Duration
}

func NewQuotaStore(db *gorm.DB) *QuotaStore {
	return &QuotaStore{
		db:      db,
		Timeout: time.Duration(viper.GetInt("database.timeout")) * time.Second,
	}
}

// Admit counts one upload for originID on day today (2006-01-02) and
// reports whether it fit under limit, plus the count after admission.
//
// Every step is a single conditional statement, never a read followed
// by a write: two racing requests at count = limit-1 can't both slip
// through, the second increment's WHERE clause simply won't match.
func (s *QuotaStore) Admit(ctx context.Context, originID, today string, limit int) (bool, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	db := s.db.WithContext(ctx)

	// First upload ever seen from this origin
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&model.UploadQuota{
		OriginID:       originID,
		UploadCount:    1,
		LastUploadDate: today,
	})
	if res.Error != nil {
		return false, 0, res.Error
	}
	if res.RowsAffected == 1 {
		return true, 1, nil
	}

	// Day rollover resets the counter to exactly this upload. If two
	// requests race here the loser's date guard no longer matches and
	// it falls through to the increment below.
	res = db.Model(model.UploadQuota{}).
		Where("origin_id = ? AND last_upload_date <> ?", originID, today).
		Updates(map[string]any{"upload_count": 1, "last_upload_date": today})
	if res.Error != nil {
		return false, 0, res.Error
	}
	if res.RowsAffected == 1 {
		return true, 1, nil
	}

	// Same-day increment, only while below the ceiling
	res = db.Model(model.UploadQuota{}).
		Where("origin_id = ? AND last_upload_date = ? AND upload_count < ?", originID, today, limit).
		Update("upload_count", gorm.Expr("upload_count + 1"))
	if res.Error != nil {
		return false, 0, res.Error
	}
	if res.RowsAffected == 0 {
		return false, limit, nil
	}

	var q model.UploadQuota
	if err := db.First(&q, "origin_id = ?", originID).Error; err != nil {
		// The increment already landed, so this is an admit no matter
		// what the readback says. Report the ceiling as an approximate
		// count rather than bubbling an error the caller would treat
		// as a failed check.
		zap.L().Warn("Quota count readback failed after admit",
			zap.String("origin", originID),
			zap.Error(err))
		return true, limit, nil
	}

	return true, q.UploadCount, nil
}
