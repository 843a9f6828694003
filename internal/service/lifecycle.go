package service

import (
	"time"

	"droplink/share-api/internal/model"

	"github.com/spf13/viper"
)

// Expiry policy. Pure functions, no state: the expiry timestamp is
// computed exactly once at upload time and liveness is re-derived from
// it on every read. There is no stored "expired" flag to desync.

// Retention is how long an upload stays retrievable.
func Retention() time.Duration {
	return time.Duration(viper.GetInt("links.retention_hours")) * time.Hour
}

// ExpiryFrom returns the fixed expiry for a file created at t.
func ExpiryFrom(t time.Time) time.Time {
	return t.Add(Retention())
}

// Live reports whether f can still be resolved: active and not past
// its expiry. IsActive is only ever flipped by an explicit delete.
func Live(f *model.File, now time.Time) bool {
	return f.IsActive && now.Unix() < f.ExpiresAt
}
