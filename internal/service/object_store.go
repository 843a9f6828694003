package service

import (
	"context"
	"io"
	"time"
)

// ObjectStore is the capability the lifecycle needs from the blob
// backend. cloudflare.R2Client implements it; tests swap in a fake.
// The backend owns raw bytes only and knows nothing about file records.
type ObjectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	SignedGetURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}
