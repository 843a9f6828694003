// Package service implements the upload and download lifecycle: quota
// admission, object placement, metadata persistence, expiry and
// password-gated link issuance.
package service

import "errors"

// Sentinel errors handlers translate into HTTP responses. Anything not
// in this list is an internal failure and surfaces as a generic 500.
var (
	ErrFileTooLarge     = errors.New("file too large")
	ErrInvalidFilename  = errors.New("file name invalid or too long")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrRateLimited      = errors.New("daily upload limit reached")
	ErrStorageWrite     = errors.New("failed to store file")
	ErrMetadataWrite    = errors.New("failed to save file metadata")
	ErrNotFound         = errors.New("file not found")
	ErrExpired          = errors.New("file expired")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrSignedURL        = errors.New("failed to issue download link")
	ErrStoreUnavailable = errors.New("metadata store unavailable")
)
