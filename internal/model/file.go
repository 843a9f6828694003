// Package model defines database models
package model

type File struct {
	// Nanoid handed out as the public share token. Guessing it is the
	// only way to reach a file, so it has to stay unpredictable.
	ID string `gorm:"primaryKey" json:"id"`

	// Original file name before turning it into a special R2 key.
	// Only ever used as the suggested save-as name, never as a path.
	OriginalName string `json:"name"`

	// Since senders can upload files with the same name we keep the R2
	// objects under a server-generated key
	ObjectKey string `gorm:"uniqueIndex" json:"-"`

	// Empty string means the file isn't password protected
	PasswordHash string `json:"-"`

	UploaderIP  string `json:"-"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
	Downloads   int64  `json:"downloads"`

	// Flipped only by an explicit delete. Expiry is never written back
	// here, it's derived from expires_at on every read.
	IsActive bool `gorm:"default:true" json:"is_active"`

	// Unix second timestamps. expires_at is fixed once at creation
	CreatedAt int64 `gorm:"not null" json:"created_at"`
	ExpiresAt int64 `gorm:"not null" json:"expires_at"`
}

// PasswordRequired is what the download page checks before prompting
func (f *File) PasswordRequired() bool {
	return f.PasswordHash != ""
}
