package model

// UploadQuota tracks uploads per origin (client IP) per calendar day.
// LastUploadDate is a date string (2006-01-02), not a timestamp: the
// counter only ever counts uploads attributed to that exact day and a
// rollover resets it instead of carrying anything over.
type UploadQuota struct {
	OriginID       string `gorm:"primaryKey" json:"origin_id"`
	UploadCount    int    `json:"upload_count"`
	LastUploadDate string `json:"last_upload_date"`
}
