package internal

import (
	"droplink/share-api/internal/service"
	"droplink/share-api/internal/store"
	"droplink/share-api/pkg/security"

	"gorm.io/gorm"
)

// Deps holds the long-lived collaborators, constructed once at startup
// and passed into every handler. Nothing here is rebuilt per request.
type Deps struct {
	DB     *gorm.DB
	Files  *store.FileStore
	Quotas *store.QuotaStore
	Argon  *security.ArgonHash

	Objects   service.ObjectStore
	Uploader  *service.Uploader
	Access    *service.Access
	Lifecycle *service.Lifecycle
}
