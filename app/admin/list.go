package admin

import (
	"net/http"
	"time"

	"droplink/share-api/internal"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ListFiles returns every record, newest first, including inactive and
// expired ones. The admin screen is where expired leftovers get found
// and deleted, so nothing is filtered out here.
func ListFiles(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	files, err := d.Files.ListAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to list files", zap.String("requestID", requestID), zap.Error(err))
		return
	}

	now := time.Now().Unix()

	out := make([]gin.H, 0, len(files))
	for _, f := range files {
		out = append(out, gin.H{
			"id":               f.ID,
			"filename":         f.OriginalName,
			"size":             f.Size,
			"contentType":      f.ContentType,
			"uploaderIp":       f.UploaderIP,
			"downloads":        f.Downloads,
			"passwordRequired": f.PasswordRequired(),
			"isActive":         f.IsActive,
			"expired":          now >= f.ExpiresAt,
			"createdAt":        f.CreatedAt,
			"expiresAt":        f.ExpiresAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"files": out})
}
