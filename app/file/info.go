package file

import (
	"errors"
	"net/http"

	"droplink/share-api/internal"
	"droplink/share-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// One message for missing, expired and deleted alike. Telling them
// apart would leak whether a token ever existed.
const msgNotAvailable = "File not found or no longer available"

// FileInfo backs the download page: enough metadata to render the
// prompt, nothing that grants access.
func FileInfo(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fileID := c.Param("id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file ID provided",
			"requestID": requestID,
		})
		return
	}

	f, err := d.Access.Info(c.Request.Context(), fileID)
	if err != nil {
		respondInfoErr(c, requestID, fileID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename":         f.OriginalName,
		"size":             f.Size,
		"contentType":      f.ContentType,
		"passwordRequired": f.PasswordRequired(),
		"downloads":        f.Downloads,
		"expiresAt":        f.ExpiresAt,
	})
}

func respondInfoErr(c *gin.Context, requestID, fileID string, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrExpired):
		c.JSON(http.StatusNotFound, gin.H{
			"error":     msgNotAvailable,
			"requestID": requestID,
		})
	case errors.Is(err, service.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"error":     "Service temporarily unavailable",
			"requestID": requestID,
		})

		zap.L().Error("Metadata store unavailable", zap.String("fileID", fileID), zap.Error(err))
	default:
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("File lookup failed", zap.String("fileID", fileID), zap.Error(err))
	}
}
