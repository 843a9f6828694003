package admin

import (
	"errors"
	"net/http"

	"droplink/share-api/internal"
	"droplink/share-api/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DeleteFile removes a file's blob and record. The blob delete may fail
// without aborting the metadata delete; see service.Lifecycle.
func DeleteFile(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fileID := c.Param("id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "ID is missing",
			"requestID": requestID,
		})
		return
	}

	err := d.Lifecycle.Delete(c.Request.Context(), fileID)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     "File not found",
				"requestID": requestID,
			})
			return
		}

		c.JSON(http.StatusInternalServerError, gin.H{
			"error":     "Internal server error",
			"requestID": requestID,
		})

		zap.L().Error("Failed to delete file", zap.String("fileID", fileID), zap.Error(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": fileID})
}
