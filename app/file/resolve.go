package file

import (
	"errors"
	"net/http"

	"droplink/share-api/internal"
	"droplink/share-api/internal/service"

	"github.com/gin-gonic/gin"
)

type resolveBody struct {
	Password string `json:"password"`
}

// FileResolve exchanges a share token (and password, when set) for a
// time-limited signed URL. The actual byte transfer happens straight
// against R2, never through this service.
func FileResolve(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fileID := c.Param("id")
	if fileID == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file ID provided",
			"requestID": requestID,
		})
		return
	}

	var body resolveBody
	// Empty body is fine, password stays ""
	_ = c.ShouldBindJSON(&body)

	resolved, err := d.Access.Resolve(c.Request.Context(), fileID, body.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPassword) {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":     "Invalid password",
				"requestID": requestID,
			})
			return
		}

		if errors.Is(err, service.ErrSignedURL) {
			c.JSON(http.StatusBadGateway, gin.H{
				"error":     "Failed to issue download link. Please try again",
				"requestID": requestID,
			})
			return
		}

		respondInfoErr(c, requestID, fileID, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"signedUrl": resolved.SignedURL,
		"filename":  resolved.Filename,
	})
}
