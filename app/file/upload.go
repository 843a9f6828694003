// Package file contains the public upload/download endpoints
package file

import (
	"errors"
	"fmt"
	"net/http"

	"droplink/share-api/internal"
	"droplink/share-api/internal/service"
	"droplink/share-api/pkg/util"
	"droplink/share-api/validators"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

func FileUpload(c *gin.Context, d *internal.Deps) {
	requestID := c.MustGet("requestID").(string)

	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":     "No file provided",
			"requestID": requestID,
		})
		return
	}

	code, f, err := validators.FileValidator(fh)
	if err != nil {
		if code == http.StatusInternalServerError {
			zap.L().Error("Failed to validate file", zap.String("requestID", requestID), zap.Error(err))
			err = errors.New("internal server error")
		}

		c.JSON(code, gin.H{
			"error":     err.Error(),
			"requestID": requestID,
		})
		return
	}
	defer f.Close()

	origin := util.OriginIP(c.Request)

	rec, remaining, err := d.Uploader.Do(c.Request.Context(), service.UploadInput{
		Body:        f,
		Size:        fh.Size,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		OriginID:    origin,
		Password:    c.PostForm("password"),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFileTooLarge):
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrInvalidFilename):
			c.JSON(http.StatusBadRequest, gin.H{
				"error":     err.Error(),
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrRateLimited):
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error":     "Upload limit exceeded. Try again tomorrow",
				"requestID": requestID,
			})
		case errors.Is(err, service.ErrStorageWrite):
			c.JSON(http.StatusBadGateway, gin.H{
				"error":     "Failed to store file. Please try again",
				"requestID": requestID,
			})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{
				"error":     "Internal server error",
				"requestID": requestID,
			})

			zap.L().Error("Upload failed", zap.String("requestID", requestID), zap.Error(err))
		}
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"fileId":           rec.ID,
		"downloadUrl":      fmt.Sprintf("%s/file/%s", viper.GetString("host.public_url"), rec.ID),
		"remainingUploads": remaining,
	})
}
