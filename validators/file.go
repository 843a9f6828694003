// Package validators checks uploads before they cost anything
package validators

import (
	"mime/multipart"
	"net/http"
	"slices"

	"droplink/share-api/internal/service"

	"github.com/gabriel-vasile/mimetype"
	"github.com/spf13/viper"
)

// FileValidator rejects a multipart upload that can't possibly be
// accepted: too big, name too long, or a type outside the configured
// allow list. Returns the http status to answer with, the opened file
// and the sentinel error.
func FileValidator(fh *multipart.FileHeader) (int, multipart.File, error) {
	if fh == nil {
		return http.StatusBadRequest, nil, service.ErrInvalidFilename
	}

	if fh.Filename == "" || len(fh.Filename) > viper.GetInt("upload.max_filename") {
		return http.StatusBadRequest, nil, service.ErrInvalidFilename
	}

	// No lower bound: an empty file is a legitimate share
	if fh.Size < 0 || fh.Size > viper.GetInt64("upload.max_size") {
		return http.StatusRequestEntityTooLarge, nil, service.ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return http.StatusInternalServerError, nil, err
	}

	allowed := viper.GetStringSlice("upload.allowed_types")
	if len(allowed) == 0 {
		// No allow list configured, anything goes
		return 0, f, nil
	}

	// The declared header is easy to spoof but cheap to check, so it
	// gets first say before sniffing actual bytes
	if slices.Contains(allowed, fh.Header.Get("Content-Type")) {
		return 0, f, nil
	}

	mime, err := mimetype.DetectReader(f)
	if err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	if _, err := f.Seek(0, 0); err != nil {
		f.Close()
		return http.StatusInternalServerError, nil, err
	}

	for _, t := range allowed {
		if mime.Is(t) {
			return 0, f, nil
		}
	}

	f.Close()
	return http.StatusUnsupportedMediaType, nil, service.ErrUnsupportedType
}
