package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/portalnorte/noticias-backend/internal/application"
)

// uploadFromForm reads the optional "image" file from a multipart form.
// Returns (nil, nil, nil) when no file was attached; the caller must close
// the returned file when non-nil.
func uploadFromForm(c *gin.Context) (*application.Upload, multipart.File, error) {
	fh, err := c.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	f, err := fh.Open()
	if err != nil {
		return nil, nil, err
	}
	up := &application.Upload{
		Reader:      f,
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
	}
	return up, f, nil
}
