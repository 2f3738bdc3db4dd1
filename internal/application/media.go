package application

import (
	"context"
	"io"

	"github.com/sirupsen/logrus"

	"github.com/portalnorte/noticias-backend/pkg/filestore"
)

// Upload is an optional attached file as it arrives from a multipart form.
type Upload struct {
	Reader      io.Reader
	Filename    string
	ContentType string
}

// storeUpload writes the upload into the file store and returns its
// reference. A nil upload yields an empty reference.
func storeUpload(ctx context.Context, fs filestore.Store, up *Upload) (string, error) {
	if up == nil {
		return "", nil
	}
	return fs.Store(ctx, up.Reader, up.Filename, up.ContentType)
}

// dropImage removes a previously referenced file. Cleanup is best-effort:
// a missing file never fails the surrounding operation.
func dropImage(ctx context.Context, fs filestore.Store, logger *logrus.Logger, ref string) {
	if ref == "" {
		return
	}
	if err := fs.Delete(ctx, ref); err != nil && logger != nil {
		logger.WithError(err).WithField("image", ref).Warn("orphan image cleanup failed")
	}
}
