// Package filestore stores uploaded images under generated names and hands
// out opaque references. References are recorded on articles and leads and
// resolved to public URLs at the HTTP boundary.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrTooLarge is returned when an upload exceeds the configured size cap.
	ErrTooLarge = errors.New("file too large")
	// ErrUnsupportedType is returned for non-image uploads.
	ErrUnsupportedType = errors.New("unsupported file type")
)

// Store is the blob-store contract consumed by the media-linked services.
// Delete is a no-op when the reference no longer exists.
type Store interface {
	Store(ctx context.Context, r io.Reader, filename, contentType string) (string, error)
	Delete(ctx context.Context, ref string) error
	PublicURL(ref string) string
}

// CheckImageType rejects anything that is not an image MIME type.
func CheckImageType(contentType string) error {
	if !strings.HasPrefix(strings.ToLower(strings.TrimSpace(contentType)), "image/") {
		return ErrUnsupportedType
	}
	return nil
}

// GenerateName builds a collision-free object name from the upload time, a
// random suffix, and the original extension. Only the extension of the
// client-supplied filename is kept, which also defuses path traversal.
func GenerateName(filename string) string {
	ext := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	suffix := strings.Split(uuid.NewString(), "-")[0]
	return fmt.Sprintf("%d_%s%s", time.Now().UnixNano(), suffix, ext)
}
