package filestore

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// Disk stores files in a local directory and serves them under a public
// URL prefix (wired to a gin static route by the server).
type Disk struct {
	Dir          string
	PublicPrefix string
	MaxBytes     int64
}

func NewDisk(dir, publicPrefix string, maxBytes int64) (*Disk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &Disk{Dir: dir, PublicPrefix: strings.TrimRight(publicPrefix, "/"), MaxBytes: maxBytes}, nil
}

func (d *Disk) Store(ctx context.Context, r io.Reader, filename, contentType string) (string, error) {
	if err := CheckImageType(contentType); err != nil {
		return "", err
	}
	name := GenerateName(filename)
	path := filepath.Join(d.Dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	// Copy at most MaxBytes+1 so an oversized upload is detected without
	// buffering it all; the partial file is removed on failure.
	n, err := io.Copy(f, io.LimitReader(r, d.MaxBytes+1))
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", err
	}
	if n > d.MaxBytes {
		_ = os.Remove(path)
		return "", ErrTooLarge
	}
	return name, nil
}

func (d *Disk) Delete(ctx context.Context, ref string) error {
	if ref == "" {
		return nil
	}
	// References are bare generated names; refuse anything that tries to
	// escape the upload directory.
	if filepath.Base(ref) != ref {
		return nil
	}
	err := os.Remove(filepath.Join(d.Dir, ref))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

func (d *Disk) PublicURL(ref string) string {
	if ref == "" {
		return ""
	}
	return d.PublicPrefix + "/" + ref
}

var _ Store = (*Disk)(nil)
