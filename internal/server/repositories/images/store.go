// Package images stores the pictures attached to forum posts and replies,
// either in a local directory or in an S3-compatible bucket.
package images

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
	"time"

	"github.com/dmitrijs2005/cropcare/internal/common"
)

// Image is what Get hands back: an open body for locally stored images or a
// short-lived URL the client should be redirected to.
type Image struct {
	Body        io.ReadCloser
	ContentType string
	RedirectURL string
}

// ErrNameTaken is returned by Put when an image with that name already exists.
var ErrNameTaken = errors.New("image name taken")

type Store interface {
	Put(ctx context.Context, name string, body io.Reader, size int64, contentType string) error
	Get(ctx context.Context, name string) (*Image, error)
	Delete(ctx context.Context, name string) error
}

var allowedExt = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
}

var namePattern = regexp.MustCompile(`(?i)^[0-9]{20}(-[0-9]{1,3})?\.(jpg|jpeg|png)$`)

// Extension returns the lowercased extension of an uploaded file name if it
// is an accepted image type.
func Extension(filename string) (string, error) {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(filename), "."))
	if _, ok := allowedExt[ext]; !ok {
		return "", fmt.Errorf("%w: %q", common.ErrUnsupportedImage, filename)
	}
	return ext, nil
}

// NewName builds the stored name for an upload at t:
// YYYYMMDDhhmmss plus six digits of microseconds, then the extension.
func NewName(t time.Time, ext string) string {
	return NewNameN(t, ext, 0)
}

// NewNameN is NewName with a "-n" suffix for n > 0, used when the plain name
// is already taken.
func NewNameN(t time.Time, ext string, n int) string {
	base := fmt.Sprintf("%s%06d", t.Format("20060102150405"), t.Nanosecond()/int(time.Microsecond))
	if n > 0 {
		base = fmt.Sprintf("%s-%d", base, n)
	}
	return base + "." + ext
}

// ValidateName rejects anything that is not a generated image name, so
// names from requests can never escape the image directory or prefix.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", common.ErrInvalidImageName, name)
	}
	return nil
}

// ContentType is the MIME type for a stored image name.
func ContentType(name string) string {
	ext := strings.ToLower(strings.TrimPrefix(path.Ext(name), "."))
	if ct, ok := allowedExt[ext]; ok {
		return ct
	}
	return "application/octet-stream"
}

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// Open returns the store for the configured backend.
func Open(ctx context.Context, backend, dir string, o S3Options) (Store, error) {
	switch strings.ToLower(backend) {
	case "", BackendLocal:
		return NewLocalStore(dir)
	case BackendS3:
		return NewS3Store(ctx, o)
	default:
		return nil, fmt.Errorf("unknown image backend %q", backend)
	}
}
