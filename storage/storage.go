package storage

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

var ErrUnsupportedDriver = errors.New("storage: unsupported driver")

// Object is a stored blob. Key is what Delete takes; URL is what clients see.
type Object struct {
	Key         string
	URL         string
	ContentType string
}

// Store keeps product image blobs.
type Store interface {
	Put(ctx context.Context, data []byte, filename string) (Object, error)
	Delete(ctx context.Context, key string) error
}

type Config struct {
	Driver    string // "s3" | "local"
	Bucket    string
	Region    string
	AccessKey string
	SecretKey string
	// Endpoint points the S3 client at a compatible service.
	Endpoint  string
	CDNDomain string
	BasePath  string

	LocalDir string
	LocalURL string
}

func New(ctx context.Context, cfg Config) (Store, error) {
	switch cfg.Driver {
	case "s3":
		return NewS3Store(ctx, cfg)
	case "local", "":
		return NewLocalStore(cfg.LocalDir, cfg.LocalURL, cfg.BasePath), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedDriver, cfg.Driver)
	}
}

// objectKey builds "<base>/<yyyy/mm/dd>/<uuid><ext>". The extension comes
// from the file name, falling back to the sniffed type.
func objectKey(basePath, filename string, mime *mimetype.MIME) string {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" {
		ext = mime.Extension()
	}
	name := uuid.NewString() + ext
	datePath := time.Now().Format("2006/01/02")
	if basePath != "" {
		return fmt.Sprintf("%s/%s/%s", strings.Trim(basePath, "/"), datePath, name)
	}
	return fmt.Sprintf("%s/%s", datePath, name)
}

// DetectContentType sniffs the content type from the file contents.
func DetectContentType(data []byte) string {
	return mimetype.Detect(data).String()
}

// IsImage reports whether data looks like an image.
func IsImage(data []byte) bool {
	for m := mimetype.Detect(data); m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "image/") {
			return true
		}
	}
	return false
}
