// Package storage uploads certificate attachments to an S3-compatible bucket
// and composes their public links.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/certshowcase/internal/logging"
)

// Storage is the object store behind the certificates bucket.
type Storage interface {
	// Upload writes r under key. Transport and permission failures are
	// returned wrapped in common.ErrorUploadFailed.
	Upload(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	// PublicURL composes the link of key. It does not contact the store.
	PublicURL(key string) string
}

// Backends.
const (
	BackendS3    = "s3"
	BackendMinio = "minio"
)

// Config selects and configures a backend.
type Config struct {
	Backend       string
	Endpoint      string
	Region        string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
	UseSSL        bool
}

// New returns the backend named by cfg.Backend with its bucket ensured.
func New(ctx context.Context, cfg Config, logger logging.Logger) (Storage, error) {
	switch cfg.Backend {
	case BackendS3, "":
		return NewS3Storage(ctx, cfg, logger)
	case BackendMinio:
		return NewMinioStorage(ctx, cfg, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
	}
}

// PublicURL joins base, bucket and key, escaping each key segment.
func PublicURL(base, bucket, key string) string {
	segments := strings.Split(key, "/")
	for i, s := range segments {
		segments[i] = url.PathEscape(s)
	}
	return strings.TrimRight(base, "/") + "/" + bucket + "/" + strings.Join(segments, "/")
}

// ObjectKey names an upload: the unix millisecond timestamp, a dash and the
// file's base name. No uniqueness check is made.
func ObjectKey(now time.Time, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	if name == "." || name == "/" {
		name = "file"
	}
	return strconv.FormatInt(now.UnixMilli(), 10) + "-" + name
}
