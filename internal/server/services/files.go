package services

import (
	"context"
	"io"
	"time"

	"github.com/dmitrijs2005/certshowcase/internal/logging"
	"github.com/dmitrijs2005/certshowcase/internal/server/storage"
)

// UploadedFile describes a stored attachment.
type UploadedFile struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// FileService stores certificate attachments.
type FileService struct {
	storage storage.Storage
	now     func() time.Time
	logger  logging.Logger
}

func NewFileService(s storage.Storage, logger logging.Logger) *FileService {
	return &FileService{storage: s, now: time.Now, logger: logger.With("module", "files")}
}

// Upload stores r under a key derived from the current time and filename and
// returns the key with its public URL. Content types are not restricted.
func (s *FileService) Upload(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (*UploadedFile, error) {
	key := storage.ObjectKey(s.now(), filename)
	if err := s.storage.Upload(ctx, key, r, size, contentType); err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "file uploaded", "key", key, "size", size)
	return &UploadedFile{Key: key, URL: s.storage.PublicURL(key)}, nil
}
