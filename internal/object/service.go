// Package object implements the file-storage API on top of a storage backend.
package object

import (
	"context"
	"net/url"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gabriel-vasile/mimetype"

	"github.com/filedock/service/internal/events"
	"github.com/filedock/service/internal/logger"
	"github.com/filedock/service/internal/storage"
)

// LocationPrefix is the API path under which stored objects are addressed.
const LocationPrefix = "/api/storage/files/"

// Upload is one file received from a client.
type Upload struct {
	Filename    string
	ContentType string
	Content     []byte
}

// Uploaded describes a stored upload in API responses.
type Uploaded struct {
	Key          string `json:"key"`
	Location     string `json:"location"`
	Bucket       string `json:"bucket"`
	OriginalName string `json:"originalName"`
	Size         int64  `json:"size"`
	ContentType  string `json:"contentType"`
	UploadedAt   string `json:"uploadedAt"`
}

// Service contains the object operations used by the HTTP handlers.
type Service struct {
	store  storage.Storage
	events events.Publisher
	bucket string
}

// NewService creates a Service. bucket is the name reported to clients.
func NewService(store storage.Storage, pub events.Publisher, bucket string) *Service {
	return &Service{store: store, events: pub, bucket: bucket}
}

// Upload stores the file, then its sidecar. A failed sidecar write is logged
// and otherwise ignored: the object stays readable with default metadata.
func (s *Service) Upload(ctx context.Context, u Upload) (*Uploaded, error) {
	log := logger.FromContext(ctx)
	size := int64(len(u.Content))
	contentType := resolveContentType(u.ContentType, u.Content)

	key, err := s.store.SaveFile(ctx, u.Filename, u.Content, contentType, size)
	if err != nil {
		log.ErrorWith("save file failed", err, map[string]any{"filename": u.Filename})
		return nil, err
	}

	uploadedAt := ""
	if err := s.store.SaveMetadata(ctx, key, u.Filename, contentType, size); err != nil {
		log.ErrorWith("save metadata failed", err, map[string]any{"key": key})
	} else if obj, err := s.store.GetFileInfo(ctx, key); err == nil && obj.Metadata != nil {
		uploadedAt = obj.Metadata.UploadedAt
	}
	if uploadedAt == "" {
		uploadedAt = time.Now().UTC().Format(time.RFC3339)
	}

	path, _ := s.store.GetFilePath(key)
	log.With().
		Str("key", key).
		Str("path", path).
		Int64("size", size).
		Str("size_human", humanize.Bytes(uint64(size))).
		Logger().
		Info("file uploaded")

	s.publish(events.TypeUploaded, key)

	return &Uploaded{
		Key:          key,
		Location:     Location(key),
		Bucket:       s.bucket,
		OriginalName: u.Filename,
		Size:         size,
		ContentType:  contentType,
		UploadedAt:   uploadedAt,
	}, nil
}

// List returns every stored object, newest first.
func (s *Service) List(ctx context.Context) ([]storage.StoredObject, error) {
	return s.store.ListFiles(ctx)
}

// Get returns the object stored under key.
func (s *Service) Get(ctx context.Context, key string) (*storage.StoredObject, error) {
	return s.store.GetFileInfo(ctx, key)
}

// Content returns the object and its full content.
func (s *Service) Content(ctx context.Context, key string) (*storage.StoredObject, []byte, error) {
	obj, err := s.store.GetFileInfo(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	data, err := s.store.ReadFile(ctx, key)
	if err != nil {
		return nil, nil, err
	}
	return obj, data, nil
}

// Delete removes the object stored under key.
func (s *Service) Delete(ctx context.Context, key string) error {
	if err := s.store.DeleteFile(ctx, key); err != nil {
		return err
	}
	logger.FromContext(ctx).With().Str("key", key).Logger().Info("file deleted")
	s.publish(events.TypeDeleted, key)
	return nil
}

// DeleteMany deletes each key independently and returns how many succeeded.
func (s *Service) DeleteMany(ctx context.Context, keys []string) int {
	deleted := 0
	for _, key := range keys {
		if err := s.Delete(ctx, key); err != nil {
			logger.FromContext(ctx).With().Str("key", key).Err(err).Logger().Debug("batch delete skipped key")
			continue
		}
		deleted++
	}
	return deleted
}

// Location returns the API path of the object stored under key.
func Location(key string) string {
	return LocationPrefix + url.PathEscape(key)
}

func (s *Service) publish(t events.Type, key string) {
	if s.events == nil {
		return
	}
	s.events.Publish(events.Event{Type: t, Key: key, Source: events.SourceAPI})
}

// resolveContentType keeps the client's type unless it is missing or generic,
// in which case the type is sniffed from the content.
func resolveContentType(declared string, content []byte) string {
	if declared != "" && declared != storage.DefaultContentType {
		return declared
	}
	return mimetype.Detect(content).String()
}
