// Package storage owns the persisted objects: raw file bytes under
// files/<key> and a small JSON sidecar under metadata/<key>.json.
//
// Two backends implement Storage: Local (a directory on disk) and S3 (any
// S3-compatible bucket via MinIO). Both use the same key scheme and the same
// object layout, so data can be copied between them verbatim.
//
// Operations are synchronous and there is no cross-request locking. Two
// uploads of the same filename in the same millisecond produce the same key
// and the later one wins; a listing may name a key that is deleted before it
// is read. Callers that need stronger guarantees must coordinate themselves.
package storage

import (
	"context"
	"time"
)

const (
	filesDirName    = "files"
	metadataDirName = "metadata"
	metadataExt     = ".json"

	// DefaultContentType is reported when an object has no usable sidecar.
	DefaultContentType = "application/octet-stream"
)

// StoredObject describes one stored file merged with its sidecar metadata.
type StoredObject struct {
	Key          string    `json:"key"`
	Size         int64     `json:"size"`
	LastModified time.Time `json:"lastModified"`
	ContentType  string    `json:"contentType"`
	OriginalName string    `json:"originalName"`

	// Metadata is the raw sidecar record. Only GetFileInfo fills it; a
	// missing sidecar yields an empty record.
	Metadata *Metadata `json:"metadata,omitempty"`
}

// Storage is the contract between the HTTP layer and a storage backend.
// Errors are *errs.Error values; backends never log.
type Storage interface {
	// Init prepares the backend (directories, bucket). It is idempotent.
	Init(ctx context.Context) error

	// SaveFile writes content under a freshly generated key and returns it.
	// size is the length reported by the client; len(content) is what gets written.
	SaveFile(ctx context.Context, filename string, content []byte, contentType string, size int64) (string, error)

	// SaveMetadata writes (or overwrites) the sidecar for key.
	SaveMetadata(ctx context.Context, key, originalName, contentType string, size int64) error

	// ListFiles returns every stored object, newest first.
	ListFiles(ctx context.Context) ([]StoredObject, error)

	// GetFileInfo returns the object stored under key.
	GetFileInfo(ctx context.Context, key string) (*StoredObject, error)

	// ReadFile returns the full content stored under key.
	ReadFile(ctx context.Context, key string) ([]byte, error)

	// GetFilePath returns where the bytes for key live. No I/O is performed.
	GetFilePath(key string) (string, error)

	// DeleteFile removes the object. The sidecar is removed on a best-effort basis.
	DeleteFile(ctx context.Context, key string) error
}
