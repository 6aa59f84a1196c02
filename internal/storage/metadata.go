package storage

import (
	"encoding/json"
	"errors"
	"time"
)

// Metadata is the sidecar record. Field order matches the on-disk layout.
type Metadata struct {
	OriginalName string `json:"originalName"`
	ContentType  string `json:"contentType"`
	Size         int64  `json:"size"`
	UploadedAt   string `json:"uploadedAt"`
}

func newMetadata(originalName, contentType string, size int64, now time.Time) Metadata {
	return Metadata{
		OriginalName: originalName,
		ContentType:  contentType,
		Size:         size,
		UploadedAt:   now.UTC().Format(time.RFC3339),
	}
}

func encodeMetadata(m Metadata) ([]byte, error) {
	return json.Marshal(m)
}

// decodeMetadata never fails. Syntax errors yield the zero record; a field of
// the wrong type is skipped while the remaining fields are kept.
func decodeMetadata(data []byte) Metadata {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return Metadata{}
		}
	}
	return m
}

// merge fills the display fields of obj from m, substituting defaults.
func (m Metadata) merge(obj *StoredObject) {
	obj.OriginalName = m.OriginalName
	if obj.OriginalName == "" {
		obj.OriginalName = obj.Key
	}
	obj.ContentType = m.ContentType
	if obj.ContentType == "" {
		obj.ContentType = DefaultContentType
	}
}
