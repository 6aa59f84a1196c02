package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/filedock/service/internal/errs"
)

var _ Storage = (*Local)(nil)

// Local stores objects in a directory tree on the local filesystem:
//
//	<root>/files/<key>
//	<root>/metadata/<key>.json
type Local struct {
	root        string
	filesDir    string
	metadataDir string
	opts        *Options
}

// NewLocal returns a Local rooted at root. Call Init before use.
func NewLocal(root string, opts ...OptionFunc) *Local {
	root = filepath.Clean(root)
	return &Local{
		root:        root,
		filesDir:    filepath.Join(root, filesDirName),
		metadataDir: filepath.Join(root, metadataDirName),
		opts:        buildOptions(opts),
	}
}

// Root returns the storage root directory.
func (s *Local) Root() string {
	return s.root
}

// FilesDir returns the directory holding the raw object bytes.
func (s *Local) FilesDir() string {
	return s.filesDir
}

func (s *Local) Init(ctx context.Context) error {
	for _, dir := range []string{s.filesDir, s.metadataDir} {
		if err := os.MkdirAll(dir, s.opts.DirMode); err != nil {
			return errs.Wrap(errs.ErrKindInitFailed, "create storage directory "+dir, err)
		}
	}
	return nil
}

func (s *Local) SaveFile(ctx context.Context, filename string, content []byte, contentType string, size int64) (string, error) {
	key := NewKey(filename, s.opts.Clock())
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	f, err := os.OpenFile(s.filePath(key), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, s.opts.FileMode)
	if err != nil {
		return "", errs.Wrap(errs.ErrKindIO, "open file for writing", err)
	}

	n, err := f.Write(content)
	closeErr := f.Close()
	switch {
	case err != nil:
		return "", errs.Wrap(errs.ErrKindIO, "write file", err)
	case n != len(content):
		return "", errs.Wrap(errs.ErrKindIO, "write file", io.ErrShortWrite)
	case closeErr != nil:
		return "", errs.Wrap(errs.ErrKindIO, "close file", closeErr)
	}
	return key, nil
}

func (s *Local) SaveMetadata(ctx context.Context, key, originalName, contentType string, size int64) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	data, err := encodeMetadata(newMetadata(originalName, contentType, size, s.opts.Clock()))
	if err != nil {
		return errs.Wrap(errs.ErrKindIO, "encode metadata", err)
	}
	if err := os.WriteFile(s.metadataPath(key), data, s.opts.FileMode); err != nil {
		return errs.Wrap(errs.ErrKindIO, "write metadata", err)
	}
	return nil
}

// ListFiles never fails: a missing or unreadable files directory lists as empty.
func (s *Local) ListFiles(ctx context.Context) ([]StoredObject, error) {
	entries, _ := os.ReadDir(s.filesDir)

	objects := make([]StoredObject, 0, len(entries))
	for _, entry := range entries {
		// Names no key-addressed operation would accept are not listed.
		key := entry.Name()
		if ValidateKey(key) != nil {
			continue
		}

		info, err := os.Stat(filepath.Join(s.filesDir, key))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		objects = append(objects, s.describe(key, info))
	}

	sortNewestFirst(objects)
	return objects, nil
}

// sortNewestFirst orders by modification time, descending. Equal times keep
// their listing order.
func sortNewestFirst(objects []StoredObject) {
	sort.SliceStable(objects, func(i, j int) bool {
		return objects[i].LastModified.After(objects[j].LastModified)
	})
}

func (s *Local) GetFileInfo(ctx context.Context, key string) (*StoredObject, error) {
	info, err := s.statRegular(key)
	if err != nil {
		return nil, err
	}
	obj := s.describe(key, info)
	m := s.readMetadata(key)
	obj.Metadata = &m
	return &obj, nil
}

func (s *Local) ReadFile(ctx context.Context, key string) ([]byte, error) {
	if _, err := s.statRegular(key); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.filePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrKindNotFound, "read file", err)
		}
		return nil, errs.Wrap(errs.ErrKindIO, "read file", err)
	}
	return data, nil
}

func (s *Local) GetFilePath(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return s.filePath(key), nil
}

func (s *Local) DeleteFile(ctx context.Context, key string) error {
	if _, err := s.statRegular(key); err != nil {
		return err
	}

	if err := os.Remove(s.filePath(key)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return errs.Wrap(errs.ErrKindNotFound, "remove file", err)
		}
		return errs.Wrap(errs.ErrKindIO, "remove file", err)
	}

	// The file is gone; a leftover sidecar only degrades to defaults.
	_ = os.Remove(s.metadataPath(key))
	return nil
}

// statRegular validates key and stats its file, reporting anything that is
// not a regular file as not found.
func (s *Local) statRegular(key string) (fs.FileInfo, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	info, err := os.Stat(s.filePath(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errs.Wrap(errs.ErrKindNotFound, "stat file", err)
		}
		return nil, errs.Wrap(errs.ErrKindIO, "stat file", err)
	}
	if !info.Mode().IsRegular() {
		return nil, errs.New(errs.ErrKindNotFound, "not a regular file")
	}
	return info, nil
}

func (s *Local) describe(key string, info fs.FileInfo) StoredObject {
	obj := StoredObject{
		Key:          key,
		Size:         info.Size(),
		LastModified: info.ModTime(),
	}
	s.readMetadata(key).merge(&obj)
	return obj
}

func (s *Local) readMetadata(key string) Metadata {
	data, err := os.ReadFile(s.metadataPath(key))
	if err != nil {
		return Metadata{}
	}
	return decodeMetadata(data)
}

func (s *Local) filePath(key string) string {
	return filepath.Join(s.filesDir, key)
}

func (s *Local) metadataPath(key string) string {
	return filepath.Join(s.metadataDir, key+metadataExt)
}
