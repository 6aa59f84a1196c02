package storage

import (
	"bytes"
	"context"
	"io"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/filedock/service/internal/errs"
)

var _ Storage = (*S3)(nil)

// S3Config holds the settings for an S3-compatible bucket.
type S3Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

// S3 implements Storage on an S3-compatible bucket (MinIO, AWS S3, …) using
// the object names files/<key> and metadata/<key>.json.
type S3 struct {
	client *minio.Client
	bucket string
	opts   *Options
}

// NewS3 creates a MinIO client. No request is made until Init.
func NewS3(cfg S3Config, opts ...OptionFunc) (*S3, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errs.Wrap(errs.ErrKindInitFailed, "create minio client", err)
	}
	return &S3{client: client, bucket: cfg.Bucket, opts: buildOptions(opts)}, nil
}

// Bucket returns the bucket name.
func (s *S3) Bucket() string {
	return s.bucket
}

// Init ensures the bucket exists, creating it when missing.
func (s *S3) Init(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		return errs.Wrap(errs.ErrKindInitFailed, "check bucket existence", err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return errs.Wrap(errs.ErrKindInitFailed, "create bucket "+s.bucket, err)
	}
	return nil
}

func (s *S3) SaveFile(ctx context.Context, filename string, content []byte, contentType string, size int64) (string, error) {
	key := NewKey(filename, s.opts.Clock())
	if err := ValidateKey(key); err != nil {
		return "", err
	}

	_, err := s.client.PutObject(ctx, s.bucket, fileObject(key), bytes.NewReader(content), int64(len(content)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", mapError(err, "put object")
	}
	return key, nil
}

func (s *S3) SaveMetadata(ctx context.Context, key, originalName, contentType string, size int64) error {
	if err := ValidateKey(key); err != nil {
		return err
	}

	data, err := encodeMetadata(newMetadata(originalName, contentType, size, s.opts.Clock()))
	if err != nil {
		return errs.Wrap(errs.ErrKindIO, "encode metadata", err)
	}
	_, err = s.client.PutObject(ctx, s.bucket, metadataObject(key), bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return mapError(err, "put metadata")
	}
	return nil
}

// ListFiles lists the objects directly under files/. Unlike Local, a failing
// bucket listing is reported as an error.
func (s *S3) ListFiles(ctx context.Context) ([]StoredObject, error) {
	objects := make([]StoredObject, 0)
	for info := range s.client.ListObjects(ctx, s.bucket, minio.ListObjectsOptions{Prefix: filesDirName + "/"}) {
		if info.Err != nil {
			return nil, mapError(info.Err, "list objects")
		}
		key, ok := keyFromObject(info.Key)
		if !ok {
			continue
		}
		obj := StoredObject{Key: key, Size: info.Size, LastModified: info.LastModified}
		s.readMetadata(ctx, key).merge(&obj)
		objects = append(objects, obj)
	}

	sortNewestFirst(objects)
	return objects, nil
}

func (s *S3) GetFileInfo(ctx context.Context, key string) (*StoredObject, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	stat, err := s.client.StatObject(ctx, s.bucket, fileObject(key), minio.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "stat object")
	}
	m := s.readMetadata(ctx, key)
	obj := &StoredObject{Key: key, Size: stat.Size, LastModified: stat.LastModified, Metadata: &m}
	m.merge(obj)
	return obj, nil
}

func (s *S3) ReadFile(ctx context.Context, key string) ([]byte, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}

	obj, err := s.client.GetObject(ctx, s.bucket, fileObject(key), minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "get object")
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, mapError(err, "read object")
	}
	return data, nil
}

func (s *S3) GetFilePath(key string) (string, error) {
	if err := ValidateKey(key); err != nil {
		return "", err
	}
	return fileObject(key), nil
}

// DeleteFile stats before removing because RemoveObject succeeds for
// missing objects.
func (s *S3) DeleteFile(ctx context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if _, err := s.client.StatObject(ctx, s.bucket, fileObject(key), minio.StatObjectOptions{}); err != nil {
		return mapError(err, "stat object")
	}
	if err := s.client.RemoveObject(ctx, s.bucket, fileObject(key), minio.RemoveObjectOptions{}); err != nil {
		return mapError(err, "remove object")
	}
	_ = s.client.RemoveObject(ctx, s.bucket, metadataObject(key), minio.RemoveObjectOptions{})
	return nil
}

func (s *S3) readMetadata(ctx context.Context, key string) Metadata {
	obj, err := s.client.GetObject(ctx, s.bucket, metadataObject(key), minio.GetObjectOptions{})
	if err != nil {
		return Metadata{}
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return Metadata{}
	}
	return decodeMetadata(data)
}

func fileObject(key string) string {
	return path.Join(filesDirName, key)
}

func metadataObject(key string) string {
	return path.Join(metadataDirName, key+metadataExt)
}

// keyFromObject maps "files/<key>" back to key, skipping nested prefixes,
// hidden names and anything else ValidateKey rejects, the same way Local
// skips subdirectories and dotfiles.
func keyFromObject(name string) (string, bool) {
	key, ok := strings.CutPrefix(name, filesDirName+"/")
	if !ok || ValidateKey(key) != nil {
		return "", false
	}
	return key, true
}
