// Package minio archives original certificate scans in S3-compatible
// object storage.
package minio

import (
	"context"
	"io"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/harborwise/fleetsurvey/internal/config"
	"github.com/harborwise/fleetsurvey/internal/infrastructure/monitoring/logging"
	"github.com/harborwise/fleetsurvey/pkg/errors"
	"github.com/harborwise/fleetsurvey/pkg/types/common"
)

// objectAPI abstracts the minio client surface used by the store, for tests.
type objectAPI interface {
	BucketExists(ctx context.Context, bucket string) (bool, error)
	MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error
	PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error)
	RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error
}

// DocumentStore implements the certificate DocumentStore port on MinIO.
type DocumentStore struct {
	api    objectAPI
	bucket string
	logger logging.Logger
}

// NewDocumentStore connects to MinIO and ensures the documents bucket
// exists.
func NewDocumentStore(cfg config.MinIOConfig, log logging.Logger) (*DocumentStore, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeStorageError, "creating object storage client")
	}
	store := &DocumentStore{api: client, bucket: cfg.Bucket, logger: log.Named("document_store")}
	if err := store.ensureBucket(context.Background()); err != nil {
		return nil, err
	}
	log.Info("connected to object storage",
		logging.String("endpoint", cfg.Endpoint),
		logging.String("bucket", cfg.Bucket))
	return store, nil
}

// newDocumentStoreWithAPI injects a fake client, for tests.
func newDocumentStoreWithAPI(api objectAPI, bucket string) *DocumentStore {
	return &DocumentStore{api: api, bucket: bucket, logger: logging.NewNopLogger()}
}

func (s *DocumentStore) ensureBucket(ctx context.Context) error {
	exists, err := s.api.BucketExists(ctx, s.bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "checking documents bucket")
	}
	if exists {
		return nil
	}
	if err := s.api.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "creating documents bucket")
	}
	return nil
}

// objectKey builds a stable per-certificate key.  The filename is sanitized
// to its base name so path traversal in an upload cannot escape the
// certificate's prefix.
func objectKey(certID common.ID, filename string) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "document"
	}
	return "certificates/" + certID.String() + "/" + base
}

// Put stores the document and returns its key.
func (s *DocumentStore) Put(ctx context.Context, certID common.ID, filename, contentType string, size int64, body io.Reader) (string, error) {
	key := objectKey(certID, filename)
	opts := minio.PutObjectOptions{ContentType: contentType}
	if _, err := s.api.PutObject(ctx, s.bucket, key, body, size, opts); err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "storing certificate document")
	}
	s.logger.Info("document stored",
		logging.String("certificate_id", certID.String()),
		logging.String("key", key))
	return key, nil
}

// PresignedGet returns a time-limited download URL for the stored key.
func (s *DocumentStore) PresignedGet(ctx context.Context, key string, expiry time.Duration) (string, error) {
	u, err := s.api.PresignedGetObject(ctx, s.bucket, key, expiry, nil)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeStorageError, "presigning document url")
	}
	return u.String(), nil
}

// Remove deletes the stored document.
func (s *DocumentStore) Remove(ctx context.Context, key string) error {
	if err := s.api.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return errors.Wrap(err, errors.ErrCodeStorageError, "removing document")
	}
	return nil
}
