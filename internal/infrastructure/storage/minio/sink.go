package minio

import (
	"context"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/internal/infrastructure/structure"
	"github.com/turtacn/dockprep/pkg/errors"
)

const contentTypeSMILES = "chemical/x-daylight-smiles"

// DerivativeSink uploads each derivative as "{prefix}/{dir}/{index}.smi".
type DerivativeSink struct {
	client *MinIOClient
}

// NewDerivativeSink returns a sink writing through client.
func NewDerivativeSink(client *MinIOClient) *DerivativeSink {
	return &DerivativeSink{client: client}
}

func (s *DerivativeSink) Extension() string { return structure.ExtSMILES }
func (s *DerivativeSink) Sink() string      { return "minio" }

// ObjectKey returns the key the index-th derivative of dir is stored under.
func (s *DerivativeSink) ObjectKey(dir string, index int) string {
	return path.Join(s.client.prefix, strings.Trim(dir, "/"), structure.ArtifactName(index, structure.ExtSMILES))
}

// Write uploads smiles and returns its "s3://bucket/key" location.
func (s *DerivativeSink) Write(ctx context.Context, dir string, index int, smiles string) (string, error) {
	key := s.ObjectKey(dir, index)
	body := smiles + "\n"
	info, err := s.client.client.PutObject(ctx, s.client.bucket, key, strings.NewReader(body), int64(len(body)),
		minio.PutObjectOptions{ContentType: contentTypeSMILES})
	if err != nil {
		return "", errors.Wrap(err, errors.ErrCodeDerivativeWriteFailed, "failed to upload derivative").
			WithDetail(key)
	}
	s.client.logger.Debug("derivative uploaded",
		logging.String("bucket", s.client.bucket),
		logging.String("key", key),
		logging.Int64("size", info.Size))
	return "s3://" + s.client.bucket + "/" + key, nil
}

// List returns the object keys stored under dir.
func (s *DerivativeSink) List(ctx context.Context, dir string) ([]string, error) {
	prefix := path.Join(s.client.prefix, strings.Trim(dir, "/")) + "/"
	var keys []string
	for obj := range s.client.client.ListObjects(ctx, s.client.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, errors.Wrap(obj.Err, errors.ErrCodeStorageError, "failed to list derivatives").WithDetail(prefix)
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Exists reports whether the index-th derivative of dir is stored.
func (s *DerivativeSink) Exists(ctx context.Context, dir string, index int) (bool, error) {
	key := s.ObjectKey(dir, index)
	_, err := s.client.client.StatObject(ctx, s.client.bucket, key, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return false, nil
	}
	return false, errors.Wrap(err, errors.ErrCodeStorageError, "failed to stat derivative").WithDetail(key)
}

// Remove deletes every object stored under dir.
func (s *DerivativeSink) Remove(ctx context.Context, dir string) error {
	keys, err := s.List(ctx, dir)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if err := s.client.client.RemoveObject(ctx, s.client.bucket, key, minio.RemoveObjectOptions{}); err != nil {
			return errors.Wrap(err, errors.ErrCodeStorageError, "failed to remove derivative").WithDetail(key)
		}
	}
	return nil
}

//Personal.AI order the ending
