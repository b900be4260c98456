package minio

import (
	"context"
	"io"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/dockprep/pkg/errors"
)

type mockMinIOAPI struct {
	mock.Mock
}

func (m *mockMinIOAPI) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *mockMinIOAPI) MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucketName, opts).Error(0)
}

func (m *mockMinIOAPI) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	body, _ := io.ReadAll(reader)
	args := m.Called(ctx, bucketName, objectName, string(body), objectSize, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *mockMinIOAPI) StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, objectName, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *mockMinIOAPI) ListObjects(ctx context.Context, bucketName string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return m.Called(ctx, bucketName, opts).Get(0).(<-chan minio.ObjectInfo)
}

func (m *mockMinIOAPI) RemoveObject(ctx context.Context, bucketName, objectName string, opts minio.RemoveObjectOptions) error {
	return m.Called(ctx, bucketName, objectName, opts).Error(0)
}

type ClientTestSuite struct {
	suite.Suite
	api    *mockMinIOAPI
	client *MinIOClient
	ctx    context.Context
}

func (s *ClientTestSuite) SetupTest() {
	s.api = new(mockMinIOAPI)
	s.client = NewMinIOClientWithAPI(s.api, "ligands", "runs", logging.NewNopLogger())
	s.ctx = context.Background()
}

func (s *ClientTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestEnsureBucket_Exists() {
	s.api.On("BucketExists", s.ctx, "ligands").Return(true, nil)
	s.NoError(s.client.EnsureBucket(s.ctx))
}

func (s *ClientTestSuite) TestEnsureBucket_Creates() {
	s.api.On("BucketExists", s.ctx, "ligands").Return(false, nil)
	s.api.On("MakeBucket", s.ctx, "ligands", minio.MakeBucketOptions{}).Return(nil)
	s.NoError(s.client.EnsureBucket(s.ctx))
}

func (s *ClientTestSuite) TestEnsureBucket_Unreachable() {
	s.api.On("BucketExists", s.ctx, "ligands").Return(false, io.ErrUnexpectedEOF)
	err := s.client.EnsureBucket(s.ctx)
	s.True(errors.IsCode(err, errors.ErrCodeServiceUnavailable))
}

func (s *ClientTestSuite) TestHealthCheck() {
	s.api.On("BucketExists", s.ctx, "ligands").Return(false, nil).Once()
	status := s.client.HealthCheck(s.ctx)
	s.False(status.Healthy)
	s.Contains(status.Error, "missing")

	s.api.On("BucketExists", s.ctx, "ligands").Return(true, nil).Once()
	s.True(s.client.HealthCheck(s.ctx).Healthy)
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

//Personal.AI order the ending
