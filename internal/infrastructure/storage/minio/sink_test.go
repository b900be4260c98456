package minio

import (
	"context"
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/dockprep/internal/infrastructure/monitoring/logging"
	apperrors "github.com/turtacn/dockprep/pkg/errors"
)

func newTestSink(t *testing.T) (*DerivativeSink, *mockMinIOAPI) {
	t.Helper()
	api := new(mockMinIOAPI)
	t.Cleanup(func() { api.AssertExpectations(t) })
	return NewDerivativeSink(NewMinIOClientWithAPI(api, "ligands", "runs", logging.NewNopLogger())), api
}

func TestDerivativeSink_ObjectKey(t *testing.T) {
	sink, _ := newTestSink(t)
	assert.Equal(t, "runs/batch-1/0.smi", sink.ObjectKey("batch-1", 0))
	assert.Equal(t, "runs/a/b/7.smi", sink.ObjectKey("/a/b/", 7))
	assert.Equal(t, "smi", sink.Extension())
	assert.Equal(t, "minio", sink.Sink())
}

func TestDerivativeSink_Write(t *testing.T) {
	sink, api := newTestSink(t)
	ctx := context.Background()
	api.On("PutObject", ctx, "ligands", "runs/out/2.smi", "BrC=C\n", int64(6),
		minio.PutObjectOptions{ContentType: contentTypeSMILES}).
		Return(minio.UploadInfo{Size: 6}, nil)

	loc, err := sink.Write(ctx, "out", 2, "BrC=C")
	require.NoError(t, err)
	assert.Equal(t, "s3://ligands/runs/out/2.smi", loc)
}

func TestDerivativeSink_WriteFailure(t *testing.T) {
	sink, api := newTestSink(t)
	api.On("PutObject", mock.Anything, "ligands", "runs/out/0.smi", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("access denied"))

	_, err := sink.Write(context.Background(), "out", 0, "C")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDerivativeWriteFailed))
}

func objectChan(objs ...minio.ObjectInfo) <-chan minio.ObjectInfo {
	ch := make(chan minio.ObjectInfo, len(objs))
	for _, o := range objs {
		ch <- o
	}
	close(ch)
	return ch
}

func TestDerivativeSink_ListAndRemove(t *testing.T) {
	sink, api := newTestSink(t)
	ctx := context.Background()
	opts := minio.ListObjectsOptions{Prefix: "runs/out/", Recursive: true}
	for i := 0; i < 2; i++ {
		api.On("ListObjects", ctx, "ligands", opts).
			Return(objectChan(minio.ObjectInfo{Key: "runs/out/0.smi"}, minio.ObjectInfo{Key: "runs/out/1.smi"})).Once()
	}
	api.On("RemoveObject", ctx, "ligands", mock.Anything, minio.RemoveObjectOptions{}).Return(nil).Twice()

	keys, err := sink.List(ctx, "out")
	require.NoError(t, err)
	assert.Equal(t, []string{"runs/out/0.smi", "runs/out/1.smi"}, keys)

	require.NoError(t, sink.Remove(ctx, "out"))
}

func TestDerivativeSink_ListError(t *testing.T) {
	sink, api := newTestSink(t)
	api.On("ListObjects", mock.Anything, "ligands", mock.Anything).
		Return(objectChan(minio.ObjectInfo{Err: errors.New("timeout")}))

	_, err := sink.List(context.Background(), "out")
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeStorageError))
}

func TestDerivativeSink_Exists(t *testing.T) {
	sink, api := newTestSink(t)
	ctx := context.Background()
	api.On("StatObject", ctx, "ligands", "runs/out/0.smi", minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{Key: "runs/out/0.smi"}, nil)
	api.On("StatObject", ctx, "ligands", "runs/out/1.smi", minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey"})

	ok, err := sink.Exists(ctx, "out", 0)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = sink.Exists(ctx, "out", 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

//Personal.AI order the ending
