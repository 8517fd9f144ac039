package sinks

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalSinkWritesIntoExistingDir(t *testing.T) {
	dir := t.TempDir()
	sink, err := New(context.Background(), Config{Type: TypeLocal, Dir: dir})
	require.NoError(t, err)

	loc, err := sink.Write(context.Background(), "report.pdf", []byte("signed"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "report.pdf"), loc)

	raw, err := os.ReadFile(loc)
	require.NoError(t, err)
	assert.Equal(t, "signed", string(raw))
}

func TestLocalSinkMissingDirFails(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "does-not-exist")
	sink, err := NewLocal(missing)
	require.NoError(t, err)

	loc, err := sink.Write(context.Background(), "T1-42.pdf", []byte("signed"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, os.ErrNotExist))
	assert.Empty(t, loc)

	_, statErr := os.Stat(missing)
	assert.True(t, os.IsNotExist(statErr), "sink must not create the directory")
}

func TestLocalSinkStripsDirectories(t *testing.T) {
	dir := t.TempDir()
	sink, err := NewLocal(dir)
	require.NoError(t, err)

	loc, err := sink.Write(context.Background(), `..\..\evil.pdf`, []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "evil.pdf"), loc)

	_, err = sink.Write(context.Background(), "../", []byte("x"))
	assert.Error(t, err)
}

type fakeS3 struct {
	input *s3.PutObjectInput
	body  []byte
	err   error
}

func (f *fakeS3) PutObject(_ context.Context, params *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.input = params
	if f.err != nil {
		return nil, f.err
	}
	f.body, _ = io.ReadAll(params.Body)
	return &s3.PutObjectOutput{}, nil
}

func TestS3SinkPutsObject(t *testing.T) {
	client := &fakeS3{}
	sink := &s3Sink{bucket: "signed", prefix: "/batches/T1/", client: client}

	loc, err := sink.Write(context.Background(), "contract.pdf", []byte("%PDF"))
	require.NoError(t, err)
	assert.Equal(t, "s3://signed/batches/T1/contract.pdf", loc)
	assert.Equal(t, "signed", aws.ToString(client.input.Bucket))
	assert.Equal(t, "batches/T1/contract.pdf", aws.ToString(client.input.Key))
	assert.Equal(t, "application/pdf", aws.ToString(client.input.ContentType))
	assert.Equal(t, "%PDF", string(client.body))
}

func TestS3SinkError(t *testing.T) {
	sink := &s3Sink{bucket: "signed", client: &fakeS3{err: errors.New("denied")}}
	_, err := sink.Write(context.Background(), "a.pdf", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "denied")
}

type fakeMinIO struct {
	bucket, key string
	opts        minio.PutObjectOptions
	size        int64
}

func (f *fakeMinIO) PutObject(_ context.Context, bucket, key string, _ io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	f.bucket, f.key, f.size, f.opts = bucket, key, size, opts
	return minio.UploadInfo{Bucket: bucket, Key: key, Size: size}, nil
}

func TestMinIOSinkPutsObject(t *testing.T) {
	client := &fakeMinIO{}
	sink := &minioSink{bucket: "docs", client: client}

	loc, err := sink.Write(context.Background(), "scan.bin", []byte("abc"))
	require.NoError(t, err)
	assert.Equal(t, "minio://docs/scan.bin", loc)
	assert.Equal(t, int64(3), client.size)
	assert.Equal(t, "application/octet-stream", client.opts.ContentType)
}

func TestNewRejectsUnknownOrIncompleteSinks(t *testing.T) {
	ctx := context.Background()
	_, err := New(ctx, Config{Type: "ftp"})
	assert.Error(t, err)
	_, err = New(ctx, Config{Type: TypeLocal})
	assert.Error(t, err)
	_, err = New(ctx, Config{Type: TypeS3})
	assert.Error(t, err)
	_, err = New(ctx, Config{Type: TypeMinIO, MinIOBucket: "b"})
	assert.Error(t, err)
}
