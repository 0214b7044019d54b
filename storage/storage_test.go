package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sentinel-portal/config"
)

func TestStagingKey(t *testing.T) {
	id := uuid.MustParse("3f2b8c1e-0000-4000-8000-000000000001")

	assert.Equal(t, "statements/3f/3f2b8c1e-0000-4000-8000-000000000001.pdf", stagingKey(id, "My Statement.PDF"))
	assert.Equal(t, "statements/3f/3f2b8c1e-0000-4000-8000-000000000001.pdf", stagingKey(id, "noext"))
	assert.Equal(t, "application/pdf", contentType("a/b.pdf"))
	assert.Equal(t, "application/octet-stream", contentType("a/b.bin"))
}

func TestLocalStorage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	key, err := s.Stage(ctx, uuid.New(), "statement.pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	require.NoError(t, rc.Close())
	assert.Equal(t, "%PDF-1.7", string(body))

	require.NoError(t, s.Remove(ctx, key))
	require.NoError(t, s.Remove(ctx, key), "removing twice is not an error")

	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestNew(t *testing.T) {
	s, err := New(context.Background(), config.StorageConfig{Type: config.StorageTypeLocal, LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, s)

	_, err = New(context.Background(), config.StorageConfig{Type: config.StorageTypeS3})
	assert.Error(t, err)

	_, err = New(context.Background(), config.StorageConfig{Type: "tape"})
	assert.ErrorContains(t, err, "unknown storage type")
}

type fakeS3 struct {
	objects map[string][]byte
	putErr  error
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}}
}

func (f *fakeS3) PutObject(ctx context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, &types.NoSuchKey{}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

func (f *fakeS3) DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	delete(f.objects, aws.ToString(in.Key))
	return &s3.DeleteObjectOutput{}, nil
}

func TestS3Storage_RoundTrip(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := NewS3StorageWithClient(fake, "statements")

	key, err := s.Stage(ctx, uuid.New(), "statement.pdf", strings.NewReader("%PDF"))
	require.NoError(t, err)
	assert.Contains(t, fake.objects, key)

	rc, err := s.Open(ctx, key)
	require.NoError(t, err)
	body, _ := io.ReadAll(rc)
	assert.Equal(t, "%PDF", string(body))

	require.NoError(t, s.Remove(ctx, key))
	_, err = s.Open(ctx, key)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestS3Storage_StageError(t *testing.T) {
	fake := newFakeS3()
	fake.putErr = errors.New("access denied")
	s := NewS3StorageWithClient(fake, "statements")

	_, err := s.Stage(context.Background(), uuid.New(), "statement.pdf", strings.NewReader("x"))
	assert.ErrorContains(t, err, "failed to upload to S3")
}
