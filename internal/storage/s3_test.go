package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePutter struct {
	in  *s3.PutObjectInput
	err error
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.in = in
	if f.err != nil {
		return nil, f.err
	}
	return &s3.PutObjectOutput{}, nil
}

func TestPublish(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "WI2CamtrapDP_run.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("zipbytes"), 0o644))

	fake := &fakePutter{}
	p := &S3Publisher{client: fake, bucket: "bundles", prefix: "runs"}

	loc, err := p.Publish(context.Background(), zipPath)
	require.NoError(t, err)
	assert.Equal(t, "s3://bundles/runs/WI2CamtrapDP_run.zip", loc)
	require.NotNil(t, fake.in)
	assert.Equal(t, "bundles", *fake.in.Bucket)
	assert.Equal(t, "runs/WI2CamtrapDP_run.zip", *fake.in.Key)
	assert.Equal(t, "application/zip", *fake.in.ContentType)
}

func TestPublishNoPrefix(t *testing.T) {
	p := &S3Publisher{bucket: "bundles"}
	assert.Equal(t, "run.zip", p.Key("/tmp/run.zip"))
}

func TestPublishUploadError(t *testing.T) {
	zipPath := filepath.Join(t.TempDir(), "run.zip")
	require.NoError(t, os.WriteFile(zipPath, []byte("z"), 0o644))

	p := &S3Publisher{client: &fakePutter{err: assert.AnError}, bucket: "bundles"}
	_, err := p.Publish(context.Background(), zipPath)
	assert.Error(t, err)
}

func TestPublishMissingFile(t *testing.T) {
	p := &S3Publisher{client: &fakePutter{}, bucket: "bundles"}
	_, err := p.Publish(context.Background(), "/no/such/file.zip")
	assert.Error(t, err)
}
