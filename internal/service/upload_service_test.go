package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRemoteUploader(t *testing.T) {
	disabled, err := NewRemoteUploader(config.Config{})
	require.NoError(t, err)
	url, err := disabled.Upload(context.Background(), "/tmp/a.png")
	require.NoError(t, err)
	assert.Empty(t, url)

	r2, err := NewRemoteUploader(config.Config{Upload: config.Upload{Allow: true, Provider: "r2"}})
	require.NoError(t, err)
	assert.IsType(t, &R2Service{}, r2)

	minio, err := NewRemoteUploader(config.Config{Upload: config.Upload{
		Allow:    true,
		Provider: "minio",
		MinIO:    config.MinIO{Endpoint: "localhost:9000", AccessKey: "key", SecretKey: "secret", BucketName: "images"},
	}})
	require.NoError(t, err)
	assert.IsType(t, &MinIOService{}, minio)

	_, err = NewRemoteUploader(config.Config{Upload: config.Upload{Allow: true, Provider: "cloudinary"}})
	assert.Error(t, err)
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "uploads/image_file_1.png", objectKey("uploads", "/srv/public/uploads/images/image_file_1.png"))
	assert.Equal(t, "image_file_1.png", objectKey("", "image_file_1.png"))
}

func TestContentType(t *testing.T) {
	dir := t.TempDir()
	png := writePNG(t, filepath.Join(dir, "a.png"))
	text := filepath.Join(dir, "a.txt")
	require.NoError(t, os.WriteFile(text, []byte("hello"), 0o644))

	assert.Equal(t, "image/png", contentType(png))
	assert.Equal(t, "application/octet-stream", contentType(text))
	assert.Equal(t, "application/octet-stream", contentType(filepath.Join(dir, "missing")))
}
