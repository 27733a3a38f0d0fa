package service

import (
	"context"
	"fmt"
	"log/slog"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

type MinIOService struct {
	client *minio.Client
	config config.MinIO
	folder string
}

func NewMinIOService(cfg config.Config) (*MinIOService, error) {
	m := cfg.Upload.MinIO
	client, err := minio.New(m.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(m.AccessKey, m.SecretKey, ""),
		Secure: m.UseSSL,
		Region: m.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return &MinIOService{client: client, config: m, folder: cfg.Upload.Folder}, nil
}

func (m *MinIOService) Upload(ctx context.Context, localPath string) (string, error) {
	key := objectKey(m.folder, localPath)

	_, err := m.client.FPutObject(ctx, m.config.BucketName, key, localPath, minio.PutObjectOptions{
		ContentType: contentType(localPath),
	})
	if err != nil {
		slog.Info(err.Error())
		return "", fmt.Errorf("minio upload: %w", err)
	}

	return fmt.Sprintf("%s/%s/%s", m.config.PublicURL, m.config.BucketName, key), nil
}
