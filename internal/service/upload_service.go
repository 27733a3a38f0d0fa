package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"

	"github.com/h2non/filetype"
	config "github.com/maheshrc27/autoposter/configs"
)

// NewRemoteUploader picks the configured provider. A disabled upload yields
// an uploader that always returns an empty URL.
func NewRemoteUploader(cfg config.Config) (RemoteUploader, error) {
	if !cfg.Upload.Allow {
		return disabledUploader{}, nil
	}

	switch cfg.Upload.Provider {
	case "r2":
		return NewR2Service(cfg), nil
	case "minio":
		m, err := NewMinIOService(cfg)
		if err != nil {
			return nil, err
		}
		return m, nil
	}
	return nil, fmt.Errorf("unsupported remote upload provider: %s", cfg.Upload.Provider)
}

type disabledUploader struct{}

func (disabledUploader) Upload(ctx context.Context, localPath string) (string, error) {
	slog.Info("remote upload disabled", "path", localPath)
	return "", nil
}

func objectKey(folder, localPath string) string {
	return path.Join(folder, filepath.Base(localPath))
}

func contentType(localPath string) string {
	kind, err := filetype.MatchFile(localPath)
	if err != nil || kind.MIME.Value == "" {
		return "application/octet-stream"
	}
	return kind.MIME.Value
}
