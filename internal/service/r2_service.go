package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	cfg "github.com/maheshrc27/autoposter/configs"
)

type R2Service struct {
	config cfg.R2
	folder string
}

func NewR2Service(c cfg.Config) *R2Service {
	return &R2Service{config: c.Upload.R2, folder: c.Upload.Folder}
}

func (r *R2Service) R2Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.AccessKey, r.config.SecretKey, "")),
		config.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.AccountID))
	}), nil
}

// Upload puts the file under the upload folder keeping its base name, so a
// repeated upload overwrites the same object.
func (r *R2Service) Upload(ctx context.Context, localPath string) (string, error) {
	file, err := os.Open(localPath)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer file.Close()

	key := objectKey(r.folder, localPath)
	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType(localPath)),
	}

	client, err := r.R2Client(ctx)
	if err != nil {
		return "", err
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	return r.config.PublicURL + "/" + key, nil
}
