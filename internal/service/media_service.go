package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/autoposter/internal/models"
)

const backgroundSuffix = "_background"

type MediaService interface {
	// Resolve makes post.MediaPath point to an existing local image, reusing
	// it when possible, generating it otherwise, and uploads it when no remote
	// URL is known yet.
	Resolve(ctx context.Context, post *models.Post) error
}

type mediaService struct {
	files      FileService
	images     ImageGenerator
	compositor ImageCompositor
	uploader   RemoteUploader
}

func NewMediaService(files FileService, images ImageGenerator, compositor ImageCompositor, uploader RemoteUploader) MediaService {
	return &mediaService{
		files:      files,
		images:     images,
		compositor: compositor,
		uploader:   uploader,
	}
}

func (s *mediaService) Resolve(ctx context.Context, post *models.Post) error {
	if post.MediaPath != "" {
		if s.files.Exists(post.MediaPath) {
			post.MediaPath = s.files.Resolve(post.MediaPath)
			s.upload(ctx, post)
			return nil
		}
		slog.Info("media file does not exist, regenerating", "post_id", post.ID, "path", post.MediaPath)
	} else if !hasMediaInputs(post) {
		return nil
	}

	slog.Info("generating media", "post_id", post.ID, "post_type", post.PostType)
	post.MediaPath = ""
	post.MediaPathRemote = ""

	var err error
	switch post.PostType {
	case models.PostTypePromptToMedia:
		err = s.fromPrompt(ctx, post)
	case models.PostTypeMetadataToMedia, models.PostTypeMetadataToMediaWithBackground:
		err = s.fromMetadata(ctx, post)
	default:
		err = fmt.Errorf("post %d: unknown post type %q", post.ID, post.PostType)
	}
	if err != nil {
		return err
	}

	s.upload(ctx, post)
	return nil
}

func hasMediaInputs(post *models.Post) bool {
	switch post.PostType {
	case models.PostTypePromptToMedia:
		return post.PromptToMedia != ""
	case models.PostTypeMetadataToMedia, models.PostTypeMetadataToMediaWithBackground:
		return post.MetadataToMedia.Text != ""
	}
	return false
}

func (s *mediaService) fromPrompt(ctx context.Context, post *models.Post) error {
	if post.PromptToMedia == "" {
		return nil
	}

	temp, err := s.images.GenerateImage(ctx, post.PromptToMedia)
	if err != nil {
		return fmt.Errorf("post %d: image generation: %w", post.ID, err)
	}
	if temp == "" {
		slog.Info("image generation returned no file", "post_id", post.ID)
		return nil
	}

	path, err := s.files.MoveToImages(temp, post.ID, "")
	if err != nil {
		return fmt.Errorf("post %d: store image: %w", post.ID, err)
	}
	post.MediaPath = path
	return nil
}

// fromMetadata composites the metadata text over a background. A generated
// background only lives until the composite is rendered.
func (s *mediaService) fromMetadata(ctx context.Context, post *models.Post) error {
	m := &post.MetadataToMedia

	if m.PromptToBackground != "" && m.BackgroundPath == "" {
		temp, err := s.images.GenerateImage(ctx, m.PromptToBackground)
		if err != nil {
			return fmt.Errorf("post %d: background generation: %w", post.ID, err)
		}
		if temp != "" {
			path, err := s.files.MoveToImages(temp, post.ID, backgroundSuffix)
			if err != nil {
				return fmt.Errorf("post %d: store background: %w", post.ID, err)
			}
			m.BackgroundPath = path
		}
	}

	defer s.dropBackground(post)

	out, err := s.compositor.Composite(ctx, s.files.Resolve(m.BackgroundPath), m.Text, post.Theme)
	if err != nil {
		return fmt.Errorf("post %d: composite: %w", post.ID, err)
	}

	path, err := s.files.MoveToImages(out, post.ID, "")
	if err != nil {
		return fmt.Errorf("post %d: store composite: %w", post.ID, err)
	}
	post.MediaPath = path
	return nil
}

func (s *mediaService) dropBackground(post *models.Post) {
	m := &post.MetadataToMedia
	if m.BackgroundPath == "" {
		return
	}
	if err := s.files.Delete(m.BackgroundPath); err != nil {
		slog.Info("failed to delete background", "post_id", post.ID, "error", err)
	}
	m.BackgroundPath = ""
}

// upload never fails the resolution; a failed upload leaves the remote URL
// empty for the next attempt.
func (s *mediaService) upload(ctx context.Context, post *models.Post) {
	if s.uploader == nil || post.MediaPath == "" || post.MediaPathRemote != "" {
		return
	}

	url, err := s.uploader.Upload(ctx, post.MediaPath)
	if err != nil {
		slog.Info("remote upload failed", "post_id", post.ID, "error", err)
		return
	}
	post.MediaPathRemote = url
}
