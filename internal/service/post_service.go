package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/repository"
)

// statusKeys maps a platform to the post field tracking it.
var statusKeys = map[string]string{
	"x":         "x_status",
	"instagram": "ig_status",
	"facebook":  "fb_status",
}

// StatusKeyFor returns the status field of platform.
func StatusKeyFor(platform string) (string, error) {
	key, ok := statusKeys[platform]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	return key, nil
}

type PostService interface {
	// NextPostBy returns the first top-level post with statusKey equal to
	// statusValue and matching every filter, or nil when none does.
	NextPostBy(ctx context.Context, statusKey string, statusValue any, filters map[string]any) (*models.Post, error)
	GetPost(ctx context.Context, id int64) (*models.Post, error)
	SetStatus(ctx context.Context, id int64, statusKey string, status models.PostingStatus) error
	MarkPlatformStatus(ctx context.Context, id int64, platform string, status models.PostingStatus) error
}

type postService struct {
	p repository.PostRepository
}

func NewPostService(p repository.PostRepository) PostService {
	return &postService{p: p}
}

func (s *postService) NextPostBy(ctx context.Context, statusKey string, statusValue any, filters map[string]any) (*models.Post, error) {
	c, err := s.p.Load(ctx)
	if err != nil {
		return nil, err
	}
	return repository.FindNext(c, repository.MatchAll(statusKey, statusValue, filters)), nil
}

func (s *postService) GetPost(ctx context.Context, id int64) (*models.Post, error) {
	c, err := s.p.Load(ctx)
	if err != nil {
		return nil, err
	}
	return repository.FindByID(c, id), nil
}

func (s *postService) SetStatus(ctx context.Context, id int64, statusKey string, status models.PostingStatus) error {
	if status != models.StatusNotPosted && status != models.StatusPosted {
		return fmt.Errorf("invalid posting status: %q", status)
	}

	err := s.p.Update(ctx, func(c *models.PostCollection) error {
		post := repository.FindByID(c, id)
		if post == nil {
			return fmt.Errorf("%w: %d", ErrPostNotFound, id)
		}

		switch statusKey {
		case "x_status":
			post.XStatus = status
		case "ig_status":
			post.IGStatus = status
		case "fb_status":
			post.FBStatus = status
		default:
			return fmt.Errorf("%w: %s", ErrUnknownField, statusKey)
		}
		return nil
	})
	if err != nil {
		slog.Info(err.Error())
		return err
	}

	slog.Info("post status updated", "post_id", id, "field", statusKey, "status", status)
	return nil
}

func (s *postService) MarkPlatformStatus(ctx context.Context, id int64, platform string, status models.PostingStatus) error {
	key, err := StatusKeyFor(platform)
	if err != nil {
		return err
	}
	return s.SetStatus(ctx, id, key, status)
}
