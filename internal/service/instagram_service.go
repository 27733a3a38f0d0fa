package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/transfer"
)

const maxCarouselItems = 10

type instagramService struct {
	cfg    config.Instagram
	allow  bool
	files  FileService
	client *http.Client
}

// NewInstagramService publishes through the Instagram Graph API. Threads
// become carousels.
func NewInstagramService(cfg config.Config, files FileService, client *http.Client) Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &instagramService{
		cfg:    cfg.Instagram,
		allow:  cfg.AllowPosting,
		files:  files,
		client: client,
	}
}

func (ig *instagramService) Platform() string  { return "instagram" }
func (ig *instagramService) StatusKey() string { return "ig_status" }

func (ig *instagramService) Publish(ctx context.Context, post *models.Post) (string, error) {
	if !ig.allow {
		return "", ErrPostingDisabled
	}

	igLinks := func(p *models.Post) []models.Link { return p.IGLinks }

	if post.IsThread {
		urls := []string{imageURL(ig.files, post)}
		for _, t := range post.Threads {
			urls = append(urls, imageURL(ig.files, t))
		}
		urls = nonEmpty(urls)

		if len(urls) >= 2 {
			caption := combineCaption(post, post.Threads, igLinks, post.HashtagsInstagram)
			return ig.carousel(ctx, caption, urls)
		}
		slog.Info("not enough media for a carousel, publishing single image", "post_id", post.ID)
	}

	url := imageURL(ig.files, post)
	if url == "" {
		return "", fmt.Errorf("post %d has no media for Instagram", post.ID)
	}
	caption := combineCaption(post, nil, igLinks, post.HashtagsInstagram)
	return ig.single(ctx, caption, url)
}

func (ig *instagramService) single(ctx context.Context, caption, imageURL string) (string, error) {
	containerID, err := ig.createContainer(ctx, map[string]any{
		"image_url":    imageURL,
		"caption":      caption,
		"access_token": ig.cfg.AccessToken,
	})
	if err != nil {
		return "", fmt.Errorf("error creating media container: %w", err)
	}
	slog.Info("instagram media container created", "container_id", containerID)

	return ig.publish(ctx, containerID)
}

func (ig *instagramService) carousel(ctx context.Context, caption string, imageURLs []string) (string, error) {
	if len(imageURLs) > maxCarouselItems {
		slog.Info("limiting carousel items", "count", len(imageURLs), "limit", maxCarouselItems)
		imageURLs = imageURLs[:maxCarouselItems]
	}

	children := make([]string, 0, len(imageURLs))
	for _, u := range imageURLs {
		id, err := ig.createContainer(ctx, map[string]any{
			"image_url":        u,
			"is_carousel_item": true,
			"access_token":     ig.cfg.AccessToken,
		})
		if err != nil {
			slog.Info("failed to create carousel item", "image_url", u, "error", err)
			continue
		}
		children = append(children, id)
	}
	if len(children) == 0 {
		return "", errors.New("no valid carousel items created")
	}

	containerID, err := ig.createContainer(ctx, map[string]any{
		"media_type":   "CAROUSEL",
		"caption":      caption,
		"children":     children,
		"access_token": ig.cfg.AccessToken,
	})
	if err != nil {
		return "", fmt.Errorf("error creating carousel container: %w", err)
	}

	return ig.publish(ctx, containerID)
}

func (ig *instagramService) createContainer(ctx context.Context, payload map[string]any) (string, error) {
	url := fmt.Sprintf("%s/%s/media", ig.cfg.APIURL, ig.cfg.AccountID)

	var result transfer.GraphResponse
	if err := postJSON(ctx, ig.client, url, payload, nil, &result); err != nil {
		return "", err
	}
	if result.ID == "" {
		return "", errors.New("no media ID returned from Instagram")
	}
	return result.ID, nil
}

func (ig *instagramService) publish(ctx context.Context, containerID string) (string, error) {
	url := fmt.Sprintf("%s/%s/media_publish", ig.cfg.APIURL, ig.cfg.AccountID)
	payload := map[string]string{
		"creation_id":  containerID,
		"access_token": ig.cfg.AccessToken,
	}

	var result transfer.GraphResponse
	if err := postJSON(ctx, ig.client, url, payload, nil, &result); err != nil {
		return "", fmt.Errorf("error publishing post: %w", err)
	}
	if result.ID == "" {
		return "", errors.New("no post ID returned from Instagram")
	}

	slog.Info("instagram post published", "id", result.ID)
	return result.ID, nil
}

func nonEmpty(items []string) []string {
	out := items[:0]
	for _, item := range items {
		if item != "" {
			out = append(out, item)
		}
	}
	return out
}
