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

type facebookService struct {
	cfg    config.Facebook
	allow  bool
	files  FileService
	client *http.Client
}

// NewFacebookService publishes page photos through the Graph API. Threads
// become albums of unpublished photos attached to one feed post.
func NewFacebookService(cfg config.Config, files FileService, client *http.Client) Dispatcher {
	if client == nil {
		client = http.DefaultClient
	}
	return &facebookService{
		cfg:    cfg.Facebook,
		allow:  cfg.AllowPosting,
		files:  files,
		client: client,
	}
}

func (fb *facebookService) Platform() string  { return "facebook" }
func (fb *facebookService) StatusKey() string { return "fb_status" }

func (fb *facebookService) Publish(ctx context.Context, post *models.Post) (string, error) {
	if !fb.allow {
		return "", ErrPostingDisabled
	}

	fbLinks := func(p *models.Post) []models.Link { return p.FBLinks }

	if post.IsThread {
		urls := []string{imageURL(fb.files, post)}
		for _, t := range post.Threads {
			urls = append(urls, imageURL(fb.files, t))
		}
		urls = nonEmpty(urls)

		if len(urls) >= 2 {
			return fb.album(ctx, combineCaption(post, post.Threads, fbLinks, post.HashtagsFacebook), urls)
		}
	}

	url := imageURL(fb.files, post)
	if url == "" {
		return "", fmt.Errorf("post %d has no media for Facebook", post.ID)
	}
	return fb.photo(ctx, combineCaption(post, nil, fbLinks, post.HashtagsFacebook), url)
}

func (fb *facebookService) photo(ctx context.Context, caption, imageURL string) (string, error) {
	url := fmt.Sprintf("%s/%s/photos", fb.cfg.APIURL, fb.cfg.PageID)
	payload := map[string]any{
		"url":          imageURL,
		"caption":      caption,
		"access_token": fb.cfg.AccessToken,
	}

	var result transfer.GraphResponse
	if err := postJSON(ctx, fb.client, url, payload, nil, &result); err != nil {
		return "", fmt.Errorf("error posting photo: %w", err)
	}
	if result.ID == "" {
		return "", errors.New("no photo ID returned from Facebook")
	}

	slog.Info("facebook photo posted", "photo_id", result.ID, "post_id", result.PostID)
	if result.PostID != "" {
		return result.PostID, nil
	}
	return result.ID, nil
}

func (fb *facebookService) album(ctx context.Context, message string, imageURLs []string) (string, error) {
	photosURL := fmt.Sprintf("%s/%s/photos", fb.cfg.APIURL, fb.cfg.PageID)

	var attached []map[string]string
	for _, u := range imageURLs {
		var result transfer.GraphResponse
		payload := map[string]any{
			"url":          u,
			"published":    false,
			"access_token": fb.cfg.AccessToken,
		}
		if err := postJSON(ctx, fb.client, photosURL, payload, nil, &result); err != nil || result.ID == "" {
			slog.Info("failed to upload album photo", "image_url", u, "error", err)
			continue
		}
		attached = append(attached, map[string]string{"media_fbid": result.ID})
	}
	if len(attached) == 0 {
		return "", errors.New("no valid album items created")
	}

	feedURL := fmt.Sprintf("%s/%s/feed", fb.cfg.APIURL, fb.cfg.PageID)
	payload := map[string]any{
		"message":        message,
		"attached_media": attached,
		"access_token":   fb.cfg.AccessToken,
	}

	var result transfer.GraphResponse
	if err := postJSON(ctx, fb.client, feedURL, payload, nil, &result); err != nil {
		return "", fmt.Errorf("error posting album: %w", err)
	}
	if result.ID == "" {
		return "", errors.New("no post ID returned from Facebook")
	}

	slog.Info("facebook album posted", "post_id", result.ID)
	return result.ID, nil
}
