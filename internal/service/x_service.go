package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/transfer"
	"github.com/maheshrc27/autoposter/pkg/utils"
	"golang.org/x/oauth2"
)

var xScopes = []string{"tweet.read", "tweet.write", "users.read", "media.write", "offline.access"}

type xService struct {
	apiURL string
	allow  bool
	files  FileService
	client *http.Client
}

// NewXService posts tweets with OAuth2 user context. The access token is
// refreshed from the refresh token whenever it expires.
func NewXService(cfg config.Config, files FileService) Dispatcher {
	conf := &oauth2.Config{
		ClientID:     cfg.X.ClientID,
		ClientSecret: cfg.X.ClientSecret,
		Scopes:       xScopes,
		Endpoint: oauth2.Endpoint{
			AuthURL:   "https://x.com/i/oauth2/authorize",
			TokenURL:  cfg.X.APIURL + "/2/oauth2/token",
			AuthStyle: oauth2.AuthStyleInHeader,
		},
	}

	token := &oauth2.Token{AccessToken: cfg.X.AccessToken, RefreshToken: cfg.X.RefreshToken}
	client := oauth2.NewClient(context.Background(), conf.TokenSource(context.Background(), token))

	return newXService(cfg, files, client)
}

func newXService(cfg config.Config, files FileService, client *http.Client) *xService {
	return &xService{
		apiURL: cfg.X.APIURL,
		allow:  cfg.AllowPosting,
		files:  files,
		client: client,
	}
}

func (x *xService) Platform() string  { return "x" }
func (x *xService) StatusKey() string { return "x_status" }

// Publish posts the root tweet and replies with every thread child in order.
// It returns the id of the root tweet.
func (x *xService) Publish(ctx context.Context, post *models.Post) (string, error) {
	if !x.allow {
		return "", ErrPostingDisabled
	}

	rootText := utils.JoinNonEmpty("\n\n", post.XContent, utils.JoinTags(post.HashtagsX))
	if rootText == "" {
		return "", fmt.Errorf("post %d has no X content", post.ID)
	}

	rootID, err := x.tweet(ctx, rootText, post, "")
	if err != nil {
		return "", err
	}

	replyTo := rootID
	for _, child := range post.Threads {
		if child.XContent == "" {
			slog.Info("skipping empty thread entry", "post_id", child.ID)
			continue
		}
		id, err := x.tweet(ctx, child.XContent, child, replyTo)
		if err != nil {
			return rootID, fmt.Errorf("thread broken after tweet %s: %w", replyTo, err)
		}
		replyTo = id
	}

	slog.Info("x thread posted", "post_id", post.ID, "tweet_id", rootID)
	return rootID, nil
}

func (x *xService) tweet(ctx context.Context, text string, post *models.Post, replyTo string) (string, error) {
	req := transfer.XTweetRequest{Text: text}

	if post.MediaPath != "" && x.files.Exists(post.MediaPath) {
		mediaID, err := x.uploadMedia(ctx, x.files.Resolve(post.MediaPath))
		if err != nil {
			return "", err
		}
		req.Media = &transfer.XTweetMedia{MediaIDs: []string{mediaID}}
	}
	if replyTo != "" {
		req.Reply = &transfer.XTweetReply{InReplyToTweetID: replyTo}
	}

	var resp transfer.XTweetResponse
	if err := postJSON(ctx, x.client, x.apiURL+"/2/tweets", req, nil, &resp); err != nil {
		return "", fmt.Errorf("create tweet: %w", err)
	}
	if resp.Data.ID == "" {
		return "", errors.New("no tweet ID returned from X")
	}
	return resp.Data.ID, nil
}

func (x *xService) uploadMedia(ctx context.Context, path string) (string, error) {
	file, err := os.Open(path)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer file.Close()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if err := w.WriteField("media_category", "tweet_image"); err != nil {
		return "", err
	}
	part, err := w.CreateFormFile("media", filepath.Base(path))
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, x.apiURL+"/2/media/upload", &body)
	if err != nil {
		return "", fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	var resp transfer.XMediaUploadResponse
	if err := doRequest(x.client, req, &resp); err != nil {
		return "", fmt.Errorf("media upload: %w", err)
	}

	if resp.Data.ID != "" {
		return resp.Data.ID, nil
	}
	if resp.MediaIDString != "" {
		return resp.MediaIDString, nil
	}
	return "", errors.New("no media ID returned from X")
}
