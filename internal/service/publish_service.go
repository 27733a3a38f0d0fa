package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/transfer"
)

const (
	runMessageOK     = "Posts processed and published successfully."
	runMessageErrors = "Posts processed, but there were errors."
)

type PublishService interface {
	// RunPosts resolves the next pending post and publishes the next ready
	// post on every platform. Platform failures are reported in the result.
	RunPosts(ctx context.Context) (*transfer.RunResult, error)
	// PublishNext publishes the next ready post on one platform.
	PublishNext(ctx context.Context, platform string) (*models.Post, string, error)
}

type publishService struct {
	generator   GeneratorService
	posts       PostService
	files       FileService
	dispatchers []Dispatcher
	notifiers   []Notifier
}

func NewPublishService(
	generator GeneratorService,
	posts PostService,
	files FileService,
	dispatchers []Dispatcher,
	notifiers []Notifier) PublishService {
	return &publishService{
		generator:   generator,
		posts:       posts,
		files:       files,
		dispatchers: dispatchers,
		notifiers:   notifiers,
	}
}

func (s *publishService) RunPosts(ctx context.Context) (*transfer.RunResult, error) {
	runID := uuid.New().String()
	slog.Info("run started", "run_id", runID)

	res := &transfer.RunResult{
		RunID:  runID,
		Result: map[string]transfer.PlatformResult{},
		Errors: map[string]string{},
	}

	generated, err := s.generator.ResolveNextPost(ctx)
	if err != nil {
		slog.Info("post generation failed", "run_id", runID, "error", err)
		res.Errors["generate"] = err.Error()
	}
	res.Generated = generated

	var (
		wg sync.WaitGroup
		mu sync.Mutex
	)

	for _, d := range s.dispatchers {
		wg.Add(1)

		go func(d Dispatcher) {
			defer wg.Done()

			post, postID, err := s.publishWith(ctx, d)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				slog.Info("publish failed", "run_id", runID, "platform", d.Platform(), "error", err)
				res.Result[d.Platform()] = transfer.PlatformResult{PostID: postID, Error: err.Error()}
				res.Errors[d.Platform()] = err.Error()
				return
			}

			slog.Info("published", "run_id", runID, "platform", d.Platform(), "post_id", post.ID, "remote_id", postID)
			res.Result[d.Platform()] = transfer.PlatformResult{PostID: postID}
			setSocialOK(&res.SocialOK, d.Platform())
		}(d)
	}

	wg.Wait()

	res.AllOK = len(s.dispatchers) > 0
	for _, d := range s.dispatchers {
		if _, failed := res.Errors[d.Platform()]; failed {
			res.AllOK = false
		}
	}

	res.Message = runMessageOK
	if len(res.Errors) > 0 {
		res.Message = runMessageErrors
	}

	if res.AllOK {
		s.cleanImages(ctx, runID)
	}

	s.notify(ctx, res)
	return res, nil
}

func (s *publishService) PublishNext(ctx context.Context, platform string) (*models.Post, string, error) {
	for _, d := range s.dispatchers {
		if d.Platform() == platform {
			return s.publishWith(ctx, d)
		}
	}
	return nil, "", fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
}

func (s *publishService) publishWith(ctx context.Context, d Dispatcher) (*models.Post, string, error) {
	post, err := s.posts.NextPostBy(ctx, d.StatusKey(), models.StatusNotPosted, map[string]any{"is_processed": true})
	if err != nil {
		return nil, "", err
	}
	if post == nil {
		return nil, "", ErrNoPosts
	}

	remoteID, pubErr := d.Publish(ctx, post)
	if pubErr != nil && remoteID == "" {
		return post, "", pubErr
	}

	// a landed root is marked posted even when its thread broke
	if err := s.posts.SetStatus(ctx, post.ID, d.StatusKey(), models.StatusPosted); err != nil {
		return post, remoteID, errors.Join(pubErr, fmt.Errorf("published as %s but status was not saved: %w", remoteID, err))
	}
	return post, remoteID, pubErr
}

// cleanImages purges managed media once no processed post is waiting for
// any platform.
func (s *publishService) cleanImages(ctx context.Context, runID string) {
	for _, d := range s.dispatchers {
		pending, err := s.posts.NextPostBy(ctx, d.StatusKey(), models.StatusNotPosted, map[string]any{"is_processed": true})
		if err != nil {
			slog.Info("unable to check pending posts", "run_id", runID, "error", err)
			return
		}
		if pending != nil {
			slog.Info("keeping images, posts still pending", "run_id", runID, "platform", d.Platform(), "post_id", pending.ID)
			return
		}
	}

	if err := s.files.CleanImages(); err != nil {
		slog.Info("failed to clean images", "run_id", runID, "error", err)
	}
}

func (s *publishService) notify(ctx context.Context, res *transfer.RunResult) {
	if len(s.notifiers) == 0 {
		return
	}

	message := summary(s.dispatchers, res)
	for _, n := range s.notifiers {
		if err := n.Notify(ctx, message); err != nil {
			slog.Info("notification failed", "run_id", res.RunID, "error", err)
		}
	}
}

func summary(dispatchers []Dispatcher, res *transfer.RunResult) string {
	var b strings.Builder
	b.WriteString("Posting Summary:\n")
	for _, d := range dispatchers {
		state := "OK"
		if _, failed := res.Errors[d.Platform()]; failed {
			state = "ERROR"
		}
		fmt.Fprintf(&b, "%s: %s\n", platformNames[d.Platform()], state)
	}

	b.WriteString("\n")
	if len(res.Errors) == 0 {
		b.WriteString("No errors.")
		return b.String()
	}

	b.WriteString("Errors:")
	for _, key := range errorOrder(dispatchers, res.Errors) {
		fmt.Fprintf(&b, "\n- %s: %s", key, res.Errors[key])
	}
	return b.String()
}

// errorOrder lists the generate error first, then platforms in dispatcher
// order.
func errorOrder(dispatchers []Dispatcher, errs map[string]string) []string {
	var keys []string
	if _, ok := errs["generate"]; ok {
		keys = append(keys, "generate")
	}
	for _, d := range dispatchers {
		if _, ok := errs[d.Platform()]; ok {
			keys = append(keys, d.Platform())
		}
	}
	return keys
}

func setSocialOK(ok *transfer.SocialOK, platform string) {
	switch platform {
	case "x":
		ok.X = true
	case "instagram":
		ok.Instagram = true
	case "facebook":
		ok.Facebook = true
	}
}

// IsNoPosts reports whether err only means there was nothing to publish.
func IsNoPosts(err error) bool {
	return errors.Is(err, ErrNoPosts)
}
