package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"

	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/repository"
)

// Sequence assigns post types by ingestion position modulo its length.
var Sequence = [...]models.PostType{
	models.PostTypePromptToMedia,
	models.PostTypeMetadataToMedia,
	models.PostTypePromptToMedia,
	models.PostTypeMetadataToMedia,
	models.PostTypeMetadataToMediaWithBackground,
	models.PostTypeMetadataToMedia,
}

// threadSlot is the only Sequence position that spawns a thread.
const threadSlot = 1

const (
	minThreads = 1
	maxThreads = 5
)

type GeneratorService interface {
	// IngestRawIdeas turns ideas into skeleton posts and stores them in the
	// processed collection.
	IngestRawIdeas(ctx context.Context, ideas []models.Idea) (*models.PostCollection, error)
	// GeneratePosts ingests the stored raw ideas and clears them.
	GeneratePosts(ctx context.Context) (*models.PostCollection, error)
	// ResolveNextPost fills content and media of the first unprocessed
	// skeleton. It returns nil, nil when nothing is pending.
	ResolveNextPost(ctx context.Context) (*models.Post, error)
}

type generatorService struct {
	mu        sync.Mutex
	processed repository.PostRepository
	posts     repository.PostRepository
	appData   repository.AppDataRepository
	ideas     repository.IdeaRepository
	content   ContentService
	media     MediaService
	intn      func(n int) int
}

func NewGeneratorService(
	processed repository.PostRepository,
	posts repository.PostRepository,
	appData repository.AppDataRepository,
	ideas repository.IdeaRepository,
	content ContentService,
	media MediaService) GeneratorService {
	return &generatorService{
		processed: processed,
		posts:     posts,
		appData:   appData,
		ideas:     ideas,
		content:   content,
		media:     media,
		intn:      rand.IntN,
	}
}

func (s *generatorService) IngestRawIdeas(ctx context.Context, ideas []models.Idea) (*models.PostCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ingest(ctx, ideas)
}

func (s *generatorService) ingest(ctx context.Context, ideas []models.Idea) (*models.PostCollection, error) {
	created := &models.PostCollection{Posts: []*models.Post{}}

	for i, idea := range ideas {
		id, err := s.appData.NextID(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to assign post id: %w", err)
		}

		slot := i % len(Sequence)
		post := models.NewSkeleton(id, Sequence[slot])
		post.DefaultPhrase = idea.Phrase
		post.Topic = idea.Topic
		post.AIContent = true
		post.IsThread = slot == threadSlot
		if post.IsThread {
			post.Threads = s.spawnThreads(post)
		}

		created.Posts = append(created.Posts, post)
	}

	if len(created.Posts) == 0 {
		return created, nil
	}

	err := s.processed.Update(ctx, func(c *models.PostCollection) error {
		for _, p := range created.Posts {
			repository.Upsert(c, p)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	slog.Info("ideas ingested", "count", len(created.Posts))
	return created, nil
}

func (s *generatorService) spawnThreads(parent *models.Post) []*models.Post {
	total := minThreads + s.intn(maxThreads-minThreads+1)

	threads := make([]*models.Post, 0, total)
	for i := 0; i < total; i++ {
		child := models.NewSkeleton(models.ThreadID(parent.ID, i), parent.PostType)
		child.AIContent = true
		threads = append(threads, child)
	}
	return threads
}

func (s *generatorService) GeneratePosts(ctx context.Context) (*models.PostCollection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ideas, err := s.ideas.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(ideas) == 0 {
		slog.Info("no raw ideas to ingest")
		return &models.PostCollection{Posts: []*models.Post{}}, nil
	}

	created, err := s.ingest(ctx, ideas)
	if err != nil {
		return nil, err
	}

	if err := s.ideas.Clear(ctx); err != nil {
		return nil, fmt.Errorf("ideas ingested but not cleared: %w", err)
	}
	return created, nil
}

func (s *generatorService) ResolveNextPost(ctx context.Context) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.processed.Load(ctx)
	if err != nil {
		return nil, err
	}

	post := repository.FindNext(c, repository.FieldEquals("is_processed", false))
	if post == nil {
		return nil, nil
	}

	slog.Info("resolving post", "post_id", post.ID, "post_type", post.PostType)

	err = s.resolve(ctx, post)
	if err == nil && !post.HasMedia() {
		slog.Info("post has no media files, regenerating", "post_id", post.ID)
		err = s.resolve(ctx, post)
	}

	if err != nil {
		if saveErr := s.processed.SaveUpdated(ctx, post); saveErr != nil {
			slog.Info("failed to save partial post", "post_id", post.ID, "error", saveErr)
		}
		var verr *ValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrGenerationIncomplete, err)
	}

	// a record is marked processed only once it is in the publishing collection
	post.IsProcessed = true
	if err := s.posts.SaveUpdated(ctx, post); err != nil {
		post.IsProcessed = false
		slog.Info("failed to save post for publishing", "post_id", post.ID, "error", err)
		return nil, err
	}
	if err := s.processed.SaveUpdated(ctx, post); err != nil {
		slog.Info("failed to mark post processed", "post_id", post.ID, "error", err)
		return nil, err
	}

	slog.Info("post processed", "post_id", post.ID)
	return post, nil
}

// resolve walks the root and then its children in order. The walk stops at
// the first node with errors because every child continues its predecessor.
func (s *generatorService) resolve(ctx context.Context, root *models.Post) error {
	total := len(root.Threads)

	if err := s.resolveNode(ctx, root, CaptionContext{TotalThreads: total}); err != nil {
		return err
	}

	prev := root
	for _, child := range root.Threads {
		if err := s.content.EnsureThreadPhrase(ctx, child, prev); err != nil {
			return err
		}

		cc := CaptionContext{IsThread: true, TotalThreads: total, Last: prev}
		if err := s.resolveNode(ctx, child, cc); err != nil {
			return err
		}
		prev = child
	}
	return nil
}

// resolveNode fills media inputs, media, hashtags (roots only) and captions.
func (s *generatorService) resolveNode(ctx context.Context, post *models.Post, cc CaptionContext) error {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	collect(s.content.EnsureImagePrompt(ctx, post))
	s.content.EnsureBackgroundText(post)
	collect(s.content.EnsureBackgroundPrompt(ctx, post))
	collect(s.media.Resolve(ctx, post))

	if !cc.IsThread {
		var tagErrs []error
		for _, platform := range HashtagPlatforms {
			if err := s.content.EnsureHashtags(ctx, post, platform); err != nil {
				tagErrs = append(tagErrs, err)
			}
		}
		// caption budgets depend on the hashtags
		if len(tagErrs) > 0 {
			return errors.Join(append(errs, tagErrs...)...)
		}
	}

	collect(s.content.EnsureCaption(ctx, post, FieldXContent, cc))
	collect(s.content.EnsureCaption(ctx, post, FieldMetaContent, cc))

	if err := s.content.ValidateCaptions(post); err != nil {
		var verr *ValidationError
		if errors.As(err, &verr) {
			// cleared so the next attempt generates it again
			setCaption(post, verr.Field, "")
		}
		return err
	}

	return errors.Join(errs...)
}
