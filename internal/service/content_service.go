package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/pkg/utils"
)

const (
	FieldXContent    = "x_content"
	FieldMetaContent = "meta_content"

	minHashtags = 2
	maxHashtags = 8

	// room for the separator between caption and hashtags
	hashtagSeparator = 3

	XHardLimit    = 280
	MetaHardLimit = 2200
)

var HashtagPlatforms = []string{"x", "instagram", "facebook"}

var platformNames = map[string]string{
	"x":         "X (Twitter)",
	"instagram": "Instagram",
	"facebook":  "Facebook",
}

const (
	imagePromptSystem = "You are a creative assistant that generates prompts for AI-generated images."
	hashtagSystem     = "You are a social media assistant. You answer only with hashtags separated by spaces."
	captionSystem     = "You are a social media copywriter. You never exceed the character limit you are given and you never add hashtags."
	phraseSystem      = "You write short reflective phrases that continue a social media thread."

	continueMessage = "Continue with the reflection according to the idea. The idea must be developed in depth and the character limit must be respected."
	followMessage   = "Generate an invitation to follow. You can include emojis or phrases that motivate or invite the user to follow the page."
)

// CaptionContext carries the position of a post within its thread.
type CaptionContext struct {
	IsThread     bool
	TotalThreads int
	// Last is the preceding sibling, or the parent for the first child.
	Last *models.Post
}

type ContentService interface {
	EnsureImagePrompt(ctx context.Context, post *models.Post) error
	EnsureBackgroundText(post *models.Post)
	EnsureBackgroundPrompt(ctx context.Context, post *models.Post) error
	EnsureHashtags(ctx context.Context, post *models.Post, platform string) error
	EnsureCaption(ctx context.Context, post *models.Post, field string, cc CaptionContext) error
	EnsureThreadPhrase(ctx context.Context, child, predecessor *models.Post) error
	CaptionBudget(post *models.Post, field string, cc CaptionContext) int
	ValidateCaptions(post *models.Post) error
}

type contentService struct {
	text   TextGenerator
	light  TextGenerator
	limits config.Limits
	intn   func(n int) int
}

// NewContentService fills empty text fields. light serves hashtags and the
// short captions of metadata posts; it falls back to text when nil.
func NewContentService(cfg config.Config, text, light TextGenerator) ContentService {
	if light == nil {
		light = text
	}
	return &contentService{
		text:   text,
		light:  light,
		limits: cfg.Limits,
		intn:   rand.IntN,
	}
}

func (s *contentService) EnsureImagePrompt(ctx context.Context, post *models.Post) error {
	if post.PostType != models.PostTypePromptToMedia || post.PromptToMedia != "" {
		return nil
	}

	prompt, err := s.visualPrompt(ctx, post.DefaultPhrase)
	if err != nil {
		return fmt.Errorf("post %d: image prompt: %w", post.ID, err)
	}
	post.PromptToMedia = prompt
	return nil
}

func (s *contentService) EnsureBackgroundText(post *models.Post) {
	if post.PostType.UsesMetadata() && post.MetadataToMedia.Text == "" {
		post.MetadataToMedia.Text = post.DefaultPhrase
	}
}

func (s *contentService) EnsureBackgroundPrompt(ctx context.Context, post *models.Post) error {
	if post.PostType != models.PostTypeMetadataToMediaWithBackground || post.MetadataToMedia.PromptToBackground != "" {
		return nil
	}

	prompt, err := s.visualPrompt(ctx, post.DefaultPhrase)
	if err != nil {
		return fmt.Errorf("post %d: background prompt: %w", post.ID, err)
	}
	post.MetadataToMedia.PromptToBackground = prompt
	return nil
}

func (s *contentService) visualPrompt(ctx context.Context, idea string) (string, error) {
	return generate(ctx, s.text, imagePromptSystem, fmt.Sprintf("Generate a visual prompt from this idea: %s", idea), 0.9)
}

func (s *contentService) EnsureHashtags(ctx context.Context, post *models.Post, platform string) error {
	name, ok := platformNames[platform]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPlatform, platform)
	}
	if len(post.Hashtags(platform)) > 0 {
		return nil
	}

	total := minHashtags + s.intn(maxHashtags-minHashtags+1)
	user := fmt.Sprintf("Generate exactly %d hashtags for %s about this idea: %s", total, name, post.DefaultPhrase)

	resp, err := generate(ctx, s.light, hashtagSystem, user, 0.7)
	if err != nil {
		return fmt.Errorf("post %d: %s hashtags: %w", post.ID, platform, err)
	}

	tags := utils.SplitTags(resp)
	if len(tags) == 0 {
		return fmt.Errorf("post %d: %s hashtags: empty response", post.ID, platform)
	}
	post.SetHashtags(platform, tags)
	return nil
}

// CaptionBudget is the character budget for field. Root posts lose the
// length of their hashtags; thread children own no hashtags and share the
// Meta limit with their siblings. X thread entries are separate tweets and
// keep the full limit.
func (s *contentService) CaptionBudget(post *models.Post, field string, cc CaptionContext) int {
	xLimit := s.limits.XContent
	metaLimit := s.limits.MetaContent

	if cc.IsThread {
		switch field {
		case FieldXContent:
			return xLimit
		case FieldMetaContent:
			return metaLimit / (cc.TotalThreads + 1)
		}
		return 0
	}

	switch field {
	case FieldXContent:
		return xLimit - (utils.CountCharacters(utils.JoinTags(post.HashtagsX)) + hashtagSeparator)
	case FieldMetaContent:
		overhead := utils.CountCharacters(utils.JoinTags(post.HashtagsInstagram)) +
			utils.CountCharacters(utils.JoinTags(post.HashtagsFacebook)) + hashtagSeparator
		if post.PostType.UsesMetadata() {
			return metaLimit/2 - overhead
		}
		return metaLimit - overhead
	}
	return 0
}

func (s *contentService) EnsureCaption(ctx context.Context, post *models.Post, field string, cc CaptionContext) error {
	current, err := caption(post, field)
	if err != nil {
		return err
	}
	if current != "" {
		return nil
	}

	budget := s.CaptionBudget(post, field, cc)
	if budget <= 0 {
		return fmt.Errorf("post %d: no character budget left for %s", post.ID, field)
	}

	gen := s.text
	message := continueMessage
	if post.PostType.UsesMetadata() {
		gen = s.light
		if cc.TotalThreads == 0 {
			message = followMessage
		}
	}

	var previous string
	if cc.IsThread && cc.Last != nil {
		previous, _ = caption(cc.Last, field)
	}

	user := message
	if previous != "" {
		user += "\n\nPrevious text of the thread: " + previous
	}
	user += fmt.Sprintf("\n\nIdea: %s\n\nThe text must have at most %d characters.", post.DefaultPhrase, budget)

	text, err := generate(ctx, gen, captionSystem, user, 0.8)
	if err != nil {
		return fmt.Errorf("post %d: %s: %w", post.ID, field, err)
	}

	slog.Info("caption generated", "post_id", post.ID, "field", field, "budget", budget, "length", utils.CountCharacters(text))
	return setCaption(post, field, text)
}

func (s *contentService) EnsureThreadPhrase(ctx context.Context, child, predecessor *models.Post) error {
	if child.DefaultPhrase != "" {
		return nil
	}

	user := fmt.Sprintf(
		"Generate a phrase with the limit of %d characters that continues the idea as a thread.\n\nPrevious phrase: %s",
		s.limits.DefaultPhrase, predecessor.DefaultPhrase,
	)
	phrase, err := generate(ctx, s.text, phraseSystem, user, 0.9)
	if err != nil {
		return fmt.Errorf("post %d: thread phrase: %w", child.ID, err)
	}
	child.DefaultPhrase = phrase
	return nil
}

// ValidateCaptions rejects captions whose published text, caption plus the
// platform hashtags, is above the platform hard limits. Thread children own
// no hashtags, so only their caption counts.
func (s *contentService) ValidateCaptions(post *models.Post) error {
	if n := publishedLength(post.XContent, post.HashtagsX); n > XHardLimit {
		return &ValidationError{PostID: post.ID, Field: FieldXContent, Length: n, Limit: XHardLimit}
	}
	for _, tags := range [][]string{post.HashtagsInstagram, post.HashtagsFacebook} {
		if n := publishedLength(post.MetaContent, tags); n > MetaHardLimit {
			return &ValidationError{PostID: post.ID, Field: FieldMetaContent, Length: n, Limit: MetaHardLimit}
		}
	}
	return nil
}

func publishedLength(caption string, tags []string) int {
	return utils.CountCharacters(utils.JoinNonEmpty("\n\n", caption, utils.JoinTags(tags)))
}

func caption(post *models.Post, field string) (string, error) {
	switch field {
	case FieldXContent:
		return post.XContent, nil
	case FieldMetaContent:
		return post.MetaContent, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownField, field)
}

func setCaption(post *models.Post, field, value string) error {
	switch field {
	case FieldXContent:
		post.XContent = value
	case FieldMetaContent:
		post.MetaContent = value
	default:
		return fmt.Errorf("%w: %s", ErrUnknownField, field)
	}
	return nil
}

// generate calls gen and trims whitespace and wrapping quotes from the answer.
func generate(ctx context.Context, gen TextGenerator, system, user string, temperature float32) (string, error) {
	text, err := gen.Generate(ctx, system, user, temperature)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}

	text = strings.Trim(strings.TrimSpace(text), "\"“”")
	text = strings.TrimSpace(text)
	if text == "" {
		return "", errors.New("empty response from text generator")
	}
	return text, nil
}
