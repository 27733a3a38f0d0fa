package service

import (
	"context"

	"github.com/maheshrc27/autoposter/internal/models"
)

// TextGenerator produces text from a system and user prompt.
type TextGenerator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error)
}

// ImageGenerator synthesizes an image from a prompt and returns a local temp
// file path. An empty path with a nil error means generation is disabled.
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) (string, error)
}

// ImageCompositor renders text over a background and returns a local temp
// file path. An empty backgroundPath selects the theme default.
type ImageCompositor interface {
	Composite(ctx context.Context, backgroundPath, text string, theme models.Theme) (string, error)
}

// RemoteUploader pushes a local file to remote storage and returns its public
// URL.
type RemoteUploader interface {
	Upload(ctx context.Context, localPath string) (string, error)
}

// Dispatcher publishes resolved posts to one social platform.
type Dispatcher interface {
	Platform() string
	// StatusKey is the post field tracking this platform, e.g. "x_status".
	StatusKey() string
	// Publish returns the remote id of the published post. A non-empty id
	// with an error means the post landed but its thread did not.
	Publish(ctx context.Context, post *models.Post) (string, error)
}

// Notifier delivers a plain text summary.
type Notifier interface {
	Notify(ctx context.Context, message string) error
}
