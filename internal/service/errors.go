package service

import (
	"errors"
	"fmt"
)

var (
	ErrNoPosts              = errors.New("no posts to publish")
	ErrPostNotFound         = errors.New("post not found")
	ErrPostingDisabled      = errors.New("posting is disabled by configuration")
	ErrUnsupportedMedia     = errors.New("unsupported media type")
	ErrUnknownPlatform      = errors.New("unknown platform")
	ErrUnknownField         = errors.New("unknown post field")
	ErrGenerationIncomplete = errors.New("post generation incomplete")
	ErrGenerationDisabled   = errors.New("content generation is disabled by configuration")
)

// ValidationError reports generated content above a platform hard limit.
type ValidationError struct {
	PostID int64
	Field  string
	Length int
	Limit  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("post %d: %s has %d characters, limit is %d", e.PostID, e.Field, e.Length, e.Limit)
}
