package models

// PostType selects the media generation strategy of a post.
type PostType string

const (
	PostTypePromptToMedia                 PostType = "prompt_to_media"
	PostTypeMetadataToMedia               PostType = "metadata_to_media"
	PostTypeMetadataToMediaWithBackground PostType = "metadata_to_media_with_background"
)

// UsesMetadata reports whether media is composited from metadata_to_media.
func (t PostType) UsesMetadata() bool {
	return t == PostTypeMetadataToMedia || t == PostTypeMetadataToMediaWithBackground
}

func (t PostType) Valid() bool {
	switch t {
	case PostTypePromptToMedia, PostTypeMetadataToMedia, PostTypeMetadataToMediaWithBackground:
		return true
	}
	return false
}

type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

// ThemeFor is dark for even ids and light for odd ones.
func ThemeFor(id int64) Theme {
	if id%2 == 0 {
		return ThemeDark
	}
	return ThemeLight
}

type PostingStatus string

const (
	StatusNotPosted PostingStatus = "not_posted"
	StatusPosted    PostingStatus = "posted"
)

const threadIDFactor = 100000

// ThreadID derives the id of the index-th child of parentID.
func ThreadID(parentID int64, index int) int64 {
	return parentID*threadIDFactor + int64(index)
}

type MetadataToMedia struct {
	Text               string `json:"text"`
	BackgroundPath     string `json:"background_path"`
	PromptToBackground string `json:"prompt_to_background"`
}

// Link is appended to a platform caption as "description: url".
type Link struct {
	Description string `json:"description"`
	URL         string `json:"url"`
}

type Post struct {
	ID                int64           `json:"id"`
	PostType          PostType        `json:"post_type"`
	DefaultPhrase     string          `json:"default_phrase"`
	Topic             string          `json:"topic"`
	XContent          string          `json:"x_content"`
	MetaContent       string          `json:"meta_content"`
	PromptToMedia     string          `json:"prompt_to_media"`
	MetadataToMedia   MetadataToMedia `json:"metadata_to_media"`
	MediaPath         string          `json:"media_path"`
	MediaPathRemote   string          `json:"media_path_remote"`
	HashtagsX         []string        `json:"hashtags_x"`
	HashtagsInstagram []string        `json:"hashtags_instagram"`
	HashtagsFacebook  []string        `json:"hashtags_facebook"`
	XLinks            []Link          `json:"x_links"`
	IGLinks           []Link          `json:"ig_links"`
	FBLinks           []Link          `json:"fb_links"`
	IsThread          bool            `json:"is_thread"`
	Threads           []*Post         `json:"threads,omitempty"`
	IsProcessed       bool            `json:"is_processed"`
	XStatus           PostingStatus   `json:"x_status"`
	IGStatus          PostingStatus   `json:"ig_status"`
	FBStatus          PostingStatus   `json:"fb_status"`
	Theme             Theme           `json:"theme"`
	AIContent         bool            `json:"ai_content"`
	Copied            bool            `json:"copied"`
}

// NewSkeleton returns a post with identity, type and theme set and every
// content field empty.
func NewSkeleton(id int64, postType PostType) *Post {
	return &Post{
		ID:                id,
		PostType:          postType,
		HashtagsX:         []string{},
		HashtagsInstagram: []string{},
		HashtagsFacebook:  []string{},
		XLinks:            []Link{},
		IGLinks:           []Link{},
		FBLinks:           []Link{},
		XStatus:           StatusNotPosted,
		IGStatus:          StatusNotPosted,
		FBStatus:          StatusNotPosted,
		Theme:             ThemeFor(id),
	}
}

// Hashtags returns the tag list owned by platform ("x", "instagram", "facebook").
func (p *Post) Hashtags(platform string) []string {
	switch platform {
	case "x":
		return p.HashtagsX
	case "instagram":
		return p.HashtagsInstagram
	case "facebook":
		return p.HashtagsFacebook
	}
	return nil
}

func (p *Post) SetHashtags(platform string, tags []string) {
	switch platform {
	case "x":
		p.HashtagsX = tags
	case "instagram":
		p.HashtagsInstagram = tags
	case "facebook":
		p.HashtagsFacebook = tags
	}
}

// HasMedia reports whether a local or remote media reference is set.
func (p *Post) HasMedia() bool {
	return p.MediaPath != "" || p.MediaPathRemote != ""
}

type PostCollection struct {
	Posts []*Post `json:"posts"`
}
