package transfer

import "github.com/maheshrc27/autoposter/internal/models"

// GraphResponse is the common reply of Graph API create calls.
type GraphResponse struct {
	ID     string `json:"id"`
	PostID string `json:"post_id,omitempty"`
}

type IngestRequest struct {
	Ideas []models.Idea `json:"posts"`
}

type StatusUpdateRequest struct {
	Platform string               `json:"platform"`
	Status   models.PostingStatus `json:"status"`
}

type PlatformResult struct {
	PostID string `json:"post_id,omitempty"`
	Error  string `json:"error,omitempty"`
}

type SocialOK struct {
	X         bool `json:"x"`
	Instagram bool `json:"instagram"`
	Facebook  bool `json:"facebook"`
}

type RunResult struct {
	RunID     string                    `json:"run_id"`
	Message   string                    `json:"message"`
	Generated *models.Post              `json:"generated,omitempty"`
	Result    map[string]PlatformResult `json:"result"`
	Errors    map[string]string         `json:"errors"`
	AllOK     bool                      `json:"all_ok"`
	SocialOK  SocialOK                  `json:"social_ok"`
}
