package models

// Idea is a raw post idea waiting to be ingested.
type Idea struct {
	Phrase string `json:"phrase"`
	Topic  string `json:"topic"`
}

type IdeaCollection struct {
	Posts []Idea `json:"posts"`
}

type PostsData struct {
	ConsecutiveID int64 `json:"consecutive_id"`
}

// AppData holds app-wide counters.
type AppData struct {
	PostsData PostsData `json:"posts_data"`
}
