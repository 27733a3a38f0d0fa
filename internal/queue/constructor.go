package queue

import (
	"time"

	"github.com/maheshrc27/autoposter/internal/service"
)

type Queue struct {
	g   service.GeneratorService
	pub service.PublishService
}

func NewQueue(g service.GeneratorService, pub service.PublishService) *Queue {
	return &Queue{g: g, pub: pub}
}

const (
	TaskTypeGeneratePost = "posts:generate"
	TaskTypeRunPosts     = "posts:run"
)

type TaskPayload struct {
	RequestedBy string    `json:"requested_by"`
	RequestedAt time.Time `json:"requested_at"`
}
