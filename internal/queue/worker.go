package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/hibiken/asynq"
)

func (j *Queue) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TaskTypeGeneratePost, j.HandleGeneratePostTask)
	mux.HandleFunc(TaskTypeRunPosts, j.HandleRunPostsTask)
}

func (j *Queue) HandleGeneratePostTask(ctx context.Context, task *asynq.Task) error {
	payload, err := decodePayload(task)
	if err != nil {
		return err
	}

	post, err := j.g.ResolveNextPost(ctx)
	if err != nil {
		log.Printf("Error generating post requested by %s: %v", payload.RequestedBy, err)
		return err
	}
	if post == nil {
		log.Printf("No pending posts to generate")
		return nil
	}

	log.Printf("Post %d generated", post.ID)
	return nil
}

func (j *Queue) HandleRunPostsTask(ctx context.Context, task *asynq.Task) error {
	payload, err := decodePayload(task)
	if err != nil {
		return err
	}

	res, err := j.pub.RunPosts(ctx)
	if err != nil {
		log.Printf("Error running posts requested by %s: %v", payload.RequestedBy, err)
		return err
	}

	log.Printf("Run %s finished: all_ok=%t errors=%d", res.RunID, res.AllOK, len(res.Errors))
	return nil
}

func decodePayload(task *asynq.Task) (TaskPayload, error) {
	var payload TaskPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return payload, fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	return payload, nil
}
