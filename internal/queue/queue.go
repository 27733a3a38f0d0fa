package queue

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
)

// retries per task type; a run is not retried so platforms are not hit twice
var maxRetry = map[string]int{
	TaskTypeGeneratePost: 3,
	TaskTypeRunPosts:     0,
}

func EnqueueTask(asynqClient *asynq.Client, taskType string, payload TaskPayload, delay time.Duration) (string, error) {
	retries, ok := maxRetry[taskType]
	if !ok {
		return "", fmt.Errorf("unknown task type: %s", taskType)
	}

	taskPayload, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	task := asynq.NewTask(taskType, taskPayload)

	info, err := asynqClient.Enqueue(task, asynq.ProcessIn(delay), asynq.MaxRetry(retries))
	if err != nil {
		return "", err
	}

	log.Printf("Task %s enqueued: %+v", taskType, payload)
	return info.ID, nil
}
