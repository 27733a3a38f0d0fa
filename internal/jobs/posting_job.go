package job

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/hibiken/asynq"
	"github.com/maheshrc27/autoposter/internal/queue"
	"github.com/maheshrc27/autoposter/internal/service"
	"github.com/robfig/cron"
)

type PostingJob struct {
	pub    service.PublishService
	client *asynq.Client
}

// NewPostingJob enqueues a run when client is set and runs it in place
// otherwise.
func NewPostingJob(pub service.PublishService, client *asynq.Client) *PostingJob {
	return &PostingJob{pub: pub, client: client}
}

func (j *PostingJob) RunPosts() {
	if j.client != nil {
		payload := queue.TaskPayload{RequestedBy: "cron", RequestedAt: time.Now()}
		if _, err := queue.EnqueueTask(j.client, queue.TaskTypeRunPosts, payload, 0); err != nil {
			slog.Info("unable to enqueue scheduled run", "error", err)
		}
		return
	}

	res, err := j.pub.RunPosts(context.Background())
	if err != nil {
		slog.Info(err.Error())
		return
	}
	slog.Info("scheduled run finished", "run_id", res.RunID, "all_ok", res.AllOK)
}

// Schedule registers one daily run per "HH:MM" entry of times.
func (j *PostingJob) Schedule(c *cron.Cron, times []string) error {
	for _, t := range times {
		spec, err := CronSpec(t)
		if err != nil {
			return err
		}
		if err := c.AddFunc(spec, j.RunPosts); err != nil {
			return fmt.Errorf("schedule %s: %w", t, err)
		}
		slog.Info("posting run scheduled", "time", t, "spec", spec)
	}
	return nil
}

// CronSpec converts "HH:MM" into a six field daily cron spec.
func CronSpec(hhmm string) (string, error) {
	parts := strings.Split(strings.TrimSpace(hhmm), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid posting time %q", hhmm)
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid hour in posting time %q", hhmm)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid minute in posting time %q", hhmm)
	}

	return fmt.Sprintf("0 %d %d * * *", minute, hour), nil
}
