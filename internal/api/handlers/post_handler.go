package handlers

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/maheshrc27/autoposter/internal/queue"
	"github.com/maheshrc27/autoposter/internal/repository"
	"github.com/maheshrc27/autoposter/internal/service"
	"github.com/maheshrc27/autoposter/internal/transfer"
)

type PostHandler struct {
	g           service.GeneratorService
	p           service.PostService
	pub         service.PublishService
	AsynqClient *asynq.Client
}

// NewPostHandler builds the post routes. asynqClient may be nil, in which
// case async requests are rejected.
func NewPostHandler(g service.GeneratorService, p service.PostService, pub service.PublishService, asynqClient *asynq.Client) *PostHandler {
	return &PostHandler{g: g, p: p, pub: pub, AsynqClient: asynqClient}
}

func (h *PostHandler) Ping(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post module is up and running!",
	})
}

func (h *PostHandler) GeneratePosts(c *fiber.Ctx) error {
	created, err := h.g.GeneratePosts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Posts generated.",
		"posts":   created.Posts,
	})
}

func (h *PostHandler) IngestIdeas(c *fiber.Ctx) error {
	var req transfer.IngestRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}
	if len(req.Ideas) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "No ideas provided",
		})
	}

	created, err := h.g.IngestRawIdeas(c.Context(), req.Ideas)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Ideas ingested.",
		"posts":   created.Posts,
	})
}

func (h *PostHandler) GeneratePost(c *fiber.Ctx) error {
	if c.QueryBool("async") {
		return h.enqueue(c, queue.TaskTypeGeneratePost)
	}

	post, err := h.g.ResolveNextPost(c.Context())
	if err != nil {
		var verr *service.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	if post == nil {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"message": "No pending posts.",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post generated.",
		"post":    post,
	})
}

func (h *PostHandler) RunPosts(c *fiber.Ctx) error {
	if c.QueryBool("async") {
		return h.enqueue(c, queue.TaskTypeRunPosts)
	}

	res, err := h.pub.RunPosts(c.Context())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.Status(fiber.StatusOK).JSON(res)
}

func (h *PostHandler) PublishPlatform(c *fiber.Ctx) error {
	platform := c.Params("platform")

	post, remoteID, err := h.pub.PublishNext(c.Context(), platform)
	if err != nil {
		status := fiber.StatusInternalServerError
		switch {
		case errors.Is(err, service.ErrUnknownPlatform):
			status = fiber.StatusNotFound
		case service.IsNoPosts(err):
			status = fiber.StatusNotFound
		case errors.Is(err, service.ErrPostingDisabled):
			status = fiber.StatusForbidden
		}
		body := fiber.Map{"error": err.Error()}
		if remoteID != "" {
			body["post_id"] = post.ID
			body["remote"] = remoteID
		}
		return c.Status(status).JSON(body)
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Post published successfully",
		"post_id": post.ID,
		"remote":  remoteID,
	})
}

func (h *PostHandler) NextPost(c *fiber.Ctx) error {
	statusKey := c.Query("status_key", "x_status")
	if !repository.IsSelectableField(statusKey) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown status key",
		})
	}

	statusValue := repository.ParseFieldValue(statusKey, c.Query("status_value", string(models.StatusNotPosted)))

	post, err := h.p.NextPostBy(c.Context(), statusKey, statusValue, parseFilters(c, statusKey))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "No matching post",
		})
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) GetPost(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	post, err := h.p.GetPost(c.Context(), int64(id))
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if post == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Post not found",
		})
	}
	return c.Status(fiber.StatusOK).JSON(post)
}

func (h *PostHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid post id",
		})
	}

	var req transfer.StatusUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unable to parse request body",
		})
	}

	err = h.p.MarkPlatformStatus(c.Context(), int64(id), req.Platform, req.Status)
	if err != nil {
		status := fiber.StatusBadRequest
		if errors.Is(err, service.ErrPostNotFound) {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Status updated",
	})
}

func (h *PostHandler) enqueue(c *fiber.Ctx, taskType string) error {
	if h.AsynqClient == nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Task queue is not configured",
		})
	}

	taskID, err := queue.EnqueueTask(h.AsynqClient, taskType, queue.TaskPayload{
		RequestedBy: GetOperator(c),
		RequestedAt: time.Now(),
	}, 0)
	if err != nil {
		slog.Info(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error enqueuing task",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Task enqueued",
		"task_id": taskID,
	})
}
