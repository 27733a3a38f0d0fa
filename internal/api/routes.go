package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/maheshrc27/autoposter/internal/api/handlers"
	"github.com/maheshrc27/autoposter/internal/api/middleware"
)

func SetupRoutes(app *fiber.App, auth *middleware.AuthMiddleware, post *handlers.PostHandler, notify *handlers.NotificationHandler) {
	v1 := app.Group("/api/v1")
	v1.Get("/posts/ping", post.Ping)

	api := v1.Group("", auth.AuthMiddleware())

	posts := api.Group("/posts")
	posts.Post("/generate-posts", post.GeneratePosts)
	posts.Post("/ideas", post.IngestIdeas)
	posts.Post("/generate-post", post.GeneratePost)
	posts.Post("/run-posts", post.RunPosts)
	posts.Get("/next", post.NextPost)
	posts.Get("/:id", post.GetPost)
	posts.Patch("/:id/status", post.UpdateStatus)

	api.Post("/platforms/:platform/post", post.PublishPlatform)
	api.Post("/notify/:channel", notify.Send)
}
