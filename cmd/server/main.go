package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/joho/godotenv"
	"github.com/maheshrc27/autoposter/cmd/app"
	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/internal/api"
	"github.com/maheshrc27/autoposter/internal/api/handlers"
	"github.com/maheshrc27/autoposter/internal/api/middleware"
	job "github.com/maheshrc27/autoposter/internal/jobs"
	"github.com/maheshrc27/autoposter/internal/queue"
	"github.com/robfig/cron"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	cfg := config.LoadConfig()

	services, closeStore, err := app.App(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer closeStore()

	var (
		client *asynq.Client
		server *asynq.Server
	)
	if cfg.RedisURI != "" {
		redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
		client = asynq.NewClient(redisConn)
		defer client.Close()

		// pipeline tasks touch shared documents and must not overlap
		server = asynq.NewServer(redisConn, asynq.Config{
			Concurrency: 1,
		})
	}

	fiberApp := fiber.New(fiber.Config{
		ReadTimeout:  10 * time.Minute,
		WriteTimeout: 10 * time.Minute,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
		},
	})

	fiberApp.Use(logger.New())
	fiberApp.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       3600,
	}))
	fiberApp.Static("/public", cfg.Paths.PublicDir)

	authMiddleware := middleware.NewAuthMiddleware(*cfg)
	post := handlers.NewPostHandler(services.Generator, services.Posts, services.Publish, client)
	notify := handlers.NewNotificationHandler(services.Notifiers)
	api.SetupRoutes(fiberApp, authMiddleware, post, notify)

	loc, err := time.LoadLocation(cfg.Schedule.Timezone)
	if err != nil {
		log.Fatalf("Invalid posting timezone %q: %v", cfg.Schedule.Timezone, err)
	}

	postingJob := job.NewPostingJob(services.Publish, client)

	c := cron.NewWithLocation(loc)
	if err := postingJob.Schedule(c, cfg.Schedule.PostingTimes); err != nil {
		log.Fatalf("Failed to schedule posting job: %v", err)
	}
	c.Start()
	defer c.Stop()

	if server != nil {
		queueW := queue.NewQueue(services.Generator, services.Publish)

		mux := asynq.NewServeMux()
		queueW.Register(mux)

		log.Println("Starting the Asynq server...")
		if err := server.Start(mux); err != nil {
			log.Fatalf("Could not start Asynq server: %v", err)
		}
	}

	go func() {
		if err := fiberApp.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()
	log.Printf("Server is running on http://localhost:%s", cfg.Port)

	gracefulShutdown(fiberApp, server)
}

func gracefulShutdown(app *fiber.App, server *asynq.Server) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if server != nil {
		server.Shutdown()
	}
	if err := app.Shutdown(); err != nil {
		log.Printf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}
