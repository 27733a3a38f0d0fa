package app

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/lib/pq"
	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/internal/repository"
	"github.com/maheshrc27/autoposter/internal/service"
	"github.com/maheshrc27/autoposter/internal/store"
)

type Services struct {
	Files     service.FileService
	Generator service.GeneratorService
	Posts     service.PostService
	Publish   service.PublishService
	Notifiers map[string]service.Notifier
	// Summary holds the run summary notifiers in delivery order.
	Summary   []service.Notifier
}

// App wires the store, repositories and services from cfg. The returned
// function releases the database connection, if any.
func App(cfg *config.Config) (*Services, func(), error) {
	st, closeStore, err := openStore(cfg)
	if err != nil {
		return nil, nil, err
	}

	processed := repository.NewPostRepository(st, cfg.Files.ProcessedPosts)
	published := repository.NewPostRepository(st, cfg.Files.Posts)
	ideas := repository.NewIdeaRepository(st, cfg.Files.UnprocessedPosts)
	appData := repository.NewAppDataRepository(st, cfg.Files.AppData)

	files := service.NewFileService(*cfg)

	uploader, err := service.NewRemoteUploader(*cfg)
	if err != nil {
		closeStore()
		return nil, nil, err
	}

	text := service.NewOpenAITextGenerator(*cfg, cfg.OpenAI.ContentModel)
	light := service.NewOpenAITextGenerator(*cfg, cfg.OpenAI.LightContentModel)
	content := service.NewContentService(*cfg, text, light)

	images := service.NewOpenAIImageGenerator(*cfg, files)
	compositor := service.NewImageCompositor(*cfg, files)
	media := service.NewMediaService(files, images, compositor, uploader)

	generator := service.NewGeneratorService(processed, published, appData, ideas, content, media)
	posts := service.NewPostService(published)

	httpClient := &http.Client{Timeout: 2 * time.Minute}
	dispatchers := []service.Dispatcher{
		service.NewXService(*cfg, files),
		service.NewInstagramService(*cfg, files, httpClient),
		service.NewFacebookService(*cfg, files, httpClient),
	}

	notifiers := map[string]service.Notifier{}
	var summary []service.Notifier
	if cfg.Telegram.BotToken != "" {
		notifiers["telegram"] = service.NewTelegramService(*cfg, httpClient)
		summary = append(summary, notifiers["telegram"])
	}
	if cfg.WhatsApp.AccessToken != "" {
		notifiers["whatsapp"] = service.NewWhatsAppService(*cfg, httpClient)
		summary = append(summary, notifiers["whatsapp"])
	}

	return &Services{
		Files:     files,
		Generator: generator,
		Posts:     posts,
		Publish:   service.NewPublishService(generator, posts, files, dispatchers, summary),
		Notifiers: notifiers,
		Summary:   summary,
	}, closeStore, nil
}

func openStore(cfg *config.Config) (store.Store, func(), error) {
	switch cfg.Store.Driver {
	case "file":
		log.Printf("Using file store in %s", cfg.Paths.JSONDir)
		return store.NewFileStore(cfg.Paths.JSONDir), func() {}, nil
	case "postgres":
		db, err := sql.Open("postgres", cfg.Store.PostgresURI)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("database is unreachable: %w", err)
		}
		if err := store.EnsureSchema(ctx, db); err != nil {
			db.Close()
			return nil, nil, err
		}

		log.Println("Using postgres store")
		return store.NewPostgresStore(db), func() { closeDB(db) }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver: %s", cfg.Store.Driver)
}

func closeDB(db *sql.DB) {
	log.Print("Closing database connection... ")
	if err := db.Close(); err != nil {
		log.Printf("Failed to close database: %v", err)
		return
	}
	log.Println("Done")
}
