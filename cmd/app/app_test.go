package app

import (
	"context"
	"path/filepath"
	"testing"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fileConfig(t *testing.T) *config.Config {
	t.Helper()
	root := t.TempDir()
	return &config.Config{
		PublicBaseURL: "http://localhost:8000",
		Paths: config.Paths{
			ProjectRoot: root,
			JSONDir:     filepath.Join(root, "json"),
			PublicDir:   filepath.Join(root, "public"),
			ImagesDir:   filepath.Join(root, "public", "uploads", "images"),
			TempsDir:    filepath.Join(root, "public", "uploads", "temps"),
		},
		Files: config.Files{
			UnprocessedPosts: "unprocessed_posts.json",
			ProcessedPosts:   "processed_posts.json",
			Posts:            "posts.json",
			AppData:          "app_data.json",
		},
		Store:    config.Store{Driver: "file"},
		Limits:   config.Limits{XContent: 280, MetaContent: 1000, DefaultPhrase: 250},
		X:        config.X{APIURL: "https://api.x.com"},
		Telegram: config.Telegram{BotToken: "123:abc", ChatID: "42"},
	}
}

func TestApp_FileStore(t *testing.T) {
	cfg := fileConfig(t)

	services, closeStore, err := App(cfg)
	require.NoError(t, err)
	defer closeStore()

	assert.Contains(t, services.Notifiers, "telegram")
	assert.NotContains(t, services.Notifiers, "whatsapp")

	created, err := services.Generator.IngestRawIdeas(context.Background(), []models.Idea{{Phrase: "breathe"}})
	require.NoError(t, err)
	require.Len(t, created.Posts, 1)
	assert.FileExists(t, filepath.Join(cfg.Paths.JSONDir, "processed_posts.json"))
}

func TestApp_SummaryOrder(t *testing.T) {
	cfg := fileConfig(t)
	cfg.WhatsApp = config.WhatsApp{AccessToken: "wa-token", PhoneNumberID: "1", NotifyTo: "57300"}

	for range 5 {
		services, closeStore, err := App(cfg)
		require.NoError(t, err)
		closeStore()

		require.Len(t, services.Summary, 2)
		assert.Same(t, services.Notifiers["telegram"], services.Summary[0])
		assert.Same(t, services.Notifiers["whatsapp"], services.Summary[1])
	}
}

func TestApp_Errors(t *testing.T) {
	cfg := fileConfig(t)
	cfg.Store.Driver = "mongo"
	_, _, err := App(cfg)
	assert.ErrorContains(t, err, "unknown store driver")

	cfg = fileConfig(t)
	cfg.Upload = config.Upload{Allow: true, Provider: "ftp"}
	_, _, err = App(cfg)
	assert.ErrorContains(t, err, "unsupported remote upload provider")
}
