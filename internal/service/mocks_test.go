package service

import (
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockTextGenerator struct {
	mock.Mock
}

func (m *MockTextGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	args := m.Called(ctx, systemPrompt, userPrompt, temperature)
	return args.String(0), args.Error(1)
}

type MockImageGenerator struct {
	mock.Mock
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

type MockCompositor struct {
	mock.Mock
}

func (m *MockCompositor) Composite(ctx context.Context, backgroundPath, text string, theme models.Theme) (string, error) {
	args := m.Called(ctx, backgroundPath, text, theme)
	return args.String(0), args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Upload(ctx context.Context, localPath string) (string, error) {
	args := m.Called(ctx, localPath)
	return args.String(0), args.Error(1)
}

type MockDispatcher struct {
	mock.Mock
	platform  string
	statusKey string
}

func (m *MockDispatcher) Platform() string  { return m.platform }
func (m *MockDispatcher) StatusKey() string { return m.statusKey }

func (m *MockDispatcher) Publish(ctx context.Context, post *models.Post) (string, error) {
	args := m.Called(ctx, post)
	return args.String(0), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, message string) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

// testConfig points every path at a fresh temp directory.
func testConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	public := filepath.Join(root, "public")

	return config.Config{
		PublicBaseURL: "http://localhost:8000",
		AllowPosting:  true,
		Paths: config.Paths{
			ProjectRoot: root,
			JSONDir:     filepath.Join(root, "json"),
			PublicDir:   public,
			ImagesDir:   filepath.Join(public, "uploads", "images"),
			TempsDir:    filepath.Join(public, "uploads", "temps"),
		},
		Files: config.Files{
			UnprocessedPosts: "unprocessed_posts.json",
			ProcessedPosts:   "processed_posts.json",
			Posts:            "posts.json",
			AppData:          "app_data.json",
		},
		Limits: config.Limits{
			XContent:      280,
			MetaContent:   1000,
			DefaultPhrase: 250,
		},
		Image: config.Image{
			FontSize:    24,
			LineSpacing: 8,
			Width:       128,
		},
	}
}

// writePNG writes a small valid PNG to path and returns path.
func writePNG(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))

	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	img.Set(1, 1, color.White)

	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()
	require.NoError(t, png.Encode(f, img))
	return path
}

// tempPNG reserves a temp path through files and writes a PNG there.
func tempPNG(t *testing.T, files FileService) string {
	t.Helper()
	path, err := files.TempPath(".png")
	require.NoError(t, err)
	return writePNG(t, path)
}

// pngImages writes a fresh PNG for every generation and composite. The first
// skip generations return no file, as when image generation is disabled.
type pngImages struct {
	t          *testing.T
	files      FileService
	skip       int
	generated  int
	composited int
}

func (p *pngImages) GenerateImage(ctx context.Context, prompt string) (string, error) {
	p.generated++
	if p.generated <= p.skip {
		return "", nil
	}
	return tempPNG(p.t, p.files), nil
}

func (p *pngImages) Composite(ctx context.Context, backgroundPath, text string, theme models.Theme) (string, error) {
	p.composited++
	return tempPNG(p.t, p.files), nil
}

// answerBySystem makes m reply with answers keyed by system prompt.
func answerBySystem(m *MockTextGenerator, answers map[string]string) {
	for system, answer := range answers {
		m.On("Generate", mock.Anything, system, mock.Anything, mock.Anything).Return(answer, nil)
	}
}

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) IngestRawIdeas(ctx context.Context, ideas []models.Idea) (*models.PostCollection, error) {
	args := m.Called(ctx, ideas)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostCollection), args.Error(1)
}

func (m *MockGenerator) GeneratePosts(ctx context.Context) (*models.PostCollection, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.PostCollection), args.Error(1)
}

func (m *MockGenerator) ResolveNextPost(ctx context.Context) (*models.Post, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Post), args.Error(1)
}
