package service

import (
	"context"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/maheshrc27/autoposter/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

func TestImageCompositor_RendersSquarePNG(t *testing.T) {
	cfg := testConfig(t)
	cfg.Image.WatermarkName = "@mindful"
	cfg.Image.ShowWatermarkName = true
	files := NewFileService(cfg)
	c := NewImageCompositor(cfg, files)

	bg := writePNG(t, filepath.Join(cfg.Paths.ImagesDir, "image_file_5_background.png"))

	for _, theme := range []models.Theme{models.ThemeLight, models.ThemeDark} {
		out, err := c.Composite(context.Background(), bg, "Breathe in.\nBreathe out.", theme)
		require.NoError(t, err)

		f, err := os.Open(out)
		require.NoError(t, err)
		img, err := png.Decode(f)
		f.Close()
		require.NoError(t, err)

		assert.Equal(t, cfg.Image.Width, img.Bounds().Dx())
		assert.Equal(t, cfg.Image.Width, img.Bounds().Dy())
		assert.Equal(t, cfg.Paths.TempsDir, filepath.Dir(out))
	}
}

func TestImageCompositor_MissingBackgroundUsesDefault(t *testing.T) {
	cfg := testConfig(t)
	cfg.Image.FontPath = filepath.Join(cfg.Paths.ProjectRoot, "missing.ttf")
	c := NewImageCompositor(cfg, NewFileService(cfg))

	out, err := c.Composite(context.Background(), filepath.Join(cfg.Paths.ProjectRoot, "nope.png"), "hello", "sepia")

	require.NoError(t, err)
	assert.FileExists(t, out)
}

func TestImageCompositor_CanceledContext(t *testing.T) {
	cfg := testConfig(t)
	c := NewImageCompositor(cfg, NewFileService(cfg))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Composite(ctx, "", "hello", models.ThemeLight)

	assert.ErrorIs(t, err, context.Canceled)
}

func TestWrapText(t *testing.T) {
	parsed, err := opentype.Parse(goregular.TTF)
	require.NoError(t, err)
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: 20, DPI: 72})
	require.NoError(t, err)
	defer face.Close()

	lines := wrapText(face, "one two three four five six seven\n\nunbreakablewordthatiswide", 80)

	require.NotEmpty(t, lines)
	assert.Greater(t, len(lines), 2)
	assert.Equal(t, "unbreakablewordthatiswide", lines[len(lines)-1])
	for _, l := range lines {
		assert.NotEmpty(t, l)
	}
}
