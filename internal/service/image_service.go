package service

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"strings"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/maheshrc27/autoposter/internal/models"
	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/math/fixed"
	_ "golang.org/x/image/webp"
)

// text occupies at most this share of the canvas width
const textWidthRatio = 2.0 / 3.0

type palette struct {
	base    color.Color
	overlay color.Color
	text    color.Color
	mark    color.Color
}

var palettes = map[models.Theme]palette{
	models.ThemeDark: {
		base:    color.NRGBA{R: 18, G: 18, B: 18, A: 255},
		overlay: color.NRGBA{A: 150},
		text:    color.White,
		mark:    color.NRGBA{R: 255, G: 255, B: 255, A: 204},
	},
	models.ThemeLight: {
		base:    color.NRGBA{R: 245, G: 245, B: 245, A: 255},
		overlay: color.NRGBA{R: 255, G: 255, B: 255, A: 100},
		text:    color.Black,
		mark:    color.NRGBA{A: 153},
	},
}

type imageCompositor struct {
	files FileService
	image config.Image
}

// NewImageCompositor renders square PNG cards with centred wrapped text.
func NewImageCompositor(cfg config.Config, files FileService) ImageCompositor {
	return &imageCompositor{files: files, image: cfg.Image}
}

func (c *imageCompositor) Composite(ctx context.Context, backgroundPath, text string, theme models.Theme) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p, ok := palettes[theme]
	if !ok {
		p = palettes[models.ThemeLight]
	}

	size := c.image.Width
	canvas := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(p.base), image.Point{}, draw.Src)

	if backgroundPath != "" {
		if bg, err := decodeImage(backgroundPath); err != nil {
			slog.Info("background not usable, using theme default", "path", backgroundPath, "error", err)
		} else {
			xdraw.CatmullRom.Scale(canvas, canvas.Bounds(), bg, bg.Bounds(), xdraw.Over, nil)
		}
	}
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(p.overlay), image.Point{}, draw.Over)

	parsed, err := c.loadFont()
	if err != nil {
		return "", err
	}

	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: c.image.FontSize, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return "", fmt.Errorf("font face: %w", err)
	}
	defer face.Close()

	lines := wrapText(face, text, int(float64(size)*textWidthRatio))
	lineHeight := face.Metrics().Height.Ceil() + c.image.LineSpacing
	ascent := face.Metrics().Ascent.Ceil()

	y := (size-lineHeight*len(lines))/2 + ascent
	for _, line := range lines {
		drawCentered(canvas, face, p.text, line, size, y)
		y += lineHeight
	}

	if c.image.ShowWatermarkName && c.image.WatermarkName != "" {
		markFace, err := opentype.NewFace(parsed, &opentype.FaceOptions{Size: float64(size) / 40, DPI: 72, Hinting: font.HintingFull})
		if err != nil {
			return "", fmt.Errorf("watermark face: %w", err)
		}
		defer markFace.Close()
		drawCentered(canvas, markFace, p.mark, c.image.WatermarkName, size, size-size/20)
	}

	out, err := c.files.TempPath(".png")
	if err != nil {
		return "", err
	}
	f, err := os.Create(out)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	defer f.Close()

	if err := png.Encode(f, canvas); err != nil {
		os.Remove(out)
		return "", fmt.Errorf("encode png: %w", err)
	}
	return out, nil
}

func (c *imageCompositor) loadFont() (*opentype.Font, error) {
	data := goregular.TTF
	if c.image.FontPath != "" {
		custom, err := os.ReadFile(c.image.FontPath)
		if err != nil {
			slog.Info("font not found, using default", "path", c.image.FontPath, "error", err)
		} else {
			data = custom
		}
	}

	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return parsed, nil
}

func decodeImage(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	return img, err
}

// wrapText greedily breaks every paragraph of text into lines narrower than
// maxWidth pixels. A single word wider than maxWidth keeps its own line.
func wrapText(face font.Face, text string, maxWidth int) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		var current string
		for _, word := range strings.Fields(paragraph) {
			candidate := word
			if current != "" {
				candidate = current + " " + word
			}
			if current != "" && font.MeasureString(face, candidate).Ceil() > maxWidth {
				lines = append(lines, current)
				current = word
				continue
			}
			current = candidate
		}
		if current != "" {
			lines = append(lines, current)
		}
	}
	return lines
}

func drawCentered(dst draw.Image, face font.Face, c color.Color, text string, width, baseline int) {
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: face,
	}
	x := (width - d.MeasureString(text).Ceil()) / 2
	d.Dot = fixed.P(x, baseline)
	d.DrawString(text)
}
