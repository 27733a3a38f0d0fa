package service

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/h2non/filetype"
	"github.com/h2non/filetype/types"
	config "github.com/maheshrc27/autoposter/configs"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

var allowedImageTypes = map[string]struct{}{
	"jpg": {}, "png": {}, "webp": {},
}

type FileService interface {
	// TempPath reserves a unique path with ext inside the temps directory.
	TempPath(ext string) (string, error)
	// MoveToImages moves a generated temp image into the managed images
	// directory as image_file_{id}{suffix}.{ext}.
	MoveToImages(tempPath string, id int64, suffix string) (string, error)
	Resolve(path string) string
	Exists(path string) bool
	Delete(path string) error
	// CleanImages removes every file inside the images directory.
	CleanImages() error
	PublicURL(path string) string
}

type fileService struct {
	root       string
	publicDir  string
	imagesDir  string
	tempsDir   string
	publicBase string
}

func NewFileService(cfg config.Config) FileService {
	return &fileService{
		root:       cfg.Paths.ProjectRoot,
		publicDir:  cfg.Paths.PublicDir,
		imagesDir:  cfg.Paths.ImagesDir,
		tempsDir:   cfg.Paths.TempsDir,
		publicBase: cfg.PublicBaseURL,
	}
}

func (f *fileService) TempPath(ext string) (string, error) {
	if err := os.MkdirAll(f.tempsDir, 0o755); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	id, err := gonanoid.New()
	if err != nil {
		return "", err
	}
	return filepath.Join(f.tempsDir, "temp_"+id+ext), nil
}

func (f *fileService) MoveToImages(tempPath string, id int64, suffix string) (string, error) {
	kind, err := filetype.MatchFile(tempPath)
	if err != nil {
		slog.Info(err.Error())
		return "", err
	}
	if _, ok := allowedImageTypes[kind.Extension]; !ok || kind == types.Unknown {
		os.Remove(tempPath)
		return "", fmt.Errorf("%w: %s", ErrUnsupportedMedia, kind.MIME.Value)
	}

	if err := os.MkdirAll(f.imagesDir, 0o755); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	dest := filepath.Join(f.imagesDir, fmt.Sprintf("image_file_%d%s.%s", id, suffix, kind.Extension))
	if err := moveFile(tempPath, dest); err != nil {
		return "", err
	}

	slog.Info("file moved", "from", tempPath, "to", dest)
	return dest, nil
}

func (f *fileService) Resolve(path string) string {
	if path == "" || filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(f.root, path)
}

func (f *fileService) Exists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(f.Resolve(path))
	return err == nil && info.Mode().IsRegular()
}

func (f *fileService) Delete(path string) error {
	if path == "" {
		return nil
	}
	err := os.Remove(f.Resolve(path))
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		slog.Info(err.Error())
		return err
	}
	return nil
}

func (f *fileService) CleanImages() error {
	return filepath.WalkDir(f.imagesDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil
			}
			return err
		}
		if d.IsDir() {
			return nil
		}
		if err := os.Remove(path); err != nil {
			slog.Info("failed to delete file", "path", path, "error", err)
		}
		return nil
	})
}

func (f *fileService) PublicURL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	rel, err := filepath.Rel(f.publicDir, f.Resolve(path))
	if err != nil || strings.HasPrefix(rel, "..") {
		return ""
	}
	return f.publicBase + "/public/" + filepath.ToSlash(rel)
}

// moveFile renames src to dst, copying when they sit on different devices.
func moveFile(src, dst string) error {
	if err := os.Rename(src, dst); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	return os.Remove(src)
}
