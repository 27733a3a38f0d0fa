package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

type fileStore struct {
	dir string
}

// NewFileStore keeps one UTF-8 JSON file per document name under dir.
func NewFileStore(dir string) Store {
	return &fileStore{dir: dir}
}

func (s *fileStore) path(name string) string {
	return filepath.Join(s.dir, filepath.Base(name))
}

func (s *fileStore) Load(ctx context.Context, name string, dst any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	data, err := os.ReadFile(s.path(name))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		slog.Info(err.Error())
		return false, err
	}

	if err := decode(data, dst); err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return true, nil
}

// Save writes to a temp file in the same directory and renames it over the
// target, so readers never observe a half-written document.
func (s *fileStore) Save(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := encode(v)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		slog.Info(err.Error())
		return err
	}

	tmp, err := os.CreateTemp(s.dir, filepath.Base(name)+".*.tmp")
	if err != nil {
		slog.Info(err.Error())
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), s.path(name)); err != nil {
		slog.Info(err.Error())
		return err
	}
	return nil
}
