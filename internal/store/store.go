// Package store persists named JSON documents. Every Save replaces the whole
// document; there is no locking between processes, so two writers on the
// same name are last-write-wins.
package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

type Store interface {
	// Load decodes the named document into dst. A missing document is
	// reported as found=false with a nil error.
	Load(ctx context.Context, name string, dst any) (found bool, err error)
	// Save replaces the named document with v.
	Save(ctx context.Context, name string, v any) error
}

func encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("failed to encode document: %w", err)
	}
	return buf.Bytes(), nil
}

func decode(data []byte, dst any) error {
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
