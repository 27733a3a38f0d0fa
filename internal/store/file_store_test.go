package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type doc struct {
	Posts []map[string]any `json:"posts"`
}

func TestFileStore_LoadMissing(t *testing.T) {
	s := NewFileStore(t.TempDir())

	var d doc
	found, err := s.Load(context.Background(), "missing.json", &d)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestFileStore_SaveLoadPreservesOrder(t *testing.T) {
	dir := t.TempDir()
	s := NewFileStore(filepath.Join(dir, "json"))
	ctx := context.Background()

	in := doc{Posts: []map[string]any{
		{"id": 3.0, "text": "tercero <b>"},
		{"id": 1.0, "text": "Valentía"},
		{"id": 2.0, "text": "second"},
	}}
	require.NoError(t, s.Save(ctx, "posts.json", in))

	raw, err := os.ReadFile(filepath.Join(dir, "json", "posts.json"))
	require.NoError(t, err)
	assert.Contains(t, string(raw), "Valentía")
	assert.Contains(t, string(raw), "<b>")

	var out doc
	found, err := s.Load(ctx, "posts.json", &out)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, in, out)

	entries, err := os.ReadDir(filepath.Join(dir, "json"))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestFileStore_SaveOverwrites(t *testing.T) {
	s := NewFileStore(t.TempDir())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "a.json", doc{Posts: []map[string]any{{"id": 1.0}, {"id": 2.0}}}))
	require.NoError(t, s.Save(ctx, "a.json", doc{Posts: []map[string]any{{"id": 9.0}}}))

	var out doc
	_, err := s.Load(ctx, "a.json", &out)
	require.NoError(t, err)
	assert.Len(t, out.Posts, 1)
	assert.Equal(t, 9.0, out.Posts[0]["id"])
}

func TestFileStore_CorruptDocument(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.json"), []byte("{not json"), 0o644))

	var out doc
	found, err := NewFileStore(dir).Load(context.Background(), "bad.json", &out)

	assert.Error(t, err)
	assert.False(t, found)
}

func TestFileStore_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewFileStore(t.TempDir()).Save(ctx, "a.json", doc{})
	assert.ErrorIs(t, err, context.Canceled)
}
