package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIGenerators_Disabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.OpenAI.AllowContentGeneration = false
	cfg.OpenAI.AllowImageGeneration = false

	text := NewOpenAITextGenerator(cfg, "gpt-4o")
	_, err := text.Generate(context.Background(), "system", "user", 0.5)
	assert.ErrorIs(t, err, ErrGenerationDisabled)

	images := NewOpenAIImageGenerator(cfg, NewFileService(cfg))
	path, err := images.GenerateImage(context.Background(), "a lake")
	require.NoError(t, err)
	assert.Empty(t, path)
}
