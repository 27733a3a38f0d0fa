package service

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"os"

	config "github.com/maheshrc27/autoposter/configs"
	"github.com/sashabaranov/go-openai"
)

type openAITextGenerator struct {
	client  *openai.Client
	model   string
	enabled bool
}

// NewOpenAITextGenerator returns a chat completion backed TextGenerator for
// model.
func NewOpenAITextGenerator(cfg config.Config, model string) TextGenerator {
	return &openAITextGenerator{
		client:  openai.NewClient(cfg.OpenAI.APIKey),
		model:   model,
		enabled: cfg.OpenAI.AllowContentGeneration,
	}
}

func (g *openAITextGenerator) Generate(ctx context.Context, systemPrompt, userPrompt string, temperature float32) (string, error) {
	if !g.enabled {
		return "", ErrGenerationDisabled
	}

	resp, err := g.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: temperature,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("chat completion returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}

type openAIImageGenerator struct {
	client  *openai.Client
	files   FileService
	model   string
	size    string
	enabled bool
}

// NewOpenAIImageGenerator writes generated images into the temps directory.
// It returns an empty path when image generation is disabled.
func NewOpenAIImageGenerator(cfg config.Config, files FileService) ImageGenerator {
	return &openAIImageGenerator{
		client:  openai.NewClient(cfg.OpenAI.APIKey),
		files:   files,
		model:   cfg.OpenAI.ImageModel,
		size:    cfg.OpenAI.ImageSize,
		enabled: cfg.OpenAI.AllowImageGeneration,
	}
}

func (g *openAIImageGenerator) GenerateImage(ctx context.Context, prompt string) (string, error) {
	if !g.enabled {
		slog.Info("image generation not configured, skipping", "prompt", prompt)
		return "", nil
	}

	resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
		Prompt:         prompt,
		Model:          g.model,
		Size:           g.size,
		N:              1,
		ResponseFormat: openai.CreateImageResponseFormatB64JSON,
	})
	if err != nil {
		return "", fmt.Errorf("image generation: %w", err)
	}
	if len(resp.Data) == 0 || resp.Data[0].B64JSON == "" {
		return "", errors.New("image generation returned no data")
	}

	data, err := base64.StdEncoding.DecodeString(resp.Data[0].B64JSON)
	if err != nil {
		return "", fmt.Errorf("decode image: %w", err)
	}

	path, err := g.files.TempPath(".png")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		slog.Info(err.Error())
		return "", err
	}

	slog.Info("image generated", "path", path)
	return path, nil
}
