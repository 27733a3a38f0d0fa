package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	config "github.com/maheshrc27/autoposter/configs"
)

type telegramService struct {
	cfg    config.Telegram
	client *http.Client
}

func NewTelegramService(cfg config.Config, client *http.Client) Notifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &telegramService{cfg: cfg.Telegram, client: client}
}

func (t *telegramService) Notify(ctx context.Context, message string) error {
	if t.cfg.BotToken == "" || t.cfg.ChatID == "" {
		return errors.New("telegram is not configured")
	}

	url := fmt.Sprintf("%s%s/sendMessage", t.cfg.APIURL, t.cfg.BotToken)
	payload := map[string]string{
		"chat_id": t.cfg.ChatID,
		"text":    message,
	}

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	if err := postJSON(ctx, t.client, url, payload, nil, &result); err != nil {
		return fmt.Errorf("telegram: %w", err)
	}
	if !result.OK {
		return fmt.Errorf("telegram: %s", result.Description)
	}
	return nil
}
