package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	config "github.com/maheshrc27/autoposter/configs"
)

type whatsAppService struct {
	cfg    config.WhatsApp
	client *http.Client
}

func NewWhatsAppService(cfg config.Config, client *http.Client) Notifier {
	if client == nil {
		client = http.DefaultClient
	}
	return &whatsAppService{cfg: cfg.WhatsApp, client: client}
}

func (w *whatsAppService) Notify(ctx context.Context, message string) error {
	if w.cfg.AccessToken == "" || w.cfg.PhoneNumberID == "" || w.cfg.NotifyTo == "" {
		return errors.New("whatsapp is not configured")
	}

	url := fmt.Sprintf("%s/%s/messages", w.cfg.APIURL, w.cfg.PhoneNumberID)
	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                w.cfg.NotifyTo,
		"type":              "text",
		"text":              map[string]string{"body": message},
	}
	headers := map[string]string{"Authorization": "Bearer " + w.cfg.AccessToken}

	if err := postJSON(ctx, w.client, url, payload, headers, nil); err != nil {
		return fmt.Errorf("whatsapp: %w", err)
	}
	return nil
}
