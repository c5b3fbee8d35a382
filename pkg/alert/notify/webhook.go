package notify

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/goccy/go-json"
)

const webhookTimeout = 10 * time.Second

type WebhookConfig struct {
	URL     string            `yaml:"url"`
	Headers map[string]string `yaml:"headers"`
}

func (c WebhookConfig) Enabled() bool {
	return c.URL != ""
}

// Webhook posts the alert as JSON. Client errors are not retried.
type Webhook struct {
	common
	cfg    WebhookConfig
	client *http.Client
}

func NewWebhook(cfg WebhookConfig, composer *Composer, opts ...Option) *Webhook {
	return &Webhook{
		common: newCommon(composer, opts),
		cfg:    cfg,
		client: &http.Client{Timeout: webhookTimeout},
	}
}

func (w *Webhook) SendNotification() error {
	msg, err := w.composer.Compose()
	if err != nil {
		return fmt.Errorf("compose alert: %w", err)
	}
	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal alert: %w", err)
	}

	err = w.retry("post webhook", func() error {
		return w.post(payload)
	})
	if err != nil {
		return fmt.Errorf("post %s: %w", w.cfg.URL, err)
	}
	w.logger.Infof("alert posted to %s", w.cfg.URL)

	return nil
}

func (w *Webhook) post(payload []byte) error {
	req, err := http.NewRequest(http.MethodPost, w.cfg.URL, bytes.NewReader(payload))
	if err != nil {
		return backoff.Permanent(err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range w.cfg.Headers {
		req.Header.Set(k, v)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	err = fmt.Errorf("HTTP %d: %s", resp.StatusCode, resp.Status)
	if resp.StatusCode >= 400 && resp.StatusCode < 500 && resp.StatusCode != http.StatusTooManyRequests {
		return backoff.Permanent(err)
	}
	return err
}
