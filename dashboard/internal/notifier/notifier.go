package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fieldwatch/fieldwatch/dashboard/internal/config"
	"github.com/fieldwatch/fieldwatch/pkg/types"
)

// Notifier fans alert notifications out to the configured webhook targets.
// Delivery is asynchronous; failures are logged, never propagated.
//
// Notifier is safe for concurrent use, including SetWebhooks during a
// config hot reload.
type Notifier struct {
	client *http.Client

	mu       sync.RWMutex
	webhooks []config.WebhookConfig
}

// New creates a Notifier for the given webhook targets. An empty target
// list is valid — Notify becomes a no-op.
func New(webhooks []config.WebhookConfig) *Notifier {
	return &Notifier{
		client:   &http.Client{Timeout: 10 * time.Second},
		webhooks: webhooks,
	}
}

// SetWebhooks replaces the target list. Used on config hot reload.
func (n *Notifier) SetWebhooks(webhooks []config.WebhookConfig) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.webhooks = webhooks
}

// OnNotify delivers the notification to every target in the background.
// It satisfies the poller's Sink notify half.
func (n *Notifier) OnNotify(title, body, severity string) {
	n.mu.RLock()
	targets := n.webhooks
	n.mu.RUnlock()

	go n.deliver(targets, title, body, severity)
}

// deliver posts the notification to each target in turn.
// Errors are logged but do not affect the caller.
func (n *Notifier) deliver(targets []config.WebhookConfig, title, body, severity string) {
	for _, wh := range targets {
		url := wh.URL()
		if url == "" {
			continue
		}

		var err error
		switch wh.Type {
		case "slack":
			err = n.sendSlack(url, title, body, severity)
		case "teams":
			err = n.sendTeams(url, title, body, severity)
		case "http":
			err = n.sendHTTP(url, title, body, severity)
		default:
			slog.Warn("notifier: unknown webhook type — skipping", "type", wh.Type)
			continue
		}

		if err != nil {
			slog.Error("notifier: webhook delivery failed",
				"type", wh.Type,
				"title", title,
				"err", err,
			)
		} else {
			slog.Debug("notifier: webhook delivered",
				"type", wh.Type,
				"severity", severity,
			)
		}
	}
}

func (n *Notifier) sendSlack(url, title, body, severity string) error {
	payload, _ := json.Marshal(map[string]string{
		"text": fmt.Sprintf("*%s %s* %s", severityLabel(severity), title, body),
	})
	return n.post(url, payload)
}

func (n *Notifier) sendTeams(url, title, body, severity string) error {
	payload, _ := json.Marshal(map[string]interface{}{
		"@type":      "MessageCard",
		"@context":   "http://schema.org/extensions",
		"themeColor": severityColor(severity),
		"summary":    title,
		"title":      fmt.Sprintf("Fieldwatch Alert: %s", title),
		"text":       body,
	})
	return n.post(url, payload)
}

func (n *Notifier) sendHTTP(url, title, body, severity string) error {
	payload, _ := json.Marshal(map[string]string{
		"title":    title,
		"body":     body,
		"severity": severity,
	})
	return n.post(url, payload)
}

func (n *Notifier) post(url string, body []byte) error {
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("webhook returned HTTP %d", resp.StatusCode)
	}
	return nil
}

func severityLabel(s string) string {
	switch s {
	case types.SeverityRed:
		return "[CRITICAL]"
	case types.SeverityYellow:
		return "[WARNING]"
	default:
		return "[INFO]"
	}
}

func severityColor(s string) string {
	switch s {
	case types.SeverityRed:
		return "FF4F6A"
	case types.SeverityYellow:
		return "FFAB40"
	default:
		return "36C17B"
	}
}
