package notify

import (
	"context"
	"fmt"
	"time"
	"unicode/utf8"

	"llm-news-desk/internal/api"
	"llm-news-desk/internal/interfaces"
	"llm-news-desk/internal/store"
)

// MaxContentLength is Discord's limit on a webhook message.
const MaxContentLength = 2000

// Discord posts messages to a Discord webhook.
type Discord struct {
	client     *api.Client
	webhookURL string
	username   string
}

var _ interfaces.Notifier = (*Discord)(nil)

func NewDiscord(webhookURL, username string, timeout time.Duration) *Discord {
	return &Discord{
		client:     api.NewClient(api.WithTimeout(timeout)),
		webhookURL: webhookURL,
		username:   username,
	}
}

type webhookPayload struct {
	Username string `json:"username,omitempty"`
	Content  string `json:"content"`
}

func (d *Discord) Send(ctx context.Context, message string) error {
	payload := webhookPayload{Username: d.username, Content: Truncate(message, MaxContentLength)}
	if _, err := d.client.PostJSON(ctx, d.webhookURL, payload); err != nil {
		return fmt.Errorf("discord webhook: %w", err)
	}
	return nil
}

// Truncate cuts s to at most limit runes, marking the cut with an ellipsis.
func Truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit-1]) + "…"
}

type noopNotifier struct{}

func (noopNotifier) Send(ctx context.Context, message string) error {
	return interfaces.ErrNoChannel
}

// New returns a Discord notifier, or a no-op one when the webhook variable is
// empty.
func New(cfg *store.Config) interfaces.Notifier {
	url := store.Secret(cfg.Notify.WebhookURLEnv)
	if url == "" {
		return noopNotifier{}
	}
	return NewDiscord(url, cfg.Notify.Username, 30*time.Second)
}
