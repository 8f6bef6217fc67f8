package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Notifier delivers reminder and alert messages to the owner's device.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// Notification is a single outbound message.
type Notification struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Kind  string `json:"kind"`
}

// WebhookNotifier posts notifications to a configured webhook URL. With no
// URL configured it logs and drops the message instead of failing callers.
type WebhookNotifier struct {
	httpClient *resty.Client
	url        string
	log        *zap.Logger
}

func NewWebhookNotifier(url string, log *zap.Logger) *WebhookNotifier {
	restyClient := resty.New()
	restyClient.
		SetHeader("Content-Type", "application/json").
		SetTimeout(10 * time.Second)

	return &WebhookNotifier{
		httpClient: restyClient,
		url:        url,
		log:        log,
	}
}

func (n *WebhookNotifier) Send(ctx context.Context, msg Notification) error {
	if n.url == "" {
		n.log.Info("notification dropped, no webhook configured",
			zap.String("title", msg.Title),
			zap.String("kind", msg.Kind))
		return nil
	}

	resp, err := n.httpClient.R().
		SetContext(ctx).
		SetBody(msg).
		Post(n.url)
	if err != nil {
		return fmt.Errorf("post notification: %w", err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("notification webhook error: status=%d", resp.StatusCode())
	}

	n.log.Debug("notification delivered", zap.String("title", msg.Title))
	return nil
}
