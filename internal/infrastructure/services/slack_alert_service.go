package services

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/slack-go/slack"

	"github.com/storechecker/storechecker/pkg/utils"
)

// SlackAlertService posts operator alerts to a Slack incoming webhook
type SlackAlertService struct {
	webhookURL string
	httpClient *http.Client
}

// NewSlackAlertService creates a new SlackAlertService
func NewSlackAlertService(webhookURL string) *SlackAlertService {
	return &SlackAlertService{
		webhookURL: webhookURL,
		httpClient: utils.NewHTTPClient(utils.DefaultHTTPClientConfig()),
	}
}

// Alert posts text to the webhook
func (s *SlackAlertService) Alert(ctx context.Context, text string) error {
	msg := &slack.WebhookMessage{
		Username:  "storechecker",
		IconEmoji: ":warning:",
		Text:      text,
	}
	if err := slack.PostWebhookCustomHTTPContext(ctx, s.webhookURL, s.httpClient, msg); err != nil {
		return fmt.Errorf("failed to post slack alert: %w", err)
	}
	return nil
}

// LogAlertService writes alerts to the log. It is used when no webhook is configured.
type LogAlertService struct{}

// NewLogAlertService creates a new LogAlertService
func NewLogAlertService() *LogAlertService {
	return &LogAlertService{}
}

// Alert logs text
func (LogAlertService) Alert(ctx context.Context, text string) error {
	log.Printf("[ALERT] %s", text)
	return nil
}
