package services

import (
	"context"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// NotificationService delivers messages to subscribers
type NotificationService interface {
	// Send delivers msg to every address in msg.To. It is a no-op when msg.To
	// is empty. Failures for individual recipients are logged and skipped;
	// only failures that prevent any delivery are returned.
	Send(ctx context.Context, msg *entities.Message) error
}

// AlertService reports operational failures to operators
type AlertService interface {
	Alert(ctx context.Context, text string) error
}
