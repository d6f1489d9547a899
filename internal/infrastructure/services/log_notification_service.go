package services

import (
	"context"
	"log"
	"sync"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// LogNotificationService logs messages instead of sending them. It is used
// for dry runs and when no mail server is configured.
type LogNotificationService struct {
	mu   sync.Mutex
	sent []*entities.Message
}

// NewLogNotificationService creates a new LogNotificationService
func NewLogNotificationService() *LogNotificationService {
	return &LogNotificationService{}
}

// Send logs one line per recipient
func (s *LogNotificationService) Send(ctx context.Context, msg *entities.Message) error {
	if len(msg.To) == 0 {
		return nil
	}
	s.mu.Lock()
	s.sent = append(s.sent, msg)
	s.mu.Unlock()

	for _, to := range msg.To {
		log.Printf("[NOTIFY] (not sent) to=%s subject=%q", to, msg.Subject)
	}
	return nil
}

// Sent returns the messages logged so far
func (s *LogNotificationService) Sent() []*entities.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*entities.Message(nil), s.sent...)
}
