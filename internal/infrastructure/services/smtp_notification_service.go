package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

// SMTPClient is the subset of *smtp.Client used to deliver mail
type SMTPClient interface {
	StartTLS(config *tls.Config) error
	Auth(a smtp.Auth) error
	Mail(from string) error
	Rcpt(to string) error
	Data() (io.WriteCloser, error)
	Reset() error
	Quit() error
	Close() error
}

// SMTPDialer opens a connection to the mail server
type SMTPDialer func(addr string) (SMTPClient, error)

// SMTPConfig configures SMTPNotificationService
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SMTPNotificationService sends messages over SMTP with STARTTLS and PLAIN auth.
// Every recipient receives a separate message on one shared connection.
type SMTPNotificationService struct {
	config SMTPConfig
	dial   SMTPDialer
}

// NewSMTPNotificationService creates a new SMTPNotificationService
func NewSMTPNotificationService(config SMTPConfig) *SMTPNotificationService {
	return NewSMTPNotificationServiceWithDialer(config, func(addr string) (SMTPClient, error) {
		return smtp.Dial(addr)
	})
}

// NewSMTPNotificationServiceWithDialer creates a service using a custom dialer
func NewSMTPNotificationServiceWithDialer(config SMTPConfig, dial SMTPDialer) *SMTPNotificationService {
	if config.From == "" {
		config.From = config.Username
	}
	return &SMTPNotificationService{config: config, dial: dial}
}

// Send delivers msg to each of msg.To
func (s *SMTPNotificationService) Send(ctx context.Context, msg *entities.Message) error {
	if len(msg.To) == 0 {
		return nil
	}

	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
	client, err := s.dial(addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", addr, err)
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Printf("[SMTP] Warning: failed to close connection: %v", err)
		}
	}()

	if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
		return fmt.Errorf("failed to start TLS: %w", err)
	}
	if s.config.Username != "" {
		auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("failed to authenticate as %s: %w", s.config.Username, err)
		}
	}

	for _, to := range msg.To {
		if err := ctx.Err(); err != nil {
			return err
		}
		log.Printf("[SMTP] Sending email to %s with subject line %q", to, msg.Subject)
		if err := s.deliver(client, to, msg); err != nil {
			log.Printf("[SMTP] Failed to send email to %s: %v", to, err)
			if err := client.Reset(); err != nil {
				return fmt.Errorf("failed to reset SMTP session: %w", err)
			}
		}
	}

	if err := client.Quit(); err != nil {
		log.Printf("[SMTP] Warning: QUIT failed: %v", err)
	}
	return nil
}

func (s *SMTPNotificationService) deliver(client SMTPClient, to string, msg *entities.Message) error {
	if err := client.Mail(s.config.From); err != nil {
		return err
	}
	if err := client.Rcpt(to); err != nil {
		return err
	}
	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(ComposeMessage(s.config.From, to, msg)); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// ComposeMessage renders the RFC 5322 message for one recipient. Non-ASCII
// characters are dropped from the body.
func ComposeMessage(from, to string, msg *entities.Message) []byte {
	subtype := "plain"
	if msg.HTML {
		subtype = "html"
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: text/%s; charset=\"us-ascii\"\r\n", subtype)
	buf.WriteString("Content-Transfer-Encoding: 7bit\r\n\r\n")

	body := stripNonASCII(msg.BodyFor(to))
	body = strings.ReplaceAll(body, "\r\n", "\n")
	buf.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	if !strings.HasSuffix(body, "\n") {
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

func stripNonASCII(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] < 0x80 {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
