package services

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"io"
	"net/smtp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

type bufferCloser struct {
	bytes.Buffer
	onClose func(data string)
}

func (b *bufferCloser) Close() error {
	b.onClose(b.String())
	return nil
}

// mockSMTPClient records the SMTP conversation
type mockSMTPClient struct {
	startTLSErr error
	authErr     error
	rcptErr     map[string]error

	tlsServerName string
	authenticated bool
	from          []string
	delivered     map[string]string
	pendingTo     string
	resets        int
	quit          bool
	closed        bool
}

func newMockSMTPClient() *mockSMTPClient {
	return &mockSMTPClient{rcptErr: map[string]error{}, delivered: map[string]string{}}
}

func (m *mockSMTPClient) StartTLS(config *tls.Config) error {
	m.tlsServerName = config.ServerName
	return m.startTLSErr
}

func (m *mockSMTPClient) Auth(a smtp.Auth) error {
	if m.authErr != nil {
		return m.authErr
	}
	m.authenticated = true
	return nil
}

func (m *mockSMTPClient) Mail(from string) error {
	m.from = append(m.from, from)
	return nil
}

func (m *mockSMTPClient) Rcpt(to string) error {
	if err := m.rcptErr[to]; err != nil {
		return err
	}
	m.pendingTo = to
	return nil
}

func (m *mockSMTPClient) Data() (io.WriteCloser, error) {
	to := m.pendingTo
	return &bufferCloser{onClose: func(data string) { m.delivered[to] = data }}, nil
}

func (m *mockSMTPClient) Reset() error { m.resets++; return nil }
func (m *mockSMTPClient) Quit() error  { m.quit = true; return nil }
func (m *mockSMTPClient) Close() error { m.closed = true; return nil }

func newTestSMTPService(client *mockSMTPClient, dialErr error) (*SMTPNotificationService, *string) {
	var dialed string
	svc := NewSMTPNotificationServiceWithDialer(SMTPConfig{
		Host:     "smtp.example.com",
		Port:     587,
		Username: "alerts@example.com",
		Password: "secret",
	}, func(addr string) (SMTPClient, error) {
		dialed = addr
		if dialErr != nil {
			return nil, dialErr
		}
		return client, nil
	})
	return svc, &dialed
}

func TestSMTPNotificationService_SendsOneMessagePerRecipient(t *testing.T) {
	client := newMockSMTPClient()
	svc, dialed := newTestSMTPService(client, nil)

	msg := &entities.Message{
		To:      []string{"a@x.com", "b@x.com"},
		Subject: "Price drop on Game X by $5.00",
		Body:    "Hello {recipient}",
		HTML:    true,
		Personalize: func(body, recipient string) string {
			return strings.ReplaceAll(body, "{recipient}", recipient)
		},
	}
	require.NoError(t, svc.Send(context.Background(), msg))

	assert.Equal(t, "smtp.example.com:587", *dialed)
	assert.Equal(t, "smtp.example.com", client.tlsServerName)
	assert.True(t, client.authenticated)
	assert.Equal(t, []string{"alerts@example.com", "alerts@example.com"}, client.from)
	assert.True(t, client.quit)
	assert.True(t, client.closed)

	require.Len(t, client.delivered, 2)
	assert.Contains(t, client.delivered["a@x.com"], "To: a@x.com\r\n")
	assert.Contains(t, client.delivered["a@x.com"], "Hello a@x.com")
	assert.Contains(t, client.delivered["b@x.com"], "Hello b@x.com")
	assert.Contains(t, client.delivered["b@x.com"], "Content-Type: text/html")
}

func TestSMTPNotificationService_NoRecipientsIsNoop(t *testing.T) {
	svc, dialed := newTestSMTPService(nil, errors.New("must not dial"))

	require.NoError(t, svc.Send(context.Background(), &entities.Message{Subject: "x"}))
	assert.Empty(t, *dialed)
}

func TestSMTPNotificationService_RecipientFailureIsSkipped(t *testing.T) {
	client := newMockSMTPClient()
	client.rcptErr["bad@x.com"] = errors.New("550 mailbox unavailable")
	svc, _ := newTestSMTPService(client, nil)

	err := svc.Send(context.Background(), &entities.Message{To: []string{"bad@x.com", "good@x.com"}, Subject: "s", Body: "b"})

	require.NoError(t, err)
	assert.Equal(t, 1, client.resets)
	assert.NotContains(t, client.delivered, "bad@x.com")
	assert.Contains(t, client.delivered, "good@x.com")
}

func TestSMTPNotificationService_ConnectionFailures(t *testing.T) {
	msg := &entities.Message{To: []string{"a@x.com"}, Subject: "s", Body: "b"}

	t.Run("dial", func(t *testing.T) {
		svc, _ := newTestSMTPService(nil, errors.New("connection refused"))
		assert.ErrorContains(t, svc.Send(context.Background(), msg), "connection refused")
	})

	t.Run("starttls", func(t *testing.T) {
		client := newMockSMTPClient()
		client.startTLSErr = errors.New("handshake failure")
		svc, _ := newTestSMTPService(client, nil)
		assert.ErrorContains(t, svc.Send(context.Background(), msg), "failed to start TLS")
		assert.True(t, client.closed)
	})

	t.Run("auth", func(t *testing.T) {
		client := newMockSMTPClient()
		client.authErr = errors.New("535 bad credentials")
		svc, _ := newTestSMTPService(client, nil)
		assert.ErrorContains(t, svc.Send(context.Background(), msg), "failed to authenticate")
		assert.Empty(t, client.delivered)
	})
}

func TestComposeMessage(t *testing.T) {
	data := string(ComposeMessage("from@x.com", "to@x.com", &entities.Message{
		Subject: "Price increase on Pokémon by $1.00",
		Body:    "Café line one\nline two",
	}))

	assert.Contains(t, data, "From: from@x.com\r\n")
	assert.Contains(t, data, "Subject: =?utf-8?q?")
	assert.Contains(t, data, "Content-Type: text/plain; charset=\"us-ascii\"\r\n")
	assert.True(t, strings.HasSuffix(data, "\r\n\r\nCaf line one\r\nline two\r\n"))
}
