package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storechecker/storechecker/internal/domain/entities"
)

func TestSlackAlertService_Alert(t *testing.T) {
	received := make(chan map[string]interface{}, 1)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		received <- payload
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc := NewSlackAlertService(server.URL)
	require.NoError(t, svc.Alert(context.Background(), "reconciliation failed: timeout"))

	payload := <-received
	assert.Equal(t, "reconciliation failed: timeout", payload["text"])
	assert.Equal(t, "storechecker", payload["username"])
}

func TestSlackAlertService_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	err := NewSlackAlertService(server.URL).Alert(context.Background(), "x")
	assert.ErrorContains(t, err, "failed to post slack alert")
}

func TestLogNotificationService_RecordsMessages(t *testing.T) {
	svc := NewLogNotificationService()

	require.NoError(t, svc.Send(context.Background(), &entities.Message{Subject: "empty"}))
	require.NoError(t, svc.Send(context.Background(), &entities.Message{To: []string{"a@x.com"}, Subject: "hello"}))

	sent := svc.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "hello", sent[0].Subject)
	assert.NoError(t, NewLogAlertService().Alert(context.Background(), "x"))
}
