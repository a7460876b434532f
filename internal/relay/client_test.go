package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/visionaryvybes/visiomancer-core/internal/config"
	"github.com/visionaryvybes/visiomancer-core/internal/domain"
)

func sampleEvent() domain.ConversionEvent {
	return domain.ConversionEvent{
		EventName:    domain.EventPageVisit,
		ActionSource: domain.ActionSourceWebsite,
		EventTime:    1766702551,
		EventID:      "evt-1",
		UserData: domain.UserData{
			ExternalID: "12345",
			SourceURL:  "https://visiomancer.com/",
		},
	}
}

func TestClient_Send_Delivered(t *testing.T) {
	var received domain.ConversionEvent
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(config.Relay{Endpoint: server.URL, AccessToken: "tok", TimeoutSec: 5}, zap.NewNop())
	result := client.Send(context.Background(), sampleEvent())

	assert.True(t, result.Delivered)
	assert.Equal(t, "evt-1", result.EventID)
	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "evt-1", received.EventID)
	assert.Equal(t, "https://visiomancer.com/", received.UserData.SourceURL)
}

func TestClient_Send_RelayErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := NewClient(config.Relay{Endpoint: server.URL, TimeoutSec: 5}, zap.NewNop())
	result := client.Send(context.Background(), sampleEvent())

	assert.False(t, result.Delivered)
	assert.Contains(t, result.Reason, "400")
}

func TestClient_Send_NetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	server.Close()

	client := NewClient(config.Relay{Endpoint: server.URL, TimeoutSec: 1}, zap.NewNop())
	result := client.Send(context.Background(), sampleEvent())

	assert.False(t, result.Delivered)
	assert.NotEmpty(t, result.Reason)
}
