package httpServices

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotifyDecisionPostsPayload(t *testing.T) {
	var received Payload
	var contentType string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	require.True(t, client.Configured())

	err := client.NotifyDecision(Payload{
		Decision:     "authorized",
		ResidentName: "Maria Perez",
		VisitorName:  "Juan",
		Digit:        "1",
		VisitID:      "7",
		CallSid:      "CA1",
	})
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "authorized", received.Decision)
	assert.Equal(t, "7", received.VisitID)
	assert.Equal(t, "CA1", received.CallSid)
}

func TestNotifyDecisionNonOKStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL)
	err := client.NotifyDecision(Payload{Decision: "rejected", VisitID: "7"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "non-OK")
}

func TestNotifyDecisionUnreachableEndpoint(t *testing.T) {
	client := NewClient("http://127.0.0.1:1/unreachable")
	err := client.NotifyDecision(Payload{Decision: "authorized", VisitID: "7"})
	assert.Error(t, err)
}

func TestNotifyDecisionUnconfigured(t *testing.T) {
	client := NewClient("")
	assert.False(t, client.Configured())
	assert.NoError(t, client.NotifyDecision(Payload{Decision: "authorized", VisitID: "7"}))
}
