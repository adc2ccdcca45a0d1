package teams

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tenantkit/tenantkit/pkg/types"
)

func testReport() types.Report {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	return types.Report{
		Title:     "Apple Token Check",
		RunID:     "run-42",
		Tenant:    "contoso.onmicrosoft.com",
		Generated: now,
		Results: []types.TestResult{
			{Category: "VPP", Name: "Token Contoso", Status: types.StatusWarning, Timestamp: now},
			{Category: "MDM", Name: "Push certificate", Status: types.StatusPass, Timestamp: now},
		},
	}
}

func TestCardForReport(t *testing.T) {
	card := CardForReport(testReport())

	assert.Equal(t, "MessageCard", card.Type)
	assert.Equal(t, "http://schema.org/extensions", card.Context)
	assert.Equal(t, colorWarning, card.ThemeColor)
	require.Len(t, card.Sections, 1)

	facts := card.Sections[0].Facts
	require.GreaterOrEqual(t, len(facts), 4)
	assert.Equal(t, "Tenant", facts[0].Name)
	assert.Equal(t, "contoso.onmicrosoft.com", facts[0].Value)

	// payload keeps the fixed wire schema
	payload, err := json.Marshal(card)
	require.NoError(t, err)
	assert.Contains(t, string(payload), `"@type":"MessageCard"`)
	assert.Contains(t, string(payload), `"@context":"http://schema.org/extensions"`)
}

func TestNotifierPost(t *testing.T) {
	var received []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL)
	require.NoError(t, notifier.Post(context.Background(), CardForReport(testReport())))

	var card MessageCard
	require.NoError(t, json.Unmarshal(received, &card))
	assert.Equal(t, "Apple Token Check", card.Title)
}

func TestNotifierPostRejectsFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad payload", http.StatusBadRequest)
	}))
	defer server.Close()

	notifier := NewNotifier(server.URL)
	err := notifier.Post(context.Background(), MessageCard{})
	assert.Error(t, err)
}
