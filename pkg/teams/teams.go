// Package teams posts run summaries to a Teams incoming webhook as
// legacy MessageCard payloads.
package teams

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/tenantkit/tenantkit/pkg/types"
)

// MessageCard is the fixed schema accepted by Teams incoming webhooks.
type MessageCard struct {
	Type       string    `json:"@type"`
	Context    string    `json:"@context"`
	ThemeColor string    `json:"themeColor"`
	Summary    string    `json:"summary"`
	Title      string    `json:"title"`
	Sections   []Section `json:"sections"`
}

type Section struct {
	ActivityTitle string `json:"activityTitle,omitempty"`
	Text          string `json:"text,omitempty"`
	Facts         []Fact `json:"facts,omitempty"`
	Markdown      bool   `json:"markdown"`
}

type Fact struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

const (
	colorPass    = "107c10"
	colorWarning = "c19c00"
	colorFail    = "d13438"
)

// CardForReport builds the summary card for a finished run, themed by the
// worst status in the report.
func CardForReport(report types.Report) MessageCard {
	summary := report.Summarize()

	color := colorPass
	switch report.WorstStatus() {
	case types.StatusWarning:
		color = colorWarning
	case types.StatusFail:
		color = colorFail
	}

	facts := []Fact{
		{Name: "Tenant", Value: report.Tenant},
		{Name: "Pass", Value: fmt.Sprintf("%d", summary.Pass)},
		{Name: "Warning", Value: fmt.Sprintf("%d", summary.Warning)},
		{Name: "Fail", Value: fmt.Sprintf("%d", summary.Fail)},
	}

	for _, category := range report.Categories() {
		s := report.SummarizeCategory(category)
		if s.Fail > 0 || s.Warning > 0 {
			facts = append(facts, Fact{
				Name:  category,
				Value: fmt.Sprintf("%d warning, %d fail", s.Warning, s.Fail),
			})
		}
	}

	return MessageCard{
		Type:       "MessageCard",
		Context:    "http://schema.org/extensions",
		ThemeColor: color,
		Summary:    report.Title,
		Title:      report.Title,
		Sections: []Section{
			{
				ActivityTitle: fmt.Sprintf("Run %s finished %s", report.RunID, report.Generated.Format(time.RFC3339)),
				Facts:         facts,
				Markdown:      true,
			},
		},
	}
}

// Notifier posts MessageCards to a single webhook URL.
type Notifier struct {
	WebhookURL string
	Client     *http.Client
}

func NewNotifier(webhookURL string) *Notifier {
	return &Notifier{
		WebhookURL: webhookURL,
		Client:     &http.Client{Timeout: 30 * time.Second},
	}
}

// Post sends the card. A non-2xx response is an error.
func (n *Notifier) Post(ctx context.Context, card MessageCard) error {
	payload, err := json.Marshal(card)
	if err != nil {
		return fmt.Errorf("failed to marshal message card: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.WebhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to post to webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
