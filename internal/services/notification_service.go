package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/pratik-mahalle/d9sync/internal/domain/account"
	"github.com/pratik-mahalle/d9sync/internal/pkg/logger"
)

// maxListedFailures caps how many failed projects a Slack message names
const maxListedFailures = 10

// NotificationService posts run summaries to a Slack incoming webhook
type NotificationService struct {
	webhookURL string
	channel    string
	httpClient *http.Client
	logger     *logger.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(webhookURL, channel string, log *logger.Logger) *NotificationService {
	return &NotificationService{
		webhookURL: webhookURL,
		channel:    channel,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     log,
	}
}

// NotifySummary sends a run summary. Runs with nothing to do are not sent.
func (s *NotificationService) NotifySummary(ctx context.Context, summary *Summary) error {
	if s.webhookURL == "" {
		return nil
	}
	if summary.Candidates == 0 && !summary.Aborted {
		return nil
	}

	payload, err := json.Marshal(s.buildSlackMessage(summary))
	if err != nil {
		return fmt.Errorf("failed to marshal Slack message: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.webhookURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Slack message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("Slack API error: %s", string(body))
	}

	s.logger.WithFields(map[string]interface{}{
		"run_id":    summary.RunID,
		"operation": summary.Operation,
	}).Info("Slack notification sent")

	return nil
}

// buildSlackMessage builds a Slack message payload
func (s *NotificationService) buildSlackMessage(summary *Summary) map[string]interface{} {
	color := "#36a64f" // green
	emoji := ":white_check_mark:"
	switch summary.Status() {
	case "aborted":
		color = "#ff0000"
		emoji = ":rotating_light:"
	case "partial":
		color = "#ff8c00"
		emoji = ":warning:"
	}

	verb := "Onboarded"
	if summary.Operation == account.OperationOffboard {
		verb = "Offboarded"
	}

	var text strings.Builder
	fmt.Fprintf(&text, "%s %d of %d projects", verb, summary.Succeeded, summary.Candidates)
	if summary.AlreadyExists > 0 {
		fmt.Fprintf(&text, ", %d already in place", summary.AlreadyExists)
	}
	if n := summary.Rejected + summary.Failed; n > 0 {
		fmt.Fprintf(&text, ", %d failed", n)
	}
	if summary.Aborted {
		fmt.Fprintf(&text, "\nAborted: %s (%d skipped)", summary.AbortReason, summary.Skipped)
	}

	listed := 0
	for _, r := range summary.Results {
		if !r.Outcome.Failed() {
			continue
		}
		if listed == maxListedFailures {
			text.WriteString("\n...")
			break
		}
		fmt.Fprintf(&text, "\n• `%s` %s", r.ProjectID, r.Outcome)
		listed++
	}

	message := map[string]interface{}{
		"attachments": []map[string]interface{}{
			{
				"color":  color,
				"title":  fmt.Sprintf("%s d9sync %s run %s", emoji, summary.Operation, summary.Status()),
				"text":   text.String(),
				"footer": "d9sync " + summary.RunID,
				"ts":     summary.FinishedAt.Unix(),
			},
		},
	}
	if s.channel != "" {
		message["channel"] = s.channel
	}
	return message
}
