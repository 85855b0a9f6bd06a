package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"
)

// Event names sent to the configured webhook endpoint.
const (
	EventTaskCreated = "task.created"
	EventTaskUpdated = "task.updated"
)

// TaskNotification is the payload describing a task event.
type TaskNotification struct {
	ID          int64   `json:"id"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	DueDate     *string `json:"due_date,omitempty"`
	TeamID      int64   `json:"team_id"`
	CreatedBy   int64   `json:"created_by"`
	Status      string  `json:"status"`
	CreatedAt   string  `json:"created_at"`

	AssignedUserName *string `json:"assigned_user_name,omitempty"`
	TeamName         *string `json:"team_name,omitempty"`
	CreatorName      *string `json:"creator_name,omitempty"`
}

type envelope struct {
	Event     string           `json:"event"`
	Timestamp string           `json:"timestamp"`
	Data      TaskNotification `json:"data"`
}

// Notifier posts task event notifications to an external webhook.
// Delivery is best effort: no retries and no ordering guarantees.
type Notifier struct {
	url    string
	client *http.Client
	logger zerolog.Logger
}

// NewNotifier creates a Notifier. An empty url disables delivery.
func NewNotifier(url string, logger zerolog.Logger) *Notifier {
	return &Notifier{
		url: url,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
		logger: logger,
	}
}

// Enabled reports whether a webhook endpoint is configured.
func (n *Notifier) Enabled() bool {
	return n.url != ""
}

// Notify sends a single event to the webhook endpoint.
func (n *Notifier) Notify(ctx context.Context, event string, data TaskNotification) error {
	if !n.Enabled() {
		return nil
	}

	body, err := json.Marshal(envelope{
		Event:     event,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Data:      data,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to deliver webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("webhook endpoint returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}

// NotifyAsync fires Notify in a goroutine and logs failures instead of
// propagating them. Callers never block on webhook delivery.
func (n *Notifier) NotifyAsync(event string, data TaskNotification) {
	if !n.Enabled() {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := n.Notify(ctx, event, data); err != nil {
			n.logger.Warn().Err(err).
				Str("event", event).
				Int64("taskID", data.ID).
				Msg("Webhook notification failed")
		}
	}()
}
