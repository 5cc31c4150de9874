package tutor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SummaryClient asks the workflow engine for a study-summary document
// covering a whole conversation.
type SummaryClient struct {
	url    string
	client *http.Client
}

// NewSummaryClient builds a summary client for the given webhook URL.
func NewSummaryClient(url string, timeout time.Duration) *SummaryClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &SummaryClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Generate requests a markdown study summary for the conversation.
func (c *SummaryClient) Generate(ctx context.Context, conversationID string) (string, error) {
	payload, err := json.Marshal(map[string]string{"conversationId": conversationID})
	if err != nil {
		return "", fmt.Errorf("encode summary request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build summary request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("call summary service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("summary service returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read summary response: %w", err)
	}

	return ExtractReply(body, "summary", "output", "text"), nil
}
