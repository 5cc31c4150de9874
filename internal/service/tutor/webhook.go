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

// DefaultTimeout bounds the workflow call. The upstream workflow has no
// latency guarantee, so the bound mainly protects the awaiting flag from
// getting stuck forever.
const DefaultTimeout = 120 * time.Second

// WebhookClient asks the hosted workflow engine for tutor replies.
type WebhookClient struct {
	url    string
	client *http.Client
}

// NewWebhookClient builds a client for the given webhook URL. A zero timeout
// selects DefaultTimeout.
func NewWebhookClient(url string, timeout time.Duration) *WebhookClient {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WebhookClient{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Respond posts the turn to the webhook and extracts the reply text.
func (c *WebhookClient) Respond(ctx context.Context, req TurnRequest) (string, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode tutor request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build tutor request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("call tutor service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("tutor service returned %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read tutor response: %w", err)
	}

	return ExtractReply(body, "output", "response"), nil
}

// ExtractReply resolves the reply text from a workflow response body. The
// workflow is free to return a bare JSON string or an object with the text
// under any of the given field names; anything else falls back to the raw
// body so schema drift upstream never turns into an error.
func ExtractReply(body []byte, fields ...string) string {
	var asString string
	if err := json.Unmarshal(body, &asString); err == nil {
		return asString
	}

	var asObject map[string]json.RawMessage
	if err := json.Unmarshal(body, &asObject); err == nil {
		for _, field := range fields {
			raw, ok := asObject[field]
			if !ok {
				continue
			}
			var value string
			if err := json.Unmarshal(raw, &value); err == nil && value != "" {
				return value
			}
		}
	}

	return string(body)
}
