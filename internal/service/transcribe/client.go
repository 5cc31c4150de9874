package transcribe

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"
)

// ErrTranscription is returned for any transcription failure; the user-facing
// Spanish copy travels alongside so handlers never show raw transport errors.
var ErrTranscription = errors.New("no se pudo transcribir el audio. Por favor, inténtalo de nuevo")

// Result is the transcription webhook's response shape.
type Result struct {
	Text    string `json:"text"`
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// Client sends recorded audio clips to the transcription webhook.
type Client struct {
	url    string
	client *http.Client
}

// NewClient builds a transcription client for the given webhook URL.
func NewClient(url string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

// Transcribe uploads one audio clip and returns the recognized text.
// A response with success=false carries the workflow's own error text.
func (c *Client) Transcribe(ctx context.Context, audio io.Reader, filename string) (Result, error) {
	if filename == "" {
		filename = "recording.webm"
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("audio", filename)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	if err := writer.Close(); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, &body)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.client.Do(req)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTranscription, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Result{}, fmt.Errorf("%w: status %d", ErrTranscription, resp.StatusCode)
	}

	var result Result
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrTranscription, err)
	}

	if !result.Success {
		detail := result.Error
		if detail == "" {
			detail = "error en la transcripción"
		}
		return Result{}, fmt.Errorf("%w: %s", ErrTranscription, detail)
	}

	return result, nil
}
