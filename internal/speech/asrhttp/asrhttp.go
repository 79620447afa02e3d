// Package asrhttp implements the speech Capturer against an
// ask-and-listen HTTP speech service.
//
// The service owns the microphone and the turn-taking logic: it speaks
// the prompt, records the operator's reply, transcribes it, and returns
// the transcript. Any Whisper-backed listen endpoint with this contract
// works:
//
//	POST <endpoint>  {"prompt": "..."}
//	200              {"text": "..."}
package asrhttp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/nlr-robotics/gpsrd/internal/config"
)

// Capturer implements speech.Capturer over HTTP.
type Capturer struct {
	endpoint string
	token    string
	client   *http.Client
}

// New creates a Capturer from config.
func New(cfg config.ASRHTTPConfig) *Capturer {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Capturer{
		endpoint: cfg.Endpoint,
		token:    cfg.Token,
		client:   &http.Client{Timeout: timeout},
	}
}

// Capture sends the prompt to the listen endpoint and returns the
// transcribed utterance.
func (c *Capturer) Capture(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(map[string]string{"prompt": prompt})
	if err != nil {
		return "", fmt.Errorf("marshalling capture request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating capture request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("capture request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return "", fmt.Errorf("capture failed (status %d): %s", resp.StatusCode, respBody)
	}

	var result struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("decoding transcript: %w", err)
	}
	if result.Text == "" {
		return "", fmt.Errorf("speech service returned an empty transcript")
	}

	slog.Debug("capture complete", "text_length", len(result.Text))
	return result.Text, nil
}

// Close is a no-op — connections are per-request.
func (c *Capturer) Close() error { return nil }
