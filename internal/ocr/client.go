package ocr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	// ErrPollTimeout is returned when an asynchronous recognition job is not
	// ready after the configured number of poll attempts.
	ErrPollTimeout = errors.New("ocr job polling timed out")

	// ErrNotConfigured is returned when no OCR endpoint is configured.
	ErrNotConfigured = errors.New("ocr collaborator not configured")
)

// Client recognizes text in images and paginated documents.
// RecognizeImage is synchronous; RecognizeDocument submits an asynchronous
// job and polls it a bounded number of times.
type Client interface {
	RecognizeImage(ctx context.Context, data []byte) ([]string, error)
	RecognizeDocument(ctx context.Context, data []byte) ([][]string, error)
}

type Config struct {
	BaseURL         string
	APIKey          string
	PollInterval    time.Duration
	PollMaxAttempts int
}

type HTTPClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewHTTPClient(cfg Config) *HTTPClient {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = time.Second
	}
	if cfg.PollMaxAttempts <= 0 {
		cfg.PollMaxAttempts = 15
	}
	return &HTTPClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// RecognizeImage returns recognized lines in the collaborator's region order.
func (c *HTTPClient) RecognizeImage(ctx context.Context, data []byte) ([]string, error) {
	if strings.TrimSpace(c.cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}

	raw, _, err := c.post(ctx, "/recognize", data)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		Lines []struct {
			Text string `json:"text"`
		} `json:"lines"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse ocr json failed: %w", err)
	}
	lines := make([]string, 0, len(parsed.Lines))
	for _, l := range parsed.Lines {
		lines = append(lines, l.Text)
	}
	return lines, nil
}

// RecognizeDocument submits the document, then polls the returned operation
// URL until the job succeeds or the attempt budget runs out. Page order is
// preserved as reported by the collaborator.
func (c *HTTPClient) RecognizeDocument(ctx context.Context, data []byte) ([][]string, error) {
	if strings.TrimSpace(c.cfg.BaseURL) == "" {
		return nil, ErrNotConfigured
	}

	_, opURL, err := c.post(ctx, "/analyze", data)
	if err != nil {
		return nil, err
	}
	if opURL == "" {
		return nil, fmt.Errorf("ocr analyze response missing operation location")
	}

	for attempt := 0; attempt < c.cfg.PollMaxAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("ocr poll aborted: %w", ctx.Err())
		case <-time.After(c.cfg.PollInterval):
		}

		status, pages, err := c.pollOperation(ctx, opURL)
		if err != nil {
			return nil, err
		}
		switch status {
		case "succeeded":
			return pages, nil
		case "failed":
			return nil, fmt.Errorf("ocr job failed")
		}
		// "notStarted" / "running": keep polling.
	}
	return nil, ErrPollTimeout
}

func (c *HTTPClient) post(ctx context.Context, path string, data []byte) ([]byte, string, error) {
	url := strings.TrimRight(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return nil, "", fmt.Errorf("build ocr request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/octet-stream")
	if c.cfg.APIKey != "" {
		req.Header.Set("api-key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("ocr request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read ocr response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("ocr response status %d: %s", resp.StatusCode, string(raw))
	}
	return raw, resp.Header.Get("Operation-Location"), nil
}

func (c *HTTPClient) pollOperation(ctx context.Context, opURL string) (string, [][]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, opURL, nil)
	if err != nil {
		return "", nil, fmt.Errorf("build ocr poll request failed: %w", err)
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("api-key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("ocr poll request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read ocr poll response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", nil, fmt.Errorf("ocr poll status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Status string `json:"status"`
		Pages  []struct {
			Lines []struct {
				Text string `json:"text"`
			} `json:"lines"`
		} `json:"pages"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", nil, fmt.Errorf("parse ocr poll json failed: %w", err)
	}

	pages := make([][]string, 0, len(parsed.Pages))
	for _, p := range parsed.Pages {
		lines := make([]string, 0, len(p.Lines))
		for _, l := range p.Lines {
			lines = append(lines, l.Text)
		}
		pages = append(pages, lines)
	}
	return parsed.Status, pages, nil
}
