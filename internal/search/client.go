package search

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

	"docuchat/internal/model"
)

// ErrUnavailable signals that the search collaborator is unreachable or
// misconfigured. Reference lookup is auxiliary, so callers degrade to zero
// snippets instead of failing the request.
var ErrUnavailable = errors.New("search collaborator unavailable")

const missingContentPlaceholder = "(result had no content)"

// Client retrieves reference passages for a free-text query. Result order
// follows the collaborator's relevance ranking.
type Client interface {
	Query(ctx context.Context, query string, top int) ([]model.ReferenceSnippet, error)
}

type Config struct {
	BaseURL string
	APIKey  string
}

type HTTPClient struct {
	cfg        Config
	httpClient *http.Client
}

func NewHTTPClient(cfg Config) *HTTPClient {
	return &HTTPClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (c *HTTPClient) Query(ctx context.Context, query string, top int) ([]model.ReferenceSnippet, error) {
	if strings.TrimSpace(c.cfg.BaseURL) == "" {
		return nil, ErrUnavailable
	}
	if top <= 0 {
		top = 3
	}

	reqBody := map[string]interface{}{
		"query": query,
		"top":   top,
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("marshal search request failed: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/query"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("build search request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("api-key", c.cfg.APIKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read search response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrUnavailable, resp.StatusCode, string(raw))
	}

	var parsed struct {
		Results []struct {
			Content string `json:"content"`
			Source  string `json:"source"`
		} `json:"results"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("parse search json failed: %w", err)
	}

	// Items with missing fields are tolerated, not dropped, so the caller
	// still sees one snippet per ranked result.
	snippets := make([]model.ReferenceSnippet, 0, len(parsed.Results))
	for _, item := range parsed.Results {
		content := strings.TrimSpace(item.Content)
		if content == "" {
			content = missingContentPlaceholder
		}
		snippets = append(snippets, model.ReferenceSnippet{
			Content: content,
			Source:  item.Source,
		})
	}
	return snippets, nil
}
