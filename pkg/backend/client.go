package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
)

const (
	defaultBaseURL = "http://localhost:5000/api"

	scrapePath  = "jobs/scrape"
	sourcesPath = "jobs/sources"
)

// NewClient instantiates a backend API client
func NewClient(cfg Config) (*Client, error) {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = strings.TrimSuffix(baseURL, "/")

	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("backend: parse base url: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &Client{
		baseURL:    baseURL,
		httpClient: httpClient,
	}, nil
}

// Scrape asks the backend to scrape the requested sources. A response with
// success=false is returned as-is, not as an error.
func (c *Client) Scrape(ctx context.Context, body ScrapeRequest) (ScrapeResponse, error) {
	if c == nil {
		return ScrapeResponse{}, fmt.Errorf("backend: client is nil")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return ScrapeResponse{}, fmt.Errorf("backend: encode request: %w", err)
	}

	var out ScrapeResponse
	if err := c.do(ctx, http.MethodPost, scrapePath, payload, &out); err != nil {
		return ScrapeResponse{}, err
	}

	return out, nil
}

// Sources lists the source identifiers the backend can scrape
func (c *Client) Sources(ctx context.Context) (SourcesResponse, error) {
	if c == nil {
		return SourcesResponse{}, fmt.Errorf("backend: client is nil")
	}

	var out SourcesResponse
	if err := c.do(ctx, http.MethodGet, sourcesPath, nil, &out); err != nil {
		return SourcesResponse{}, err
	}

	return out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte, out any) error {
	u, err := c.buildURL(endpoint)
	if err != nil {
		return err
	}

	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return fmt.Errorf("backend: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("backend: request failed: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return &StatusError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("backend: decode response: %w", err)
	}

	return nil
}

func (c *Client) buildURL(endpoint string) (string, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return "", fmt.Errorf("backend: parse base url: %w", err)
	}
	u.Path = path.Join(u.Path, endpoint)
	return u.String(), nil
}
