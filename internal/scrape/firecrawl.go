// Package scrape fetches webpages as markdown through the Firecrawl API.
package scrape

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

	"github.com/thywilljoshua/pdf-mindmap/internal/errs"
	"github.com/thywilljoshua/pdf-mindmap/internal/logging"
)

// DefaultBaseURL is the hosted Firecrawl API.
const DefaultBaseURL = "https://api.firecrawl.dev"

// Scraper returns the main content of a webpage as markdown.
type Scraper interface {
	Scrape(ctx context.Context, url string) (string, error)
}

// Client talks to the Firecrawl scrape endpoint.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL points the client at another Firecrawl deployment.
func WithBaseURL(u string) Option {
	return func(c *Client) {
		if u != "" {
			c.baseURL = strings.TrimRight(u, "/")
		}
	}
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// New creates a Firecrawl client. The API key is required.
func New(apiKey string, opts ...Option) (*Client, error) {
	if apiKey == "" {
		return nil, errs.New(errs.ErrCodeInvalidConfig, "missing FIRECRAWL_API_KEY")
	}
	c := &Client{
		apiKey:     apiKey,
		baseURL:    DefaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

type scrapeRequest struct {
	URL     string   `json:"url"`
	Formats []string `json:"formats"`
}

type scrapeResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
	Data    struct {
		Markdown string `json:"markdown"`
	} `json:"data"`
}

// Scrape fetches url and returns its markdown rendering.
func (c *Client) Scrape(ctx context.Context, url string) (string, error) {
	body, err := json.Marshal(scrapeRequest{URL: url, Formats: []string{"markdown"}})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/scrape", bytes.NewReader(body))
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeInvalidInput, err, "build scrape request for %s", url)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	logging.FromContext(ctx).Debug("scraping", "url", url)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "", errs.Wrap(errs.ErrCodeTimeout, err, "scrape %s timed out", url)
		}
		return "", errs.Wrap(errs.ErrCodeNetwork, err, "failed to scrape %s", url)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 32<<20))
	if err != nil {
		return "", errs.Wrap(errs.ErrCodeNetwork, err, "read scrape response")
	}

	var out scrapeResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", errs.Wrap(errs.ErrCodeNetwork, err, "failed to scrape: unexpected response (status %d)", resp.StatusCode)
	}
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return "", errs.New(errs.ErrCodeUnauthorized, "failed to scrape: %s", fallbackMsg(out.Error, resp.Status))
	}
	if !out.Success || resp.StatusCode >= 300 {
		return "", errs.New(errs.ErrCodeNetwork, "failed to scrape: %s", fallbackMsg(out.Error, resp.Status))
	}
	return out.Data.Markdown, nil
}

func fallbackMsg(msg, status string) string {
	if msg != "" {
		return msg
	}
	return fmt.Sprintf("upstream returned %s", status)
}
