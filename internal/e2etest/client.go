package e2etest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/myrjola/fightcamp/internal/errors"
)

var ErrUnexpectedStatus = errors.NewSentinel("unexpected status code")

// Client talks to a running fightcamp server.
type Client struct {
	client *http.Client
	url    string
}

// NewClient creates a client for the server at url, e.g. http://localhost:8081.
func NewClient(url string) *Client {
	return &Client{
		client: &http.Client{Timeout: 30 * time.Second}, //nolint:exhaustruct,mnd // plan generation is bounded server side.
		url:    url,
	}
}

// WaitForReady calls urlPath until it answers 200 OK or until ctx is done or timeout passes.
func (c *Client) WaitForReady(ctx context.Context, urlPath string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for {
		resp, err := c.Get(ctx, urlPath)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		if time.Now().After(deadline) {
			return errors.New("timeout waiting for endpoint to be ready", slog.String("path", urlPath))
		}
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "wait for ready")
		case <-time.After(100 * time.Millisecond): //nolint:mnd // poll interval.
		}
	}
}

// Get fetches urlPath and returns the response. The caller closes the body.
func (c *Client) Get(ctx context.Context, urlPath string) (*http.Response, error) {
	return c.do(ctx, http.MethodGet, urlPath, "", nil)
}

// GetDoc fetches urlPath and parses the 200 OK response as HTML.
func (c *Client) GetDoc(ctx context.Context, urlPath string) (*goquery.Document, error) {
	resp, err := c.Get(ctx, urlPath)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.Wrap(ErrUnexpectedStatus, "get document",
			slog.String("path", urlPath), slog.Int("status", resp.StatusCode))
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "parse document", slog.String("path", urlPath))
	}
	return doc, nil
}

// PostJSON posts body to urlPath. The caller closes the response body.
func (c *Client) PostJSON(ctx context.Context, urlPath string, body []byte) (*http.Response, error) {
	return c.do(ctx, http.MethodPost, urlPath, "application/json", bytes.NewReader(body))
}

// DecodeJSON posts body to urlPath, expects wantStatus and decodes the response into v.
func (c *Client) DecodeJSON(ctx context.Context, urlPath string, body []byte, wantStatus int, v any) error {
	resp, err := c.PostJSON(ctx, urlPath, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != wantStatus {
		msg, _ := io.ReadAll(resp.Body)
		return errors.Wrap(ErrUnexpectedStatus, "post json", slog.String("path", urlPath),
			slog.Int("status", resp.StatusCode), slog.String("body", string(msg)))
	}
	if err = json.NewDecoder(resp.Body).Decode(v); err != nil {
		return errors.Wrap(err, "decode response", slog.String("path", urlPath))
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, urlPath, contentType string, body io.Reader) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url+urlPath, body)
	if err != nil {
		return nil, errors.Wrap(err, "create request", slog.String("path", urlPath))
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, errors.Wrap(err, "do request", slog.String("method", method), slog.String("path", urlPath))
	}
	return resp, nil
}
