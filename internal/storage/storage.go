package storage

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/vkotelev/foodline/internal/logging"
)

// Client releases objects held by the external image store after their
// owning product is deleted. Releases are best-effort.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}
}

// Release deletes the given object URLs from the store. Individual
// failures are logged and skipped; the first error is returned so callers
// can count it.
func (c *Client) Release(ctx context.Context, urls []string) error {
	if c.baseURL == "" || len(urls) == 0 {
		return nil
	}
	l := logging.FromContext(ctx).With("component", "storage")

	var firstErr error
	for _, u := range urls {
		if err := c.release(ctx, u); err != nil {
			l.Warn("image release failed", "url", u, "error", err)
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (c *Client) release(ctx context.Context, object string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
		c.baseURL+"/objects?url="+url.QueryEscape(object), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		return fmt.Errorf("storage returned status %d", resp.StatusCode)
	}
	return nil
}
