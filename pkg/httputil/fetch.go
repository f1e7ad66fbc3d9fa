package httputil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"
)

// maxBodySize caps a single fetched resource at 64 MiB. Images and
// tabular exports are well below this; anything larger is a mistake.
const maxBodySize = 64 << 20

// Client fetches URLs with retries on transient failures.
type Client struct {
	http  *http.Client
	retry RetryConfig
}

// NewClient builds a Client with the default retry policy.
func NewClient() *Client {
	return &Client{
		http:  &http.Client{Timeout: 30 * time.Second},
		retry: DefaultRetryConfig(),
	}
}

// Fetch performs a GET and returns the body bytes. Server errors and
// transport failures are retried; client errors are not.
func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := Retry(ctx, c.retry, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}
		resp, err := c.http.Do(req)
		if err != nil {
			return Retryable(err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode >= 500:
			return Retryable(fmt.Errorf("GET %s: %s", url, resp.Status))
		case resp.StatusCode != http.StatusOK:
			return fmt.Errorf("GET %s: %s", url, resp.Status)
		}

		body, err = io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
		if err != nil {
			return Retryable(fmt.Errorf("GET %s: reading body: %w", url, err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return body, nil
}
