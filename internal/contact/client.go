package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Path is the backend endpoint that accepts contact messages.
const Path = "/api/user/port-add-em"

// Sender delivers a form to the backend.
type Sender interface {
	Send(ctx context.Context, f Form) error
}

// Client posts contact messages to the backend once, without retries.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient returns a Client for baseURL. An empty baseURL is accepted and
// fails at send time.
func NewClient(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

// Endpoint returns the full URL messages are posted to.
func (c *Client) Endpoint() string {
	return c.baseURL + Path
}

// Send posts f as JSON. Any HTTP response counts as delivered; the status
// and body are ignored.
func (c *Client) Send(ctx context.Context, f Form) error {
	body, err := json.Marshal(f)
	if err != nil {
		return fmt.Errorf("encoding form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("posting to %s: %w", c.Endpoint(), err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)
	return nil
}
