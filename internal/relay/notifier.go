package relay

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

// Notifier abstracts outbound message delivery. Any non-nil error means
// "not delivered"; callers decide whether to retry.
type Notifier interface {
	Send(ctx context.Context, to, text string) error
}

// Client talks to the Node relay's HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	To      string `json:"to"`
	Message string `json:"message"`
}

func (c *Client) Send(ctx context.Context, to, text string) error {
	body, err := json.Marshal(sendRequest{To: to, Message: text})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/send-message", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("send to %s: %w", to, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(res.Body, 256))
		return fmt.Errorf("send to %s: relay returned %d: %s", to, res.StatusCode, strings.TrimSpace(string(snippet)))
	}
	return nil
}
