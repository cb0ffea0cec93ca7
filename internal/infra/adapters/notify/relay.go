package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// RelayTransport posts {"text": ...} to the staff webhook through an HTTP relay.
// The template may reference the webhook as {url} or {url_encoded}.
type RelayTransport struct {
	name   string
	target string
	client *http.Client
}

func NewRelayTransport(name, template, webhookURL string, timeout time.Duration) *RelayTransport {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RelayTransport{
		name:   name,
		target: RelayTarget(template, webhookURL),
		client: &http.Client{Timeout: timeout},
	}
}

// RelayTarget expands a relay template for webhookURL.
func RelayTarget(template, webhookURL string) string {
	r := strings.NewReplacer(
		"{url_encoded}", url.QueryEscape(webhookURL),
		"{url}", webhookURL,
	)
	return r.Replace(template)
}

func (r *RelayTransport) Name() string { return r.name }

func (r *RelayTransport) Deliver(ctx context.Context, msg Message) (bool, error) {
	b, err := json.Marshal(map[string]string{"text": msg.Text})
	if err != nil {
		return false, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.target, bytes.NewReader(b))
	if err != nil {
		return false, fmt.Errorf("build relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := r.client.Do(req)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("relay %s answered %d", r.name, resp.StatusCode)
	}
	return true, nil
}
