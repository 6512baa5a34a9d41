// Package webhook posts extraction reports to HTTP endpoints.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ccollicutt/sqlparam/pkg/config"
	"github.com/ccollicutt/sqlparam/pkg/output"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 10 * time.Second

// UserAgent is sent with every request.
const UserAgent = "sqlparam-webhook"

// EventHeader names the event of a request.
const EventHeader = "X-Sqlparam-Event"

// maxResponseBody caps how much of a response body is kept.
const maxResponseBody = 1024 * 1024

// Client sends extraction reports to webhook endpoints.
type Client struct {
	httpClient *http.Client
}

// NewClient creates a new webhook client.
func NewClient() *Client {
	return &Client{
		httpClient: &http.Client{},
	}
}

// SendOptions configures a webhook request.
type SendOptions struct {
	URL     string
	Token   string        // Bearer token (optional)
	Timeout time.Duration // Request timeout (uses DefaultTimeout if zero)
}

// Response contains the result of a webhook request.
type Response struct {
	Name       string
	StatusCode int
	Body       string
	Duration   time.Duration
	Error      error
}

// Success returns true if the webhook was sent successfully (2xx status).
func (r *Response) Success() bool {
	return r.Error == nil && r.StatusCode >= 200 && r.StatusCode < 300
}

// Event names carried in the payload and the X-Sqlparam-Event header.
const (
	EventRendered    = "statements.rendered"
	EventIssuesFound = "statements.issues_found"
)

// Payload is the request body: the report plus the event that fired it.
type Payload struct {
	Event string `json:"event"`
	*output.Report
}

// NewPayload wraps a report, choosing the event from its issues.
func NewPayload(report *output.Report) Payload {
	event := EventRendered
	if report.HasIssues() {
		event = EventIssuesFound
	}
	return Payload{Event: event, Report: report}
}

// Send posts a report to a webhook endpoint. Failures are reported in
// Response.Error, never returned.
func (c *Client) Send(ctx context.Context, report *output.Report, opts SendOptions) *Response {
	start := time.Now()
	resp := &Response{}
	resp.StatusCode, resp.Body, resp.Error = c.post(ctx, NewPayload(report), opts)
	resp.Duration = time.Since(start)
	return resp
}

func (c *Client) post(ctx context.Context, payload Payload, opts SendOptions) (int, string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return 0, "", fmt.Errorf("failed to marshal report: %w", err)
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, opts.URL, bytes.NewReader(body))
	if err != nil {
		return 0, "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set(EventHeader, payload.Event)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, "", fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(httpResp.Body, maxResponseBody))
	if err != nil {
		return httpResp.StatusCode, "", fmt.Errorf("failed to read response: %w", err)
	}
	if httpResp.StatusCode >= 400 {
		return httpResp.StatusCode, string(data), fmt.Errorf("webhook returned status %d", httpResp.StatusCode)
	}
	return httpResp.StatusCode, string(data), nil
}

// SendAll posts the report to every webhook whose trigger fires, in
// parallel. Responses are returned in the order of hooks; hooks that did
// not fire are left out.
func (c *Client) SendAll(ctx context.Context, report *output.Report, hooks []config.WebhookConfig) []*Response {
	fired := make([]config.WebhookConfig, 0, len(hooks))
	for _, wh := range hooks {
		if ShouldFire(wh.Trigger, report.HasIssues()) {
			fired = append(fired, wh)
		}
	}

	responses := make([]*Response, len(fired))
	var g errgroup.Group
	for i, wh := range fired {
		i, wh := i, wh
		g.Go(func() error {
			resp := c.Send(ctx, report, SendOptions{
				URL:     wh.URL,
				Token:   wh.Token,
				Timeout: wh.Timeout,
			})
			resp.Name = wh.Name
			if resp.Name == "" {
				resp.Name = wh.URL
			}
			responses[i] = resp
			return nil
		})
	}
	_ = g.Wait()

	return responses
}

// ShouldFire reports whether a webhook with the given trigger fires.
// Unknown triggers behave like on_issues.
func ShouldFire(trigger config.WebhookTrigger, hasIssues bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	default:
		return hasIssues
	}
}
