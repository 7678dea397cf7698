package upstream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/schoolroll/attendance-backend-go/internal/config"
	"golang.org/x/oauth2"
)

const (
	maxBodyBytes      = 32 << 20
	maxErrorBodyBytes = 512
)

var (
	ErrUnavailable       = errors.New("upstream data service unavailable")
	ErrMalformedResponse = errors.New("upstream returned a malformed response")
)

// StatusError is a non-2xx answer from the upstream data service
type StatusError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("upstream %s: unexpected status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("upstream %s: unexpected status %d: %s", e.Op, e.StatusCode, e.Body)
}

// Client talks to the upstream no-code backend over HTTP
type Client struct {
	httpClient          *http.Client
	loginURL            string
	attendanceExportURL string
	substitutesURL      string
	apiKey              string
	timeout             time.Duration
}

// NewClient creates an upstream client. A nil httpClient gets a default one
// bounded by cfg.Timeout.
func NewClient(cfg config.UpstreamConfig, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		httpClient:          httpClient,
		loginURL:            cfg.LoginURL(),
		attendanceExportURL: cfg.AttendanceExportURL(),
		substitutesURL:      cfg.SubstitutesURL(),
		apiKey:              cfg.APIKey,
		timeout:             timeout,
	}
}

// AttendanceExportURL is the endpoint scopes should query for CSV exports
func (c *Client) AttendanceExportURL() string {
	return c.attendanceExportURL
}

// SubstitutesURL is the endpoint scopes should query for substitute lists
func (c *Client) SubstitutesURL() string {
	return c.substitutesURL
}

// clientFor returns a client that sends the session's upstream token as a
// bearer credential. oauth2.NewClient drops the timeout, callers bound the
// request context instead.
func (c *Client) clientFor(ctx context.Context, token string) *http.Client {
	if token == "" {
		return c.httpClient
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
}

func (c *Client) do(client *http.Client, op string, req *http.Request) ([]byte, error) {
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnavailable, op, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		return nil, &StatusError{
			Op:         op,
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", ErrUnavailable, op, err)
	}
	return body, nil
}
