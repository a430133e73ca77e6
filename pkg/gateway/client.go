package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/artemisia-corp/storefront/pkg/errors"
	"github.com/artemisia-corp/storefront/pkg/metrics"
	"github.com/sony/gobreaker/v2"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultTimeout              = 10 * time.Second
	responseBodyReadLimit int64 = 4096
	breakerName                 = "marketplace"
)

var (
	errBaseURLRequired = errors.New("marketplace base url is required")
	errServerStatus    = errors.New("marketplace returned a server error")
)

// BreakerSettings tunes the circuit breaker guarding the backend.
type BreakerSettings struct {
	MaxFailures uint32
	OpenTimeout time.Duration
	Interval    time.Duration
}

// Client performs authenticated calls against the marketplace REST backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	breaker    *gobreaker.CircuitBreaker[*http.Response]
	settings   BreakerSettings
	metrics    *metrics.UpstreamMetrics
}

// Option configures optional client behavior.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 && c.httpClient != nil {
			c.httpClient.Timeout = timeout
		}
	}
}

// WithBreaker overrides the circuit breaker thresholds.
func WithBreaker(settings BreakerSettings) Option {
	return func(c *Client) {
		c.settings = settings
	}
}

// WithMetrics attaches upstream call metrics.
func WithMetrics(m *metrics.UpstreamMetrics) Option {
	return func(c *Client) {
		c.metrics = m
	}
}

// NewClient builds the backend client for the provided base URL (for example http://host/api).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, errBaseURLRequired
	}

	client := &Client{
		baseURL: trimmed,
		httpClient: &http.Client{
			Timeout:   defaultTimeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		settings: BreakerSettings{
			MaxFailures: 5,
			OpenTimeout: 30 * time.Second,
			Interval:    time.Minute,
		},
	}

	for _, opt := range opts {
		if opt != nil {
			opt(client)
		}
	}

	client.breaker = gobreaker.NewCircuitBreaker[*http.Response](client.breakerSettings())
	return client, nil
}

func (c *Client) breakerSettings() gobreaker.Settings {
	maxFailures := c.settings.MaxFailures
	if maxFailures == 0 {
		maxFailures = 5
	}
	return gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Interval:    c.settings.Interval,
		Timeout:     c.settings.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= maxFailures
		},
		OnStateChange: func(_ string, _ gobreaker.State, to gobreaker.State) {
			c.metrics.BreakerTransition(to.String())
		},
		IsSuccessful: func(err error) bool {
			return err == nil
		},
	}
}

// StatusError is the cause attached to upstream failures that produced an HTTP response.
type StatusError struct {
	Endpoint string
	Status   int
	Message  string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s: status %d: %s", e.Endpoint, e.Status, e.Message)
}

// StatusCode returns the upstream HTTP status.
func (e *StatusError) StatusCode() int {
	return e.Status
}

// StatusOf returns the upstream status carried by err, or zero.
func StatusOf(err error) int {
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return statusErr.Status
	}
	return 0
}

type request struct {
	endpoint string
	method   string
	path     string
	query    url.Values
	token    string
	body     any
	out      any
}

func (c *Client) do(ctx context.Context, req request) error {
	if c == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "marketplace client not configured")
	}

	var body io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "marshal "+req.endpoint+" request")
		}
		body = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.method, c.buildURL(req.path, req.query), body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build "+req.endpoint+" request")
	}
	httpReq.Header.Set("Accept", "application/json")
	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if token := strings.TrimSpace(req.token); token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+token)
	}
	if id := requestIDFrom(ctx); id != "" {
		httpReq.Header.Set(requestIDHeader, id)
	}

	started := time.Now()
	var resp *http.Response
	_, err = c.breaker.Execute(func() (*http.Response, error) {
		r, doErr := c.httpClient.Do(httpReq)
		if doErr != nil {
			return nil, doErr
		}
		resp = r
		if r.StatusCode >= http.StatusInternalServerError {
			return r, errServerStatus
		}
		return r, nil
	})
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		c.metrics.Observe(req.endpoint, 0, time.Since(started))
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "marketplace temporarily unavailable")
	case err != nil && resp == nil:
		c.metrics.Observe(req.endpoint, 0, time.Since(started))
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "marketplace unreachable")
	}

	c.metrics.Observe(req.endpoint, resp.StatusCode, time.Since(started))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusFailure(req.endpoint, resp)
	}

	if req.out == nil || resp.StatusCode == http.StatusNoContent {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "read "+req.endpoint+" response")
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, req.out); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeUpstream, err, "decode "+req.endpoint+" response")
	}
	return nil
}

func statusFailure(endpoint string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, responseBodyReadLimit))

	message := fmt.Sprintf("upstream request failed with status %d", resp.StatusCode)
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		message = strings.TrimSpace(payload.Message)
	}

	cause := &StatusError{Endpoint: endpoint, Status: resp.StatusCode, Message: message}
	return pkgerrors.Wrap(pkgerrors.CodeUpstream, cause, message).WithDetails(map[string]any{
		"status": resp.StatusCode,
	})
}

func (c *Client) buildURL(path string, query url.Values) string {
	path = strings.TrimLeft(path, "/")
	target := fmt.Sprintf("%s/%s", c.baseURL, path)
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	return target
}

func idPath(format string, id int64) string {
	return fmt.Sprintf(format, id)
}
