// Package backend provides a Go client for the legal-assistant RAG backend.
//
// The backend exposes two endpoints:
//
//	GET  /health  -> {status, documents_count?, documents?}
//	POST /query   -> {answer, sources: [{content, source}], documents_consulted}
//
// Example usage:
//
//	client := backend.NewClient("http://localhost:8000")
//
//	health, err := client.Health(ctx)
//	if err != nil {
//	    // backend.IsUnreachable(err), backend.IsTimeout(err), ...
//	}
//
//	resp, err := client.Query(ctx, "¿Qué dice la Constitución?")
//
// Every call runs under its own deadline (5s for health, 30s for queries by
// default). When the deadline expires the HTTP exchange is cancelled and the
// call fails with a Timeout error; a late response is never returned.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

const (
	// DefaultBaseURL is where the backend listens in a local setup.
	DefaultBaseURL = "http://localhost:8000"

	// DefaultHealthTimeout bounds a health check. Health checks are cheap and
	// used for polling, so the budget is short.
	DefaultHealthTimeout = 5 * time.Second

	// DefaultQueryTimeout bounds a query. Retrieval plus generation is slow.
	DefaultQueryTimeout = 30 * time.Second

	// maxErrorBody caps how much of a failed response body is kept.
	maxErrorBody = 4096
)

// Client is the HTTP client for the legal-assistant backend.
type Client struct {
	baseURL       string
	httpClient    *http.Client
	healthTimeout time.Duration
	queryTimeout  time.Duration
	logger        *Logger
	health        singleflight.Group
}

// ClientOption configures the client.
type ClientOption func(*Client)

// WithHTTPClient sets a custom HTTP client. Its own Timeout, if any, still
// applies on top of the per-call budgets.
func WithHTTPClient(c *http.Client) ClientOption {
	return func(client *Client) {
		if c != nil {
			client.httpClient = c
		}
	}
}

// WithHealthTimeout sets the per-call budget for Health.
func WithHealthTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		if d > 0 {
			client.healthTimeout = d
		}
	}
}

// WithQueryTimeout sets the per-call budget for Query.
func WithQueryTimeout(d time.Duration) ClientOption {
	return func(client *Client) {
		if d > 0 {
			client.queryTimeout = d
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l *Logger) ClientOption {
	return func(client *Client) {
		if l != nil {
			client.logger = l
		}
	}
}

// NewClient creates a new backend client. An empty baseURL selects
// DefaultBaseURL.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	if strings.TrimSpace(baseURL) == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:       strings.TrimSuffix(baseURL, "/"),
		httpClient:    &http.Client{},
		healthTimeout: DefaultHealthTimeout,
		queryTimeout:  DefaultQueryTimeout,
		logger:        GetLogger(),
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// BaseURL returns the backend base URL without a trailing slash.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// doRequest performs an HTTP request under the given budget and decodes the
// JSON response. All failures come back as *Error.
func (c *Client) doRequest(ctx context.Context, op, method, path string, budget time.Duration, body interface{}, result interface{}) error {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Op: op, Err: fmt.Errorf("marshal request body: %w", err)}
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	ctx, cancel := context.WithTimeout(ctx, budget)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, bodyReader)
	if err != nil {
		return &Error{Kind: KindUnreachable, Op: op, Err: fmt.Errorf("create request: %w", err)}
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	reqLog := c.logger.StartRequest(method, path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		cerr := classifyTransport(ctx, op, err)
		reqLog.Error(cerr)
		return cerr
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		serr := &Error{Kind: KindServer, Op: op, Status: resp.StatusCode, Body: string(bodyBytes)}
		reqLog.Error(serr)
		return serr
	}

	if result != nil {
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			cerr := classifyTransport(ctx, op, err)
			reqLog.Error(cerr)
			return cerr
		}
		if err := json.Unmarshal(data, result); err != nil {
			derr := &Error{
				Kind:   KindServer,
				Op:     op,
				Status: resp.StatusCode,
				Body:   truncateBody(data),
				Err:    fmt.Errorf("decode response: %w", err),
			}
			reqLog.Error(derr)
			return derr
		}
	}

	reqLog.Success(resp.StatusCode)
	return nil
}

// =============================================================================
// Health
// =============================================================================

// Health checks the backend health. Concurrent callers share one request;
// each caller still observes its own context cancellation.
func (c *Client) Health(ctx context.Context) (*HealthResponse, error) {
	ch := c.health.DoChan("health", func() (interface{}, error) {
		// Detach from the first caller so a cancelled poll does not fail a
		// manual retry that joined it; the health budget still applies.
		var result HealthResponse
		if err := c.doRequest(context.WithoutCancel(ctx), OpHealth, http.MethodGet, "/health", c.healthTimeout, nil, &result); err != nil {
			return nil, err
		}
		result.normalize()
		return &result, nil
	})

	select {
	case <-ctx.Done():
		return nil, classifyTransport(ctx, OpHealth, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		h := *res.Val.(*HealthResponse)
		h.Documents = append([]string(nil), h.Documents...)
		return &h, nil
	}
}

// =============================================================================
// Query
// =============================================================================

// Query submits a legal question and waits for the generated answer. An
// empty or whitespace-only question is rejected without a network call.
func (c *Client) Query(ctx context.Context, question string) (*QueryResponse, error) {
	if strings.TrimSpace(question) == "" {
		return nil, &Error{Kind: KindValidation, Op: OpQuery, Err: ErrEmptyQuestion}
	}

	var result QueryResponse
	req := &QueryRequest{Question: question}
	if err := c.doRequest(ctx, OpQuery, http.MethodPost, "/query", c.queryTimeout, req, &result); err != nil {
		return nil, err
	}
	result.normalize()
	return &result, nil
}

func truncateBody(b []byte) string {
	if len(b) > maxErrorBody {
		b = b[:maxErrorBody]
	}
	return string(b)
}
