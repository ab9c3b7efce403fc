// Package api is the single point of egress for all Smart Turbo backend
// calls. The gateway attaches bearer-token authentication to every
// outgoing request and centralizes response-error classification, so the
// typed resource methods need no knowledge of either.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// DefaultTimeout bounds every request; past it the call fails with a
// connectivity-class error.
const DefaultTimeout = 30 * time.Second

const tracerName = "smartturbo.api"

// TokenSource supplies the current bearer token. Implementations read
// persisted storage rather than holding the token in memory, so the
// gateway honors a token cleared or replaced by another process on the
// very next request.
type TokenSource interface {
	// Token returns the current bearer token, or "" when no session exists.
	Token() string
}

// Invalidator reacts to a 401 response. The gateway calls it exactly once
// per failing request; implementations clear the persisted token and
// direct the user back to the login entry point.
type Invalidator interface {
	SessionInvalid()
}

// Client is the HTTP gateway to the Smart Turbo backend. All typed
// resource methods dispatch through Do. The zero value is not usable;
// construct with NewClient.
type Client struct {
	baseURL     string
	timeout     time.Duration
	httpClient  *http.Client
	tokens      TokenSource
	invalidator Invalidator
	metrics     *Metrics
	logger      *slog.Logger
	tracer      trace.Tracer
}

// NewClient creates a new gateway client. It reads the base URL from the
// SMART_TURBO_API_URL environment variable by default; options override
// the defaults.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL: os.Getenv("SMART_TURBO_API_URL"),
		timeout: DefaultTimeout,
		logger:  slog.Default(),
		tracer:  otel.Tracer(tracerName),
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.baseURL == "" {
		c.baseURL = "http://localhost:8080"
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{
			Timeout: c.timeout,
		}
	}

	return c
}

// SetInvalidator installs the 401 handler after construction. The
// session store needs the client to exist first, so the wiring is a
// two-step.
func (c *Client) SetInvalidator(inv Invalidator) {
	c.invalidator = inv
}

// BaseURL returns the configured backend base URL.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Do performs an HTTP request against the backend and decodes the
// response into result.
//
// The bearer token is re-read from the token source on every call. On a
// 401 the configured invalidator fires once and the call returns an
// *AuthError; 403, other 4xx, 5xx, and transport failures map to
// *ForbiddenError, *APIError, *ServerError, and *ConnError respectively.
// Side effects are confined to the 401 path. The gateway never retries.
//
// result may be nil (discard body), *string or *[]byte (raw body, for
// report documents), or any JSON-decodable target.
func (c *Client) Do(ctx context.Context, method, path string, query url.Values, body, result any) error {
	reqURL := strings.TrimRight(c.baseURL, "/") + path
	if len(query) > 0 {
		reqURL += "?" + query.Encode()
	}

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", method),
			attribute.String("url.path", path),
		),
	)
	defer span.End()

	httpReq, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	httpReq.Header.Set("X-Request-Id", uuid.New().String())

	// Resolve the authorization header at call time, not construction time.
	if c.tokens != nil {
		if token := c.tokens.Token(); token != "" {
			httpReq.Header.Set("Authorization", "Bearer "+token)
		}
	}

	start := time.Now()
	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		// No response received: connection refused, DNS, TLS, timeout.
		span.SetStatus(codes.Error, "unreachable")
		c.record(method, "unreachable", start)
		return &ConnError{Cause: err}
	}
	defer httpResp.Body.Close()

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		span.SetStatus(codes.Error, "read body")
		c.record(method, "unreachable", start)
		return &ConnError{Cause: err}
	}

	span.SetAttributes(attribute.Int("http.response.status_code", httpResp.StatusCode))

	if httpResp.StatusCode >= 200 && httpResp.StatusCode < 300 {
		c.record(method, "ok", start)
		return decodeResult(respBody, result)
	}

	classified := classify(httpResp.StatusCode, respBody)
	span.SetStatus(codes.Error, http.StatusText(httpResp.StatusCode))
	c.record(method, outcome(classified), start)

	switch e := classified.(type) {
	case *AuthError:
		// Session invalid: reset credentials and move to login. The
		// in-flight call still fails so the caller can abort its action.
		if c.invalidator != nil {
			c.invalidator.SessionInvalid()
		}
	case *ForbiddenError:
		c.logger.Error("access denied",
			"method", method, "path", path, "message", e.Payload.Message)
	case *ServerError:
		c.logger.Error("server error",
			"method", method, "path", path,
			"status", e.StatusCode, "message", e.Payload.Message)
	}

	return classified
}

// Get issues a GET request. Thin signature sugar over Do.
func (c *Client) Get(ctx context.Context, path string, query url.Values, result any) error {
	return c.Do(ctx, http.MethodGet, path, query, nil, result)
}

// Post issues a POST request. Thin signature sugar over Do.
func (c *Client) Post(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPost, path, nil, body, result)
}

// Put issues a PUT request. Thin signature sugar over Do.
func (c *Client) Put(ctx context.Context, path string, body, result any) error {
	return c.Do(ctx, http.MethodPut, path, nil, body, result)
}

// Delete issues a DELETE request. Thin signature sugar over Do.
func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil, nil)
}

// classify maps a non-2xx response to its error kind. Pure: the 401
// session-reset side effect lives in Do, not here, so the mapping can be
// tested without touching navigation.
func classify(status int, body []byte) error {
	var payload ErrorResponse
	if len(body) > 0 {
		if err := json.Unmarshal(body, &payload); err != nil {
			// Non-JSON error body; keep the raw text for display.
			payload = ErrorResponse{Status: status, Message: strings.TrimSpace(string(body))}
		}
	}

	switch {
	case status == http.StatusUnauthorized:
		return &AuthError{Payload: payload}
	case status == http.StatusForbidden:
		return &ForbiddenError{Payload: payload}
	case status >= 500:
		return &ServerError{StatusCode: status, Payload: payload}
	default:
		return &APIError{StatusCode: status, Payload: payload}
	}
}

// outcome labels a classified error for the request counter.
func outcome(err error) string {
	switch err.(type) {
	case *AuthError:
		return "unauthorized"
	case *ForbiddenError:
		return "forbidden"
	case *ServerError:
		return "server_error"
	default:
		return "client_error"
	}
}

// decodeResult fills result from the response body. Raw targets (*string,
// *[]byte) receive the body verbatim; anything else is JSON-decoded.
func decodeResult(body []byte, result any) error {
	if result == nil {
		return nil
	}
	switch target := result.(type) {
	case *string:
		*target = string(body)
		return nil
	case *[]byte:
		*target = body
		return nil
	}
	if len(body) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	return nil
}

// record reports one completed request to the metrics recorder, if any.
func (c *Client) record(method, result string, start time.Time) {
	if c.metrics == nil {
		return
	}
	c.metrics.RequestsTotal.WithLabelValues(method, result).Inc()
	c.metrics.RequestDuration.WithLabelValues(method).Observe(time.Since(start).Seconds())
}
