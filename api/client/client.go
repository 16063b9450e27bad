package client

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

	"github.com/google/uuid"
	"github.com/sethvargo/go-retry"

	"github.com/agrotrade/agrotrade-client/pkg/config"
	pkgerrors "github.com/agrotrade/agrotrade-client/pkg/errors"
	"github.com/agrotrade/agrotrade-client/pkg/logger"
	"github.com/agrotrade/agrotrade-client/pkg/types"
)

var errLoggerRequired = errors.New("api client logger is required")

// maxErrorBodyBytes bounds how much of a failed response is kept for logs.
const maxErrorBodyBytes = 8 << 10

// TokenSource supplies the bearer token attached to authenticated requests.
// Implementations refresh the token themselves when it is about to expire.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}

// Client is the shared HTTP core for every marketplace endpoint group. It
// centralizes auth, request IDs, logging, retry, and error mapping; the
// domain services own only their paths and payload types.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	attempts   uint64
	baseDelay  time.Duration
	tokens     TokenSource
	logger     *logger.Logger
}

// Option customizes the client at construction.
type Option func(*Client)

// WithTokenSource attaches a bearer-token supplier. Requests go out anonymous
// without one.
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithHTTPClient swaps the underlying transport, mainly for tests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New initializes the API client against the configured base URL.
func New(ctx context.Context, cfg config.APIConfig, logg *logger.Logger, opts ...Option) (*Client, error) {
	if logg == nil {
		return nil, errLoggerRequired
	}
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}

	c := &Client{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    baseURL,
		userAgent:  cfg.UserAgent,
		attempts:   cfg.RetryAttempts,
		baseDelay:  cfg.RetryBaseDelay,
		logger:     logg,
	}
	if c.baseDelay <= 0 {
		c.baseDelay = 250 * time.Millisecond
	}
	for _, opt := range opts {
		opt(c)
	}

	logg.Info(ctx, "api client initialized")
	return c, nil
}

// Get issues a GET and returns the raw response body.
func (c *Client) Get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// Post issues a POST with a JSON body and returns the raw response body.
func (c *Client) Post(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

// Put issues a PUT with a JSON body and returns the raw response body.
func (c *Client) Put(ctx context.Context, path string, body any) ([]byte, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

// Delete issues a DELETE and returns the raw response body.
func (c *Client) Delete(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodDelete, path, nil, nil)
}

// do runs the request with retry. Only idempotent methods are retried
// automatically: a POST that died mid-flight may have been applied, and
// re-sending it would create the listing or message twice. Every attempt of
// one logical request carries the same X-Request-ID, so backends that dedupe
// on it stay safe and log correlation spans the whole retry run.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any) ([]byte, error) {
	endpoint := "/" + strings.TrimLeft(path, "/")
	requestID := uuid.NewString()

	var payload []byte
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode request body")
		}
		payload = encoded
	}

	ctx = c.logger.WithRequestID(ctx, requestID)
	ctx = c.logger.WithEndpoint(ctx, endpoint)
	c.logger.Debug(ctx, fmt.Sprintf("api %s %s", method, endpoint))

	attempts := c.attempts
	if !idempotent(method) {
		attempts = 0
	}

	var result []byte
	backoff := retry.WithMaxRetries(attempts, retry.NewFibonacci(c.baseDelay))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		out, attemptErr := c.attempt(ctx, method, endpoint, requestID, query, payload)
		if attemptErr != nil {
			if pkgerrors.Retryable(attemptErr) {
				c.logger.Warn(ctx, fmt.Sprintf("api %s %s retrying: %v", method, endpoint, attemptErr))
				return retry.RetryableError(attemptErr)
			}
			return attemptErr
		}
		result = out
		return nil
	})
	if err != nil {
		ctx = c.logger.WithField(ctx, "error_dump", pkgerrors.Dump(err))
		c.logger.Error(ctx, fmt.Sprintf("api %s %s failed", method, endpoint), err)
		return nil, err
	}
	return result, nil
}

// idempotent reports whether the method is safe to re-send without risking a
// duplicated side effect. PUT and DELETE replace or remove a named resource,
// so a repeat lands on the same state.
func idempotent(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete:
		return true
	}
	return false
}

func (c *Client) attempt(ctx context.Context, method, endpoint, requestID string, query url.Values, payload []byte) ([]byte, error) {
	fullURL := c.baseURL + endpoint
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, fullURL, reader)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build request")
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.tokens != nil {
		token, err := c.tokens.AccessToken(ctx)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeUnauthorized, err, "resolve access token")
		}
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, fmt.Sprintf("%s %s", method, endpoint))
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeNetwork, err, "read response body")
	}

	if resp.StatusCode >= 400 {
		return nil, c.mapHTTPError(resp.StatusCode, endpoint, raw)
	}
	return raw, nil
}

// mapHTTPError converts a failed response into a typed error, preferring the
// backend's own message over the generic one for the mapped code.
func (c *Client) mapHTTPError(status int, endpoint string, body []byte) error {
	code := codeForStatus(status)

	message := pkgerrors.MetadataFor(code).PublicMessage
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil {
		if m := envelope.BestMessage(); m != "" {
			message = m
		}
	}

	cause := &pkgerrors.HTTPError{
		StatusCode: status,
		Endpoint:   endpoint,
		Body:       truncate(string(body), maxErrorBodyBytes),
	}
	return pkgerrors.Wrap(code, cause, message)
}

func codeForStatus(status int) pkgerrors.Code {
	switch status {
	case http.StatusUnauthorized:
		return pkgerrors.CodeUnauthorized
	case http.StatusForbidden:
		return pkgerrors.CodeForbidden
	case http.StatusNotFound:
		return pkgerrors.CodeNotFound
	case http.StatusConflict:
		return pkgerrors.CodeConflict
	case http.StatusTooManyRequests:
		return pkgerrors.CodeRateLimit
	case http.StatusBadRequest:
		return pkgerrors.CodeValidation
	default:
		if status >= 400 && status < 500 {
			return pkgerrors.CodeValidation
		}
		return pkgerrors.CodeNetwork
	}
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	return s[:limit]
}
