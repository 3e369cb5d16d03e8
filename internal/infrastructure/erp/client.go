package erp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vivo/salesops-backend/internal/infrastructure/logger"
)

// maxResponseSize is the maximum allowed response size from the ERP (10MB)
const maxResponseSize = 10 * 1024 * 1024

// ErrUnavailable indicates the ERP could not be reached at all.
var ErrUnavailable = errors.New("erp: service unreachable")

// StatusError is a non-2xx answer from the ERP. Body carries the raw
// response text so upstream business messages survive to the caller.
type StatusError struct {
	Status int
	Body   string
}

// Error implements the error interface
func (e *StatusError) Error() string {
	return fmt.Sprintf("erp: unexpected status %d: %s", e.Status, e.Body)
}

// IsStatus reports whether err is a StatusError with the given HTTP status.
func IsStatus(err error, status int) bool {
	var statusErr *StatusError
	return errors.As(err, &statusErr) && statusErr.Status == status
}

// Config holds the connection settings for the OData gateway. BaseURL
// already encodes the company context and carries no trailing slash.
type Config struct {
	BaseURL       string
	Authorization string
	Timeout       time.Duration
}

// Client is the OData V4 gateway. Every repository in this package goes
// through it; the client itself never retries, never caches, and attaches
// the same fixed Authorization header to every request.
type Client struct {
	config     Config
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates a gateway client with the given configuration
func NewClient(config Config, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		logger: logger,
	}
}

// Fetch performs a GET and returns the raw response body.
func (c *Client) Fetch(ctx context.Context, path string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodGet, path, nil, "")
}

// Create performs a POST with a JSON body and returns the raw response body.
func (c *Client) Create(ctx context.Context, path string, body any) ([]byte, error) {
	return c.doRequest(ctx, http.MethodPost, path, body, "")
}

// Invoke performs a POST against a named ERP action. The etag is optional;
// when non-empty it is sent as If-Match.
func (c *Client) Invoke(ctx context.Context, path string, body any, etag string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodPost, path, body, etag)
}

// Update performs a conditional PATCH. The etag is sent as If-Match when
// non-empty; the caller owns conflict handling.
func (c *Client) Update(ctx context.Context, path string, body any, etag string) ([]byte, error) {
	return c.doRequest(ctx, http.MethodPatch, path, body, etag)
}

// Remove performs a conditional DELETE.
func (c *Client) Remove(ctx context.Context, path string, etag string) error {
	_, err := c.doRequest(ctx, http.MethodDelete, path, nil, etag)
	return err
}

// doRequest performs a single HTTP request against the ERP. A 204 answer
// yields an empty body and no error; any non-2xx status yields a
// *StatusError carrying the body text.
func (c *Client) doRequest(ctx context.Context, method, path string, body any, etag string) ([]byte, error) {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("erp: failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.config.BaseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("erp: failed to create request: %w", err)
	}

	req.Header.Set("Authorization", c.config.Authorization)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if etag != "" {
		req.Header.Set("If-Match", etag)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("erp: failed to read response: %w", err)
	}

	logger.FromContextOr(ctx, c.logger).Debug("ERP request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Status: resp.StatusCode, Body: string(respBody)}
	}

	if resp.StatusCode == http.StatusNoContent {
		return nil, nil
	}

	return respBody, nil
}

// odataCollection is the envelope every OData list response arrives in.
type odataCollection[T any] struct {
	Value []T `json:"value"`
}

// collection unwraps the OData {"value": [...]} envelope.
func collection[T any](body []byte) ([]T, error) {
	var envelope odataCollection[T]
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("erp: failed to parse collection response: %w", err)
	}
	return envelope.Value, nil
}

// entity parses a single OData entity response body.
func entity[T any](body []byte) (*T, error) {
	var value T
	if err := json.Unmarshal(body, &value); err != nil {
		return nil, fmt.Errorf("erp: failed to parse entity response: %w", err)
	}
	return &value, nil
}
