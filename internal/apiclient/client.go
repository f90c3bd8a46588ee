package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/wanderlust-labs/destination-portal/internal/events"
	apperrors "github.com/wanderlust-labs/destination-portal/pkg/util/errorutil"
)

const maxErrorBody = 64 << 10

// Client talks JSON to the destination backend.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// Option configures a Client.
type Option func(*options)

type options struct {
	transport http.RoundTripper
	events    events.Dispatcher
	logger    *zap.Logger
}

// WithTransport replaces http.DefaultTransport underneath the bearer interceptor.
func WithTransport(rt http.RoundTripper) Option {
	return func(o *options) { o.transport = rt }
}

// WithEvents receives EventSessionRevoked when the backend answers 401 or 403.
func WithEvents(d events.Dispatcher) Option {
	return func(o *options) { o.events = d }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// New builds a client for baseURL. timeout bounds each call; zero means none.
func New(baseURL string, timeout time.Duration, opts ...Option) *Client {
	o := options{
		transport: http.DefaultTransport,
		events:    events.Nop,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
			Transport: &bearerTransport{
				base:   o.transport,
				events: o.events,
				logger: o.logger,
			},
		},
		logger: o.logger,
	}
}

// Do sends body as JSON and decodes a 2xx response into out when out is non-nil.
func (c *Client) Do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return apperrors.NewNetworkFailure(err)
	}
	defer resp.Body.Close()

	c.logger.Debug("backend request",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil && err != io.EOF {
			return apperrors.NewUpstreamError(resp.StatusCode, fmt.Sprintf("decode response: %v", err))
		}
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return statusError(resp.StatusCode, errorMessage(raw), isAnonymous(ctx))
}

// Ping checks that the backend answers HTTP at all. Any status counts as up.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(WithoutSession(ctx), http.MethodHead, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewNetworkFailure(err)
	}
	resp.Body.Close()
	return nil
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.Do(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPost, path, body, out)
}

func (c *Client) Put(ctx context.Context, path string, body, out any) error {
	return c.Do(ctx, http.MethodPut, path, body, out)
}

func (c *Client) Delete(ctx context.Context, path string) error {
	return c.Do(ctx, http.MethodDelete, path, nil, nil)
}

func statusError(status int, message string, anonymous bool) error {
	if anonymous && (status == http.StatusBadRequest || status == http.StatusUnauthorized || status == http.StatusForbidden) {
		if message == "" {
			message = "invalid credentials"
		}
		return apperrors.NewAuthFailure(message)
	}

	switch status {
	case http.StatusUnauthorized:
		return apperrors.NewUnauthorized(orDefault(message, "session expired"))
	case http.StatusForbidden:
		return apperrors.NewForbidden(orDefault(message, "not allowed"))
	case http.StatusNotFound:
		return apperrors.NewNotFound("resource", nil)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return apperrors.NewValidationError(orDefault(message, "rejected by destination service"), nil)
	case http.StatusConflict:
		return apperrors.NewConflict(orDefault(message, "conflict"), nil)
	default:
		return apperrors.NewUpstreamError(status, message)
	}
}

// errorMessage pulls a human readable message out of a backend error body.
func errorMessage(raw []byte) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return ""
	}
	var body struct {
		Message string `json:"message"`
		Error   any    `json:"error"`
	}
	if json.Unmarshal(raw, &body) == nil {
		if body.Message != "" {
			return body.Message
		}
		switch e := body.Error.(type) {
		case string:
			return e
		case map[string]any:
			if msg, ok := e["message"].(string); ok {
				return msg
			}
		}
		return ""
	}
	msg := string(raw)
	if len(msg) > 200 {
		msg = msg[:200]
	}
	return msg
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
