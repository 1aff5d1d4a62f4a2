package oracle

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/orderdesk/internal/domain/errors"
	"github.com/polkiloo/orderdesk/internal/domain/model"
)

const defaultRetryAfter = 5 * time.Second

// TooManyRequestsError represents rate limiting signal from the extraction oracle.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

// Request is the message content submitted for extraction.
type Request struct {
	Channel  model.Channel `json:"channel"`
	Subject  string        `json:"subject,omitempty"`
	Text     string        `json:"text"`
	MediaRef string        `json:"media_ref,omitempty"`
}

// Client turns message content into an untyped extraction.
type Client interface {
	Extract(ctx context.Context, req Request) (model.RawExtraction, error)
}

// HTTPClient implements Client via HTTP API.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPClient creates an oracle client with the given request timeout.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse oracle url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("oracle url must be absolute")
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// Extract posts the message to the oracle and decodes its JSON object response.
func (c *HTTPClient) Extract(ctx context.Context, in Request) (model.RawExtraction, error) {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, "/extract")

	body, err := json.Marshal(in)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		return nil, TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		payload, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}
		var raw model.RawExtraction
		if err := json.Unmarshal(payload, &raw); err != nil {
			return nil, fmt.Errorf("decode extraction: %w", err)
		}
		if raw == nil {
			raw = model.RawExtraction{}
		}
		return raw, nil
	default:
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		c.logger.Error("oracle request failed", slog.Int("status", resp.StatusCode), slog.String("body", string(payload)))
		return nil, fmt.Errorf("oracle error: %s", resp.Status)
	}
}

// Disabled is used when no oracle address is configured.
type Disabled struct{}

// Extract always fails with ErrOracleDisabled.
func (Disabled) Extract(context.Context, Request) (model.RawExtraction, error) {
	return nil, domainErrors.ErrOracleDisabled
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return defaultRetryAfter
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return defaultRetryAfter
}
