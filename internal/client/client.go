package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"meo-pos/internal/metrics"

	"github.com/rs/zerolog"
)

// Client is a thin wrapper over the backend REST API. The base URL is
// injected explicitly; there is no built-in production fallback.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zerolog.Logger
}

// New builds a Client. An empty baseURL is a configuration error, and a
// non-positive timeout disables the client-side deadline (context
// deadlines still apply).
func New(baseURL string, timeout time.Duration, logger *zerolog.Logger) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}

	if logger == nil {
		l := zerolog.New(os.Stdout).With().Timestamp().Logger()
		logger = &l
	}

	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
		logger:  logger,
	}, nil
}

// BaseURL returns the configured base URL (for display, e.g. bot footer).
func (c *Client) BaseURL() string {
	return c.baseURL
}

// resolve joins the base URL and a path, normalizing the slash between.
func (c *Client) resolve(path string) string {
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return c.baseURL + path
}

// do issues one request. body (when non-nil) is JSON-encoded; on a JSON
// success response the body is decoded into out. Callers may pass extra
// header maps, which win over the JSON Content-Type default. Errors are
// *NetworkError or *RequestError and are never retried here.
func (c *Client) do(ctx context.Context, op, method, path string, body, out interface{}, headers ...map[string]string) error {
	url := c.resolve(path)

	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", op, err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return fmt.Errorf("build %s request: %w", op, err)
	}
	req.Header.Set("Content-Type", "application/json")
	for _, h := range headers {
		for k, v := range h {
			req.Header.Set(k, v)
		}
	}

	start := time.Now()
	res, err := c.http.Do(req)
	if err != nil {
		metrics.ObserveAPIRequest(op, 0, time.Since(start))
		c.logger.Error().Err(err).Str("op", op).Str("url", url).Msg("API request failed")
		return &NetworkError{URL: url, Err: err}
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		metrics.ObserveAPIRequest(op, 0, time.Since(start))
		return &NetworkError{URL: url, Err: err}
	}

	metrics.ObserveAPIRequest(op, res.StatusCode, time.Since(start))
	c.logger.Debug().
		Str("op", op).
		Str("url", url).
		Int("status", res.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("API request")

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return &RequestError{
			URL:        url,
			StatusCode: res.StatusCode,
			Status:     http.StatusText(res.StatusCode),
			Body:       strings.TrimSpace(string(raw)),
		}
	}

	if out == nil {
		return nil
	}

	// Some endpoints answer with an empty body or plain text acks.
	ct := res.Header.Get("Content-Type")
	if strings.Contains(ct, "application/json") && len(raw) > 0 {
		if err := json.Unmarshal(raw, out); err != nil {
			return fmt.Errorf("decode %s response: %w", op, err)
		}
		return nil
	}

	if text, ok := out.(*string); ok {
		*text = string(raw)
	}
	return nil
}
