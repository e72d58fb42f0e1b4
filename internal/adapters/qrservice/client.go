// Package qrservice fetches real QR images from the third-party endpoint.
// Callers are expected to fall back to a local pattern on any error.
package qrservice

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/okian/nestudio/internal/domain/model"
	"github.com/okian/nestudio/pkg/metrics"
)

const (
	defaultTimeout  = 2500 * time.Millisecond
	defaultMaxBytes = 1 << 20
)

// Client talks to a create-qr-code style endpoint: GET ?size=WxH&data=...
type Client struct {
	endpoint   string
	httpClient *http.Client
	timeout    time.Duration
	maxBytes   int64
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithHTTPClient replaces the transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithMaxBytes caps the accepted body size.
func WithMaxBytes(n int64) Option {
	return func(c *Client) {
		if n > 0 {
			c.maxBytes = n
		}
	}
}

// New creates a client for endpoint.
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{},
		timeout:    defaultTimeout,
		maxBytes:   defaultMaxBytes,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the request URL for data at size pixels.
func (c *Client) URL(data string, size int) string {
	s := strconv.Itoa(size)
	q := url.Values{}
	q.Set("size", s+"x"+s)
	q.Set("data", data)
	sep := "?"
	if strings.Contains(c.endpoint, "?") {
		sep = "&"
	}
	return c.endpoint + sep + q.Encode()
}

// Fetch downloads the QR image for data.
func (c *Client) Fetch(ctx context.Context, data string, size int) (model.Image, error) {
	if data == "" {
		return model.Image{}, ErrEmptyData
	}

	start := time.Now()
	defer func() {
		metrics.RecordQRFetchLatency(float64(time.Since(start).Milliseconds()))
	}()

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.URL(data, size), nil)
	if err != nil {
		return model.Image{}, fmt.Errorf("%w: build request: %w", ErrUnavailable, err)
	}
	req.Header.Set("Accept", "image/*")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.RecordErrorByComponent("qrservice", "transport")
		return model.Image{}, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.RecordErrorByComponent("qrservice", "status")
		return model.Image{}, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	contentType := resp.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "image/") {
		metrics.RecordErrorByComponent("qrservice", "not_image")
		return model.Image{}, fmt.Errorf("%w: %q", ErrNotImage, contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBytes+1))
	if err != nil {
		metrics.RecordErrorByComponent("qrservice", "read")
		return model.Image{}, fmt.Errorf("%w: read body: %w", ErrUnavailable, err)
	}
	if int64(len(body)) > c.maxBytes {
		return model.Image{}, ErrTooLarge
	}
	if len(body) == 0 {
		return model.Image{}, fmt.Errorf("%w: empty body", ErrNotImage)
	}
	return model.Image{ContentType: mediaType, Body: body}, nil
}
