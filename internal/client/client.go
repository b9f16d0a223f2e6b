// Package client talks to the listings API the way the submission form does:
// one request per user gesture, no retries.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"rental-listings/internal/listing"
	"rental-listings/internal/models"
)

// DefaultTimeout bounds every API request
const DefaultTimeout = 30 * time.Second

const (
	// maxResponseBytes caps how much of a response body is read
	maxResponseBytes int64 = 1 << 20
	// maxListResponseBytes caps the unpaginated listing grid
	maxListResponseBytes int64 = 64 << 20
)

// ErrResponseTooLarge is returned when a response body exceeds its cap
var ErrResponseTooLarge = errors.New("response too large")

// APIError is a non-2xx response from the API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error: status %d", e.Status)
	}
	return fmt.Sprintf("api error: status %d: %s", e.Status, e.Message)
}

// Client calls the image upload and listing endpoints
type Client struct {
	baseURL string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client
type Option func(*Client)

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.http.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

func New(baseURL string, log *zap.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout: DefaultTimeout,
		},
		log: log.Named("client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type uploadRequest struct {
	Image string `json:"image"`
}

type uploadResponse struct {
	URL string `json:"url"`
}

// UploadImage sends a data URI to the upload endpoint and returns the public
// URL. An empty payload returns immediately without a request.
func (c *Client) UploadImage(ctx context.Context, payload string) (string, error) {
	if payload == "" {
		return "", nil
	}

	var resp uploadResponse
	if err := c.do(ctx, http.MethodPost, "/api/image-upload", uploadRequest{Image: payload}, &resp, maxResponseBytes); err != nil {
		return "", err
	}
	if resp.URL == "" {
		return "", fmt.Errorf("upload response has no url")
	}
	return resp.URL, nil
}

// CreateListing submits a listing and returns the stored record
func (c *Client) CreateListing(ctx context.Context, in listing.Input) (*models.Listing, error) {
	var out models.Listing
	if err := c.do(ctx, http.MethodPost, "/api/homes", in, &out, maxResponseBytes); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListListings fetches every listing, newest first
func (c *Client) ListListings(ctx context.Context) ([]models.Listing, error) {
	var out []models.Listing
	if err := c.do(ctx, http.MethodGet, "/api/listings", nil, &out, maxListResponseBytes); err != nil {
		return nil, err
	}
	return out, nil
}

type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any, limit int64) error {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Request failed", zap.String("method", method), zap.String("path", path), zap.Error(err))
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, limit+1))
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(data)) > limit {
		return fmt.Errorf("%w: %s %s returned more than %d bytes", ErrResponseTooLarge, method, path, limit)
	}

	c.log.Debug("Request completed",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		var eb errorBody
		if json.Unmarshal(data, &eb) == nil {
			apiErr.Message = eb.Message
			if apiErr.Message == "" {
				apiErr.Message = eb.Error
			}
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
