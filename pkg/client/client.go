package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/naveenspark/gacha/pkg/domain"
)

const (
	statusSuccess = "success"
	statusError   = "error"
)

// envelope is the response wrapper used by every service endpoint.
type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data,omitempty"`
	Message string          `json:"message,omitempty"`
}

// DrawRequest is the payload for a draw call.
type DrawRequest struct {
	UserID string          `json:"userId"`
	Type   domain.DrawType `json:"type"`
	Cost   int             `json:"cost"`
}

// Client is the gacha service API client.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithTimeout sets the per-request timeout. Timeouts surface as transport errors.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the request logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

// New creates a new API client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// InitUser logs a player in and returns their balance and the character pool.
func (c *Client) InitUser(ctx context.Context, userID string) (*domain.InitResult, error) {
	var res domain.InitResult
	if err := c.post(ctx, "/api/init", map[string]string{"userId": userID}, &res); err != nil {
		return nil, fmt.Errorf("client.InitUser: %w", err)
	}
	return &res, nil
}

// Draw spends cost tickets on a draw of type t for userID.
func (c *Client) Draw(ctx context.Context, userID string, t domain.DrawType, cost int) (*domain.DrawResult, error) {
	var res domain.DrawResult
	req := DrawRequest{UserID: userID, Type: t, Cost: cost}
	if err := c.post(ctx, "/api/draw", req, &res); err != nil {
		return nil, fmt.Errorf("client.Draw: %w", err)
	}
	return &res, nil
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("path", path).Msg("request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("request done")

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max body
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if jsonErr := json.Unmarshal(respBody, &env); jsonErr != nil || env.Status == "" {
		if resp.StatusCode >= 400 {
			return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
		}
		if jsonErr != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, jsonErr)
		}
		return fmt.Errorf("%w: missing status", ErrMalformedResponse)
	}

	switch env.Status {
	case statusError:
		return &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	case statusSuccess:
		if resp.StatusCode >= 400 {
			return &HTTPError{StatusCode: resp.StatusCode, Message: string(respBody)}
		}
	default:
		return fmt.Errorf("%w: unknown status %q", ErrMalformedResponse, env.Status)
	}

	if out != nil {
		if len(env.Data) == 0 {
			return fmt.Errorf("%w: missing data", ErrMalformedResponse)
		}
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
	}
	return nil
}
